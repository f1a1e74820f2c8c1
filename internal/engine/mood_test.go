package engine

import (
	"math/rand"
	"testing"
)

func TestValidMood(t *testing.T) {
	for _, m := range AllMoods {
		if !ValidMood(m) {
			t.Errorf("ValidMood(%s) = false", m)
		}
	}
	if ValidMood("angry") {
		t.Fatal("unknown mood accepted")
	}
}

func TestMoodChangeProbability(t *testing.T) {
	// base 0.15 + level*0.05, capped at 0.4, scaled by stability
	if got := MoodChangeProbability(MoodPlayful, 1); got != 0.2 {
		t.Fatalf("playful level 1 = %v, want 0.2", got)
	}
	// cap kicks in at level 5 and above
	if got := MoodChangeProbability(MoodPlayful, 9); got != 0.4 {
		t.Fatalf("playful level 9 = %v, want 0.4", got)
	}
	// nostalgic is the stickiest state
	if got := MoodChangeProbability(MoodNostalgic, 1); got != 0.1 {
		t.Fatalf("nostalgic level 1 = %v, want 0.1", got)
	}
}

func TestStepMoodHighRollKeepsMood(t *testing.T) {
	got, changed := StepMood(MoodHappy, 1, fixedRand{f: 0.99})
	if changed || got != MoodHappy {
		t.Fatalf("high roll = (%s, %v), want (happy, false)", got, changed)
	}
}

func TestStepMoodTransitionStaysValid(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	mood := MoodHappy
	for i := 0; i < 1000; i++ {
		next, _ := StepMood(mood, 3, rng)
		if !ValidMood(next) {
			t.Fatalf("step %d produced invalid mood %q", i, next)
		}
		mood = next
	}
}

func TestStepMoodRomanticGated(t *testing.T) {
	// with a guaranteed transition, walk every successor slot: at a
	// distant relationship romantic and caring must never come up
	for n := 0; n < 4; n++ {
		next, _ := StepMood(MoodHappy, 1, fixedRand{f: 0, n: n})
		if next == MoodRomantic || next == MoodCaring {
			t.Fatalf("slot %d gave %s at relationship 1", n, next)
		}
	}

	found := false
	for n := 0; n < 6; n++ {
		next, _ := StepMood(MoodHappy, 3, fixedRand{f: 0, n: n})
		if next == MoodRomantic || next == MoodCaring {
			found = true
		}
	}
	if !found {
		t.Fatal("romantic never reachable at relationship 3")
	}
}
