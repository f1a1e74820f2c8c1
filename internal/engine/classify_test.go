package engine

import "testing"

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		text string
		want Category
	}{
		{"Я тебя люблю", CategoryRomantic},
		{"Расскажу тебе свой секрет", CategoryPersonal},
		{"Поддержи меня, пожалуйста", CategorySupport},
		{"Ты очень красивая сегодня", CategoryCompliment},
		{"Почему небо голубое", CategoryQuestion},
		{"Сегодня был обычный день?", CategoryQuestion},
		{"привет", CategoryQuestion},
		// romantic wins over compliment even when both match
		{"Ты милая, я влюбился", CategoryRomantic},
	}
	for _, tt := range tests {
		if got := Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestClassifyStory(t *testing.T) {
	long := "Вчера я гулял по парку и встретил старого друга которого не видел десять лет мы долго разговаривали о жизни и вспоминали школу"
	if got := Classify(long); got != CategoryStory {
		t.Fatalf("Classify(long) = %s, want %s", got, CategoryStory)
	}
}

func TestIsRude(t *testing.T) {
	rude := []string{"ты дурак", "ЗАТКНИСЬ", "ты меня бесишь", "какое говно"}
	for _, s := range rude {
		if !IsRude(s) {
			t.Errorf("IsRude(%q) = false, want true", s)
		}
	}
	polite := []string{"привет", "как дела?", "ты замечательная"}
	for _, s := range polite {
		if IsRude(s) {
			t.Errorf("IsRude(%q) = true, want false", s)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	const text = "Как прошёл твой день?"
	first := Classify(text)
	for i := 0; i < 100; i++ {
		if got := Classify(text); got != first {
			t.Fatalf("classification flapped: %s then %s", first, got)
		}
	}
}
