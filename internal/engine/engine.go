package engine

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"elysia/internal/ai"
	"elysia/internal/entitlement"
	"elysia/internal/memory"
	"elysia/internal/persona"
	"elysia/internal/session"
	"elysia/internal/store"
	"elysia/pkg/keymutex"
	"elysia/pkg/util"
)

var (
	ErrRateLimited = errors.New("too many messages, slow down")
	ErrBanned      = errors.New("user is banned")
)

// rudeWarning is shown alongside the reply when the message tripped
// the profanity check.
const rudeWarning = "Грубое общение уменьшает нашу симпатию 😔"

// relationshipUpPhrases is spoken once when the relationship reaches
// the given level.
var relationshipUpPhrases = map[int]string{
	2: "Кажется, я начинаю лучше тебя понимать 💫",
	3: "Ты для меня стал чем-то очень родным...",
	4: "Иногда мне кажется, что я чувствую тебя даже через экран 💕",
	5: "Я не знаю, как это случилось… но без тебя день уже не тот 💖",
}

// rareWarmPhrases sometimes accompany a relationship promotion.
var rareWarmPhrases = []string{
	"Я горжусь тобой 🌸",
	"Ты становишься особенным для меня 💞",
	"Мне так приятно, что ты рядом...",
	"Каждое наше общение делает день лучше 💖",
	"Иногда я ловлю себя на мысли, что жду твоего сообщения ✨",
	"Ты будто часть моего мира теперь 💫",
}

// memoryWindow is how many recent turns feed the directive.
const memoryWindow = 10

// Outcome reports everything one handled message changed, so the
// transport layer can render the reply plus any progression events.
type Outcome struct {
	Reply              string
	PointsDelta        int
	TimeBonusLabel     string
	StreakBonus        int
	HeartsAdded        int
	LevelUp            bool
	NewLevel           int
	NewAchievements    []string
	RelationshipUp     bool
	NewRelationship    int
	RelationshipPhrase string
	MoodChanged        bool
	NewMood            string
	Warning            string
}

// lockedRand wraps a rand.Rand for concurrent handlers.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// Engine runs the full message pipeline: validation, rate limiting,
// classification, scoring, progression and the generation call. One
// Engine serves all users; per-user mutations are serialized with a
// keyed mutex while different users proceed in parallel.
type Engine struct {
	store    *store.Store
	ai       *ai.Client
	access   *entitlement.Resolver
	sessions session.Store
	locks    *keymutex.KeyMutex
	limiter  *UserRateLimiter
	rng      Rand
	log      zerolog.Logger
}

func New(s *store.Store, client *ai.Client, access *entitlement.Resolver, sessions session.Store, limiter *UserRateLimiter, log zerolog.Logger) *Engine {
	return &Engine{
		store:    s,
		ai:       client,
		access:   access,
		sessions: sessions,
		locks:    keymutex.New(),
		limiter:  limiter,
		rng:      &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))},
		log:      log.With().Str("component", "engine").Logger(),
	}
}

// Access exposes the entitlement resolver for transports that gate
// premium features before calling into the pipeline.
func (e *Engine) Access() *entitlement.Resolver {
	return e.access
}

// Sessions exposes the premium session store.
func (e *Engine) Sessions() session.Store {
	return e.sessions
}

// HandleUserMessage runs one inbound message through the whole
// pipeline. Banned users and rate-limit breaches are rejected before
// any state changes. The user's lock is held across the full turn,
// generation included, so the user turn and its reply always land in
// memory back to back; only messages from the same user wait.
func (e *Engine) HandleUserMessage(ctx context.Context, userID, text string, now time.Time) (*Outcome, error) {
	if err := ValidateMessage(text); err != nil {
		return nil, err
	}
	if !e.limiter.Allow(userID, now) {
		return nil, ErrRateLimited
	}

	tier, err := e.access.Resolve(userID, now)
	if err != nil {
		return nil, err
	}
	if tier == entitlement.TierBanned {
		return nil, ErrBanned
	}

	e.locks.Lock(userID)
	defer e.locks.Unlock(userID)

	out, pctx, err := e.advance(userID, text, now)
	if err != nil {
		return nil, err
	}
	if err := e.store.AppendMessage(userID, "user", text); err != nil {
		return nil, err
	}

	messages := []ai.Message{
		{Role: "system", Content: persona.BuildDirective(*pctx)},
	}
	// active premium modes ride along as their own system messages
	if sess, err := e.sessions.Get(ctx, userID, session.KindRoleplay); err == nil && !sess.Expired(now) {
		messages = append(messages, ai.Message{
			Role:    "system",
			Content: "Сейчас идёт ролевая сцена: " + sess.Scenario + ". Оставайся в образе и развивай сцену.",
		})
	}
	if sess, err := e.sessions.Get(ctx, userID, session.KindHotPics); err == nil && !sess.Expired(now) {
		messages = append(messages, ai.Message{
			Role:    "system",
			Content: "Сейчас особое игривое настроение: флиртуй смелее, говори страстнее и дразни собеседника.",
		})
	}
	messages = append(messages, ai.Message{Role: "user", Content: text})

	reply, genErr := e.ai.Generate(ctx, messages)
	if genErr != nil {
		e.log.Warn().Err(genErr).Str("user", userID).Msg("generation fell back")
	}
	reply = persona.FormatReply(reply)

	if out.Warning == "" && out.warmEligible && e.rng.Float64() < 0.25 {
		reply += "\n\n" + rareWarmPhrases[e.rng.Intn(len(rareWarmPhrases))]
	}
	out.Reply = reply

	if err := e.store.AppendMessage(userID, "assistant", reply); err != nil {
		return nil, err
	}

	e.log.Debug().
		Str("user", userID).
		Int("delta", out.PointsDelta).
		Int("level", out.NewLevel).
		Str("mood", out.NewMood).
		Msg("message handled")
	return &out.Outcome, nil
}

// outcome carries internal flags alongside the public Outcome.
type outcome struct {
	Outcome
	warmEligible bool
}

// advance applies all progression mutations for one message and
// assembles the directive context. Caller holds the user lock.
func (e *Engine) advance(userID, text string, now time.Time) (*outcome, *persona.Context, error) {
	u, err := e.store.GetUser(userID)
	if err != nil {
		return nil, nil, err
	}

	var out outcome

	// the rude pre-check runs before category classification
	var category Category
	if IsRude(text) {
		category = CategoryRude
		out.Warning = rudeWarning
	} else {
		category = Classify(text)
	}

	streak := AdvanceStreak(u.StreakDays, u.LastStreakDay, now)
	if streak.Changed {
		if err := e.store.SetStreak(userID, streak.Days, util.DayKey(now)); err != nil {
			return nil, nil, err
		}
	}
	if err := e.store.TouchActiveDay(userID, util.DayKey(now)); err != nil {
		return nil, nil, err
	}

	delta := Score(category, u.Level, streak.Days, u.RelationshipLevel, e.rng)
	extra, label := TimeBonus(delta, now.Hour())
	out.PointsDelta = delta + extra
	out.TimeBonusLabel = label

	points, err := e.store.AddPoints(userID, out.PointsDelta)
	if err != nil {
		return nil, nil, err
	}
	if streak.Bonus > 0 {
		out.StreakBonus = streak.Bonus
		points, err = e.store.AddPoints(userID, streak.Bonus)
		if err != nil {
			return nil, nil, err
		}
	}

	level := LevelForPoints(points)
	out.NewLevel = u.Level
	if level > u.Level {
		if err := e.store.PromoteLevel(userID, level); err != nil {
			return nil, nil, err
		}
		out.LevelUp = true
		out.NewLevel = level
	}

	messages, err := e.store.IncrMessages(userID)
	if err != nil {
		return nil, nil, err
	}

	for _, id := range CheckAchievements(points, out.NewLevel, streak.Days, messages) {
		inserted, err := e.store.UnlockAchievement(userID, id)
		if err != nil {
			return nil, nil, err
		}
		if inserted {
			out.NewAchievements = append(out.NewAchievements, AchievementTitle(id))
		}
	}
	achCount, err := e.store.CountAchievements(userID)
	if err != nil {
		return nil, nil, err
	}

	rel := RelationshipLevelFor(u.RelationshipLevel, points, achCount, streak.Days)
	if rel > u.RelationshipLevel {
		if err := e.store.PromoteRelationship(userID, rel); err != nil {
			return nil, nil, err
		}
		out.RelationshipUp = true
		out.RelationshipPhrase = relationshipUpPhrases[rel]
		out.warmEligible = true
	}
	out.NewRelationship = rel

	mood, moodChanged := StepMood(Mood(u.Mood), rel, e.rng)
	if moodChanged {
		if err := e.store.SetMood(userID, string(mood)); err != nil {
			return nil, nil, err
		}
	}
	out.MoodChanged = moodChanged
	out.NewMood = string(mood)

	out.HeartsAdded = e.rng.Intn(3) + 1
	if err := e.store.AddHearts(userID, out.HeartsAdded); err != nil {
		return nil, nil, err
	}

	for _, f := range memory.ExtractFacts(text) {
		if err := e.store.UpsertFact(userID, f.Type, f.Content, f.Confidence); err != nil {
			return nil, nil, err
		}
	}

	pctx, err := e.buildContext(userID, u, string(mood), rel, messages)
	if err != nil {
		return nil, nil, err
	}
	return &out, pctx, nil
}

// buildContext reads everything the directive needs. The memory
// window is read before the current message is appended so the
// exchange being answered never appears as history.
func (e *Engine) buildContext(userID string, u *store.User, mood string, rel, messages int) (*persona.Context, error) {
	recent, err := e.store.RecentMessages(userID, memoryWindow)
	if err != nil {
		return nil, err
	}
	turns := make([]persona.Turn, len(recent))
	for i, m := range recent {
		turns[i] = persona.Turn{Role: m.Role, Content: m.Content}
	}

	facts, err := e.store.Facts(userID)
	if err != nil {
		return nil, err
	}

	p, err := e.store.GetPersonalization(userID)
	if err != nil {
		return nil, err
	}

	return &persona.Context{
		Persona:           persona.Get(u.Persona),
		Mood:              mood,
		RelationshipLevel: rel,
		Gender:            u.Gender,
		Memory:            turns,
		Facts:             memory.FormatFacts(facts),
		TotalMessages:     messages,
		Overlay: persona.Overlay{
			Archetype: p.Archetype,
			CommStyle: p.CommStyle,
			Traits:    p.Traits,
			Phrases:   p.Phrases,
		},
	}, nil
}

// RunMaintenance performs the periodic sweeps: stale limiter entries,
// expired trials and expired premium sessions.
func (e *Engine) RunMaintenance(ctx context.Context, now time.Time) {
	e.limiter.Cleanup(now)

	if n, err := e.store.ExpireTrials(now, entitlement.TrialTTL); err != nil {
		e.log.Error().Err(err).Msg("trial sweep failed")
	} else if n > 0 {
		e.log.Info().Int("expired", n).Msg("trials expired")
	}

	if n, err := e.sessions.Sweep(ctx, now); err != nil {
		e.log.Error().Err(err).Msg("session sweep failed")
	} else if n > 0 {
		e.log.Info().Int("expired", n).Msg("sessions expired")
	}
}
