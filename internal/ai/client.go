package ai

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog"

	"elysia/pkg/retrylimit"
)

// fallbackReplies keeps the conversation alive when the provider is
// down. Picked uniformly at random.
var fallbackReplies = []string{
	"Понимаю, что ты хочешь поговорить — что у тебя на душе?",
	"Сейчас у меня небольшие технические проблемы — расскажи, как дела?",
	"Извини, не могу ответить прямо сейчас — что тебя беспокоит?",
	"Хочется тебя поддержать — чем могу помочь?",
	"Давай поговорим — что на сердце?",
	"Ты такой милый, когда переживаешь — что случилось?",
	"Я так рада, что ты со мной говоришь — расскажи больше!",
	"Ты такой интересный собеседник — что ещё хочешь обсудить?",
}

// Client wraps a Provider with pacing, bounded retries and the static
// fallback pool. One Client is shared across users; the limiter keeps
// the upstream happy under load.
type Client struct {
	provider Provider
	limiter  *retrylimit.AdaptiveLimiter
	params   Params
	log      zerolog.Logger
}

func NewClient(provider Provider, params Params, log zerolog.Logger) *Client {
	return &Client{
		provider: provider,
		limiter:  retrylimit.NewAdaptiveLimiter(4, 1, 10, 1, 0.5),
		params:   params,
		log:      log.With().Str("component", "ai").Logger(),
	}
}

// Generate calls the provider with up to three attempts on transient
// failures. On final failure it returns a fallback reply and the
// underlying error; the reply is always usable.
func (c *Client) Generate(ctx context.Context, messages []Message) (string, error) {
	cfg := retrylimit.DefaultConfig()
	cfg.Retryable = Transient
	cfg.Overload = Overload
	cfg.OnRetry = func(attempt int, err error) {
		c.log.Warn().Err(err).Int("attempt", attempt).Msg("generation retry")
	}

	var reply string
	err := retrylimit.Do(ctx, func() error {
		var genErr error
		reply, genErr = c.provider.Generate(ctx, messages, c.params)
		return genErr
	}, c.limiter, cfg)

	if err != nil {
		c.log.Error().Err(err).Msg("generation failed, using fallback")
		return c.Fallback(), err
	}
	return reply, nil
}

// Fallback returns one neutral continuation from the static pool.
func (c *Client) Fallback() string {
	return fallbackReplies[rand.Intn(len(fallbackReplies))]
}
