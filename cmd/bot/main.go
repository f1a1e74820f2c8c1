package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"elysia/internal/admin"
	"elysia/internal/ai"
	"elysia/internal/config"
	"elysia/internal/discord"
	"elysia/internal/engine"
	"elysia/internal/entitlement"
	"elysia/internal/logging"
	"elysia/internal/reward"
	"elysia/internal/session"
	"elysia/internal/store"
)

const maintenanceInterval = 10 * time.Minute

func main() {
	cfg, err := config.New()
	if err != nil {
		fallback := logging.New("", "info")
		fallback.Fatal().Err(err).Msg("config")
	}
	log := logging.New(cfg.LogPath, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open store")
	}
	defer st.Close()

	sessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("connect redis")
	}

	provider := ai.NewDeepSeekProvider(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)
	client := ai.NewClient(provider, ai.Params{
		Temperature: cfg.AITemperature,
		MaxTokens:   cfg.AIMaxTokens,
	}, log)

	access := entitlement.NewResolver(st, cfg.AdminIDs)
	limiter := engine.NewUserRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMessages, cfg.RateLimitBlock)
	eng := engine.New(st, client, access, sessions, limiter, log)
	adm := admin.NewService(st, access, log)

	bot, err := discord.NewBot(cfg.DiscordToken, eng, st, reward.NewShop(st), adm, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create bot")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(ctx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(maintenanceInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				eng.RunMaintenance(ctx, now)
			}
		}
	})

	log.Info().Msg("elysia started")
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("exited with error")
		os.Exit(1)
	}
	log.Info().Msg("elysia exited cleanly")
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	if cfg.RedisAddr == "" {
		return session.NewMemoryStore(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return session.NewRedisStore(client), nil
}
