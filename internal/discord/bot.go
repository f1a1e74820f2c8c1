// Package discord maps direct messages onto the engine pipeline.
// Group channels are ignored; the companion talks one on one.
package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"elysia/internal/admin"
	"elysia/internal/engine"
	"elysia/internal/reward"
	"elysia/internal/store"
)

// Bot is the Discord transport.
type Bot struct {
	dg     *discordgo.Session
	engine *engine.Engine
	store  *store.Store
	shop   *reward.Shop
	admin  *admin.Service
	log    zerolog.Logger
}

func NewBot(token string, eng *engine.Engine, s *store.Store, shop *reward.Shop, adm *admin.Service, log zerolog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	b := &Bot{
		dg:     dg,
		engine: eng,
		store:  s,
		shop:   shop,
		admin:  adm,
		log:    log.With().Str("component", "discord").Logger(),
	}
	dg.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	return b, nil
}

// Run opens the gateway connection and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, _ *discordgo.Ready) {
	b.log.Info().Str("user", s.State.User.Username).Msg("gateway ready")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}
	// DMs only: guild messages never reach the pipeline
	if m.GuildID != "" {
		return
	}

	text := strings.TrimSpace(m.Content)
	if text == "" {
		return
	}

	if strings.HasPrefix(text, "!") {
		b.reply(m.ChannelID, b.runCommand(m.Author.ID, text))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	out, err := b.engine.HandleUserMessage(ctx, m.Author.ID, text, time.Now())
	if err != nil {
		b.reply(m.ChannelID, errorReply(err))
		return
	}

	b.reply(m.ChannelID, out.Reply)
	if note := renderProgress(out); note != "" {
		b.reply(m.ChannelID, note)
	}
}

func errorReply(err error) string {
	switch {
	case errors.Is(err, engine.ErrRateLimited):
		return "Подожди немного, ты пишешь слишком часто 🕐"
	case errors.Is(err, engine.ErrBanned):
		return "Доступ ограничен."
	case errors.Is(err, engine.ErrInvalidMessage):
		return "Не могу принять такое сообщение, напиши иначе 🙈"
	default:
		return "Что-то пошло не так, попробуй ещё раз."
	}
}

// renderProgress turns the outcome's progression events into one
// follow-up notification, or "" when nothing visible happened.
func renderProgress(out *engine.Outcome) string {
	var lines []string

	if out.Warning != "" {
		lines = append(lines, out.Warning)
	}
	if out.PointsDelta > 0 {
		line := fmt.Sprintf("✨ +%d очков", out.PointsDelta)
		if out.TimeBonusLabel != "" {
			line += " " + out.TimeBonusLabel
		}
		lines = append(lines, line)
	}
	if out.StreakBonus > 0 {
		lines = append(lines, fmt.Sprintf("🔥 Бонус за серию: +%d", out.StreakBonus))
	}
	if out.LevelUp {
		lines = append(lines, fmt.Sprintf("🎉 Новый уровень: %d — %s!", out.NewLevel, engine.LevelTitle(out.NewLevel)))
	}
	if out.RelationshipUp {
		lines = append(lines, fmt.Sprintf("💞 Теперь мы — %s!", engine.RelationshipTitle(out.NewRelationship)))
		if out.RelationshipPhrase != "" {
			lines = append(lines, out.RelationshipPhrase)
		}
	}
	for _, title := range out.NewAchievements {
		lines = append(lines, "🏆 Достижение: "+title)
	}
	return strings.Join(lines, "\n")
}

func (b *Bot) reply(channelID, text string) {
	if text == "" {
		return
	}
	if _, err := b.dg.ChannelMessageSend(channelID, text); err != nil {
		b.log.Error().Err(err).Str("channel", channelID).Msg("send failed")
	}
}
