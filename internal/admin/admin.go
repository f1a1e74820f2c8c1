// Package admin implements the operator command surface: stats,
// user inspection and access management. Every command re-checks the
// caller's tier, so a transport cannot leak admin actions by mistake.
package admin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"elysia/internal/entitlement"
	"elysia/internal/store"
)

// Command is one operator action.
type Command string

const (
	CmdStats Command = "stats"
	CmdUser  Command = "user"
	CmdBan   Command = "ban"
	CmdUnban Command = "unban"
	CmdGrant Command = "grant"
	CmdTrial Command = "trial"
)

var (
	ErrNotAdmin       = errors.New("admin: caller is not an operator")
	ErrUnknownCommand = errors.New("admin: unknown command")
	ErrBadArgs        = errors.New("admin: bad arguments")
)

type Service struct {
	store  *store.Store
	access *entitlement.Resolver
	log    zerolog.Logger
}

func NewService(s *store.Store, access *entitlement.Resolver, log zerolog.Logger) *Service {
	return &Service{store: s, access: access, log: log.With().Str("component", "admin").Logger()}
}

// Execute runs one command on behalf of callerID and returns the text
// to show them. Non-admin callers are rejected before any argument
// parsing.
func (s *Service) Execute(callerID string, cmd Command, args []string, now time.Time) (string, error) {
	tier, err := s.access.Resolve(callerID, now)
	if err != nil {
		return "", err
	}
	if tier != entitlement.TierAdmin {
		return "", ErrNotAdmin
	}

	s.log.Info().Str("caller", callerID).Str("cmd", string(cmd)).Strs("args", args).Msg("admin command")

	switch cmd {
	case CmdStats:
		return s.stats()
	case CmdUser:
		if len(args) < 1 {
			return "", ErrBadArgs
		}
		return s.userInfo(args[0], now)
	case CmdBan:
		if len(args) < 1 {
			return "", ErrBadArgs
		}
		reason := strings.Join(args[1:], " ")
		if err := s.store.SetBanned(args[0], true, reason); err != nil {
			return "", err
		}
		return fmt.Sprintf("Пользователь %s заблокирован.", args[0]), nil
	case CmdUnban:
		if len(args) < 1 {
			return "", ErrBadArgs
		}
		if err := s.store.SetBanned(args[0], false, ""); err != nil {
			return "", err
		}
		return fmt.Sprintf("Пользователь %s разблокирован.", args[0]), nil
	case CmdGrant:
		if len(args) < 2 {
			return "", ErrBadArgs
		}
		days, err := strconv.Atoi(args[1])
		if err != nil || days <= 0 {
			return "", ErrBadArgs
		}
		until := now.AddDate(0, 0, days)
		if err := s.store.GrantPaid(args[0], until); err != nil {
			return "", err
		}
		return fmt.Sprintf("Подписка для %s до %s.", args[0], until.Format("2006-01-02")), nil
	case CmdTrial:
		if len(args) < 1 {
			return "", ErrBadArgs
		}
		return s.trialInfo(args[0], now)
	}
	return "", ErrUnknownCommand
}

func (s *Service) stats() (string, error) {
	total, err := s.store.CountUsers()
	if err != nil {
		return "", err
	}
	top, err := s.store.TopUsers(5)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Пользователей: %d\n", total)
	if len(top) > 0 {
		b.WriteString("Топ по очкам:\n")
		for i, u := range top {
			fmt.Fprintf(&b, "%d. %s — %d очков, уровень %d\n", i+1, u.ID, u.Points, u.Level)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *Service) userInfo(userID string, now time.Time) (string, error) {
	u, err := s.store.GetUser(userID)
	if err != nil {
		return "", err
	}
	tier, err := s.access.Resolve(userID, now)
	if err != nil {
		return "", err
	}
	achievements, err := s.store.CountAchievements(userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Пользователь %s\n", u.ID)
	fmt.Fprintf(&b, "Очки: %d (уровень %d)\n", u.Points, u.Level)
	fmt.Fprintf(&b, "Отношения: %d, серия: %d дн.\n", u.RelationshipLevel, u.StreakDays)
	fmt.Fprintf(&b, "Сообщений: %d, сердец: %d\n", u.MessagesCount, u.Hearts)
	fmt.Fprintf(&b, "Настроение: %s, доступ: %s", u.Mood, tier)
	if achievements > 0 {
		fmt.Fprintf(&b, "\nДостижений: %d", achievements)
	}
	return b.String(), nil
}

func (s *Service) trialInfo(userID string, now time.Time) (string, error) {
	a, err := s.store.GetAccess(userID)
	if err != nil {
		return "", err
	}
	switch a.TrialStatus {
	case "none":
		return fmt.Sprintf("Триал для %s ещё не активирован.", userID), nil
	case "active":
		left := entitlement.TrialTTL - now.Sub(a.TrialStartedAt)
		if left < 0 {
			left = 0
		}
		return fmt.Sprintf("Триал для %s активен, осталось %s.", userID, left.Round(time.Minute)), nil
	default:
		return fmt.Sprintf("Триал для %s уже использован.", userID), nil
	}
}
