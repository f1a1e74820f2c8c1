package admin

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"elysia/internal/entitlement"
	"elysia/internal/store"
)

func newService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	access := entitlement.NewResolver(s, []string{"op"})
	return NewService(s, access, zerolog.Nop()), s
}

func TestExecuteRejectsNonAdmin(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Execute("random", CmdStats, nil, time.Now())
	if !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("err = %v, want ErrNotAdmin", err)
	}
}

func TestExecuteStats(t *testing.T) {
	svc, s := newService(t)
	s.GetUser("u1")
	s.AddPoints("u1", 250)

	out, err := svc.Execute("op", CmdStats, nil, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Пользователей: 1") || !strings.Contains(out, "u1") {
		t.Fatalf("stats output:\n%s", out)
	}
}

func TestExecuteBanUnban(t *testing.T) {
	svc, s := newService(t)
	now := time.Now()

	if _, err := svc.Execute("op", CmdBan, []string{"u1", "за", "спам"}, now); err != nil {
		t.Fatal(err)
	}
	a, _ := s.GetAccess("u1")
	if !a.Banned || a.BanReason != "за спам" {
		t.Fatalf("after ban: %+v", a)
	}

	if _, err := svc.Execute("op", CmdUnban, []string{"u1"}, now); err != nil {
		t.Fatal(err)
	}
	a, _ = s.GetAccess("u1")
	if a.Banned {
		t.Fatal("still banned after unban")
	}
}

func TestExecuteGrant(t *testing.T) {
	svc, s := newService(t)
	now := time.Now()

	if _, err := svc.Execute("op", CmdGrant, []string{"u1", "30"}, now); err != nil {
		t.Fatal(err)
	}
	access := entitlement.NewResolver(s, nil)
	tier, err := access.Resolve("u1", now)
	if err != nil {
		t.Fatal(err)
	}
	if tier != entitlement.TierPaid {
		t.Fatalf("tier = %s, want paid", tier)
	}

	if _, err := svc.Execute("op", CmdGrant, []string{"u1", "zero"}, now); !errors.Is(err, ErrBadArgs) {
		t.Fatalf("bad days err = %v, want ErrBadArgs", err)
	}
}

func TestExecuteTrialInfo(t *testing.T) {
	svc, s := newService(t)
	now := time.Now()

	out, err := svc.Execute("op", CmdTrial, []string{"u1"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "не активирован") {
		t.Fatalf("fresh trial info: %s", out)
	}

	s.StartTrial("u1", now)
	out, _ = svc.Execute("op", CmdTrial, []string{"u1"}, now)
	if !strings.Contains(out, "активен") {
		t.Fatalf("active trial info: %s", out)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Execute("op", Command("purge"), nil, time.Now())
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err = %v, want ErrUnknownCommand", err)
	}
}
