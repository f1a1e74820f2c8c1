package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(client),
	}
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			sess := New("u1", KindRoleplay, "cafe", now)
			sess.State["turn"] = "user"

			if err := s.Put(ctx, sess); err != nil {
				t.Fatalf("Put: %v", err)
			}

			got, err := s.Get(ctx, "u1", KindRoleplay)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.ID != sess.ID || got.Scenario != "cafe" || got.State["turn"] != "user" {
				t.Fatalf("got %+v", got)
			}

			// A different kind for the same user is independent.
			if _, err := s.Get(ctx, "u1", KindHotPics); !errors.Is(err, ErrNotFound) {
				t.Fatalf("cross-kind get err = %v", err)
			}

			if err := s.Delete(ctx, "u1", KindRoleplay); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(ctx, "u1", KindRoleplay); !errors.Is(err, ErrNotFound) {
				t.Fatalf("after delete err = %v", err)
			}
		})
	}
}

func TestMemorySweepDropsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	ms := NewMemoryStore()

	fresh := New("fresh", KindRoleplay, "", now)
	stale := New("stale", KindRoleplay, "", now.Add(-2*DefaultTTL))
	ms.Put(ctx, fresh)
	ms.Put(ctx, stale)

	n, err := ms.Sweep(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("swept = %d, want 1", n)
	}
	if _, err := ms.Get(ctx, "fresh", KindRoleplay); err != nil {
		t.Fatal("fresh session lost in sweep")
	}
	if _, err := ms.Get(ctx, "stale", KindRoleplay); !errors.Is(err, ErrNotFound) {
		t.Fatal("stale session survived sweep")
	}
}

func TestRedisTTLExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	rs := NewRedisStore(client)

	sess := New("u1", KindHotPics, "", time.Now())
	if err := rs.Put(ctx, sess); err != nil {
		t.Fatal(err)
	}

	mr.FastForward(DefaultTTL + time.Minute)

	if _, err := rs.Get(ctx, "u1", KindHotPics); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got err = %v", err)
	}
}
