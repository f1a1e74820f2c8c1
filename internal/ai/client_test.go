package ai

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

type scriptedProvider struct {
	calls   int
	replies []string
	errs    []error
}

func (p *scriptedProvider) Generate(ctx context.Context, messages []Message, params Params) (string, error) {
	i := p.calls
	p.calls++
	if i >= len(p.errs) {
		i = len(p.errs) - 1
	}
	return p.replies[i], p.errs[i]
}

func TestGenerateRetriesTransient(t *testing.T) {
	p := &scriptedProvider{
		replies: []string{"", "", "привет"},
		errs:    []error{ErrService, ErrTimeout, nil},
	}
	c := NewClient(p, Params{}, zerolog.Nop())

	reply, err := c.Generate(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reply != "привет" {
		t.Fatalf("reply = %q", reply)
	}
	if p.calls != 3 {
		t.Fatalf("calls = %d, want 3", p.calls)
	}
}

func TestGenerateNoRetryOnMalformed(t *testing.T) {
	p := &scriptedProvider{
		replies: []string{""},
		errs:    []error{ErrMalformed},
	}
	c := NewClient(p, Params{}, zerolog.Nop())

	reply, err := c.Generate(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if p.calls != 1 {
		t.Fatalf("calls = %d, want 1 (malformed is not transient)", p.calls)
	}
	if reply == "" {
		t.Fatal("fallback reply must never be empty")
	}
}

func TestGenerateFallbackAfterExhaustion(t *testing.T) {
	p := &scriptedProvider{
		replies: []string{"", "", ""},
		errs:    []error{ErrService, ErrService, ErrService},
	}
	c := NewClient(p, Params{}, zerolog.Nop())

	reply, err := c.Generate(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	found := false
	for _, f := range fallbackReplies {
		if reply == f {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("reply %q not from the fallback pool", reply)
	}
}
