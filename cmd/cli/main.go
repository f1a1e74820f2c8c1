// Command cli is a local REPL over the message pipeline, useful for
// poking at scoring and prompt assembly without a Discord token.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"elysia/internal/ai"
	"elysia/internal/engine"
	"elysia/internal/entitlement"
	"elysia/internal/logging"
	"elysia/internal/session"
	"elysia/internal/store"
)

// offlineProvider always fails so the client serves fallback replies.
// Used when no API key is configured.
type offlineProvider struct{}

func (offlineProvider) Generate(context.Context, []ai.Message, ai.Params) (string, error) {
	return "", ai.ErrService
}

func main() {
	dbPath := flag.String("db", "elysia-cli.db", "sqlite database path")
	userID := flag.String("user", "local", "user id to act as")
	flag.Parse()

	log := logging.New("", "warn")

	st, err := store.New(*dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open store:", err)
		os.Exit(1)
	}
	defer st.Close()

	var provider ai.Provider = offlineProvider{}
	if key := os.Getenv("AI_API_KEY"); key != "" {
		provider = ai.NewDeepSeekProvider("https://api.deepseek.com/v1", key, "deepseek-chat", 30*time.Second)
	} else {
		fmt.Println("AI_API_KEY not set, replies come from the fallback pool")
	}

	client := ai.NewClient(provider, ai.Params{Temperature: 0.7, MaxTokens: 200}, log)
	access := entitlement.NewResolver(st, []string{*userID})
	limiter := engine.NewUserRateLimiter(time.Minute, 100, time.Minute)
	eng := engine.New(st, client, access, session.NewMemoryStore(), limiter, zerolog.Nop())

	fmt.Printf("Чат запущен как %s. Ctrl+D для выхода.\n", *userID)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := scanner.Text()
		if text == "" {
			continue
		}

		out, err := eng.HandleUserMessage(context.Background(), *userID, text, time.Now())
		if err != nil {
			if errors.Is(err, engine.ErrInvalidMessage) {
				fmt.Println("(сообщение отклонено)")
				continue
			}
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}

		fmt.Println(out.Reply)
		if out.PointsDelta != 0 {
			fmt.Printf("  [%+d очков", out.PointsDelta)
			if out.TimeBonusLabel != "" {
				fmt.Printf(" %s", out.TimeBonusLabel)
			}
			fmt.Println("]")
		}
		if out.LevelUp {
			fmt.Printf("  [уровень %d]\n", out.NewLevel)
		}
		for _, a := range out.NewAchievements {
			fmt.Printf("  [достижение: %s]\n", a)
		}
		if out.RelationshipUp {
			fmt.Printf("  [отношения: %s]\n", engine.RelationshipTitle(out.NewRelationship))
			if out.RelationshipPhrase != "" {
				fmt.Println("  " + out.RelationshipPhrase)
			}
		}
		if out.Warning != "" {
			fmt.Println("  " + out.Warning)
		}
	}
}
