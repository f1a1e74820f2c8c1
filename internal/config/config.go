package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`

	DBPath string `env:"DB_PATH" envDefault:"elysia.db"`

	// Empty RedisAddr selects the in-memory session backend.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	AIAPIKey      string        `env:"AI_API_KEY,required"`
	AIBaseURL     string        `env:"AI_BASE_URL" envDefault:"https://api.deepseek.com/v1"`
	AIModel       string        `env:"AI_MODEL" envDefault:"deepseek-chat"`
	AITemperature float64       `env:"AI_TEMPERATURE" envDefault:"0.7"`
	AIMaxTokens   int           `env:"AI_MAX_TOKENS" envDefault:"200"`
	AITimeout     time.Duration `env:"AI_TIMEOUT" envDefault:"30s"`

	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
	RateLimitMessages int           `env:"RATE_LIMIT_MESSAGES" envDefault:"20"`
	RateLimitBlock    time.Duration `env:"RATE_LIMIT_BLOCK" envDefault:"5m"`

	AdminIDs []string `env:"ADMIN_IDS" envSeparator:","`

	LogPath  string `env:"LOG_PATH" envDefault:"logs/elysia.log"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func New() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
