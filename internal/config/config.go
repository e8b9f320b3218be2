package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          int
	NatsURL       string
	NatsToken     string
	DatabaseURL   string
	LogLevel      string
	SlackBotToken string
	SlackChannel  string
	APIToken      string
	Timezone      string
	ExcludeNow    bool
	BackfillDir   string
}

func Load() Config {
	return Config{
		Port:          envInt("QUILL_PORT", 8760),
		NatsURL:       envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:     envStr("NATS_TOKEN", ""),
		DatabaseURL:   envStr("DATABASE_URL", ""),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		SlackBotToken: envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:  envStr("SLACK_PROMPTS_CHANNEL", ""),
		APIToken:      envStr("QUILL_API_TOKEN", ""),
		Timezone:      envStr("QUILL_TIMEZONE", "America/New_York"),
		ExcludeNow:    envBool("QUILL_EXCLUDE_NOW", false),
		BackfillDir:   envStr("QUILL_BACKFILL_DIR", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
