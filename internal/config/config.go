package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken     string
	ApplicationID    string
	GuildID          string
	HTTPAddr         string
	PollDuration     time.Duration
	SweepInterval    time.Duration
	SessionRetention time.Duration
	LogLevel         string
}

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		ApplicationID:    os.Getenv("APPLICATION_ID"),
		GuildID:          os.Getenv("GUILD_ID"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		PollDuration:     getDuration("POLL_DURATION", 5*time.Minute),
		SweepInterval:    getDuration("SWEEP_INTERVAL", time.Minute),
		SessionRetention: getDuration("SESSION_RETENTION", 10*time.Minute),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DiscordToken == "" {
		log.Fatal("DISCORD_TOKEN is required")
	}
	if cfg.ApplicationID == "" {
		log.Fatal("APPLICATION_ID is required")
	}
	if cfg.GuildID == "" {
		log.Fatal("GUILD_ID is required")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("%s: invalid duration %q", key, v)
	}
	return d
}
