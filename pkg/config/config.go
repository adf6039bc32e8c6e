package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting the binaries need. It is built once at startup
// and never mutated afterwards; changing it means restarting the process.
type Config struct {
	Database DatabaseConfig
	GameHost GameHostConfig
	Redis    RedisConfig
	Bucket   BucketConfig
	Ladder   LadderConfig
}

// Database configuration struct.
type DatabaseConfig struct {
	DSN            string
	Database       string
	MigrationsPath string
}

// GameHost holds the credentials and endpoint of the game-hosting API.
type GameHostConfig struct {
	BaseURL string
	Email   string
	Token   string
	Dryrun  bool
}

// Redis configuration struct.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Bucket configuration for the log uploads.
type BucketConfig struct {
	Region       string
	Endpoint     string
	AccessKey    string
	AccessSecret string
	LogBucket    string
}

// Ladder holds the matchmaking settings.
type LadderConfig struct {
	Templates    []int64
	TickInterval time.Duration
	GameName     string
}

// Load reads the environment and returns the full configuration.
func Load() (*Config, error) {
	templates, err := parseTemplates(getEnv("RTL_TEMPLATES", "1"))
	if err != nil {
		return nil, fmt.Errorf("couldn't parse RTL_TEMPLATES: %v", err)
	}

	tickInterval, err := time.ParseDuration(getEnv("RTL_TICK_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("couldn't parse RTL_TICK_INTERVAL: %v", err)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			DSN:            os.Getenv("DATABASE_URL"),
			Database:       getEnv("DATABASE_NAME", "rtladder"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		GameHost: GameHostConfig{
			BaseURL: getEnv("GAMEHOST_URL", "https://www.warzone.com/API"),
			Email:   os.Getenv("GAMEHOST_EMAIL"),
			Token:   os.Getenv("GAMEHOST_TOKEN"),
			Dryrun:  os.Getenv("GAMEHOST_DRYRUN") == "true",
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Bucket: BucketConfig{
			Region:       os.Getenv("BUCKET_REGION"),
			Endpoint:     os.Getenv("BUCKET_ENDPOINT"),
			AccessKey:    os.Getenv("BUCKET_ACCESS_KEY"),
			AccessSecret: os.Getenv("BUCKET_ACCESS_SECRET"),
			LogBucket:    os.Getenv("BUCKET_LOG_NAME"),
		},
		Ladder: LadderConfig{
			Templates:    templates,
			TickInterval: tickInterval,
			GameName:     getEnv("RTL_GAME_NAME", "Real-Time Ladder"),
		},
	}

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	return cfg, nil
}

// parseTemplates parses the comma separated template ID list.
func parseTemplates(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	templates := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid template id %q: %v", part, err)
		}
		templates = append(templates, id)
	}
	return templates, nil
}

// getEnv returns the environment value or the fallback if it's unset.
func getEnv(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
