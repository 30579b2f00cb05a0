package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string // sqlite (default), postgres, mysql
	DatabasePath    string // sqlite only
	DatabaseURL     string // postgres/mysql
	MigrationsPath  string
	StaticFilesPath string

	TokenSecret   string
	TokenDuration time.Duration

	DictionaryAPIBaseURL string

	// Timed-mode countdown in seconds
	TimedModeSeconds int

	// Starting consumable grants for new players
	StartingDoOvers       int
	StartingSecondChances int

	// Star-notification email (disabled when SESFromEmail is empty)
	AWSRegion       string
	SESFromEmail    string
	SESFromName     string
	StarNotifyEmail string
	EmailDebug      bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./spellsprint.db"),
		DatabaseURL:     getEnv("DB_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),

		TokenSecret:   getEnv("TOKEN_SECRET", "dev-only-secret"),
		TokenDuration: 30 * 24 * time.Hour,

		DictionaryAPIBaseURL: getEnv("DICTIONARY_API_URL", "https://api.dictionaryapi.dev/api/v2/entries/en"),

		TimedModeSeconds: getEnvInt("TIMED_MODE_SECONDS", 60),

		StartingDoOvers:       getEnvInt("STARTING_DO_OVERS", 2),
		StartingSecondChances: getEnvInt("STARTING_SECOND_CHANCES", 1),

		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:    getEnv("SES_FROM_EMAIL", ""),
		SESFromName:     getEnv("SES_FROM_NAME", "Spellsprint"),
		StarNotifyEmail: getEnv("STAR_NOTIFY_EMAIL", ""),
		EmailDebug:      getEnv("EMAIL_DEBUG", "") == "true",
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
