package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MaxDocumentSize is the upload ceiling for documents and receipts (20 MiB).
const MaxDocumentSize = 20 * 1024 * 1024

var (
	ErrMissingToken   = errors.New("BOT_TOKEN is not set")
	ErrInvalidOwnerID = errors.New("OWNER_ID must be an integer user id")
)

type Config struct {
	Bot     BotConfig
	Storage StorageConfig
	Server  ServerConfig
	Logger  LoggerConfig
}

type BotConfig struct {
	Token         string
	OwnerID       int64
	Workers       int
	PollTimeout   time.Duration
	Debug         bool
	WebhookURL    string
	WebhookSecret string
	MaxFileSize   int64
}

type StorageConfig struct {
	TermsPath string
	LogFile   string
	ChecksDir string
	WorkDir   string
}

type ServerConfig struct {
	Enabled      bool
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// .env is optional, plain environment variables work the same way
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	token := getEnv("BOT_TOKEN", "")
	if token == "" {
		return nil, ErrMissingToken
	}

	ownerID, err := strconv.ParseInt(getEnv("OWNER_ID", ""), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOwnerID, err)
	}

	workers := getEnvInt("BOT_WORKERS", 8)
	if workers < 1 {
		workers = 1
	}

	return &Config{
		Bot: BotConfig{
			Token:         token,
			OwnerID:       ownerID,
			Workers:       workers,
			PollTimeout:   time.Duration(getEnvInt("BOT_POLL_TIMEOUT", 60)) * time.Second,
			Debug:         getEnv("BOT_DEBUG", "false") == "true",
			WebhookURL:    getEnv("BOT_WEBHOOK_URL", ""),
			WebhookSecret: getEnv("BOT_WEBHOOK_SECRET", ""),
			MaxFileSize:   MaxDocumentSize,
		},
		Storage: StorageConfig{
			TermsPath: getEnv("TERMS_PATH", "terms.pdf"),
			LogFile:   getEnv("LOG_FILE", "logs.csv"),
			ChecksDir: getEnv("CHECKS_DIR", "unique_checks"),
			WorkDir:   getEnv("WORK_DIR", "."),
		},
		Server: ServerConfig{
			Enabled:      getEnv("HTTP_ENABLED", "true") == "true",
			Port:         getEnv("HTTP_PORT", "8080"),
			ReadTimeout:  time.Duration(getEnvInt("HTTP_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT", 30)) * time.Second,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

// UsesWebhook reports whether updates arrive through the HTTP webhook instead of long polling.
func (c *BotConfig) UsesWebhook() bool {
	return c.WebhookURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
