package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/utils"

	"github.com/joho/godotenv"
)

const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	APIBaseURL string
	APITimeout time.Duration
	UserAgent  string

	// MaxResponseSize caps API response bodies, in bytes.
	MaxResponseSize int64

	// ClientID names this installation's record in shared session backends.
	ClientID       string
	SessionBackend string
	SessionFile    string
	RedisURL       string
	Database       DatabaseConfig

	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// LoadConfig reads the given .env files (".env" when none are given), then
// the process environment. Missing .env files are not an error; variables
// already set in the environment win over file values.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := &Config{
		APIBaseURL:      utils.GetEnvAsString("API_BASE_URL", "http://localhost:5000/api"),
		APITimeout:      utils.GetEnvAsDuration("API_TIMEOUT", 15*time.Second),
		UserAgent:       utils.GetEnvAsString("USER_AGENT", "todo-client/1.0"),
		MaxResponseSize: int64(utils.GetEnvAsInt("API_MAX_RESPONSE_SIZE", 10<<20)),
		ClientID:        utils.GetEnvAsString("CLIENT_ID", defaultClientID()),
		SessionBackend:  utils.GetEnvAsString("SESSION_BACKEND", BackendFile),
		SessionFile:     utils.GetEnvAsString("SESSION_FILE", defaultSessionFile()),
		RedisURL:        utils.GetEnvAsString("REDIS_URL", "redis://localhost:6379/0"),
		Database:        LoadDatabaseConfig(),
		LogLevel:        utils.GetEnvAsString("LOG_LEVEL", "info"),
		LogFormat:       utils.GetEnvAsString("LOG_FORMAT", "console"),
		MetricsAddr:     utils.GetEnvAsString("METRICS_ADDR", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the base URL and checks backend specific settings.
func (c *Config) Validate() error {
	base, err := utils.NormalizeBaseURL(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL: %w", err)
	}
	c.APIBaseURL = base

	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", c.APITimeout)
	}

	switch c.SessionBackend {
	case BackendMemory:
	case BackendFile:
		if c.SessionFile == "" {
			return errors.New("SESSION_FILE is required for the file session backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis session backend")
		}
	case BackendMongo:
		if c.Database.URI == "" || c.Database.DatabaseName == "" || c.Database.Collection == "" {
			return errors.New("MONGO_URI, MONGO_DB and SESSION_COLLECTION are required for the mongo session backend")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	if c.ClientID == "" {
		return errors.New("CLIENT_ID must not be empty")
	}
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".todo-client", "session.json")
	}
	return filepath.Join(dir, "todo-client", "session.json")
}

func defaultClientID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "default"
	}
	return host
}
