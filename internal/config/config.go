package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hamzanagra-dev/todo-task-app/internal/model"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreJSON     = "json"
)

var validStores = map[string]bool{
	StoreSQLite:   true,
	StorePostgres: true,
	StoreJSON:     true,
}

type Config struct {
	Store           string
	DataFile        string
	DBPath          string
	DefaultPriority string
	// RefreshAfterWrite is the raw TODO_REFRESH_AFTER_WRITE value; see RefreshPolicy.
	RefreshAfterWrite string
	LogLevel          string
	DB                DBConfig
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// RefreshPolicy reports whether the collection is reloaded from the store after
// each write. Unset means on for the SQL stores and off for the JSON file.
func (c Config) RefreshPolicy() bool {
	if v, err := strconv.ParseBool(c.RefreshAfterWrite); err == nil {
		return v
	}
	return c.Store != StoreJSON
}

func (c Config) Priority() model.Priority {
	p, _ := model.ParsePriority(c.DefaultPriority)
	return p
}

func (c Config) Validate() error {
	if !validStores[c.Store] {
		return fmt.Errorf("invalid TODO_STORE %q: must be one of sqlite, postgres, json", c.Store)
	}
	if _, ok := model.ParsePriority(c.DefaultPriority); !ok {
		return fmt.Errorf("invalid TODO_DEFAULT_PRIORITY %q: must be one of Low, Medium, High", c.DefaultPriority)
	}
	if c.RefreshAfterWrite != "" {
		if _, err := strconv.ParseBool(c.RefreshAfterWrite); err != nil {
			return fmt.Errorf("invalid TODO_REFRESH_AFTER_WRITE %q: %w", c.RefreshAfterWrite, err)
		}
	}
	switch c.Store {
	case StoreJSON:
		if c.DataFile == "" {
			return fmt.Errorf("TODO_DATA_FILE is required when TODO_STORE is json")
		}
	case StoreSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("TODO_DB_PATH is required when TODO_STORE is sqlite")
		}
	case StorePostgres:
		if _, err := strconv.Atoi(c.DB.Port); err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", c.DB.Port, err)
		}
	}
	return nil
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

// Load reads configuration from the environment. A .env file in the working
// directory, if present, fills in variables that are not already set.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Store:             strings.ToLower(envOrDefault("TODO_STORE", StoreSQLite)),
		DataFile:          envOrDefault("TODO_DATA_FILE", "tasks.json"),
		DBPath:            envOrDefault("TODO_DB_PATH", "tasks.db"),
		DefaultPriority:   envOrDefault("TODO_DEFAULT_PRIORITY", string(model.PriorityMedium)),
		RefreshAfterWrite: os.Getenv("TODO_REFRESH_AFTER_WRITE"),
		LogLevel:          envOrDefault("LOG_LEVEL", "warn"),
		DB: DBConfig{
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "todo"),
			Password: envOrDefault("DB_PASSWORD", "todo"),
			Name:     envOrDefault("DB_NAME", "todo"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
