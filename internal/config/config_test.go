package config_test

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/hamzanagra-dev/todo-task-app/internal/config"
	"github.com/hamzanagra-dev/todo-task-app/internal/model"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TODO_STORE", "TODO_DATA_FILE", "TODO_DB_PATH", "TODO_DEFAULT_PRIORITY",
		"TODO_REFRESH_AFTER_WRITE", "LOG_LEVEL",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := config.Load()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Store", cfg.Store, "sqlite"},
		{"DataFile", cfg.DataFile, "tasks.json"},
		{"DBPath", cfg.DBPath, "tasks.db"},
		{"DefaultPriority", cfg.DefaultPriority, "Medium"},
		{"RefreshAfterWrite", cfg.RefreshAfterWrite, ""},
		{"LogLevel", cfg.LogLevel, "warn"},
		{"DB.Host", cfg.DB.Host, "localhost"},
		{"DB.Port", cfg.DB.Port, "5432"},
		{"DB.User", cfg.DB.User, "todo"},
		{"DB.Password", cfg.DB.Password, "todo"},
		{"DB.Name", cfg.DB.Name, "todo"},
		{"DB.SSLMode", cfg.DB.SSLMode, "disable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("TODO_STORE", "JSON")
	t.Setenv("TODO_DATA_FILE", "/tmp/todo/tasks.json")
	t.Setenv("TODO_DB_PATH", "/tmp/todo/tasks.db")
	t.Setenv("TODO_DEFAULT_PRIORITY", "low")
	t.Setenv("TODO_REFRESH_AFTER_WRITE", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_HOST", "db.example.com")
	t.Setenv("DB_PORT", "5433")

	cfg := config.Load()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Store", cfg.Store, "json"},
		{"DataFile", cfg.DataFile, "/tmp/todo/tasks.json"},
		{"DBPath", cfg.DBPath, "/tmp/todo/tasks.db"},
		{"DefaultPriority", cfg.DefaultPriority, "low"},
		{"RefreshAfterWrite", cfg.RefreshAfterWrite, "true"},
		{"LogLevel", cfg.LogLevel, "debug"},
		{"DB.Host", cfg.DB.Host, "db.example.com"},
		{"DB.Port", cfg.DB.Port, "5433"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}

	if got := cfg.Priority(); got != model.PriorityLow {
		t.Errorf("Priority() = %q, want Low", got)
	}
}

func TestConfig_RefreshPolicy(t *testing.T) {
	tests := []struct {
		name    string
		store   string
		refresh string
		want    bool
	}{
		{"sqlite default", "sqlite", "", true},
		{"postgres default", "postgres", "", true},
		{"json default", "json", "", false},
		{"json forced on", "json", "true", true},
		{"sqlite forced off", "sqlite", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TODO_STORE", tt.store)
			t.Setenv("TODO_REFRESH_AFTER_WRITE", tt.refresh)

			if got := config.Load().RefreshPolicy(); got != tt.want {
				t.Errorf("RefreshPolicy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantSub  string
	}{
		{
			name:     "simple password",
			password: "todo",
			wantSub:  "todo:todo@",
		},
		{
			name:     "password with special chars",
			password: "p@ss/w#rd?",
			wantSub:  "todo:p%40ss%2Fw%23rd%3F@",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DB_PASSWORD", tt.password)

			cfg := config.Load()
			dsn := cfg.DB.DSN()

			if !strings.Contains(dsn, tt.wantSub) {
				t.Errorf("DSN=%s, want to contain %s", dsn, tt.wantSub)
			}
			if !strings.HasPrefix(dsn, "postgres://") {
				t.Errorf("DSN=%s, want postgres:// prefix", dsn)
			}
			if !strings.Contains(dsn, "sslmode=disable") {
				t.Errorf("DSN=%s, want sslmode=disable", dsn)
			}
		})
	}
}

func TestConfig_ParseLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"empty defaults to warn", "", slog.LevelWarn},
		{"invalid defaults to warn", "verbose", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("LOG_LEVEL", tt.value)

			got := config.Load().ParseLogLevel()
			if got != tt.want {
				t.Errorf("LOG_LEVEL=%q: got %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		store    string
		priority string
		refresh  string
		dbPort   string
		wantErr  string
	}{
		{"valid sqlite", "sqlite", "", "", "", ""},
		{"valid json", "json", "High", "false", "", ""},
		{"valid postgres", "postgres", "low", "", "5432", ""},
		{"invalid store", "mongo", "", "", "", "invalid TODO_STORE"},
		{"invalid priority", "sqlite", "urgent", "", "", "invalid TODO_DEFAULT_PRIORITY"},
		{"invalid refresh", "sqlite", "", "sometimes", "", "invalid TODO_REFRESH_AFTER_WRITE"},
		{"invalid db port", "postgres", "", "", "pg", "invalid DB_PORT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TODO_STORE", tt.store)
			t.Setenv("TODO_DEFAULT_PRIORITY", tt.priority)
			t.Setenv("TODO_REFRESH_AFTER_WRITE", tt.refresh)
			t.Setenv("DB_PORT", tt.dbPort)

			err := config.Load().Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.wantErr)
				} else if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}
