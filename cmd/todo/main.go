package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hamzanagra-dev/todo-task-app/internal/cli"
	"github.com/hamzanagra-dev/todo-task-app/internal/config"
	"github.com/hamzanagra-dev/todo-task-app/internal/repository"
	"github.com/hamzanagra-dev/todo-task-app/internal/service"
)

func main() {
	// Initial logger at warn level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		logger.Debug("command failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Debug("config loaded",
		"store", cfg.Store,
		"default_priority", cfg.Priority(),
		"refresh_after_write", cfg.RefreshPolicy(),
		"log_level", cfg.LogLevel,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc := service.NewTaskService(repo, service.Options{
		DefaultPriority:   cfg.Priority(),
		RefreshAfterWrite: cfg.RefreshPolicy(),
	})

	root := cli.NewRootCommand(cli.NewApp(svc, os.Stdout))
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func openRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository.TaskRepository, func(), error) {
	if cfg.Store == config.StoreJSON {
		repo, err := repository.NewJSONFileTask(cfg.DataFile, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("using json store", "path", cfg.DataFile)
		return repo, func() {}, nil
	}

	driver, dsn := repository.DriverSQLite, cfg.DBPath
	if cfg.Store == config.StorePostgres {
		driver, dsn = repository.DriverPostgres, cfg.DB.DSN()
	}

	db, err := repository.NewDB(driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}

	repo, err := repository.NewSQLTask(ctx, db, driver, logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	logger.Debug("database connected", "driver", driver)
	return repo, closeDB, nil
}

// describe turns service errors into the messages shown to the user.
func describe(err error) string {
	if errors.Is(err, service.ErrNotFound) {
		return "task ID not found"
	}
	return err.Error()
}
