package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"Tasker/internal/app"
	"Tasker/internal/config"
	"Tasker/internal/logger"
	"Tasker/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP API (default)",
		Action: serve,
	}
}

func migrateCommand() *cli.Command {
	sub := func(name, usage string) *cli.Command {
		return &cli.Command{
			Name:  name,
			Usage: usage,
			Action: func(ctx *cli.Context) error {
				cfg, log, err := load()
				if err != nil {
					return err
				}
				if cfg.Store.Driver != config.DriverPostgres {
					return fmt.Errorf("migrations only apply to STORE_DRIVER=%s", config.DriverPostgres)
				}
				return app.Migrate(ctx.Context, cfg.PG.DSN, name, log)
			},
		}
	}
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the Postgres schema",
		Subcommands: []*cli.Command{
			sub("up", "Apply all pending migrations"),
			sub("down", "Roll back the latest migration"),
			sub("status", "Print the migration status"),
		},
	}
}

func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "Print the bcrypt hash of a password",
		ArgsUsage: "<password>",
		Action: func(ctx *cli.Context) error {
			password := ctx.Args().First()
			if password == "" {
				return errors.New("password argument is required")
			}
			h, err := service.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, h)
			return nil
		},
	}
}

func load() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	return cfg, logger.New(cfg.App), nil
}

func serve(c *cli.Context) error {
	cfg, log, err := load()
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"env":    cfg.App.Env,
		"driver": cfg.Store.Driver,
		"redis":  cfg.Redis.Enabled(),
	}).Info("config loaded, connecting to store")

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("app init: %w", err)
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		_ = application.Close(context.Background())
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout.Duration())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return application.Close(shutdownCtx)
}
