package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/npezzotti/campus-connect/internal/api"
	"github.com/npezzotti/campus-connect/internal/config"
	"github.com/npezzotti/campus-connect/internal/database"
	"github.com/npezzotti/campus-connect/internal/logging"
	"github.com/npezzotti/campus-connect/internal/notify"
	"github.com/npezzotti/campus-connect/internal/server"
	"github.com/npezzotti/campus-connect/internal/social"
	"github.com/npezzotti/campus-connect/internal/stats"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer logger.Sync()

	repo, err := openRepository(cfg, logger)
	if err != nil {
		logger.Fatal("open repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("db close", zap.Error(err))
		}
	}()

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	chatServer := server.NewChatServer(logger.Named("relay"), statsUpdater)
	svc := social.NewService(repo, newNotifier(cfg, logger), logger.Named("social"))

	srv := api.NewCampusApp(mux, logger.Named("api"), chatServer, svc, repo, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	go chatServer.Run()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Info("received signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server", zap.Error(err))
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Error("HTTP server shutdown", zap.Error(err))
	}

	logger.Info("shutting down chat server")
	if err := chatServer.Shutdown(shutDownCtx); err != nil {
		logger.Error("chat server shutdown", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

func openRepository(cfg *config.Config, logger *zap.Logger) (database.CampusRepository, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on exit")
		return database.NewMemoryCampusRepository(), nil
	default:
		repo, err := database.NewPgCampusRepository(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}

		if err := repo.RunMigrations(); err != nil {
			repo.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		return repo, nil
	}
}

func newNotifier(cfg *config.Config, logger *zap.Logger) notify.Notifier {
	if !cfg.Mail.Enabled() {
		logger.Info("mail relay not configured, notifications are logged only")
		return notify.NewLogNotifier(logger.Named("notify"))
	}

	return notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:        cfg.Mail.Host,
		Port:        cfg.Mail.Port,
		Username:    cfg.Mail.Username,
		Password:    cfg.Mail.Password,
		From:        cfg.Mail.From,
		FrontendURL: cfg.FrontendURL,
	}, logger.Named("notify"))
}
