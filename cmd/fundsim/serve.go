package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fundsim/internal/api"
	"github.com/rgehrsitz/fundsim/internal/config"
	"github.com/rgehrsitz/fundsim/internal/metrics"
	"github.com/rgehrsitz/fundsim/internal/platform/logger"
	"github.com/rgehrsitz/fundsim/internal/simulation"
	"github.com/rgehrsitz/fundsim/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the questionnaire over HTTP",
	Long: "Serve the questionnaire over HTTP. Settings come from FUNDSIM_* environment variables: " +
		"FUNDSIM_ADDR, FUNDSIM_REDIS_URL, FUNDSIM_SQLITE_PATH, FUNDSIM_RULES_FILE, FUNDSIM_SESSION_TTL, FUNDSIM_LOG_LEVEL",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadServerConfig()
		if err != nil {
			return err
		}
		if rulesFile, _ := cmd.Flags().GetString("rules"); rulesFile != "" {
			cfg.RulesFile = rulesFile
		}

		log, err := logger.New(os.Stderr, cfg.LogLevel)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

func serve(ctx context.Context, cfg config.ServerConfig, log *slog.Logger) error {
	rules, err := config.ResolveProgramRules(cfg.RulesFile)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	machine := simulation.NewMachine(rules, simulation.WithObserver(metrics.New(reg)))
	machine.SetLogger(logger.Printf{L: log})

	sessions, closeSessions, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSessions()

	records, closeRecords, err := openRecordSink(cfg, log)
	if err != nil {
		return err
	}
	defer closeRecords()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewRouter(api.New(machine, sessions, records, log), reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openSessionStore picks redis when configured, memory otherwise
func openSessionStore(ctx context.Context, cfg config.ServerConfig, log *slog.Logger) (store.SessionStore, func(), error) {
	if cfg.RedisURL == "" {
		log.Warn("FUNDSIM_REDIS_URL not set, sessions are kept in memory")
		return store.NewMemoryStore(cfg.SessionTTL, nil), func() {}, nil
	}
	client, err := store.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return store.NewRedisStore(client, cfg.SessionTTL, nil), func() {
		if err := client.Close(); err != nil {
			log.Error("closing redis client", "error", err)
		}
	}, nil
}

// openRecordSink picks sqlite when configured, memory otherwise
func openRecordSink(cfg config.ServerConfig, log *slog.Logger) (store.RecordSink, func(), error) {
	if cfg.SQLitePath == "" {
		log.Warn("FUNDSIM_SQLITE_PATH not set, records are kept in memory")
		return store.NewMemoryRecordSink(), func() {}, nil
	}
	sink, err := store.OpenSQLiteRecordSink(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	return sink, func() {
		if err := sink.Close(); err != nil {
			log.Error("closing record store", "error", err)
		}
	}, nil
}
