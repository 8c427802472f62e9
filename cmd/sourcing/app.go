package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joseph-ayodele/sourcing-assistant/internal/alerts"
	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/export"
	"github.com/joseph-ayodele/sourcing-assistant/internal/history"
	"github.com/joseph-ayodele/sourcing-assistant/internal/metrics"
	"github.com/joseph-ayodele/sourcing-assistant/internal/repository"
)

// app holds what every subcommand shares.
type app struct {
	cfg     *common.Config
	logger  *slog.Logger
	state   repository.StateStore
	history *history.Store
	alerts  *alerts.Engine
	metrics *metrics.SessionMetrics
	export  *export.Service
}

func newApp(ctx context.Context, configFile string) (*app, error) {
	cfg, err := common.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	state, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Storage.DSN,
		MaxConns:        cfg.Storage.MaxConns,
		MinConns:        cfg.Storage.MinConns,
		MaxConnLifetime: cfg.Storage.MaxConnLifetime,
		DialTimeout:     cfg.Storage.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open state store", "error", err)
		return nil, common.NewPersistenceError("failed to open local state", err)
	}
	if err := repository.HealthCheck(ctx, state, 5*time.Second, logger); err != nil {
		_ = state.Close()
		return nil, common.NewPersistenceError("state store is unreachable", err)
	}

	m, err := metrics.NewSessionMetrics(prometheus.NewRegistry())
	if err != nil {
		_ = state.Close()
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		state:   state,
		history: history.NewStore(state, logger),
		alerts:  alerts.NewEngine(state, logger),
		metrics: m,
		export:  export.NewService(logger),
	}

	// A corrupt payload resets to empty; the session goes on.
	if err := a.history.Load(ctx); err != nil && !errors.Is(err, common.ErrPersistence) {
		_ = state.Close()
		return nil, err
	}
	if err := a.alerts.Load(ctx); err != nil && !errors.Is(err, common.ErrPersistence) {
		_ = state.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() {
	if a == nil || a.state == nil {
		return
	}
	if err := a.state.Close(); err != nil {
		a.logger.Warn("state.close.failed", "error", err)
	}
}

// writeMetrics dumps the session metrics in the text exposition format.
func (a *app) writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, a.metrics.Registry()); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// newLogger writes to stderr so stdout carries only command output.
// The text handler drops time and level, like the other tools here.
func newLogger(cfg common.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, common.NewAppError(common.CodeConfig, fmt.Sprintf("LOG_LEVEL %q is not a level", cfg.Level), common.ErrInvalidInput)
	}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	})), nil
}
