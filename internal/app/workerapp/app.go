package workerapp

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/QCNachos/TindAi/internal/config"
	"github.com/QCNachos/TindAi/internal/jobs/karma"
	pgrepo "github.com/QCNachos/TindAi/internal/repo/postgres"
)

const defaultKarmaInterval = time.Hour

type karmaRunner interface {
	Run(ctx context.Context) (karma.Result, error)
}

type App struct {
	cfg      config.Config
	logger   *zap.Logger
	postgres *pgxpool.Pool
	karmaJob karmaRunner
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("init postgres for worker app: %w", err)
	}

	job := karma.New(pgrepo.NewAgentRepo(pool), pgrepo.NewStatsRepo(pool), logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		postgres: pool,
		karmaJob: job,
	}, nil
}

// Run recalculates karma once at start and then on every interval tick until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("worker app started", zap.Duration("karma_interval", a.interval()))
	defer a.logger.Info("worker app stopped")

	return a.runKarmaLoop(ctx)
}

func (a *App) runKarmaLoop(ctx context.Context) error {
	if a.karmaJob == nil {
		<-ctx.Done()
		return nil
	}

	a.runKarmaOnce(ctx)

	ticker := time.NewTicker(a.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.runKarmaOnce(ctx)
		}
	}
}

func (a *App) runKarmaOnce(ctx context.Context) {
	result, err := a.karmaJob.Run(ctx)
	if err != nil {
		a.logger.Error("karma run failed",
			zap.Int("processed", result.Processed),
			zap.Int("failed", result.Failed),
			zap.Error(err),
		)
		return
	}
	a.logger.Info("karma run finished",
		zap.Int("processed", result.Processed),
		zap.Int("updated", result.Updated),
	)
}

func (a *App) interval() time.Duration {
	if a.cfg.Karma.Interval <= 0 {
		return defaultKarmaInterval
	}
	return a.cfg.Karma.Interval
}

func (a *App) Close() {
	if a.postgres != nil {
		a.postgres.Close()
	}
}
