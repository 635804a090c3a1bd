package karma

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/QCNachos/TindAi/internal/domain/model"
	"github.com/QCNachos/TindAi/internal/domain/rules"
	"github.com/QCNachos/TindAi/internal/metrics"
)

type AgentStore interface {
	List(ctx context.Context) ([]model.Agent, error)
	UpdateKarma(ctx context.Context, id string, karma int) error
}

type InputsStore interface {
	KarmaInputs(ctx context.Context, agentID string, now time.Time) (model.KarmaInputs, error)
}

type Result struct {
	Processed int
	Updated   int
	Failed    int
}

type Job struct {
	agents AgentStore
	inputs InputsStore
	now    func() time.Time
	logger *zap.Logger
}

func New(agents AgentStore, inputs InputsStore, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		agents: agents,
		inputs: inputs,
		now:    time.Now,
		logger: logger,
	}
}

// Run recalculates karma for every agent. A failing agent does not stop the run;
// failures are joined into the returned error.
func (j *Job) Run(ctx context.Context) (Result, error) {
	if j.agents == nil || j.inputs == nil {
		return Result{}, nil
	}

	agents, err := j.agents.List(ctx)
	if err != nil {
		metrics.KarmaRuns.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("list agents for karma: %w", err)
	}

	now := j.now().UTC()
	var (
		res  Result
		errs []error
	)
	for _, agent := range agents {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res.Processed++

		in, err := j.inputs.KarmaInputs(ctx, agent.ID, now)
		if err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("agent %s: %w", agent.ID, err))
			continue
		}

		total := rules.Karma(agent, in).Total
		if total == agent.Karma {
			continue
		}
		if err := j.agents.UpdateKarma(ctx, agent.ID, total); err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("agent %s: %w", agent.ID, err))
			continue
		}
		res.Updated++
	}

	metrics.KarmaAgentsUpdated.Add(float64(res.Updated))
	if len(errs) > 0 {
		metrics.KarmaRuns.WithLabelValues("partial").Inc()
		j.logger.Warn("karma recalculation finished with errors",
			zap.Int("processed", res.Processed),
			zap.Int("updated", res.Updated),
			zap.Int("failed", res.Failed),
		)
		return res, errors.Join(errs...)
	}

	metrics.KarmaRuns.WithLabelValues("ok").Inc()
	j.logger.Info("karma recalculation completed", zap.Int("processed", res.Processed), zap.Int("updated", res.Updated))
	return res, nil
}
