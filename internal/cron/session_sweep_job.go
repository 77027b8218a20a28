package cron

import (
	"context"
	"fmt"

	"github.com/vitalfit/vitalfit-backend/pkg/logger"
)

// sessionSweeper is the slice of the selection store the job needs.
type sessionSweeper interface {
	SweepExpired(ctx context.Context) int
	Len() int
}

type SessionSweepJobParams struct {
	Logger *logger.Logger
	Store  sessionSweeper
}

// NewSessionSweepJob evicts expired checkout sessions from the in-memory
// selection store. Sessions with an unsettled invoice are left alone.
func NewSessionSweepJob(params SessionSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("selection store required")
	}
	return &sessionSweepJob{
		logg:  params.Logger,
		store: params.Store,
	}, nil
}

type sessionSweepJob struct {
	logg  *logger.Logger
	store sessionSweeper
}

func (j *sessionSweepJob) Name() string { return "session-sweep" }

func (j *sessionSweepJob) Run(ctx context.Context) error {
	swept := j.store.SweepExpired(ctx)
	ctx = j.logg.WithFields(ctx, map[string]any{
		"swept":     swept,
		"remaining": j.store.Len(),
	})
	j.logg.Info(ctx, "expired checkout sessions swept")
	return nil
}
