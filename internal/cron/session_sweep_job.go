package cron

import (
	"context"
	"fmt"

	"github.com/MOR6969/vape-bill/pkg/logger"
)

type sessionSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// SessionSweepJobParams configure the expired session sweep.
type SessionSweepJobParams struct {
	Logger *logger.Logger
	Store  sessionSweeper
}

// NewSessionSweepJob drops expired billing sessions from an in-memory store.
func NewSessionSweepJob(params SessionSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &sessionSweepJob{logg: params.Logger, store: params.Store}, nil
}

type sessionSweepJob struct {
	logg  *logger.Logger
	store sessionSweeper
}

func (j *sessionSweepJob) Name() string { return "session-sweep" }

func (j *sessionSweepJob) Run(ctx context.Context) error {
	removed, err := j.store.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("session sweep: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "sessions_removed", removed), "session sweep complete")
	return nil
}
