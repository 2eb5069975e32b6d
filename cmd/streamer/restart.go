package main

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rickgao/lightstream/internal/config"
	"github.com/rickgao/lightstream/internal/stream"
)

// errGaveUp is returned when the restart budget is exhausted.
var errGaveUp = errors.New("stream closed and restart budget exhausted")

// starter is the part of *stream.Stream the restart loop drives.
type starter interface {
	Start(ctx context.Context) error
}

// restarter reopens sessions that the transport ended. The stream library
// never reconnects by itself; this loop is the caller-side policy.
type restarter struct {
	cfg    config.RestartConfig
	logger *slog.Logger

	// closed is set by the close handler; Start returning without it means Stop
	closed atomic.Bool
}

func newRestarter(cfg config.RestartConfig, logger *slog.Logger) *restarter {
	return &restarter{cfg: cfg, logger: logger.With("component", "restart")}
}

// wrap installs the close hook in front of h.OnClose.
func (r *restarter) wrap(h stream.Handlers) stream.Handlers {
	next := h.OnClose
	h.OnClose = func(s *stream.Stream, info stream.CloseInfo) error {
		r.closed.Store(true)
		if next != nil {
			return next(s, info)
		}
		return nil
	}
	return h
}

func (r *restarter) newBackOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.cfg.InitialInterval
	bo.MaxInterval = r.cfg.MaxInterval
	bo.Multiplier = r.cfg.Multiplier
	bo.MaxElapsedTime = r.cfg.MaxElapsedTime
	bo.Reset()
	return backoff.WithContext(bo, ctx)
}

// Run starts s and restarts it after each transport close until ctx ends,
// the session is stopped, or the backoff gives up.
func (r *restarter) Run(ctx context.Context, s starter) error {
	bo := r.newBackOff(ctx)

	for attempt := 1; ; attempt++ {
		r.closed.Store(false)
		started := time.Now()

		if err := s.Start(ctx); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !r.closed.Load() {
			return nil
		}
		if !r.cfg.Enabled {
			return errGaveUp
		}

		// A session that stayed up longer than the max interval starts a new budget.
		if time.Since(started) >= r.cfg.MaxInterval {
			bo.Reset()
		}

		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errGaveUp
		}

		r.logger.Info("restarting stream", "attempt", attempt, "backoff", wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
