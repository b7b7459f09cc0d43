package cmd

import (
	"context"
	"errors"
	"time"

	"golang-quizlink/internal/output"
	"golang-quizlink/internal/pkg/logging"
	"golang-quizlink/internal/pkg/metrics"
	"golang-quizlink/internal/poller"

	"golang.org/x/time/rate"
)

// pollRecorder receives the outcome of each poll cycle.
type pollRecorder interface {
	ObservePoll(outcome string)
}

// pollLoop polls the service on a fixed interval and mirrors the answers on the outputs.
type pollLoop struct {
	poller         *poller.Poller
	driver         *output.Driver
	recorder       pollRecorder
	interval       time.Duration
	reconnectDelay time.Duration
	now            func() time.Time

	// Throttle warnings that repeat every cycle while the cause persists.
	unavailableWarn rate.Sometimes
	pollErrorWarn   rate.Sometimes
}

// run blocks until ctx is cancelled. Outputs are cleared before it returns.
func (l *pollLoop) run(ctx context.Context) {
	logger := logging.WithComponent("loop")

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer func() {
		if err := l.driver.Clear(); err != nil {
			logger.WithError(err).Warn("Failed to clear outputs on shutdown")
		}
	}()

	for {
		wait := l.cycle(ctx)
		if wait > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// cycle runs one refresh/poll/show round and returns an extra wait before the next one.
func (l *pollLoop) cycle(ctx context.Context) time.Duration {
	logger := logging.WithComponent("loop")

	if err := l.driver.Refresh(l.now()); err != nil {
		logger.WithError(err).Warn("Failed to refresh outputs")
	}

	resp, err := l.poller.Poll(ctx)
	switch {
	case errors.Is(err, poller.ErrConnectionUnavailable):
		l.recorder.ObservePoll(metrics.PollUnavailable)
		if err := l.driver.Clear(); err != nil {
			logger.WithError(err).Warn("Failed to clear outputs")
		}
		l.unavailableWarn.Do(func() {
			logger.WithField("retry_in", l.reconnectDelay.String()).Warn("Network unavailable, skipping poll")
		})
		return l.reconnectDelay
	case err != nil:
		if ctx.Err() != nil {
			return 0
		}
		l.recorder.ObservePoll(metrics.PollError)
		l.pollErrorWarn.Do(func() {
			logger.WithError(err).Warn("Poll failed")
		})
		return 0
	}

	l.recorder.ObservePoll(metrics.PollOK)
	if err := l.driver.Show(resp, l.now()); err != nil {
		logger.WithError(err).Error("Failed to update outputs")
	}
	return 0
}
