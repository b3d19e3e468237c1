// Package loop drives one provider: read, print one line, sleep, repeat.
package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tutu-network/statbar/internal/domain"
	"github.com/tutu-network/statbar/internal/infra/metrics"
)

// ErrWrite wraps failures to write a status line; the loop stops on it
// because the consumer has gone away.
var ErrWrite = errors.New("write status line")

// Observer receives the outcome of every read.
type Observer interface {
	ObserveSample(s domain.Sample, took time.Duration)
	ObserveError(mode domain.Mode, reason string, took time.Duration)
}

// Status is the outcome of the most recent read.
type Status struct {
	Mode       domain.Mode    `json:"mode"`
	Source     string         `json:"source"`
	Line       string         `json:"line"`
	Sample     *domain.Sample `json:"sample,omitempty"`
	Error      string         `json:"error,omitempty"`
	Iterations int            `json:"iterations"`
}

// Runner owns a provider (and therefore any state it accumulates) for the
// lifetime of the loop.
type Runner struct {
	provider domain.Provider
	out      io.Writer
	log      *zap.SugaredLogger
	observer Observer
	refresh  Refresh
	sleep    func(ctx context.Context, d time.Duration) error

	mu     sync.RWMutex
	status Status
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Runner) { r.log = log }
}

// WithObserver sets the read observer (Prometheus by default).
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// New creates a runner that writes one line per iteration to out.
func New(p domain.Provider, out io.Writer, refresh Refresh, opts ...Option) *Runner {
	r := &Runner{
		provider: p,
		out:      out,
		log:      zap.NewNop().Sugar(),
		observer: metrics.Recorder{},
		refresh:  refresh,
		sleep:    sleepContext,
		status:   Status{Mode: p.Mode(), Source: p.Source()},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loops until the context is cancelled, or once when the refresh is -1.
// Read failures print ERR and the loop carries on. In single-shot mode a
// failure is returned, except for temperature, which never fails the run.
func (r *Runner) Run(ctx context.Context) error {
	for {
		_, err := r.Step(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrWrite) {
			return err
		}

		if r.refresh.Once {
			if err != nil && r.provider.Mode() != domain.ModeTemperature {
				return err
			}
			return nil
		}
		if err := r.sleep(ctx, r.refresh.Interval); err != nil {
			return nil
		}
	}
}

// Step performs one read and writes one line.
func (r *Runner) Step(ctx context.Context) (domain.Sample, error) {
	mode := r.provider.Mode()
	start := time.Now()
	s, err := r.provider.Read(ctx)
	took := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return domain.Sample{}, ctx.Err()
		}
		reason := metrics.Reason(err)
		r.observer.ObserveError(mode, reason, took)
		r.log.Errorw("read failed",
			"mode", mode.String(),
			"source", r.provider.Source(),
			"reason", reason,
			"error", err,
		)
		r.record(domain.ErrorLine, nil, err)
		if _, werr := fmt.Fprintln(r.out, domain.ErrorLine); werr != nil {
			return domain.Sample{}, fmt.Errorf("%w: %w", ErrWrite, werr)
		}
		return domain.Sample{}, err
	}

	r.observer.ObserveSample(s, took)
	line := s.String()
	r.log.Debugw("sample",
		"mode", mode.String(),
		"source", s.Source,
		"value", s.Value,
		"took", took,
	)
	r.record(line, &s, nil)
	if _, err := fmt.Fprintln(r.out, line); err != nil {
		return s, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return s, nil
}

func (r *Runner) record(line string, s *domain.Sample, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Line = line
	r.status.Sample = s
	r.status.Error = ""
	if err != nil {
		r.status.Error = err.Error()
	}
	r.status.Iterations++
}

// Status returns the outcome of the most recent read (thread-safe).
func (r *Runner) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := r.status
	if st.Sample != nil {
		cp := *st.Sample
		st.Sample = &cp
	}
	return st
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
