// Package saga pairs a provider-side create with the local write that records it,
// undoing the provider side when the local write fails.
package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	obsmetrics "github.com/holaplex/hub-orgs/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var Module = fx.Module("saga",
	fx.Provide(NewRunner),
)

type Outcome string

const (
	Committed           Outcome = obsmetrics.OutcomeCommitted
	Compensated         Outcome = obsmetrics.OutcomeCompensated
	NeedsReconciliation Outcome = obsmetrics.OutcomeNeedsReconciliation
)

// Error is returned when the local step failed after the provider step succeeded.
// It unwraps to the local error so callers keep classifying it as before.
type Error struct {
	Resource     string
	Outcome      Outcome
	Err          error
	Compensation error
}

func (e *Error) Error() string {
	if e.Compensation != nil {
		return fmt.Sprintf("%s provisioning %s: %v (compensation: %v)", e.Resource, e.Outcome, e.Err, e.Compensation)
	}
	return fmt.Sprintf("%s provisioning %s: %v", e.Resource, e.Outcome, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Step describes one remote-then-local provisioning.
type Step[T any] struct {
	Resource   string
	Remote     func(ctx context.Context) (T, error)
	Local      func(ctx context.Context, remote T) error
	Compensate func(ctx context.Context, remote T) error
	// Fields identify the remote object in reconciliation logs.
	Fields func(remote T) []zap.Field
}

type Options struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Timeout         time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxTries:        4,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Timeout:         15 * time.Second,
	}
}

type Runner struct {
	log     *zap.Logger
	metrics *obsmetrics.ProvisioningMetrics
	opts    Options
}

func NewRunner(log *zap.Logger, metrics *obsmetrics.ProvisioningMetrics) *Runner {
	return NewRunnerWithOptions(log, metrics, DefaultOptions())
}

func NewRunnerWithOptions(log *zap.Logger, metrics *obsmetrics.ProvisioningMetrics, opts Options) *Runner {
	if opts.MaxTries == 0 {
		opts.MaxTries = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	return &Runner{log: log.Named("saga"), metrics: metrics, opts: opts}
}

// Run executes step. A Remote failure returns immediately: nothing exists yet.
// A Local failure triggers Compensate, retried with exponential backoff on a
// context detached from the caller's cancellation.
func Run[T any](ctx context.Context, r *Runner, step Step[T]) (T, Outcome, error) {
	remote, err := step.Remote(ctx)
	if err != nil {
		var zero T
		return zero, "", err
	}

	localErr := step.Local(ctx, remote)
	if localErr == nil {
		r.metrics.RecordOutcome(step.Resource, string(Committed))
		return remote, Committed, nil
	}

	compErr := compensate(ctx, r, step, remote)
	fields := []zap.Field{zap.String("resource", step.Resource), zap.NamedError("local_error", localErr)}
	if step.Fields != nil {
		fields = append(fields, step.Fields(remote)...)
	}

	if compErr != nil {
		r.metrics.RecordOutcome(step.Resource, string(NeedsReconciliation))
		r.log.Error("provider object left without local record",
			append(fields, zap.Bool("reconciliation_required", true), zap.Error(compErr))...,
		)
		return remote, NeedsReconciliation, &Error{
			Resource:     step.Resource,
			Outcome:      NeedsReconciliation,
			Err:          localErr,
			Compensation: compErr,
		}
	}

	r.metrics.RecordOutcome(step.Resource, string(Compensated))
	r.log.Warn("provisioning compensated", fields...)
	return remote, Compensated, &Error{Resource: step.Resource, Outcome: Compensated, Err: localErr}
}

func compensate[T any](ctx context.Context, r *Runner, step Step[T], remote T) error {
	if step.Compensate == nil {
		return fmt.Errorf("%s: no compensation defined", step.Resource)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.Timeout)
	defer cancel()

	bo := backoff.NewExponentialBackOff()
	if r.opts.InitialInterval > 0 {
		bo.InitialInterval = r.opts.InitialInterval
	}
	if r.opts.MaxInterval > 0 {
		bo.MaxInterval = r.opts.MaxInterval
	}

	var attempts error
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := step.Compensate(ctx, remote); err != nil {
			attempts = multierr.Append(attempts, err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(r.opts.MaxTries))
	if err != nil {
		return multierr.Append(attempts, ctx.Err())
	}
	return nil
}
