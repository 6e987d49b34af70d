// Package wizard runs an ordered list of named prompt steps, feeding each step
// the results of the steps before it.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrCancelled is returned by a step when the user abandons the wizard.
var ErrCancelled = errors.New("cancelled by user")

// StepFunc computes a step's result from the results of earlier steps.
type StepFunc func(ctx context.Context, prior Results) (any, error)

// Step is one named stage of the wizard. When, if set, decides from the prior
// results whether the step runs at all; skipped steps record no result.
type Step struct {
	Name string
	Run  StepFunc
	When func(prior Results) bool
}

// CancelFunc undoes side effects when a step reports ErrCancelled.
type CancelFunc func(ctx context.Context) error

// Engine executes steps one at a time in declaration order.
type Engine struct {
	steps    []Step
	onCancel CancelFunc
	logger   *slog.Logger
}

// New validates the step list: names must be non-empty and unique and every
// step needs a Run function.
func New(steps ...Step) (*Engine, error) {
	seen := make(map[string]struct{}, len(steps))
	for i, s := range steps {
		if s.Name == "" {
			return nil, fmt.Errorf("step %d has no name", i)
		}
		if s.Run == nil {
			return nil, fmt.Errorf("step %q has no run function", s.Name)
		}
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("duplicate step name %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return &Engine{
		steps:  append([]Step(nil), steps...),
		logger: slog.New(slog.DiscardHandler),
	}, nil
}

// OnCancel registers the hook run once when a step cancels the wizard.
func (e *Engine) OnCancel(fn CancelFunc) *Engine {
	e.onCancel = fn
	return e
}

// WithLogger sets the logger used for step tracing.
func (e *Engine) WithLogger(l *slog.Logger) *Engine {
	if l != nil {
		e.logger = l
	}
	return e
}

// Run executes every step in order and returns the collected results. A step
// returning ErrCancelled stops the wizard, runs the cancel hook and yields an
// error matching ErrCancelled, unless the hook itself fails. Any other step
// error aborts the run, prefixed with the step name.
func (e *Engine) Run(ctx context.Context) (Results, error) {
	var results Results
	for _, step := range e.steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		prior := results.snapshot()
		if step.When != nil && !step.When(prior) {
			e.logger.Debug("wizard step skipped", "step", step.Name)
			continue
		}

		e.logger.Debug("wizard step started", "step", step.Name)
		value, err := step.Run(ctx, prior)
		if errors.Is(err, ErrCancelled) {
			e.logger.Debug("wizard cancelled", "step", step.Name)
			return results, e.cancel(ctx, step.Name)
		}
		if err != nil {
			return results, fmt.Errorf("%s: %w", step.Name, err)
		}

		results.record(step.Name, value)
		e.logger.Debug("wizard step finished", "step", step.Name)
	}
	return results, nil
}

func (e *Engine) cancel(ctx context.Context, step string) error {
	if e.onCancel == nil {
		return fmt.Errorf("%s: %w", step, ErrCancelled)
	}
	// The hook must still run when the cancellation came from ctx itself.
	if err := e.onCancel(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("%s: cancelled, but failed to undo staged changes: %w", step, err)
	}
	return fmt.Errorf("%s: %w", step, ErrCancelled)
}
