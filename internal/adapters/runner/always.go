package runner

import (
	"context"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
)

var _ ports.Runner = (*AlwaysRunner)(nil)

// AlwaysRunner runs commands without observing them. Nothing is recorded,
// so every command it runs stays out of date.
type AlwaysRunner struct {
	executor ports.Executor
}

// NewAlwaysRunner creates an AlwaysRunner.
func NewAlwaysRunner(executor ports.Executor) *AlwaysRunner {
	return &AlwaysRunner{executor: executor}
}

// Kind reports the runner's strategy.
func (r *AlwaysRunner) Kind() domain.RunnerKind {
	return domain.RunnerAlways
}

// Run executes command and reports nothing.
func (r *AlwaysRunner) Run(ctx context.Context, command string) (*domain.Discovery, error) {
	if err := r.executor.Execute(ctx, domain.ShellInvocation(command)); err != nil {
		return nil, err
	}
	return nil, nil
}
