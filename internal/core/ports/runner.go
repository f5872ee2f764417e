package ports

import (
	"context"

	"go.trai.ch/fab/internal/core/domain"
)

// Runner executes a command and reports the files it touched.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	// Kind reports which discovery strategy the runner implements.
	Kind() domain.RunnerKind
	// Run executes command. A nil Discovery with a nil error means nothing
	// could be observed and the command stays stale.
	Run(ctx context.Context, command string) (*domain.Discovery, error)
}

// RunnerFactory probes the system and returns the runner to use.
type RunnerFactory interface {
	Resolve(ctx context.Context, settings domain.Settings) (Runner, error)
}
