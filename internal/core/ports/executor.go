// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/fab/internal/core/domain"
)

// Executor runs processes.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the invocation and waits for it to finish.
	//
	// A non-zero exit is reported as *domain.ExecutionError.
	Execute(ctx context.Context, inv domain.Invocation) error
}
