package ports

import (
	"context"
	"time"
)

// Tracer creates spans around executed commands.
//
//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string) (context.Context, Span)
	// Export sends finished spans to path. An empty path disables export.
	Export(path string) error
	// Shutdown flushes pending spans.
	Shutdown(ctx context.Context) error
}

// Span represents a unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// Metrics counts what the builder did.
type Metrics interface {
	// CommandSkipped records an up-to-date command.
	CommandSkipped()
	// CommandExecuted records a command run by runner and how long it took.
	CommandExecuted(runner string, took time.Duration)
	// CommandFailed records a command that failed under runner.
	CommandFailed(runner string)
	// DependenciesRecorded records the size of a stored record.
	DependenciesRecorded(inputs, outputs int)
	// WriteFile writes the current values to path in Prometheus text format.
	WriteFile(path string) error
}
