package builder

import (
	"context"
	"time"

	"go.trai.ch/fab/internal/core/ports"
)

type nopTracer struct{}

func (nopTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, nopSpan{}
}

func (nopTracer) Export(string) error { return nil }

func (nopTracer) Shutdown(context.Context) error { return nil }

type nopSpan struct{}

func (nopSpan) End() {}

func (nopSpan) RecordError(error) {}

func (nopSpan) SetAttribute(string, any) {}

type nopMetrics struct{}

func (nopMetrics) CommandSkipped() {}

func (nopMetrics) CommandExecuted(string, time.Duration) {}

func (nopMetrics) CommandFailed(string) {}

func (nopMetrics) DependenciesRecorded(int, int) {}

func (nopMetrics) WriteFile(string) error { return nil }
