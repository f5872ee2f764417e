// Package telemetry implements tracing with OpenTelemetry and build metrics
// with Prometheus.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Tracer = (*OTelTracer)(nil)
	_ ports.Span   = (*OTelSpan)(nil)
)

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
// Until Export is called spans go to the global provider, a no-op by default.
type OTelTracer struct {
	name string

	mu       sync.RWMutex
	provider *sdktrace.TracerProvider
	file     *os.File
}

// NewOTelTracer creates a new OTelTracer with the given instrumentation name.
func NewOTelTracer(name string) *OTelTracer {
	return &OTelTracer{name: name}
}

// Export writes finished spans to path as indented JSON.
func (t *OTelTracer) Export(path string) error {
	if path == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.provider != nil {
		return zerr.New("trace export is already configured")
	}

	//nolint:gosec // Path comes from the user's configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create trace file"), "path", path)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f), stdouttrace.WithPrettyPrint())
	if err != nil {
		_ = f.Close()
		return zerr.Wrap(err, "failed to create trace exporter")
	}

	t.provider = sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	t.file = f
	return nil
}

// Shutdown flushes pending spans and closes the export file.
func (t *OTelTracer) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.provider == nil {
		return nil
	}

	err := t.provider.Shutdown(ctx)
	closeErr := t.file.Close()
	t.provider = nil
	t.file = nil
	return errors.Join(err, closeErr)
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	t.mu.RLock()
	var tracer trace.Tracer
	if t.provider != nil {
		tracer = t.provider.Tracer(t.name)
	} else {
		tracer = otel.Tracer(t.name)
	}
	t.mu.RUnlock()

	ctx, span := tracer.Start(ctx, name)
	return ctx, &OTelSpan{span: span}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span trace.Span
}

// End completes the span.
func (s *OTelSpan) End() {
	s.span.End()
}

// RecordError records an error for the span.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}
