package observability

import (
	"context"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/labmed/barcoder"

// =============================================================================
// Setup
// =============================================================================

// InitTracing installs a global OpenTelemetry tracer provider that writes
// spans as JSON to w. The returned function flushes and stops the provider.
func InitTracing(w io.Writer, serviceName, serviceVersion string) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(tracerName)
}

// =============================================================================
// Pipeline Tracing
// =============================================================================

// TracingPipelineHooks records each run as a span with one event per file.
type TracingPipelineHooks struct {
	tracer trace.Tracer

	mu   sync.Mutex
	runs map[string]trace.Span
}

// NewTracingPipelineHooks creates pipeline hooks on tp, or on the global
// provider when tp is nil.
func NewTracingPipelineHooks(tp trace.TracerProvider) *TracingPipelineHooks {
	return &TracingPipelineHooks{
		tracer: tracer(tp),
		runs:   make(map[string]trace.Span),
	}
}

func (h *TracingPipelineHooks) OnRunStart(ctx context.Context, runID, layout string, files, pages int) {
	_, span := h.tracer.Start(ctx, "sheet.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("sheet.layout", layout),
			attribute.Int("sheet.files", files),
			attribute.Int("sheet.pages", pages),
		),
	)
	h.mu.Lock()
	h.runs[runID] = span
	h.mu.Unlock()
}

func (h *TracingPipelineHooks) OnFileComplete(ctx context.Context, runID, name string, pages, placed int, duration time.Duration, err error) {
	h.mu.Lock()
	span, ok := h.runs[runID]
	h.mu.Unlock()
	if !ok {
		return
	}
	span.AddEvent("file", trace.WithAttributes(
		attribute.String("file.name", name),
		attribute.Int("file.pages", pages),
		attribute.Int("file.placed", placed),
		attribute.Int64("file.duration_ms", duration.Milliseconds()),
	))
	if err != nil {
		span.RecordError(err)
	}
}

func (h *TracingPipelineHooks) OnRunComplete(ctx context.Context, runID string, placed int, duration time.Duration, err error) {
	h.mu.Lock()
	span, ok := h.runs[runID]
	delete(h.runs, runID)
	h.mu.Unlock()
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("sheet.placed", placed))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// =============================================================================
// HTTP Tracing
// =============================================================================

// TracingHTTPHooks records each served request as a server span, back-dated
// to when the request arrived.
type TracingHTTPHooks struct {
	tracer trace.Tracer
	now    func() time.Time
}

// NewTracingHTTPHooks creates HTTP hooks on tp, or on the global provider
// when tp is nil.
func NewTracingHTTPHooks(tp trace.TracerProvider) *TracingHTTPHooks {
	return &TracingHTTPHooks{tracer: tracer(tp), now: time.Now}
}

func (h *TracingHTTPHooks) OnRequest(context.Context, string, string) {}

func (h *TracingHTTPHooks) OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	end := h.now()
	_, span := h.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithTimestamp(end.Add(-duration)),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
			attribute.Int("http.status_code", statusCode),
		),
	)
	if statusCode >= 500 {
		span.SetStatus(codes.Error, "server error")
	}
	span.End(trace.WithTimestamp(end))
}

var (
	_ PipelineHooks = (*TracingPipelineHooks)(nil)
	_ HTTPHooks     = (*TracingHTTPHooks)(nil)
)
