package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName    = "github.com/x-research-team/dtx-mediator/bus/pipeline"
	instrumentationVersion = "0.1.0"
	metricKeyPrefix        = "messaging."
)

// metricsBehavior собирает метрики OpenTelemetry по обработке запросов.
type metricsBehavior[Q Request[R], R any] struct {
	dispatchCounter     metric.Int64Counter
	processDurationHist metric.Float64Histogram
}

// NewMetricsBehavior создает поведение для сбора метрик.
// Если провайдер не предоставлен (nil), возвращается no-op поведение.
func NewMetricsBehavior[Q Request[R], R any](provider metric.MeterProvider) Behavior[Q, R] {
	if provider == nil {
		return noopBehavior[Q, R]{}
	}

	meter := provider.Meter(instrumentationName, metric.WithInstrumentationVersion(instrumentationVersion))

	dispatchCounter, err := meter.Int64Counter(
		metricKeyPrefix+"dispatch.count",
		metric.WithDescription("Количество обработанных запросов"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		panic(fmt.Sprintf("не удалось создать счетчик dispatch.count: %v", err))
	}

	processDurationHist, err := meter.Float64Histogram(
		metricKeyPrefix+"process.duration",
		metric.WithDescription("Длительность обработки запроса"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic(fmt.Sprintf("не удалось создать гистограмму process.duration: %v", err))
	}

	return &metricsBehavior[Q, R]{
		dispatchCounter:     dispatchCounter,
		processDurationHist: processDurationHist,
	}
}

// Handle измеряет длительность обработки и считает запросы по статусу.
func (b *metricsBehavior[Q, R]) Handle(ctx context.Context, q Q, next Next[R]) (R, error) {
	startTime := time.Now()
	result, err := next(ctx)
	duration := float64(time.Since(startTime).Milliseconds())

	status := "success"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("request.type", CacheKey(q)),
		attribute.String("status", status),
	)

	b.dispatchCounter.Add(ctx, 1, attrs)
	b.processDurationHist.Record(ctx, duration, attrs)

	return result, err
}

// tracingBehavior создает спан на каждую обработку запроса.
type tracingBehavior[Q Request[R], R any] struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// NewTracingBehavior создает поведение для трассировки.
// Если провайдер не предоставлен (nil), возвращается no-op поведение.
func NewTracingBehavior[Q Request[R], R any](tp trace.TracerProvider, p propagation.TextMapPropagator) Behavior[Q, R] {
	if tp == nil {
		return noopBehavior[Q, R]{}
	}

	if p == nil {
		p = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
	}

	return &tracingBehavior[Q, R]{
		tracer: tp.Tracer(
			instrumentationName,
			trace.WithInstrumentationVersion(instrumentationVersion),
		),
		propagator: p,
	}
}

// Handle извлекает контекст трассировки из метаданных запроса и открывает спан,
// который передается дальше по цепочке через контекст.
func (b *tracingBehavior[Q, R]) Handle(ctx context.Context, q Q, next Next[R]) (result R, err error) {
	if md, ok := (any(q)).(Metadatable); ok && md != nil && !isNil(q) {
		ctx = b.propagator.Extract(ctx, propagation.MapCarrier(md.Metadata()))
	}

	requestType, _ := getRequestTypeAndID(q)
	spanName := fmt.Sprintf("%s process", requestType)

	ctx, span := b.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("request.type", CacheKey(q))),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	return next(ctx)
}
