package query

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/x-research-team/dtx-mediator/bus/cache"
	"github.com/x-research-team/dtx-mediator/bus/pipeline"
	"github.com/x-research-team/dtx-mediator/bus/result"
	"github.com/x-research-team/dtx-mediator/bus/validation"
)

// Option определяет тип для функциональных опций, которые изменяют конфигурацию шины.
// Опции шины совпадают с опциями стандартного конвейера.
type Option[Q Query[R], R any] = pipeline.Option[Q, R]

// WithLogger возвращает опцию, которая устанавливает логгер для шины.
func WithLogger[Q Query[R], R any](logger *slog.Logger) Option[Q, R] {
	return pipeline.WithLogger[Q, R](logger)
}

// WithTracerProvider возвращает опцию, которая устанавливает провайдер трассировки.
func WithTracerProvider[Q Query[R], R any](provider trace.TracerProvider) Option[Q, R] {
	return pipeline.WithTracerProvider[Q, R](provider)
}

// WithMeterProvider возвращает опцию, которая устанавливает провайдер метрик.
func WithMeterProvider[Q Query[R], R any](provider metric.MeterProvider) Option[Q, R] {
	return pipeline.WithMeterProvider[Q, R](provider)
}

// WithPropagator возвращает опцию, которая устанавливает механизм распространения контекста.
func WithPropagator[Q Query[R], R any](propagator propagation.TextMapPropagator) Option[Q, R] {
	return pipeline.WithPropagator[Q, R](propagator)
}

// WithValidators включает валидацию запросов, результатом которых является простое значение.
func WithValidators[Q Query[R], R any](registry *validation.Registry) Option[Q, R] {
	return pipeline.WithValidators[Q, R](registry)
}

// WithResultValidators включает валидацию запросов, результатом которых является result.Result[T].
func WithResultValidators[Q Query[result.Result[T]], T any](registry *validation.Registry) Option[Q, result.Result[T]] {
	return pipeline.WithResultValidators[Q, T](registry)
}

// WithCache включает кеширование результатов запроса.
func WithCache[Q Query[R], R any](c cache.Cache[R]) Option[Q, R] {
	return pipeline.WithCache[Q, R](c)
}

// WithBehavior возвращает опцию, которая добавляет одно или несколько поведений в цепочку обработки.
func WithBehavior[Q Query[R], R any](behaviors ...pipeline.Behavior[Q, R]) Option[Q, R] {
	return pipeline.WithBehaviors[Q, R](behaviors...)
}
