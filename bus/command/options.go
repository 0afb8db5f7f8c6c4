package command

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
type Option[C Command[R], R any] = pipeline.Option[C, R]

// WithLogger возвращает опцию, которая устанавливает логгер для шины.
func WithLogger[C Command[R], R any](logger *slog.Logger) Option[C, R] {
	return pipeline.WithLogger[C, R](logger)
}

// WithTracerProvider возвращает опцию, которая устанавливает провайдер трассировки.
func WithTracerProvider[C Command[R], R any](provider trace.TracerProvider) Option[C, R] {
	return pipeline.WithTracerProvider[C, R](provider)
}

// WithMeterProvider возвращает опцию, которая устанавливает провайдер метрик.
func WithMeterProvider[C Command[R], R any](provider metric.MeterProvider) Option[C, R] {
	return pipeline.WithMeterProvider[C, R](provider)
}

// WithPropagator возвращает опцию, которая устанавливает механизм распространения контекста.
func WithPropagator[C Command[R], R any](propagator propagation.TextMapPropagator) Option[C, R] {
	return pipeline.WithPropagator[C, R](propagator)
}

// WithValidators включает валидацию команд, результатом которых является простое значение.
func WithValidators[C Command[R], R any](registry *validation.Registry) Option[C, R] {
	return pipeline.WithValidators[C, R](registry)
}

// WithResultValidators включает валидацию команд, результатом которых является result.Result[T].
func WithResultValidators[C Command[result.Result[T]], T any](registry *validation.Registry) Option[C, result.Result[T]] {
	return pipeline.WithResultValidators[C, T](registry)
}

// WithCache включает кеширование результатов команды.
func WithCache[C Command[R], R any](c cache.Cache[R]) Option[C, R] {
	return pipeline.WithCache[C, R](c)
}

// WithBehavior возвращает опцию, которая добавляет одно или несколько поведений в цепочку обработки.
func WithBehavior[C Command[R], R any](behaviors ...pipeline.Behavior[C, R]) Option[C, R] {
	return pipeline.WithBehaviors[C, R](behaviors...)
}
