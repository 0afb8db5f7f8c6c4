package pipeline

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/x-research-team/dtx-mediator/bus/cache"
	"github.com/x-research-team/dtx-mediator/bus/result"
	"github.com/x-research-team/dtx-mediator/bus/validation"
)

// config содержит неэкспортируемую конфигурацию стандартного конвейера.
type config[Q Request[R], R any] struct {
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	propagator     propagation.TextMapPropagator
	validation     func(logger *slog.Logger) Behavior[Q, R]
	cache          cache.Cache[R]
	behaviors      []Behavior[Q, R]
}

// Option определяет тип для функциональных опций, которые изменяют конфигурацию конвейера.
type Option[Q Request[R], R any] func(*config[Q, R])

// WithLogger возвращает опцию, которая устанавливает логгер для всех поведений.
func WithLogger[Q Request[R], R any](logger *slog.Logger) Option[Q, R] {
	return func(c *config[Q, R]) {
		c.logger = logger
	}
}

// WithTracerProvider возвращает опцию, которая устанавливает провайдер трассировки.
func WithTracerProvider[Q Request[R], R any](provider trace.TracerProvider) Option[Q, R] {
	return func(c *config[Q, R]) {
		c.tracerProvider = provider
	}
}

// WithMeterProvider возвращает опцию, которая устанавливает провайдер метрик.
func WithMeterProvider[Q Request[R], R any](provider metric.MeterProvider) Option[Q, R] {
	return func(c *config[Q, R]) {
		c.meterProvider = provider
	}
}

// WithPropagator возвращает опцию, которая устанавливает механизм распространения контекста.
func WithPropagator[Q Request[R], R any](propagator propagation.TextMapPropagator) Option[Q, R] {
	return func(c *config[Q, R]) {
		c.propagator = propagator
	}
}

// WithValidators включает валидацию для запросов, результатом которых является простое значение.
func WithValidators[Q Request[R], R any](registry *validation.Registry) Option[Q, R] {
	return func(c *config[Q, R]) {
		c.validation = func(logger *slog.Logger) Behavior[Q, R] {
			return NewValidationBehavior[Q, R](registry, logger)
		}
	}
}

// WithResultValidators включает валидацию для запросов, результатом которых является
// result.Result[T].
func WithResultValidators[Q Request[result.Result[T]], T any](registry *validation.Registry) Option[Q, result.Result[T]] {
	return func(c *config[Q, result.Result[T]]) {
		c.validation = func(logger *slog.Logger) Behavior[Q, result.Result[T]] {
			return NewResultValidationBehavior[Q, T](registry, logger)
		}
	}
}

// WithCache включает кеширование результатов в указанном хранилище.
func WithCache[Q Request[R], R any](c cache.Cache[R]) Option[Q, R] {
	return func(cfg *config[Q, R]) {
		cfg.cache = c
	}
}

// WithBehaviors добавляет пользовательские поведения. Они выполняются после
// стандартных, непосредственно перед обработчиком, в порядке добавления.
func WithBehaviors[Q Request[R], R any](behaviors ...Behavior[Q, R]) Option[Q, R] {
	return func(c *config[Q, R]) {
		c.behaviors = append(c.behaviors, behaviors...)
	}
}
