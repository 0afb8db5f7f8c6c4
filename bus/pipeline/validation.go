package pipeline

import (
	"context"
	"log/slog"

	"github.com/x-research-team/dtx-mediator/bus/result"
	"github.com/x-research-team/dtx-mediator/bus/validation"
)

// validationBehavior запускает все валидаторы, зарегистрированные для типа Q.
// Способ отклонения невалидного запроса задается при построении поведения.
type validationBehavior[Q Request[R], R any] struct {
	registry *validation.Registry
	logger   *slog.Logger
	reject   func(failures validation.Failures) (R, error)
}

// NewValidationBehavior создает поведение валидации для запросов, результатом которых
// является простое значение. Невалидный запрос завершается ошибкой *validation.Error.
// Если R - result.Result[T], невалидный запрос возвращает result.Invalid без ошибки,
// как и NewResultValidationBehavior.
func NewValidationBehavior[Q Request[R], R any](registry *validation.Registry, logger *slog.Logger) Behavior[Q, R] {
	var zero R
	if inv, ok := any(zero).(result.Invalidator); ok {
		return newValidationBehavior[Q, R](registry, logger, func(failures validation.Failures) (R, error) {
			return inv.AsInvalid(failures...).(R), nil
		})
	}
	return newValidationBehavior[Q, R](registry, logger, func(failures validation.Failures) (R, error) {
		return zero, validation.NewError(failures)
	})
}

// NewResultValidationBehavior создает поведение валидации для запросов, результатом
// которых является result.Result[T]. Невалидный запрос возвращает result.Invalid
// без ошибки.
func NewResultValidationBehavior[Q Request[result.Result[T]], T any](registry *validation.Registry, logger *slog.Logger) Behavior[Q, result.Result[T]] {
	return newValidationBehavior[Q, result.Result[T]](registry, logger, func(failures validation.Failures) (result.Result[T], error) {
		return result.Invalid[T](failures...), nil
	})
}

func newValidationBehavior[Q Request[R], R any](
	registry *validation.Registry,
	logger *slog.Logger,
	reject func(validation.Failures) (R, error),
) *validationBehavior[Q, R] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &validationBehavior[Q, R]{
		registry: registry,
		logger:   logger,
		reject:   reject,
	}
}

// Handle валидирует запрос и вызывает next только для валидного запроса.
func (b *validationBehavior[Q, R]) Handle(ctx context.Context, q Q, next Next[R]) (R, error) {
	if isNil(q) {
		var zero R
		return zero, ErrNilRequest
	}

	validators := validation.For[Q](b.registry)
	if len(validators) == 0 {
		return next(ctx)
	}

	var failures validation.Failures
	for _, v := range validators {
		f, err := v.Validate(ctx, q)
		if err != nil {
			var zero R
			return zero, err
		}
		failures = append(failures, f...)
	}

	if len(failures) == 0 {
		return next(ctx)
	}

	requestType, _ := getRequestTypeAndID(q)
	b.logger.WarnContext(ctx, "запрос не прошел валидацию",
		slog.String("request_type", requestType),
		slog.Any("failures", failures),
	)

	return b.reject(failures)
}
