package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// loggingBehavior пишет структурированный лог до и после вызова оставшейся цепочки.
// Поведение не изменяет результат и не перехватывает ошибки.
type loggingBehavior[Q Request[R], R any] struct {
	logger *slog.Logger
}

// NewLoggingBehavior создает поведение для логирования.
// Если логгер не предоставлен (nil), записи отбрасываются.
func NewLoggingBehavior[Q Request[R], R any](logger *slog.Logger) Behavior[Q, R] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &loggingBehavior[Q, R]{
		logger: logger,
	}
}

// Handle логирует начало и завершение обработки запроса.
func (b *loggingBehavior[Q, R]) Handle(ctx context.Context, q Q, next Next[R]) (R, error) {
	if isNil(q) {
		var zero R
		return zero, ErrNilRequest
	}

	requestType, requestID := getRequestTypeAndID(q)
	invocationID := uuid.NewString()

	b.logger.InfoContext(ctx, "обработка запроса",
		slog.String("request_type", requestType),
		slog.String("request_id", requestID),
		slog.String("invocation_id", invocationID),
	)

	startTime := time.Now()
	result, err := next(ctx)
	duration := time.Since(startTime)

	if err != nil {
		b.logger.ErrorContext(ctx, "ошибка обработки запроса",
			slog.String("request_type", requestType),
			slog.String("request_id", requestID),
			slog.String("invocation_id", invocationID),
			slog.Any("error", err),
			slog.Duration("duration", duration),
		)
		return result, err
	}

	b.logger.InfoContext(ctx, "запрос обработан",
		slog.String("request_type", requestType),
		slog.String("request_id", requestID),
		slog.String("invocation_id", invocationID),
		slog.Duration("duration", duration),
	)
	return result, nil
}
