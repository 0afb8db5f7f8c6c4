package pipeline

import (
	"context"
	"log/slog"
)

// Pipeline - упорядоченная цепочка поведений, завершающаяся обработчиком.
// Кроме списка поведений и обработчика конвейер не хранит состояния и безопасен
// для конкурентного использования, если безопасны его поведения.
type Pipeline[Q Request[R], R any] struct {
	handler   Handler[Q, R]
	behaviors []Behavior[Q, R]
}

// New создает конвейер с явно заданным порядком поведений: первое поведение
// является внешним. Без поведений обработчик вызывается напрямую.
func New[Q Request[R], R any](handler Handler[Q, R], behaviors ...Behavior[Q, R]) *Pipeline[Q, R] {
	chain := make([]Behavior[Q, R], 0, len(behaviors))
	for _, b := range behaviors {
		if b != nil {
			chain = append(chain, b)
		}
	}
	return &Pipeline[Q, R]{
		handler:   handler,
		behaviors: chain,
	}
}

// NewStandard создает конвейер с фиксированным порядком поведений:
// логирование -> метрики -> трассировка -> валидация -> кеширование ->
// пользовательские поведения -> обработчик. Ненастроенные этапы пропускаются.
func NewStandard[Q Request[R], R any](handler Handler[Q, R], opts ...Option[Q, R]) *Pipeline[Q, R] {
	return New(handler, Behaviors(opts...)...)
}

// Behaviors возвращает стандартную цепочку поведений для указанных опций.
func Behaviors[Q Request[R], R any](opts ...Option[Q, R]) []Behavior[Q, R] {
	cfg := &config[Q, R]{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	chain := []Behavior[Q, R]{
		NewLoggingBehavior[Q, R](cfg.logger),
	}
	if cfg.meterProvider != nil {
		chain = append(chain, NewMetricsBehavior[Q, R](cfg.meterProvider))
	}
	if cfg.tracerProvider != nil {
		chain = append(chain, NewTracingBehavior[Q, R](cfg.tracerProvider, cfg.propagator))
	}
	if cfg.validation != nil {
		chain = append(chain, cfg.validation(cfg.logger))
	}
	if cfg.cache != nil {
		chain = append(chain, NewCachingBehavior[Q, R](cfg.cache, cfg.logger))
	}
	return append(chain, cfg.behaviors...)
}

// Handle проводит запрос через цепочку. Продолжения строятся на каждый вызов,
// ошибки и результаты внутренних этапов возвращаются без изменений.
func (p *Pipeline[Q, R]) Handle(ctx context.Context, q Q) (R, error) {
	next := Next[R](func(ctx context.Context) (R, error) {
		return p.handler(ctx, q)
	})

	for i := len(p.behaviors) - 1; i >= 0; i-- {
		b, inner := p.behaviors[i], next
		next = func(ctx context.Context) (R, error) {
			return b.Handle(ctx, q, inner)
		}
	}

	return next(ctx)
}
