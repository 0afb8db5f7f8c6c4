package pipeline

import (
	"context"
	"log/slog"

	"github.com/x-research-team/dtx-mediator/bus/cache"
)

// cachingBehavior реализует чтение через кеш: при попадании возвращает сохраненный
// результат, при промахе вызывает next и сохраняет его успешный результат.
type cachingBehavior[Q Request[R], R any] struct {
	cache  cache.Cache[R]
	logger *slog.Logger
}

// NewCachingBehavior создает кеширующее поведение. Ключом записи является полное
// имя типа запроса (см. CacheKey). Если кеш не предоставлен (nil), возвращается
// поведение, которое просто передает управление дальше.
func NewCachingBehavior[Q Request[R], R any](c cache.Cache[R], logger *slog.Logger) Behavior[Q, R] {
	if c == nil {
		return noopBehavior[Q, R]{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &cachingBehavior[Q, R]{
		cache:  c,
		logger: logger,
	}
}

// Handle возвращает результат из кеша или вычисляет и сохраняет его.
// Ошибки хранилища не прерывают обработку: неудачное чтение считается промахом,
// неудачная запись только логируется.
func (b *cachingBehavior[Q, R]) Handle(ctx context.Context, q Q, next Next[R]) (R, error) {
	if isNil(q) {
		var zero R
		return zero, ErrNilRequest
	}

	key := CacheKey(q)

	cached, ok, err := b.cache.TryGet(ctx, key)
	switch {
	case err != nil:
		b.logger.WarnContext(ctx, "ошибка чтения кеша", slog.String("cache_key", key), slog.Any("error", err))
	case ok:
		b.logger.DebugContext(ctx, "результат получен из кеша", slog.String("cache_key", key))
		return cached, nil
	}

	res, err := next(ctx)
	if err != nil {
		return res, err
	}

	if err := b.cache.Set(ctx, key, res); err != nil {
		b.logger.WarnContext(ctx, "ошибка записи в кеш", slog.String("cache_key", key), slog.Any("error", err))
	} else {
		b.logger.DebugContext(ctx, "результат добавлен в кеш", slog.String("cache_key", key))
	}

	return res, nil
}
