// Package pipeline реализует обобщенный конвейер обработки запросов: цепочку
// сквозных поведений (логирование, метрики, трассировка, валидация, кеширование),
// которые оборачивают обработчик запроса.
//
// Порядок поведений задается явно при построении конвейера. Первое поведение
// в списке является внешним и вызывается первым. Каждое поведение получает запрос
// и продолжение next, вызывающее оставшуюся часть цепочки.
package pipeline

import (
	"context"
	"errors"
)

// ErrNilRequest возвращается любым поведением, если запрос отсутствует (nil).
// Проверка выполняется до обращения к любым зависимостям поведения.
var ErrNilRequest = errors.New("запрос не может быть nil")

// Request представляет собой интерфейс-маркер для запроса, параметризованный
// типом возвращаемого значения R.
type Request[R any] interface{}

// Handler определяет строго типизированную функцию-обработчик для запроса Q,
// которая возвращает результат типа R. Обработчик является последним звеном цепочки.
type Handler[Q Request[R], R any] func(ctx context.Context, q Q) (R, error)

// Next вызывает оставшуюся часть цепочки. Контекст передается дальше, поэтому
// поведение может дополнить его (например, спаном трассировки).
type Next[R any] func(ctx context.Context) (R, error)

// Behavior определяет сквозное поведение, оборачивающее оставшуюся часть цепочки.
type Behavior[Q Request[R], R any] interface {
	Handle(ctx context.Context, q Q, next Next[R]) (R, error)
}

// BehaviorFunc является адаптером, позволяющим использовать обычные функции как Behavior.
type BehaviorFunc[Q Request[R], R any] func(ctx context.Context, q Q, next Next[R]) (R, error)

// Handle реализует интерфейс Behavior.
func (f BehaviorFunc[Q, R]) Handle(ctx context.Context, q Q, next Next[R]) (R, error) {
	return f(ctx, q, next)
}

// Metadatable определяет интерфейс для запросов, которые могут нести метаданные.
// Метаданные используются для распространения контекста трассировки.
type Metadatable interface {
	Metadata() map[string]string
}

// noopBehavior передает управление дальше без изменений.
type noopBehavior[Q Request[R], R any] struct{}

func (noopBehavior[Q, R]) Handle(ctx context.Context, q Q, next Next[R]) (R, error) {
	return next(ctx)
}
