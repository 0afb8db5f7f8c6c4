// Package query реализует строго типизированную шину запросов на получение данных
// поверх конвейера bus/pipeline. Запросы идемпотентны, поэтому именно для них
// обычно включают кеширование результатов.
package query

import (
	"context"

	"github.com/x-research-team/dtx-mediator/bus/pipeline"
)

// Query представляет собой интерфейс-маркер для запроса, параметризованный
// типом возвращаемого значения R.
// Каждый запрос - это уникальный, идемпотентный запрос на получение данных.
type Query[R any] = pipeline.Request[R]

// QueryHandler определяет строго типизированную функцию-обработчик для запроса Q,
// которая возвращает результат типа R.
type QueryHandler[Q Query[R], R any] func(ctx context.Context, q Q) (R, error)

// Metadatable определяет интерфейс для объектов, которые могут нести метаданные.
type Metadatable = pipeline.Metadatable
