// Package command реализует строго типизированную шину команд поверх конвейера
// bus/pipeline. Каждый диспетчер обслуживает один тип команды и проводит ее через
// стандартную цепочку поведений перед вызовом обработчика.
package command

import (
	"context"

	"github.com/x-research-team/dtx-mediator/bus/pipeline"
)

// Command представляет собой интерфейс-маркер для команды, параметризованный
// типом возвращаемого значения R.
// Каждая команда - это уникальный запрос на выполнение операции.
type Command[R any] = pipeline.Request[R]

// CommandHandler определяет строго типизированную функцию-обработчик для команды C,
// которая возвращает результат типа R.
type CommandHandler[C Command[R], R any] func(ctx context.Context, cmd C) (R, error)
