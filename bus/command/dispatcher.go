package command

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-reflect"

	"github.com/x-research-team/dtx-mediator/bus/pipeline"
)

var (
	// ErrHandlerNotFound возвращается при отправке команды без зарегистрированного обработчика.
	ErrHandlerNotFound = errors.New("обработчик для команды не найден")
	// ErrHandlerAlreadyRegistered возвращается при повторной регистрации обработчика.
	ErrHandlerAlreadyRegistered = errors.New("обработчик для команды уже зарегистрирован")
	// ErrShutdown возвращается диспетчером после завершения работы.
	ErrShutdown = errors.New("диспетчер команд остановлен")
)

// IDispatcher определяет основной, строго типизированный интерфейс для шины команд.
type IDispatcher[C Command[R], R any] interface {
	Dispatch(ctx context.Context, cmd C) (R, error)
	Register(handler CommandHandler[C, R]) error
	Shutdown(ctx context.Context) error
}

// dispatcherImpl представляет собой реализацию IDispatcher.
type dispatcherImpl[C Command[R], R any] struct {
	opts     []Option[C, R]
	pipeline *pipeline.Pipeline[C, R]
	stopped  bool
	mu       sync.RWMutex
}

// NewDispatcher создает новый, готовый к использованию экземпляр диспетчера.
// Конвейер строится при регистрации обработчика из переданных опций.
func NewDispatcher[C Command[R], R any](opts ...Option[C, R]) IDispatcher[C, R] {
	return &dispatcherImpl[C, R]{
		opts: opts,
	}
}

// Register регистрирует обработчик для конкретного типа команды.
func (d *dispatcherImpl[C, R]) Register(handler CommandHandler[C, R]) error {
	if handler == nil {
		return fmt.Errorf("обработчик для команды '%s' не может быть nil", commandType[C]())
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrShutdown
	}
	if d.pipeline != nil {
		return fmt.Errorf("%w: '%s'", ErrHandlerAlreadyRegistered, commandType[C]())
	}

	d.pipeline = pipeline.NewStandard(pipeline.Handler[C, R](handler), d.opts...)
	return nil
}

// Dispatch проводит команду через конвейер и возвращает результат обработчика.
func (d *dispatcherImpl[C, R]) Dispatch(ctx context.Context, cmd C) (R, error) {
	d.mu.RLock()
	p, stopped := d.pipeline, d.stopped
	d.mu.RUnlock()

	var zero R
	if stopped {
		return zero, ErrShutdown
	}
	if p == nil {
		return zero, fmt.Errorf("%w: '%s'", ErrHandlerNotFound, commandType[C]())
	}

	return p.Handle(ctx, cmd)
}

// Shutdown переводит диспетчер в остановленное состояние. Уже начатые обработки
// завершаются, новые команды отклоняются с ErrShutdown. Повторный вызов безопасен.
func (d *dispatcherImpl[C, R]) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	return nil
}

func commandType[C any]() string {
	return reflect.TypeOf((*C)(nil)).Elem().String()
}
