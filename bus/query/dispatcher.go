package query

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-reflect"

	"github.com/x-research-team/dtx-mediator/bus/pipeline"
)

var (
	// ErrHandlerNotFound возвращается при отправке запроса без зарегистрированного обработчика.
	ErrHandlerNotFound = errors.New("обработчик для запроса не найден")
	// ErrHandlerAlreadyRegistered возвращается при повторной регистрации обработчика.
	ErrHandlerAlreadyRegistered = errors.New("обработчик для запроса уже зарегистрирован")
	// ErrShutdown возвращается диспетчером после завершения работы.
	ErrShutdown = errors.New("диспетчер запросов остановлен")
)

// IDispatcher определяет основной, строго типизированный интерфейс для шины запросов.
type IDispatcher[Q Query[R], R any] interface {
	Dispatch(ctx context.Context, q Q) (R, error)
	Register(handler QueryHandler[Q, R]) error
	Shutdown(ctx context.Context) error
}

// dispatcherImpl представляет собой реализацию IDispatcher.
type dispatcherImpl[Q Query[R], R any] struct {
	opts     []Option[Q, R]
	pipeline *pipeline.Pipeline[Q, R]
	stopped  bool
	mu       sync.RWMutex
}

// NewDispatcher создает новый, готовый к использованию экземпляр диспетчера.
// Конвейер строится при регистрации обработчика из переданных опций.
func NewDispatcher[Q Query[R], R any](opts ...Option[Q, R]) IDispatcher[Q, R] {
	return &dispatcherImpl[Q, R]{
		opts: opts,
	}
}

// Register регистрирует обработчик для конкретного типа запроса.
func (d *dispatcherImpl[Q, R]) Register(handler QueryHandler[Q, R]) error {
	if handler == nil {
		return fmt.Errorf("обработчик для запроса '%s' не может быть nil", queryType[Q]())
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrShutdown
	}
	if d.pipeline != nil {
		return fmt.Errorf("%w: '%s'", ErrHandlerAlreadyRegistered, queryType[Q]())
	}

	d.pipeline = pipeline.NewStandard(pipeline.Handler[Q, R](handler), d.opts...)
	return nil
}

// Dispatch проводит запрос через конвейер и возвращает результат обработчика.
func (d *dispatcherImpl[Q, R]) Dispatch(ctx context.Context, q Q) (R, error) {
	d.mu.RLock()
	p, stopped := d.pipeline, d.stopped
	d.mu.RUnlock()

	var zero R
	if stopped {
		return zero, ErrShutdown
	}
	if p == nil {
		return zero, fmt.Errorf("%w: '%s'", ErrHandlerNotFound, queryType[Q]())
	}

	return p.Handle(ctx, q)
}

// Shutdown переводит диспетчер в остановленное состояние. Уже начатые обработки
// завершаются, новые запросы отклоняются с ErrShutdown. Повторный вызов безопасен.
func (d *dispatcherImpl[Q, R]) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	return nil
}

func queryType[Q any]() string {
	return reflect.TypeOf((*Q)(nil)).Elem().String()
}
