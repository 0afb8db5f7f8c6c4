package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Registry - это потокобезопасный реестр для управления экземплярами диспетчеров.
type Registry struct {
	dispatchers map[string]any
	logger      *slog.Logger
	mu          sync.RWMutex
}

// RegistryOption изменяет конфигурацию реестра.
type RegistryOption func(*Registry)

// WithRegistryLogger устанавливает логгер реестра. По умолчанию используется slog.Default().
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry создает новый экземпляр реестра диспетчеров.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		dispatchers: make(map[string]any),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dispatcher возвращает строго типизированный экземпляр диспетчера для указанного имени команды.
// Опции применяются только при первом создании диспетчера.
func Dispatcher[C Command[R], R any](r *Registry, commandName string, opts ...Option[C, R]) (IDispatcher[C, R], error) {
	r.mu.RLock()
	dispatcher, exists := r.dispatchers[commandName]
	r.mu.RUnlock()

	if exists {
		if typedDispatcher, ok := dispatcher.(IDispatcher[C, R]); ok {
			return typedDispatcher, nil
		}
		return nil, fmt.Errorf("диспетчер для команды '%s' уже существует с другим типом", commandName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if dispatcher, exists := r.dispatchers[commandName]; exists {
		if typedDispatcher, ok := dispatcher.(IDispatcher[C, R]); ok {
			return typedDispatcher, nil
		}
		return nil, fmt.Errorf("диспетчер для команды '%s' уже существует с другим типом", commandName)
	}

	newDispatcher := NewDispatcher(opts...)
	r.dispatchers[commandName] = newDispatcher

	return newDispatcher, nil
}

// Shutdown корректно завершает работу всех зарегистрированных диспетчеров.
// Ошибки отдельных диспетчеров логируются и возвращаются вместе.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, dispatcher := range r.dispatchers {
		if d, ok := dispatcher.(interface{ Shutdown(context.Context) error }); ok {
			if err := d.Shutdown(ctx); err != nil {
				r.logger.ErrorContext(ctx, "ошибка при завершении работы диспетчера",
					slog.String("command", name),
					slog.Any("error", err),
				)
				errs = append(errs, fmt.Errorf("диспетчер '%s': %w", name, err))
			}
		}
	}

	return errors.Join(errs...)
}
