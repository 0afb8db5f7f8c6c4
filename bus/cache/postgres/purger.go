package postgres

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// PurgerOption определяет функцию для конфигурации Purger.
type PurgerOption func(*Purger)

// WithInterval устанавливает интервал очистки просроченных записей.
func WithInterval(interval time.Duration) PurgerOption {
	return func(p *Purger) {
		p.interval = interval
	}
}

// WithPurgerClock задает источник времени для интервала очистки.
func WithPurgerClock(clock clockz.Clock) PurgerOption {
	return func(p *Purger) {
		p.clock = clock
	}
}

// WithLogger устанавливает логгер.
func WithLogger(logger *slog.Logger) PurgerOption {
	return func(p *Purger) {
		p.logger = logger
	}
}

// Purger - фоновый процесс, который периодически удаляет просроченные записи кеша.
type Purger struct {
	store    *Store
	interval time.Duration
	clock    clockz.Clock
	logger   *slog.Logger
	done     chan struct{}
	stopped  chan struct{}
	started  bool
	stopping bool
	mu       sync.Mutex
}

// NewPurger создает новый экземпляр Purger.
func NewPurger(store *Store, opts ...PurgerOption) *Purger {
	p := &Purger{
		store:    store,
		interval: time.Minute,
		clock:    clockz.RealClock,
		logger:   slog.Default(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start запускает фоновый процесс. Процесс завершается по Stop или отмене ctx.
// Повторный вызов, как и вызов после Stop, ничего не делает.
func (p *Purger) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopping {
		return
	}
	p.started = true

	go func() {
		defer close(p.stopped)
		p.logger.InfoContext(ctx, "очистка кеша запущена", slog.Duration("interval", p.interval))
		for {
			select {
			case <-p.clock.After(p.interval):
				p.purge(ctx)
			case <-ctx.Done():
				p.logger.InfoContext(ctx, "очистка кеша остановлена")
				return
			case <-p.done:
				p.logger.InfoContext(ctx, "очистка кеша остановлена")
				return
			}
		}
	}()
}

func (p *Purger) purge(ctx context.Context) {
	n, err := p.store.PurgeExpired(ctx)
	if err != nil {
		p.logger.ErrorContext(ctx, "ошибка очистки кеша", slog.Any("error", err))
		return
	}
	if n > 0 {
		p.logger.InfoContext(ctx, "удалены просроченные записи кеша", slog.Int64("count", n))
	}
}

// Stop останавливает фоновый процесс и дожидается его завершения.
// Вызов до Start или повторный вызов безопасен.
func (p *Purger) Stop() {
	p.mu.Lock()
	started := p.started
	if !p.stopping {
		p.stopping = true
		close(p.done)
	}
	p.mu.Unlock()

	if started {
		<-p.stopped
	}
}
