package cache

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// MemoryOption определяет функциональную опцию для MemoryStore.
type MemoryOption func(*MemoryStore)

// WithTTL задает срок жизни записей. Нулевое значение означает записи без срока жизни.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		s.ttl = ttl
	}
}

// WithClock задает источник времени. Используется в тестах для управления временем.
func WithClock(clock clockz.Clock) MemoryOption {
	return func(s *MemoryStore) {
		s.clock = clock
	}
}

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

// MemoryStore - внутрипроцессное потокобезопасное хранилище.
// Одновременные промахи по одному ключу допустимы: выигрывает последняя запись.
type MemoryStore struct {
	entries map[string]memoryEntry
	ttl     time.Duration
	clock   clockz.Clock
	mu      sync.RWMutex
}

// NewMemoryStore создает новое внутрипроцессное хранилище.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		clock:   clockz.RealClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get возвращает значение по ключу. Просроченная запись удаляется и считается промахом.
func (s *MemoryStore) Get(ctx context.Context, key string) (any, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if !e.expiresAt.IsZero() && !s.clock.Now().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}

	return e.value, true, nil
}

// Set сохраняет значение по ключу.
func (s *MemoryStore) Set(ctx context.Context, key string, value any) error {
	e := memoryEntry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.clock.Now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = e
	return nil
}

// Delete удаляет значение по ключу.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Len возвращает количество записей, включая еще не удаленные просроченные.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
