// Package postgres реализует хранилище кеша результатов конвейера в PostgreSQL.
// Хранилище работает с сериализованными значениями и подключается к кеширующему
// поведению через cache.Encoded.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zoobzio/clockz"

	"github.com/x-research-team/dtx-mediator/bus/cache"
)

const (
	// SQL-запрос для создания таблицы кеша.
	// Индекс по времени истечения ускоряет очистку просроченных записей.
	createTableQuery = `
CREATE TABLE IF NOT EXISTS pipeline_cache (
    key TEXT PRIMARY KEY,
    value JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    expires_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_pipeline_cache_expires_at ON pipeline_cache (expires_at);
`

	// SQL-запрос для чтения непросроченного значения.
	selectValueQuery = `
SELECT value
FROM pipeline_cache
WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2);
`

	// SQL-запрос для записи значения. Повторная запись перезаписывает значение.
	upsertValueQuery = `
INSERT INTO pipeline_cache (key, value, created_at, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, created_at = EXCLUDED.created_at, expires_at = EXCLUDED.expires_at;
`

	deleteValueQuery = `
DELETE FROM pipeline_cache
WHERE key = $1;
`

	purgeExpiredQuery = `
DELETE FROM pipeline_cache
WHERE expires_at IS NOT NULL AND expires_at <= $1;
`
)

var _ cache.BlobStore = (*Store)(nil)

// Option определяет функцию для конфигурации Store.
type Option func(*Store)

// WithTTL задает срок жизни записей. Нулевое значение означает записи без срока жизни.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock задает источник времени.
func WithClock(clock clockz.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// Store представляет собой реализацию хранилища кеша для PostgreSQL.
type Store struct {
	q     Querier
	ttl   time.Duration
	clock clockz.Clock
}

// NewStore создает новый экземпляр Store поверх пула соединений или транзакции.
func NewStore(q Querier, opts ...Option) *Store {
	s := &Store{
		q:     q,
		clock: clockz.RealClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate создает необходимую таблицу, если она не существует.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.q.Exec(ctx, createTableQuery); err != nil {
		return fmt.Errorf("не удалось создать таблицу pipeline_cache: %w", err)
	}
	return nil
}

// Get извлекает непросроченное значение по ключу.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.q.QueryRow(ctx, selectValueQuery, key, s.clock.Now().UTC()).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("не удалось прочитать значение кеша '%s': %w", key, err)
	}
	return value, true, nil
}

// Set сохраняет значение по ключу.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	now := s.clock.Now().UTC()

	var expiresAt *time.Time
	if s.ttl > 0 {
		t := now.Add(s.ttl)
		expiresAt = &t
	}

	if _, err := s.q.Exec(ctx, upsertValueQuery, key, value, now, expiresAt); err != nil {
		return fmt.Errorf("не удалось сохранить значение кеша '%s': %w", key, err)
	}
	return nil
}

// Delete удаляет значение по ключу.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.q.Exec(ctx, deleteValueQuery, key); err != nil {
		return fmt.Errorf("не удалось удалить значение кеша '%s': %w", key, err)
	}
	return nil
}

// PurgeExpired удаляет просроченные записи и возвращает их количество.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.q.Exec(ctx, purgeExpiredQuery, s.clock.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("не удалось очистить просроченные записи кеша: %w", err)
	}
	return tag.RowsAffected(), nil
}
