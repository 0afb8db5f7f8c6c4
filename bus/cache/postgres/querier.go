package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier - подмножество методов pgx, нужное хранилищу кеша.
// Ему удовлетворяют *pgxpool.Pool, *pgx.Conn и pgx.Tx: запись в кеш можно
// включить в транзакцию вызывающего кода.
type Querier interface {
	// Exec нужен для миграции, записи, удаления и очистки.
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)

	// QueryRow нужен для чтения одного значения по ключу.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
