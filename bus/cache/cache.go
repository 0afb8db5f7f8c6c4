// Package cache определяет контракт хранилища результатов для кеширующего поведения
// конвейера и набор реализаций: внутрипроцессное хранилище с опциональным TTL,
// типизированный адаптер и адаптер с JSON-кодированием для внешних хранилищ.
//
// Политика вытеснения и срок жизни записей принадлежат хранилищу, а не конвейеру.
// Все реализации обязаны быть потокобезопасными.
package cache

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Cache - типизированное хранилище результатов, которое использует кеширующее поведение.
type Cache[R any] interface {
	// TryGet возвращает значение по ключу и признак его наличия.
	TryGet(ctx context.Context, key string) (R, bool, error)

	// Set сохраняет значение по ключу. Повторная запись перезаписывает значение.
	Set(ctx context.Context, key string, value R) error
}

// Store - нетипизированное хранилище, общее для результатов разных типов запросов.
type Store interface {
	Get(ctx context.Context, key string) (any, bool, error)
	Set(ctx context.Context, key string, value any) error
}

// BlobStore - хранилище сериализованных значений, например внешняя база данных.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Typed адаптирует общее хранилище к типу результата R.
// Значение другого типа под тем же ключом считается промахом.
func Typed[R any](s Store) Cache[R] {
	return &typedCache[R]{store: s}
}

type typedCache[R any] struct {
	store Store
}

func (c *typedCache[R]) TryGet(ctx context.Context, key string) (R, bool, error) {
	var zero R
	v, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	typed, ok := v.(R)
	if !ok {
		return zero, false, nil
	}
	return typed, true, nil
}

func (c *typedCache[R]) Set(ctx context.Context, key string, value R) error {
	return c.store.Set(ctx, key, value)
}

// Encoded адаптирует хранилище сериализованных значений к типу результата R,
// кодируя значения в JSON. Тип R должен корректно сериализоваться в JSON.
func Encoded[R any](s BlobStore) Cache[R] {
	return &encodedCache[R]{store: s}
}

type encodedCache[R any] struct {
	store BlobStore
}

func (c *encodedCache[R]) TryGet(ctx context.Context, key string) (R, bool, error) {
	var value R
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return value, false, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		var zero R
		return zero, false, fmt.Errorf("не удалось десериализовать значение кеша '%s': %w", key, err)
	}
	return value, true, nil
}

func (c *encodedCache[R]) Set(ctx context.Context, key string, value R) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("не удалось сериализовать значение кеша '%s': %w", key, err)
	}
	return c.store.Set(ctx, key, raw)
}
