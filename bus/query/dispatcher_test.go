package query_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-research-team/dtx-mediator/bus/cache"
	"github.com/x-research-team/dtx-mediator/bus/query"
	"github.com/x-research-team/dtx-mediator/bus/result"
	"github.com/x-research-team/dtx-mediator/bus/validation"
)

var discard = slog.New(slog.DiscardHandler)

// Тестовый запрос для проверки.
type testQuery struct {
	Value string
}

// Тестовый запрос для проверки несовпадения типов.
type anotherTestQuery struct {
	Value int
}

// Тестовый обработчик запроса.
func testQueryHandler(ctx context.Context, q testQuery) (string, error) {
	return "processed: " + q.Value, nil
}

// Тест успешной регистрации и выполнения запроса.
func TestDispatcher_Success(t *testing.T) {
	t.Parallel()

	// Создаем новый диспетчер.
	dispatcher := query.NewDispatcher(query.WithLogger[testQuery, string](discard))
	err := dispatcher.Register(testQueryHandler)
	require.NoError(t, err, "Регистрация обработчика не должна вызывать ошибку")

	// Отправляем запрос.
	q := testQuery{Value: "test"}
	res, err := dispatcher.Dispatch(context.Background(), q)

	// Проверяем результат.
	require.NoError(t, err, "Выполнение запроса не должно вызывать ошибку")
	assert.Equal(t, "processed: test", res, "Результат выполнения запроса некорректен")
}

// Тест ошибки при отправке запроса без зарегистрированного обработчика.
func TestDispatcher_Dispatch_NoHandler(t *testing.T) {
	t.Parallel()

	// Создаем новый диспетчер без регистрации обработчика.
	dispatcher := query.NewDispatcher(query.WithLogger[testQuery, string](discard))

	// Отправляем запрос.
	q := testQuery{Value: "test"}
	_, err := dispatcher.Dispatch(context.Background(), q)

	// Проверяем ошибку.
	require.ErrorIs(t, err, query.ErrHandlerNotFound, "Выполнение запроса без обработчика должно вызывать ошибку")
	assert.Contains(t, err.Error(), "обработчик для запроса", "Текст ошибки должен содержать информацию об отсутствующем обработчике")
	assert.Contains(t, err.Error(), "не найден", "Текст ошибки должен содержать информацию о том, что обработчик не найден")
}

// Тест ошибки при повторной регистрации обработчика.
func TestDispatcher_Register_AlreadyRegistered(t *testing.T) {
	t.Parallel()

	// Создаем новый диспетчер и регистрируем обработчик.
	dispatcher := query.NewDispatcher(query.WithLogger[testQuery, string](discard))
	err := dispatcher.Register(testQueryHandler)
	require.NoError(t, err, "Первая регистрация обработчика не должна вызывать ошибку")

	// Повторно регистрируем обработчик.
	err = dispatcher.Register(testQueryHandler)

	// Проверяем ошибку.
	require.ErrorIs(t, err, query.ErrHandlerAlreadyRegistered, "Повторная регистрация обработчика должна вызывать ошибку")
	assert.Contains(t, err.Error(), "обработчик для запроса", "Текст ошибки должен содержать информацию о запросе")
	assert.Contains(t, err.Error(), "уже зарегистрирован", "Текст ошибки должен содержать информацию о том, что обработчик уже зарегистрирован")
}

// Тест успешного получения диспетчера из реестра.
func TestRegistry_GetDispatcher_Success(t *testing.T) {
	t.Parallel()

	registry := query.NewRegistry()
	queryName := "test.query"

	// Получаем диспетчер в первый раз.
	dispatcher1, err := query.Dispatcher[testQuery, string](registry, queryName)
	require.NoError(t, err, "Первое получение диспетчера не должно вызывать ошибку")
	require.NotNil(t, dispatcher1, "Диспетчер не должен быть nil")

	// Получаем диспетчер во второй раз.
	dispatcher2, err := query.Dispatcher[testQuery, string](registry, queryName)
	require.NoError(t, err, "Второе получение диспетчера не должно вызывать ошибку")
	require.NotNil(t, dispatcher2, "Диспетчер не должен быть nil")

	// Проверяем, что это один и тот же экземпляр.
	assert.Same(t, dispatcher1, dispatcher2, "Реестр должен возвращать один и тот же экземпляр диспетчера для одного имени")
}

// Тест ошибки при несовпадении типов в реестре.
func TestRegistry_GetDispatcher_TypeMismatch(t *testing.T) {
	t.Parallel()

	registry := query.NewRegistry()
	queryName := "test.query"

	// Регистрируем диспетчер с одним типом.
	_, err := query.Dispatcher[testQuery, string](registry, queryName)
	require.NoError(t, err, "Регистрация первого диспетчера не должна вызывать ошибку")

	// Пытаемся получить диспетчер с другим типом.
	_, err = query.Dispatcher[anotherTestQuery, int](registry, queryName)

	// Проверяем ошибку.
	require.Error(t, err, "Получение диспетчера с другим типом должно вызывать ошибку")
	assert.Equal(t, fmt.Sprintf("диспетчер для запроса '%s' уже существует с другим типом", queryName), err.Error())
}

// Тест на потокобезопасность реестра.
func TestRegistry_GetDispatcher_Concurrency(t *testing.T) {
	t.Parallel()

	registry := query.NewRegistry()
	queryName := "concurrent.query"
	goroutines := 100
	var wg sync.WaitGroup
	wg.Add(goroutines)

	// Массив для хранения полученных диспетчеров.
	dispatchers := make([]query.IDispatcher[testQuery, string], goroutines)

	// Запускаем множество горутин для одновременного получения диспетчера.
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			dispatcher, err := query.Dispatcher[testQuery, string](registry, queryName)
			// Внутри горутины используем require, чтобы немедленно остановить ее в случае ошибки.
			require.NoError(t, err)
			require.NotNil(t, dispatcher)
			dispatchers[i] = dispatcher
		}(i)
	}

	wg.Wait()

	// Проверяем, что все горутины получили один и тот же экземпляр диспетчера.
	firstDispatcher := dispatchers[0]
	for i := 1; i < goroutines; i++ {
		assert.Same(t, firstDispatcher, dispatchers[i], "Все горутины должны получать один и тот же экземпляр диспетчера")
	}
}
// Тестовый запрос с результатом result.Result.
type findQuery struct {
	ID int64
}

type item struct {
	ID   int64
	Name string
}

// Тест NotFound: неуспешный результат не является ошибкой и проходит цепочку без изменений.
func TestDispatcher_ResultNotFound(t *testing.T) {
	t.Parallel()

	registry := validation.NewRegistry()
	validation.Register[*findQuery](registry, validation.New(
		validation.GreaterThan("ID", func(q *findQuery) int64 { return q.ID }, 0),
	))

	dispatcher := query.NewDispatcher(
		query.WithLogger[*findQuery, result.Result[item]](discard),
		query.WithResultValidators[*findQuery, item](registry),
	)
	require.NoError(t, dispatcher.Register(func(ctx context.Context, q *findQuery) (result.Result[item], error) {
		if q.ID != 1 {
			return result.NotFound[item](fmt.Sprintf("элемент %d не найден", q.ID)), nil
		}
		return result.Success(item{ID: 1, Name: "first"}), nil
	}))

	res, err := dispatcher.Dispatch(context.Background(), &findQuery{ID: 2})
	require.NoError(t, err)
	assert.Equal(t, result.StatusNotFound, res.Status())
	assert.Equal(t, []string{"элемент 2 не найден"}, res.Errors())

	res, err = dispatcher.Dispatch(context.Background(), &findQuery{ID: 0})
	require.NoError(t, err)
	assert.Equal(t, result.StatusInvalid, res.Status())
	assert.Equal(t, "'ID' must be greater than '0'.", res.ValidationErrors()[0].Message)

	res, err = dispatcher.Dispatch(context.Background(), &findQuery{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, item{ID: 1, Name: "first"}, res.Value())
}

// Тест общего хранилища: результаты разных типов запросов не смешиваются.
func TestDispatcher_SharedCache(t *testing.T) {
	t.Parallel()

	store := cache.NewMemoryStore()
	var stringCalls, intCalls int

	strings := query.NewDispatcher(
		query.WithLogger[testQuery, string](discard),
		query.WithCache[testQuery, string](cache.Typed[string](store)),
	)
	require.NoError(t, strings.Register(func(ctx context.Context, q testQuery) (string, error) {
		stringCalls++
		return testQueryHandler(ctx, q)
	}))

	ints := query.NewDispatcher(
		query.WithLogger[anotherTestQuery, int](discard),
		query.WithCache[anotherTestQuery, int](cache.Typed[int](store)),
	)
	require.NoError(t, ints.Register(func(ctx context.Context, q anotherTestQuery) (int, error) {
		intCalls++
		return q.Value * 2, nil
	}))

	for i := 0; i < 3; i++ {
		s, err := strings.Dispatch(context.Background(), testQuery{Value: "v"})
		require.NoError(t, err)
		assert.Equal(t, "processed: v", s)

		n, err := ints.Dispatch(context.Background(), anotherTestQuery{Value: 21})
		require.NoError(t, err)
		assert.Equal(t, 42, n)
	}

	assert.Equal(t, 1, stringCalls)
	assert.Equal(t, 1, intCalls)
	assert.Equal(t, 2, store.Len())
}

func TestRegistry_Shutdown(t *testing.T) {
	t.Parallel()

	registry := query.NewRegistry(query.WithRegistryLogger(discard))
	dispatcher, err := query.Dispatcher[testQuery, string](registry, "test.query",
		query.WithLogger[testQuery, string](discard))
	require.NoError(t, err)
	require.NoError(t, dispatcher.Register(testQueryHandler))

	require.NoError(t, registry.Shutdown(context.Background()))

	_, err = dispatcher.Dispatch(context.Background(), testQuery{Value: "test"})
	require.ErrorIs(t, err, query.ErrShutdown)
}
