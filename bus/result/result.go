// Package result определяет контейнер результата "успех/ошибка" для обработчиков
// запросов. В отличие от простого значения, неуспешный результат является обычным
// возвращаемым значением и не требует ошибки.
package result

import (
	"github.com/goccy/go-reflect"

	"github.com/x-research-team/dtx-mediator/bus/validation"
)

// Status описывает состояние результата.
type Status int

const (
	// StatusOk - успешный результат со значением.
	StatusOk Status = iota
	// StatusInvalid - запрос не прошел валидацию.
	StatusInvalid
	// StatusError - обработчик завершился ошибкой предметной области.
	StatusError
	// StatusNotFound - запрошенная сущность не найдена.
	StatusNotFound
)

// String возвращает имя статуса.
func (s Status) String() string {
	switch s {
	case StatusOk:
		return "Ok"
	case StatusInvalid:
		return "Invalid"
	case StatusError:
		return "Error"
	case StatusNotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// Empty - тип значения для результатов, не несущих данных.
type Empty struct{}

// Result - результат обработки запроса со значением типа T.
// Result[Empty] используется, когда значение не требуется.
type Result[T any] struct {
	value            T
	status           Status
	validationErrors validation.Failures
	errors           []string
}

// Success создает успешный результат со значением.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, status: StatusOk}
}

// Done создает успешный результат без значения.
func Done() Result[Empty] {
	return Success(Empty{})
}

// Invalid создает результат с ошибками валидации.
func Invalid[T any](failures ...validation.Failure) Result[T] {
	return Result[T]{
		status:           StatusInvalid,
		validationErrors: append(validation.Failures(nil), failures...),
	}
}

// Error создает результат с ошибками предметной области.
func Error[T any](messages ...string) Result[T] {
	return Result[T]{status: StatusError, errors: append([]string(nil), messages...)}
}

// NotFound создает результат для отсутствующей сущности.
func NotFound[T any](messages ...string) Result[T] {
	return Result[T]{status: StatusNotFound, errors: append([]string(nil), messages...)}
}

// Invalidator реализуется результатом с любым типом значения и позволяет построить
// Invalid того же типа, не зная T.
type Invalidator interface {
	AsInvalid(failures ...validation.Failure) any
}

// AsInvalid возвращает Invalid[T] с указанными ошибками валидации.
func (Result[T]) AsInvalid(failures ...validation.Failure) any {
	return Invalid[T](failures...)
}

// IsSuccess сообщает, является ли результат успешным.
func (r Result[T]) IsSuccess() bool {
	return r.status == StatusOk
}

// Status возвращает статус результата.
func (r Result[T]) Status() Status {
	return r.status
}

// Value возвращает значение. Для неуспешного результата это нулевое значение T.
func (r Result[T]) Value() T {
	return r.value
}

// ValidationErrors возвращает копию ошибок валидации в исходном порядке.
func (r Result[T]) ValidationErrors() validation.Failures {
	return append(validation.Failures(nil), r.validationErrors...)
}

// Errors возвращает копию сообщений об ошибках.
func (r Result[T]) Errors() []string {
	return append([]string(nil), r.errors...)
}

// ValueType возвращает полное имя типа значения, например
// "github.com/x-research-team/dtx-mediator/bus/result.Empty".
func (r Result[T]) ValueType() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
