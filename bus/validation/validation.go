// Package validation определяет контракты валидаторов запросов, явный реестр
// валидаторов по типу запроса и ошибку агрегированной валидации.
package validation

import (
	"context"
	"strings"
)

// Failure описывает одну ошибку валидации конкретного поля запроса.
type Failure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Failures - упорядоченный набор ошибок валидации.
type Failures []Failure

// Validator определяет контракт валидатора для запроса типа Q.
// Валидатор может выполнять блокирующие операции (например, обращения к хранилищу),
// поэтому принимает контекст. Возвращенная ошибка не является ошибкой валидации
// и передается вызывающей стороне без изменений.
type Validator[Q any] interface {
	Validate(ctx context.Context, q Q) (Failures, error)
}

// Func является адаптером, позволяющим использовать обычные функции как Validator.
type Func[Q any] func(ctx context.Context, q Q) (Failures, error)

// Validate реализует интерфейс Validator.
func (f Func[Q]) Validate(ctx context.Context, q Q) (Failures, error) {
	return f(ctx, q)
}

// Error - ошибка агрегированной валидации. Возвращается поведением валидации,
// когда результат запроса является простым значением.
type Error struct {
	Failures Failures
}

// NewError создает ошибку валидации из набора ошибок полей.
func NewError(failures Failures) *Error {
	return &Error{Failures: append(Failures(nil), failures...)}
}

// Error формирует сообщение в фиксированном формате, который ожидают клиенты:
// "Validation failed: " и далее для каждой ошибки "\r\n -- {поле}: {сообщение} Severity: Error".
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("Validation failed: ")
	for _, f := range e.Failures {
		b.WriteString("\r\n -- ")
		b.WriteString(f.Field)
		b.WriteString(": ")
		b.WriteString(f.Message)
		b.WriteString(" Severity: Error")
	}
	return b.String()
}
