package validation

import (
	"cmp"
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule проверяет одно условие запроса и возвращает nil, если условие выполнено.
type Rule[Q any] func(q Q) *Failure

// New собирает валидатор из набора правил. Все правила выполняются всегда,
// ошибки возвращаются в порядке объявления правил.
func New[Q any](rules ...Rule[Q]) Validator[Q] {
	return Func[Q](func(ctx context.Context, q Q) (Failures, error) {
		var failures Failures
		for _, rule := range rules {
			if f := rule(q); f != nil {
				failures = append(failures, *f)
			}
		}
		return failures, nil
	})
}

// NotEmpty требует непустое (после обрезки пробелов) строковое значение поля.
func NotEmpty[Q any](field string, get func(Q) string) Rule[Q] {
	return func(q Q) *Failure {
		if strings.TrimSpace(get(q)) != "" {
			return nil
		}
		return &Failure{
			Field:   field,
			Message: fmt.Sprintf("'%s' must not be empty.", DisplayName(field)),
		}
	}
}

// GreaterThan требует, чтобы значение поля было строго больше bound.
func GreaterThan[Q any, N cmp.Ordered](field string, get func(Q) N, bound N) Rule[Q] {
	return func(q Q) *Failure {
		if get(q) > bound {
			return nil
		}
		return &Failure{
			Field:   field,
			Message: fmt.Sprintf("'%s' must be greater than '%v'.", DisplayName(field), bound),
		}
	}
}

// MaxLength ограничивает длину строкового значения поля в символах.
func MaxLength[Q any](field string, get func(Q) string, max int) Rule[Q] {
	return func(q Q) *Failure {
		n := utf8.RuneCountInString(get(q))
		if n <= max {
			return nil
		}
		return &Failure{
			Field: field,
			Message: fmt.Sprintf("'%s' must be %d characters or fewer. You entered %d characters.",
				DisplayName(field), max, n),
		}
	}
}

// DisplayName превращает имя поля в PascalCase в читаемое имя: "FirstName" -> "First Name".
// Аббревиатуры сохраняются целиком: "CustomerID" -> "Customer ID".
func DisplayName(field string) string {
	runes := []rune(field)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
