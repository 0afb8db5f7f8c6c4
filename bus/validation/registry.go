package validation

import (
	"sync"

	"github.com/goccy/go-reflect"
)

// Registry - потокобезопасный реестр валидаторов, сгруппированных по точному типу запроса.
// Реестр заполняется явно при старте приложения и после этого используется только для чтения.
type Registry struct {
	validators map[reflect.Type][]any
	mu         sync.RWMutex
}

// NewRegistry создает пустой реестр валидаторов.
func NewRegistry() *Registry {
	return &Registry{
		validators: make(map[reflect.Type][]any),
	}
}

// Register добавляет валидаторы для запроса типа Q.
// Порядок регистрации сохраняется и определяет порядок ошибок валидации.
func Register[Q any](r *Registry, validators ...Validator[Q]) {
	key := typeKey[Q]()

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range validators {
		if v != nil {
			r.validators[key] = append(r.validators[key], v)
		}
	}
}

// For возвращает валидаторы, зарегистрированные для типа Q, в порядке регистрации.
// Nil-реестр считается пустым.
func For[Q any](r *Registry) []Validator[Q] {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	registered := r.validators[typeKey[Q]()]
	r.mu.RUnlock()

	if len(registered) == 0 {
		return nil
	}

	validators := make([]Validator[Q], 0, len(registered))
	for _, v := range registered {
		validators = append(validators, v.(Validator[Q]))
	}
	return validators
}

// typeKey возвращает статический тип Q. Для интерфейсов используется сам интерфейс,
// а не динамический тип значения.
func typeKey[Q any]() reflect.Type {
	return reflect.TypeOf((*Q)(nil)).Elem()
}
