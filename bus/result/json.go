package result

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/x-research-team/dtx-mediator/bus/validation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// wire - форма результата для сериализации во внешние хранилища.
type wire[T any] struct {
	Value            T                   `json:"value"`
	Status           string              `json:"status"`
	ValidationErrors validation.Failures `json:"validation_errors,omitempty"`
	Errors           []string            `json:"errors,omitempty"`
}

// MarshalJSON реализует json.Marshaler.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(wire[T]{
		Value:            r.value,
		Status:           r.status.String(),
		ValidationErrors: r.validationErrors,
		Errors:           r.errors,
	})
}

// UnmarshalJSON реализует json.Unmarshaler.
func (r *Result[T]) UnmarshalJSON(data []byte) error {
	var w wire[T]
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	status, err := parseStatus(w.Status)
	if err != nil {
		return err
	}
	*r = Result[T]{
		value:            w.Value,
		status:           status,
		validationErrors: w.ValidationErrors,
		errors:           w.Errors,
	}
	return nil
}

func parseStatus(s string) (Status, error) {
	for _, st := range []Status{StatusOk, StatusInvalid, StatusError, StatusNotFound} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("неизвестный статус результата '%s'", s)
}
