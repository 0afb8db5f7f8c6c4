package result_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-research-team/dtx-mediator/bus/result"
	"github.com/x-research-team/dtx-mediator/bus/validation"
)

type value struct {
	Name string
}

func TestSuccess(t *testing.T) {
	t.Parallel()

	r := result.Success(value{Name: "test"})

	assert.True(t, r.IsSuccess())
	assert.Equal(t, result.StatusOk, r.Status())
	assert.Equal(t, value{Name: "test"}, r.Value())
	assert.Empty(t, r.ValidationErrors())
	assert.Equal(t, "github.com/x-research-team/dtx-mediator/bus/result_test.value", r.ValueType())
}

func TestDone(t *testing.T) {
	t.Parallel()

	r := result.Done()

	assert.True(t, r.IsSuccess())
	assert.Equal(t, "github.com/x-research-team/dtx-mediator/bus/result.Empty", r.ValueType())
}

// Тест неуспешного результата: ошибки сохраняются в исходном порядке, а внешние
// изменения возвращенного среза не влияют на результат.
func TestInvalid(t *testing.T) {
	t.Parallel()

	failures := validation.Failures{
		{Field: "Name", Message: "'Name' must not be empty."},
		{Field: "Country", Message: "'Country' must not be empty."},
	}
	r := result.Invalid[value](failures...)

	assert.False(t, r.IsSuccess())
	assert.Equal(t, result.StatusInvalid, r.Status())
	assert.Equal(t, failures, r.ValidationErrors())
	assert.Equal(t, value{}, r.Value())

	got := r.ValidationErrors()
	got[0].Field = "changed"
	assert.Equal(t, "Name", r.ValidationErrors()[0].Field)
}

func TestErrorAndNotFound(t *testing.T) {
	t.Parallel()

	e := result.Error[int]("boom")
	assert.False(t, e.IsSuccess())
	assert.Equal(t, result.StatusError, e.Status())
	assert.Equal(t, []string{"boom"}, e.Errors())

	nf := result.NotFound[value]()
	assert.False(t, nf.IsSuccess())
	assert.Equal(t, "NotFound", nf.Status().String())
	assert.Equal(t, "int", e.ValueType())
}

// Тест сериализации: статус и ошибки валидации переживают запись во внешнее хранилище.
func TestResult_JSON(t *testing.T) {
	t.Parallel()

	in := result.Invalid[value](validation.Failure{Field: "Name", Message: "'Name' must not be empty."})

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"value": {"Name": ""},
		"status": "Invalid",
		"validation_errors": [{"field": "Name", "message": "'Name' must not be empty."}]
	}`, string(data))

	var out result.Result[value]
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, result.StatusInvalid, out.Status())
	assert.Equal(t, in.ValidationErrors(), out.ValidationErrors())

	ok, err := json.Marshal(result.Success(value{Name: "test"}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(ok, &out))
	assert.True(t, out.IsSuccess())
	assert.Equal(t, value{Name: "test"}, out.Value())

	assert.Error(t, json.Unmarshal([]byte(`{"status":"Unknown"}`), &out))
}

func TestAsInvalid(t *testing.T) {
	t.Parallel()

	var inv result.Invalidator = result.Success(value{Name: "test"})

	r, ok := inv.AsInvalid(validation.Failure{Field: "Name", Message: "bad"}).(result.Result[value])

	assert.True(t, ok)
	assert.Equal(t, result.StatusInvalid, r.Status())
	assert.Equal(t, validation.Failures{{Field: "Name", Message: "bad"}}, r.ValidationErrors())
}
