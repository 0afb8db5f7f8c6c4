package pipeline_test

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/x-research-team/dtx-mediator/bus/pipeline"
	"github.com/x-research-team/dtx-mediator/bus/validation"
)

const testCommandKey = "github.com/x-research-team/dtx-mediator/bus/pipeline_test.testCommand"

// Тестовая команда с результатом в виде простого значения.
type testCommand struct {
	ID   string
	Name string
}

// Тестовая команда с результатом result.Result[result.Empty].
type resultTestCommand struct {
	Name string
}

// Тестовая команда с результатом result.Result[testValue].
type genericResultTestCommand struct {
	Name string
}

type testValue struct {
	Number int
}

func nameRule[Q any](get func(Q) string) validation.Validator[Q] {
	return validation.New(validation.NotEmpty("Name", get))
}

func newRegistry() *validation.Registry {
	r := validation.NewRegistry()
	validation.Register[*testCommand](r, nameRule(func(c *testCommand) string { return c.Name }))
	validation.Register[*resultTestCommand](r, nameRule(func(c *resultTestCommand) string { return c.Name }))
	validation.Register[*genericResultTestCommand](r, nameRule(func(c *genericResultTestCommand) string { return c.Name }))
	return r
}

// nextStub - продолжение цепочки, которое считает вызовы.
type nextStub[R any] struct {
	calls  atomic.Int32
	result R
	err    error
}

func (n *nextStub[R]) Next(ctx context.Context) (R, error) {
	n.calls.Add(1)
	return n.result, n.err
}

func nextReturning[R any](r R) *nextStub[R] {
	return &nextStub[R]{result: r}
}

// recordingHandler сохраняет все записи лога.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(string) slog.Handler { return h }

func (h *recordingHandler) Records() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]slog.Record(nil), h.records...)
}

func (h *recordingHandler) Messages() []string {
	var msgs []string
	for _, r := range h.Records() {
		msgs = append(msgs, r.Message)
	}
	return msgs
}

func newRecordingLogger() (*slog.Logger, *recordingHandler) {
	h := &recordingHandler{}
	return slog.New(h), h
}

// spyCache - потокобезопасный кеш в памяти, который считает обращения.
type spyCache[R any] struct {
	mu     sync.Mutex
	values map[string]R
	gets   []string
	sets   []string
	getErr error
	setErr error
}

func newSpyCache[R any]() *spyCache[R] {
	return &spyCache[R]{values: make(map[string]R)}
}

func (c *spyCache[R]) TryGet(ctx context.Context, key string) (R, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets = append(c.gets, key)
	if c.getErr != nil {
		var zero R
		return zero, false, c.getErr
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *spyCache[R]) Set(ctx context.Context, key string, value R) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets = append(c.sets, key)
	if c.setErr != nil {
		return c.setErr
	}
	c.values[key] = value
	return nil
}

func (c *spyCache[R]) Gets() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.gets...)
}

func (c *spyCache[R]) Sets() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sets...)
}

// recordBehavior добавляет имя в журнал вызовов и передает управление дальше.
func recordBehavior[Q pipeline.Request[R], R any](name string, journal *[]string, mu *sync.Mutex) pipeline.Behavior[Q, R] {
	return pipeline.BehaviorFunc[Q, R](func(ctx context.Context, q Q, next pipeline.Next[R]) (R, error) {
		mu.Lock()
		*journal = append(*journal, name)
		mu.Unlock()
		return next(ctx)
	})
}
