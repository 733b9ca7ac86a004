package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Backend. It is used by tests and by the
// "memory" storage backend, which discards everything on exit.
type Memory struct {
	mu     sync.Mutex
	data   map[string]string
	events []LLMRequestEventRecord
	sets   int

	// GetErr and SetErr, when non-nil, are returned by every Get or Set.
	GetErr error
	SetErr error

	// OnSet, when non-nil, runs before each write is applied. A non-nil
	// return fails the write.
	OnSet func(key, value string) error
}

var _ Backend = (*Memory)(nil)

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) KV() KV               { return m }
func (m *Memory) EventRepo() EventRepo { return m }
func (m *Memory) Close() error         { return nil }

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	hook, setErr := m.OnSet, m.SetErr
	m.mu.Unlock()

	if setErr != nil {
		return setErr
	}
	if hook != nil {
		if err := hook(key, value); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

// Sets returns the number of successful writes.
func (m *Memory) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// Value returns the raw value at key.
func (m *Memory) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *Memory) AppendLLMRequest(_ context.Context, data LLMRequestEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, LLMRequestEventRecord{
		ID:           len(m.events) + 1,
		Timestamp:    time.Now(),
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		ErrorMessage: data.ErrorMessage,
		RequestBody:  data.RequestBody,
		ResponseBody: data.ResponseBody,
	})
	return nil
}

// newestFirst returns a copy of the events in reverse insertion order.
func (m *Memory) newestFirst() []LLMRequestEventRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LLMRequestEventRecord, len(m.events))
	for i, e := range m.events {
		out[len(m.events)-1-i] = e
	}
	return out
}

func (m *Memory) QueryLLMEvents(_ context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	return filterEvents(m.newestFirst(), opts), nil
}

func (m *Memory) GetLLMEvent(_ context.Context, id int) (*LLMRequestEventRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 1 || id > len(m.events) {
		return nil, nil
	}
	e := m.events[id-1]
	return &e, nil
}

func (m *Memory) LLMUsageByPurpose(_ context.Context) ([]LLMUsageStats, error) {
	return usageByPurpose(m.newestFirst()), nil
}

func (m *Memory) LLMUsageByModel(_ context.Context) ([]LLMModelUsage, error) {
	return usageByModel(m.newestFirst()), nil
}
