package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockProvider returns canned responses in FIFO order and records every
// request it receives. Used by strategy and evaluator tests, and selectable
// as provider "mock" for dry runs without credentials.
type MockProvider struct {
	mu        sync.Mutex
	responses []*Response
	errs      []error
	Calls     []Request
	model     string
}

// NewMockProvider creates a mock with no queued responses. With an empty
// queue every Generate call returns an empty JSON object, which downstream
// parsers treat as a parse failure and route to the fallback classifier.
func NewMockProvider() *MockProvider {
	return &MockProvider{model: "mock"}
}

// QueueResponse appends a canned response to the FIFO queue.
func (m *MockProvider) QueueResponse(content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, &Response{
		Content:    json.RawMessage(content),
		Model:      m.model,
		StopReason: "end",
	})
	m.errs = append(m.errs, nil)
}

// QueueError appends a canned error to the FIFO queue.
func (m *MockProvider) QueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, nil)
	m.errs = append(m.errs, err)
}

func (m *MockProvider) ModelID() string { return m.model }

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return &Response{
			Content:    json.RawMessage(`{}`),
			Model:      m.model,
			StopReason: "end",
		}, nil
	}

	resp, err := m.responses[0], m.errs[0]
	m.responses = m.responses[1:]
	m.errs = m.errs[1:]
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CallCount returns the number of Generate calls received.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
