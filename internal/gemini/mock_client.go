package gemini

import (
	"context"
	"fmt"
	"sync"
)

// MockClient implements Client for tests. Unset funcs fall back to Reply.
type MockClient struct {
	GenerateTextFunc      func(ctx context.Context, prompt string) (string, error)
	GenerateFromAudioFunc func(ctx context.Context, audioPath, mimeType, instruction string) (string, error)
	ChatFunc              func(ctx context.Context, history []Message) (string, error)

	// Reply is returned by any call without a func.
	Reply string

	mu    sync.Mutex
	Calls []string
}

// NewMockClient returns a MockClient answering every call with reply.
func NewMockClient(reply string) *MockClient {
	return &MockClient{Reply: reply}
}

func (m *MockClient) record(call string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	m.mu.Unlock()
}

func (m *MockClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.record("GenerateText")
	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, prompt)
	}
	return m.reply()
}

func (m *MockClient) GenerateFromAudio(ctx context.Context, audioPath, mimeType, instruction string) (string, error) {
	m.record("GenerateFromAudio")
	if m.GenerateFromAudioFunc != nil {
		return m.GenerateFromAudioFunc(ctx, audioPath, mimeType, instruction)
	}
	return m.reply()
}

func (m *MockClient) Chat(ctx context.Context, history []Message) (string, error) {
	m.record("Chat")
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, history)
	}
	return m.reply()
}

func (m *MockClient) reply() (string, error) {
	if m.Reply == "" {
		return "", fmt.Errorf("no mock reply provided")
	}
	return m.Reply, nil
}

// CallCount returns how many times method was invoked.
func (m *MockClient) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == method {
			n++
		}
	}
	return n
}
