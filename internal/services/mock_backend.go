package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"aarika/internal/tools"
	"aarika/pkg/aarikatypes"
)

// MockBackend is the offline backend used in test mode. It understands a
// handful of imperative phrases ("add ...", "done ...", "remove ...",
// "list") and turns them into tool calls so the whole turn loop can be
// exercised without network access. Everything else is echoed.
type MockBackend struct {
	mu    sync.Mutex
	calls int
}

// NewMockBackend creates a MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Provider returns "mock".
func (m *MockBackend) Provider() string {
	return "mock"
}

// IsConfigured always returns true.
func (m *MockBackend) IsConfigured() bool {
	return true
}

// Generate replies to the last history entry.
func (m *MockBackend) Generate(ctx context.Context, req *aarikatypes.Request) (*aarikatypes.Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.History) == 0 {
		return nil, fmt.Errorf("mock backend: empty history")
	}

	last := req.History[len(req.History)-1]
	switch last.Role {
	case aarikatypes.TurnTool:
		return &aarikatypes.Reply{Text: summarizeResults(last.Results)}, nil
	case aarikatypes.TurnUser:
		if call, ok := m.commandCall(last.Text); ok {
			return &aarikatypes.Reply{Calls: []aarikatypes.ToolCall{call}}, nil
		}
		return &aarikatypes.Reply{Text: "Mock reply: " + last.Text}, nil
	default:
		return &aarikatypes.Reply{Text: "Mock reply"}, nil
	}
}

func (m *MockBackend) commandCall(text string) (aarikatypes.ToolCall, bool) {
	trimmed := strings.TrimSpace(text)
	verb, rest, _ := strings.Cut(trimmed, " ")
	rest = strings.TrimSpace(rest)

	var call aarikatypes.ToolCall
	switch strings.ToLower(verb) {
	case "add":
		if rest == "" {
			return call, false
		}
		call = aarikatypes.ToolCall{Name: tools.AddTask, Args: map[string]any{"title": rest}}
	case "done", "complete":
		if rest == "" {
			return call, false
		}
		call = aarikatypes.ToolCall{Name: tools.CompleteTask, Args: map[string]any{"id": rest}}
	case "remove", "delete":
		if rest == "" {
			return call, false
		}
		call = aarikatypes.ToolCall{Name: tools.RemoveTask, Args: map[string]any{"id": rest}}
	case "list":
		call = aarikatypes.ToolCall{Name: tools.ListTasks, Args: map[string]any{}}
	default:
		return call, false
	}

	m.mu.Lock()
	m.calls++
	call.ID = fmt.Sprintf("mock-call-%d", m.calls)
	m.mu.Unlock()
	return call, true
}

func summarizeResults(results []aarikatypes.ToolResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		switch {
		case r.IsError():
			parts = append(parts, fmt.Sprintf("Error: %v", r.Response["error"]))
		case r.Response["message"] != nil:
			parts = append(parts, fmt.Sprint(r.Response["message"]))
		case r.Response["count"] != nil:
			parts = append(parts, fmt.Sprintf("You have %v tasks.", r.Response["count"]))
		}
	}
	return strings.Join(parts, " ")
}
