package aarikatypes

import "context"

// TurnRole identifies the author of a session history entry.
type TurnRole string

const (
	TurnUser  TurnRole = "user"
	TurnModel TurnRole = "model"
	TurnTool  TurnRole = "tool"
)

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID   string         `json:"id,omitempty"` // provider call ID, may be empty for Gemini
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// ToolResult answers a single ToolCall.
type ToolResult struct {
	CallID   string         `json:"call_id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// IsError reports whether the result carries an "error" key.
func (r ToolResult) IsError() bool {
	_, ok := r.Response["error"]
	return ok
}

// Turn is one entry of the conversation history kept by a session.
//
// Native holds the provider-specific representation of a model reply so the
// backend that produced it can replay it verbatim. Other backends ignore it
// and rebuild the turn from Text and Calls.
type Turn struct {
	Role    TurnRole
	Text    string
	Calls   []ToolCall
	Results []ToolResult
	Native  any
}

// Reply is what a backend returns for one request.
type Reply struct {
	Text   string
	Calls  []ToolCall
	Native any
}

// HasToolCalls reports whether the model asked for any function calls.
func (r *Reply) HasToolCalls() bool {
	return r != nil && len(r.Calls) > 0
}

// Request is the provider-neutral input of a single model call.
type Request struct {
	Model        string
	SystemPrompt string
	Tools        []ToolDeclaration
	History      []Turn
	Temperature  float64
}

// Backend sends one request to a hosted model. Implementations must not
// retain Request.History beyond the call.
type Backend interface {
	// Provider returns the provider name, e.g. "gemini".
	Provider() string

	// IsConfigured reports whether credentials are present.
	IsConfigured() bool

	// Generate performs the remote call.
	Generate(ctx context.Context, req *Request) (*Reply, error)
}
