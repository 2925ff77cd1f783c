package testutils

import (
	"context"
	"errors"
	"sync"

	"aarika/pkg/aarikatypes"
)

// ErrScriptExhausted is returned when a ScriptedBackend runs out of replies.
var ErrScriptExhausted = errors.New("scripted backend: no more replies")

// ScriptStep is one canned response of a ScriptedBackend. When Err is set
// the call fails with it instead of returning Reply.
type ScriptStep struct {
	Reply *aarikatypes.Reply
	Err   error
	// Block makes the call wait until the request context is cancelled.
	Block bool
}

// ScriptedBackend replays a fixed list of replies and records every request
// it receives. It is safe for concurrent use.
type ScriptedBackend struct {
	mu         sync.Mutex
	steps      []ScriptStep
	requests   []aarikatypes.Request
	configured bool
}

// NewScriptedBackend creates a configured backend that answers with steps in order.
func NewScriptedBackend(steps ...ScriptStep) *ScriptedBackend {
	return &ScriptedBackend{steps: steps, configured: true}
}

// TextReply is a shorthand step answering with plain text.
func TextReply(text string) ScriptStep {
	return ScriptStep{Reply: &aarikatypes.Reply{Text: text}}
}

// CallReply is a shorthand step answering with tool calls.
func CallReply(calls ...aarikatypes.ToolCall) ScriptStep {
	return ScriptStep{Reply: &aarikatypes.Reply{Calls: calls}}
}

// ErrorReply is a shorthand step failing with err.
func ErrorReply(err error) ScriptStep {
	return ScriptStep{Err: err}
}

// Unconfigured marks the backend as missing credentials.
func (b *ScriptedBackend) Unconfigured() *ScriptedBackend {
	b.configured = false
	return b
}

// Provider implements aarikatypes.Backend.
func (b *ScriptedBackend) Provider() string {
	return "scripted"
}

// IsConfigured implements aarikatypes.Backend.
func (b *ScriptedBackend) IsConfigured() bool {
	return b.configured
}

// Generate implements aarikatypes.Backend.
func (b *ScriptedBackend) Generate(ctx context.Context, req *aarikatypes.Request) (*aarikatypes.Reply, error) {
	b.mu.Lock()
	snapshot := *req
	snapshot.History = append([]aarikatypes.Turn(nil), req.History...)
	b.requests = append(b.requests, snapshot)

	if len(b.steps) == 0 {
		b.mu.Unlock()
		return nil, ErrScriptExhausted
	}
	step := b.steps[0]
	b.steps = b.steps[1:]
	b.mu.Unlock()

	if step.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if step.Err != nil {
		return nil, step.Err
	}
	return step.Reply, nil
}

// Requests returns a copy of every request received so far.
func (b *ScriptedBackend) Requests() []aarikatypes.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]aarikatypes.Request(nil), b.requests...)
}

// Remaining reports how many scripted steps have not been consumed.
func (b *ScriptedBackend) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.steps)
}
