// Package session holds the conversation state shared with the model: the
// persona, the tool schema and the turn history. A Session is explicit and
// owned by its caller; several may coexist.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"aarika/internal/logger"
	"aarika/internal/testutils"
	"aarika/pkg/aarikatypes"
)

// DefaultTemperature is used when Options.Temperature is zero.
const DefaultTemperature = 0.7

// ErrNotConfigured is returned by New when the backend has no credentials.
var ErrNotConfigured = errors.New("model backend is not configured")

// Options describes the fixed parameters of a session.
type Options struct {
	Model       string
	Persona     string
	Tools       []aarikatypes.ToolDeclaration
	Temperature float64
	// IDGenerator names sessions; defaults to random UUIDs.
	IDGenerator testutils.IDGenerator
}

// Checkpoint marks a point in a session's history to roll back to.
type Checkpoint struct {
	sessionID string
	length    int
}

// Session is a conversation with one backend. History only grows after a
// successful remote call, so a failed send leaves it untouched. Sends are
// serialised: an overlapping send waits until the previous one has
// recorded its turns, so each request sees the full history.
type Session struct {
	sendMu sync.Mutex

	mu      sync.Mutex
	id      string
	backend aarikatypes.Backend
	opts    Options
	history []aarikatypes.Turn
}

// New creates a session bound to backend.
func New(backend aarikatypes.Backend, opts Options) (*Session, error) {
	if backend == nil || !backend.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = testutils.NewIDGenerator(false)
	}

	s := &Session{
		id:      opts.IDGenerator(),
		backend: backend,
		opts:    opts,
	}
	logger.Debug("Session created", "id", s.id, "provider", backend.Provider(), "model", opts.Model)
	return s, nil
}

// ID returns the session identifier. It changes on Reset.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Options returns the session's fixed parameters.
func (s *Session) Options() Options {
	return s.opts
}

// Provider returns the backend's provider name.
func (s *Session) Provider() string {
	return s.backend.Provider()
}

// SendUserText submits a user message and returns the model's reply.
func (s *Session) SendUserText(ctx context.Context, text string) (*aarikatypes.Reply, error) {
	return s.send(ctx, aarikatypes.Turn{Role: aarikatypes.TurnUser, Text: text})
}

// SendToolResults answers the previous reply's tool calls.
func (s *Session) SendToolResults(ctx context.Context, results []aarikatypes.ToolResult) (*aarikatypes.Reply, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no tool results to send")
	}
	return s.send(ctx, aarikatypes.Turn{Role: aarikatypes.TurnTool, Results: results})
}

func (s *Session) send(ctx context.Context, turn aarikatypes.Turn) (*aarikatypes.Reply, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	history := make([]aarikatypes.Turn, len(s.history), len(s.history)+1)
	copy(history, s.history)
	s.mu.Unlock()

	req := &aarikatypes.Request{
		Model:        s.opts.Model,
		SystemPrompt: s.opts.Persona,
		Tools:        s.opts.Tools,
		History:      append(history, turn),
		Temperature:  s.opts.Temperature,
	}

	reply, err := s.backend.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	// A reply that arrives after cancellation is stale.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if reply == nil {
		reply = &aarikatypes.Reply{}
	}

	s.mu.Lock()
	s.history = append(s.history, turn, aarikatypes.Turn{
		Role:   aarikatypes.TurnModel,
		Text:   reply.Text,
		Calls:  reply.Calls,
		Native: reply.Native,
	})
	s.mu.Unlock()

	return reply, nil
}

// Checkpoint records the current history length.
func (s *Session) Checkpoint() Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Checkpoint{sessionID: s.id, length: len(s.history)}
}

// Rollback truncates history to cp. Checkpoints from before a Reset are
// ignored.
func (s *Session) Rollback(cp Checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cp.sessionID != s.id || cp.length >= len(s.history) {
		return
	}
	logger.Debug("Session rolled back", "id", s.id, "dropped_turns", len(s.history)-cp.length)
	s.history = s.history[:cp.length]
}

// Reset discards the history and assigns a new ID.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.id = s.opts.IDGenerator()
	logger.Debug("Session reset", "id", s.id)
}

// History returns a copy of the turns exchanged so far.
func (s *Session) History() []aarikatypes.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]aarikatypes.Turn(nil), s.history...)
}

// Len returns the number of turns in the history.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
