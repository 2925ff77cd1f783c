// Package tasks implements the in-memory to-do board the model manages
// through function calls.
package tasks

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"aarika/internal/testutils"
	"aarika/pkg/aarikatypes"
)

// MatchPolicy decides which task wins when several tasks match an
// identifier at the same matching stage.
type MatchPolicy string

const (
	// MatchFirst picks the earliest added task (board order).
	MatchFirst MatchPolicy = "first"
	// MatchRecent picks the most recently added task.
	MatchRecent MatchPolicy = "recent"
)

// ParseMatchPolicy validates a policy name; empty means MatchFirst.
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch MatchPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchFirst:
		return MatchFirst, nil
	case MatchRecent:
		return MatchRecent, nil
	default:
		return "", fmt.Errorf("unknown match policy %q (want %q or %q)", s, MatchFirst, MatchRecent)
	}
}

// Store is an ordered, mutex-guarded list of tasks. Every method is safe
// for concurrent use; mutations are applied one at a time.
type Store struct {
	mu     sync.Mutex
	tasks  []aarikatypes.Task
	policy MatchPolicy
	nextID testutils.IDGenerator
	now    testutils.Clock
}

// Option customises a Store.
type Option func(*Store)

// WithMatchPolicy sets the tie-breaking policy for fuzzy lookups.
func WithMatchPolicy(p MatchPolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(gen testutils.IDGenerator) Option {
	return func(s *Store) { s.nextID = gen }
}

// WithClock replaces time.Now for CreatedAt stamps.
func WithClock(clock testutils.Clock) Option {
	return func(s *Store) { s.now = clock }
}

// NewStore creates an empty board.
func NewStore(opts ...Option) *Store {
	s := &Store{
		policy: MatchFirst,
		nextID: testutils.NewIDGenerator(false),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the configured tie-breaking policy.
func (s *Store) Policy() MatchPolicy {
	return s.policy
}

// Add appends a pending task. An empty priority becomes medium; callers are
// expected to have validated non-empty priorities already.
func (s *Store) Add(title string, priority aarikatypes.TaskPriority) aarikatypes.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if priority == "" {
		priority = aarikatypes.DefaultPriority
	}

	task := aarikatypes.Task{
		ID:        s.uniqueIDLocked(),
		Title:     title,
		Status:    aarikatypes.StatusPending,
		Priority:  priority,
		CreatedAt: s.now(),
	}
	s.tasks = append(s.tasks, task)
	return task
}

// uniqueIDLocked draws IDs until one is unused.
func (s *Store) uniqueIDLocked() string {
	for {
		id := s.nextID()
		if s.indexByIDLocked(id) < 0 {
			return id
		}
	}
}

// Remove deletes the task matched by identifier. The boolean is false, and
// the board untouched, when nothing matches.
func (s *Store) Remove(identifier string) (aarikatypes.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.matchLocked(identifier)
	if idx < 0 {
		return aarikatypes.Task{}, false
	}

	removed := s.tasks[idx]
	s.tasks = append(s.tasks[:idx:idx], s.tasks[idx+1:]...)
	return removed, true
}

// Complete marks the matched task completed. Completing a completed task is
// a no-op that still reports success.
func (s *Store) Complete(identifier string) (aarikatypes.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.matchLocked(identifier)
	if idx < 0 {
		return aarikatypes.Task{}, false
	}

	s.tasks[idx].Status = aarikatypes.StatusCompleted
	return s.tasks[idx], true
}

// Get looks a task up by exact ID only.
func (s *Store) Get(id string) (aarikatypes.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByIDLocked(id)
	if idx < 0 {
		return aarikatypes.Task{}, false
	}
	return s.tasks[idx], true
}

// List returns a snapshot of the board in insertion order.
func (s *Store) List() []aarikatypes.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]aarikatypes.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks on the board.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Counts returns the number of pending and completed tasks.
func (s *Store) Counts() (pending, completed int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.IsCompleted() {
			completed++
		} else {
			pending++
		}
	}
	return pending, completed
}
