// Package transcript keeps the visible conversation: user messages, model
// replies and system notices. Entries are append-only.
package transcript

import (
	"sync"

	"aarika/internal/testutils"
	"aarika/pkg/aarikatypes"
)

// Transcript is an append-only, concurrency-safe message list.
type Transcript struct {
	mu       sync.RWMutex
	messages []aarikatypes.Message
	nextID   testutils.IDGenerator
	now      testutils.Clock
}

// New creates an empty transcript.
func New(nextID testutils.IDGenerator, now testutils.Clock) *Transcript {
	if nextID == nil {
		nextID = testutils.NewIDGenerator(false)
	}
	if now == nil {
		now = testutils.NewClock(false)
	}
	return &Transcript{nextID: nextID, now: now}
}

// Append stamps msg with an ID and timestamp when missing and stores it.
func (t *Transcript) Append(msg aarikatypes.Message) aarikatypes.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	if msg.ID == "" {
		msg.ID = t.nextID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = t.now()
	}
	t.messages = append(t.messages, msg)
	return msg
}

// AppendUser records a user message.
func (t *Transcript) AppendUser(text string) aarikatypes.Message {
	return t.Append(aarikatypes.Message{Role: aarikatypes.RoleUser, Text: text})
}

// AppendModel records a model reply with optional audio.
func (t *Transcript) AppendModel(text string, audio *aarikatypes.AudioClip) aarikatypes.Message {
	return t.Append(aarikatypes.Message{Role: aarikatypes.RoleModel, Text: text, Audio: audio})
}

// AppendSystem records a system notice; isError marks failures.
func (t *Transcript) AppendSystem(text string, isError bool) aarikatypes.Message {
	return t.Append(aarikatypes.Message{Role: aarikatypes.RoleSystem, Text: text, IsError: isError})
}

// Messages returns a copy of all messages in order.
func (t *Transcript) Messages() []aarikatypes.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]aarikatypes.Message(nil), t.messages...)
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Last returns the most recent message with the given role.
func (t *Transcript) Last(role aarikatypes.Role) (aarikatypes.Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == role {
			return t.messages[i], true
		}
	}
	return aarikatypes.Message{}, false
}
