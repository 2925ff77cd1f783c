package aarikatypes

import "time"

// Role identifies who produced a transcript message.
type Role string

const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// AudioClip is synthesized speech attached to a model message.
type AudioClip struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
	Path     string `json:"path,omitempty"` // set once the clip has been written to disk
}

// Message is one entry of the visible transcript. Messages are never
// mutated after they have been appended.
type Message struct {
	ID        string     `json:"id"`
	Role      Role       `json:"role"`
	Text      string     `json:"text"`
	Timestamp time.Time  `json:"timestamp"`
	IsError   bool       `json:"is_error,omitempty"`
	Audio     *AudioClip `json:"audio,omitempty"`
}

// HasAudio reports whether speech was attached to the message.
func (m Message) HasAudio() bool {
	return m.Audio != nil && len(m.Audio.Data) > 0
}
