// Package orchestration coordinates one conversation: the session with the
// model, the task board it edits, the visible transcript and the optional
// speech features. It holds no terminal code so any front end can drive it.
package orchestration

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"aarika/internal/logger"
	"aarika/internal/session"
	"aarika/internal/speech"
	"aarika/internal/tasks"
	"aarika/internal/testutils"
	"aarika/internal/tools"
	"aarika/internal/transcript"
	"aarika/pkg/aarikatypes"
)

// User-facing notices.
const (
	MissingKeyMessage      = "Error: API Key is missing. Please check your environment configuration."
	ConnectionErrorMessage = "Sorry, thoda connection issue lag raha hai. Can we try again?"
	EmptyReplyFallback     = "List updated!"
	RoundsExceededMessage  = "Sorry, I could not complete that request in one go. Please try again step by step."
	CancelledMessage       = "Request cancelled."
	ResetMessage           = "Conversation reset. Tasks are kept."
)

// ErrBusy is returned by Send while another turn is in flight.
var ErrBusy = errors.New("assistant is busy with another request")

// Deps wires an Assistant. Backend, Store and Transcript are required;
// speech components are optional.
type Deps struct {
	Backend       aarikatypes.Backend
	Store         *tasks.Store
	Transcript    *transcript.Transcript
	Model         string
	Persona       string
	Greeting      string
	Tools         []aarikatypes.ToolDeclaration
	Temperature   float64
	MaxToolRounds int
	IDGenerator   testutils.IDGenerator

	Synthesizer  speech.Synthesizer
	Player       speech.Player
	Recognizer   speech.Recognizer
	VoiceEnabled bool
}

// Assistant is the presentation logic of the chat: it accepts user input,
// runs model turns one at a time and records everything in the transcript.
type Assistant struct {
	deps       Deps
	session    *session.Session
	dispatcher *tools.Dispatcher
	dictation  *speech.Dictation

	turnMu  sync.Mutex
	loading atomic.Bool
	voice   atomic.Bool
}

// NewAssistant creates the session and posts the opening message: the
// greeting, or the missing-key error when the backend has no credentials.
func NewAssistant(deps Deps) *Assistant {
	a := &Assistant{
		deps:       deps,
		dispatcher: tools.NewDispatcher(deps.Store),
		dictation:  speech.NewDictation(deps.Recognizer),
	}
	a.voice.Store(deps.VoiceEnabled)

	sess, err := session.New(deps.Backend, session.Options{
		Model:       deps.Model,
		Persona:     deps.Persona,
		Tools:       deps.Tools,
		Temperature: deps.Temperature,
		IDGenerator: deps.IDGenerator,
	})
	if err != nil {
		logger.Error("Assistant not ready", "error", err)
		deps.Transcript.AppendSystem(MissingKeyMessage, true)
		return a
	}

	a.session = sess
	if greeting := strings.TrimSpace(deps.Greeting); greeting != "" {
		deps.Transcript.AppendModel(greeting, nil)
	}
	return a
}

// Ready reports whether a session exists.
func (a *Assistant) Ready() bool {
	return a.session != nil
}

// Session returns the underlying session, or nil when not ready.
func (a *Assistant) Session() *session.Session {
	return a.session
}

// Loading reports whether a turn is in flight.
func (a *Assistant) Loading() bool {
	return a.loading.Load()
}

// Send runs one user turn. Blank input and sends before the assistant is
// ready are ignored and return (nil, nil). Failures are recorded as system
// messages; the returned message is whatever was appended last and err
// reports the underlying failure.
func (a *Assistant) Send(ctx context.Context, text string) (*aarikatypes.Message, error) {
	text = strings.TrimSpace(text)
	if !a.Ready() || text == "" {
		return nil, nil
	}
	if !a.turnMu.TryLock() {
		return nil, ErrBusy
	}
	defer a.turnMu.Unlock()

	a.loading.Store(true)
	defer a.loading.Store(false)

	a.deps.Transcript.AppendUser(text)

	result, err := session.RunTurn(ctx, a.session, a.dispatcher, text, a.deps.MaxToolRounds)
	if err != nil {
		msg := a.deps.Transcript.AppendSystem(failureMessage(err), true)
		return &msg, err
	}

	reply := result.Text
	if strings.TrimSpace(reply) == "" {
		reply = EmptyReplyFallback
	}

	msg := a.deps.Transcript.AppendModel(reply, a.synthesize(ctx, reply))
	return &msg, nil
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("Turn cancelled")
		return CancelledMessage
	case errors.Is(err, session.ErrToolRoundsExceeded):
		logger.Warn("Turn stopped", "error", err)
		return RoundsExceededMessage
	default:
		logger.Error("Turn failed", "error", err)
		return ConnectionErrorMessage
	}
}

// synthesize returns nil when voice is off or synthesis fails; the text
// reply is shown either way.
func (a *Assistant) synthesize(ctx context.Context, text string) *aarikatypes.AudioClip {
	if !a.voice.Load() || a.deps.Synthesizer == nil {
		return nil
	}
	clip, err := a.deps.Synthesizer.Synthesize(ctx, text)
	if err != nil {
		logger.Warn("Speech synthesis failed", "error", err)
		return nil
	}
	return clip
}

// Play hands a message's audio to the configured player.
func (a *Assistant) Play(ctx context.Context, msg aarikatypes.Message) error {
	if a.deps.Player == nil || !msg.HasAudio() {
		return nil
	}
	return a.deps.Player.Play(ctx, msg.Audio)
}

// ToggleVoice flips spoken replies on or off and returns the new state.
func (a *Assistant) ToggleVoice() bool {
	for {
		old := a.voice.Load()
		if a.voice.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// CanSpeak reports whether a synthesizer is configured.
func (a *Assistant) CanSpeak() bool {
	return a.deps.Synthesizer != nil
}

// VoiceEnabled reports whether replies are spoken.
func (a *Assistant) VoiceEnabled() bool {
	return a.voice.Load()
}

// ToggleDictation starts or stops listening; see speech.Dictation.Toggle.
func (a *Assistant) ToggleDictation(ctx context.Context, draft string) (<-chan speech.DictationResult, error) {
	return a.dictation.Toggle(ctx, draft)
}

// StartDictation begins a capture whose transcript is appended to draft.
func (a *Assistant) StartDictation(ctx context.Context, draft string) (<-chan speech.DictationResult, error) {
	return a.dictation.Start(ctx, draft)
}

// StopDictation ends a running capture early. It is a no-op when the
// capture has already finished.
func (a *Assistant) StopDictation() bool {
	return a.dictation.Stop()
}

// DictationState returns the microphone state.
func (a *Assistant) DictationState() speech.DictationState {
	return a.dictation.State()
}

// CompleteTask marks a task done from the UI. The model is not told.
func (a *Assistant) CompleteTask(identifier string) (aarikatypes.Task, bool) {
	return a.deps.Store.Complete(identifier)
}

// DeleteTask removes a task from the UI. The model is not told.
func (a *Assistant) DeleteTask(identifier string) (aarikatypes.Task, bool) {
	return a.deps.Store.Remove(identifier)
}

// Tasks returns the board in display order.
func (a *Assistant) Tasks() []aarikatypes.Task {
	return a.deps.Store.List()
}

// Messages returns the transcript.
func (a *Assistant) Messages() []aarikatypes.Message {
	return a.deps.Transcript.Messages()
}

// LastReply returns the most recent model message.
func (a *Assistant) LastReply() (aarikatypes.Message, bool) {
	return a.deps.Transcript.Last(aarikatypes.RoleModel)
}

// ResetSession forgets the model-side history. Tasks and transcript stay.
func (a *Assistant) ResetSession() error {
	if !a.Ready() {
		return session.ErrNotConfigured
	}
	if !a.turnMu.TryLock() {
		return ErrBusy
	}
	defer a.turnMu.Unlock()

	a.session.Reset()
	a.deps.Transcript.AppendSystem(ResetMessage, false)
	return nil
}
