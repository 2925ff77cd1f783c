package speech

import (
	"context"
	"errors"
	"sync"

	"aarika/internal/logger"
)

// ErrDictationActive is returned by Start while a capture is still running.
var ErrDictationActive = errors.New("dictation already in progress")

// DictationState is the microphone state shown to the user.
type DictationState int

const (
	// DictationIdle means no capture is running.
	DictationIdle DictationState = iota
	// DictationListening means a capture is recording.
	DictationListening
	// DictationStopping means the user stopped the capture and the
	// transcript is still being produced.
	DictationStopping
)

func (s DictationState) String() string {
	switch s {
	case DictationListening:
		return "listening"
	case DictationStopping:
		return "stopping"
	default:
		return "idle"
	}
}

// DictationResult is delivered once per listening session.
type DictationResult struct {
	// Draft is the input draft with the transcript appended.
	Draft string
	// Transcript is the recognised text alone.
	Transcript string
	Err        error
}

// Dictation runs single-utterance speech capture. A capture ends when the
// recognizer detects the end of the utterance or when Stop is called.
type Dictation struct {
	recognizer Recognizer

	mu    sync.Mutex
	state DictationState
	stop  chan struct{}
}

// NewDictation creates an idle dictation. A nil recognizer makes every
// Start fail with ErrRecognitionUnsupported.
func NewDictation(recognizer Recognizer) *Dictation {
	return &Dictation{recognizer: recognizer}
}

// State returns the current state.
func (d *Dictation) State() DictationState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Start begins a capture and returns a channel that receives exactly one
// result and is then closed.
func (d *Dictation) Start(ctx context.Context, draft string) (<-chan DictationResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.startLocked(ctx, draft)
}

func (d *Dictation) startLocked(ctx context.Context, draft string) (<-chan DictationResult, error) {
	if d.state != DictationIdle {
		return nil, ErrDictationActive
	}
	if d.recognizer == nil {
		return nil, ErrRecognitionUnsupported
	}

	stop := make(chan struct{})
	d.stop = stop
	d.state = DictationListening

	results := make(chan DictationResult, 1)
	go func() {
		defer close(results)

		text, err := d.recognizer.Recognize(ctx, stop)

		d.mu.Lock()
		d.state = DictationIdle
		d.stop = nil
		d.mu.Unlock()

		if err != nil {
			logger.Warn("Dictation failed", "error", err)
			results <- DictationResult{Draft: draft, Err: err}
			return
		}
		results <- DictationResult{Draft: AppendTranscript(draft, text), Transcript: text}
	}()

	return results, nil
}

// Stop ends a running capture early. It reports whether a capture was
// listening; stopping an idle or already stopping dictation does nothing.
func (d *Dictation) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

func (d *Dictation) stopLocked() bool {
	if d.state != DictationListening || d.stop == nil {
		return false
	}
	close(d.stop)
	d.stop = nil
	d.state = DictationStopping
	return true
}

// Toggle starts a capture when idle and stops it when listening. Stopping
// returns a nil channel; the channel from the start still delivers the
// result. While a stop is in progress Toggle does nothing.
func (d *Dictation) Toggle(ctx context.Context, draft string) (<-chan DictationResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case DictationListening:
		d.stopLocked()
		return nil, nil
	case DictationStopping:
		return nil, nil
	}
	return d.startLocked(ctx, draft)
}

// AppendTranscript appends text to draft, separated by one space when the
// draft is not empty.
func AppendTranscript(draft, text string) string {
	if text == "" {
		return draft
	}
	if draft == "" {
		return text
	}
	return draft + " " + text
}
