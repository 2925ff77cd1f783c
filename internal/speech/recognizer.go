package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"aarika/internal/logger"

	"google.golang.org/genai"
)

// ErrRecognitionUnsupported is returned when no recorder is configured.
var ErrRecognitionUnsupported = errors.New("speech recognition is not supported on this system")

// Recognizer captures one utterance and returns its transcript. Closing stop
// ends the recording early but still transcribes what was captured;
// cancelling ctx aborts everything.
type Recognizer interface {
	Recognize(ctx context.Context, stop <-chan struct{}) (string, error)
}

// Capturer records audio into a WAV byte slice.
type Capturer interface {
	Capture(ctx context.Context, stop <-chan struct{}) ([]byte, error)
}

// CommandCapture records with an external program that takes the output
// path as its last argument, e.g. "arecord -q -f S16_LE -r 16000 -d 15".
type CommandCapture struct {
	command []string
	dir     string
}

// NewCommandCapture creates a capturer. dir holds temporary recordings and
// defaults to the OS temp directory.
func NewCommandCapture(command, dir string) *CommandCapture {
	return &CommandCapture{command: strings.Fields(command), dir: dir}
}

// Capture runs the recorder until it exits on its own (end of utterance) or
// stop is closed (user stop).
func (c *CommandCapture) Capture(ctx context.Context, stop <-chan struct{}) ([]byte, error) {
	if len(c.command) == 0 {
		return nil, ErrRecognitionUnsupported
	}

	file, err := os.CreateTemp(c.dir, "aarika-dictation-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create recording file: %w", err)
	}
	path := file.Name()
	_ = file.Close()
	defer func() { _ = os.Remove(path) }()

	args := append(append([]string{}, c.command[1:]...), path)
	cmd := exec.CommandContext(ctx, c.command[0], args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start recorder %s: %w", c.command[0], err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	stopped := false
	select {
	case err = <-done:
	case <-stop:
		stopped = true
		_ = cmd.Process.Signal(os.Interrupt)
		err = <-done
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	// An interrupted recorder exits non-zero; that is the normal stop path.
	if err != nil && !stopped {
		return nil, fmt.Errorf("recorder %s failed: %w", filepath.Base(c.command[0]), err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoAudio
	}
	return data, nil
}

// GeminiRecognizer transcribes captured audio with a Gemini model.
type GeminiRecognizer struct {
	capture  Capturer
	gen      ContentGenerator
	model    string
	language string
}

// NewGeminiRecognizer creates a recognizer. language is a BCP-47 hint such
// as "hi-IN" for code-mixed Hindi and English.
func NewGeminiRecognizer(capture Capturer, gen ContentGenerator, model, language string) *GeminiRecognizer {
	return &GeminiRecognizer{capture: capture, gen: gen, model: model, language: language}
}

// Recognize records one utterance and returns the final transcript.
func (r *GeminiRecognizer) Recognize(ctx context.Context, stop <-chan struct{}) (string, error) {
	if r.capture == nil {
		return "", ErrRecognitionUnsupported
	}

	audio, err := r.capture.Capture(ctx, stop)
	if err != nil {
		return "", err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(transcriptionPrompt(r.language)),
		genai.NewPartFromBytes(audio, WAVMIMEType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := r.gen.GenerateContent(ctx, r.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	if resp == nil {
		return "", nil
	}

	text := strings.TrimSpace(resp.Text())
	logger.Debug("Dictation transcribed", "language", r.language, "chars", len(text))
	return text, nil
}

func transcriptionPrompt(language string) string {
	prompt := "Transcribe this recording exactly as spoken. Return only the transcript, with no commentary."
	if strings.HasPrefix(strings.ToLower(language), "hi") {
		prompt += " The speaker mixes Hindi and English (Hinglish); write Hindi words in Latin script."
	} else if language != "" {
		prompt += " The spoken language is " + language + "."
	}
	return prompt
}
