package speech

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func TestCommandCapture_Unsupported(t *testing.T) {
	_, err := NewCommandCapture("", "").Capture(context.Background(), nil)
	assert.ErrorIs(t, err, ErrRecognitionUnsupported)
}

func TestCommandCapture_ReadsRecording(t *testing.T) {
	requireTool(t, "cp")
	src := filepath.Join(t.TempDir(), "utterance.wav")
	require.NoError(t, os.WriteFile(src, []byte("RIFF-fake"), 0o600))

	data, err := NewCommandCapture("cp "+src, t.TempDir()).Capture(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF-fake"), data)
}

func TestCommandCapture_UserStop(t *testing.T) {
	requireTool(t, "sh")
	requireTool(t, "sleep")

	// The script ignores the output path, so nothing is recorded.
	script := filepath.Join(t.TempDir(), "record.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexec sleep 30\n"), 0o700))

	stop := make(chan struct{})
	close(stop)

	start := time.Now()
	_, err := NewCommandCapture(script, t.TempDir()).Capture(context.Background(), stop)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.ErrorIs(t, err, ErrNoAudio)
}

func TestCommandCapture_RecorderFailure(t *testing.T) {
	requireTool(t, "false")
	_, err := NewCommandCapture("false", t.TempDir()).Capture(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recorder false failed")
}

// fakeCapturer returns fixed audio.
type fakeCapturer struct {
	audio []byte
	err   error
}

func (f fakeCapturer) Capture(context.Context, <-chan struct{}) ([]byte, error) {
	return f.audio, f.err
}

func TestGeminiRecognizer(t *testing.T) {
	gen := &fakeGenerator{resp: responseWithParts(&genai.Part{Text: "  kal doodh lena hai  "})}
	rec := NewGeminiRecognizer(fakeCapturer{audio: []byte("RIFF")}, gen, "gemini-2.5-flash", "hi-IN")

	text, err := rec.Recognize(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "kal doodh lena hai", text)

	require.Equal(t, 1, gen.calls())
	parts := gen.inputs[0][0].Parts
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].Text, "Hinglish")
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, WAVMIMEType, parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte("RIFF"), parts[1].InlineData.Data)
}

func TestGeminiRecognizer_CaptureError(t *testing.T) {
	gen := &fakeGenerator{}
	rec := NewGeminiRecognizer(fakeCapturer{err: ErrRecognitionUnsupported}, gen, "m", "hi-IN")

	_, err := rec.Recognize(context.Background(), nil)
	assert.ErrorIs(t, err, ErrRecognitionUnsupported)
	assert.Zero(t, gen.calls())

	_, err = NewGeminiRecognizer(nil, gen, "m", "hi-IN").Recognize(context.Background(), nil)
	assert.ErrorIs(t, err, ErrRecognitionUnsupported)
}

func TestGeminiRecognizer_TranscriptionError(t *testing.T) {
	boom := errors.New("bad audio")
	rec := NewGeminiRecognizer(fakeCapturer{audio: []byte("RIFF")}, &fakeGenerator{err: boom}, "m", "en-US")
	_, err := rec.Recognize(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestTranscriptionPrompt(t *testing.T) {
	assert.Contains(t, transcriptionPrompt("hi-IN"), "Hindi and English")
	assert.Contains(t, transcriptionPrompt("en-GB"), "en-GB")
	assert.NotContains(t, transcriptionPrompt(""), "language")
}
