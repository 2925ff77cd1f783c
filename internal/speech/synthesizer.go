package speech

import (
	"context"
	"errors"
	"fmt"

	"aarika/internal/logger"
	"aarika/pkg/aarikatypes"

	"google.golang.org/genai"
)

// WAVMIMEType is the MIME type of every clip a Synthesizer returns.
const WAVMIMEType = "audio/wav"

// ErrNoAudio is returned when synthesis produced nothing playable.
var ErrNoAudio = errors.New("no audio produced")

// ContentGenerator is the slice of the genai Models service speech needs.
// services.GeminiClient implements it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Synthesizer converts reply text to audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*aarikatypes.AudioClip, error)
}

// GeminiSynthesizer uses a Gemini TTS model with a prebuilt voice.
type GeminiSynthesizer struct {
	gen   ContentGenerator
	model string
	voice string
}

// NewGeminiSynthesizer creates a synthesizer, e.g. with model
// "gemini-2.5-flash-preview-tts" and voice "Kore".
func NewGeminiSynthesizer(gen ContentGenerator, model, voice string) *GeminiSynthesizer {
	return &GeminiSynthesizer{gen: gen, model: model, voice: voice}
}

// Synthesize cleans text for speech and returns a WAV clip.
func (s *GeminiSynthesizer) Synthesize(ctx context.Context, text string) (*aarikatypes.AudioClip, error) {
	cleaned := CleanForSpeech(text)
	if cleaned == "" {
		return nil, ErrNoAudio
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.voice},
			},
		},
	}
	contents := []*genai.Content{genai.NewContentFromText(cleaned, genai.RoleUser)}

	resp, err := s.gen.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	blob := firstInlineData(resp)
	if blob == nil || len(blob.Data) == 0 {
		return nil, ErrNoAudio
	}

	clip := &aarikatypes.AudioClip{MIMEType: WAVMIMEType}
	if isWAV(blob.MIMEType) {
		clip.Data = blob.Data
	} else {
		clip.Data = encodeWAV(blob.Data, pcmSampleRate(blob.MIMEType))
	}
	logger.Debug("Speech synthesized", "voice", s.voice, "source_mime", blob.MIMEType, "bytes", len(clip.Data))
	return clip, nil
}

func firstInlineData(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil {
				return part.InlineData
			}
		}
	}
	return nil
}
