package speech

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// fakeGenerator records calls and replies with a canned response.
type fakeGenerator struct {
	mu      sync.Mutex
	resp    *genai.GenerateContentResponse
	err     error
	models  []string
	configs []*genai.GenerateContentConfig
	inputs  [][]*genai.Content
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models = append(f.models, model)
	f.configs = append(f.configs, config)
	f.inputs = append(f.inputs, contents)
	return f.resp, f.err
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.models)
}

func responseWithParts(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: genai.RoleModel, Parts: parts}}},
	}
}
