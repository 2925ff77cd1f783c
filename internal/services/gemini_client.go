// Package services provides the hosted-model backends Aarika talks to and the
// factory that selects one from configuration.
package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"aarika/internal/logger"
	"aarika/pkg/aarikatypes"

	"google.golang.org/genai"
)

// GeminiClient implements aarikatypes.Backend for the Google Gemini API.
// The underlying genai client is created lazily on the first request and is
// shared with the speech adapter through GenerateContent.
type GeminiClient struct {
	apiKey         string
	client         *genai.Client
	debugTransport http.RoundTripper
	mu             sync.Mutex
}

// NewGeminiClient creates a Gemini backend. No network activity happens
// until the first call.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{apiKey: apiKey}
}

// Provider returns "gemini".
func (c *GeminiClient) Provider() string {
	return "gemini"
}

// IsConfigured returns true if the client has an API key.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

// SetDebugTransport installs an HTTP transport used for request logging.
func (c *GeminiClient) SetDebugTransport(transport http.RoundTripper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debugTransport = transport
	// Force re-initialization with the new transport.
	c.client = nil
}

func (c *GeminiClient) initializeClientIfNeeded(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.debugTransport != nil {
		clientConfig.HTTPClient = &http.Client{Transport: c.debugTransport}
		logger.Debug("Gemini client initialized with debug transport", "provider", "gemini")
	} else {
		logger.Debug("Gemini client initialized", "provider", "gemini")
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client
	return client, nil
}

// GenerateContent is a thin pass-through to the genai Models service. The
// speech synthesizer and recognizer use it for TTS and transcription.
func (c *GeminiClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	client, err := c.initializeClientIfNeeded(ctx)
	if err != nil {
		return nil, err
	}
	return client.Models.GenerateContent(ctx, model, contents, config)
}

// Generate sends one request with the full history and tool schema.
func (c *GeminiClient) Generate(ctx context.Context, req *aarikatypes.Request) (*aarikatypes.Reply, error) {
	contents := geminiContents(req.History)
	logger.RemoteCall("gemini", req.Model, len(contents))

	result, err := c.GenerateContent(ctx, req.Model, contents, geminiConfig(req))
	if err != nil {
		logger.Error("Gemini request failed", "error", err)
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	reply, err := geminiReply(result)
	if err != nil {
		return nil, err
	}
	logger.Debug("Gemini response received", "text_length", len(reply.Text), "calls", len(reply.Calls))
	return reply, nil
}

// geminiContents converts session turns. Model turns produced by Gemini are
// replayed from Native so thought signatures survive the round trip.
func geminiContents(history []aarikatypes.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))

	for _, turn := range history {
		switch turn.Role {
		case aarikatypes.TurnUser:
			contents = append(contents, genai.NewContentFromText(turn.Text, genai.RoleUser))

		case aarikatypes.TurnModel:
			if native, ok := turn.Native.(*genai.Content); ok && native != nil {
				contents = append(contents, native)
				continue
			}
			var parts []*genai.Part
			if turn.Text != "" {
				parts = append(parts, genai.NewPartFromText(turn.Text))
			}
			for _, call := range turn.Calls {
				part := genai.NewPartFromFunctionCall(call.Name, call.Args)
				part.FunctionCall.ID = call.ID
				parts = append(parts, part)
			}
			if len(parts) == 0 {
				continue
			}
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleModel))

		case aarikatypes.TurnTool:
			parts := make([]*genai.Part, 0, len(turn.Results))
			for _, result := range turn.Results {
				part := genai.NewPartFromFunctionResponse(result.Name, result.Response)
				part.FunctionResponse.ID = result.CallID
				parts = append(parts, part)
			}
			if len(parts) > 0 {
				contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
			}
		}
	}

	return contents
}

func geminiConfig(req *aarikatypes.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	temperature := float32(req.Temperature)
	config.Temperature = &temperature

	if tools := geminiTools(req.Tools); tools != nil {
		config.Tools = tools
	}
	return config
}

func geminiTools(decls []aarikatypes.ToolDeclaration) []*genai.Tool {
	if len(decls) == 0 {
		return nil
	}

	functions := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, decl := range decls {
		fn := &genai.FunctionDeclaration{
			Name:        decl.Name,
			Description: decl.Description,
		}
		// Gemini rejects an object schema without properties.
		if len(decl.Parameters) > 0 {
			fn.Parameters = geminiSchema(decl)
		}
		functions = append(functions, fn)
	}
	return []*genai.Tool{{FunctionDeclarations: functions}}
}

func geminiSchema(decl aarikatypes.ToolDeclaration) *genai.Schema {
	properties := make(map[string]*genai.Schema, len(decl.Parameters))
	for _, p := range decl.Parameters {
		properties[p.Name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: p.Description,
			Enum:        p.Enum,
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   decl.RequiredParameters(),
	}
}

// geminiReply extracts text and function calls from the first candidate.
// Thought parts are skipped.
func geminiReply(result *genai.GenerateContentResponse) (*aarikatypes.Reply, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	content := result.Candidates[0].Content
	reply := &aarikatypes.Reply{Native: content}

	var text strings.Builder
	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			reply.Calls = append(reply.Calls, aarikatypes.ToolCall{
				ID:   part.FunctionCall.ID,
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
			continue
		}
		if part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
	}
	reply.Text = text.String()

	// Normalize the role so replaying Native is always a model turn.
	if content.Role == "" {
		content.Role = genai.RoleModel
	}
	return reply, nil
}
