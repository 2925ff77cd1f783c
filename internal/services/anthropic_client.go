package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"aarika/internal/logger"
	"aarika/pkg/aarikatypes"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicMaxTokens caps reply length; Aarika's answers are short.
const anthropicMaxTokens = 1024

// AnthropicClient implements aarikatypes.Backend for the Anthropic
// Messages API.
type AnthropicClient struct {
	apiKey         string
	client         *anthropic.Client
	debugTransport http.RoundTripper
	mu             sync.Mutex
}

// NewAnthropicClient creates an Anthropic backend with lazy initialization.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{apiKey: apiKey}
}

// Provider returns "anthropic".
func (c *AnthropicClient) Provider() string {
	return "anthropic"
}

// IsConfigured returns true if the client has an API key.
func (c *AnthropicClient) IsConfigured() bool {
	return c.apiKey != ""
}

// SetDebugTransport installs an HTTP transport used for request logging.
func (c *AnthropicClient) SetDebugTransport(transport http.RoundTripper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debugTransport = transport
	c.client = nil
}

func (c *AnthropicClient) initializeClientIfNeeded() (*anthropic.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("anthropic API key not configured")
	}

	opts := []option.RequestOption{option.WithAPIKey(c.apiKey)}
	if c.debugTransport != nil {
		opts = append(opts, option.WithHTTPClient(&http.Client{Transport: c.debugTransport}))
	}
	client := anthropic.NewClient(opts...)
	c.client = &client

	logger.Debug("Anthropic client initialized", "provider", "anthropic")
	return c.client, nil
}

// Generate sends one Messages API request.
func (c *AnthropicClient) Generate(ctx context.Context, req *aarikatypes.Request) (*aarikatypes.Reply, error) {
	client, err := c.initializeClientIfNeeded()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Anthropic client: %w", err)
	}

	messages, err := anthropicMessages(req.History)
	if err != nil {
		return nil, err
	}
	logger.RemoteCall("anthropic", req.Model, len(messages))

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   anthropicMaxTokens,
		Messages:    messages,
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}
	if tools := anthropicTools(req.Tools); len(tools) > 0 {
		params.Tools = tools
	}

	message, err := client.Messages.New(ctx, params)
	if err != nil {
		logger.Error("Anthropic request failed", "error", err)
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	reply, err := anthropicReply(message)
	if err != nil {
		return nil, err
	}
	logger.Debug("Anthropic response received", "text_length", len(reply.Text), "calls", len(reply.Calls))
	return reply, nil
}

// anthropicMessages converts session turns. Tool results for one round are
// sent together in a single user message, as the API requires.
func anthropicMessages(history []aarikatypes.Turn) ([]anthropic.MessageParam, error) {
	messages := make([]anthropic.MessageParam, 0, len(history))

	for _, turn := range history {
		switch turn.Role {
		case aarikatypes.TurnUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Text)))

		case aarikatypes.TurnModel:
			if native, ok := turn.Native.(*anthropic.Message); ok && native != nil {
				messages = append(messages, native.ToParam())
				continue
			}
			var blocks []anthropic.ContentBlockParamUnion
			if turn.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(turn.Text))
			}
			for _, call := range turn.Calls {
				input := call.Args
				if input == nil {
					input = map[string]any{}
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, input, call.Name))
			}
			if len(blocks) > 0 {
				messages = append(messages, anthropic.NewAssistantMessage(blocks...))
			}

		case aarikatypes.TurnTool:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(turn.Results))
			for _, result := range turn.Results {
				body, err := json.Marshal(result.Response)
				if err != nil {
					return nil, fmt.Errorf("encode result of %s: %w", result.Name, err)
				}
				blocks = append(blocks, anthropic.NewToolResultBlock(result.CallID, string(body), result.IsError()))
			}
			if len(blocks) > 0 {
				messages = append(messages, anthropic.NewUserMessage(blocks...))
			}
		}
	}

	return messages, nil
}

func anthropicTools(decls []aarikatypes.ToolDeclaration) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, 0, len(decls))
	for _, decl := range decls {
		schema := decl.JSONSchema()
		tools = append(tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        decl.Name,
				Description: anthropic.String(decl.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: schema["properties"],
					Required:   decl.RequiredParameters(),
				},
			},
		})
	}
	return tools
}

func anthropicReply(message *anthropic.Message) (*aarikatypes.Reply, error) {
	if message == nil {
		return nil, fmt.Errorf("anthropic returned no message")
	}

	reply := &aarikatypes.Reply{Native: message}
	var text strings.Builder

	for _, block := range message.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(variant.Text)
		case anthropic.ToolUseBlock:
			var args map[string]any
			if len(variant.Input) > 0 {
				if err := json.Unmarshal(variant.Input, &args); err != nil {
					logger.Warn("Anthropic returned invalid tool input", "tool", variant.Name, "error", err)
					args = nil
				}
			}
			reply.Calls = append(reply.Calls, aarikatypes.ToolCall{
				ID:   variant.ID,
				Name: variant.Name,
				Args: args,
			})
		}
	}

	reply.Text = text.String()
	return reply, nil
}
