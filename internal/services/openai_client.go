package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"aarika/internal/logger"
	"aarika/pkg/aarikatypes"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements aarikatypes.Backend for OpenAI chat completions.
type OpenAIClient struct {
	apiKey         string
	client         *openai.Client
	debugTransport http.RoundTripper
	mu             sync.Mutex
}

// NewOpenAIClient creates an OpenAI backend with lazy initialization.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{apiKey: apiKey}
}

// Provider returns "openai".
func (c *OpenAIClient) Provider() string {
	return "openai"
}

// IsConfigured returns true if the client has an API key.
func (c *OpenAIClient) IsConfigured() bool {
	return c.apiKey != ""
}

// SetDebugTransport installs an HTTP transport used for request logging.
func (c *OpenAIClient) SetDebugTransport(transport http.RoundTripper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debugTransport = transport
	c.client = nil
}

func (c *OpenAIClient) initializeClientIfNeeded() (*openai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("openai API key not configured")
	}

	opts := []option.RequestOption{option.WithAPIKey(c.apiKey)}
	if c.debugTransport != nil {
		opts = append(opts, option.WithHTTPClient(&http.Client{Transport: c.debugTransport}))
	}
	client := openai.NewClient(opts...)
	c.client = &client

	logger.Debug("OpenAI client initialized", "provider", "openai")
	return c.client, nil
}

// Generate sends one chat completion request.
func (c *OpenAIClient) Generate(ctx context.Context, req *aarikatypes.Request) (*aarikatypes.Reply, error) {
	client, err := c.initializeClientIfNeeded()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}

	messages, err := openAIMessages(req.SystemPrompt, req.History)
	if err != nil {
		return nil, err
	}
	logger.RemoteCall("openai", req.Model, len(messages))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if tools := openAITools(req.Tools); len(tools) > 0 {
		params.Tools = tools
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("OpenAI request failed", "error", err)
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned")
	}

	reply := openAIReply(completion.Choices[0].Message)
	logger.Debug("OpenAI response received", "text_length", len(reply.Text), "calls", len(reply.Calls))
	return reply, nil
}

func openAIMessages(systemPrompt string, history []aarikatypes.Turn) ([]openai.ChatCompletionMessageParamUnion, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}

	for _, turn := range history {
		switch turn.Role {
		case aarikatypes.TurnUser:
			messages = append(messages, openai.UserMessage(turn.Text))

		case aarikatypes.TurnModel:
			if native, ok := turn.Native.(openai.ChatCompletionMessage); ok {
				messages = append(messages, native.ToParam())
				continue
			}
			assistant := openai.ChatCompletionAssistantMessageParam{}
			if turn.Text != "" {
				assistant.Content.OfString = openai.String(turn.Text)
			}
			for _, call := range turn.Calls {
				args, err := json.Marshal(call.Args)
				if err != nil {
					return nil, fmt.Errorf("encode arguments of %s: %w", call.Name, err)
				}
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: call.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Name,
						Arguments: string(args),
					},
				})
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})

		case aarikatypes.TurnTool:
			for _, result := range turn.Results {
				body, err := json.Marshal(result.Response)
				if err != nil {
					return nil, fmt.Errorf("encode result of %s: %w", result.Name, err)
				}
				messages = append(messages, openai.ToolMessage(string(body), result.CallID))
			}
		}
	}

	return messages, nil
}

func openAITools(decls []aarikatypes.ToolDeclaration) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, 0, len(decls))
	for _, decl := range decls {
		tools = append(tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        decl.Name,
				Description: openai.String(decl.Description),
				Parameters:  openai.FunctionParameters(decl.JSONSchema()),
			},
		})
	}
	return tools
}

// openAIReply decodes tool-call arguments. Arguments that are not valid JSON
// are passed on as nil so the dispatcher reports them as malformed.
func openAIReply(message openai.ChatCompletionMessage) *aarikatypes.Reply {
	reply := &aarikatypes.Reply{Text: message.Content, Native: message}

	for _, call := range message.ToolCalls {
		var args map[string]any
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				logger.Warn("OpenAI returned invalid tool arguments", "tool", call.Function.Name, "error", err)
				args = nil
			}
		}
		reply.Calls = append(reply.Calls, aarikatypes.ToolCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: args,
		})
	}
	return reply
}
