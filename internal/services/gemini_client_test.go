package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"aarika/internal/tools"
	"aarika/pkg/aarikatypes"
)

func TestNewGeminiClient(t *testing.T) {
	client := NewGeminiClient("test-api-key")
	assert.Equal(t, "gemini", client.Provider())
	assert.True(t, client.IsConfigured())
	assert.Nil(t, client.client, "client should be created lazily")

	assert.False(t, NewGeminiClient("").IsConfigured())
}

func TestGeminiGenerate_NoKey(t *testing.T) {
	_, err := NewGeminiClient("").Generate(t.Context(), &aarikatypes.Request{Model: "gemini-2.5-flash"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestGeminiContents(t *testing.T) {
	native := genai.NewContentFromParts([]*genai.Part{{Text: "native", ThoughtSignature: []byte("sig")}}, genai.RoleModel)

	history := []aarikatypes.Turn{
		{Role: aarikatypes.TurnUser, Text: "Add milk"},
		{Role: aarikatypes.TurnModel, Calls: []aarikatypes.ToolCall{
			{ID: "c1", Name: "addTask", Args: map[string]any{"title": "Buy milk"}},
		}},
		{Role: aarikatypes.TurnTool, Results: []aarikatypes.ToolResult{
			{CallID: "c1", Name: "addTask", Response: map[string]any{"message": "ok"}},
		}},
		{Role: aarikatypes.TurnModel, Text: "ignored", Native: native},
		{Role: aarikatypes.TurnModel},
	}

	contents := geminiContents(history)
	require.Len(t, contents, 4, "empty model turns are skipped")

	assert.Equal(t, genai.RoleUser, contents[0].Role)
	assert.Equal(t, "Add milk", contents[0].Parts[0].Text)

	assert.Equal(t, genai.RoleModel, contents[1].Role)
	require.NotNil(t, contents[1].Parts[0].FunctionCall)
	assert.Equal(t, "c1", contents[1].Parts[0].FunctionCall.ID)
	assert.Equal(t, "Buy milk", contents[1].Parts[0].FunctionCall.Args["title"])

	assert.Equal(t, genai.RoleUser, contents[2].Role)
	require.NotNil(t, contents[2].Parts[0].FunctionResponse)
	assert.Equal(t, "c1", contents[2].Parts[0].FunctionResponse.ID)
	assert.Equal(t, "addTask", contents[2].Parts[0].FunctionResponse.Name)

	assert.Same(t, native, contents[3])
}

func TestGeminiConfig(t *testing.T) {
	req := &aarikatypes.Request{
		SystemPrompt: "Be Aarika",
		Temperature:  0.7,
		Tools:        tools.MustDeclarations(),
	}

	config := geminiConfig(req)
	require.NotNil(t, config.SystemInstruction)
	assert.Equal(t, "Be Aarika", config.SystemInstruction.Parts[0].Text)
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.7, *config.Temperature, 1e-6)

	require.Len(t, config.Tools, 1)
	decls := config.Tools[0].FunctionDeclarations
	require.Len(t, decls, 4)

	byName := make(map[string]*genai.FunctionDeclaration)
	for _, d := range decls {
		byName[d.Name] = d
	}

	add := byName[tools.AddTask]
	require.NotNil(t, add)
	require.NotNil(t, add.Parameters)
	assert.Equal(t, genai.TypeObject, add.Parameters.Type)
	assert.Equal(t, []string{"title"}, add.Parameters.Required)
	assert.Equal(t, []string{"low", "medium", "high"}, add.Parameters.Properties["priority"].Enum)

	assert.Nil(t, byName[tools.ListTasks].Parameters)
}

func TestGeminiReply(t *testing.T) {
	content := &genai.Content{
		Parts: []*genai.Part{
			{Text: "thinking...", Thought: true},
			{Text: "Done! "},
			{FunctionCall: &genai.FunctionCall{ID: "x", Name: "listTasks", Args: map[string]any{}}},
			{Text: "Anything else?"},
		},
	}
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}

	reply, err := geminiReply(resp)
	require.NoError(t, err)
	assert.Equal(t, "Done! Anything else?", reply.Text)
	require.Len(t, reply.Calls, 1)
	assert.Equal(t, "listTasks", reply.Calls[0].Name)
	assert.Equal(t, "x", reply.Calls[0].ID)
	assert.Same(t, content, reply.Native)
	assert.Equal(t, genai.RoleModel, content.Role)
}

func TestGeminiReply_NoCandidates(t *testing.T) {
	_, err := geminiReply(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = geminiReply(nil)
	assert.Error(t, err)
}
