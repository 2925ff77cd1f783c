package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFactory_Backend(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{ProviderGemini, "gemini"},
		{ProviderOpenAI, "openai"},
		{ProviderAnthropic, "anthropic"},
	}

	factory := NewClientFactory(false, nil)
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			backend, err := factory.Backend(tt.provider, "key")
			require.NoError(t, err)
			assert.Equal(t, tt.want, backend.Provider())
			assert.True(t, backend.IsConfigured())
		})
	}
	assert.Equal(t, 3, factory.CachedClientCount())
}

func TestClientFactory_Caching(t *testing.T) {
	factory := NewClientFactory(false, nil)

	first, err := factory.Backend(ProviderGemini, "key")
	require.NoError(t, err)
	second, err := factory.Backend(ProviderGemini, "key")
	require.NoError(t, err)
	assert.Same(t, first, second)

	assert.Same(t, first, factory.Gemini("key"), "speech shares the chat client")

	other, err := factory.Backend(ProviderGemini, "other")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestClientFactory_EmptyKey(t *testing.T) {
	backend, err := NewClientFactory(false, nil).Backend(ProviderOpenAI, "")
	require.NoError(t, err)
	assert.False(t, backend.IsConfigured())
}

func TestClientFactory_UnsupportedProvider(t *testing.T) {
	_, err := NewClientFactory(false, nil).Backend("llama", "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestClientFactory_TestMode(t *testing.T) {
	factory := NewClientFactory(true, nil)
	backend, err := factory.Backend(ProviderGemini, "")
	require.NoError(t, err)
	assert.Equal(t, "mock", backend.Provider())
	assert.True(t, backend.IsConfigured())
}

func TestClientFactory_InstallsTransport(t *testing.T) {
	transport := NewDebugTransport(nil)
	factory := NewClientFactory(false, transport)

	client := factory.Gemini("key")
	assert.Same(t, transport, client.debugTransport)
}
