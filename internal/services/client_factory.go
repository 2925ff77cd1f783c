package services

import (
	"fmt"
	"net/http"
	"sync"

	"aarika/internal/logger"
	"aarika/pkg/aarikatypes"
)

// Supported provider names.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// debuggable is implemented by backends that accept a logging transport.
type debuggable interface {
	SetDebugTransport(transport http.RoundTripper)
}

// ClientFactory creates and caches backends keyed by provider and API key.
// In test mode every request is served by a MockBackend.
type ClientFactory struct {
	testMode  bool
	transport http.RoundTripper
	clients   map[string]aarikatypes.Backend
	mutex     sync.RWMutex
}

// NewClientFactory creates a factory. A non-nil transport is installed on
// every backend it creates.
func NewClientFactory(testMode bool, transport http.RoundTripper) *ClientFactory {
	return &ClientFactory{
		testMode:  testMode,
		transport: transport,
		clients:   make(map[string]aarikatypes.Backend),
	}
}

// Backend returns the backend for provider. An empty apiKey yields a backend
// whose IsConfigured reports false, so callers can surface the missing
// credential instead of failing here.
func (f *ClientFactory) Backend(provider, apiKey string) (aarikatypes.Backend, error) {
	if f.testMode {
		return f.cached("mock", func() aarikatypes.Backend { return NewMockBackend() }), nil
	}

	var create func() aarikatypes.Backend
	switch provider {
	case ProviderGemini:
		create = func() aarikatypes.Backend { return NewGeminiClient(apiKey) }
	case ProviderOpenAI:
		create = func() aarikatypes.Backend { return NewOpenAIClient(apiKey) }
	case ProviderAnthropic:
		create = func() aarikatypes.Backend { return NewAnthropicClient(apiKey) }
	default:
		return nil, fmt.Errorf("unsupported provider '%s'. Supported providers: gemini, openai, anthropic", provider)
	}

	return f.cached(fmt.Sprintf("%s:%s", provider, apiKey), create), nil
}

// Gemini returns the Gemini client for apiKey, shared with the chat backend
// when the chat provider is also Gemini. Speech uses it.
func (f *ClientFactory) Gemini(apiKey string) *GeminiClient {
	backend := f.cached(fmt.Sprintf("%s:%s", ProviderGemini, apiKey), func() aarikatypes.Backend {
		return NewGeminiClient(apiKey)
	})
	return backend.(*GeminiClient)
}

func (f *ClientFactory) cached(key string, create func() aarikatypes.Backend) aarikatypes.Backend {
	f.mutex.RLock()
	if client, exists := f.clients[key]; exists {
		f.mutex.RUnlock()
		return client
	}
	f.mutex.RUnlock()

	f.mutex.Lock()
	defer f.mutex.Unlock()

	// Double-check after acquiring the write lock.
	if client, exists := f.clients[key]; exists {
		return client
	}

	client := create()
	if d, ok := client.(debuggable); ok && f.transport != nil {
		d.SetDebugTransport(f.transport)
	}
	f.clients[key] = client
	logger.Debug("Created new provider client", "provider", client.Provider())
	return client
}

// CachedClientCount returns the number of cached backends.
func (f *ClientFactory) CachedClientCount() int {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return len(f.clients)
}
