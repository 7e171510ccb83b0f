package factory

import (
	"fmt"
	"strings"

	"ai-writingpad-be/pkg/llm"
	"ai-writingpad-be/pkg/llm/chutes"
	"ai-writingpad-be/pkg/llm/openaicompat"
	"ai-writingpad-be/pkg/llm/openrouter"
)

// Provider selector values accepted in the runtime settings.
const (
	ProviderAuto       = "auto"
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderChutes     = "chutes"
)

// NewStreamProvider picks exactly one adapter for the configured provider.
// The legacy "auto" selector keeps the original dispatch rule: a model string
// shaped like "provider/model-id" goes to the primary adapter, a URL-shaped
// model string is treated as an OpenAI-compatible base URL.
func NewStreamProvider(providerType, model, endpoint, baseURL, apiKey string) (llm.StreamProvider, error) {
	switch providerType {
	case ProviderOpenRouter:
		return openrouter.NewProvider(endpoint, apiKey), nil
	case ProviderOpenAI:
		return openaicompat.NewProvider(baseURL, apiKey), nil
	case ProviderChutes:
		return chutes.NewProvider(apiKey), nil
	case "", ProviderAuto:
		if IsModelRef(model) {
			return openrouter.NewProvider(endpoint, apiKey), nil
		}
		if IsURL(model) {
			return openaicompat.NewProvider(model, apiKey), nil
		}
		return openrouter.NewProvider(endpoint, apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", providerType)
	}
}

// IsModelRef reports whether s looks like a "provider/model-id" shorthand:
// it contains a slash but no scheme prefix.
func IsModelRef(s string) bool {
	return strings.Contains(s, "/") && !strings.Contains(s, "://")
}

func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
