package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ai-writingpad-be/pkg/llm"
)

// Fixed fallback chain tried in order when the configured model is rejected
// with a client error.
const (
	FallbackModelLarge = "meta-llama/llama-3.1-405b"
	FallbackModelSmall = "meta-llama/llama-3-70b"
)

var statusMessages = map[int]string{
	http.StatusNotFound:        "Model or endpoint not found",
	http.StatusUnauthorized:    "Authentication failed - check your API token",
	http.StatusForbidden:       "Forbidden - the content may have been blocked",
	http.StatusTooManyRequests: "Rate limited - slow down and try again",
	http.StatusBadGateway:      "OpenRouter server unavailable - try again shortly",
}

// Provider streams completions from the globally configured endpoint. It is
// the primary adapter: a 4xx from a non-final tier advances to the next
// fallback model, any other failure surfaces immediately, and exhaustion of
// the chain aggregates every attempted status code into one error.
//
// No client timeout is set on purpose; generation streams are long-lived and
// termination is left to the peer or the transport.
type Provider struct {
	endpoint  string
	apiKey    string
	fallbacks []string
	client    *http.Client
}

var _ llm.StreamProvider = (*Provider)(nil)

func NewProvider(endpoint, apiKey string) *Provider {
	return &Provider{
		endpoint:  endpoint,
		apiKey:    apiKey,
		fallbacks: []string{FallbackModelLarge, FallbackModelSmall},
		client:    &http.Client{},
	}
}

func (p *Provider) Stream(ctx context.Context, req llm.CompletionRequest, isLive func() bool) <-chan llm.StreamChunk {
	ch := make(chan llm.StreamChunk)
	go p.run(ctx, req, isLive, ch)
	return ch
}

func (p *Provider) run(ctx context.Context, req llm.CompletionRequest, isLive func() bool, ch chan<- llm.StreamChunk) {
	defer close(ch)

	models := append([]string{req.Model}, p.fallbacks...)
	attempted := make([]int, 0, len(models))

	for i, model := range models {
		resp, err := p.post(ctx, req, model)
		if err != nil {
			ch <- llm.StreamChunk{Err: fmt.Errorf("completion request failed: %w", err)}
			return
		}

		if resp.StatusCode == http.StatusOK {
			llm.RelayBody(resp.Body, isLive, ch)
			return
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		attempted = append(attempted, resp.StatusCode)

		if i == len(models)-1 {
			ch <- llm.StreamChunk{Err: errors.New(aggregateMessage(attempted))}
			return
		}

		// Only client errors are fallback-worthy on non-final tiers.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			continue
		}

		ch <- llm.StreamChunk{Err: errors.New(llm.StatusMessage(resp.StatusCode, body, statusMessages))}
		return
	}
}

func (p *Provider) post(ctx context.Context, req llm.CompletionRequest, model string) (*http.Response, error) {
	payload, err := json.Marshal(llm.BuildPayload(req, model, true))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	return p.client.Do(httpReq)
}

func aggregateMessage(attempted []int) string {
	codes := make([]string, len(attempted))
	for i, code := range attempted {
		codes[i] = fmt.Sprintf("%d", code)
	}
	return "All models failed. Status codes: " + strings.Join(codes, ", ")
}
