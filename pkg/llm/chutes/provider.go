package chutes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-writingpad-be/pkg/llm"
)

// Endpoint is fixed; Chutes exposes a single completions host.
const Endpoint = "https://llm.chutes.ai/v1/completions"
const requestTimeout = 30 * time.Second

var statusMessages = map[int]string{
	http.StatusNotFound:        "Model not found on Chutes",
	http.StatusUnauthorized:    "Chutes authentication failed - check your API token",
	http.StatusForbidden:       "Forbidden - Chutes blocked the request",
	http.StatusTooManyRequests: "Chutes rate limit reached - try again later",
	http.StatusBadGateway:      "Chutes server unavailable - try again shortly",
}

// Provider streams completions from the Chutes-compatible API.
type Provider struct {
	apiKey string
	client *http.Client
}

var _ llm.StreamProvider = (*Provider)(nil)

func NewProvider(apiKey string) *Provider {
	return &Provider{
		apiKey: apiKey,
		client: &http.Client{Timeout: requestTimeout},
	}
}

func (p *Provider) Stream(ctx context.Context, req llm.CompletionRequest, isLive func() bool) <-chan llm.StreamChunk {
	ch := make(chan llm.StreamChunk)
	go p.run(ctx, req, isLive, ch)
	return ch
}

func (p *Provider) run(ctx context.Context, req llm.CompletionRequest, isLive func() bool, ch chan<- llm.StreamChunk) {
	defer close(ch)

	payload, err := json.Marshal(llm.BuildPayload(req, req.Model, true))
	if err != nil {
		ch <- llm.StreamChunk{Err: fmt.Errorf("marshal request: %w", err)}
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, Endpoint, bytes.NewReader(payload))
	if err != nil {
		ch <- llm.StreamChunk{Err: fmt.Errorf("create request: %w", err)}
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		ch <- llm.StreamChunk{Err: fmt.Errorf("completion request failed: %w", err)}
		return
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		ch <- llm.StreamChunk{Err: errors.New(llm.StatusMessage(resp.StatusCode, body, statusMessages))}
		return
	}

	llm.RelayBody(resp.Body, isLive, ch)
}
