package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-writingpad-be/pkg/llm"
)

const defaultBaseURL = "https://api.openai.com/v1"
const requestTimeout = 30 * time.Second

var statusMessages = map[int]string{
	http.StatusNotFound:        "Model or endpoint not found on the OpenAI-compatible server",
	http.StatusUnauthorized:    "Authentication failed - check the API key for this server",
	http.StatusForbidden:       "Forbidden - the request was rejected by the server",
	http.StatusTooManyRequests: "Rate limited by the OpenAI-compatible server",
	http.StatusBadGateway:      "OpenAI-compatible server unavailable",
}

// Provider streams completions from any OpenAI-compatible server reachable
// at a configurable base URL.
type Provider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ llm.StreamProvider = (*Provider)(nil)

func NewProvider(baseURL, apiKey string) *Provider {
	return &Provider{
		endpoint: NormalizeBaseURL(baseURL),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

// NormalizeBaseURL turns a user-supplied base URL into a completions
// endpoint: trailing slashes are dropped, a /v1 segment is added when
// missing, and a full /completions path is passed through untouched.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		base = defaultBaseURL
	}
	if strings.HasSuffix(base, "/completions") {
		return base
	}
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/completions"
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

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
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
