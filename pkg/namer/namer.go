package namer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// FallbackName is returned whenever naming fails. Callers must treat it as
// "naming did not happen", not as a chosen name.
const FallbackName = "Untitled"

const (
	contentPrefixLimit = 2000
	maxNameLength      = 60
	nameTemperature    = 0.3
	nameTokenBudget    = 16
	requestTimeout     = 30 * time.Second
)

const promptTemplate = "Below is the beginning of a document. Respond with only a short descriptive name for it, nothing else.\n\n%s\n\nName:"

// Namer derives a short document name from its content.
type Namer interface {
	NameFor(ctx context.Context, content string) string
}

// HTTPNamer issues one non-streaming completion call against the configured
// endpoint.
type HTTPNamer struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

var _ Namer = (*HTTPNamer)(nil)

func New(endpoint, apiKey, model string) *HTTPNamer {
	return &HTTPNamer{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// NameFor never returns an error: any transport failure, non-200 status or
// unusable completion falls back to FallbackName.
func (n *HTTPNamer) NameFor(ctx context.Context, content string) string {
	if strings.TrimSpace(content) == "" {
		return FallbackName
	}

	prefix := content
	if len(prefix) > contentPrefixLimit {
		prefix = prefix[:contentPrefixLimit]
	}

	payload := map[string]any{
		"model":       n.model,
		"prompt":      fmt.Sprintf(promptTemplate, prefix),
		"temperature": nameTemperature,
		"max_tokens":  nameTokenBudget,
		"stream":      false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return FallbackName
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return FallbackName
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return FallbackName
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FallbackName
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return FallbackName
	}

	var completion completionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return FallbackName
	}
	if len(completion.Choices) == 0 {
		return FallbackName
	}

	name := CleanName(completion.Choices[0].Text)
	if name == "" {
		return FallbackName
	}
	return name
}

// CleanName post-processes a raw completion into a usable document name:
// whitespace and surrounding quotes are trimmed, only the first line is
// kept, and overlong names are cut at a word boundary.
func CleanName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.Trim(name, "\"'“”‘’")
	if idx := strings.IndexAny(name, "\r\n"); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)

	if len(name) > maxNameLength {
		cut := name[:maxNameLength]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		name = strings.TrimSpace(cut)
	}

	return name
}
