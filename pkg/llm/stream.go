package llm

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const dataPrefix = "data: "
const doneSentinel = "[DONE]"

// completionFrame tolerates the two payload shapes seen across backends:
// a choices array carrying "text" (completions) or "delta.content" (chat
// deltas), and a flat "content" field.
type completionFrame struct {
	Choices []struct {
		Text  string `json:"text"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Content string `json:"content"`
}

func (f completionFrame) delta() string {
	if len(f.Choices) > 0 {
		if f.Choices[0].Text != "" {
			return f.Choices[0].Text
		}
		if f.Choices[0].Delta.Content != "" {
			return f.Choices[0].Delta.Content
		}
	}
	return f.Content
}

// RelayBody reads a line-oriented event stream from body and forwards
// normalized chunks to ch. Liveness is polled before each inbound line; once
// it reports false a Cancelled chunk is emitted and no further reads happen.
// Malformed JSON frames are skipped. The body is closed on every exit path;
// the channel is left open for the caller to close.
func RelayBody(body io.ReadCloser, isLive func() bool, ch chan<- StreamChunk) {
	defer body.Close()

	reader := bufio.NewReader(body)
	for {
		if isLive != nil && !isLive() {
			ch <- StreamChunk{Cancelled: true}
			return
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				ch <- StreamChunk{Err: fmt.Errorf("read stream: %w", err)}
				return
			}
			// Upstream closed without a sentinel; treat as a normal end.
			ch <- StreamChunk{Done: true}
			return
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		data := strings.TrimPrefix(line, dataPrefix)
		if data == doneSentinel {
			ch <- StreamChunk{Done: true}
			return
		}

		var frame completionFrame
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			continue
		}
		if delta := frame.delta(); delta != "" {
			ch <- StreamChunk{Content: delta}
		}
	}
}

// StatusMessage maps a non-2xx response to a human-readable message using
// the adapter's own table, falling back to the raw status plus whatever
// error detail the body carries.
func StatusMessage(status int, body []byte, table map[int]string) string {
	if msg, ok := table[status]; ok {
		return msg
	}
	if detail := extractErrorDetail(body); detail != "" {
		return fmt.Sprintf("API error: %d - %s", status, detail)
	}
	return fmt.Sprintf("API error: %d", status)
}

func extractErrorDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var structured struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &structured); err == nil && structured.Error.Message != "" {
		return structured.Error.Message
	}

	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Error != "" {
		return flat.Error
	}

	return ""
}
