package llm

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(body string, isLive func() bool) []StreamChunk {
	ch := make(chan StreamChunk, 64)
	RelayBody(io.NopCloser(strings.NewReader(body)), isLive, ch)
	close(ch)

	var chunks []StreamChunk
	for chunk := range ch {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestRelayBodyTextAndDone(t *testing.T) {
	body := "data: {\"choices\":[{\"text\":\"Hello\"}]}\n\n" +
		"data: {\"choices\":[{\"text\":\" world\"}]}\n\n" +
		"data: [DONE]\n\n"

	chunks := collect(body, nil)
	require.Len(t, chunks, 3)
	assert.Equal(t, "Hello", chunks[0].Content)
	assert.Equal(t, " world", chunks[1].Content)
	assert.True(t, chunks[2].Done)
}

func TestRelayBodyFlatContentShape(t *testing.T) {
	body := "data: {\"content\":\"delta one\"}\n\ndata: [DONE]\n\n"

	chunks := collect(body, nil)
	require.Len(t, chunks, 2)
	assert.Equal(t, "delta one", chunks[0].Content)
	assert.True(t, chunks[1].Done)
}

func TestRelayBodyChatDeltaShape(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"chunky\"}}]}\n\ndata: [DONE]\n\n"

	chunks := collect(body, nil)
	require.Len(t, chunks, 2)
	assert.Equal(t, "chunky", chunks[0].Content)
}

func TestRelayBodySkipsMalformedFrames(t *testing.T) {
	body := "data: {not json at all\n\n" +
		": keepalive comment\n" +
		"data: {\"choices\":[{\"text\":\"ok\"}]}\n\n" +
		"data: [DONE]\n\n"

	chunks := collect(body, nil)
	require.Len(t, chunks, 2)
	assert.Equal(t, "ok", chunks[0].Content)
	assert.True(t, chunks[1].Done)
}

func TestRelayBodyEOFWithoutSentinel(t *testing.T) {
	body := "data: {\"choices\":[{\"text\":\"partial\"}]}\n"

	chunks := collect(body, nil)
	require.Len(t, chunks, 2)
	assert.Equal(t, "partial", chunks[0].Content)
	assert.True(t, chunks[1].Done)
}

func TestRelayBodyCancellationStopsReads(t *testing.T) {
	calls := 0
	isLive := func() bool {
		calls++
		return calls <= 1
	}

	body := "data: {\"choices\":[{\"text\":\"first\"}]}\n\n" +
		"data: {\"choices\":[{\"text\":\"never delivered\"}]}\n\n" +
		"data: [DONE]\n\n"

	chunks := collect(body, isLive)
	require.Len(t, chunks, 2)
	assert.Equal(t, "first", chunks[0].Content)
	assert.True(t, chunks[1].Cancelled)
}

func TestRelayBodyCancelledBeforeFirstRead(t *testing.T) {
	chunks := collect("data: [DONE]\n\n", func() bool { return false })
	require.Len(t, chunks, 1)
	assert.True(t, chunks[0].Cancelled)
}

func TestStatusMessageTableHit(t *testing.T) {
	table := map[int]string{404: "Model or endpoint not found"}
	assert.Equal(t, "Model or endpoint not found", StatusMessage(404, nil, table))
}

func TestStatusMessageDefaultWithDetail(t *testing.T) {
	table := map[int]string{}

	msg := StatusMessage(418, []byte(`{"error":{"message":"teapot"}}`), table)
	assert.Equal(t, "API error: 418 - teapot", msg)

	msg = StatusMessage(503, []byte(`{"error":"overloaded"}`), table)
	assert.Equal(t, "API error: 503 - overloaded", msg)

	msg = StatusMessage(500, []byte("plain text"), table)
	assert.Equal(t, "API error: 500", msg)
}

func TestBuildPayload(t *testing.T) {
	req := CompletionRequest{
		Model:             "configured/model",
		Prompt:            "Once upon a time",
		Temperature:       0.9,
		MinP:              0.01,
		PresencePenalty:   0.1,
		RepetitionPenalty: 1.1,
		MaxTokens:         500,
	}

	payload := BuildPayload(req, "override/model", true)
	assert.Equal(t, "override/model", payload["model"])
	assert.Equal(t, "Once upon a time", payload["prompt"])
	assert.Equal(t, true, payload["stream"])
	assert.Equal(t, 500, payload["max_tokens"])
}
