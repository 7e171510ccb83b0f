package service

import (
	"context"
	"testing"
	"time"

	"ai-writingpad-be/internal/dto"
	"ai-writingpad-be/internal/entity"
	"ai-writingpad-be/internal/pkg/serverutils"
	"ai-writingpad-be/internal/repository/memory"
	"ai-writingpad-be/pkg/embedding"
	"ai-writingpad-be/pkg/llm"
	"ai-writingpad-be/pkg/namer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	chunks []llm.StreamChunk
}

func (p *stubProvider) Stream(ctx context.Context, req llm.CompletionRequest, isLive func() bool) <-chan llm.StreamChunk {
	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)
		for _, chunk := range p.chunks {
			if !isLive() {
				out <- llm.StreamChunk{Cancelled: true}
				return
			}
			out <- chunk
		}
	}()
	return out
}

type stubNamer struct {
	name string
}

func (n *stubNamer) NameFor(ctx context.Context, content string) string {
	return n.name
}

type generationFixture struct {
	svc          IGenerationService
	docSvc       IDocumentService
	sessions     *memory.GenerationRepository
	settingsRepo *fakeSettingsRepo
}

func newGenerationFixture(t *testing.T, provider llm.StreamProvider, autoName string) *generationFixture {
	t.Helper()

	settingsRepo := newFakeSettingsRepo()
	_, err := settingsRepo.Update(context.Background(), func(s *entity.Settings) error {
		s.Token = "sk-test"
		return nil
	})
	require.NoError(t, err)

	docSvc := NewDocumentService(newFakeDocumentRepo(), settingsRepo, &recordingPublisher{}, embedding.NewLocalProvider(), nopLogger{})
	sessions := memory.NewGenerationRepository()

	svc := NewGenerationService(
		sessions,
		settingsRepo,
		docSvc,
		func(*entity.Settings) (llm.StreamProvider, error) { return provider, nil },
		func(*entity.Settings) namer.Namer { return &stubNamer{name: autoName} },
		nopLogger{},
	)
	return &generationFixture{svc: svc, docSvc: docSvc, sessions: sessions, settingsRepo: settingsRepo}
}

func collectEvents(t *testing.T, events <-chan dto.StreamEvent) []dto.StreamEvent {
	t.Helper()
	var collected []dto.StreamEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return collected
			}
			collected = append(collected, event)
		case <-timeout:
			t.Fatal("timed out waiting for stream events")
		}
	}
}

func TestGenerationService_SubmitRejectsEmptyPrompt(t *testing.T) {
	f := newGenerationFixture(t, &stubProvider{}, "")

	_, err := f.svc.Submit(context.Background(), &dto.SubmitGenerationRequest{Prompt: "   "})
	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
}

func TestGenerationService_SubmitRejectsMissingCredential(t *testing.T) {
	f := newGenerationFixture(t, &stubProvider{}, "")
	_, err := f.settingsRepo.Update(context.Background(), func(s *entity.Settings) error {
		s.Token = ""
		s.CustomKey = ""
		return nil
	})
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), &dto.SubmitGenerationRequest{Prompt: "write me a story"})
	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)

	// No session leaks from a rejected submission.
	events := collectEvents(t, f.svc.Attach(context.Background(), "not-a-real-id"))
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].Error)
}

func TestGenerationService_CancelUnknownSession(t *testing.T) {
	f := newGenerationFixture(t, &stubProvider{}, "")

	err := f.svc.Cancel(context.Background(), "missing")
	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Code)
}

func TestGenerationService_AttachUnknownIdYieldsSingleError(t *testing.T) {
	f := newGenerationFixture(t, &stubProvider{}, "")

	events := collectEvents(t, f.svc.Attach(context.Background(), "deadbeef"))
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].Error)
}

func TestGenerationService_StreamRelaysTextThenDone(t *testing.T) {
	provider := &stubProvider{chunks: []llm.StreamChunk{
		{Content: "Once "},
		{Content: "upon "},
		{Content: "a time"},
		{Done: true},
	}}
	f := newGenerationFixture(t, provider, "")

	res, err := f.svc.Submit(context.Background(), &dto.SubmitGenerationRequest{Prompt: "begin a story"})
	require.NoError(t, err)

	events := collectEvents(t, f.svc.Attach(context.Background(), res.GenerationId.String()))
	require.Len(t, events, 4)
	assert.Equal(t, "Once ", events[0].Text)
	assert.Equal(t, "upon ", events[1].Text)
	assert.Equal(t, "a time", events[2].Text)
	assert.True(t, events[3].Done)

	// The session is destroyed after the terminal event.
	_, found := f.sessions.Get(res.GenerationId.String())
	assert.False(t, found)
}

func TestGenerationService_StreamErrorEndsWithoutDone(t *testing.T) {
	provider := &stubProvider{chunks: []llm.StreamChunk{
		{Content: "partial"},
		{Err: assert.AnError},
	}}
	f := newGenerationFixture(t, provider, "")

	res, err := f.svc.Submit(context.Background(), &dto.SubmitGenerationRequest{Prompt: "begin"})
	require.NoError(t, err)

	events := collectEvents(t, f.svc.Attach(context.Background(), res.GenerationId.String()))
	require.Len(t, events, 2)
	assert.Equal(t, "partial", events[0].Text)
	assert.NotEmpty(t, events[1].Error)
}

func TestGenerationService_CancelBeforeAttachYieldsCancelledThenDone(t *testing.T) {
	provider := &stubProvider{chunks: []llm.StreamChunk{
		{Content: "should never arrive"},
		{Done: true},
	}}
	f := newGenerationFixture(t, provider, "")

	res, err := f.svc.Submit(context.Background(), &dto.SubmitGenerationRequest{Prompt: "begin"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(context.Background(), res.GenerationId.String()))

	events := collectEvents(t, f.svc.Attach(context.Background(), res.GenerationId.String()))
	require.Len(t, events, 2)
	assert.True(t, events[0].Cancelled)
	assert.True(t, events[1].Done)

	for _, event := range events {
		assert.Empty(t, event.Text, "no text events after cancellation")
	}
}

func TestGenerationService_AutoRenamePrecedesDone(t *testing.T) {
	provider := &stubProvider{chunks: []llm.StreamChunk{
		{Content: "generated text"},
		{Done: true},
	}}
	f := newGenerationFixture(t, provider, "Moonlit Harbor")
	ctx := context.Background()

	document, err := f.docSvc.Create(ctx, &dto.CreateDocumentRequest{Name: ""})
	require.NoError(t, err)
	content := "a story about a harbor at night"
	_, err = f.docSvc.Update(ctx, document.Id, &dto.UpdateDocumentRequest{Content: &content})
	require.NoError(t, err)

	res, err := f.svc.Submit(ctx, &dto.SubmitGenerationRequest{Prompt: "continue", DocumentId: &document.Id})
	require.NoError(t, err)

	events := collectEvents(t, f.svc.Attach(ctx, res.GenerationId.String()))
	require.Len(t, events, 3)
	assert.Equal(t, "generated text", events[0].Text)
	assert.True(t, events[1].AutoRenamed)
	assert.Equal(t, "Moonlit Harbor", events[1].NewName)
	assert.True(t, events[2].Done)

	renamed, err := f.docSvc.Show(ctx, document.Id)
	require.NoError(t, err)
	assert.Equal(t, "Moonlit Harbor", renamed.Name)
}

func TestGenerationService_NoRenameWhenDocumentAlreadyNamed(t *testing.T) {
	provider := &stubProvider{chunks: []llm.StreamChunk{
		{Content: "text"},
		{Done: true},
	}}
	f := newGenerationFixture(t, provider, "Should Not Apply")
	ctx := context.Background()

	document, err := f.docSvc.Create(ctx, &dto.CreateDocumentRequest{Name: "Already Named"})
	require.NoError(t, err)
	content := "plenty of content"
	_, err = f.docSvc.Update(ctx, document.Id, &dto.UpdateDocumentRequest{Content: &content})
	require.NoError(t, err)

	res, err := f.svc.Submit(ctx, &dto.SubmitGenerationRequest{Prompt: "continue", DocumentId: &document.Id})
	require.NoError(t, err)

	events := collectEvents(t, f.svc.Attach(ctx, res.GenerationId.String()))
	for _, event := range events {
		assert.False(t, event.AutoRenamed)
	}

	unchanged, err := f.docSvc.Show(ctx, document.Id)
	require.NoError(t, err)
	assert.Equal(t, "Already Named", unchanged.Name)
}

func TestGenerationService_NamerFailureSkipsRename(t *testing.T) {
	provider := &stubProvider{chunks: []llm.StreamChunk{
		{Content: "text"},
		{Done: true},
	}}
	// The namer reports failure by returning the placeholder.
	f := newGenerationFixture(t, provider, namer.FallbackName)
	ctx := context.Background()

	document, err := f.docSvc.Create(ctx, &dto.CreateDocumentRequest{Name: ""})
	require.NoError(t, err)
	content := "some content"
	_, err = f.docSvc.Update(ctx, document.Id, &dto.UpdateDocumentRequest{Content: &content})
	require.NoError(t, err)

	res, err := f.svc.Submit(ctx, &dto.SubmitGenerationRequest{Prompt: "continue", DocumentId: &document.Id})
	require.NoError(t, err)

	events := collectEvents(t, f.svc.Attach(ctx, res.GenerationId.String()))
	for _, event := range events {
		assert.False(t, event.AutoRenamed)
	}
	assert.True(t, events[len(events)-1].Done)
}
