package chat

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/intellimulti/chat-backend/internal/chunker"
	"github.com/intellimulti/chat-backend/internal/entity"
	"github.com/intellimulti/chat-backend/internal/stream"
)

type stubSource struct {
	mu        sync.Mutex
	fragments []string
	pos       int
	closed    bool
}

func (s *stubSource) Recv() (*entity.TextFragment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.pos >= len(s.fragments) {
		return nil, io.EOF
	}
	f := &entity.TextFragment{Content: s.fragments[s.pos]}
	s.pos++
	return f, nil
}

func (s *stubSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type stubModel struct {
	reply     string
	fragments []string
}

func (m *stubModel) Chat(ctx context.Context, messages []entity.ModelMessage) (string, error) {
	return m.reply, nil
}

func (m *stubModel) StreamChat(ctx context.Context, messages []entity.ModelMessage) (stream.FragmentSource, error) {
	return &stubSource{fragments: m.fragments}, nil
}

type memRepo struct {
	mu    sync.Mutex
	turns []entity.ChatTurn
}

func (r *memRepo) SaveTurn(ctx context.Context, turn entity.ChatTurn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns = append(r.turns, turn)
	return nil
}

func (r *memRepo) ListTurns(ctx context.Context, limit int) ([]entity.ChatTurn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.turns) {
		limit = len(r.turns)
	}
	return r.turns[:limit], nil
}

func (r *memRepo) saved() []entity.ChatTurn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.ChatTurn(nil), r.turns...)
}

func newTestUsecase(model ModelConnector, repo MessageRepository) *ChatUsecase {
	return NewUsecase(model, repo, chunker.DefaultConfig(), zap.NewNop())
}

func collectEvents(t *testing.T, events <-chan entity.StreamEvent) []entity.StreamEvent {
	t.Helper()

	var out []entity.StreamEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("timed out waiting for stream events")
		}
	}
}

func TestStream_EmitsDeltasAndPersistsTurn(t *testing.T) {
	model := &stubModel{fragments: []string{"Hello ", "there."}}
	repo := &memRepo{}
	uc := newTestUsecase(model, repo)

	events, err := uc.Stream(context.Background(), StreamInput{
		ContentBlocks: []entity.ContentBlock{
			{Type: entity.BlockTypeText, Content: "hi"},
		},
	})
	require.NoError(t, err)

	collected := collectEvents(t, events)
	require.Len(t, collected, 3)

	assert.Equal(t, entity.EventContentDelta, collected[0].Type)
	assert.Equal(t, entity.EventContentDelta, collected[1].Type)

	final := collected[2]
	assert.Equal(t, entity.EventMessageComplete, final.Type)
	assert.Equal(t, "Hello there.", final.FullContent)
	assert.NotNil(t, final.References)

	turns := repo.saved()
	require.Len(t, turns, 2)
	assert.Equal(t, entity.RoleUser, turns[0].Role)
	assert.Equal(t, "hi", turns[0].Content)
	assert.Equal(t, entity.RoleAssistant, turns[1].Role)
	assert.Equal(t, "Hello there.", turns[1].Content)
}

func TestStream_DegradesOnUnreadableDocument(t *testing.T) {
	model := &stubModel{fragments: []string{"Plain answer."}}
	repo := &memRepo{}
	uc := newTestUsecase(model, repo)

	events, err := uc.Stream(context.Background(), StreamInput{
		ContentBlocks: []entity.ContentBlock{
			{Type: entity.BlockTypeText, Content: "summarize"},
		},
		PDF: &Attachment{Filename: "broken.pdf", Data: []byte("not a pdf")},
	})
	require.NoError(t, err)

	collected := collectEvents(t, events)
	require.NotEmpty(t, collected)

	final := collected[len(collected)-1]
	assert.Equal(t, entity.EventMessageComplete, final.Type)
	assert.Empty(t, final.References)
}

func TestChat_ReturnsAssistantReply(t *testing.T) {
	model := &stubModel{reply: "Sync reply."}
	repo := &memRepo{}
	uc := newTestUsecase(model, repo)

	resp, err := uc.Chat(context.Background(), &entity.ChatRequest{
		ContentBlocks: []entity.ContentBlock{
			{Type: entity.BlockTypeText, Content: "hello"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sync reply.", resp.Content)
	assert.Equal(t, entity.RoleAssistant, resp.Role)
	assert.NotNil(t, resp.References)

	require.Len(t, repo.saved(), 2)
}

func TestChat_RejectsEmptyMessage(t *testing.T) {
	uc := newTestUsecase(&stubModel{}, &memRepo{})

	_, err := uc.Chat(context.Background(), &entity.ChatRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrEmptyMessage)
}

func TestHistory_AppliesDefaultLimit(t *testing.T) {
	repo := &memRepo{}
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.SaveTurn(context.Background(), entity.ChatTurn{Role: entity.RoleUser}))
	}
	uc := newTestUsecase(&stubModel{}, repo)

	turns, err := uc.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, turns, 3)
}
