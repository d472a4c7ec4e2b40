package model

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/intellimulti/chat-backend/internal/entity"
	"github.com/intellimulti/chat-backend/internal/stream"
)

const mockReply = "This is a mocked assistant reply. The first supporting passage is [0] and a second one appears in [1]."

// MockConnector is a stand-in model provider for local development.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Chat(ctx context.Context, messages []entity.ModelMessage) (string, error) {
	ctxzap.Info(ctx, "[MOCK] chat completion", zap.Int("message_count", len(messages)))
	return mockReply, nil
}

// StreamChat emits the mock reply word by word.
func (m *MockConnector) StreamChat(ctx context.Context, messages []entity.ModelMessage) (stream.FragmentSource, error) {
	ctxzap.Info(ctx, "[MOCK] streamed chat completion", zap.Int("message_count", len(messages)))

	words := strings.SplitAfter(mockReply, " ")
	return &mockSource{fragments: words}, nil
}

type mockSource struct {
	mu        sync.Mutex
	fragments []string
	pos       int
	closed    bool
}

func (s *mockSource) Recv() (*entity.TextFragment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.pos >= len(s.fragments) {
		return nil, io.EOF
	}

	fragment := &entity.TextFragment{Content: s.fragments[s.pos]}
	s.pos++
	return fragment, nil
}

func (s *mockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
