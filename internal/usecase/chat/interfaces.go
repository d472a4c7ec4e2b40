package chat

import (
	"context"

	"github.com/intellimulti/chat-backend/internal/entity"
	"github.com/intellimulti/chat-backend/internal/stream"
)

type ModelConnector interface {
	Chat(ctx context.Context, messages []entity.ModelMessage) (string, error)
	StreamChat(ctx context.Context, messages []entity.ModelMessage) (stream.FragmentSource, error)
}

type MessageRepository interface {
	SaveTurn(ctx context.Context, turn entity.ChatTurn) error
	ListTurns(ctx context.Context, limit int) ([]entity.ChatTurn, error)
}
