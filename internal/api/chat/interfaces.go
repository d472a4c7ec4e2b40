package chat

import (
	"context"

	"github.com/intellimulti/chat-backend/internal/entity"
	usecase "github.com/intellimulti/chat-backend/internal/usecase/chat"
)

type ChatUsecase interface {
	Stream(ctx context.Context, input usecase.StreamInput) (<-chan entity.StreamEvent, error)
	Chat(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResponse, error)
	History(ctx context.Context, limit int) ([]entity.ChatTurn, error)
}
