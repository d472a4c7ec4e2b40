package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/intellimulti/chat-backend/internal/chunker"
	"github.com/intellimulti/chat-backend/internal/document"
	"github.com/intellimulti/chat-backend/internal/entity"
	"github.com/intellimulti/chat-backend/internal/stream"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// ChatUsecase implements chat business logic: prompt assembly,
// document ingestion, streaming relay and turn persistence.
type ChatUsecase struct {
	model         ModelConnector
	messageRepo   MessageRepository
	corpusBuilder *document.Builder
	logger        *zap.Logger
}

// NewUsecase creates a new chat use case
func NewUsecase(
	model ModelConnector,
	messageRepo MessageRepository,
	chunkingCfg chunker.Config,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		model:         model,
		messageRepo:   messageRepo,
		corpusBuilder: document.NewBuilder(chunkingCfg),
		logger:        logger,
	}
}

// StreamInput carries one streaming chat request.
type StreamInput struct {
	ContentBlocks []entity.ContentBlock
	History       []entity.HistoryMessage
	Image         *Attachment
	Audio         *Attachment
	PDF           *Attachment
}

// Stream runs a streamed chat turn and returns the event channel. The
// channel closes after exactly one terminal event, or without one when
// ctx is cancelled mid-stream.
func (uc *ChatUsecase) Stream(ctx context.Context, input StreamInput) (<-chan entity.StreamEvent, error) {
	corpus := uc.ingestDocument(ctx, input.PDF)

	messages := BuildMessages(input.History, input.ContentBlocks, input.Image, input.Audio, &corpus)

	src, err := uc.model.StreamChat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("start model stream: %w", err)
	}

	relay := stream.NewRelay(corpus)
	events := relay.Run(ctx, src)

	out := make(chan entity.StreamEvent)
	go uc.forward(ctx, input, events, out)

	return out, nil
}

// forward passes relay events through and persists the turn when the
// stream completes successfully.
func (uc *ChatUsecase) forward(ctx context.Context, input StreamInput, events <-chan entity.StreamEvent, out chan<- entity.StreamEvent) {
	defer close(out)

	for ev := range events {
		if ev.Type == entity.EventMessageComplete {
			uc.persistTurn(ctx, input, ev.FullContent, ev.References)
		}

		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// ingestDocument builds the reference corpus from an uploaded PDF. A
// document that cannot be parsed degrades the turn to plain chat
// instead of failing it.
func (uc *ChatUsecase) ingestDocument(ctx context.Context, pdf *Attachment) entity.Corpus {
	if pdf == nil {
		return entity.Corpus{}
	}

	pages, err := document.ExtractPages(pdf.Data, pdf.Filename)
	if err != nil {
		var parseErr *entity.DocumentParseError
		if errors.As(err, &parseErr) {
			ctxzap.Warn(ctx, "document unreadable, continuing without reference passages",
				zap.String("filename", pdf.Filename),
				zap.Error(err),
			)
			return entity.Corpus{}
		}
		ctxzap.Warn(ctx, "document extraction failed", zap.Error(err))
		return entity.Corpus{}
	}

	corpus := uc.corpusBuilder.BuildCorpus(pdf.Filename, pages)

	ctxzap.Info(ctx, "document ingested",
		zap.String("filename", pdf.Filename),
		zap.Int("page_count", len(pages)),
		zap.Int("chunk_count", corpus.Len()),
	)

	return corpus
}

// Chat runs a blocking chat turn without attachments.
func (uc *ChatUsecase) Chat(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResponse, error) {
	if len(req.ContentBlocks) == 0 {
		return nil, fmt.Errorf("%w: content_blocks", entity.ErrEmptyMessage)
	}

	messages := BuildMessages(req.History, req.ContentBlocks, nil, nil, nil)

	content, err := uc.model.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	uc.persistTurn(ctx, StreamInput{ContentBlocks: req.ContentBlocks}, content, nil)

	return &entity.ChatResponse{
		Content:    content,
		Role:       entity.RoleAssistant,
		Timestamp:  time.Now().Format(time.RFC3339Nano),
		References: []entity.Reference{},
	}, nil
}

// History returns the most recent persisted turns, oldest first.
func (uc *ChatUsecase) History(ctx context.Context, limit int) ([]entity.ChatTurn, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	turns, err := uc.messageRepo.ListTurns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}

	return turns, nil
}

// persistTurn stores the user message and the assistant reply. Storage
// failures are logged, not surfaced, so a finished stream still reaches
// the client.
func (uc *ChatUsecase) persistTurn(ctx context.Context, input StreamInput, reply string, refs []entity.Reference) {
	now := time.Now()

	userTurn := entity.ChatTurn{
		ID:        uuid.New().String(),
		Role:      entity.RoleUser,
		Content:   textOfBlocks(input.ContentBlocks),
		CreatedAt: now,
	}
	if err := uc.messageRepo.SaveTurn(ctx, userTurn); err != nil {
		ctxzap.Warn(ctx, "failed to persist user turn", zap.Error(err))
	}

	assistantTurn := entity.ChatTurn{
		ID:         uuid.New().String(),
		Role:       entity.RoleAssistant,
		Content:    reply,
		References: refs,
		CreatedAt:  now,
	}
	if err := uc.messageRepo.SaveTurn(ctx, assistantTurn); err != nil {
		ctxzap.Warn(ctx, "failed to persist assistant turn", zap.Error(err))
	}
}

// textOfBlocks concatenates the text blocks of a message for storage.
func textOfBlocks(blocks []entity.ContentBlock) string {
	var text string
	for _, block := range blocks {
		if block.Type == entity.BlockTypeText {
			if text != "" {
				text += "\n"
			}
			text += block.Content
		}
	}
	return text
}
