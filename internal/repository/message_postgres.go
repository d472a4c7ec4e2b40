package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/intellimulti/chat-backend/internal/entity"
)

// MessageRepository defines the interface for chat turn persistence
type MessageRepository interface {
	SaveTurn(ctx context.Context, turn entity.ChatTurn) error
	ListTurns(ctx context.Context, limit int) ([]entity.ChatTurn, error)
}

var _ MessageRepository = &MessagePostgres{}

// MessagePostgres implements MessageRepository using PostgreSQL
type MessagePostgres struct {
	db *pgxpool.Pool
}

func NewMessagePostgres(db *pgxpool.Pool) *MessagePostgres {
	return &MessagePostgres{
		db: db,
	}
}

func (r *MessagePostgres) SaveTurn(ctx context.Context, turn entity.ChatTurn) error {
	id, err := uuid.Parse(turn.ID)
	if err != nil {
		return fmt.Errorf("invalid turn ID: %w", err)
	}

	var refs []byte
	if len(turn.References) > 0 {
		refs, err = json.Marshal(turn.References)
		if err != nil {
			return fmt.Errorf("marshal references: %w", err)
		}
	}

	const query = `
		INSERT INTO chat_messages (id, role, content, "references", created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.Exec(ctx, query, id, turn.Role, turn.Content, refs, turn.CreatedAt); err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}

	return nil
}

// ListTurns returns the newest limit turns in chronological order.
func (r *MessagePostgres) ListTurns(ctx context.Context, limit int) ([]entity.ChatTurn, error) {
	const query = `
		SELECT id, role, content, "references", created_at
		FROM (
			SELECT id, role, content, "references", created_at
			FROM chat_messages
			ORDER BY created_at DESC
			LIMIT $1
		) recent
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	turns, err := pgx.CollectRows(rows, scanTurn)
	if err != nil {
		return nil, fmt.Errorf("scan chat messages: %w", err)
	}

	return turns, nil
}

func scanTurn(row pgx.CollectableRow) (entity.ChatTurn, error) {
	var (
		turn entity.ChatTurn
		id   uuid.UUID
		refs []byte
	)

	if err := row.Scan(&id, &turn.Role, &turn.Content, &refs, &turn.CreatedAt); err != nil {
		return entity.ChatTurn{}, err
	}

	turn.ID = id.String()

	if len(refs) > 0 {
		if err := json.Unmarshal(refs, &turn.References); err != nil {
			return entity.ChatTurn{}, fmt.Errorf("unmarshal references: %w", err)
		}
	}

	return turn, nil
}
