package transcript

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/muhammadolammi/resumeclone/internal/database"
)

// PostgresRecorder writes exchanges to the chats and exchanges tables and
// reads them back per chat.
type PostgresRecorder struct {
	db      *sql.DB
	queries *database.Queries
}

func NewPostgresRecorder(db *sql.DB) *PostgresRecorder {
	return &PostgresRecorder{db: db, queries: database.New(db)}
}

// Record saves the chat row and the exchange in one transaction.
func (r *PostgresRecorder) Record(ctx context.Context, ex Exchange) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	err = qtx.TouchChat(ctx, database.TouchChatParams{
		ID:       ex.ChatID,
		LastSeen: ex.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save chat %s: %w", ex.ChatID, err)
	}
	err = qtx.CreateExchange(ctx, database.CreateExchangeParams{
		ID:        ex.ID,
		ChatID:    ex.ChatID,
		Question:  ex.Question,
		Answer:    ex.Answer,
		CreatedAt: ex.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save exchange %s: %w", ex.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit exchange %s: %w", ex.ID, err)
	}
	return nil
}

// Exchanges returns the chat's saved exchanges, oldest first.
func (r *PostgresRecorder) Exchanges(ctx context.Context, chatID uuid.UUID) ([]Exchange, error) {
	rows, err := r.queries.ListExchangesByChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat %s: %w", chatID, err)
	}
	exchanges := make([]Exchange, len(rows))
	for i, row := range rows {
		exchanges[i] = Exchange{
			ID:        row.ID,
			ChatID:    row.ChatID,
			Question:  row.Question,
			Answer:    row.Answer,
			CreatedAt: row.CreatedAt,
		}
	}
	return exchanges, nil
}
