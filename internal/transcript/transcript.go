// Package transcript records answered exchanges outside the process.
package transcript

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Exchange is one answered question in a browser chat.
type Exchange struct {
	ID        uuid.UUID `json:"id"`
	ChatID    uuid.UUID `json:"chat_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

func NewExchange(chatID uuid.UUID, question, answer string) Exchange {
	return Exchange{
		ID:        uuid.New(),
		ChatID:    chatID,
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	}
}

type Recorder interface {
	Record(ctx context.Context, ex Exchange) error
}

// Archive reads back the exchanges a Recorder saved.
type Archive interface {
	Exchanges(ctx context.Context, chatID uuid.UUID) ([]Exchange, error)
}

// Nop discards exchanges.
type Nop struct{}

func (Nop) Record(context.Context, Exchange) error { return nil }

// Multi records to every recorder and joins their errors.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, ex Exchange) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, ex); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
