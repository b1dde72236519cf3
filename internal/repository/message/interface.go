package message

import (
	"context"

	"github.com/invoicelens/go-invoicelens/internal/domain"
)

// MessageRepository handles chat message data operations. Messages are
// append only; there is no update path.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	// FindByThreadID returns all messages of a thread ascending by
	// creation time, id breaking ties.
	FindByThreadID(ctx context.Context, threadID uint) ([]domain.Message, error)
	// FindRecentByThreadID returns the last limit messages of a thread in
	// chronological order, for use as model history.
	FindRecentByThreadID(ctx context.Context, threadID uint, limit int) ([]domain.Message, error)
	CountByThreadID(ctx context.Context, threadID uint) (int64, error)
	DeleteByThreadIDs(ctx context.Context, threadIDs []uint) (int64, error)
}
