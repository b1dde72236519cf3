package thread

import (
	"context"

	"github.com/invoicelens/go-invoicelens/internal/domain"
)

// ThreadRepository handles chat thread data operations.
type ThreadRepository interface {
	Create(ctx context.Context, thread *domain.ChatThread) (*domain.ChatThread, error)
	FindByID(ctx context.Context, id uint) (*domain.ChatThread, error)
	// FindByIDWithDocumentAndOcr returns the thread joined with its parent
	// document and the document's OCR result in a single query, so callers
	// that need the grounding text never race a second lookup.
	FindByIDWithDocumentAndOcr(ctx context.Context, id uint) (*domain.ChatThread, error)
	// FindByIDWithMessages returns the thread with messages ascending by
	// creation time, plus the parent document and its OCR result.
	FindByIDWithMessages(ctx context.Context, id uint) (*domain.ChatThread, error)
	FindIDsByDocumentIDs(ctx context.Context, documentIDs []uint) ([]uint, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}
