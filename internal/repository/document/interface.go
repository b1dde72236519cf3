package document

import (
	"context"

	"github.com/invoicelens/go-invoicelens/internal/domain"
)

// DocumentRepository handles document data operations. Finders state
// exactly which joined data they return instead of taking an implicit
// include option.
type DocumentRepository interface {
	// CreateWithOcr persists a document and its OCR result as a single
	// atomic unit. Either both rows exist afterwards or neither does.
	CreateWithOcr(ctx context.Context, doc *domain.Document, ocr *domain.OcrResult) error
	FindByID(ctx context.Context, id uint) (*domain.Document, error)
	// FindByIDWithOcr returns the document joined with its OCR result.
	FindByIDWithOcr(ctx context.Context, id uint) (*domain.Document, error)
	// FindByIDWithRelations returns the document with OCR result and all
	// threads, each thread's messages in ascending creation order.
	FindByIDWithRelations(ctx context.Context, id uint) (*domain.Document, error)
	// FindByUserID returns the user's documents newest first, each with
	// OCR result and threads with messages.
	FindByUserID(ctx context.Context, userID uint) ([]domain.Document, error)
	FindIDsByUserID(ctx context.Context, userID uint) ([]uint, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}
