// File: internal/repository/ocr/ocr_repository.go
package ocr

import (
	"context"
	"errors"
	"log"

	"github.com/invoicelens/go-invoicelens/internal/domain"
	"gorm.io/gorm"
)

type gormOcrResultRepository struct {
	db *gorm.DB
}

func NewOcrResultRepository(db *gorm.DB) OcrResultRepository {
	return &gormOcrResultRepository{db: db}
}

// DeleteByDocumentIDs - bulk delete; an empty set is a no-op.
func (r *gormOcrResultRepository) DeleteByDocumentIDs(ctx context.Context, documentIDs []uint) (int64, error) {
	if len(documentIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("document_id IN ?", documentIDs).
		Delete(&domain.OcrResult{})
	if result.Error != nil {
		log.Printf("[OcrResultRepository] Database error in bulk delete: %v", result.Error)
		return 0, errors.New("database error deleting OCR results")
	}

	log.Printf("[OcrResultRepository] Bulk deleted %d OCR results", result.RowsAffected)
	return result.RowsAffected, nil
}
