// File: internal/repository/document/document_repository.go
package document

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/invoicelens/go-invoicelens/internal/domain"
	"gorm.io/gorm"
)

var ErrDocumentNotFound = errors.New("document not found")

type gormDocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &gormDocumentRepository{db: db}
}

// CreateWithOcr - document row and OCR row in one transaction so a
// failure between the two writes can never leave an orphaned document.
func (r *gormDocumentRepository) CreateWithOcr(ctx context.Context, doc *domain.Document, ocr *domain.OcrResult) error {
	if err := r.validateDocumentInput(doc); err != nil {
		log.Printf("[DocumentRepository] Validation failed: %v", err)
		return fmt.Errorf("validation failed: %w", err)
	}
	if ocr == nil {
		return errors.New("ocr result cannot be nil")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		ocr.DocumentID = doc.ID
		return tx.Create(ocr).Error
	})
	if err != nil {
		log.Printf("[DocumentRepository] Database error during document creation for user ID %d: %v", doc.UserID, err)
		return errors.New("database error creating document")
	}

	log.Printf("[DocumentRepository] Document created successfully with ID: %d for user: %d", doc.ID, doc.UserID)
	return nil
}

func (r *gormDocumentRepository) FindByID(ctx context.Context, id uint) (*domain.Document, error) {
	if id == 0 {
		return nil, errors.New("invalid document ID")
	}

	var doc domain.Document
	err := r.db.WithContext(ctx).First(&doc, id).Error
	return r.handleFindError(err, &doc, "FindByID")
}

func (r *gormDocumentRepository) FindByIDWithOcr(ctx context.Context, id uint) (*domain.Document, error) {
	if id == 0 {
		return nil, errors.New("invalid document ID")
	}

	var doc domain.Document
	err := r.db.WithContext(ctx).
		Preload("Ocr").
		First(&doc, id).Error
	return r.handleFindError(err, &doc, "FindByIDWithOcr")
}

func (r *gormDocumentRepository) FindByIDWithRelations(ctx context.Context, id uint) (*domain.Document, error) {
	if id == 0 {
		return nil, errors.New("invalid document ID")
	}

	var doc domain.Document
	err := r.db.WithContext(ctx).
		Preload("Ocr").
		Preload("Threads").
		Preload("Threads.Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&doc, id).Error
	return r.handleFindError(err, &doc, "FindByIDWithRelations")
}

func (r *gormDocumentRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Document, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var docs []domain.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Preload("Ocr").
		Preload("Threads").
		Preload("Threads.Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Find(&docs).Error
	if err != nil {
		log.Printf("[DocumentRepository] Database error finding documents for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching documents")
	}

	return docs, nil
}

func (r *gormDocumentRepository) FindIDsByUserID(ctx context.Context, userID uint) ([]uint, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error
	if err != nil {
		log.Printf("[DocumentRepository] Database error listing document IDs for user ID %d: %v", userID, err)
		return nil, errors.New("database error listing document IDs")
	}

	return ids, nil
}

// DeleteByIDs - bulk delete; deleting an empty set is a no-op, not an error.
func (r *gormDocumentRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.Document{})
	if result.Error != nil {
		log.Printf("[DocumentRepository] Database error in bulk delete: %v", result.Error)
		return 0, errors.New("database error deleting documents")
	}

	log.Printf("[DocumentRepository] Bulk deleted %d documents", result.RowsAffected)
	return result.RowsAffected, nil
}

// ===== VALIDATION / ERROR HELPERS =====

func (r *gormDocumentRepository) validateDocumentInput(doc *domain.Document) error {
	if doc == nil {
		return errors.New("document cannot be nil")
	}
	if doc.UserID == 0 {
		return errors.New("user ID is required")
	}
	if doc.OriginalName == "" {
		return errors.New("original name is required")
	}
	if doc.StoragePath == "" {
		return errors.New("storage path is required")
	}
	return nil
}

// handleFindError - secure error handling without data leakage
func (r *gormDocumentRepository) handleFindError(err error, doc *domain.Document, operation string) (*domain.Document, error) {
	if err == nil {
		return doc, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}

	log.Printf("[DocumentRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
