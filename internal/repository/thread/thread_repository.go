// File: internal/repository/thread/thread_repository.go
package thread

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/invoicelens/go-invoicelens/internal/domain"
	"gorm.io/gorm"
)

var ErrThreadNotFound = errors.New("thread not found")

type gormThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &gormThreadRepository{db: db}
}

// Create - with input validation and secure logging
func (r *gormThreadRepository) Create(ctx context.Context, thread *domain.ChatThread) (*domain.ChatThread, error) {
	if err := r.validateThreadInput(thread); err != nil {
		log.Printf("[ThreadRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(thread).Error; err != nil {
		log.Printf("[ThreadRepository] Database error during thread creation for document ID %d: %v", thread.DocumentID, err)
		return nil, errors.New("database error creating thread")
	}

	log.Printf("[ThreadRepository] Thread created successfully with ID: %d for document: %d", thread.ID, thread.DocumentID)
	return thread, nil
}

func (r *gormThreadRepository) FindByID(ctx context.Context, id uint) (*domain.ChatThread, error) {
	if id == 0 {
		return nil, errors.New("invalid thread ID")
	}

	var thread domain.ChatThread
	err := r.db.WithContext(ctx).First(&thread, id).Error
	return r.handleFindError(err, &thread, "FindByID")
}

func (r *gormThreadRepository) FindByIDWithDocumentAndOcr(ctx context.Context, id uint) (*domain.ChatThread, error) {
	if id == 0 {
		return nil, errors.New("invalid thread ID")
	}

	var thread domain.ChatThread
	err := r.db.WithContext(ctx).
		Preload("Document").
		Preload("Document.Ocr").
		First(&thread, id).Error
	return r.handleFindError(err, &thread, "FindByIDWithDocumentAndOcr")
}

func (r *gormThreadRepository) FindByIDWithMessages(ctx context.Context, id uint) (*domain.ChatThread, error) {
	if id == 0 {
		return nil, errors.New("invalid thread ID")
	}

	var thread domain.ChatThread
	err := r.db.WithContext(ctx).
		Preload("Document").
		Preload("Document.Ocr").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&thread, id).Error
	return r.handleFindError(err, &thread, "FindByIDWithMessages")
}

func (r *gormThreadRepository) FindIDsByDocumentIDs(ctx context.Context, documentIDs []uint) ([]uint, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&domain.ChatThread{}).
		Where("document_id IN ?", documentIDs).
		Pluck("id", &ids).Error
	if err != nil {
		log.Printf("[ThreadRepository] Database error listing thread IDs: %v", err)
		return nil, errors.New("database error listing thread IDs")
	}

	return ids, nil
}

// DeleteByIDs - bulk delete; an empty set is a no-op.
func (r *gormThreadRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.ChatThread{})
	if result.Error != nil {
		log.Printf("[ThreadRepository] Database error in bulk delete: %v", result.Error)
		return 0, errors.New("database error deleting threads")
	}

	log.Printf("[ThreadRepository] Bulk deleted %d threads", result.RowsAffected)
	return result.RowsAffected, nil
}

// ===== VALIDATION / ERROR HELPERS =====

func (r *gormThreadRepository) validateThreadInput(thread *domain.ChatThread) error {
	if thread == nil {
		return errors.New("thread cannot be nil")
	}
	if thread.UserID == 0 {
		return errors.New("user ID is required")
	}
	if thread.DocumentID == 0 {
		return errors.New("document ID is required")
	}
	return nil
}

// handleFindError - secure error handling without data leakage
func (r *gormThreadRepository) handleFindError(err error, thread *domain.ChatThread, operation string) (*domain.ChatThread, error) {
	if err == nil {
		return thread, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrThreadNotFound
	}

	log.Printf("[ThreadRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
