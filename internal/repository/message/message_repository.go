// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/invoicelens/go-invoicelens/internal/domain"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Create - with comprehensive input validation and secure logging
func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		// Secure logging - no invoice content exposed
		log.Printf("[MessageRepository] Database error during message creation for thread ID %d: %v", message.ThreadID, err)
		return nil, errors.New("database error creating message")
	}

	log.Printf("[MessageRepository] Message created successfully with ID: %d for thread: %d", message.ID, message.ThreadID)
	return message, nil
}

func (r *gormMessageRepository) FindByThreadID(ctx context.Context, threadID uint) ([]domain.Message, error) {
	if threadID == 0 {
		return nil, errors.New("invalid thread ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for thread ID %d: %v", threadID, err)
		return nil, errors.New("database error fetching messages")
	}

	return messages, nil
}

// FindRecentByThreadID - fetch newest first, then reverse to chronological order.
func (r *gormMessageRepository) FindRecentByThreadID(ctx context.Context, threadID uint, limit int) ([]domain.Message, error) {
	if threadID == 0 {
		return nil, errors.New("invalid thread ID")
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding recent messages for thread ID %d: %v", threadID, err)
		return nil, errors.New("database error finding recent messages")
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *gormMessageRepository) CountByThreadID(ctx context.Context, threadID uint) (int64, error) {
	if threadID == 0 {
		return 0, errors.New("invalid thread ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("thread_id = ?", threadID).Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for thread ID %d: %v", threadID, err)
		return 0, errors.New("database error counting thread messages")
	}

	return count, nil
}

// DeleteByThreadIDs - bulk delete; an empty set is a no-op.
func (r *gormMessageRepository) DeleteByThreadIDs(ctx context.Context, threadIDs []uint) (int64, error) {
	if len(threadIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("thread_id IN ?", threadIDs).
		Delete(&domain.Message{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error in bulk delete: %v", result.Error)
		return 0, errors.New("database error in bulk message deletion")
	}

	log.Printf("[MessageRepository] Bulk deleted %d messages", result.RowsAffected)
	return result.RowsAffected, nil
}

// ===== VALIDATION HELPERS =====

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ThreadID == 0 {
		return errors.New("thread ID is required")
	}
	if err := r.validateMessageRole(message.Role); err != nil {
		return fmt.Errorf("role validation: %w", err)
	}
	if strings.TrimSpace(message.Content) == "" {
		return errors.New("message content cannot be empty")
	}
	return nil
}

func (r *gormMessageRepository) validateMessageRole(role string) error {
	switch role {
	case domain.MessageRoleUser, domain.MessageRoleAssistant:
		return nil
	default:
		return errors.New("invalid message role")
	}
}
