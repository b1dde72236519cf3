// File: internal/domain/chat_thread.go
package domain

import "time"

// ChatThread is a conversation scoped to one Document and its owning
// user. UserID always equals the document's UserID: threads are only
// ever created through the ownership guard, which copies the owner id
// from the guarded document.
type ChatThread struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	DocumentID uint      `json:"document_id" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at"`
	Document   *Document `json:"document,omitempty" gorm:"foreignKey:DocumentID;references:ID"`
	Messages   []Message `json:"messages,omitempty" gorm:"foreignKey:ThreadID"`
}
