// File: internal/domain/message.go
package domain

import "time"

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// Message is a single turn within a chat thread. Messages are append
// only; conversation order is reconstructed from CreatedAt (id breaks
// ties), never from slice position.
type Message struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ThreadID  uint      `json:"thread_id" gorm:"not null;index"`
	Role      string    `json:"role" gorm:"not null"` // "user" or "assistant"
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
