// File: internal/domain/ocr_result.go
package domain

import "time"

// OcrResult holds the text extracted from exactly one Document. It is
// written once, right after the Document row, and never updated; a
// re-OCR is a new ingestion.
type OcrResult struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	DocumentID uint      `json:"document_id" gorm:"not null;uniqueIndex"`
	Text       string    `json:"text"` // may be empty, that is a valid OCR outcome
	CreatedAt  time.Time `json:"created_at"`
}
