// File: internal/domain/document.go
package domain

import "time"

// Document represents one uploaded invoice image and its metadata.
// StoragePath is server-controlled, never derived from client-supplied
// path components.
type Document struct {
	ID           uint         `json:"id" gorm:"primarykey"`
	UserID       uint         `json:"user_id" gorm:"not null;index"`
	OriginalName string       `json:"original_name" gorm:"not null"`
	MimeType     string       `json:"mime_type" gorm:"not null"`
	SizeBytes    int64        `json:"size_bytes" gorm:"not null"`
	StoragePath  string       `json:"storage_path" gorm:"not null"`
	CreatedAt    time.Time    `json:"created_at"`
	Ocr          *OcrResult   `json:"ocr,omitempty" gorm:"foreignKey:DocumentID"`
	Threads      []ChatThread `json:"threads,omitempty" gorm:"foreignKey:DocumentID"`
}

// OcrText returns the extracted text, or "" when OCR has not run yet.
func (d *Document) OcrText() string {
	if d.Ocr == nil {
		return ""
	}
	return d.Ocr.Text
}
