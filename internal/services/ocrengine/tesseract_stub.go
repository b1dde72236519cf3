//go:build !cgo || !ocr

// File: internal/services/ocrengine/tesseract_stub.go
package ocrengine

import "context"

// TesseractRecognizer is a stub for environments built without
// Tesseract/CGO support. Ingestion fails cleanly instead of panicking.
type TesseractRecognizer struct{}

func NewTesseractRecognizer() *TesseractRecognizer {
	return &TesseractRecognizer{}
}

func (t *TesseractRecognizer) Recognize(ctx context.Context, filePath, language string) (string, error) {
	return "", &OCRError{
		Type:      ErrTypeUnavailable,
		Operation: "recognize",
		Message:   "OCR not available: built without Tesseract support",
	}
}
