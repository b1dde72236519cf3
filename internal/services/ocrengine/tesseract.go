//go:build cgo && ocr

// File: internal/services/ocrengine/tesseract.go
package ocrengine

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractRecognizer runs a local Tesseract engine through gosseract.
type TesseractRecognizer struct{}

func NewTesseractRecognizer() *TesseractRecognizer {
	return &TesseractRecognizer{}
}

func (t *TesseractRecognizer) Recognize(ctx context.Context, filePath, language string) (string, error) {
	if filePath == "" {
		return "", &OCRError{Type: ErrTypeValidation, Operation: "recognize", Message: "file path is required"}
	}
	if language == "" {
		language = "eng"
	}

	// gosseract has no context plumbing; honor cancellation up front.
	if err := ctx.Err(); err != nil {
		return "", NewEngineError("recognize", "cancelled before OCR started", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return "", NewEngineError("recognize", "failed to set language", err)
	}
	if err := client.SetImage(filePath); err != nil {
		return "", NewEngineError("recognize", "failed to set image", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", NewEngineError("recognize", "text extraction failed", err)
	}

	return strings.TrimSpace(text), nil
}
