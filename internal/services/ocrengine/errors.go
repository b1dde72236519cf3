// File: internal/services/ocrengine/errors.go
package ocrengine

import "fmt"

type ErrorType string

const (
	ErrTypeUnavailable ErrorType = "UNAVAILABLE"
	ErrTypeEngine      ErrorType = "ENGINE"
	ErrTypeValidation  ErrorType = "VALIDATION"
)

type OCRError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *OCRError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("OCR %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("OCR %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *OCRError) Unwrap() error { return e.Cause }

func NewEngineError(operation, msg string, cause error) *OCRError {
	return &OCRError{Type: ErrTypeEngine, Operation: operation, Message: msg, Cause: cause}
}
