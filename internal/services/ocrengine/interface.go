// File: internal/services/ocrengine/interface.go
package ocrengine

import "context"

// Recognizer extracts plain text from an image file on disk. An empty
// result is a valid outcome (a blank or unreadable invoice); engine
// failure is reported as an error.
type Recognizer interface {
	Recognize(ctx context.Context, filePath, language string) (string, error)
}
