// File: internal/services/llm/interface.go
package llm

import "context"

// HistoryTurn is one prior conversation turn passed along for context.
type HistoryTurn struct {
	Role    string
	Content string
}

// AnswerRequest carries everything the model may see for one question.
// OcrText is the sole permitted source of truth for the answer; the
// provider treats it as untrusted data, never as instructions.
type AnswerRequest struct {
	OcrText  string
	Question string
	History  []HistoryTurn
}

// Provider answers invoice questions grounded in OCR text. A provider
// must fail with an error rather than return malformed content, and
// must bound its own prompt size for oversized OCR text.
type Provider interface {
	Answer(ctx context.Context, req AnswerRequest) (string, error)
}
