// File: internal/services/llm/errors.go
package llm

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type LLMError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *LLMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("LLM %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("LLM %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *LLMError) Unwrap() error { return e.Cause }

func NewConfigError(msg string) *LLMError {
	return &LLMError{Type: ErrTypeConfig, Operation: "config", Message: msg}
}

func NewProviderError(operation, msg string, cause error) *LLMError {
	return &LLMError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}
