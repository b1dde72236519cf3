// File: internal/services/llm/config.go
package llm

import "time"

type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// Prompt budget: at most MaxOcrChars of OCR text and the last
	// MaxHistoryTurns conversation turns ever reach the model.
	MaxOcrChars     int
	MaxHistoryTurns int

	Timeout     time.Duration
	Temperature float32
	TopP        float32
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return NewConfigError("OPENAI_API_KEY is required")
	}
	if c.Model == "" {
		return NewConfigError("model name is required")
	}
	if c.Timeout <= 0 {
		return NewConfigError("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Model:           "gpt-4o-mini",
		MaxOcrChars:     12000,
		MaxHistoryTurns: 6,
		Timeout:         2 * time.Minute,
		Temperature:     0.1,
		TopP:            0.9,
	}
}
