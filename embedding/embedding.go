// Package embedding converts text into fixed-length vectors through an
// external embedding service.
package embedding

import (
	"context"
	"fmt"
)

// MaxInputChars is the cap applied to embedding input. Longer text is
// truncated silently at the character boundary before submission.
const MaxInputChars = 8000

// Client converts text to a vector. One call issues one outbound request;
// retry policy, if any, belongs to the caller.
type Client interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelVersion identifies the embedding model. Vectors produced by
	// different versions are not comparable.
	ModelVersion() string
}

// ConfigError reports missing or invalid client configuration. It is
// fatal: nothing can proceed without a valid credential.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("embedding configuration: %s", e.Reason)
}

// ServiceError reports a failed call to the embedding provider. Status is
// the upstream HTTP status when one was received, 0 otherwise.
type ServiceError struct {
	Status  int
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("embedding service (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("embedding service: %s", e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Truncate caps text at MaxInputChars characters, never splitting a rune.
func Truncate(text string) string {
	if len(text) <= MaxInputChars {
		return text
	}
	runes := []rune(text)
	if len(runes) <= MaxInputChars {
		return text
	}
	return string(runes[:MaxInputChars])
}
