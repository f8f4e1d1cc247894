package providers

import (
	"context"
	"errors"
)

// ErrTextGenerationUnavailable marks failures of the external
// text-generation service; callers fall back rather than abort.
var ErrTextGenerationUnavailable = errors.New("text generation service unavailable")

// TextGenerationProvider defines the external AI text service. Output
// is raw, unstructured text and must be treated as untrusted by every
// caller.
type TextGenerationProvider interface {
	// Generate produces raw text for a prompt. May fail on network or
	// quota errors; the call is bounded by an explicit deadline.
	Generate(ctx context.Context, prompt string) (string, error)
}
