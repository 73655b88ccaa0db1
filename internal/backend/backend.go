// Package backend loads a language model once at process startup and exposes
// it as a completion and tokenizing runtime. Implementations are not safe for
// concurrent use; callers own the serialization.
package backend

import "context"

// DefaultRepeatPenalty is applied whenever a sampling config carries no
// explicit penalty. Suppresses looping output.
const DefaultRepeatPenalty = 1.1

// SamplingConfig controls one decoding run.
type SamplingConfig struct {
	// MaxLength caps the total sequence in tokens, prompt included. Backends
	// convert it into a completion budget against their own token count of
	// the prompt.
	MaxLength   int
	Temperature float32
	// TopK limits sampling to the k most likely tokens; 0 disables the filter.
	TopK int
	TopP float32
	// RepeatPenalty falls back to DefaultRepeatPenalty when zero.
	RepeatPenalty float32
	// Greedy disables sampling entirely and wins over TopK/TopP.
	Greedy bool
}

// effectiveTopK folds the greedy flag into the sampler's top-k.
func (sc SamplingConfig) effectiveTopK() int {
	if sc.Greedy {
		return 1
	}
	return sc.TopK
}

func (sc SamplingConfig) effectivePenalty() float32 {
	if sc.RepeatPenalty > 0 {
		return sc.RepeatPenalty
	}
	return DefaultRepeatPenalty
}

// Backend is a loaded model runtime. Not safe for concurrent use.
type Backend interface {
	// Complete continues prompt under sc and returns the raw model output
	// with the prompt echoed back in front of the completion.
	Complete(ctx context.Context, prompt string, sc SamplingConfig) (string, error)
	// CountTokens reports how many model tokens text occupies.
	CountTokens(ctx context.Context, text string) (int, error)
	// Name identifies the backend kind for status reporting.
	Name() string
	// Close frees model resources; the backend is unusable afterwards.
	Close() error
}

// completionBudget converts a total-sequence cap into a completion token
// budget. At least one token is always requested so the model can answer.
func completionBudget(maxLength, promptTokens int) int {
	if n := maxLength - promptTokens; n > 1 {
		return n
	}
	return 1
}

// unavailableError signals a missing or unreachable model runtime so startup
// can fail fast and readiness checks can report 503.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates a missing/unreachable runtime.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}
