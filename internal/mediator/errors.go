package mediator

import "errors"

// Failure summaries surfaced to RPC callers. Callers disambiguate on these
// strings, so they are fixed.
const (
	msgInvalidGeneration     = "Invalid generation request"
	msgInvalidClassification = "Invalid classification request"
	msgGenerateFailed        = "Failed to generate text"
	msgClassifyFailed        = "Failed to classify text"
	msgBusy                  = "Model busy"
)

// ModelError is the single error type surfaced to RPC callers for any
// failure in this core. Message is a short summary, Details the underlying
// cause text. Each occurrence is terminal for that request; no retry state.
type ModelError struct {
	Message string
	Details string
}

func (e *ModelError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}

// AsModelError extracts a *ModelError from err when one is present in its
// chain.
func AsModelError(err error) (*ModelError, bool) {
	var me *ModelError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// busyError signals that the inference slot could not be acquired, either
// within the wait bound or because the mediator is shutting down.
type busyError struct{ msg string }

func (e busyError) Error() string { return e.msg }

// IsBusy reports whether err indicates inference-slot backpressure.
func IsBusy(err error) bool {
	_, ok := err.(busyError)
	return ok
}

// slotError maps an admission failure onto the wire error type. opMsg is the
// operation's failure summary, used when the caller's context gave up first.
func slotError(opMsg string, err error) *ModelError {
	if IsBusy(err) {
		return &ModelError{Message: msgBusy, Details: err.Error()}
	}
	return &ModelError{Message: opMsg, Details: err.Error()}
}
