package provider

import "fmt"

// FailureKind distinguishes a provider-side rejection from a transport
// failure; the former is actionable by the user, the latter is retryable.
type FailureKind string

const (
	FailureRejection FailureKind = "rejection"
	FailureTransport FailureKind = "transport"
)

// Error is the normalized error shape for all external provider calls. Raw
// provider response objects never cross into orchestrator logic.
type Error struct {
	Provider string
	Kind     FailureKind
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient reports whether the failure was a transport problem worth
// retrying rather than a provider decision.
func (e *Error) Transient() bool {
	return e.Kind == FailureTransport
}
