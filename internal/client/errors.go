package client

import (
	"errors"
	"fmt"

	"github.com/AlexZinkM/otc-desk/internal/model"
)

// TransportError is a network or decoding failure. Retrying the triggering
// action is always safe.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: transport error (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RejectionError is a well-formed refusal from the backend. Code and Reason
// are surfaced to the user verbatim.
type RejectionError struct {
	Op         string
	StatusCode int
	Code       string
	Reason     string
	// Result is the full orchestration body when an orchestration was refused
	Result *model.OrchestrationResult
}

func (e *RejectionError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Reason)
	}
	return e.Reason
}

// IsTransportError checks if error is TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// AsRejection returns the RejectionError in err's chain, if any
func AsRejection(err error) (*RejectionError, bool) {
	var re *RejectionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
