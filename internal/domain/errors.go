package domain

import "errors"

var (
	// ErrSessionNotFound means a session identifier did not resolve in the store
	ErrSessionNotFound = errors.New("session not found")

	// ErrPatientNotFound means a patient identifier did not resolve in the roster
	ErrPatientNotFound = errors.New("patient not found")

	// ErrDuplicateID means an insert collided with an existing identifier
	ErrDuplicateID = errors.New("duplicate identifier")

	// ErrInvalidTransition means the requested status change is not allowed
	// from the session's current state
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput means a workflow input failed validation before any mutation
	ErrInvalidInput = errors.New("invalid input")

	// ErrGatewayUnavailable means the insight gateway call failed or no
	// credential is configured
	ErrGatewayUnavailable = errors.New("insight gateway unavailable")
)
