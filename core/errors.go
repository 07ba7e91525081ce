package core

import "errors"

var (
	// ErrSessionNotFound is returned when a session id does not resolve to a
	// stored session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnknownGoal is returned when a goal has no curriculum cards for the
	// requested age band.
	ErrUnknownGoal = errors.New("unknown goal")

	// ErrUnknownAgeBand is returned when an age band does not map to a known
	// prompt-length policy.
	ErrUnknownAgeBand = errors.New("unknown age band")
)
