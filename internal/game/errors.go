package game

import "errors"

var (
	// ErrInsufficientTaxa reports that the store does not hold enough
	// distinct eligible taxa to fill a session's question list.
	ErrInsufficientTaxa = errors.New("not enough eligible taxa to build a session")
	// ErrInvalidSessionState reports an operation attempted in a session
	// state that does not permit it.
	ErrInvalidSessionState = errors.New("operation not valid in current session state")
	// ErrSessionNotFound reports a session id with no live session, either
	// never issued or already evicted.
	ErrSessionNotFound = errors.New("session not found")
)
