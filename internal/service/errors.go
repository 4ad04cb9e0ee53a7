package service

import "errors"

var (
	// ErrSessionBusy means a turn is already in flight for the session.
	// Turns are strictly sequential; the caller should retry after the
	// current turn completes.
	ErrSessionBusy = errors.New("session busy")

	// ErrSessionClosed means the session is no longer active.
	ErrSessionClosed = errors.New("session closed")

	// ErrNoCandidate means the session has no idea candidate yet.
	ErrNoCandidate = errors.New("no candidate")
)
