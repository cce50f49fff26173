package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionClosed is returned when a transition is attempted on a session
// whose status is already terminal.
var ErrSessionClosed = errors.New("session is no longer active")

// ErrNodeNotFound is returned when a node ID does not exist in the graph.
var ErrNodeNotFound = errors.New("node not found")
