package domain

import "errors"

// ErrSnapshotNotFound is returned when a session has no saved snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrUnknownAction is returned when an action name cannot be decoded.
var ErrUnknownAction = errors.New("unknown action")

// ErrNoRoot is returned when an operation needs a mounted root screen.
var ErrNoRoot = errors.New("no root screen mounted")

// ErrNoSession is returned when an operation needs a session store.
var ErrNoSession = errors.New("no session configured")
