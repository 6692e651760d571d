package ports

import (
	"github.com/google/uuid"
)

// ScreenID is the non-owning handle a coordinator keeps to its screen.
type ScreenID string

// NewScreenID returns a unique handle for a screen titled title.
func NewScreenID(title string) ScreenID {
	return ScreenID(title + "-" + uuid.NewString()[:8])
}

// RemovalReason tells a screen's owner why it left the stack.
type RemovalReason int

const (
	// RemovedProgrammatically: PopTo or Dismiss was called.
	RemovedProgrammatically RemovalReason = iota
	// RemovedInteractively: the user swiped back, tapped back or pulled a modal down.
	RemovedInteractively
)

func (r RemovalReason) String() string {
	if r == RemovedInteractively {
		return "interactive"
	}
	return "programmatic"
}

// Screen is a screen object handed to the stack. The stack owns it, and
// through Owner keeps the coordinator that built it alive while it is on stack.
type Screen struct {
	ID    ScreenID
	Title string
	Owner any

	// View renders the screen for text hosts.
	View func() string
	// OnAppear is called once the screen is on stack.
	OnAppear func()
	// OnRemoved is called once when the screen leaves the stack.
	OnRemoved func(RemovalReason)
}

// ScreenStack drives a host navigation container.
//
// When several screens leave together, OnRemoved runs for the one closest to
// the root first.
type ScreenStack interface {
	// Push places screen on top of this container.
	Push(screen *Screen, animated bool)
	// Present shows a modal container above this one with screen as its root
	// and returns the new container.
	Present(screen *Screen, animated bool) ScreenStack
	// PopTo removes every screen above id in this container and reports
	// whether any screen was removed. Unknown ids are ignored.
	PopTo(id ScreenID, animated bool) bool
	// Dismiss removes every modal container presented from this one.
	Dismiss(animated bool)
	// IsPresenting reports whether a modal container is presented from this one.
	IsPresenting() bool
}
