// Package edit is the name editor presented from a detail screen.
package edit

import (
	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/google/uuid"
)

// State is the editor's draft.
type State struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// New starts a draft of name.
func New(name string) State {
	return State{ID: uuid.NewString(), Name: name}
}

// Kind names an editor action.
type Kind string

const (
	Changed                   Kind = "changed"
	CloseAllTapped            Kind = "closeAllTapped"
	CloseToReservationsTapped Kind = "closeToReservationsTapped"
)

// Action is an editor action. Name is set for Changed.
type Action struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name,omitempty"`
}

// Change replaces the draft name.
func Change(name string) Action {
	return Action{Kind: Changed, Name: name}
}

// Reducer edits the draft. Both close buttons are handled by ancestors.
func Reducer(state *State, a Action, _ demo.Environment) effect.Effect[Action] {
	if a.Kind == Changed {
		state.Name = a.Name
	}
	return effect.None[Action]()
}
