// Package detail shows one reservation, counts how long it has been open and
// presents the name editor.
package detail

import (
	"time"

	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/demo/edit"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/reducer"
)

// TimerID identifies the open-duration timer.
var TimerID = effect.NewID("timer")

// Route is the screen navigated from detail, if any.
type Route struct {
	Edit *edit.State `json:"edit,omitempty"`
}

// State is the detail screen.
type State struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color"`
	IsLiked        bool   `json:"isLiked"`
	OpenedDuration int    `json:"openedDuration"`
	Route          Route  `json:"route"`
}

// Kind names a detail action.
type Kind string

const (
	CloseTapped    Kind = "closeTapped"
	CloseAllTapped Kind = "closeAllTapped"
	LikeTapped     Kind = "likeTapped"
	Appeared       Kind = "appeared"
	TimerTicked    Kind = "timerTicked"
	EditTapped     Kind = "editTapped"
)

// Action is a detail action: one of its own kinds, or an editor envelope.
type Action struct {
	Kind Kind                     `json:"kind,omitempty"`
	Edit *nav.Action[edit.Action] `json:"edit,omitempty"`
}

// EmbedEdit wraps an editor envelope.
func EmbedEdit(n nav.Action[edit.Action]) Action { return Action{Edit: &n} }

// EditPath focuses the editor route.
var EditPath = reducer.Pointer("route.edit",
	func(s State) *edit.State { return s.Route.Edit },
	func(s *State, e *edit.State) { s.Route.Edit = e },
)

var editCase = nav.Field(func(a Action) *nav.Action[edit.Action] { return a.Edit }, EmbedEdit)

// Reducer runs the editor first so closing it can read its final draft.
var Reducer = reducer.Combine(
	reducer.Pullback(edit.Reducer, EditPath, editCase, demo.Same),
	core,
)

func core(state *State, a Action, env demo.Environment) effect.Effect[Action] {
	if a.Edit != nil {
		if a.Edit.IsClose() {
			// The sheet went away: keep the draft name.
			if draft := state.Route.Edit; draft != nil {
				state.Name = draft.Name
			}
			state.Route = Route{}
		}
		return effect.None[Action]()
	}

	switch a.Kind {
	case Appeared:
		return effect.Timer(TimerID, env.Tick, func(time.Time) Action {
			return Action{Kind: TimerTicked}
		})
	case TimerTicked:
		state.OpenedDuration++
	case LikeTapped:
		state.IsLiked = !state.IsLiked
	case EditTapped:
		draft := edit.New(state.Name)
		state.Route = Route{Edit: &draft}
	}
	return effect.None[Action]()
}

// WantsClose reports whether a asks the parent to close this screen.
func WantsClose(a Action) bool {
	if a.Kind == CloseTapped {
		return true
	}
	return editWants(a, edit.CloseToReservationsTapped)
}

// WantsCloseAll reports whether a asks for every screen above the root to close.
func WantsCloseAll(a Action) bool {
	if a.Kind == CloseAllTapped {
		return true
	}
	return editWants(a, edit.CloseAllTapped)
}

func editWants(a Action, kind edit.Kind) bool {
	if a.Edit == nil {
		return false
	}
	child, ok := a.Edit.Unwrap()
	return ok && child.Kind == kind
}
