// Package myjet is the root screen of the demo app. It pushes or presents
// the reservations list and closes everything when any screen above asks to.
package myjet

import (
	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/demo/detail"
	"github.com/aretw0/wayfinder/internal/demo/reservations"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/reducer"
)

// Route is the screen navigated from the root, if any.
type Route struct {
	PushedReservations    *reservations.State `json:"pushedReservations,omitempty"`
	PresentedReservations *reservations.State `json:"presentedReservations,omitempty"`
}

// State is the whole app.
type State struct {
	Route Route `json:"route"`
}

// Kind names a root action.
type Kind string

const (
	PushTapped     Kind = "pushTapped"
	PresentTapped  Kind = "presentTapped"
	DeeplinkTapped Kind = "deeplinkTapped"
)

// Action is a root action: one of its own kinds, or a list envelope.
type Action struct {
	Kind                  Kind                             `json:"kind,omitempty"`
	PushedReservations    *nav.Action[reservations.Action] `json:"pushedReservations,omitempty"`
	PresentedReservations *nav.Action[reservations.Action] `json:"presentedReservations,omitempty"`
}

// EmbedPushed wraps an envelope from the pushed list.
func EmbedPushed(n nav.Action[reservations.Action]) Action { return Action{PushedReservations: &n} }

// EmbedPresented wraps an envelope from the presented list.
func EmbedPresented(n nav.Action[reservations.Action]) Action {
	return Action{PresentedReservations: &n}
}

var (
	// PushedPath focuses the pushed list.
	PushedPath = reducer.Pointer("route.pushedReservations",
		func(s State) *reservations.State { return s.Route.PushedReservations },
		func(s *State, r *reservations.State) { s.Route.PushedReservations = r },
	)
	// PresentedPath focuses the presented list.
	PresentedPath = reducer.Pointer("route.presentedReservations",
		func(s State) *reservations.State { return s.Route.PresentedReservations },
		func(s *State, r *reservations.State) { s.Route.PresentedReservations = r },
	)

	pushedCase    = nav.Field(func(a Action) *nav.Action[reservations.Action] { return a.PushedReservations }, EmbedPushed)
	presentedCase = nav.Field(func(a Action) *nav.Action[reservations.Action] { return a.PresentedReservations }, EmbedPresented)
)

// Reducer runs the whole app.
var Reducer = reducer.Combine(
	reducer.Pullback(reservations.Reducer, PushedPath, pushedCase, demo.Same),
	reducer.Pullback(reservations.Reducer, PresentedPath, presentedCase, demo.Same),
	core,
)

// Deeplink is the state the deeplink button jumps to: the list presented
// with the first row's detail presented above it.
func Deeplink() State {
	list := reservations.New()
	blue := detail.FromRow("color-1", "Blue", "blue", false)
	list.Route = reservations.Route{PresentedDetail: &blue}
	return State{Route: Route{PresentedReservations: &list}}
}

func core(state *State, a Action, _ demo.Environment) effect.Effect[Action] {
	for _, n := range []*nav.Action[reservations.Action]{a.PushedReservations, a.PresentedReservations} {
		if n == nil {
			continue
		}
		if n.IsClose() {
			state.Route = Route{}
			break
		}
		if child, ok := n.Unwrap(); ok && (reservations.WantsClose(child) || reservations.WantsCloseAll(child)) {
			state.Route = Route{}
		}
	}

	switch a.Kind {
	case PushTapped:
		list := reservations.New()
		state.Route = Route{PushedReservations: &list}
	case PresentTapped:
		list := reservations.New()
		state.Route = Route{PresentedReservations: &list}
	case DeeplinkTapped:
		*state = Deeplink()
	}
	return effect.None[Action]()
}
