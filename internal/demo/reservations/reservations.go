// Package reservations lists reservation rows and opens a detail screen for
// one of them, pushed or presented.
package reservations

import (
	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/demo/detail"
	"github.com/aretw0/wayfinder/internal/demo/reservation"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/identified"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/reducer"
)

// Route is the screen navigated from the list, if any.
type Route struct {
	PushedDetail    *detail.State `json:"pushedDetail,omitempty"`
	PresentedDetail *detail.State `json:"presentedDetail,omitempty"`
}

// State is the list screen.
type State struct {
	Rows  identified.Array[string, reservation.State] `json:"rows"`
	Route Route                                        `json:"route"`
}

// New returns the list with the default rows.
func New() State {
	return State{Rows: reservation.Defaults()}
}

// Kind names a list action.
type Kind string

const (
	CloseTapped Kind = "closeTapped"
	RowDeleted  Kind = "rowDeleted"
)

// Action is a list action: one of its own kinds, a row action, or a detail envelope.
type Action struct {
	Kind            Kind                                       `json:"kind,omitempty"`
	ID              string                                     `json:"id,omitempty"`
	Row             *reducer.Keyed[string, reservation.Action] `json:"row,omitempty"`
	PushedDetail    *nav.Action[detail.Action]                 `json:"pushedDetail,omitempty"`
	PresentedDetail *nav.Action[detail.Action]                 `json:"presentedDetail,omitempty"`
}

// RowAction addresses a to the row with id.
func RowAction(id string, a reservation.Action) Action {
	return Action{Row: &reducer.Keyed[string, reservation.Action]{Key: id, Action: a}}
}

// DeleteRow removes the row with id and stops its effects.
func DeleteRow(id string) Action {
	return Action{Kind: RowDeleted, ID: id}
}

// EmbedPushedDetail wraps an envelope from the pushed detail screen.
func EmbedPushedDetail(n nav.Action[detail.Action]) Action { return Action{PushedDetail: &n} }

// EmbedPresentedDetail wraps an envelope from the presented detail screen.
func EmbedPresentedDetail(n nav.Action[detail.Action]) Action { return Action{PresentedDetail: &n} }

var (
	// PushedDetailPath focuses the pushed detail route.
	PushedDetailPath = reducer.Pointer("route.pushedDetail",
		func(s State) *detail.State { return s.Route.PushedDetail },
		func(s *State, d *detail.State) { s.Route.PushedDetail = d },
	)
	// PresentedDetailPath focuses the presented detail route.
	PresentedDetailPath = reducer.Pointer("route.presentedDetail",
		func(s State) *detail.State { return s.Route.PresentedDetail },
		func(s *State, d *detail.State) { s.Route.PresentedDetail = d },
	)
	// RowsField focuses the rows.
	RowsField = reducer.Field[State, identified.Array[string, reservation.State]]{
		Key: "rows",
		Get: func(s State) identified.Array[string, reservation.State] { return s.Rows },
		Set: func(s *State, rows identified.Array[string, reservation.State]) { s.Rows = rows },
	}

	pushedCase    = nav.Field(func(a Action) *nav.Action[detail.Action] { return a.PushedDetail }, EmbedPushedDetail)
	presentedCase = nav.Field(func(a Action) *nav.Action[detail.Action] { return a.PresentedDetail }, EmbedPresentedDetail)
	rowCase       = reducer.Case[Action, reducer.Keyed[string, reservation.Action]]{
		Extract: func(a Action) (reducer.Keyed[string, reservation.Action], bool) {
			if a.Row == nil {
				return reducer.Keyed[string, reservation.Action]{}, false
			}
			return *a.Row, true
		},
		Embed: func(k reducer.Keyed[string, reservation.Action]) Action { return Action{Row: &k} },
	}
)

// Reducer runs the detail screens and rows before the list's own navigation,
// so a detail can react to its closing action before the route is cleared.
var Reducer = reducer.Combine(
	reducer.Pullback(detail.Reducer, PushedDetailPath, pushedCase, demo.Same),
	reducer.Pullback(detail.Reducer, PresentedDetailPath, presentedCase, demo.Same),
	reducer.ForEach(reservation.Reducer, RowsField, rowCase, demo.Same),
	core,
)

func core(state *State, a Action, _ demo.Environment) effect.Effect[Action] {
	switch {
	case closes(a.PushedDetail):
		state.closeDetail(state.Route.PushedDetail)
	case closes(a.PresentedDetail):
		state.closeDetail(state.Route.PresentedDetail)
	case a.Row != nil:
		row, ok := state.Rows.Get(a.Row.Key)
		if !ok {
			break
		}
		opened := detail.FromRow(row.ID, row.Name, row.Color, row.IsLiked)
		switch a.Row.Action.Kind {
		case reservation.PushTapped:
			state.Route = Route{PushedDetail: &opened}
		case reservation.PresentTapped:
			state.Route = Route{PresentedDetail: &opened}
		}
	case a.Kind == RowDeleted:
		state.Rows = state.Rows.Remove(a.ID)
		return effect.CancelScope[Action](reducer.ElementScope(RowsField.Key, a.ID))
	}
	return effect.None[Action]()
}

// closeDetail writes what the detail screen changed back into its row and
// clears the route.
func (s *State) closeDetail(d *detail.State) {
	if d != nil {
		s.Rows, _ = s.Rows.Update(d.ID, func(row *reservation.State) {
			row.Name = d.Name
			row.IsLiked = d.IsLiked
		})
	}
	s.Route = Route{}
}

func closes(n *nav.Action[detail.Action]) bool {
	if n == nil {
		return false
	}
	if n.IsClose() {
		return true
	}
	child, ok := n.Unwrap()
	return ok && detail.WantsClose(child)
}

// WantsClose reports whether a asks the parent to close the list.
func WantsClose(a Action) bool {
	return a.Kind == CloseTapped
}

// WantsCloseAll reports whether a, from any screen above the list, asks for
// every screen to close.
func WantsCloseAll(a Action) bool {
	for _, n := range []*nav.Action[detail.Action]{a.PushedDetail, a.PresentedDetail} {
		if n == nil {
			continue
		}
		if child, ok := n.Unwrap(); ok && detail.WantsCloseAll(child) {
			return true
		}
	}
	return false
}
