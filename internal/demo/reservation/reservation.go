// Package reservation is one row of the reservations list.
package reservation

import (
	"time"

	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/identified"
)

// RefreshID identifies a row's refresh timer. The list namespaces it per row.
var RefreshID = effect.NewID("refresh")

// State is one reservation row.
type State struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	IsLiked    bool   `json:"isLiked"`
	Refreshing bool   `json:"refreshing"`
	Refreshes  int    `json:"refreshes"`
}

// Identity keys the row in the list.
func (s State) Identity() string { return s.ID }

// Kind names a row action.
type Kind string

const (
	LikeTapped        Kind = "likeTapped"
	PushTapped        Kind = "pushTapped"
	PresentTapped     Kind = "presentTapped"
	RefreshTapped     Kind = "refreshTapped"
	RefreshTicked     Kind = "refreshTicked"
	StopRefreshTapped Kind = "stopRefreshTapped"
)

// Action is a row action.
type Action struct {
	Kind Kind `json:"kind"`
}

// Defaults is the list every session starts with.
func Defaults() identified.Array[string, State] {
	return identified.Of[string](
		State{ID: "color-1", Name: "Blue", Color: "blue"},
		State{ID: "color-2", Name: "Green", Color: "green"},
		State{ID: "color-3", Name: "Red", Color: "red"},
		State{ID: "color-4", Name: "Yellow", Color: "yellow"},
		State{ID: "color-5", Name: "Purple", Color: "purple"},
		State{ID: "color-6", Name: "Orange", Color: "orange"},
		State{ID: "color-7", Name: "Pink", Color: "pink"},
	)
}

// Reducer runs one row. Push and present are navigation, handled by the list.
func Reducer(state *State, a Action, env demo.Environment) effect.Effect[Action] {
	switch a.Kind {
	case LikeTapped:
		state.IsLiked = !state.IsLiked
	case RefreshTapped:
		state.Refreshing = true
		return effect.Timer(RefreshID, env.Tick, func(time.Time) Action {
			return Action{Kind: RefreshTicked}
		})
	case RefreshTicked:
		state.Refreshes++
	case StopRefreshTapped:
		state.Refreshing = false
		return effect.Cancel[Action](RefreshID)
	}
	return effect.None[Action]()
}
