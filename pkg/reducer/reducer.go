// Package reducer composes state machines.
//
// A Reducer mutates its state in place and returns the effects to run once
// every composed reducer has finished. Child reducers are embedded into larger
// states with Pullback and ForEach; paths are plain getter/setter pairs.
package reducer

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/aretw0/wayfinder/pkg/effect"
)

// Reducer advances state in response to action.
type Reducer[S, A, E any] func(state *S, action A, env E) effect.Effect[A]

// Combine runs reducers in order. Later reducers see the mutations of earlier ones.
func Combine[S, A, E any](reducers ...Reducer[S, A, E]) Reducer[S, A, E] {
	return func(state *S, action A, env E) effect.Effect[A] {
		effects := make([]effect.Effect[A], 0, len(reducers))
		for _, r := range reducers {
			effects = append(effects, r(state, action, env))
		}
		return effect.Batch(effects...)
	}
}

// Debug logs every action and whether it changed the state.
func Debug[S, A, E any](r Reducer[S, A, E], logger *slog.Logger, name string) Reducer[S, A, E] {
	return func(state *S, action A, env E) effect.Effect[A] {
		before := *state
		eff := r(state, action, env)
		logger.Debug("reduced",
			"reducer", name,
			"action", fmt.Sprintf("%T", action),
			"changed", !reflect.DeepEqual(before, *state),
			"effects", !eff.IsNone(),
		)
		return eff
	}
}
