// Package nav defines the action envelope a coordinator's store speaks.
//
// Every navigated screen's actions reach its parent either as one of the
// screen's own actions or as one of the two ways its presence can end.
package nav

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/reducer"
)

// Kind discriminates the envelope.
type Kind string

const (
	KindChild            Kind = "child"
	KindInteractiveClose Kind = "interactiveClose"
	KindSystemClose      Kind = "systemClose"
)

// Action wraps a screen action or a close notification.
type Action[A any] struct {
	Kind  Kind
	Child A
}

// Child wraps a screen action.
func Child[A any](a A) Action[A] {
	return Action[A]{Kind: KindChild, Child: a}
}

// InteractiveClose reports that the user removed the screen.
func InteractiveClose[A any]() Action[A] {
	return Action[A]{Kind: KindInteractiveClose}
}

// SystemClose reports that the host removed the screen without a route change.
func SystemClose[A any]() Action[A] {
	return Action[A]{Kind: KindSystemClose}
}

// IsClose reports whether the envelope ends the screen's presence.
func (a Action[A]) IsClose() bool {
	return a.Kind == KindInteractiveClose || a.Kind == KindSystemClose
}

// Unwrap returns the screen action.
func (a Action[A]) Unwrap() (A, bool) {
	return a.Child, a.Kind == KindChild
}

func (a Action[A]) String() string {
	if a.Kind == KindChild {
		return fmt.Sprintf("%v", a.Child)
	}
	return string(a.Kind)
}

type wire[A any] struct {
	Kind  Kind `json:"kind"`
	Child *A   `json:"child,omitempty"`
}

func (a Action[A]) MarshalJSON() ([]byte, error) {
	w := wire[A]{Kind: a.Kind}
	if a.Kind == KindChild {
		w.Child = &a.Child
	}
	return json.Marshal(w)
}

func (a *Action[A]) UnmarshalJSON(data []byte) error {
	var w wire[A]
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case KindChild:
		if w.Child == nil {
			return fmt.Errorf("nav action: missing child")
		}
		*a = Child(*w.Child)
	case KindInteractiveClose, KindSystemClose:
		*a = Action[A]{Kind: w.Kind}
	default:
		return fmt.Errorf("nav action: unknown kind %q", w.Kind)
	}
	return nil
}

// ChildCase selects screen actions out of the envelope.
func ChildCase[A any]() reducer.Case[Action[A], A] {
	return reducer.Case[Action[A], A]{
		Extract: func(a Action[A]) (A, bool) { return a.Unwrap() },
		Embed:   Child[A],
	}
}

// Embedded builds the case for a parent action variant that carries a child
// envelope. The resulting case extracts only screen actions; closes are left
// for the parent's own reducer.
func Embedded[P, A any](extract func(P) (Action[A], bool), embed func(Action[A]) P) reducer.Case[P, A] {
	return reducer.Case[P, A]{
		Extract: func(p P) (A, bool) {
			n, ok := extract(p)
			if !ok {
				var zero A
				return zero, false
			}
			return n.Unwrap()
		},
		Embed: func(a A) P { return embed(Child(a)) },
	}
}

// Field is Embedded for an envelope held in a pointer field of the parent action.
func Field[P, A any](get func(P) *Action[A], embed func(Action[A]) P) reducer.Case[P, A] {
	return Embedded(func(p P) (Action[A], bool) {
		if n := get(p); n != nil {
			return *n, true
		}
		return Action[A]{}, false
	}, embed)
}

// Lift adapts a screen reducer to a store that speaks envelopes. Close
// notifications reaching the root have no parent to clear a route and are ignored.
func Lift[S, A, E any](r reducer.Reducer[S, A, E]) reducer.Reducer[S, Action[A], E] {
	return func(state *S, a Action[A], env E) effect.Effect[Action[A]] {
		child, ok := a.Unwrap()
		if !ok {
			return effect.None[Action[A]]()
		}
		return effect.Map(r(state, child, env), Child[A])
	}
}
