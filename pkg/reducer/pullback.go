package reducer

import (
	"fmt"
	"net/url"

	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/identified"
)

// Pullback embeds a child reducer into a parent through an optional path.
//
// When the action is not a child action, or the path is absent, the parent
// state is left untouched and no effects are produced. Child effects are
// lifted with action.Embed and namespaced under path.Key.
func Pullback[S, A, E, C, CA, CE any](
	child Reducer[C, CA, CE],
	path OptionalPath[S, C],
	action Case[A, CA],
	env func(E) CE,
) Reducer[S, A, E] {
	return func(state *S, a A, e E) effect.Effect[A] {
		ca, ok := action.Extract(a)
		if !ok {
			return effect.None[A]()
		}
		cs, ok := path.Get(*state)
		if !ok {
			return effect.None[A]()
		}
		eff := child(&cs, ca, env(e))
		path.Set(state, cs)
		return effect.Scoped(effect.Map(eff, action.Embed), path.Key)
	}
}

// PullbackField embeds a child reducer whose state is always present.
func PullbackField[S, A, E, C, CA, CE any](
	child Reducer[C, CA, CE],
	field Field[S, C],
	action Case[A, CA],
	env func(E) CE,
) Reducer[S, A, E] {
	return Pullback(child, field.Optional(), action, env)
}

// Keyed addresses an action to one element of a collection.
type Keyed[K comparable, A any] struct {
	Key    K `json:"key"`
	Action A `json:"action"`
}

// ElementScope is the effect namespace of the element with key under field.
// The key is path-escaped so that it is always a single segment.
func ElementScope[K comparable](field string, key K) string {
	return effect.JoinScope(field, url.PathEscape(fmt.Sprint(key)))
}

// ForEach runs child against the element addressed by a Keyed action.
//
// Missing keys are ignored: the element was removed before the action
// arrived. Effects are namespaced per element and always map back to the
// key that produced them.
func ForEach[S, A, E any, K comparable, C identified.Identifiable[K], CA, CE any](
	child Reducer[C, CA, CE],
	elements Field[S, identified.Array[K, C]],
	action Case[A, Keyed[K, CA]],
	env func(E) CE,
) Reducer[S, A, E] {
	return func(state *S, a A, e E) effect.Effect[A] {
		ka, ok := action.Extract(a)
		if !ok {
			return effect.None[A]()
		}
		var eff effect.Effect[CA]
		next, ok := elements.Get(*state).Update(ka.Key, func(c *C) {
			eff = child(c, ka.Action, env(e))
		})
		if !ok {
			return effect.None[A]()
		}
		elements.Set(state, next)

		key := ka.Key
		lifted := effect.Map(eff, func(ca CA) A {
			return action.Embed(Keyed[K, CA]{Key: key, Action: ca})
		})
		return effect.Scoped(lifted, ElementScope(elements.Key, key))
	}
}
