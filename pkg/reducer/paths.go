package reducer

import "github.com/aretw0/wayfinder/pkg/effect"

// Case selects one variant of a sum type. Extract fails for other variants.
type Case[Root, Value any] struct {
	Extract func(Root) (Value, bool)
	Embed   func(Value) Root
}

// OptionalPath addresses a value that may be absent, such as one case of a route.
// Key names the path when it is used as an effect or store namespace segment.
type OptionalPath[S, C any] struct {
	Key string
	Get func(S) (C, bool)
	Set func(*S, C)
}

// Field addresses a value that is always present.
type Field[S, C any] struct {
	Key string
	Get func(S) C
	Set func(*S, C)
}

// Optional views the field as a path that is never absent.
func (f Field[S, C]) Optional() OptionalPath[S, C] {
	get := f.Get
	return OptionalPath[S, C]{
		Key: f.Key,
		Get: func(s S) (C, bool) { return get(s), true },
		Set: f.Set,
	}
}

// Then focuses further into an optional value.
func Then[S, C, D any](outer OptionalPath[S, C], inner OptionalPath[C, D]) OptionalPath[S, D] {
	return OptionalPath[S, D]{
		Key: effect.JoinScope(outer.Key, inner.Key),
		Get: func(s S) (D, bool) {
			c, ok := outer.Get(s)
			if !ok {
				var zero D
				return zero, false
			}
			return inner.Get(c)
		},
		Set: func(s *S, d D) {
			c, ok := outer.Get(*s)
			if !ok {
				return
			}
			inner.Set(&c, d)
			outer.Set(s, c)
		},
	}
}

// Identity is the case that matches every value.
func Identity[A any]() Case[A, A] {
	return Case[A, A]{
		Extract: func(a A) (A, bool) { return a, true },
		Embed:   func(a A) A { return a },
	}
}

// Pointer addresses an optional value stored behind a pointer field, the
// usual shape of one route case. Set stores a copy.
func Pointer[S, C any](key string, get func(S) *C, set func(*S, *C)) OptionalPath[S, C] {
	return OptionalPath[S, C]{
		Key: key,
		Get: func(s S) (C, bool) {
			p := get(s)
			if p == nil {
				var zero C
				return zero, false
			}
			return *p, true
		},
		Set: func(s *S, c C) { set(s, &c) },
	}
}
