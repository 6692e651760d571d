package store

import (
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/reducer"
)

// Optional follows a projection that may be absent and hands out one child
// store per interval of presence.
type Optional[C, CA any] struct {
	core      *core
	probe     func() (C, bool)
	send      func(CA)
	namespace string

	present  bool
	interval uint64
	last     *C
	child    *Store[C, CA]
}

// ScopeOptional tracks path within s. Call Update after every state change.
func ScopeOptional[S, A, C, CA any](s *Store[S, A], path reducer.OptionalPath[S, C], action func(CA) A) *Optional[C, CA] {
	get, send := s.get, s.send
	return &Optional[C, CA]{
		core:      s.core,
		probe:     func() (C, bool) { return path.Get(get()) },
		send:      func(ca CA) { send(action(ca)) },
		namespace: effect.JoinScope(s.namespace, path.Key),
	}
}

// Update re-evaluates the projection.
//
// appeared is true exactly once per presence interval, together with a fresh
// child store. disappeared is true on the transition back to absent, together
// with the store that was handed out. A child store never reports absent
// state: once its interval ends it keeps returning the last present value.
func (o *Optional[C, CA]) Update() (child *Store[C, CA], appeared, disappeared bool) {
	value, ok := o.probe()
	switch {
	case ok && !o.present:
		o.present = true
		o.interval++
		o.child = o.materialize(value)
		return o.child, true, false
	case ok:
		*o.last = value
		return o.child, false, false
	case o.present:
		o.present = false
		gone := o.child
		o.child = nil
		return gone, false, true
	}
	return nil, false, false
}

// Present reports whether the projection was present at the last Update.
func (o *Optional[C, CA]) Present() bool {
	return o.present
}

func (o *Optional[C, CA]) materialize(initial C) *Store[C, CA] {
	last, interval := &initial, o.interval
	o.last = last
	return &Store[C, CA]{
		core: o.core,
		get: func() C {
			if o.present && o.interval == interval {
				if value, ok := o.probe(); ok {
					*last = value
				}
			}
			return *last
		},
		send:      o.send,
		namespace: o.namespace,
	}
}

// IfLet calls then with a child store whenever path becomes present, and
// otherwise when it becomes absent again. otherwise is not called when the
// path starts out absent. then runs for the current state before IfLet returns.
func IfLet[S, A, C, CA any](
	s *Store[S, A],
	path reducer.OptionalPath[S, C],
	action func(CA) A,
	then func(*Store[C, CA]),
	otherwise func(),
) (cancel func()) {
	opt := ScopeOptional(s, path, action)
	check := func() {
		child, appeared, disappeared := opt.Update()
		switch {
		case disappeared:
			if otherwise != nil {
				otherwise()
			}
		case appeared:
			then(child)
		}
	}
	cancel = s.core.subscribe(check)
	check()
	return cancel
}
