package coordinator

import (
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/reducer"
	"github.com/aretw0/wayfinder/pkg/store"
)

type binding interface {
	// update re-evaluates the route case. open is non-nil when the case just
	// became present; closed is true when it just became absent.
	update() (open func(), closed bool)
}

type routeBinding[C, CA any] struct {
	route *store.Optional[C, nav.Action[CA]]
	open  func(*store.Store[C, nav.Action[CA]])
}

func (rb *routeBinding[C, CA]) update() (func(), bool) {
	child, appeared, disappeared := rb.route.Update()
	if appeared {
		return func() { rb.open(child) }, false
	}
	return nil, disappeared
}

// BindPushed pushes the coordinator built by factory whenever path becomes
// present, and closes it when path is cleared. action embeds the child's
// envelope into the parent's actions. Bind before pushing or presenting parent.
func BindPushed[S, A, C, CA any](
	parent *Base[S, A],
	path reducer.OptionalPath[S, C],
	action func(nav.Action[CA]) A,
	factory func(*store.Store[C, nav.Action[CA]]) Pushable,
) {
	bind(parent, path, action, func(s *store.Store[C, nav.Action[CA]]) {
		child := factory(s)
		parent.child = child
		child.PushOnto(parent.stack, true)
	})
}

// BindPresented is BindPushed for children shown modally.
func BindPresented[S, A, C, CA any](
	parent *Base[S, A],
	path reducer.OptionalPath[S, C],
	action func(nav.Action[CA]) A,
	factory func(*store.Store[C, nav.Action[CA]]) Presentable,
) {
	bind(parent, path, action, func(s *store.Store[C, nav.Action[CA]]) {
		child := factory(s)
		parent.child = child
		child.PresentOnto(parent.stack, true)
	})
}

func bind[S, A, C, CA any](
	parent *Base[S, A],
	path reducer.OptionalPath[S, C],
	action func(nav.Action[CA]) A,
	open func(*store.Store[C, nav.Action[CA]]),
) {
	route := store.ScopeOptional(parent.store, path, func(ca nav.Action[CA]) nav.Action[A] {
		return nav.Child(action(ca))
	})
	parent.bindings = append(parent.bindings, &routeBinding[C, CA]{route: route, open: open})
}

// reconcile brings the child coordinator in line with the route. Closing
// runs before opening so a route that switches cases in one dispatch never
// has two children.
func (b *Base[S, A]) reconcile() {
	if b.cleaned.Load() {
		return
	}
	var opens []func()
	closing := false
	for _, rb := range b.bindings {
		open, closed := rb.update()
		if closed {
			closing = true
		}
		if open != nil {
			opens = append(opens, open)
		}
	}
	if closing {
		b.closeChild()
	}
	for _, open := range opens {
		if b.cleaned.Load() {
			return
		}
		open()
	}
}
