/*
Package wayfinder keeps an imperative screen stack in sync with a single
immutable state tree.

Screens are described by reducers composed with Pullback and ForEach. Which
screen is navigated to is part of state: a route field holding at most one
child screen's state. Coordinators watch their route through an optional
scoped store, push or present a child coordinator when the route appears and
tear the child down, leaves first, when it disappears. When the user removes a
screen interactively, the coordinator cleans up and reports the close so the
state catches up.

# Concept

	state.route = &detail  ->  coordinator pushes Detail
	user swipes back       ->  coordinator cleans up, sends InteractiveClose
	reducer clears route   ->  nothing left to do: cleanup already ran

Every effect a screen starts is namespaced by the path of its store, so a
coordinator that goes away cancels exactly the effects of its subtree.

# Usage

New wires a root store, a root coordinator and an in-memory navigator:

	app := wayfinder.New(myjet.State{}, myjet.Reducer, demo.NewEnvironment(0),
		func(s *store.Store[myjet.State, nav.Action[myjet.Action]], opts ...coordinator.Option) wayfinder.Root {
			return myjet.NewCoordinator(s, opts...)
		},
		wayfinder.WithLogger(logger),
	)
	defer app.Close()

	app.Send(myjet.Action{Kind: myjet.PushTapped})
	fmt.Println(app.Stack())

Open does the same over a session.Manager so the state can be saved and
resumed, including every screen navigated to.

# Packages

  - pkg/effect: effect values, the keyed runtime, clocks and schedulers.
  - pkg/reducer: reducer composition.
  - pkg/store: the root store and scoped stores, including optional scoping.
  - pkg/nav: the action envelope between a screen and its parent.
  - pkg/coordinator: the coordinator lifecycle and route bindings.
  - pkg/domain: lifecycle events, sentinel errors, snapshots and state diffs.
  - pkg/ports: the screen stack, snapshot store and locker interfaces.
  - pkg/adapters: screen stack and snapshot store adapters.
  - pkg/session: session locking and resumable snapshots.
  - pkg/persistence/middleware: masking and encryption for snapshot stores.
*/
package wayfinder
