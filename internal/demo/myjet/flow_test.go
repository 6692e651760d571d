package myjet_test

import (
	"testing"
	"time"

	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/demo/detail"
	"github.com/aretw0/wayfinder/internal/demo/edit"
	"github.com/aretw0/wayfinder/internal/demo/myjet"
	"github.com/aretw0/wayfinder/internal/demo/reservation"
	"github.com/aretw0/wayfinder/internal/demo/reservations"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/coordinator"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type app struct {
	store   *store.Store[myjet.State, nav.Action[myjet.Action]]
	root    *myjet.Coordinator
	nav     *memory.Navigator
	clock   *effect.TestClock
	actions []myjet.Action
	cleaned []string
}

func newApp(t *testing.T, initial myjet.State) *app {
	t.Helper()
	a := &app{nav: memory.NewNavigator(), clock: effect.NewTestClock()}
	a.store = store.New(initial, nav.Lift(myjet.Reducer), demo.NewEnvironment(0),
		store.WithClock(a.clock),
		store.WithActionHook(func(action any) {
			if n, ok := action.(nav.Action[myjet.Action]); ok {
				if child, ok := n.Unwrap(); ok {
					a.actions = append(a.actions, child)
				}
			}
		}),
	)
	a.root = myjet.NewCoordinator(a.store, coordinator.WithLifecycleHooks(domain.LifecycleHooks{
		OnCoordinatorCleanup: func(e *domain.CoordinatorEvent) { a.cleaned = append(a.cleaned, e.Coordinator) },
	}))
	a.root.Start(a.nav.Root())
	return a
}

func childOf[T coordinator.Node](t *testing.T, parent coordinator.Node) T {
	t.Helper()
	child, ok := parent.Child().(T)
	require.True(t, ok, "%s has no child of the expected type", parent.Name())
	return child
}

// closes counts the close envelopes that reached the root, at any depth.
func (a *app) closes() int {
	n := 0
	for _, action := range a.actions {
		for _, list := range []*nav.Action[reservations.Action]{action.PushedReservations, action.PresentedReservations} {
			if list == nil {
				continue
			}
			if list.IsClose() {
				n++
				continue
			}
			la, _ := list.Unwrap()
			for _, d := range []*nav.Action[detail.Action]{la.PushedDetail, la.PresentedDetail} {
				if d == nil {
					continue
				}
				if d.IsClose() {
					n++
					continue
				}
				if da, _ := d.Unwrap(); da.Edit != nil && da.Edit.IsClose() {
					n++
				}
			}
		}
	}
	return n
}

func pushedDetailState() myjet.State {
	list := reservations.New()
	opened := detail.FromRow("color-1", "Blue", "blue", false)
	list.Route.PushedDetail = &opened
	return myjet.State{Route: myjet.Route{PushedReservations: &list}}
}

func TestFlow_SwipeBackFromDetail(t *testing.T) {
	a := newApp(t, myjet.State{})
	assert.Equal(t, []string{"MyJet"}, a.nav.Visible())

	a.root.Send(myjet.Action{Kind: myjet.PushTapped})
	list := childOf[*reservations.Coordinator](t, a.root)
	list.Send(reservations.RowAction("color-1", reservation.Action{Kind: reservation.PushTapped}))
	d := childOf[*detail.Coordinator](t, list)

	assert.Equal(t, []string{"MyJet", "Reservations", "Detail"}, a.nav.Visible())
	assert.Equal(t, []effect.ID{{Scope: "route.pushedReservations/route.pushedDetail", Key: detail.TimerID.Key}},
		a.store.Runtime().Running())

	a.clock.Advance(3 * time.Second)
	d.Send(detail.Action{Kind: detail.LikeTapped})
	assert.Equal(t, 3, a.store.State().Route.PushedReservations.Route.PushedDetail.OpenedDuration)

	require.NoError(t, a.nav.InteractivePop())

	listState := a.store.State().Route.PushedReservations
	require.NotNil(t, listState)
	assert.Nil(t, listState.Route.PushedDetail)
	first, _ := listState.Rows.Get("color-1")
	assert.True(t, first.IsLiked, "the closed detail is written back to its row")

	assert.Equal(t, coordinator.Disposed, d.Phase())
	assert.Nil(t, list.Child())
	assert.Equal(t, coordinator.Active, list.Phase())
	assert.Equal(t, []string{"route.pushedReservations/route.pushedDetail"}, a.cleaned, "the detail is cleaned once")
	assert.Equal(t, 1, a.closes())
	assert.Empty(t, a.store.Runtime().Running())

	delivered := len(a.actions)
	a.clock.Advance(5 * time.Second)
	assert.Len(t, a.actions, delivered, "no timer action arrives after the detail is gone")
}

func TestFlow_CloseAllStopsEveryEffect(t *testing.T) {
	tests := []struct {
		name    string
		trigger func(t *testing.T, d *detail.Coordinator)
		cleaned []string
	}{
		{
			name: "from detail",
			trigger: func(t *testing.T, d *detail.Coordinator) {
				d.Send(detail.Action{Kind: detail.CloseAllTapped})
			},
			cleaned: []string{
				"route.presentedReservations/route.presentedDetail",
				"route.presentedReservations",
			},
		},
		{
			name: "from edit",
			trigger: func(t *testing.T, d *detail.Coordinator) {
				d.Send(detail.Action{Kind: detail.EditTapped})
				e := childOf[*edit.Coordinator](t, d)
				e.Send(edit.Change("Navy"))
				e.Send(edit.Action{Kind: edit.CloseAllTapped})
			},
			cleaned: []string{
				"route.presentedReservations/route.presentedDetail/route.edit",
				"route.presentedReservations/route.presentedDetail",
				"route.presentedReservations",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newApp(t, myjet.State{})
			a.root.Send(myjet.Action{Kind: myjet.DeeplinkTapped})
			list := childOf[*reservations.Coordinator](t, a.root)
			d := childOf[*detail.Coordinator](t, list)
			require.Equal(t, [][]string{{"MyJet"}, {"Reservations"}, {"Detail"}}, a.nav.Levels())

			list.Send(reservations.RowAction("color-2", reservation.Action{Kind: reservation.RefreshTapped}))
			a.clock.Advance(2 * time.Second)
			require.Len(t, a.store.Runtime().Running(), 2)

			tt.trigger(t, d)

			assert.Equal(t, myjet.State{}, a.store.State())
			assert.Equal(t, [][]string{{"MyJet"}}, a.nav.Levels())
			assert.Equal(t, tt.cleaned, a.cleaned, "descendants are cleaned before their ancestors")
			assert.Equal(t, coordinator.Disposed, d.Phase())
			assert.Equal(t, coordinator.Disposed, list.Phase())
			assert.Nil(t, a.root.Child())
			assert.Empty(t, a.store.Runtime().Running())
			assert.Zero(t, a.closes())

			delivered := len(a.actions)
			a.clock.Advance(10 * time.Second)
			assert.Len(t, a.actions, delivered)
		})
	}
}

func TestFlow_InteractiveAndProgrammaticCloseConverge(t *testing.T) {
	programmatic := newApp(t, pushedDetailState())
	interactive := newApp(t, pushedDetailState())
	require.Equal(t, []string{"MyJet", "Reservations", "Detail"}, interactive.nav.Visible())

	var details []*detail.Coordinator
	for _, a := range []*app{programmatic, interactive} {
		list := childOf[*reservations.Coordinator](t, a.root)
		d := childOf[*detail.Coordinator](t, list)
		a.clock.Advance(2 * time.Second)
		d.Send(detail.Action{Kind: detail.LikeTapped})
		details = append(details, d)
	}

	details[0].Send(detail.Action{Kind: detail.CloseTapped})
	require.NoError(t, interactive.nav.InteractivePop())

	assert.Equal(t, programmatic.store.State(), interactive.store.State())
	assert.Nil(t, interactive.store.State().Route.PushedReservations.Route.PushedDetail)
	assert.Equal(t, programmatic.nav.Visible(), interactive.nav.Visible())
	assert.Equal(t, programmatic.cleaned, interactive.cleaned)
	for _, d := range details {
		assert.Equal(t, coordinator.Disposed, d.Phase())
	}
	assert.Empty(t, programmatic.store.Runtime().Running())
	assert.Empty(t, interactive.store.Runtime().Running())

	assert.Zero(t, programmatic.closes())
	assert.Equal(t, 1, interactive.closes(), "the removal is reported exactly once")
}

func TestFlow_RouteSwitchReplacesChild(t *testing.T) {
	a := newApp(t, myjet.State{})
	a.root.Send(myjet.Action{Kind: myjet.PushTapped})
	pushed := childOf[*reservations.Coordinator](t, a.root)

	a.root.Send(myjet.Action{Kind: myjet.DeeplinkTapped})

	assert.Equal(t, coordinator.Disposed, pushed.Phase())
	assert.Equal(t, [][]string{{"MyJet"}, {"Reservations"}, {"Detail"}}, a.nav.Levels())
	assert.Equal(t, "route.presentedReservations", a.root.Child().Name())
	assert.Equal(t, []coordinator.Info{
		{Name: myjet.Name, Phase: coordinator.Active.String()},
		{Name: "route.presentedReservations", Phase: coordinator.Active.String()},
		{Name: "route.presentedReservations/route.presentedDetail", Phase: coordinator.Active.String()},
	}, coordinator.Describe(a.root))
}

func TestFlow_ListCloseButton(t *testing.T) {
	a := newApp(t, myjet.State{})
	a.root.Send(myjet.Action{Kind: myjet.PresentTapped})
	list := childOf[*reservations.Coordinator](t, a.root)

	require.NoError(t, demo.Press(list, "close", ""))

	assert.Equal(t, myjet.State{}, a.store.State())
	assert.Equal(t, [][]string{{"MyJet"}}, a.nav.Levels())

	t.Run("unknown buttons fail", func(t *testing.T) {
		assert.ErrorIs(t, demo.Press(a.root, "nope", ""), domain.ErrUnknownAction)
		assert.Error(t, demo.Press(list, "push", ""), "row buttons need a row id")
	})
}
