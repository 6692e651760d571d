package wayfinder_test

import (
	"fmt"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/demo/myjet"
	"github.com/aretw0/wayfinder/internal/demo/reservation"
	"github.com/aretw0/wayfinder/internal/demo/reservations"
	"github.com/aretw0/wayfinder/pkg/coordinator"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/store"
)

func myjetRoot(s *store.Store[myjet.State, nav.Action[myjet.Action]], opts ...coordinator.Option) wayfinder.Root {
	return myjet.NewCoordinator(s, opts...)
}

func ExampleNew() {
	app := wayfinder.New(myjet.State{}, myjet.Reducer, demo.NewEnvironment(0), myjetRoot,
		wayfinder.WithClock(effect.NewTestClock()))
	defer app.Close()

	app.Send(myjet.Action{Kind: myjet.PushTapped})
	app.Send(myjet.EmbedPushed(nav.Child(reservations.RowAction("color-3",
		reservation.Action{Kind: reservation.PushTapped}))))
	fmt.Println(app.Stack())
	fmt.Println(app.Effects())

	// The user swipes back from the detail screen.
	_ = app.Navigator().InteractivePop()
	fmt.Println(app.Stack())
	fmt.Println(app.Effects())
	// Output:
	// [[MyJet Reservations Detail]]
	// [route.pushedReservations/route.pushedDetail/timer]
	// [[MyJet Reservations]]
	// []
}

func ExampleNew_deeplink() {
	app := wayfinder.New(myjet.Deeplink(), myjet.Reducer, demo.NewEnvironment(0), myjetRoot,
		wayfinder.WithClock(effect.NewTestClock()))
	defer app.Close()

	for _, c := range app.Coordinators() {
		fmt.Println(c.Name, c.Phase)
	}
	fmt.Println(app.Stack())
	// Output:
	// myjet active
	// route.presentedReservations active
	// route.presentedReservations/route.presentedDetail active
	// [[MyJet] [Reservations] [Detail]]
}
