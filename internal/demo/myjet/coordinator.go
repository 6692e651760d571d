package myjet

import (
	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/demo/reservations"
	"github.com/aretw0/wayfinder/pkg/coordinator"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/store"
)

// Name is the root coordinator's name.
const Name = "myjet"

// Coordinator is the root of the coordinator tree.
type Coordinator struct {
	*coordinator.Base[State, Action]
}

var _ coordinator.Pushable = (*Coordinator)(nil)

// NewCoordinator creates the root coordinator. It is named Name unless opts
// say otherwise.
func NewCoordinator(s *store.Store[State, nav.Action[Action]], opts ...coordinator.Option) *Coordinator {
	opts = append([]coordinator.Option{coordinator.WithName(Name)}, opts...)
	c := &Coordinator{Base: coordinator.New(s, opts...)}
	coordinator.BindPushed(c.Base, PushedPath, EmbedPushed,
		func(rs *store.Store[reservations.State, nav.Action[reservations.Action]]) coordinator.Pushable {
			return reservations.NewCoordinator(rs, c.ChildOptions()...)
		})
	coordinator.BindPresented(c.Base, PresentedPath, EmbedPresented,
		func(rs *store.Store[reservations.State, nav.Action[reservations.Action]]) coordinator.Presentable {
			return reservations.NewCoordinator(rs, c.ChildOptions()...)
		})
	return c
}

// Start shows the root screen as the first screen of stack.
func (c *Coordinator) Start(stack ports.ScreenStack) {
	c.PushOnto(stack, false)
}

// PushOnto pushes the root screen.
func (c *Coordinator) PushOnto(stack ports.ScreenStack, animated bool) {
	c.Push(stack, &ports.Screen{
		Title: "MyJet",
		Owner: c,
		View:  func() string { return "Push, present or deeplink into the reservations." },
	}, animated)
}

// Buttons lists the root controls.
func (c *Coordinator) Buttons() []demo.Button {
	send := func(k Kind) func() { return func() { c.Send(Action{Kind: k}) } }
	return []demo.Button{
		demo.Tap("push", "push the reservations", send(PushTapped)),
		demo.Tap("present", "present the reservations", send(PresentTapped)),
		demo.Tap("deeplink", "jump to the first reservation", send(DeeplinkTapped)),
	}
}
