package edit

import (
	"fmt"

	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/pkg/coordinator"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/store"
)

// Coordinator presents the editor. It has no route of its own.
type Coordinator struct {
	*coordinator.Base[State, Action]
}

var _ coordinator.Presentable = (*Coordinator)(nil)

// NewCoordinator creates the editor coordinator.
func NewCoordinator(s *store.Store[State, nav.Action[Action]], opts ...coordinator.Option) *Coordinator {
	return &Coordinator{Base: coordinator.New(s, opts...)}
}

// PresentOnto shows the editor modally above stack.
func (c *Coordinator) PresentOnto(stack ports.ScreenStack, animated bool) {
	c.Present(stack, &ports.Screen{Title: "Edit", Owner: c, View: c.view}, animated)
}

func (c *Coordinator) view() string {
	return fmt.Sprintf("Color name: %s", c.State().Name)
}

// Buttons lists the editor's controls.
func (c *Coordinator) Buttons() []demo.Button {
	return []demo.Button{
		{Name: "name", Usage: "<name>  rename the color", Press: demo.RequireArg("name", func(name string) {
			c.Send(Change(name))
		})},
		demo.Tap("closeAll", "close every screen", func() { c.Send(Action{Kind: CloseAllTapped}) }),
		demo.Tap("toList", "close back to reservations", func() { c.Send(Action{Kind: CloseToReservationsTapped}) }),
	}
}
