package detail

import (
	"fmt"

	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/demo/edit"
	"github.com/aretw0/wayfinder/pkg/coordinator"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/store"
)

// Coordinator shows the detail screen, pushed or presented, and presents
// the editor. It owns the open-duration timer.
type Coordinator struct {
	*coordinator.Base[State, Action]
}

var (
	_ coordinator.Pushable    = (*Coordinator)(nil)
	_ coordinator.Presentable = (*Coordinator)(nil)
)

// NewCoordinator creates the detail coordinator.
func NewCoordinator(s *store.Store[State, nav.Action[Action]], opts ...coordinator.Option) *Coordinator {
	c := &Coordinator{Base: coordinator.New(s, opts...)}
	c.OwnEffects(TimerID)
	coordinator.BindPresented(c.Base, EditPath, EmbedEdit,
		func(es *store.Store[edit.State, nav.Action[edit.Action]]) coordinator.Presentable {
			return edit.NewCoordinator(es, c.ChildOptions()...)
		})
	return c
}

// PushOnto pushes the detail screen.
func (c *Coordinator) PushOnto(stack ports.ScreenStack, animated bool) {
	c.Push(stack, c.screen(), animated)
}

// PresentOnto presents the detail screen in its own container.
func (c *Coordinator) PresentOnto(stack ports.ScreenStack, animated bool) {
	c.Present(stack, c.screen(), animated)
}

func (c *Coordinator) screen() *ports.Screen {
	return &ports.Screen{
		Title:    "Detail",
		Owner:    c,
		View:     c.view,
		OnAppear: func() { c.Send(Action{Kind: Appeared}) },
	}
}

func (c *Coordinator) view() string {
	s := c.State()
	liked := " "
	if s.IsLiked {
		liked = "♥"
	}
	return fmt.Sprintf("%s %s (%s)  opened %ds", liked, s.Name, s.Color, s.OpenedDuration)
}

// Buttons lists the detail controls.
func (c *Coordinator) Buttons() []demo.Button {
	send := func(k Kind) func() { return func() { c.Send(Action{Kind: k}) } }
	return []demo.Button{
		demo.Tap("like", "toggle like", send(LikeTapped)),
		demo.Tap("edit", "edit the name", send(EditTapped)),
		demo.Tap("close", "close this screen", send(CloseTapped)),
		demo.Tap("closeAll", "close every screen", send(CloseAllTapped)),
	}
}

// FromRow is the state a detail screen opens with.
func FromRow(id, name, color string, liked bool) State {
	return State{ID: id, Name: name, Color: color, IsLiked: liked}
}
