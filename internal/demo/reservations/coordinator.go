package reservations

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/demo/detail"
	"github.com/aretw0/wayfinder/internal/demo/reservation"
	"github.com/aretw0/wayfinder/pkg/coordinator"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/store"
)

// Coordinator shows the list and opens the detail screen of a row.
type Coordinator struct {
	*coordinator.Base[State, Action]
}

var (
	_ coordinator.Pushable    = (*Coordinator)(nil)
	_ coordinator.Presentable = (*Coordinator)(nil)
)

// NewCoordinator creates the list coordinator.
func NewCoordinator(s *store.Store[State, nav.Action[Action]], opts ...coordinator.Option) *Coordinator {
	c := &Coordinator{Base: coordinator.New(s, opts...)}
	coordinator.BindPushed(c.Base, PushedDetailPath, EmbedPushedDetail,
		func(ds *store.Store[detail.State, nav.Action[detail.Action]]) coordinator.Pushable {
			return detail.NewCoordinator(ds, c.ChildOptions()...)
		})
	coordinator.BindPresented(c.Base, PresentedDetailPath, EmbedPresentedDetail,
		func(ds *store.Store[detail.State, nav.Action[detail.Action]]) coordinator.Presentable {
			return detail.NewCoordinator(ds, c.ChildOptions()...)
		})
	return c
}

// PushOnto pushes the list.
func (c *Coordinator) PushOnto(stack ports.ScreenStack, animated bool) {
	c.Push(stack, c.screen(), animated)
}

// PresentOnto presents the list in its own container.
func (c *Coordinator) PresentOnto(stack ports.ScreenStack, animated bool) {
	c.Present(stack, c.screen(), animated)
}

func (c *Coordinator) screen() *ports.Screen {
	return &ports.Screen{Title: "Reservations", Owner: c, View: c.view}
}

func (c *Coordinator) view() string {
	var sb strings.Builder
	for _, row := range c.State().Rows.Items() {
		liked := " "
		if row.IsLiked {
			liked = "♥"
		}
		refresh := ""
		if row.Refreshing {
			refresh = fmt.Sprintf("  refreshing (%d)", row.Refreshes)
		}
		fmt.Fprintf(&sb, "%s %-8s %s%s\n", liked, row.ID, row.Name, refresh)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Buttons lists the list controls. Row buttons take the row id.
func (c *Coordinator) Buttons() []demo.Button {
	row := func(name, usage string, kind reservation.Kind) demo.Button {
		return demo.Button{Name: name, Usage: "<id>  " + usage, Press: demo.RequireArg("row id", func(id string) {
			c.Send(RowAction(id, reservation.Action{Kind: kind}))
		})}
	}
	return []demo.Button{
		row("push", "push the row's detail", reservation.PushTapped),
		row("present", "present the row's detail", reservation.PresentTapped),
		row("like", "toggle like on the row", reservation.LikeTapped),
		row("refresh", "start refreshing the row", reservation.RefreshTapped),
		row("stop", "stop refreshing the row", reservation.StopRefreshTapped),
		{Name: "delete", Usage: "<id>  delete the row", Press: demo.RequireArg("row id", func(id string) {
			c.Send(DeleteRow(id))
		})},
		demo.Tap("close", "close the list", func() { c.Send(Action{Kind: CloseTapped}) }),
	}
}
