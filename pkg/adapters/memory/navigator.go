package memory

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/ports"
)

var (
	// ErrNothingToPop is returned when the top container only holds its root screen.
	ErrNothingToPop = errors.New("nothing to pop")
	// ErrNothingPresented is returned when no modal container is on screen.
	ErrNothingPresented = errors.New("nothing presented")
)

// OpKind names a recorded stack operation.
type OpKind string

const (
	OpPush               OpKind = "push"
	OpPresent            OpKind = "present"
	OpPop                OpKind = "pop"
	OpDismiss            OpKind = "dismiss"
	OpInteractivePop     OpKind = "interactivePop"
	OpInteractiveDismiss OpKind = "interactiveDismiss"
	OpHostPop            OpKind = "hostPop"
)

// Op is one operation applied to the navigator.
type Op struct {
	Kind     OpKind   `json:"kind"`
	Screens  []string `json:"screens"`
	Animated bool     `json:"animated"`
}

func (o Op) String() string {
	animated := ""
	if o.Animated {
		animated = " (animated)"
	}
	return fmt.Sprintf("%s %v%s", o.Kind, o.Screens, animated)
}

// Navigator is an in-memory host for ports.ScreenStack. It owns every screen
// on stack, and through Screen.Owner the coordinators that built them.
// Safe for concurrent use; callbacks run without the lock held.
type Navigator struct {
	mu     sync.Mutex
	root   *Container
	ops    []Op
	logger *slog.Logger
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithNavigatorLogger sets the logger used to report misuse.
func WithNavigatorLogger(logger *slog.Logger) NavigatorOption {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// NewNavigator creates a navigator with an empty root container.
func NewNavigator(opts ...NavigatorOption) *Navigator {
	n := &Navigator{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(n)
	}
	n.root = &Container{nav: n, attached: true}
	return n
}

// Container is one navigation container: a stack of pushed screens and at
// most one modal container presented from it.
type Container struct {
	nav       *Navigator
	screens   []*ports.Screen
	presented *Container
	presenter *Container
	attached  bool
}

var _ ports.ScreenStack = (*Container)(nil)

// Root is the window's root container.
func (n *Navigator) Root() *Container {
	return n.root
}

func (c *Container) Push(screen *ports.Screen, animated bool) {
	n := c.nav
	n.mu.Lock()
	if !c.attached {
		n.mu.Unlock()
		n.logger.Warn("push onto a detached container ignored", "screen", screen.Title)
		return
	}
	c.screens = append(c.screens, screen)
	n.record(OpPush, animated, screen)
	n.mu.Unlock()

	appear(screen)
}

func (c *Container) Present(screen *ports.Screen, animated bool) ports.ScreenStack {
	n := c.nav
	n.mu.Lock()
	var replaced []*ports.Screen
	if c.presented != nil {
		replaced = c.presented.detach()
		c.presented = nil
	}
	modal := &Container{nav: n, screens: []*ports.Screen{screen}, presenter: c, attached: c.attached}
	if c.attached {
		c.presented = modal
		n.record(OpPresent, animated, screen)
	}
	n.mu.Unlock()

	notify(replaced, ports.RemovedProgrammatically)
	if modal.attached {
		appear(screen)
	} else {
		n.logger.Warn("present from a detached container ignored", "screen", screen.Title)
	}
	return modal
}

func (c *Container) PopTo(id ports.ScreenID, animated bool) bool {
	n := c.nav
	n.mu.Lock()
	removed := c.popAbove(id)
	if len(removed) > 0 {
		n.record(OpPop, animated, removed...)
	}
	n.mu.Unlock()

	notify(removed, ports.RemovedProgrammatically)
	return len(removed) > 0
}

func (c *Container) Dismiss(animated bool) {
	n := c.nav
	n.mu.Lock()
	var removed []*ports.Screen
	if c.presented != nil {
		removed = c.presented.detach()
		c.presented = nil
		n.record(OpDismiss, animated, removed...)
	}
	n.mu.Unlock()

	notify(removed, ports.RemovedProgrammatically)
}

func (c *Container) IsPresenting() bool {
	c.nav.mu.Lock()
	defer c.nav.mu.Unlock()
	return c.presented != nil
}

// Screens lists the titles of the screens pushed in this container.
func (c *Container) Screens() []string {
	c.nav.mu.Lock()
	defer c.nav.mu.Unlock()
	return titles(c.screens)
}

// popAbove removes the screens above id. Callers hold the lock.
func (c *Container) popAbove(id ports.ScreenID) []*ports.Screen {
	for i, s := range c.screens {
		if s.ID != id {
			continue
		}
		if i == len(c.screens)-1 {
			return nil
		}
		removed := append([]*ports.Screen(nil), c.screens[i+1:]...)
		c.screens = c.screens[:i+1:i+1]
		return removed
	}
	return nil
}

// detach marks c and everything presented from it as gone and returns their
// screens, closest to the root first. Callers hold the lock.
func (c *Container) detach() []*ports.Screen {
	var removed []*ports.Screen
	for m := c; m != nil; m = m.presented {
		m.attached = false
		removed = append(removed, m.screens...)
	}
	return removed
}

func (n *Navigator) top() *Container {
	c := n.root
	for c.presented != nil {
		c = c.presented
	}
	return c
}

// InteractivePop simulates the user tapping back on the topmost container.
func (n *Navigator) InteractivePop() error {
	n.mu.Lock()
	top := n.top()
	if len(top.screens) < 2 {
		n.mu.Unlock()
		return ErrNothingToPop
	}
	last := top.screens[len(top.screens)-1]
	top.screens = top.screens[: len(top.screens)-1 : len(top.screens)-1]
	n.record(OpInteractivePop, true, last)
	n.mu.Unlock()

	notify([]*ports.Screen{last}, ports.RemovedInteractively)
	return nil
}

// InteractiveDismiss simulates the user pulling the topmost modal down.
func (n *Navigator) InteractiveDismiss() error {
	n.mu.Lock()
	top := n.top()
	if top.presenter == nil {
		n.mu.Unlock()
		return ErrNothingPresented
	}
	top.presenter.presented = nil
	removed := top.detach()
	n.record(OpInteractiveDismiss, true, removed...)
	n.mu.Unlock()

	notify(removed, ports.RemovedInteractively)
	return nil
}

// HostPop removes the topmost pushed screen the way host code outside any
// coordinator would, without user interaction.
func (n *Navigator) HostPop() error {
	n.mu.Lock()
	top := n.top()
	if len(top.screens) < 2 {
		n.mu.Unlock()
		return ErrNothingToPop
	}
	last := top.screens[len(top.screens)-1]
	top.screens = top.screens[: len(top.screens)-1 : len(top.screens)-1]
	n.record(OpHostPop, false, last)
	n.mu.Unlock()

	notify([]*ports.Screen{last}, ports.RemovedProgrammatically)
	return nil
}

// Levels lists the screen titles of each container from the root container up.
func (n *Navigator) Levels() [][]string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var levels [][]string
	for c := n.root; c != nil; c = c.presented {
		levels = append(levels, titles(c.screens))
	}
	return levels
}

// Visible flattens Levels.
func (n *Navigator) Visible() []string {
	var all []string
	for _, level := range n.Levels() {
		all = append(all, level...)
	}
	return all
}

// Top returns the screen the user currently sees.
func (n *Navigator) Top() *ports.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	top := n.top()
	if len(top.screens) == 0 {
		return nil
	}
	return top.screens[len(top.screens)-1]
}

// Ops returns the recorded operations.
func (n *Navigator) Ops() []Op {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Op(nil), n.ops...)
}

// ResetOps clears the operation log.
func (n *Navigator) ResetOps() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ops = nil
}

// record appends to the log. Callers hold the lock.
func (n *Navigator) record(kind OpKind, animated bool, screens ...*ports.Screen) {
	n.ops = append(n.ops, Op{Kind: kind, Screens: titles(screens), Animated: animated})
}

func titles(screens []*ports.Screen) []string {
	out := make([]string, len(screens))
	for i, s := range screens {
		out[i] = s.Title
	}
	return out
}

func appear(screen *ports.Screen) {
	if screen.OnAppear != nil {
		screen.OnAppear()
	}
}

func notify(removed []*ports.Screen, reason ports.RemovalReason) {
	for _, s := range removed {
		if s.OnRemoved != nil {
			s.OnRemoved(reason)
		}
	}
}
