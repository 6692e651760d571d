// Package demo holds what the example screens share: their environment and
// the buttons a text host can press on the visible screen.
//
// The screens form the MyJet app: a root screen that pushes or presents a
// reservations list, whose rows open a detail screen, which presents an
// editor.
package demo

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// DefaultTick is the period of every demo timer.
const DefaultTick = time.Second

// Environment is the dependency bag every demo reducer receives.
type Environment struct {
	// Tick is the period of screen timers.
	Tick time.Duration
}

// NewEnvironment returns an environment ticking every tick, DefaultTick when zero.
func NewEnvironment(tick time.Duration) Environment {
	if tick <= 0 {
		tick = DefaultTick
	}
	return Environment{Tick: tick}
}

// Same passes the environment down unchanged.
func Same(e Environment) Environment { return e }

// Button is a named user intent on a screen.
type Button struct {
	Name  string
	Usage string
	Press func(arg string) error
}

// Controls is implemented by coordinators whose screen offers buttons.
type Controls interface {
	Buttons() []Button
}

// Press finds the button called name and presses it with arg.
func Press(c Controls, name, arg string) error {
	for _, b := range c.Buttons() {
		if b.Name == name {
			return b.Press(arg)
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrUnknownAction, name)
}

// Help lists the buttons of c, one per line.
func Help(c Controls) string {
	var sb strings.Builder
	for _, b := range c.Buttons() {
		fmt.Fprintf(&sb, "  %-10s %s\n", b.Name, b.Usage)
	}
	return sb.String()
}

// Tap builds a button that sends a fixed action.
func Tap(name, usage string, send func()) Button {
	return Button{Name: name, Usage: usage, Press: func(string) error {
		send()
		return nil
	}}
}

// RequireArg wraps press so it fails when no argument is given.
func RequireArg(what string, press func(arg string)) func(string) error {
	return func(arg string) error {
		if arg == "" {
			return fmt.Errorf("missing %s", what)
		}
		press(arg)
		return nil
	}
}
