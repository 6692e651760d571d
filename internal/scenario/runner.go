package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

var (
	// ErrExpectation is returned when an expect step does not hold.
	ErrExpectation = errors.New("expectation failed")
	// ErrNoClock is returned by advance steps when the runner has no clock.
	ErrNoClock = errors.New("scenario has no clock to advance")
)

// App is the part of wayfinder.App a script drives.
type App interface {
	Top() *ports.Screen
	Stack() [][]string
	Effects() []string
	StateJSON() (json.RawMessage, error)
	SendJSON(data []byte) error
}

// Host removes screens the way a user or host code would.
type Host interface {
	InteractivePop() error
	InteractiveDismiss() error
	HostPop() error
}

// Clock is moved forward by advance steps.
type Clock interface {
	Advance(d time.Duration)
}

// StepError reports the step that failed, counted from 1.
type StepError struct {
	Index int
	Step  Step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Runner plays scripts against one app.
type Runner struct {
	app    App
	host   Host
	clock  Clock
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger logs every step at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithClock lets advance steps move clock.
func WithClock(clock Clock) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

// NewRunner creates a runner for app whose screens live in host.
func NewRunner(app App, host Host, opts ...Option) *Runner {
	r := &Runner{app: app, host: host, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays every step of s in order and stops at the first failure.
func (r *Runner) Run(s *Script) error {
	r.logger.Debug("scenario started", "name", s.Name, "steps", len(s.Steps))
	for i, step := range s.Steps {
		r.logger.Debug("scenario step", "index", i+1, "step", step.String())
		if err := r.Step(step); err != nil {
			return &StepError{Index: i + 1, Step: step, Err: err}
		}
	}
	r.logger.Debug("scenario passed", "name", s.Name)
	return nil
}

// Step plays a single step.
func (r *Runner) Step(step Step) error {
	switch step.Op {
	case OpPress:
		top := r.app.Top()
		if top == nil {
			return domain.ErrNoRoot
		}
		controls, ok := top.Owner.(demo.Controls)
		if !ok {
			return fmt.Errorf("screen %q has no buttons", top.Title)
		}
		return demo.Press(controls, step.Press.Button, step.Press.Arg)
	case OpSend:
		return r.app.SendJSON(step.Action)
	case OpAdvance:
		if r.clock == nil {
			return ErrNoClock
		}
		r.clock.Advance(step.Advance)
		return nil
	case OpInteractivePop:
		return r.host.InteractivePop()
	case OpInteractiveDismiss:
		return r.host.InteractiveDismiss()
	case OpHostPop:
		return r.host.HostPop()
	case OpExpect:
		return r.check(step.Expect)
	}
	return fmt.Errorf("unknown operation %q", step.Op)
}

func (r *Runner) check(want *Expect) error {
	var failures []string
	if want.Stack != nil {
		if got := r.app.Stack(); !reflect.DeepEqual(got, want.Stack) {
			failures = append(failures, fmt.Sprintf("stack is %v, want %v", got, want.Stack))
		}
	}
	if want.Top != "" {
		got := ""
		if top := r.app.Top(); top != nil {
			got = top.Title
		}
		if got != want.Top {
			failures = append(failures, fmt.Sprintf("top is %q, want %q", got, want.Top))
		}
	}
	if want.Effects != nil {
		got := r.app.Effects()
		if len(got) != 0 || len(*want.Effects) != 0 {
			if !reflect.DeepEqual(got, *want.Effects) {
				failures = append(failures, fmt.Sprintf("effects are %v, want %v", got, *want.Effects))
			}
		}
	}
	if len(want.State) > 0 {
		stateFailures, err := r.checkState(want.State)
		if err != nil {
			return err
		}
		failures = append(failures, stateFailures...)
	}
	if len(failures) > 0 {
		return fmt.Errorf("%w: %s", ErrExpectation, strings.Join(failures, "; "))
	}
	return nil
}

// checkState compares leaves by their printed form, so a YAML 3 matches a
// JSON 3.0.
func (r *Runner) checkState(want map[string]any) ([]string, error) {
	data, err := r.app.StateJSON()
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	flat, err := domain.Flatten(tree)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(want))
	for path := range want {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var failures []string
	for _, path := range paths {
		got, ok := flat[path]
		switch {
		case want[path] == nil && !ok:
		case !ok:
			failures = append(failures, fmt.Sprintf("%s is missing, want %v", path, want[path]))
		case fmt.Sprint(got) != fmt.Sprint(want[path]):
			failures = append(failures, fmt.Sprintf("%s is %v, want %v", path, got, want[path]))
		}
	}
	return failures, nil
}
