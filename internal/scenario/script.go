// Package scenario runs scripted user journeys against a running app. A
// script is YAML: a name and a list of steps, each a single-key map or a bare
// operation name.
//
//	name: swipe back
//	steps:
//	  - press: push
//	  - press: {button: push, arg: color-3}
//	  - advance: 3s
//	  - interactivePop
//	  - expect:
//	      stack: [[MyJet, Reservations]]
//	      effects: []
//	      state:
//	        route.pushedReservations.rows.2.name: Red
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScript is returned for scripts that cannot be parsed.
var ErrInvalidScript = errors.New("invalid scenario script")

// Op names a step operation.
type Op string

const (
	OpPress              Op = "press"
	OpSend               Op = "send"
	OpAdvance            Op = "advance"
	OpInteractivePop     Op = "interactivePop"
	OpInteractiveDismiss Op = "interactiveDismiss"
	OpHostPop            Op = "hostPop"
	OpExpect             Op = "expect"
)

// Press presses a button of the visible screen.
type Press struct {
	Button string `mapstructure:"button"`
	Arg    string `mapstructure:"arg"`
}

// Expect checks the app after the previous steps. Unset fields are not checked.
type Expect struct {
	Stack   [][]string     `mapstructure:"stack"`
	Top     string         `mapstructure:"top"`
	Effects *[]string      `mapstructure:"effects"`
	State   map[string]any `mapstructure:"state"`
}

// Step is one parsed operation. Only the field matching Op is set.
type Step struct {
	Op      Op
	Press   *Press
	Action  json.RawMessage
	Advance time.Duration
	Expect  *Expect
}

func (s Step) String() string {
	switch s.Op {
	case OpPress:
		if s.Press.Arg != "" {
			return fmt.Sprintf("press %s %s", s.Press.Button, s.Press.Arg)
		}
		return "press " + s.Press.Button
	case OpSend:
		return "send " + string(s.Action)
	case OpAdvance:
		return "advance " + s.Advance.String()
	}
	return string(s.Op)
}

// Script is a named list of steps.
type Script struct {
	Name  string
	Steps []Step
}

type rawScript struct {
	Name  string `yaml:"name"`
	Steps []any  `yaml:"steps"`
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML script.
func Parse(data []byte) (*Script, error) {
	var raw rawScript
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	script := &Script{Name: raw.Name, Steps: make([]Step, 0, len(raw.Steps))}
	for i, v := range raw.Steps {
		step, err := parseStep(v)
		if err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrInvalidScript, i+1, err)
		}
		script.Steps = append(script.Steps, step)
	}
	return script, nil
}

func parseStep(v any) (Step, error) {
	switch s := v.(type) {
	case string:
		return newStep(Op(s), nil)
	case map[string]any:
		if len(s) != 1 {
			return Step{}, fmt.Errorf("a step has exactly one operation, got %d", len(s))
		}
		for op, params := range s {
			return newStep(Op(op), params)
		}
	}
	return Step{}, fmt.Errorf("invalid step type: %T", v)
}

func newStep(op Op, params any) (Step, error) {
	step := Step{Op: op}
	switch op {
	case OpInteractivePop, OpInteractiveDismiss, OpHostPop:
		return step, nil

	case OpPress:
		step.Press = &Press{}
		if name, ok := params.(string); ok {
			step.Press.Button = name
		} else if err := decode(params, step.Press); err != nil {
			return step, err
		}
		if step.Press.Button == "" {
			return step, errors.New("press needs a button")
		}

	case OpSend:
		data, err := json.Marshal(params)
		if err != nil {
			return step, fmt.Errorf("send: %w", err)
		}
		step.Action = data

	case OpAdvance:
		var d time.Duration
		if err := decode(params, &d); err != nil {
			return step, fmt.Errorf("advance: %w", err)
		}
		if d <= 0 {
			return step, fmt.Errorf("advance needs a positive duration, got %v", params)
		}
		step.Advance = d

	case OpExpect:
		step.Expect = &Expect{}
		if err := decode(params, step.Expect); err != nil {
			return step, fmt.Errorf("expect: %w", err)
		}

	default:
		return step, fmt.Errorf("unknown operation %q", op)
	}
	return step, nil
}

func decode(input, out any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return d.Decode(input)
}
