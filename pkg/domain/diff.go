package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// StateDiff represents the changes between two state snapshots.
// It is designed to be serialized to JSON for inspectors and scenario logs.
type StateDiff struct {
	// Changed holds added or modified leaves keyed by dotted path.
	Changed map[string]any `json:"changed,omitempty"`

	// Removed lists paths that no longer exist, such as a cleared route.
	Removed []string `json:"removed,omitempty"`
}

// Flatten turns any JSON-serializable value into a map of dotted paths to leaves.
// Arrays are indexed by position.
func Flatten(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("flatten state: %w", err)
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("flatten state: %w", err)
	}
	out := make(map[string]any)
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, node any, out map[string]any) {
	switch n := node.(type) {
	case map[string]any:
		if len(n) == 0 && prefix != "" {
			out[prefix] = n
			return
		}
		for k, v := range n {
			flatten(join(prefix, k), v, out)
		}
	case []any:
		if len(n) == 0 && prefix != "" {
			out[prefix] = n
			return
		}
		for i, v := range n {
			flatten(join(prefix, fmt.Sprint(i)), v, out)
		}
	default:
		out[prefix] = n
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Diff calculates the difference between two flattened states.
// If oldState is nil, every path of newState counts as changed (initial load).
func Diff(oldState, newState map[string]any) *StateDiff {
	diff := &StateDiff{Changed: make(map[string]any)}

	for k, newVal := range newState {
		oldVal, exists := oldState[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			diff.Changed[k] = newVal
		}
	}
	for k := range oldState {
		if _, exists := newState[k]; !exists {
			diff.Removed = append(diff.Removed, k)
		}
	}
	sort.Strings(diff.Removed)

	if len(diff.Changed) == 0 {
		diff.Changed = nil
	}
	return diff
}

// IsEmpty checks if the diff contains any changes.
func (d *StateDiff) IsEmpty() bool {
	return d == nil || (len(d.Changed) == 0 && len(d.Removed) == 0)
}

// Paths lists every changed or removed path in order.
func (d *StateDiff) Paths() []string {
	if d == nil {
		return nil
	}
	paths := make([]string, 0, len(d.Changed)+len(d.Removed))
	for k := range d.Changed {
		paths = append(paths, k)
	}
	paths = append(paths, d.Removed...)
	sort.Strings(paths)
	return paths
}
