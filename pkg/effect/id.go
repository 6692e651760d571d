package effect

import (
	"fmt"
	"strings"
)

// ScopeSeparator joins the segments of an effect scope.
const ScopeSeparator = "/"

// ID identifies a scheduled effect.
//
// Scope is the namespace the effect was started under (one segment per
// pullback or scope it travelled through). Key must be comparable so that
// an ID can be used as a map key.
type ID struct {
	Scope string
	Key   any
}

// NewID creates an unscoped identifier.
func NewID(key any) ID {
	return ID{Key: key}
}

// Within returns the identifier nested under scope.
func (id ID) Within(scope string) ID {
	return ID{Scope: JoinScope(scope, id.Scope), Key: id.Key}
}

// InScope reports whether the identifier lives in scope or in any scope nested below it.
// The empty scope contains every identifier.
func (id ID) InScope(scope string) bool {
	if scope == "" {
		return true
	}
	return id.Scope == scope || strings.HasPrefix(id.Scope, scope+ScopeSeparator)
}

func (id ID) String() string {
	if id.Scope == "" {
		return fmt.Sprintf("%v", id.Key)
	}
	return fmt.Sprintf("%s%s%v", id.Scope, ScopeSeparator, id.Key)
}

// JoinScope nests inner below outer. Empty segments are dropped.
func JoinScope(outer, inner string) string {
	switch {
	case outer == "":
		return inner
	case inner == "":
		return outer
	}
	return outer + ScopeSeparator + inner
}

// anonymous keys tasks that were launched without an explicit ID.
type anonymous struct {
	seq uint64
}

func (a anonymous) String() string {
	return fmt.Sprintf("#%d", a.seq)
}
