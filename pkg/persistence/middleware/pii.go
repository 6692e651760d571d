package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

const mask = "***"

type piiMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware masks, on save, the values of state fields whose key
// matches any pattern. Masking is one-way: loaded snapshots keep the mask.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, snapshot *domain.Snapshot) error {
	// Decoding yields a fresh tree, so the caller's bytes are never touched.
	var tree any
	if err := json.Unmarshal(snapshot.State, &tree); err != nil {
		return fmt.Errorf("failed to decode snapshot state: %w", err)
	}
	maskValue(tree, m.patterns)

	masked, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("failed to encode masked state: %w", err)
	}
	out := *snapshot
	out.State = masked
	return m.next.Save(ctx, sessionID, &out)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func maskValue(v any, patterns []*regexp.Regexp) {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			if matchesAny(k, patterns) {
				node[k] = mask
				continue
			}
			maskValue(child, patterns)
		}
	case []any:
		// identified arrays marshal as lists of rows
		for _, child := range node {
			maskValue(child, patterns)
		}
	}
}

func matchesAny(key string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
