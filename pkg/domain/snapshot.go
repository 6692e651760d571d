package domain

import (
	"encoding/json"
	"time"
)

// Snapshot is the serialized root state of one session.
// Coordinators are runtime-only and never part of a snapshot; they are
// rebuilt from the route chain when the state is restored.
type Snapshot struct {
	SessionID string          `json:"session_id"`
	Screen    string          `json:"screen"`
	SavedAt   time.Time       `json:"saved_at"`
	State     json.RawMessage `json:"state"`
}
