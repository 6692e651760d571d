package ports

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	snapshot := func(id string, state string) *domain.Snapshot {
		return &domain.Snapshot{
			SessionID: id,
			Screen:    "myjet",
			SavedAt:   time.Now().UTC().Truncate(time.Second),
			State:     json.RawMessage(state),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		saved := snapshot(sessionID, `{"route":{"case":"pushedReservations"}}`)

		err := store.Save(ctx, sessionID, saved)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, saved.SessionID, loaded.SessionID)
		assert.Equal(t, saved.Screen, loaded.Screen)
		assert.True(t, saved.SavedAt.Equal(loaded.SavedAt))
		assert.JSONEq(t, string(saved.State), string(loaded.State))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, snapshot(sessionID, `{"route":null}`)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"route":null}`, string(loaded.State))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, snapshot(sessionID, `{}`))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, snapshot(id1, `{}`))
		_ = store.Save(ctx, id2, snapshot(id2, `{}`))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
