package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/persistence/middleware"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func snapshot(state string) *domain.Snapshot {
	return &domain.Snapshot{
		SessionID: "s1",
		Screen:    "detail",
		SavedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		State:     json.RawMessage(state),
	}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)

	require.NoError(t, secure.Save(ctx, "s1", snapshot(`{"name":"Antalya"}`)))

	stored, err := underlying.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotContains(t, string(stored.State), "Antalya", "state must not be stored in clear")
	assert.Contains(t, string(stored.State), "ciphertext")
	assert.Equal(t, "detail", stored.Screen, "metadata stays readable")

	loaded, err := secure.Load(ctx, "s1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Antalya"}`, string(loaded.State))
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(memory.NewStore())
	ports.RunSnapshotStoreContract(t, secure)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, oldStore.Save(ctx, "s1", snapshot(`{"v":"old"}`)))

	newStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := newStore.Load(ctx, "s1")
	require.NoError(t, err, "fallback key should decrypt")
	assert.JSONEq(t, `{"v":"old"}`, string(loaded.State))

	require.NoError(t, newStore.Save(ctx, "s1", snapshot(`{"v":"new"}`)))
	_, err = oldStore.Load(ctx, "s1")
	assert.Error(t, err, "the old key alone cannot read data sealed with the new key")
}

func TestEncryptionMiddleware_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("plain snapshot", func(t *testing.T) {
		underlying := memory.NewStore()
		require.NoError(t, underlying.Save(ctx, "s1", snapshot(`{"name":"x"}`)))
		secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)

		_, err := secure.Load(ctx, "s1")
		assert.ErrorIs(t, err, middleware.ErrNotEncrypted)
	})

	t.Run("invalid key size", func(t *testing.T) {
		assert.Panics(t, func() {
			middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
		})
	})
}
