package identified_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/wayfinder/pkg/identified"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
}

func (r row) Identity() string { return r.ID }

func TestArray_Operations(t *testing.T) {
	rows := identified.Of[string](row{ID: "a"}, row{ID: "b"}, row{ID: "c"})
	require.Equal(t, []string{"a", "b", "c"}, rows.IDs())

	t.Run("Update touches one element", func(t *testing.T) {
		updated, ok := rows.Update("b", func(r *row) { r.Likes++ })
		require.True(t, ok)

		got, _ := updated.Get("b")
		assert.Equal(t, 1, got.Likes)
		original, _ := rows.Get("b")
		assert.Equal(t, 0, original.Likes, "the receiver must not change")
	})

	t.Run("Update of a missing key is a no-op", func(t *testing.T) {
		updated, ok := rows.Update("zzz", func(r *row) { r.Likes++ })
		assert.False(t, ok)
		assert.Equal(t, rows, updated)
	})

	t.Run("Set replaces in place and appends new keys", func(t *testing.T) {
		next := rows.Set(row{ID: "a", Likes: 5}).Set(row{ID: "d"})
		assert.Equal(t, []string{"a", "b", "c", "d"}, next.IDs())
		got, _ := next.Get("a")
		assert.Equal(t, 5, got.Likes)
		assert.Equal(t, 3, rows.Len())
	})

	t.Run("Remove keeps order", func(t *testing.T) {
		next := rows.Remove("b")
		assert.Equal(t, []string{"a", "c"}, next.IDs())
		assert.False(t, next.Has("b"))
		assert.True(t, rows.Has("b"))
	})
}

func TestArray_JSON(t *testing.T) {
	rows := identified.Of[string](row{ID: "a", Likes: 2}, row{ID: "b"})

	data, err := json.Marshal(rows)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a","likes":2},{"id":"b","likes":0}]`, string(data))

	var decoded identified.Array[string, row]
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rows, decoded)

	empty, err := json.Marshal(identified.Array[string, row]{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}
