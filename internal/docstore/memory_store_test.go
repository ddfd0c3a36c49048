package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestMemoryStore_SetGetUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "users", "u1", Document{
		"role":             "influencer",
		"profileCompleted": false,
	}))

	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "influencer", doc["role"])
	assert.Equal(t, false, doc["profileCompleted"])

	require.NoError(t, store.Update(ctx, "users", "u1", Document{
		"profileCompleted": true,
		"roleAttributes":   map[string]any{"bio": "hi"},
	}))

	doc, err = store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "influencer", doc["role"], "update must keep untouched fields")
	assert.Equal(t, true, doc["profileCompleted"])
	assert.Equal(t, map[string]any{"bio": "hi"}, doc["roleAttributes"])
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "users", "u1", Document{"role": "advertiser"}))

	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	doc["role"] = "moderator"

	again, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "advertiser", again["role"])
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "users", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Update(ctx, "users", "missing", Document{"profileCompleted": true})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_InvalidKey(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "users", "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestMemoryStore_InjectedError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("network down")
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "users", "u1", Document{"role": "influencer"}))

	store.WithError(boom)
	_, err := store.Get(ctx, "users", "u1")
	assert.ErrorIs(t, err, boom)

	store.WithError(nil)
	_, err = store.Get(ctx, "users", "u1")
	assert.NoError(t, err)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().Get(ctx, "users", "u1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_RecordsCalls(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Set(ctx, "users", "u1", Document{})
	_, _ = store.Get(ctx, "users", "u1")

	calls := store.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "set", calls[0].Op)
	assert.Equal(t, "get", calls[1].Op)
}

func TestNormalizeBSON(t *testing.T) {
	in := bson.M{
		"role": "influencer",
		"roleAttributes": bson.D{
			{Key: "platforms", Value: bson.A{"instagram", "tiktok"}},
			{Key: "bio", Value: "hello"},
		},
	}

	out, ok := normalizeBSON(in).(map[string]any)
	require.True(t, ok)
	attrs, ok := out["roleAttributes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"instagram", "tiktok"}, attrs["platforms"])
	assert.Equal(t, "hello", attrs["bio"])
}
