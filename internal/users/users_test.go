package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Upsert(ctx, Profile{TelegramID: 42, Username: "bob", DisplayName: "Bob B"}))
	require.NoError(t, store.Upsert(ctx, Profile{TelegramID: 42, Username: "bobby", DisplayName: "Bob B"}))

	profiles, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, int64(42), profiles[0].TelegramID)
	assert.Equal(t, "bobby", profiles[0].Username)
	assert.Equal(t, "Bob B", profiles[0].DisplayName)
}

func TestMemoryStoreListInsertionOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i, name := range []string{"A", "B", "C"} {
		require.NoError(t, store.Upsert(ctx, Profile{TelegramID: int64(i + 1), DisplayName: name}))
	}

	profiles, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "A", profiles[0].DisplayName)
	assert.Equal(t, "B", profiles[1].DisplayName)
}

func TestMemoryStoreUpsertKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Upsert(ctx, Profile{TelegramID: 1, DisplayName: "A"}))
	require.NoError(t, store.Upsert(ctx, Profile{TelegramID: 2, DisplayName: "B"}))
	require.NoError(t, store.Upsert(ctx, Profile{TelegramID: 1, DisplayName: "A2"}))

	profiles, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "A2", profiles[0].DisplayName)
	assert.Equal(t, "B", profiles[1].DisplayName)
}

func TestRenderListTruncatesAtCeiling(t *testing.T) {
	profiles := make([]Profile, 100)
	for i := range profiles {
		profiles[i] = Profile{
			TelegramID:  int64(i + 1),
			Username:    strings.Repeat("u", 30),
			DisplayName: strings.Repeat("n", 60),
		}
	}

	out := RenderList(profiles, 4000)
	assert.LessOrEqual(t, len([]rune(out)), 4000)
	assert.True(t, strings.HasSuffix(out, "…"), "expected truncation marker, got tail %q", out[len(out)-12:])
}

func TestRenderListEmpty(t *testing.T) {
	assert.NotEmpty(t, RenderList(nil, 4000))
}

type failingStore struct{}

func (failingStore) Upsert(context.Context, Profile) error { return errors.New("db down") }

func (failingStore) List(context.Context, int) ([]Profile, error) {
	return nil, errors.New("db down")
}

func TestServicePropagatesStoreErrors(t *testing.T) {
	svc := NewService(failingStore{})
	ctx := context.Background()

	assert.Error(t, svc.Register(ctx, 1, "u", "n"))

	_, err := svc.ListRendered(ctx)
	assert.Error(t, err)
}

func TestServiceListRendered(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, 7, "alice", "Alice"))

	out, err := svc.ListRendered(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "@alice")
	assert.Contains(t, out, "7")
}
