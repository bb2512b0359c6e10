package repository_test

import (
	"context"
	"testing"

	"hierarchicalmenu/profilefield/internal/domain"
	"hierarchicalmenu/profilefield/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ repository.FieldRepository    = (*repository.MemoryStore)(nil)
	_ repository.UserDataRepository = (*repository.MemoryStore)(nil)
)

func TestMemoryStoreFields(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	_, err := store.GetField(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrFieldNotFound)

	def := &domain.FieldDefinition{ID: 1, ShortName: "region", MaxLevels: 2}
	require.NoError(t, store.SaveField(ctx, def))

	def.ShortName = "mutated"
	got, err := store.GetField(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "region", got.ShortName)
}

func TestMemoryStoreUserData(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	data, err := store.GetUserData(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "", data)

	require.NoError(t, store.SaveUserData(ctx, 1, 20, `{"level0":"b"}`))
	require.NoError(t, store.SaveUserData(ctx, 1, 10, `{"level0":"a"}`))
	require.NoError(t, store.SaveUserData(ctx, 2, 10, `{"level0":"c"}`))

	rows, err := store.ListUserData(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.UserData{
		{FieldID: 1, UserID: 10, Data: `{"level0":"a"}`},
		{FieldID: 1, UserID: 20, Data: `{"level0":"b"}`},
	}, rows)

	rows, err = store.ListUserData(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
