package service_test

import (
	"context"
	"strings"
	"testing"

	"hierarchicalmenu/profilefield/internal/admin"
	"hierarchicalmenu/profilefield/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.seed(t, domain.DisplayModeLeaf)

	root, err := f.svc.AddNode(ctx, 1, "", "Oceania")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(root.Node.ID, admin.IDPrefix))
	assert.Equal(t, "Oceania", root.Node.Name)
	assert.Equal(t, 0, root.Depth)
	assert.True(t, root.CanAddChildren)

	child, err := f.svc.AddNode(ctx, 1, "5", "France")
	require.NoError(t, err)
	assert.Equal(t, 1, child.Depth)

	def, err := f.store.GetField(ctx, 1)
	require.NoError(t, err)
	tree, err := domain.ParseTree(def.TreeJSON)
	require.NoError(t, err)
	require.Len(t, tree.Items, 3)
	assert.Equal(t, "France", tree.Items[1].Children[0].Name)

	cached, err := f.cache.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, cached)
	_, ok := cached.Lookup(child.Node.ID)
	assert.True(t, ok)
}

func TestAddNodeErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.seed(t, domain.DisplayModeLeaf)

	_, err := f.svc.AddNode(ctx, 1, "3", "Shibuya")
	assert.ErrorIs(t, err, admin.ErrMaxLevelReached)

	_, err = f.svc.AddNode(ctx, 1, "", "  ")
	assert.ErrorIs(t, err, admin.ErrEmptyName)

	_, err = f.svc.AddNode(ctx, 1, "ghost", "Nowhere")
	assert.ErrorIs(t, err, admin.ErrNodeNotFound)

	_, err = f.svc.GetNode(ctx, 1, "ghost")
	assert.ErrorIs(t, err, admin.ErrNodeNotFound)
}

func TestRenameNode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.seed(t, domain.DisplayModeLeaf)

	info, err := f.svc.RenameNode(ctx, 1, "2", "Nippon")
	require.NoError(t, err)
	assert.Equal(t, "Nippon", info.Node.Name)
	assert.Equal(t, 1, info.Depth)
	assert.True(t, info.CanAddChildren)

	leaf, err := f.svc.GetNode(ctx, 1, "3")
	require.NoError(t, err)
	assert.False(t, leaf.CanAddChildren)
}

func TestDeleteNodeRepairsSelections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.seed(t, domain.DisplayModeLeaf)
	require.NoError(t, f.store.SaveUserData(ctx, 1, 10, `{"level0":"1","level1":"2","level2":"3"}`))

	require.NoError(t, f.svc.DeleteNode(ctx, 1, "2"))

	data, err := f.store.GetUserData(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, `{"level0":"1","level1":"","level2":""}`, data)

	_, err = f.svc.GetNode(ctx, 1, "3")
	assert.ErrorIs(t, err, admin.ErrNodeNotFound)

	assert.ErrorIs(t, f.svc.DeleteNode(ctx, 1, "2"), admin.ErrNodeNotFound)
}
