package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.openbid.build/gdrive/drivetest"
	"go.openbid.build/props"
)

func newTestRegistry(t *testing.T) (*Registry, *drivetest.FakeStore, *props.SQLiteStore) {
	t.Helper()
	store := drivetest.NewFakeStore()
	propStore, err := props.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = propStore.Close() })
	reg := New(store, propStore, "master-doc", "Season 1 Bids OpenBID Toolkit Files")
	return reg, store, propStore
}

func TestFindOrCreateIdempotent(t *testing.T) {
	reg, store, _ := newTestRegistry(t)
	ctx := context.Background()

	first, err := reg.FindOrCreate(ctx, nil, "Show X")
	require.NoError(t, err)
	second, err := reg.FindOrCreate(ctx, nil, "Show X")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.CreatedFolders)
}

func TestFindOrCreateScopedToParent(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	ctx := context.Background()

	parentA, err := reg.FindOrCreate(ctx, nil, "A")
	require.NoError(t, err)
	parentB, err := reg.FindOrCreate(ctx, nil, "B")
	require.NoError(t, err)

	// The same name under different parents yields distinct folders.
	childA, err := reg.FindOrCreate(ctx, parentA, "NDAs")
	require.NoError(t, err)
	childB, err := reg.FindOrCreate(ctx, parentB, "NDAs")
	require.NoError(t, err)
	assert.NotEqual(t, childA.ID, childB.ID)
}

func TestRootCachesFolderID(t *testing.T) {
	reg, store, propStore := newTestRegistry(t)
	ctx := context.Background()

	root, err := reg.Root(ctx)
	require.NoError(t, err)

	cached, err := propStore.Get(ctx, "master-doc", props.KeyRootFolderID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, cached)

	// A second call resolves via the cache and creates nothing new.
	again, err := reg.Root(ctx)
	require.NoError(t, err)
	assert.Equal(t, root.ID, again.ID)
	assert.Equal(t, 1, store.CreatedFolders)
}

func TestRootSelfHealsAfterDeletion(t *testing.T) {
	reg, store, propStore := newTestRegistry(t)
	ctx := context.Background()

	root, err := reg.Root(ctx)
	require.NoError(t, err)

	// Simulate the folder being deleted out of band.
	store.RemoveFolder(root.ID)

	healed, err := reg.Root(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, root.ID, healed.ID)

	// The cache now points at the recreated folder.
	cached, err := propStore.Get(ctx, "master-doc", props.KeyRootFolderID)
	require.NoError(t, err)
	assert.Equal(t, healed.ID, cached)

	// Subsequent FindOrCreate calls against the healed root return the same
	// folder identity (idempotence across the heal).
	p1, err := reg.ProjectFolder(ctx, "Show X")
	require.NoError(t, err)
	p2, err := reg.ProjectFolder(ctx, "Show X")
	require.NoError(t, err)
	assert.Equal(t, p1.ID, p2.ID)
}

func TestSubfolderHierarchy(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	ctx := context.Background()

	sub, err := reg.Subfolder(ctx, "Show X", "Thumbnails")
	require.NoError(t, err)

	project, err := reg.ProjectFolder(ctx, "Show X")
	require.NoError(t, err)
	root, err := reg.Root(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, project.ID, sub.ID)
	assert.NotEqual(t, root.ID, project.ID)
}
