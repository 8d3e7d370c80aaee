package props

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "doc-1", KeyRootFolderID)
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestSetGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "doc-1", KeyRootFolderID, "folder-abc"))
	got, err := s.Get(ctx, "doc-1", KeyRootFolderID)
	require.NoError(t, err)
	assert.Equal(t, "folder-abc", got)

	// Overwrite in place.
	require.NoError(t, s.Set(ctx, "doc-1", KeyRootFolderID, "folder-def"))
	got, err = s.Get(ctx, "doc-1", KeyRootFolderID)
	require.NoError(t, err)
	assert.Equal(t, "folder-def", got)
}

func TestDocumentScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "doc-1", KeySecretKey, "sk-one"))
	require.NoError(t, s.Set(ctx, "doc-2", KeySecretKey, "sk-two"))

	got, err := s.Get(ctx, "doc-1", KeySecretKey)
	require.NoError(t, err)
	assert.Equal(t, "sk-one", got)

	got, err = s.Get(ctx, "doc-2", KeySecretKey)
	require.NoError(t, err)
	assert.Equal(t, "sk-two", got)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "doc-1", KeySecretKey, "sk-one"))
	require.NoError(t, s.Delete(ctx, "doc-1", KeySecretKey))

	_, err := s.Get(ctx, "doc-1", KeySecretKey)
	assert.Equal(t, codes.NotFound, status.Code(err))

	// Deleting an absent key is not an error.
	require.NoError(t, s.Delete(ctx, "doc-1", KeySecretKey))
}
