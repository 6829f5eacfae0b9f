package report

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "report.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_RecordAndQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.RecordDeadLink(ctx, "build-1", "[[Nope]]", "/blog/a-post"))
	require.NoError(t, store.RecordDeadLink(ctx, "build-1", "![[ghost.png]]", "/index"))

	links, err := store.DeadLinks(ctx, "build-1")
	require.NoError(t, err)
	require.Len(t, links, 2)
	require.Equal(t, "[[Nope]]", links[0].Token)
	require.Equal(t, "/blog/a-post", links[0].Note)
	require.Equal(t, "![[ghost.png]]", links[1].Token)

	n, err := store.CountDeadLinks(ctx, "build-1")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestSQLiteStore_DeduplicatesPerBuild(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.RecordDeadLink(ctx, "build-1", "[[Nope]]", "/first"))
	require.NoError(t, store.RecordDeadLink(ctx, "build-1", "[[Nope]]", "/second"))

	links, err := store.DeadLinks(ctx, "build-1")
	require.NoError(t, err)
	require.Len(t, links, 1)
	// The first referencing note wins on repeat.
	require.Equal(t, "/first", links[0].Note)
}

func TestSQLiteStore_BuildsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.RecordDeadLink(ctx, "build-1", "[[Nope]]", "/a"))
	require.NoError(t, store.RecordDeadLink(ctx, "build-2", "[[Nope]]", "/a"))
	require.NoError(t, store.RecordDeadLink(ctx, "build-2", "[[Other]]", "/b"))

	n, err := store.CountDeadLinks(ctx, "build-1")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = store.CountDeadLinks(ctx, "build-2")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestSQLiteStore_EmptyBuild(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	links, err := store.DeadLinks(ctx, "no-such-build")
	require.NoError(t, err)
	require.Empty(t, links)

	n, err := store.CountDeadLinks(ctx, "no-such-build")
	require.NoError(t, err)
	require.Zero(t, n)
}
