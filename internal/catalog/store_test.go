package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"listgrip/internal/controller"
	"listgrip/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func addEntries(t *testing.T, store *Store, n int, kind string) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		err := store.Add(ctx, domain.Entry{
			ID:      fmt.Sprintf("%s-%03d", kind, i),
			Title:   fmt.Sprintf("sample %s %d", kind, i),
			Kind:    kind,
			Tags:    []string{"sample", kind},
			AddedAt: base.Add(-time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
}

func TestAddAndCount(t *testing.T) {
	store := openTestStore(t)

	addEntries(t, store, 5, domain.KindNote)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestSearchMatchesTitleAndTags(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, domain.Entry{
		ID: "a", Title: "Effective Go", Kind: domain.KindBookmark,
		Tags: []string{"reading"}, AddedAt: time.Now(),
	}))
	require.NoError(t, store.Add(ctx, domain.Entry{
		ID: "b", Title: "Shopping list", Kind: domain.KindNote,
		Tags: []string{"golang", "tips"}, AddedAt: time.Now(),
	}))

	// Title match, case-insensitive
	results, err := store.Search(ctx, "effective", "", 1, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "a", results[0].ID)

	// Tag match
	results, err = store.Search(ctx, "golang", "", 1, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "b", results[0].ID)
	require.Equal(t, []string{"golang", "tips"}, results[0].Tags)
}

func TestSearchPagination(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	addEntries(t, store, 23, domain.KindNote)

	page1, err := store.Search(ctx, "sample", "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page1, 10)

	page2, err := store.Search(ctx, "sample", "", 2, 10)
	require.NoError(t, err)
	require.Len(t, page2, 10)

	// The shortfall on the last page signals end-of-data to the controller
	page3, err := store.Search(ctx, "sample", "", 3, 10)
	require.NoError(t, err)
	require.Len(t, page3, 3)

	// Newest first, no overlap between pages
	seen := make(map[string]bool)
	for _, e := range append(append(page1, page2...), page3...) {
		require.False(t, seen[e.ID], "entry %s returned twice", e.ID)
		seen[e.ID] = true
	}
	require.Equal(t, "note-000", page1[0].ID, "ordering is newest first")
}

func TestSearchKindFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	addEntries(t, store, 4, domain.KindNote)
	addEntries(t, store, 3, domain.KindBookmark)

	notes, err := store.Search(ctx, "sample", domain.KindFilter(domain.KindNote), 1, 10)
	require.NoError(t, err)
	require.Len(t, notes, 4)
	for _, e := range notes {
		require.Equal(t, domain.KindNote, e.Kind)
	}

	all, err := store.Search(ctx, "sample", "", 1, 10)
	require.NoError(t, err)
	require.Len(t, all, 7)
}

func TestSearchRejectsBadArguments(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Search(ctx, "x", "", 0, 10)
	require.Error(t, err)

	_, err = store.Search(ctx, "x", "", 1, 0)
	require.Error(t, err)
}

func TestSeedPopulatesCatalog(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx, 30))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 30, n)

	// Seeded entries cycle through the known kinds
	bookmarks, err := store.Search(ctx, "", domain.KindFilter(domain.KindBookmark), 1, 50)
	require.NoError(t, err)
	require.Equal(t, 10, len(bookmarks))
	for _, e := range bookmarks {
		require.NotEmpty(t, e.URL, "bookmarks are seeded with URLs")
	}
}

func TestFetcherDrivesController(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	addEntries(t, store, 12, domain.KindNote)

	fetch := store.Fetcher(10)
	results, err := fetch(ctx, controller.Request[domain.KindFilter]{Query: "sample", Page: 1})
	require.NoError(t, err)
	require.Len(t, results, 10)

	results, err = fetch(ctx, controller.Request[domain.KindFilter]{Query: "sample", Page: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
}
