package transfer

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/chunkup/internal/logging"
	"github.com/dmitrijs2005/chunkup/internal/remote"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func names(records []remote.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func TestDirectory_SortsByNumericSuffix(t *testing.T) {
	store := remote.NewInMemory(0)
	// Arbitrary return order, including an index that sorts wrong
	// lexicographically.
	for _, name := range []string{"f.10", "f.2", "f.1", "f.9", "f.3"} {
		store.Seed(name, []byte(name))
	}

	d := NewDirectory(store, discardLogger())
	records, err := d.Records(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, []string{"f.1", "f.2", "f.3", "f.9", "f.10"}, names(records))
}

func TestDirectory_AccumulatesPagesWithThrottle(t *testing.T) {
	store := remote.NewInMemory(2)
	for _, name := range []string{"f.1", "f.2", "f.3", "f.4", "f.5"} {
		store.Seed(name, nil)
	}

	d := NewDirectory(store, discardLogger())
	var slept []time.Duration
	d.sleep = func(dur time.Duration) { slept = append(slept, dur) }

	records, err := d.Records(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, records, 5)

	// Three pages, a fixed delay between consecutive page queries.
	require.Equal(t, []time.Duration{pageDelay, pageDelay}, slept)
}

func TestDirectory_CacheIsReusedUntilRefresh(t *testing.T) {
	store := remote.NewInMemory(0)
	store.Seed("f.1", []byte("one"))

	d := NewDirectory(store, discardLogger())
	ctx := context.Background()

	records, err := d.Records(ctx, false)
	require.NoError(t, err)
	require.Len(t, records, 1)

	store.Seed("f.2", []byte("two"))

	records, err = d.Records(ctx, false)
	require.NoError(t, err)
	require.Len(t, records, 1, "cache must not pick up remote changes on its own")

	records, err = d.Records(ctx, true)
	require.NoError(t, err)
	require.Len(t, records, 2, "explicit refresh rebuilds the cache")
}

func TestDirectory_LookupByPosition(t *testing.T) {
	store := remote.NewInMemory(0)
	store.Seed("f.2", []byte("two"))
	store.Seed("f.1", []byte("one"))

	d := NewDirectory(store, discardLogger())
	ctx := context.Background()

	rec, err := d.Lookup(ctx, "f.2")
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, "f.2", rec.Name)

	// Beyond the cache: a partially uploaded backup, reported as absent.
	rec, err = d.Lookup(ctx, "f.3")
	require.NoError(t, err)
	require.Nil(t, rec)

	_, err = d.Lookup(ctx, "noindex")
	require.Error(t, err)
}

func TestDirectory_LookupNameMismatchIsAbsent(t *testing.T) {
	store := remote.NewInMemory(0)
	// Only chunk 2 exists; it lands at position 1, where chunk 1 would be.
	store.Seed("f.2", []byte("two"))

	d := NewDirectory(store, discardLogger())
	rec, err := d.Lookup(context.Background(), "f.1")
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestDirectory_RefreshIgnoresForeignObjects(t *testing.T) {
	store := remote.NewInMemory(0)
	store.Seed("f.1", []byte("one"))
	store.Seed("README", []byte("not a chunk"))

	d := NewDirectory(store, discardLogger())
	records, err := d.Records(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, []string{"f.1"}, names(records))
}

func TestDirectory_EmptyFolderCachesEmptyListing(t *testing.T) {
	store := remote.NewInMemory(0)
	lists := 0
	store.Hook = func(op string) error {
		if op == "list" {
			lists++
		}
		return nil
	}

	d := NewDirectory(store, discardLogger())
	ctx := context.Background()

	records, err := d.Records(ctx, false)
	require.NoError(t, err)
	require.Empty(t, records)

	_, err = d.Records(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 1, lists, "an empty listing is still a populated cache")
}
