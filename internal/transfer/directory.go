package transfer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/chunkup/internal/chunk"
	"github.com/dmitrijs2005/chunkup/internal/logging"
	"github.com/dmitrijs2005/chunkup/internal/remote"
)

// pageDelay is slept between listing pages to stay under the store's
// per-user request-rate budget (~1000 requests / 100 s).
const pageDelay = 90 * time.Millisecond

// Directory is the cached, ordered view of the chunks present in the
// remote folder. It is populated by one full paginated listing and reused
// for the remainder of a run; concurrent external modification of the
// folder during a run is a documented limitation, not handled here.
type Directory struct {
	store remote.Store
	log   logging.Logger

	// cache is nil until the first refresh. After a refresh it is sorted
	// ascending by the numeric suffix of each record's name, so position
	// i-1 holds chunk i.
	cache []remote.Record

	sleep func(d time.Duration)
}

// NewDirectory returns an empty directory over store. The first Records or
// Lookup call triggers the listing.
func NewDirectory(store remote.Store, log logging.Logger) *Directory {
	return &Directory{store: store, log: log, sleep: time.Sleep}
}

// Records returns the cached listing, querying the store first if the
// cache has never been populated or refresh is set.
func (d *Directory) Records(ctx context.Context, refresh bool) ([]remote.Record, error) {
	if d.cache == nil || refresh {
		if err := d.refresh(ctx); err != nil {
			return nil, err
		}
	}
	return d.cache, nil
}

// Lookup resolves a chunk name against the cache in O(1) by using the
// parsed index as the position in the sorted sequence. A cache shorter
// than the index means the chunk is absent (a partially uploaded backup
// being re-verified), reported as a nil record, not an error.
func (d *Directory) Lookup(ctx context.Context, name string) (*remote.Record, error) {
	if d.cache == nil {
		if err := d.refresh(ctx); err != nil {
			return nil, err
		}
	}

	idx, err := chunk.ParseIndex(name)
	if err != nil {
		return nil, err
	}
	if idx < 1 || idx > len(d.cache) {
		return nil, nil
	}

	rec := d.cache[idx-1]
	if rec.Name != name {
		return nil, nil
	}
	return &rec, nil
}

func (d *Directory) refresh(ctx context.Context) error {
	records := []remote.Record{}

	token := ""
	for {
		page, err := d.store.List(ctx, token)
		if err != nil {
			return fmt.Errorf("refresh chunk directory: %w", err)
		}
		records = append(records, page.Records...)
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
		d.sleep(pageDelay)
	}

	// Reconstruct index order independent of the store's return order;
	// restore depends on directory order equaling chunk order.
	keep := records[:0]
	for _, rec := range records {
		if _, err := chunk.ParseIndex(rec.Name); err != nil {
			d.log.Warn(ctx, "ignoring object without chunk suffix", "name", rec.Name)
			continue
		}
		keep = append(keep, rec)
	}
	records = keep
	sort.Slice(records, func(i, j int) bool {
		a, _ := chunk.ParseIndex(records[i].Name)
		b, _ := chunk.ParseIndex(records[j].Name)
		return a < b
	})

	d.cache = records
	return nil
}
