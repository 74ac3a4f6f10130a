package remote

import (
	"context"
	"io"

	"github.com/dmitrijs2005/chunkup/internal/chunk"
)

// Record is one entry of a remote folder listing, mirrored read-only into
// the directory cache. ID is an opaque handle meaningful only to the store
// that produced it.
type Record struct {
	ID          string
	Name        string
	Size        int64
	ContentHash string
}

// Page is one page of a folder listing. An empty NextToken means the
// listing is complete.
type Page struct {
	Records   []Record
	NextToken string
}

// Progress reports how far a transfer session has advanced.
type Progress struct {
	Done  int64
	Total int64
}

// Percent returns the completed share of the transfer as 0-100.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 100
	}
	return int(p.Done * 100 / p.Total)
}

// UploadSession is a resumable upload of one chunk. Each Next call advances
// the transfer by one wire sub-chunk; bytes acknowledged by a previous call
// are never re-sent, so a failed call can simply be retried.
type UploadSession interface {
	// Next uploads the next sub-chunk. done reports whether the whole
	// chunk has been committed remotely.
	Next(ctx context.Context) (p Progress, done bool, err error)

	// Abort discards any partially uploaded state. Best effort; used when
	// a chunk fails fatally mid-session.
	Abort(ctx context.Context) error
}

// DownloadSession is a resumable download of one chunk. Each Next call
// fetches the next wire sub-chunk and writes it to w; the session tracks
// its own position, so sequential calls with the same writer reassemble the
// chunk in order.
type DownloadSession interface {
	Next(ctx context.Context, w io.Writer) (p Progress, done bool, err error)
}

// Store is the remote object store scoped to one backup folder. Chunk names
// follow the <folder>.<index> convention; ids are whatever the concrete
// store returned in its listing.
type Store interface {
	// List returns one page of the non-trashed objects in the folder.
	// Pass an empty pageToken for the first page and the previous page's
	// NextToken afterwards.
	List(ctx context.Context, pageToken string) (Page, error)

	// Create starts a resumable upload of a new object under name.
	// contentHash is the MD5 hex digest of media, recorded with the
	// object so later listings can report it.
	Create(ctx context.Context, name string, media chunk.Media, contentHash string) (UploadSession, error)

	// Update starts a resumable upload replacing the object with the
	// given id in place.
	Update(ctx context.Context, id string, media chunk.Media, contentHash string) (UploadSession, error)

	// Download starts a resumable download of the object with the given
	// id. size is the object size from its listing record; subChunkSize
	// is the wire granularity of the individual fetches.
	Download(ctx context.Context, id string, size, subChunkSize int64) (DownloadSession, error)
}
