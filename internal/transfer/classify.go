package transfer

import (
	"context"

	"github.com/dmitrijs2005/chunkup/internal/chunk"
)

// Outcome is the change-detection verdict for one chunk.
//
// Changed=false: the remote content hash equals the local one, nothing to
// transfer. Changed=true with an empty RemoteID: no remote object with this
// name exists, create it. Changed=true with a RemoteID: the object exists
// but its content differs, update it in place.
type Outcome struct {
	Changed  bool
	RemoteID string

	// LocalHash is the media's MD5 hex digest when classification had to
	// compute it; empty when the chunk was absent remotely.
	LocalHash string
}

// Classify looks the chunk name up in the directory and, when a record is
// present, compares its stored content hash against the local digest.
// Re-running it against an unmodified chunk and store always yields
// Changed=false.
func (d *Directory) Classify(ctx context.Context, media chunk.Media, name string) (Outcome, error) {
	rec, err := d.Lookup(ctx, name)
	if err != nil {
		return Outcome{}, err
	}
	if rec == nil {
		return Outcome{Changed: true}, nil
	}

	local, err := chunk.HashMedia(media)
	if err != nil {
		return Outcome{}, err
	}
	if local == rec.ContentHash {
		return Outcome{Changed: false, LocalHash: local}, nil
	}
	return Outcome{Changed: true, RemoteID: rec.ID, LocalHash: local}, nil
}
