package transfer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/chunkup/internal/chunk"
	"github.com/dmitrijs2005/chunkup/internal/filex"
	"github.com/dmitrijs2005/chunkup/internal/remote"
)

// Restore reconstructs the backed-up file at path from the remote folder,
// downloading chunks in ascending index order into their byte offsets.
// Chunks whose locally present bytes already match the remote checksum are
// left alone. The destination file is created if absent.
func (e *Engine) Restore(ctx context.Context, path string) error {
	records, err := e.dir.Records(ctx, false)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("folder %s holds no chunks to restore", e.opts.Folder)
	}

	if _, err := filex.EnsureParentDir(path); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o660)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	fileSize := fi.Size()

	var bytesDownloaded int64
	for i, rec := range records {
		e.log.Info(ctx, "beginning download of chunk",
			"chunk", rec.Name, "num", i+1, "of", len(records))

		err := e.retryChunk(ctx, rec.Name, func() error {
			return e.restoreChunk(ctx, f, fileSize, bytesDownloaded, rec)
		})
		if err != nil {
			return err
		}

		// Advanced by the full chunk size on every branch, downloaded or
		// skipped; the next chunk's offset depends on it.
		bytesDownloaded += rec.Size
	}

	e.log.Info(ctx, "restore complete",
		"file", path, "folder", e.opts.Folder, "chunks", len(records), "bytes", bytesDownloaded)
	return nil
}

// restoreChunk places one chunk at offset. When the local file already
// spans the chunk's range, the present bytes are classified first and the
// download is skipped if they match the remote checksum; a shorter file
// downloads directly.
func (e *Engine) restoreChunk(ctx context.Context, f *os.File, fileSize, offset int64, rec remote.Record) error {
	if fileSize >= offset+rec.Size {
		view, err := chunk.NewView(f, fileSize, offset, offset+rec.Size, e.opts.SubChunkSize)
		if err != nil {
			return err
		}

		outcome, err := e.dir.Classify(ctx, view, rec.Name)
		if err != nil {
			return err
		}
		if !outcome.Changed {
			e.log.Info(ctx, "chunk is already up to date", "chunk", rec.Name)
			return nil
		}
		if outcome.RemoteID == "" {
			// The directory listed this chunk, yet classification found
			// no object for its name.
			return fmt.Errorf("chunk %s vanished from the backup: %w", rec.Name, ErrIntegrity)
		}
		return e.downloadChunk(ctx, f, offset, rec)
	}

	return e.downloadChunk(ctx, f, offset, rec)
}

// downloadChunk runs one chunk's download loop: seek the local file to the
// chunk's offset, then advance the session one wire sub-chunk at a time
// with the same transient-retry policy the upload loop uses.
func (e *Engine) downloadChunk(ctx context.Context, f *os.File, offset int64, rec remote.Record) error {
	sess, err := e.store.Download(ctx, rec.ID, rec.Size, e.opts.SubChunkSize)
	if err != nil {
		return fmt.Errorf("start download of chunk %s: %w", rec.Name, err)
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %w", offset, err)
	}

	b := e.newBackoff()
	for {
		progress, done, err := sess.Next(ctx, f)
		if err != nil {
			if remote.IsTransient(err) {
				e.log.Warn(ctx, "transient error, retrying with increasing backoff",
					"chunk", rec.Name, "wait", b.WaitTime(), "error", err)
				if werr := b.Wait(ctx); werr != nil {
					return werr
				}
				continue
			}
			return fmt.Errorf("download chunk %s: %w", rec.Name, err)
		}
		b.Reset()

		if done {
			e.log.Info(ctx, "download of chunk complete", "chunk", rec.Name)
			return nil
		}
		e.log.Info(ctx, "chunk download progress", "chunk", rec.Name, "percent", progress.Percent())
	}
}
