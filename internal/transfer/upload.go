package transfer

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/chunkup/internal/chunk"
	"github.com/dmitrijs2005/chunkup/internal/remote"
)

// Backup splits the local file at path into chunks and uploads every chunk
// whose content hash differs from the remote copy, in ascending index
// order. Chunks already up to date are skipped without a transfer.
func (e *Engine) Backup(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	fileSize := fi.Size()

	spans, err := chunk.Plan(fileSize, e.opts.ChunkSize)
	if err != nil {
		return err
	}

	var bytesUploaded int64
	for _, span := range spans {
		view, err := chunk.NewView(f, fileSize, span.Begin, span.End, e.opts.SubChunkSize)
		if err != nil {
			return err
		}
		name := chunk.Name(e.opts.Folder, span.Index)

		err = e.retryChunk(ctx, name, func() error {
			return e.uploadChunk(ctx, view, name, span.Index, len(spans))
		})
		if err != nil {
			return err
		}

		// Advanced by the full chunk size on every branch, transferred
		// or skipped; later offsets depend on it.
		bytesUploaded += span.Size()
	}

	e.log.Info(ctx, "backup complete",
		"file", path, "folder", e.opts.Folder, "chunks", len(spans), "bytes", bytesUploaded)
	return nil
}

// uploadChunk runs one chunk's upload state machine: classify, choose
// create vs update, then advance the resumable session one wire sub-chunk
// at a time, retrying transient failures with increasing backoff.
func (e *Engine) uploadChunk(ctx context.Context, view *chunk.View, name string, num, total int) error {
	e.log.Info(ctx, "beginning upload of chunk", "chunk", name, "num", num, "of", total)

	outcome, err := e.dir.Classify(ctx, view, name)
	if err != nil {
		return err
	}
	if !outcome.Changed {
		e.log.Info(ctx, "chunk is already up to date", "chunk", name)
		return nil
	}

	hash := outcome.LocalHash
	if hash == "" {
		if hash, err = chunk.HashMedia(view); err != nil {
			return err
		}
	}

	var sess remote.UploadSession
	if outcome.RemoteID == "" {
		sess, err = e.store.Create(ctx, name, view, hash)
	} else {
		sess, err = e.store.Update(ctx, outcome.RemoteID, view, hash)
	}
	if err != nil {
		return fmt.Errorf("start upload of chunk %s: %w", name, err)
	}

	b := e.newBackoff()
	for {
		progress, done, err := sess.Next(ctx)
		if err != nil {
			if remote.IsTransient(err) {
				e.log.Warn(ctx, "transient error, retrying with increasing backoff",
					"chunk", name, "wait", b.WaitTime(), "error", err)
				if werr := b.Wait(ctx); werr != nil {
					return werr
				}
				continue
			}
			_ = sess.Abort(ctx)
			return fmt.Errorf("upload chunk %s: %w", name, err)
		}
		b.Reset()

		if done {
			e.log.Info(ctx, "upload of chunk complete", "chunk", name)
			return nil
		}
		e.log.Info(ctx, "chunk upload progress", "chunk", name, "percent", progress.Percent())
	}
}
