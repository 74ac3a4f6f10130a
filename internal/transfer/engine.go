package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/chunkup/internal/backoff"
	"github.com/dmitrijs2005/chunkup/internal/chunk"
	"github.com/dmitrijs2005/chunkup/internal/logging"
	"github.com/dmitrijs2005/chunkup/internal/remote"
)

// DefaultChunkSize is the remote split granularity when none is configured:
// 250 MB (decimal) per chunk object.
const DefaultChunkSize = 250 * 1000 * 1000

// ErrIntegrity reports that the cached directory and the actual remote
// state have diverged: the directory claims a chunk name exists but
// classification resolved no id for it. A restore aborts on it outright.
var ErrIntegrity = errors.New("chunk directory out of sync with remote store")

// Options configures an Engine.
type Options struct {
	// Folder is the remote folder name; it is also the stem of every
	// chunk object name ("<folder>.<index>").
	Folder string

	// ChunkSize is the remote split granularity in bytes.
	ChunkSize int64

	// SubChunkSize is the wire transfer and hash read granularity in
	// bytes.
	SubChunkSize int64

	// Backoff parameters for transfer retries; zero values select the
	// backoff package defaults.
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  int
}

func (o *Options) normalize() {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.SubChunkSize <= 0 {
		o.SubChunkSize = chunk.DefaultSubChunkSize
	}
}

// Engine runs chunked backups and restores against one remote folder.
// It is single-threaded: chunks are processed strictly in ascending index
// order, one transfer step at a time.
type Engine struct {
	store remote.Store
	dir   *Directory
	log   logging.Logger
	opts  Options

	newBackoff func() *backoff.Backoff
}

// NewEngine builds an Engine over store scoped to opts.Folder.
func NewEngine(store remote.Store, log logging.Logger, opts Options) *Engine {
	opts.normalize()
	return &Engine{
		store: store,
		dir:   NewDirectory(store, log),
		log:   log,
		opts:  opts,
		newBackoff: func() *backoff.Backoff {
			return backoff.New(opts.InitialWait, opts.MaxWait, opts.Multiplier)
		},
	}
}

// retryChunk runs one chunk's whole state machine and, if it fails in a
// restartable way, waits and restarts it from classification once with a
// fresh resumable session before giving up the run. Integrity and
// cancellation errors are not restartable.
func (e *Engine) retryChunk(ctx context.Context, name string, attempt func() error) error {
	b := e.newBackoff()

	var lastErr error
	for try := 0; try < 2; try++ {
		err := attempt()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrIntegrity) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		lastErr = err
		if try == 0 {
			e.log.Warn(ctx, "chunk failed in a non-resumable way, restarting",
				"chunk", name, "wait", b.WaitTime(), "error", err)
			if werr := b.Wait(ctx); werr != nil {
				return werr
			}
		}
	}
	return lastErr
}
