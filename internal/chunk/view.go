package chunk

import (
	"errors"
	"io"
)

// DefaultSubChunkSize is the read/transfer granularity used when the caller
// does not configure one (1 MiB).
const DefaultSubChunkSize = 1 * 1024 * 1024

var (
	// ErrOffsetOutOfBounds is returned when a view's window falls outside
	// the underlying file.
	ErrOffsetOutOfBounds = errors.New("offset out of bounds")

	// ErrInvalidChunkSize is returned when a sub-chunk size is not positive.
	ErrInvalidChunkSize = errors.New("invalid chunk size")
)

// Media is the capability interface the hasher and the transfer sessions
// depend on: a fixed-size byte range readable at arbitrary offsets in
// bounded pieces. Offsets passed to ReadAt are relative to the start of the
// range, not to the start of the underlying file.
type Media interface {
	io.ReaderAt

	// Size returns the length of the byte range in bytes.
	Size() int64

	// SubChunkSize returns the wire/hash read granularity.
	SubChunkSize() int64

	// ContentType returns the MIME type stored with the remote object.
	ContentType() string

	// Resumable reports whether the range should be transferred with a
	// resumable multi-round session.
	Resumable() bool
}

// View exposes the window [begin, end) of an underlying file as a Media.
// It never returns bytes outside the window; reads that would cross the end
// are clipped. A View is created per chunk and discarded after the chunk's
// transfer completes.
type View struct {
	r        io.ReaderAt
	begin    int64
	end      int64
	subChunk int64
}

// NewView builds a View over r restricted to [begin, end).
//
// fileSize is the total length of the underlying file; construction fails
// with ErrOffsetOutOfBounds if the window does not satisfy
// 0 <= begin <= end <= fileSize, and with ErrInvalidChunkSize if
// subChunkSize is negative. A zero subChunkSize selects
// DefaultSubChunkSize.
func NewView(r io.ReaderAt, fileSize, begin, end, subChunkSize int64) (*View, error) {
	if begin < 0 || end < 0 || begin > fileSize || end > fileSize || begin > end {
		return nil, ErrOffsetOutOfBounds
	}
	if subChunkSize < 0 {
		return nil, ErrInvalidChunkSize
	}
	if subChunkSize == 0 {
		subChunkSize = DefaultSubChunkSize
	}
	return &View{r: r, begin: begin, end: end, subChunk: subChunkSize}, nil
}

// Size returns the length of the window.
func (v *View) Size() int64 {
	return v.end - v.begin
}

// SubChunkSize returns the configured read granularity.
func (v *View) SubChunkSize() int64 {
	return v.subChunk
}

// ContentType returns the MIME type for chunk objects.
func (v *View) ContentType() string {
	return "application/octet-stream"
}

// Resumable reports that chunk transfers use resumable sessions.
func (v *View) Resumable() bool {
	return true
}

// ReadAt reads from the window at the relative offset off, clipping the
// read so it never crosses the end of the window. It follows the io.ReaderAt
// contract: a read that is shortened by the window boundary returns io.EOF
// alongside the bytes read.
func (v *View) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrOffsetOutOfBounds
	}
	abs := v.begin + off
	if abs >= v.end {
		return 0, io.EOF
	}
	clipped := false
	if abs+int64(len(p)) > v.end {
		p = p[:v.end-abs]
		clipped = true
	}
	n, err := v.r.ReadAt(p, abs)
	if err == nil && clipped {
		err = io.EOF
	}
	return n, err
}
