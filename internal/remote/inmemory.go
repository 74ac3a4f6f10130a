package remote

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/chunkup/internal/chunk"
)

// InMemory implements Store entirely in process. It backs the engine tests
// and is handy for dry runs; it is not safe for concurrent use, matching
// the single-threaded transfer model.
type InMemory struct {
	pageSize int
	objects  []*memObject

	// Hook, when non-nil, runs before every operation and session step
	// with one of the op labels "list", "create", "update", "download",
	// "upload.next", "download.next". Returning an error fails that call;
	// tests use it to inject transient and fatal faults.
	Hook func(op string) error
}

type memObject struct {
	id   string
	name string
	data []byte
}

// NewInMemory returns an empty store that lists pageSize records per page
// (1000 when pageSize is not positive).
func NewInMemory(pageSize int) *InMemory {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &InMemory{pageSize: pageSize}
}

// Seed inserts an object directly, bypassing the upload protocol, and
// returns its id. Listing order is insertion order, so tests control the
// "arbitrary return order" of the store by seeding out of order.
func (m *InMemory) Seed(name string, data []byte) string {
	id := uuid.NewString()
	m.objects = append(m.objects, &memObject{id: id, name: name, data: append([]byte(nil), data...)})
	return id
}

// Object returns the stored bytes for name.
func (m *InMemory) Object(name string) ([]byte, bool) {
	for _, o := range m.objects {
		if o.name == name {
			return o.data, true
		}
	}
	return nil, false
}

func (m *InMemory) hook(op string) error {
	if m.Hook != nil {
		return m.Hook(op)
	}
	return nil
}

// List pages through the objects in insertion order.
func (m *InMemory) List(ctx context.Context, pageToken string) (Page, error) {
	if err := m.hook("list"); err != nil {
		return Page{}, err
	}

	start := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil {
			return Page{}, fmt.Errorf("bad page token %q: %w", pageToken, err)
		}
		start = n
	}

	end := start + m.pageSize
	if end > len(m.objects) {
		end = len(m.objects)
	}

	page := Page{Records: make([]Record, 0, end-start)}
	for _, o := range m.objects[start:end] {
		sum := md5.Sum(o.data)
		page.Records = append(page.Records, Record{
			ID:          o.id,
			Name:        o.name,
			Size:        int64(len(o.data)),
			ContentHash: hex.EncodeToString(sum[:]),
		})
	}
	if end < len(m.objects) {
		page.NextToken = strconv.Itoa(end)
	}
	return page, nil
}

// Create starts an upload that commits a new object under name (replacing
// any object already holding that name).
func (m *InMemory) Create(ctx context.Context, name string, media chunk.Media, contentHash string) (UploadSession, error) {
	if err := m.hook("create"); err != nil {
		return nil, err
	}
	return &memUpload{store: m, media: media, commit: func(data []byte) {
		for _, o := range m.objects {
			if o.name == name {
				o.data = data
				return
			}
		}
		m.objects = append(m.objects, &memObject{id: uuid.NewString(), name: name, data: data})
	}}, nil
}

// Update starts an upload that replaces the object with the given id.
func (m *InMemory) Update(ctx context.Context, id string, media chunk.Media, contentHash string) (UploadSession, error) {
	if err := m.hook("update"); err != nil {
		return nil, err
	}
	var target *memObject
	for _, o := range m.objects {
		if o.id == id {
			target = o
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	return &memUpload{store: m, media: media, commit: func(data []byte) {
		target.data = data
	}}, nil
}

// Download starts a sub-chunked read of the object with the given id.
func (m *InMemory) Download(ctx context.Context, id string, size, subChunkSize int64) (DownloadSession, error) {
	if err := m.hook("download"); err != nil {
		return nil, err
	}
	if subChunkSize <= 0 {
		subChunkSize = chunk.DefaultSubChunkSize
	}
	for _, o := range m.objects {
		if o.id == id {
			return &memDownload{store: m, data: o.data, subChunk: subChunkSize}, nil
		}
	}
	return nil, fmt.Errorf("download %s: %w", id, ErrNotFound)
}

// memUpload accumulates one sub-chunk per Next call and commits the object
// once the whole range has been read, mirroring a resumable session.
type memUpload struct {
	store  *InMemory
	media  chunk.Media
	commit func(data []byte)
	buf    []byte
	sent   int64
	done   bool
}

func (u *memUpload) Next(ctx context.Context) (Progress, bool, error) {
	size := u.media.Size()
	if err := u.store.hook("upload.next"); err != nil {
		return Progress{Done: u.sent, Total: size}, false, err
	}
	if u.done {
		return Progress{Done: u.sent, Total: size}, true, nil
	}

	if u.sent < size {
		n := u.media.SubChunkSize()
		if remaining := size - u.sent; n > remaining {
			n = remaining
		}
		piece := make([]byte, n)
		if _, err := io.ReadFull(io.NewSectionReader(u.media, u.sent, n), piece); err != nil {
			return Progress{Done: u.sent, Total: size}, false, err
		}
		u.buf = append(u.buf, piece...)
		u.sent += n
	}

	if u.sent >= size {
		u.commit(u.buf)
		u.done = true
	}
	return Progress{Done: u.sent, Total: size}, u.done, nil
}

func (u *memUpload) Abort(ctx context.Context) error {
	u.buf = nil
	u.done = true
	return nil
}

type memDownload struct {
	store    *InMemory
	data     []byte
	subChunk int64
	fetched  int64
}

func (d *memDownload) Next(ctx context.Context, w io.Writer) (Progress, bool, error) {
	size := int64(len(d.data))
	if err := d.store.hook("download.next"); err != nil {
		return Progress{Done: d.fetched, Total: size}, false, err
	}
	if d.fetched >= size {
		return Progress{Done: d.fetched, Total: size}, true, nil
	}

	end := d.fetched + d.subChunk
	if end > size {
		end = size
	}
	n, err := w.Write(d.data[d.fetched:end])
	d.fetched += int64(n)
	if err != nil {
		return Progress{Done: d.fetched, Total: size}, false, err
	}
	return Progress{Done: d.fetched, Total: size}, d.fetched >= size, nil
}
