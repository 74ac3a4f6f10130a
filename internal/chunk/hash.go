package chunk

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// HashMedia computes the MD5 digest of m as a lowercase hex string, reading
// the range in SubChunkSize pieces so arbitrarily large chunks are never
// held in memory at once. MD5 matches the content hash the remote store
// reports for its objects, so digests are comparable without re-encoding.
//
// Exactly Size() bytes are hashed; a range that ends early is an error, not
// a silent short hash.
func HashMedia(m Media) (string, error) {
	h := md5.New()
	buf := make([]byte, m.SubChunkSize())

	var hashed int64
	for hashed < m.Size() {
		n, err := m.ReadAt(buf, hashed)
		if n > 0 {
			h.Write(buf[:n])
			hashed += int64(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) && hashed == m.Size() {
				break
			}
			return "", fmt.Errorf("hash chunk at offset %d: %w", hashed, err)
		}
		if n == 0 {
			return "", fmt.Errorf("hash chunk at offset %d: %w", hashed, io.ErrUnexpectedEOF)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
