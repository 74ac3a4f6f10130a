package chunk

import (
	"bytes"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func viewOver(t *testing.T, data []byte, begin, end, subChunk int64) *View {
	t.Helper()
	v, err := NewView(bytes.NewReader(data), int64(len(data)), begin, end, subChunk)
	require.NoError(t, err)
	return v
}

func TestHashMedia_MatchesReferenceDigest(t *testing.T) {
	data := make([]byte, 10_000)
	_, err := rand.Read(data)
	require.NoError(t, err)

	// Sub-chunk deliberately not a divisor of the range length.
	v := viewOver(t, data, 100, 9_300, 777)

	got, err := HashMedia(v)
	require.NoError(t, err)

	want := md5.Sum(data[100:9_300])
	require.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestHashMedia_Deterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	first, err := HashMedia(viewOver(t, data, 0, int64(len(data)), 8))
	require.NoError(t, err)

	second, err := HashMedia(viewOver(t, data, 0, int64(len(data)), 8))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestHashMedia_DiffersForDifferentBytes(t *testing.T) {
	a, err := HashMedia(viewOver(t, []byte("aaaaaaaa"), 0, 8, 4))
	require.NoError(t, err)

	b, err := HashMedia(viewOver(t, []byte("aaaaaaab"), 0, 8, 4))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestHashMedia_EmptyRange(t *testing.T) {
	got, err := HashMedia(viewOver(t, []byte("abc"), 1, 1, 4))
	require.NoError(t, err)

	want := md5.Sum(nil)
	require.Equal(t, hex.EncodeToString(want[:]), got)
}

// truncatedMedia reports a larger size than its reader can deliver.
type truncatedMedia struct {
	*View
	claimed int64
}

func (m *truncatedMedia) Size() int64 { return m.claimed }

func TestHashMedia_ShortRangeIsAnError(t *testing.T) {
	v := viewOver(t, []byte("abcd"), 0, 4, 2)

	_, err := HashMedia(&truncatedMedia{View: v, claimed: 10})
	require.Error(t, err)
}
