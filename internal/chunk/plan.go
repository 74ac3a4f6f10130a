package chunk

// Span is one element of a partition plan: the chunk's one-based index and
// its byte range [Begin, End) in the source file.
type Span struct {
	Index int
	Begin int64
	End   int64
}

// Size returns the length of the span in bytes.
func (s Span) Size() int64 {
	return s.End - s.Begin
}

// Plan partitions a file of fileSize bytes into ceil(fileSize/chunkSize)
// contiguous, non-overlapping spans whose union is [0, fileSize). The final
// span is truncated to the file size.
func Plan(fileSize, chunkSize int64) ([]Span, error) {
	if chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if fileSize < 0 {
		return nil, ErrOffsetOutOfBounds
	}

	n := (fileSize + chunkSize - 1) / chunkSize
	spans := make([]Span, 0, n)
	for i := int64(0); i < n; i++ {
		begin := i * chunkSize
		end := begin + chunkSize
		if end > fileSize {
			end = fileSize
		}
		spans = append(spans, Span{Index: int(i) + 1, Begin: begin, End: end})
	}
	return spans, nil
}
