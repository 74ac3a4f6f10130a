// Package chunk models the unit of transfer for a chunked backup: the
// partition plan over a local file, a bounded byte-range view used both for
// hashing and for uploads, the streaming MD5 hasher, and the F.i naming
// convention for remote chunk objects.
package chunk
