// Package transfer drives chunked backup and restore of a single file
// against a remote object store. It holds the cached remote chunk
// directory, decides per chunk whether a transfer is needed by comparing
// MD5 digests, and runs the resumable per-sub-chunk transfer loops with
// increasing backoff on transient failures.
package transfer
