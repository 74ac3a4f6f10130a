// Package remote defines the object-store contract the transfer engine
// drives: a folder-scoped listing with pagination, resumable create/update
// upload sessions, and ranged download sessions. The S3 implementation binds
// the contract to an S3-compatible service; InMemory provides the same
// contract in-process for tests.
package remote
