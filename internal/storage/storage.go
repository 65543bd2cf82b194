// Package storage defines the blob-store contract the handlers talk to and
// its Google Cloud Storage implementation. The delivery table and the role
// workbook are opaque byte blobs addressed by object key.
package storage

import (
	"context"
	"errors"
)

// UnconditionalWrite disables the generation precondition on Upload.
const UnconditionalWrite int64 = -1

var (
	// ErrNotFound reports a missing blob.
	ErrNotFound = errors.New("blob no existe")
	// ErrPreconditionFailed reports that the blob changed since it was
	// downloaded; the caller's read-modify-write lost the race.
	ErrPreconditionFailed = errors.New("el archivo cambió desde la descarga")
)

// Store is the byte-level contract shared by the GCS client and the Graph
// drive client.
type Store interface {
	// Download returns the blob bytes and its generation (version) token.
	// Backends without generations return 0.
	Download(ctx context.Context, key string) ([]byte, int64, error)
	// Upload overwrites the blob. When ifGeneration >= 0 the write only
	// succeeds if the live blob still has that generation (0 means the
	// blob must not exist yet); otherwise ErrPreconditionFailed.
	Upload(ctx context.Context, key string, data []byte, ifGeneration int64) error
}
