// Package assets owns the uploaded files referenced by submission records.
// Files live under a per-submission prefix keyed by the submission id and
// are addressed by paths relative to the uploads root.
package assets

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound indicates a single dangling asset path. Callers such as
	// archive export tolerate it by skipping the entry.
	ErrNotFound = errors.New("asset not found")

	// ErrAssetsMissing indicates an entire submission prefix is absent.
	ErrAssetsMissing = errors.New("submission assets missing")
)

// Store places and serves uploaded files. Place preserves the original
// filename under the submission's prefix; a duplicate name within one
// submission is overwritten (last write wins).
type Store interface {
	Place(ctx context.Context, submissionID, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, relPath string) (io.ReadCloser, error)
	SubmissionExists(ctx context.Context, submissionID string) (bool, error)
}
