// Package audiometa reads embedded tags from uploaded audio. Everything
// here is best effort: an unreadable or untagged file yields an error that
// callers are expected to swallow.
package audiometa

import (
	"io"

	"github.com/dhowden/tag"
)

// Info is the subset of embedded tag data the service records per track.
type Info struct {
	Format string
	Title  string
	Artist string
}

// Probe reads tags from r. The reader must be positioned at the start of
// the file; tag sniffs the container format itself.
func Probe(r io.ReadSeeker) (Info, error) {
	m, err := tag.ReadFrom(r)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Format: string(m.FileType()),
		Title:  m.Title(),
		Artist: m.Artist(),
	}, nil
}
