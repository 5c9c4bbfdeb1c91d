// Package storage defines the content-directory file-system abstraction.
package storage

import "time"

// FileMeta is lightweight metadata for one content file.
type FileMeta struct {
	Path      string
	Checksum  string
	UpdatedAt time.Time
}

// Provider is the interface for content file operations. Paths are always
// relative to the content root.
type Provider interface {
	// List returns metadata for every file under dir with the given
	// extension (e.g. ".md").
	List(dir, ext string) ([]FileMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path. Only the scheduled
	// generators (news, puzzle) write; article content is read-only.
	Write(path string, content []byte) error
}
