// Package storage defines the feed inbox and archive file-system abstraction.
//
// Layout under the root:
//
//	satcat/            incoming SATCAT files
//	tle/               incoming three-line TLE files
//	processed/<kind>/  ingested inbox files
//	failed/<kind>/     inbox files that could not be ingested
//	archive/<source>/  raw payloads downloaded by the fetcher
package storage

import (
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/satcat/internal/models"
)

// Top-level directories of the inbox.
const (
	DirProcessed = "processed"
	DirFailed    = "failed"
	DirArchive   = "archive"
)

// Provider is the interface for inbox file operations. Paths are relative to
// the inbox root.
type Provider interface {
	// List returns metadata for every regular, non-hidden file under dir.
	List(dir string) ([]models.FeedFile, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
}

// KindOf returns the feed kind encoded in the first path element of an inbox
// path, or "" when the path is not under a feed directory.
func KindOf(p string) string {
	first, _, _ := strings.Cut(filepath.ToSlash(p), "/")
	switch first {
	case models.FeedSatcat, models.FeedTLE:
		return first
	}
	return ""
}

const stampLayout = "20060102T150405.000000000Z"

// ArchivePath is where a payload downloaded from source at t is kept.
func ArchivePath(source string, t time.Time) string {
	return path.Join(DirArchive, source, t.UTC().Format(stampLayout)+".txt")
}

// RetirePath returns where an inbox file moves once handled: dir is
// DirProcessed or DirFailed and the original kind directory is kept.
func RetirePath(dir, p string, t time.Time) string {
	p = filepath.ToSlash(p)
	return path.Join(dir, path.Dir(p), t.UTC().Format(stampLayout)+"-"+path.Base(p))
}
