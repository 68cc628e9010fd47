// Package storage defines the vault file-system abstraction.
package storage

import (
	"path/filepath"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// Provider is the interface for vault file operations.
type Provider interface {
	// List returns metadata for every note file under dir (relative to vault root).
	List(dir string) ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to vault root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to vault root).
	Delete(path string) error
	// Move renames oldPath to newPath (both relative to vault root).
	Move(oldPath, newPath string) error
}

// IsNoteFile reports whether path names a file the vault treats as a note.
// Markdown and plain text files qualify; everything else is an attachment
// or noise.
func IsNoteFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".txt":
		return true
	}
	return false
}
