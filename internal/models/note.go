// Package models defines the domain types for Ansuz.
package models

import (
	"strings"
	"time"

	"github.com/starford/ansuz/internal/annotate"
)

// NoteKind says how a note's content should be treated by renderers.
type NoteKind string

const (
	KindMarkdown NoteKind = "markdown"
	KindPlain    NoteKind = "plain"
)

// KindForPath derives the note kind from the file extension. Everything
// that is not .txt renders as Markdown.
func KindForPath(path string) NoteKind {
	if strings.HasSuffix(strings.ToLower(path), ".txt") {
		return KindPlain
	}
	return KindMarkdown
}

// Note represents a parsed note file in the vault.
type Note struct {
	Path        string                 `json:"path"`
	Kind        NoteKind               `json:"kind"`
	Content     []byte                 `json:"-"`
	Body        string                 `json:"body"`
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Links       []string               `json:"links,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Annotations []annotate.Span        `json:"annotations,omitempty"`
	Checksum    string                 `json:"checksum"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Link represents a directed edge between two notes.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"` // "inline" or "frontmatter"
}
