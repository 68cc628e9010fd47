package tui

import (
	"github.com/starford/ansuz/internal/noteservice"
)

// NotesLoadedMsg indicates the sidebar listing has been loaded
type NotesLoadedMsg struct {
	Notes []noteservice.NoteListItem
}

// NoteOpenedMsg indicates a note has been read and is ready to display
type NoteOpenedMsg struct {
	Note *noteservice.NoteDetail
}

// LinkResolvedMsg indicates a wiki-link resolved to a stored note
type LinkResolvedMsg struct {
	Target string
	Path   string
}

// LinkUnresolvedMsg indicates a wiki-link has no matching note
type LinkUnresolvedMsg struct {
	Target string
}

// ExternalLinkMsg carries a URL the user activated
type ExternalLinkMsg struct {
	URL string
}

// ReplaceDoneMsg reports the outcome of a replace or replace-all
type ReplaceDoneMsg struct {
	Count int
	All   bool
	Err   error
}

// StatusMsg sets a transient status line
type StatusMsg struct {
	Text string
}

// ErrorMsg represents an error
type ErrorMsg struct {
	Err error
}
