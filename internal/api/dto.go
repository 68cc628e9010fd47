package api

import (
	"github.com/starford/ansuz/internal/annotate"
	"github.com/starford/ansuz/internal/noteservice"
	"github.com/starford/ansuz/internal/search"
	"github.com/starford/ansuz/internal/segment"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Path    string `json:"path" example:"notes/hello.md" validate:"required"`
	Content string `json:"content" example:"# Hello\nWorld" validate:"required"`
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Content string `json:"content" example:"# Updated\nContent" validate:"required"`
}

// RenameNoteRequest is the request body for renaming a note.
type RenameNoteRequest struct {
	From string `json:"from" example:"inbox/draft.md" validate:"required"`
	To   string `json:"to" example:"topics/final.md" validate:"required"`
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"notes/hello.md" validate:"required"`
	Title   string `json:"title" example:"Hello" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// GraphNode is a node in the knowledge graph.
type GraphNode struct {
	ID    string `json:"id" example:"notes/hello.md" validate:"required"`
	Title string `json:"title,omitempty" example:"Hello"`
}

// GraphLink is an edge in the knowledge graph.
type GraphLink struct {
	Source string `json:"source" example:"notes/hello.md" validate:"required"`
	Target string `json:"target" example:"notes/world.md" validate:"required"`
}

// GraphResponse wraps the knowledge graph.
type GraphResponse struct {
	Nodes []GraphNode `json:"nodes" validate:"required"`
	Links []GraphLink `json:"links" validate:"required"`
}

// AnnotationsResponse carries the extracted spans and renderable segments
// for a stored note.
type AnnotationsResponse struct {
	Path        string            `json:"path" example:"notes/hello.md" validate:"required"`
	Annotations []annotate.Span   `json:"annotations" validate:"required"`
	Segments    []segment.Segment `json:"segments" validate:"required"`
}

// ResolveResponse is the result of resolving a link payload to a note path.
type ResolveResponse struct {
	Target string `json:"target" example:"Hello World" validate:"required"`
	Path   string `json:"path" example:"notes/hello.md" validate:"required"`
}

// SubnotesResponse wraps the ordered subnote listing for a note.
type SubnotesResponse struct {
	Path     string                    `json:"path" example:"notes/1-intro.md" validate:"required"`
	Subnotes []noteservice.SubnoteInfo `json:"subnotes" validate:"required"`
}

// CreateSessionRequest is the request body for opening a find/replace session.
type CreateSessionRequest struct {
	Path string `json:"path" example:"notes/hello.md" validate:"required"`
}

// FindRequest is the request body for running a find inside a session.
type FindRequest struct {
	Query         string `json:"query" example:"cat" validate:"required"`
	CaseSensitive bool   `json:"case_sensitive" example:"false"`
	WholeWord     bool   `json:"whole_word" example:"false"`
}

// ReplaceRequest is the request body for replace and replace-all.
type ReplaceRequest struct {
	Text string `json:"text" example:"dog"`
}

// SessionState describes a find/replace session to clients. CurrentIndex is
// 1-based; 0 means no active match.
type SessionState struct {
	ID           string         `json:"id" example:"01JG4Z8R2C9NQ5T0V1W2X3Y4Z5" validate:"required"`
	Path         string         `json:"path" example:"notes/hello.md" validate:"required"`
	Query        string         `json:"query" example:"cat"`
	Options      search.Options `json:"options"`
	Matches      []search.Match `json:"matches" validate:"required"`
	CurrentIndex int            `json:"current_index" example:"1" validate:"required"`
}

// ReplaceResponse reports the outcome of a single replacement.
type ReplaceResponse struct {
	Replaced bool         `json:"replaced" example:"true" validate:"required"`
	Session  SessionState `json:"session" validate:"required"`
}

// ReplaceAllResponse reports the outcome of a replace-all pass.
type ReplaceAllResponse struct {
	Replaced int          `json:"replaced" example:"3" validate:"required"`
	Session  SessionState `json:"session" validate:"required"`
}

// SegmentsResponse wraps the match-highlight segmentation of session content.
type SegmentsResponse struct {
	Segments []segment.Segment `json:"segments" validate:"required"`
}

// AttachmentUploadResponse is returned after a successful attachment upload.
type AttachmentUploadResponse struct {
	Filename string `json:"filename" example:"image.png" validate:"required"`
	Size     int64  `json:"size" example:"12345" validate:"required"`
	URL      string `json:"url" example:"/attachments/image.png" validate:"required"`
}
