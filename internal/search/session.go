package search

import (
	"context"
	"sync"
)

// ContentWriter persists replaced content back to wherever the note lives.
// The session calls it before updating its own state, so a failed write
// leaves the session exactly as it was.
type ContentWriter interface {
	UpdateContent(ctx context.Context, noteID, content string) error
}

// Session is the state behind one find/replace panel over a single note.
// The current match index is 1-based; 0 means no active match. All methods
// are safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	noteID  string
	content string
	query   string
	opts    Options
	matches []Match
	current int
	writer  ContentWriter
}

// NewSession starts a session over content. noteID is handed to the writer
// on replace; a nil writer keeps replacements in memory only.
func NewSession(noteID, content string, w ContentWriter) *Session {
	return &Session{noteID: noteID, content: content, writer: w}
}

// Find stores the query and options and scans the content. The first match
// becomes current. Returns the number of matches.
func (s *Session) Find(query string, opts Options) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.opts = opts
	s.rescan()
	return len(s.matches)
}

// SetOptions swaps matching options and re-runs the search with the stored
// query. Returns the number of matches.
func (s *Session) SetOptions(opts Options) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
	s.rescan()
	return len(s.matches)
}

// SetContent replaces the session's view of the note, for example after an
// external edit, and re-runs the stored query against it.
func (s *Session) SetContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = content
	s.rescan()
}

// rescan recomputes matches from the stored query. Callers hold mu.
func (s *Session) rescan() {
	s.matches = Find(s.content, s.query, s.opts)
	if len(s.matches) > 0 {
		s.current = 1
	} else {
		s.current = 0
	}
}

// Next advances the current match, wrapping from the last back to the
// first. Returns the new 1-based index, 0 when there are no matches.
func (s *Session) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.matches)
	if n == 0 {
		return 0
	}
	s.current = s.current%n + 1
	return s.current
}

// Previous steps the current match back, wrapping from the first to the
// last. Returns the new 1-based index, 0 when there are no matches.
func (s *Session) Previous() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.matches)
	if n == 0 {
		return 0
	}
	s.current = (s.current+n-2)%n + 1
	return s.current
}

// Replace substitutes the current match with replacement, persists the new
// content through the writer, then re-runs the search against the edited
// content. Reports false when there is no current match. On a writer error
// the session state is untouched and the error is returned as-is.
func (s *Session) Replace(ctx context.Context, replacement string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == 0 || len(s.matches) == 0 {
		return false, nil
	}
	m := s.matches[s.current-1]
	next := s.content[:m.Start] + replacement + s.content[m.End():]
	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.content = next
	s.rescan()
	return true, nil
}

// ReplaceAll substitutes every match in one pass, persists once, and
// clears the match list. Returns the number of replacements. On a writer
// error the session state is untouched and the error is returned as-is.
func (s *Session) ReplaceAll(ctx context.Context, replacement string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, n := ReplaceAll(s.content, s.query, s.opts, replacement)
	if n == 0 {
		return 0, nil
	}
	if err := s.persist(ctx, next); err != nil {
		return 0, err
	}
	s.content = next
	s.matches = nil
	s.current = 0
	return n, nil
}

func (s *Session) persist(ctx context.Context, content string) error {
	if s.writer == nil {
		return nil
	}
	return s.writer.UpdateContent(ctx, s.noteID, content)
}

// NoteID returns the note this session edits.
func (s *Session) NoteID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.noteID
}

// Content returns the session's current view of the note.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Query returns the stored query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Options returns the stored matching options.
func (s *Session) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Matches returns a copy of the current match list.
func (s *Session) Matches() []Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Match, len(s.matches))
	copy(out, s.matches)
	return out
}

// CurrentIndex returns the 1-based index of the current match, 0 when none.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Current returns the current match, or false when there is none.
func (s *Session) Current() (Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == 0 || len(s.matches) == 0 {
		return Match{}, false
	}
	return s.matches[s.current-1], true
}
