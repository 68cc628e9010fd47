// Package noteservice coordinates storage, index and cache into the
// note-level operations the API, TUI and MCP layers expose.
package noteservice

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/annotate"
	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/notecache"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Path        string          `json:"path"`
	Title       string          `json:"title"`
	Kind        models.NoteKind `json:"kind"`
	Content     string          `json:"content"`
	Checksum    string          `json:"checksum"`
	Tags        []string        `json:"tags"`
	Frontmatter map[string]any  `json:"frontmatter,omitempty"`
	Annotations []annotate.Span `json:"annotations"`
	Backlinks   []string        `json:"backlinks"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	Path      string          `json:"path"`
	Title     string          `json:"title"`
	Kind      models.NoteKind `json:"kind"`
	Checksum  string          `json:"checksum"`
	Tags      []string        `json:"tags"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Service coordinates storage, index and cache operations.
type Service struct {
	store storage.Provider
	db    *index.DB
	cache *notecache.Cache
}

// NewService creates a new note service.
func NewService(store storage.Provider, db *index.DB, cache *notecache.Cache) *Service {
	return &Service{store: store, db: db, cache: cache}
}

// GetNote returns a note, parsed and annotated. Repeated reads of the same
// path are served from the cache; backlinks are looked up fresh on every
// call since they change when other notes do.
func (s *Service) GetNote(_ context.Context, path string) (*NoteDetail, error) {
	if n, ok := s.cache.Get(path); ok {
		return s.detail(n)
	}
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	n, err := s.buildNote(path, data)
	if err != nil {
		return nil, err
	}
	s.cache.Put(path, n)
	return s.detail(n)
}

// CreateNote writes a new note and indexes it.
func (s *Service) CreateNote(_ context.Context, path string, content []byte) (*NoteDetail, error) {
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.indexFile(path, content); err != nil {
		return nil, err
	}
	return s.cacheAndDetail(path, content)
}

// UpdateNote writes updated content with optimistic concurrency.
func (s *Service) UpdateNote(_ context.Context, path string, content []byte, ifMatch string) (*NoteDetail, error) {
	existing, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.indexFile(path, content); err != nil {
		return nil, err
	}
	return s.cacheAndDetail(path, content)
}

// UpdateContent persists replaced note content. It is the collaborator
// find/replace sessions write through: the note must already exist, and a
// successful write re-indexes and re-caches the note so subsequent reads
// see the edit.
func (s *Service) UpdateContent(_ context.Context, path, content string) error {
	if _, err := s.store.Read(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	data := []byte(content)
	if err := s.store.Write(path, data); err != nil {
		return err
	}
	if err := s.indexFile(path, data); err != nil {
		return err
	}
	s.refreshCache(path, data)
	return nil
}

// DeleteNote removes a note from storage, index and cache.
func (s *Service) DeleteNote(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	s.cache.Invalidate(path)
	return s.db.DeleteNote(path)
}

// RenameNote moves a note to a new path and reindexes it. The target must
// not already exist.
func (s *Service) RenameNote(_ context.Context, from, to string) (*NoteDetail, error) {
	if _, err := s.store.Read(from); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if from == to {
		return nil, apperr.ErrConflict
	}
	if _, err := s.store.Read(to); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Move(from, to); err != nil {
		return nil, err
	}
	s.cache.Invalidate(from)
	if err := s.db.DeleteNote(from); err != nil {
		return nil, err
	}
	data, err := s.store.Read(to)
	if err != nil {
		return nil, err
	}
	if err := s.indexFile(to, data); err != nil {
		return nil, err
	}
	return s.cacheAndDetail(to, data)
}

// ListNotes returns paginated notes with optional tag filter. sortBy is one
// of updated_at, title or path; order is asc or desc.
func (s *Service) ListNotes(_ context.Context, limit, offset int, tag, sortBy, order string) ([]NoteListItem, int, error) {
	rows, total, err := s.db.ListNotes(limit, offset, tag, sortBy, order)
	if err != nil {
		return nil, 0, err
	}
	items := make([]NoteListItem, len(rows))
	for i, r := range rows {
		items[i] = NoteListItem{
			Path:      r.Path,
			Title:     r.Title,
			Kind:      models.NoteKind(r.Kind),
			Checksum:  r.Checksum,
			Tags:      nonNilSlice(r.Tags),
			UpdatedAt: r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Graph returns all nodes and links for graph visualization.
func (s *Service) Graph(_ context.Context) ([]index.GraphNode, []index.GraphLink, error) {
	return s.db.Graph()
}

// Backlinks returns all note paths that link to the given target.
func (s *Service) Backlinks(_ context.Context, target string) ([]string, error) {
	return s.db.Backlinks(target)
}

// ResolveLink maps a [[...]] target to a note path: exact path first, then
// path with a note extension, then note title.
func (s *Service) ResolveLink(_ context.Context, target string) (string, error) {
	target = strings.TrimSpace(target)
	if i := strings.Index(target, "|"); i >= 0 {
		target = strings.TrimSpace(target[:i])
	}
	if target == "" {
		return "", apperr.ErrNotFound
	}

	candidates := []string{target}
	if !storage.IsNoteFile(target) {
		candidates = append(candidates, target+".md", target+".txt")
	}
	for _, c := range candidates {
		row, err := s.db.GetNote(c)
		if err != nil {
			return "", err
		}
		if row != nil {
			return row.Path, nil
		}
	}

	path, err := s.db.FindByTitle(target)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", apperr.ErrNotFound
	}
	return path, nil
}

// InvalidateCache drops the cached copy of path. The vault watcher calls
// this when a file changes on disk behind the service's back.
func (s *Service) InvalidateCache(path string) {
	s.cache.Invalidate(path)
}

// indexFile parses data and upserts it into the index.
func (s *Service) indexFile(path string, data []byte) error {
	kind := models.KindForPath(path)
	res, err := s.parse(kind, data)
	if err != nil {
		return err
	}
	title := res.Title
	if title == "" {
		title = index.NoteStem(path)
	}
	return s.db.UpsertNote(index.NoteRow{
		Path:      path,
		Title:     title,
		Kind:      string(kind),
		Checksum:  checksum.Sum(data),
		Tags:      nonNilSlice(res.Tags),
		UpdatedAt: time.Now(),
	}, res.Body, res.Links)
}

func (s *Service) parse(kind models.NoteKind, data []byte) (*parser.Result, error) {
	if kind == models.KindPlain {
		return parser.ParsePlain(data), nil
	}
	return parser.Parse(data)
}

// buildNote constructs the cacheable domain note from raw data.
func (s *Service) buildNote(path string, data []byte) (*models.Note, error) {
	kind := models.KindForPath(path)
	res, err := s.parse(kind, data)
	if err != nil {
		return nil, err
	}
	title := res.Title
	if title == "" {
		title = index.NoteStem(path)
	}
	content := string(data)
	return &models.Note{
		Path:        path,
		Kind:        kind,
		Content:     data,
		Body:        res.Body,
		Frontmatter: res.Frontmatter,
		Title:       title,
		Links:       res.Links,
		Tags:        res.Tags,
		Annotations: annotate.Extract(content),
		Checksum:    checksum.Sum(data),
		UpdatedAt:   time.Now(),
	}, nil
}

// detail wraps a domain note with freshly resolved backlinks. Links that
// were written against the note's title count alongside links against its
// path.
func (s *Service) detail(n *models.Note) (*NoteDetail, error) {
	bl, err := s.db.Backlinks(n.Path)
	if err != nil {
		return nil, err
	}
	if n.Title != "" && n.Title != n.Path {
		tbl, err := s.db.Backlinks(n.Title)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, len(bl))
		for _, p := range bl {
			seen[p] = struct{}{}
		}
		for _, p := range tbl {
			if _, ok := seen[p]; !ok {
				bl = append(bl, p)
			}
		}
	}
	return &NoteDetail{
		Path:        n.Path,
		Title:       n.Title,
		Kind:        n.Kind,
		Content:     string(n.Content),
		Checksum:    n.Checksum,
		Tags:        nonNilSlice(n.Tags),
		Frontmatter: n.Frontmatter,
		Annotations: nonNilSlice(n.Annotations),
		Backlinks:   nonNilSlice(bl),
		UpdatedAt:   n.UpdatedAt,
	}, nil
}

// cacheAndDetail rebuilds the cached note from data and returns its detail.
func (s *Service) cacheAndDetail(path string, data []byte) (*NoteDetail, error) {
	n, err := s.buildNote(path, data)
	if err != nil {
		return nil, err
	}
	s.cache.Put(path, n)
	return s.detail(n)
}

func (s *Service) refreshCache(path string, data []byte) {
	if n, err := s.buildNote(path, data); err == nil {
		s.cache.Put(path, n)
	} else {
		s.cache.Invalidate(path)
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
