package index

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data, m.UpdatedAt); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteNote(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile parses data according to the note kind and upserts it. An empty
// parsed title falls back to the file stem so every note can be addressed
// by title.
func indexFile(db *DB, path string, data []byte, modTime time.Time) error {
	kind := models.KindForPath(path)

	var res *parser.Result
	if kind == models.KindPlain {
		res = parser.ParsePlain(data)
	} else {
		r, err := parser.Parse(data)
		if err != nil {
			return err
		}
		res = r
	}

	title := res.Title
	if title == "" {
		title = NoteStem(path)
	}

	row := NoteRow{
		Path:      path,
		Title:     title,
		Kind:      string(kind),
		Checksum:  checksum.Sum(data),
		Tags:      res.Tags,
		UpdatedAt: modTime,
	}
	return db.UpsertNote(row, res.Body, res.Links)
}

// NoteStem returns the file name without directory or extension, the
// fallback title for notes that do not declare one.
func NoteStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
