package noteservice

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/notecache"
	"github.com/starford/ansuz/internal/storage"
)

func testService(t *testing.T) (*Service, storage.Provider) {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.CreateTemp("", "ansuz-svc-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })
	db, err := index.Open(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(store, db, notecache.New(8)), store
}

func TestGetNote_ParsesAndAnnotates(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()
	content := "---\ntitle: Alpha\n---\nSee [[Beta]] and https://example.com."
	_ = store.Write("alpha.md", []byte(content))

	n, err := svc.GetNote(ctx, "alpha.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if n.Title != "Alpha" || n.Kind != models.KindMarkdown {
		t.Errorf("title/kind = %q/%q", n.Title, n.Kind)
	}
	if n.Content != content {
		t.Errorf("content = %q", n.Content)
	}
	if len(n.Annotations) != 2 {
		t.Fatalf("annotations = %+v, want link and url", n.Annotations)
	}
	if n.Annotations[0].Payload != "Beta" || n.Annotations[1].Payload != "https://example.com" {
		t.Errorf("annotations = %+v", n.Annotations)
	}
}

func TestGetNote_ServedFromCacheAfterFirstRead(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()
	_ = store.Write("c.md", []byte("# Cached"))

	if _, err := svc.GetNote(ctx, "c.md"); err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	// Mutate the file behind the service's back; the cached copy wins
	// until something invalidates it.
	_ = store.Write("c.md", []byte("# Changed"))
	n, err := svc.GetNote(ctx, "c.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if n.Content != "# Cached" {
		t.Errorf("content = %q, want cached copy", n.Content)
	}

	svc.InvalidateCache("c.md")
	n, _ = svc.GetNote(ctx, "c.md")
	if n.Content != "# Changed" {
		t.Errorf("content after invalidate = %q, want fresh read", n.Content)
	}
}

func TestGetNote_Missing(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.GetNote(context.Background(), "ghost.md")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetNote_PlainText(t *testing.T) {
	svc, store := testService(t)
	_ = store.Write("scratch.txt", []byte("notes with [[Alpha]]"))

	n, err := svc.GetNote(context.Background(), "scratch.txt")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if n.Kind != models.KindPlain || n.Title != "scratch" {
		t.Errorf("kind/title = %q/%q, want plain/scratch", n.Kind, n.Title)
	}
	if len(n.Annotations) != 1 {
		t.Errorf("annotations = %+v", n.Annotations)
	}
}

func TestCreateNote(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	n, err := svc.CreateNote(ctx, "new.md", []byte("# New\n[[Other]]"))
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if n.Title != "New" {
		t.Errorf("title = %q", n.Title)
	}
	if _, err := svc.CreateNote(ctx, "new.md", []byte("again")); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("duplicate create err = %v, want ErrAlreadyExists", err)
	}
	// Indexed: backlinks from the new note are queryable.
	bl, err := svc.Backlinks(ctx, "Other")
	if err != nil || len(bl) != 1 || bl[0] != "new.md" {
		t.Errorf("backlinks = (%v, %v)", bl, err)
	}
}

func TestUpdateNote_ChecksumConflict(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	created, err := svc.CreateNote(ctx, "u.md", []byte("v1"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateNote(ctx, "u.md", []byte("v2"), "wrong-checksum"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	n, err := svc.UpdateNote(ctx, "u.md", []byte("v2"), created.Checksum)
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if n.Content != "v2" {
		t.Errorf("content = %q", n.Content)
	}
}

func TestUpdateContent_WritesThroughAndRecaches(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()
	_, _ = svc.CreateNote(ctx, "w.md", []byte("cat cat"))

	if err := svc.UpdateContent(ctx, "w.md", "dog dog"); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	data, _ := store.Read("w.md")
	if string(data) != "dog dog" {
		t.Errorf("on disk = %q", data)
	}
	n, _ := svc.GetNote(ctx, "w.md")
	if n.Content != "dog dog" {
		t.Errorf("cached read = %q, want replaced content", n.Content)
	}
}

func TestUpdateContent_MissingNote(t *testing.T) {
	svc, _ := testService(t)
	err := svc.UpdateContent(context.Background(), "ghost.md", "x")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteNote(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	_, _ = svc.CreateNote(ctx, "d.md", []byte("bye"))

	if err := svc.DeleteNote(ctx, "d.md"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if _, err := svc.GetNote(ctx, "d.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetNote after delete = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteNote(ctx, "d.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestRenameNote(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	_, _ = svc.CreateNote(ctx, "old.md", []byte("# Keep Me"))
	_, _ = svc.CreateNote(ctx, "taken.md", []byte("x"))

	if _, err := svc.RenameNote(ctx, "old.md", "taken.md"); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("rename onto existing = %v, want ErrAlreadyExists", err)
	}
	if _, err := svc.RenameNote(ctx, "ghost.md", "new.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("rename missing = %v, want ErrNotFound", err)
	}

	n, err := svc.RenameNote(ctx, "old.md", "sub/new.md")
	if err != nil {
		t.Fatalf("RenameNote: %v", err)
	}
	if n.Path != "sub/new.md" || n.Title != "Keep Me" {
		t.Errorf("renamed = %+v", n)
	}
	if _, err := svc.GetNote(ctx, "old.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("old path still readable: %v", err)
	}
	// Old index row is gone, new one exists.
	if _, _, err := svc.ListNotes(ctx, 0, 0, "", "path", "asc"); err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	items, total, _ := svc.ListNotes(ctx, 0, 0, "", "path", "asc")
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	for _, it := range items {
		if it.Path == "old.md" {
			t.Error("old.md still indexed")
		}
	}
}

func TestResolveLink(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	_, _ = svc.CreateNote(ctx, "exact.md", []byte("# Exact"))
	_, _ = svc.CreateNote(ctx, "titled.md", []byte("---\ntitle: My Fancy Title\n---\nbody"))

	cases := []struct {
		target string
		want   string
	}{
		{"exact.md", "exact.md"},
		{"exact", "exact.md"},
		{"My Fancy Title", "titled.md"},
		{"My Fancy Title|shown text", "titled.md"},
		{" exact ", "exact.md"},
	}
	for _, tc := range cases {
		got, err := svc.ResolveLink(ctx, tc.target)
		if err != nil || got != tc.want {
			t.Errorf("ResolveLink(%q) = (%q, %v), want %q", tc.target, got, err, tc.want)
		}
	}

	if _, err := svc.ResolveLink(ctx, "No Such Note"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unresolved = %v, want ErrNotFound", err)
	}
	if _, err := svc.ResolveLink(ctx, "  "); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("blank target = %v, want ErrNotFound", err)
	}
}

func TestDetail_TitleBacklinksMerged(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	_, _ = svc.CreateNote(ctx, "hub.md", []byte("---\ntitle: Hub\n---\nbody"))
	_, _ = svc.CreateNote(ctx, "by-path.md", []byte("[[hub.md]]"))
	_, _ = svc.CreateNote(ctx, "by-title.md", []byte("[[Hub]]"))

	n, err := svc.GetNote(ctx, "hub.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if len(n.Backlinks) != 2 {
		t.Errorf("backlinks = %v, want both path and title sources", n.Backlinks)
	}
}
