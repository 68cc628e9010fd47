package index

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/storage"
)

func TestSync_IndexesAndRemovesStale(t *testing.T) {
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	db := testDB(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	_ = os.WriteFile(filepath.Join(vaultDir, "a.md"), []byte("# Alpha\n[[Beta]]"), 0o644)
	_ = os.WriteFile(filepath.Join(vaultDir, "b.txt"), []byte("plain beta"), 0o644)

	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	row, _ := db.GetNote("a.md")
	if row == nil || row.Title != "Alpha" || row.Kind != "markdown" {
		t.Fatalf("a.md row = %+v", row)
	}
	row, _ = db.GetNote("b.txt")
	if row == nil || row.Title != "b" || row.Kind != "plain" {
		t.Fatalf("b.txt row = %+v", row)
	}
	bl, _ := db.Backlinks("Beta")
	if len(bl) != 1 || bl[0] != "a.md" {
		t.Errorf("backlinks = %v", bl)
	}

	// Unchanged files are skipped, removed files drop out of the index.
	_ = os.Remove(filepath.Join(vaultDir, "b.txt"))
	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if row, _ := db.GetNote("b.txt"); row != nil {
		t.Error("stale note still indexed after Sync")
	}
	if row, _ := db.GetNote("a.md"); row == nil {
		t.Error("unchanged note disappeared")
	}
}
