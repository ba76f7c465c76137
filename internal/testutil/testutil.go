// Package testutil provides shared test helpers for dataset fixtures.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/supportdir/internal/storage"
)

// FlatDataset is a small flat-shape document covering every dimension.
const FlatDataset = `[
  {"Title": "Cruse Bereavement Support", "Content": "<p>National helpline for anyone grieving.</p>",
   "Who has died?": ["Parent", "Partner"], "Circumstances of death": ["Illness"],
   "Age of person needing support": ["Adult"], "Type of support": ["Helpline"], "Location": []},
  {"Title": "Leeds Young Carers", "Content": "<p>Local groups for children.</p>",
   "Who has died?": ["Parent"], "Age of person needing support": ["Child", "Young person"],
   "Type of support": ["Group"], "Location": ["Leeds"]},
  {"Title": "SoBS York", "Who has died?": ["Sibling"], "Circumstances of death": ["Suicide"],
   "Type of support": ["Group", "Peer support"], "Location": ["York"], "Featured": true}
]`

// CMSDataset is a small CMS-export document.
const CMSDataset = `{"items": [
  {"title": "Sands", "body": "<p>Support after baby loss.</p>", "starred": true,
   "categories": ["Who: Baby", "Cir: Stillbirth", "Type: Helpline", "Location: National"]},
  {"title": "Child Bereavement UK", "body": "",
   "categories": ["Who: Child", "Who: Baby", "Age: Adult", "Type: Counselling", "Location: Leeds", "Location:  "]}
]}`

// WriteDataset writes content to name inside a fresh temp dir and returns the
// file path.
func WriteDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestSource writes content to a temp file and returns a file provider for it.
func TestSource(t *testing.T, content string) (string, *storage.FS) {
	t.Helper()
	path := WriteDataset(t, "services.json", content)
	store, err := storage.NewFSFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	return path, store
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
