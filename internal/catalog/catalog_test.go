package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/starford/supportdir/internal/apperr"
	"github.com/starford/supportdir/internal/models"
	"github.com/starford/supportdir/internal/parser"
	"github.com/starford/supportdir/internal/session"
	"github.com/starford/supportdir/internal/storage"
	"github.com/starford/supportdir/internal/testutil"
)

func TestLoad_FlatDataset(t *testing.T) {
	_, store := testutil.TestSource(t, testutil.FlatDataset)
	c := New(store, session.DefaultConfig(), testutil.Logger())

	if c.Snapshot().Status != StatusLoading {
		t.Fatalf("initial status = %q", c.Snapshot().Status)
	}
	if _, err := c.Engine(); !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("Engine before load: err = %v", err)
	}

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := c.Snapshot()
	if snap.Status != StatusReady || snap.Shape != parser.ShapeFlat || len(snap.Records) != 3 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Checksum == "" || snap.LoadedAt.IsZero() {
		t.Errorf("missing checksum or load time")
	}
	opts, err := c.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if got := opts[models.Location]; len(got) != 2 || got[0] != "Leeds" || got[1] != "York" {
		t.Errorf("location options = %v", got)
	}
	e, err := c.Engine()
	if err != nil || len(e.Records()) != 3 {
		t.Errorf("Engine: %v", err)
	}
}

func TestLoad_CMSDataset(t *testing.T) {
	_, store := testutil.TestSource(t, testutil.CMSDataset)
	c := New(store, session.DefaultConfig(), testutil.Logger())
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts, _ := c.Options()
	if got := opts[models.WhoDied]; len(got) != 2 || got[0] != "Baby" || got[1] != "Child" {
		t.Errorf("who_died options = %v", got)
	}
	if got := opts[models.Location]; len(got) != 2 {
		t.Errorf("location options = %v", got)
	}
}

func TestLoad_HTTP404IsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := New(storage.NewHTTP(srv.URL+"/services.json", 0), session.DefaultConfig(), testutil.Logger())

	var events []string
	c.OnEvent(func(kind string, _ *Snapshot) { events = append(events, kind) })

	err := c.Load(context.Background())
	if !errors.Is(err, apperr.ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
	snap := c.Snapshot()
	if snap.Status != StatusUnavailable || snap.Err == nil {
		t.Errorf("snapshot = %+v", snap)
	}
	if _, err := c.Options(); !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("Options err = %v", err)
	}
	if len(events) != 1 || events[0] != "unavailable" {
		t.Errorf("events = %v", events)
	}
}

func TestLoad_ParseFailure(t *testing.T) {
	_, store := testutil.TestSource(t, `{"Title": "not a list"}`)
	c := New(store, session.DefaultConfig(), testutil.Logger())
	if err := c.Load(context.Background()); !errors.Is(err, apperr.ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	if c.Snapshot().Status != StatusUnavailable {
		t.Errorf("status = %q", c.Snapshot().Status)
	}
}

func TestLoad_UnchangedDocumentKeepsSnapshot(t *testing.T) {
	path, store := testutil.TestSource(t, testutil.FlatDataset)
	c := New(store, session.DefaultConfig(), testutil.Logger())

	loads := 0
	c.OnEvent(func(kind string, _ *Snapshot) {
		if kind == "loaded" {
			loads++
		}
	})

	_ = c.Load(context.Background())
	first := c.Snapshot()
	_ = c.Load(context.Background())
	if c.Snapshot() != first {
		t.Error("unchanged document replaced the snapshot")
	}

	if err := os.WriteFile(path, []byte(testutil.CMSDataset), 0o644); err != nil {
		t.Fatal(err)
	}
	_ = c.Load(context.Background())
	if c.Snapshot() == first || c.Snapshot().Shape != parser.ShapeCMS {
		t.Error("changed document was not reloaded")
	}
	if loads != 2 {
		t.Errorf("loaded events = %d, want 2", loads)
	}
}
