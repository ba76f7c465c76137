package web

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/supportdir/internal/apperr"
	"github.com/starford/supportdir/internal/catalog"
	"github.com/starford/supportdir/internal/directory"
	"github.com/starford/supportdir/internal/paging"
	"github.com/starford/supportdir/internal/session"
	"github.com/starford/supportdir/internal/storage"
	"github.com/starford/supportdir/internal/testutil"
)

func newDirectory(t *testing.T, content string, cfg session.Config) *directory.Service {
	t.Helper()
	_, store := testutil.TestSource(t, content)
	cat := catalog.New(store, cfg, testutil.Logger())
	if err := cat.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return directory.NewService(cat)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestPresenter_FullPage(t *testing.T) {
	p, err := NewPresenter(newDirectory(t, testutil.FlatDataset, session.DefaultConfig()), testutil.Logger())
	if err != nil {
		t.Fatalf("NewPresenter: %v", err)
	}
	w := get(t, p, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"3 services found",
		`<select id="who_died" name="who_died" multiple>`,
		"Cruse Bereavement Support",
		"National helpline for anyone grieving.",
		"<h2>Featured</h2>",
		"No description available.",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestPresenter_FilterFromQuery(t *testing.T) {
	p, _ := NewPresenter(newDirectory(t, testutil.FlatDataset, session.DefaultConfig()), testutil.Logger())

	body := get(t, p, "/?location=Leeds&location=York").Body.String()
	if !strings.Contains(body, "2 services found") {
		t.Errorf("missing total in %s", body)
	}
	if !strings.Contains(body, "<h2>Local services</h2>") {
		t.Errorf("missing local section")
	}
	if !strings.Contains(body, `<option value="Leeds" selected>`) {
		t.Errorf("selected option not marked")
	}
	if strings.Contains(body, "Cruse Bereavement Support") {
		t.Errorf("national-only record should be filtered out")
	}

	body = get(t, p, "/?location=Nowhere").Body.String()
	if !strings.Contains(body, "No results found") {
		t.Errorf("empty result not rendered")
	}

	body = get(t, p, "/?location=Leeds&clear=1").Body.String()
	if !strings.Contains(body, "3 services found") {
		t.Errorf("clear did not reset filters")
	}
}

func TestPresenter_SelectedOptionIgnoresCase(t *testing.T) {
	p, _ := NewPresenter(newDirectory(t, testutil.FlatDataset, session.DefaultConfig()), testutil.Logger())

	body := get(t, p, "/?location=leeds").Body.String()
	if !strings.Contains(body, "1 service found") {
		t.Errorf("lower-case tag did not match")
	}
	if !strings.Contains(body, `<option value="Leeds" selected>`) {
		t.Errorf("matching option not marked selected")
	}
	if strings.Contains(body, `<option value="York" selected>`) {
		t.Errorf("unrelated option marked selected")
	}
}

func TestPresenter_PaginationLinks(t *testing.T) {
	p, _ := NewPresenter(newDirectory(t, testutil.FlatDataset, session.Config{PageSize: 1}), testutil.Logger())

	body := get(t, p, "/?page=2").Body.String()
	for _, want := range []string{
		`<a rel="prev" href="/?page=1">Back</a>`,
		`<span aria-current="page">2</span>`,
		`<a rel="next" href="/?page=3">Next</a>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("pagination missing %q", want)
		}
	}

	body = get(t, p, "/?support_type=Group&page=1").Body.String()
	if !strings.Contains(body, `href="/?page=2&amp;support_type=Group"`) {
		t.Errorf("links must keep the selection: %s", body)
	}
}

func TestPresenter_LoadMoreLink(t *testing.T) {
	cfg := session.Config{Mode: paging.ModeIncremental, BatchSize: 2}
	p, _ := NewPresenter(newDirectory(t, testutil.FlatDataset, cfg), testutil.Logger())

	body := get(t, p, "/").Body.String()
	if !strings.Contains(body, `<a class="load-more" href="/?shown=3">Load more</a>`) {
		t.Errorf("missing load-more link: %s", body)
	}
	body = get(t, p, "/?shown=3").Body.String()
	if strings.Contains(body, "Load more") {
		t.Errorf("load-more shown after everything is visible")
	}
}

func TestPresenter_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cat := catalog.New(storage.NewHTTP(srv.URL, 0), session.DefaultConfig(), testutil.Logger())
	_ = cat.Load(context.Background())
	p, _ := NewPresenter(directory.NewService(cat), testutil.Logger())

	w := get(t, p, "/")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), apperr.UnavailableMessage) {
		t.Errorf("unavailable message not rendered")
	}
}

func TestPresenter_MissingAndBrokenRegions(t *testing.T) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/page.html"))
	template.Must(tmpl.New("results").Parse(`<ul>{{range .Sections}}<li>{{.Heading}}</li>{{end}}</ul>`))
	template.Must(tmpl.New("filters").Parse(`{{.NoSuchField}}`))

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	p := NewPresenterWithTemplates(newDirectory(t, testutil.FlatDataset, session.DefaultConfig()), tmpl, logger)

	w := get(t, p, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<li>National services</li>") {
		t.Errorf("results region did not render: %s", w.Body.String())
	}
	out := logs.String()
	for _, region := range []string{RegionFilters, RegionTotal, RegionPagination} {
		if !strings.Contains(out, `"region":"`+region+`"`) {
			t.Errorf("no log for skipped region %q", region)
		}
	}
	if !strings.Contains(out, apperr.ErrRegionMissing.Error()) {
		t.Errorf("missing region not reported: %s", out)
	}
}
