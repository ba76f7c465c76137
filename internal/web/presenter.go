// Package web renders the directory as a server-side HTML page.
//
// The page is assembled from independent regions (filters, total, results,
// pagination). A region whose template is missing or fails to execute is
// logged and left empty; the others still render.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/supportdir/internal/apperr"
	"github.com/starford/supportdir/internal/directory"
	"github.com/starford/supportdir/internal/models"
	"github.com/starford/supportdir/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Region names, in page order.
const (
	RegionFilters    = "filters"
	RegionTotal      = "total"
	RegionResults    = "results"
	RegionPagination = "pagination"
)

// Templates parses the embedded page and region templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// Presenter serves GET / for the directory.
type Presenter struct {
	svc    *directory.Service
	tmpl   *template.Template
	logger *slog.Logger
}

// NewPresenter creates a presenter using the embedded templates.
func NewPresenter(svc *directory.Service, logger *slog.Logger) (*Presenter, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	return NewPresenterWithTemplates(svc, tmpl, logger), nil
}

// NewPresenterWithTemplates creates a presenter over a caller-supplied
// template set. The set must define "page"; region templates are optional.
func NewPresenterWithTemplates(svc *directory.Service, tmpl *template.Template, logger *slog.Logger) *Presenter {
	return &Presenter{svc: svc, tmpl: tmpl, logger: logger}
}

type pageData struct {
	Filters    template.HTML
	Total      template.HTML
	Results    template.HTML
	Pagination template.HTML
}

// ServeHTTP renders the directory for the selection and cursor in the query
// string. A "clear" parameter drops every filter.
func (p *Presenter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	widgets := make(map[models.Dimension]session.Widget, len(models.Dimensions))
	for _, d := range models.Dimensions {
		widgets[d] = session.NewListWidget(q[string(d)]...)
	}

	var (
		st   session.State
		view session.View
		err  error
	)
	if q.Has("clear") {
		session.ClearAll(widgets)
		st, view, err = p.svc.Clear(ctx, session.State{})
	} else {
		st.Selection = session.SelectionFrom(widgets)
		st.Page, _ = strconv.Atoi(q.Get("page"))
		st.Shown, _ = strconv.Atoi(q.Get("shown"))
		st, view, err = p.svc.Query(ctx, st)
	}

	status := http.StatusOK
	var page pageData
	switch {
	case errors.Is(err, apperr.ErrUnavailable):
		status = http.StatusServiceUnavailable
		page.Filters = p.region(RegionFilters, buildFilters(nil, st.Selection))
		page.Results = p.region(RegionResults, unavailableResults())
		page.Total = p.region(RegionTotal, unavailableResults())
	case err != nil:
		p.logger.Error("web: render failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	default:
		opts, oerr := p.svc.Options(ctx)
		if oerr != nil {
			p.logger.Warn("web: options unavailable", slog.String("error", oerr.Error()))
		}
		results := buildResults(view)
		page.Filters = p.region(RegionFilters, buildFilters(opts, st.Selection))
		page.Total = p.region(RegionTotal, results)
		page.Results = p.region(RegionResults, results)
		page.Pagination = p.region(RegionPagination, buildPagination(st, view))
	}

	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "page", page); err != nil {
		p.logger.Error("web: page template failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// region renders one region. Failures are logged and yield empty output.
func (p *Presenter) region(name string, data any) template.HTML {
	html, err := p.renderRegion(name, data)
	if err != nil {
		p.logger.Warn("web: region skipped", slog.String("region", name), slog.String("error", err.Error()))
		return ""
	}
	return html
}

func (p *Presenter) renderRegion(name string, data any) (template.HTML, error) {
	t := p.tmpl.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("%w: %s", apperr.ErrRegionMissing, name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
