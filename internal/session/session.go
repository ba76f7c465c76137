// Package session drives the directory view from user events.
//
// All visitor state lives in an explicit State value that is passed into and
// returned from every operation. The Engine itself holds only the immutable
// dataset and windowing settings, so it is safe for concurrent use.
package session

import (
	"github.com/starford/supportdir/internal/filter"
	"github.com/starford/supportdir/internal/models"
	"github.com/starford/supportdir/internal/paging"
)

// Config selects the windowing policy and its sizes.
type Config struct {
	Mode            paging.Mode
	PageSize        int
	MaxVisiblePages int
	BatchSize       int
}

// DefaultConfig matches the page and batch sizes the directory has always
// used.
func DefaultConfig() Config {
	return Config{
		Mode:            paging.ModePaged,
		PageSize:        20,
		MaxVisiblePages: 9,
		BatchSize:       50,
	}
}

// State is the visitor's current selection and cursor. Page is used in paged
// mode, Shown in incremental mode; the other stays zero.
type State struct {
	Selection filter.Selection `json:"selection"`
	Page      int              `json:"page,omitempty"`
	Shown     int              `json:"shown,omitempty"`
}

// Sections splits the visible records for display. Featured records lead.
// When the location dimension is constrained, records carrying a location go
// to Local and the rest to National; otherwise everything else is National.
type Sections struct {
	Featured []models.ServiceRecord `json:"featured"`
	Local    []models.ServiceRecord `json:"local"`
	National []models.ServiceRecord `json:"national"`
}

// View is everything a presenter needs to draw the directory.
type View struct {
	Total    int                    `json:"total"`
	Empty    bool                   `json:"empty"`
	Items    []models.ServiceRecord `json:"items"`
	Sections Sections               `json:"sections"`
	Pages    *paging.Pages          `json:"pages,omitempty"`
	Progress *paging.Progress       `json:"progress,omitempty"`
}

// Engine computes views over one loaded dataset.
type Engine struct {
	records []models.ServiceRecord
	cfg     Config
}

// New creates an Engine. Zero sizes in cfg fall back to DefaultConfig.
func New(records []models.ServiceRecord, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Mode == "" {
		cfg.Mode = def.Mode
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = def.PageSize
	}
	if cfg.MaxVisiblePages < 1 {
		cfg.MaxVisiblePages = def.MaxVisiblePages
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = def.BatchSize
	}
	return &Engine{records: records, cfg: cfg}
}

// Config returns the effective windowing settings.
func (e *Engine) Config() Config {
	return e.cfg
}

// Records returns the full dataset.
func (e *Engine) Records() []models.ServiceRecord {
	return e.records
}

// Initial returns the state of a fresh visit: no selection, first window.
func (e *Engine) Initial() State {
	return e.reset(filter.Selection{})
}

func (e *Engine) reset(sel filter.Selection) State {
	st := State{Selection: sel.Normalize()}
	if e.cfg.Mode == paging.ModeIncremental {
		st.Shown = e.cfg.BatchSize
	} else {
		st.Page = 1
	}
	return st
}

// Start returns the initial state and its view.
func (e *Engine) Start() (State, View) {
	st := e.Initial()
	return e.Render(st)
}

// OnFilterChanged replaces the selection and resets the cursor.
func (e *Engine) OnFilterChanged(_ State, sel filter.Selection) (State, View) {
	return e.Render(e.reset(sel))
}

// OnClearFilters drops every constraint and resets the cursor.
func (e *Engine) OnClearFilters(_ State) (State, View) {
	return e.Start()
}

// OnPageRequested moves the cursor. In paged mode cursor is a page number
// and is clamped into range. In incremental mode cursor is the requested
// number of shown records, clamped to the result; the count never decreases
// until the next reset.
func (e *Engine) OnPageRequested(st State, cursor int) (State, View) {
	next := State{Selection: st.Selection.Normalize()}
	if e.cfg.Mode == paging.ModeIncremental {
		next.Shown = max(st.Shown, cursor)
	} else {
		next.Page = cursor
	}
	return e.Render(next)
}

// LoadMore reveals the next batch in incremental mode, or advances one page
// in paged mode.
func (e *Engine) LoadMore(st State) (State, View) {
	if e.cfg.Mode == paging.ModeIncremental {
		return e.OnPageRequested(st, st.Shown+e.cfg.BatchSize)
	}
	return e.OnPageRequested(st, st.Page+1)
}

// Render computes the view for st and returns st with its cursor clamped to
// the result. In incremental mode the shown count is clamped to the result
// size but never drops below one batch.
func (e *Engine) Render(st State) (State, View) {
	sel := st.Selection.Normalize()
	result := filter.Match(e.records, sel)
	out := State{Selection: sel}
	view := View{Total: len(result), Empty: len(result) == 0}

	switch e.cfg.Mode {
	case paging.ModeIncremental:
		shown := st.Shown
		if shown <= 0 {
			shown = e.cfg.BatchSize
		}
		p := paging.Incremental(len(result), shown, e.cfg.BatchSize)
		view.Progress = &p
		view.Items = paging.Prefix(result, p)
		out.Shown = max(p.Shown, e.cfg.BatchSize)
	default:
		p := paging.Paginate(len(result), st.Page, e.cfg.PageSize, e.cfg.MaxVisiblePages)
		view.Pages = &p
		view.Items = paging.Page(result, p)
		out.Page = p.Current
	}

	view.Sections = Split(view.Items, sel.Has(models.Location))
	return out, view
}

// Split distributes records into display sections, keeping their order.
func Split(records []models.ServiceRecord, locationFiltered bool) Sections {
	s := Sections{
		Featured: []models.ServiceRecord{},
		Local:    []models.ServiceRecord{},
		National: []models.ServiceRecord{},
	}
	for _, r := range records {
		switch {
		case r.Featured:
			s.Featured = append(s.Featured, r)
		case locationFiltered && len(r.Tags(models.Location)) > 0:
			s.Local = append(s.Local, r)
		default:
			s.National = append(s.National, r)
		}
	}
	return s
}
