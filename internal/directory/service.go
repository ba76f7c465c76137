// Package directory is the read-side service shared by the HTTP API, the
// HTML presenter and the MCP server. It resolves the current catalog
// snapshot and drives the session engine for each user event.
package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/supportdir/internal/apperr"
	"github.com/starford/supportdir/internal/catalog"
	"github.com/starford/supportdir/internal/filter"
	"github.com/starford/supportdir/internal/metrics"
	"github.com/starford/supportdir/internal/models"
	"github.com/starford/supportdir/internal/session"
)

// Event names used for the views metric.
const (
	EventStart  = "start"
	EventFilter = "filter"
	EventPage   = "page"
	EventMore   = "more"
	EventClear  = "clear"
	EventQuery  = "query"
)

// StatusInfo describes the loaded dataset.
type StatusInfo struct {
	Status   catalog.Status `json:"status"`
	Source   string         `json:"source"`
	Shape    string         `json:"shape,omitempty"`
	Records  int            `json:"records"`
	Checksum string         `json:"checksum,omitempty"`
	LoadedAt *time.Time     `json:"loaded_at,omitempty"`
	Mode     string         `json:"mode,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// Service answers directory queries against the current catalog snapshot.
type Service struct {
	cat *catalog.Catalog
}

// NewService creates a directory service.
func NewService(cat *catalog.Catalog) *Service {
	return &Service{cat: cat}
}

// Options returns the per-dimension option sets.
func (s *Service) Options(_ context.Context) (filter.Options, error) {
	return s.cat.Options()
}

// Checksum returns the checksum of the loaded dataset, or "" when none is
// loaded.
func (s *Service) Checksum() string {
	snap := s.cat.Snapshot()
	if snap.Status != catalog.StatusReady {
		return ""
	}
	return snap.Checksum
}

// Status reports the catalog state.
func (s *Service) Status(_ context.Context) StatusInfo {
	snap := s.cat.Snapshot()
	info := StatusInfo{
		Status: snap.Status,
		Source: snap.Source,
	}
	switch snap.Status {
	case catalog.StatusReady:
		loaded := snap.LoadedAt
		info.Shape = string(snap.Shape)
		info.Records = len(snap.Records)
		info.Checksum = snap.Checksum
		info.LoadedAt = &loaded
		info.Mode = string(snap.Engine.Config().Mode)
	case catalog.StatusUnavailable:
		info.Message = apperr.UnavailableMessage
	}
	return info
}

// Record returns the record with the given id.
func (s *Service) Record(_ context.Context, id int) (models.ServiceRecord, error) {
	eng, err := s.cat.Engine()
	if err != nil {
		return models.ServiceRecord{}, err
	}
	records := eng.Records()
	if id < 0 || id >= len(records) {
		return models.ServiceRecord{}, fmt.Errorf("record %d: %w", id, apperr.ErrNotFound)
	}
	return records[id], nil
}

// Start returns the view of a fresh visit.
func (s *Service) Start(_ context.Context) (session.State, session.View, error) {
	eng, err := s.cat.Engine()
	if err != nil {
		return session.State{}, session.View{}, err
	}
	st, v := eng.Start()
	observe(EventStart)
	return st, v, nil
}

// Filter applies a new selection.
func (s *Service) Filter(_ context.Context, st session.State, sel filter.Selection) (session.State, session.View, error) {
	eng, err := s.cat.Engine()
	if err != nil {
		return session.State{}, session.View{}, err
	}
	next, v := eng.OnFilterChanged(st, sel)
	observe(EventFilter)
	return next, v, nil
}

// Page moves the cursor to the requested page or shown count.
func (s *Service) Page(_ context.Context, st session.State, cursor int) (session.State, session.View, error) {
	eng, err := s.cat.Engine()
	if err != nil {
		return session.State{}, session.View{}, err
	}
	next, v := eng.OnPageRequested(st, cursor)
	observe(EventPage)
	return next, v, nil
}

// More reveals the next batch.
func (s *Service) More(_ context.Context, st session.State) (session.State, session.View, error) {
	eng, err := s.cat.Engine()
	if err != nil {
		return session.State{}, session.View{}, err
	}
	next, v := eng.LoadMore(st)
	observe(EventMore)
	return next, v, nil
}

// Clear drops every filter.
func (s *Service) Clear(_ context.Context, st session.State) (session.State, session.View, error) {
	eng, err := s.cat.Engine()
	if err != nil {
		return session.State{}, session.View{}, err
	}
	next, v := eng.OnClearFilters(st)
	observe(EventClear)
	return next, v, nil
}

// Query renders st as is. Stateless callers use it with a selection and a
// cursor read from the request.
func (s *Service) Query(_ context.Context, st session.State) (session.State, session.View, error) {
	eng, err := s.cat.Engine()
	if err != nil {
		return session.State{}, session.View{}, err
	}
	next, v := eng.Render(st)
	observe(EventQuery)
	return next, v, nil
}

// Mode returns the windowing mode, or "" when no dataset is loaded.
func (s *Service) Mode() string {
	eng, err := s.cat.Engine()
	if err != nil {
		return ""
	}
	return string(eng.Config().Mode)
}

func observe(event string) {
	metrics.ViewsTotal.WithLabelValues(event).Inc()
}
