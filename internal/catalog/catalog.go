// Package catalog owns the loaded dataset and publishes it as immutable
// snapshots.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/starford/supportdir/internal/apperr"
	"github.com/starford/supportdir/internal/checksum"
	"github.com/starford/supportdir/internal/filter"
	"github.com/starford/supportdir/internal/metrics"
	"github.com/starford/supportdir/internal/models"
	"github.com/starford/supportdir/internal/parser"
	"github.com/starford/supportdir/internal/session"
	"github.com/starford/supportdir/internal/storage"
)

// Status is the lifecycle state of the catalog.
type Status string

// Catalog states.
const (
	StatusLoading     Status = "loading"
	StatusReady       Status = "ready"
	StatusUnavailable Status = "unavailable"
)

// Snapshot is one loaded version of the dataset. Snapshots are never
// modified after publication.
type Snapshot struct {
	Status   Status
	Source   string
	Shape    parser.Shape
	Checksum string
	LoadedAt time.Time
	Records  []models.ServiceRecord
	Options  filter.Options
	Engine   *session.Engine
	Err      error
}

// EventCallback is called after each load attempt that changes the
// published snapshot. kind is "loaded" or "unavailable".
type EventCallback func(kind string, snap *Snapshot)

// Catalog loads the dataset from a storage provider and serves snapshots.
type Catalog struct {
	store  storage.Provider
	cfg    session.Config
	logger *slog.Logger

	mu      sync.Mutex // serialises Load
	current atomic.Pointer[Snapshot]
	onEvent EventCallback
}

// New creates a catalog in the loading state.
func New(store storage.Provider, cfg session.Config, logger *slog.Logger) *Catalog {
	c := &Catalog{store: store, cfg: cfg, logger: logger}
	c.current.Store(&Snapshot{Status: StatusLoading, Source: store.Location()})
	return c
}

// OnEvent registers the callback invoked after snapshot changes. It must be
// set before the first Load.
func (c *Catalog) OnEvent(cb EventCallback) {
	c.onEvent = cb
}

// Snapshot returns the current snapshot.
func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

// Engine returns the view engine of the current dataset, or
// apperr.ErrUnavailable when none is loaded.
func (c *Catalog) Engine() (*session.Engine, error) {
	snap := c.Snapshot()
	if snap.Status != StatusReady {
		return nil, apperr.ErrUnavailable
	}
	return snap.Engine, nil
}

// Options returns the option sets of the current dataset, or
// apperr.ErrUnavailable when none is loaded.
func (c *Catalog) Options() (filter.Options, error) {
	snap := c.Snapshot()
	if snap.Status != StatusReady {
		return nil, apperr.ErrUnavailable
	}
	return snap.Options, nil
}

// Load fetches and parses the dataset once. On failure the catalog becomes
// unavailable and the error is returned; nothing is retried. A document
// whose checksum matches the published snapshot is not re-parsed.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	source := c.store.Location()
	data, err := c.store.Fetch(ctx)
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues("fetch_error").Inc()
		return c.fail(source, err)
	}

	sum := checksum.Sum(data)
	if prev := c.Snapshot(); prev.Status == StatusReady && prev.Checksum == sum {
		metrics.DatasetLoadsTotal.WithLabelValues("unchanged").Inc()
		c.logger.Debug("catalog: dataset unchanged", slog.String("source", source))
		return nil
	}

	res, err := parser.Decode(data)
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues("parse_error").Inc()
		return c.fail(source, err)
	}

	snap := &Snapshot{
		Status:   StatusReady,
		Source:   source,
		Shape:    res.Shape,
		Checksum: sum,
		LoadedAt: time.Now(),
		Records:  res.Records,
		Options:  filter.BuildOptions(res.Records),
		Engine:   session.New(res.Records, c.cfg),
	}
	c.current.Store(snap)

	metrics.DatasetLoadsTotal.WithLabelValues("ok").Inc()
	metrics.DatasetRecords.Set(float64(len(snap.Records)))
	metrics.DatasetAvailable.Set(1)

	c.logger.Info("catalog: dataset loaded",
		slog.String("source", source),
		slog.String("shape", string(snap.Shape)),
		slog.Int("records", len(snap.Records)),
		slog.Int("options", snap.Options.Count()))

	if c.onEvent != nil {
		c.onEvent("loaded", snap)
	}
	return nil
}

func (c *Catalog) fail(source string, err error) error {
	snap := &Snapshot{Status: StatusUnavailable, Source: source, Err: err}
	c.current.Store(snap)
	metrics.DatasetRecords.Set(0)
	metrics.DatasetAvailable.Set(0)

	kind := "fetch"
	if errors.Is(err, apperr.ErrParse) {
		kind = "parse"
	}
	c.logger.Error("catalog: dataset unavailable",
		slog.String("source", source),
		slog.String("kind", kind),
		slog.String("error", err.Error()))

	if c.onEvent != nil {
		c.onEvent("unavailable", snap)
	}
	return fmt.Errorf("catalog: load %s: %w", source, err)
}
