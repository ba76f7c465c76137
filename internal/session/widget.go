package session

import (
	"slices"

	"github.com/starford/supportdir/internal/filter"
	"github.com/starford/supportdir/internal/models"
)

// Widget is the capability a multi-select control must offer. Presenters
// implement it for whatever UI toolkit they render with.
type Widget interface {
	Selected() []string
	SetSelected(values []string)
	Clear()
}

// SelectionFrom reads the current selection out of one widget per
// dimension. Missing widgets leave their dimension unconstrained.
func SelectionFrom(widgets map[models.Dimension]Widget) filter.Selection {
	sel := make(filter.Selection, len(widgets))
	for d, w := range widgets {
		if w == nil {
			continue
		}
		sel[d] = w.Selected()
	}
	return sel.Normalize()
}

// Apply pushes a selection into the widgets, clearing those whose dimension
// is unconstrained.
func Apply(widgets map[models.Dimension]Widget, sel filter.Selection) {
	norm := sel.Normalize()
	for d, w := range widgets {
		if w == nil {
			continue
		}
		if vs, ok := norm[d]; ok {
			w.SetSelected(vs)
		} else {
			w.Clear()
		}
	}
}

// ClearAll resets every widget to "All".
func ClearAll(widgets map[models.Dimension]Widget) {
	for _, w := range widgets {
		if w != nil {
			w.Clear()
		}
	}
}

// ListWidget is an in-memory Widget backed by a value list.
type ListWidget struct {
	values []string
}

// NewListWidget creates a widget with the given values selected.
func NewListWidget(values ...string) *ListWidget {
	return &ListWidget{values: slices.Clone(values)}
}

// Selected returns a copy of the selected values.
func (w *ListWidget) Selected() []string {
	return slices.Clone(w.values)
}

// SetSelected replaces the selected values.
func (w *ListWidget) SetSelected(values []string) {
	w.values = slices.Clone(values)
}

// Clear deselects everything.
func (w *ListWidget) Clear() {
	w.values = nil
}
