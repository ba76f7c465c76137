package api

import (
	"github.com/starford/supportdir/internal/filter"
	"github.com/starford/supportdir/internal/models"
	"github.com/starford/supportdir/internal/session"
)

// DimensionOptions is the option list of one filter dropdown.
type DimensionOptions struct {
	Name    string   `json:"name" example:"who_died" validate:"required"`
	Label   string   `json:"label" example:"Who has died?" validate:"required"`
	Options []string `json:"options" validate:"required"`
}

// OptionsResponse lists every dimension in display order.
type OptionsResponse struct {
	Dimensions []DimensionOptions `json:"dimensions" validate:"required"`
}

func newOptionsResponse(opts filter.Options) OptionsResponse {
	out := OptionsResponse{Dimensions: make([]DimensionOptions, 0, len(models.Dimensions))}
	for _, d := range models.Dimensions {
		values := opts[d]
		if values == nil {
			values = []string{}
		}
		out.Dimensions = append(out.Dimensions, DimensionOptions{
			Name:    string(d),
			Label:   d.Label(),
			Options: values,
		})
	}
	return out
}

// SessionRequest is the body of every /session call. Selection is read by
// /session/filter, Cursor by /session/page.
type SessionRequest struct {
	State     session.State    `json:"state"`
	Selection filter.Selection `json:"selection,omitempty"`
	Cursor    *int             `json:"cursor,omitempty" example:"2"`
}

// ViewResponse pairs the next state with the view it produces.
type ViewResponse struct {
	State session.State `json:"state" validate:"required"`
	View  session.View  `json:"view" validate:"required"`
}
