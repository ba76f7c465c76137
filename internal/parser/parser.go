// Package parser turns raw dataset documents into service records.
//
// Two document shapes are understood: a flat array whose objects carry the
// dimension headings as keys, and a CMS export whose items carry
// prefix-tagged category strings.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/starford/supportdir/internal/apperr"
	"github.com/starford/supportdir/internal/models"
)

// Shape identifies the layout of a dataset document.
type Shape string

// Known document shapes.
const (
	ShapeFlat Shape = "flat"
	ShapeCMS  Shape = "cms"
)

// Result holds the output of decoding a dataset document.
type Result struct {
	Shape   Shape
	Records []models.ServiceRecord
}

type cmsExport struct {
	Items *[]cmsItem `json:"items"`
}

type cmsItem struct {
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Categories []string `json:"categories"`
	Starred    bool     `json:"starred"`
}

// Decode detects the document shape and builds one record per entry, in
// document order. Record IDs are their zero-based positions.
func Decode(data []byte) (*Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", apperr.ErrParse)
	}

	switch trimmed[0] {
	case '[':
		records, err := decodeFlat(trimmed)
		if err != nil {
			return nil, err
		}
		return &Result{Shape: ShapeFlat, Records: records}, nil
	case '{':
		records, err := decodeCMS(trimmed)
		if err != nil {
			return nil, err
		}
		return &Result{Shape: ShapeCMS, Records: records}, nil
	default:
		return nil, fmt.Errorf("%w: document is neither an array nor an object", apperr.ErrParse)
	}
}

func decodeFlat(data []byte) ([]models.ServiceRecord, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrParse, err)
	}

	out := make([]models.ServiceRecord, 0, len(raw))
	for i, obj := range raw {
		rec := models.ServiceRecord{
			ID:         i,
			Dimensions: make(map[models.Dimension][]string, len(models.Dimensions)),
		}
		if err := decodeString(obj["Title"], &rec.Title); err != nil {
			return nil, fmt.Errorf("%w: record %d: Title: %w", apperr.ErrParse, i, err)
		}
		if err := decodeString(obj["Content"], &rec.Content); err != nil {
			return nil, fmt.Errorf("%w: record %d: Content: %w", apperr.ErrParse, i, err)
		}
		if err := decodeBool(obj["Featured"], &rec.Featured); err != nil {
			return nil, fmt.Errorf("%w: record %d: Featured: %w", apperr.ErrParse, i, err)
		}
		for _, d := range models.Dimensions {
			tags, err := decodeTags(obj[d.Label()])
			if err != nil {
				return nil, fmt.Errorf("%w: record %d: %s: %w", apperr.ErrParse, i, d.Label(), err)
			}
			if len(tags) > 0 {
				rec.Dimensions[d] = tags
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeCMS(data []byte) ([]models.ServiceRecord, error) {
	var doc cmsExport
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrParse, err)
	}
	if doc.Items == nil {
		return nil, fmt.Errorf("%w: object has no \"items\" array", apperr.ErrParse)
	}

	items := *doc.Items
	out := make([]models.ServiceRecord, 0, len(items))
	for i, item := range items {
		rec := models.ServiceRecord{
			ID:         i,
			Title:      item.Title,
			Content:    item.Body,
			Featured:   item.Starred,
			Dimensions: make(map[models.Dimension][]string, len(models.Dimensions)),
		}
		for _, d := range models.Dimensions {
			if tags := ExtractTag(Prefix(d), item.Categories); len(tags) > 0 {
				rec.Dimensions[d] = tags
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// decodeString accepts a JSON string or null.
func decodeString(raw json.RawMessage, dst *string) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// decodeBool accepts a JSON boolean or null.
func decodeBool(raw json.RawMessage, dst *bool) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// decodeTags accepts an array of strings, a single string, or null. Values
// are trimmed; blanks and duplicates are dropped, first occurrence wins.
func decodeTags(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var single string
		if err2 := json.Unmarshal(raw, &single); err2 != nil {
			return nil, err
		}
		list = []string{single}
	}

	seen := make(map[string]struct{}, len(list))
	var out []string
	for _, v := range list {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}
