// Package filter computes which directory records match a set of
// per-dimension selections.
//
// Within one dimension the selected values are OR-ed; across dimensions the
// constraints are AND-ed. Tags compare case-insensitively after trimming.
package filter

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/starford/supportdir/internal/models"
)

// AllSentinel is the value of the "All" option in a dropdown. "All" itself
// is only a label; a tag spelled "All" is an ordinary value.
const AllSentinel = "--"

// Selection maps a dimension to the tag values picked for it. A dimension
// that is absent, empty, or carries the sentinel is unconstrained.
type Selection map[models.Dimension][]string

// IsAll reports whether v means "no constraint".
func IsAll(v string) bool {
	return strings.TrimSpace(v) == AllSentinel
}

// SameTag reports whether two tag values select the same records.
func SameTag(a, b string) bool {
	c := cases.Fold()
	return fold(c, a) == fold(c, b)
}

// FromValues builds a Selection from form-style values keyed by dimension
// name. Keys that are not dimensions are ignored.
func FromValues(values map[string][]string) Selection {
	sel := make(Selection)
	for _, d := range models.Dimensions {
		if vs, ok := values[string(d)]; ok {
			sel[d] = slices.Clone(vs)
		}
	}
	return sel.Normalize()
}

// Normalize returns a copy holding only constrained dimensions, with values
// trimmed and blanks removed.
func (s Selection) Normalize() Selection {
	out := make(Selection, len(s))
	for d, vs := range s {
		if !d.Valid() {
			continue
		}
		var kept []string
		all := false
		for _, v := range vs {
			if IsAll(v) {
				all = true
				break
			}
			if v = strings.TrimSpace(v); v != "" {
				kept = append(kept, v)
			}
		}
		if all || len(kept) == 0 {
			continue
		}
		out[d] = kept
	}
	return out
}

// Constrained reports whether any dimension restricts the result.
func (s Selection) Constrained() bool {
	return len(s.Normalize()) > 0
}

// Has reports whether d is constrained.
func (s Selection) Has(d models.Dimension) bool {
	_, ok := s.Normalize()[d]
	return ok
}

// Values returns the effective selected values of d, or nil when d is
// unconstrained.
func (s Selection) Values(d models.Dimension) []string {
	return s.Normalize()[d]
}

// Equal reports whether two selections constrain the same dimensions to the
// same value sets, ignoring order and case.
func (s Selection) Equal(other Selection) bool {
	a, b := s.compile(cases.Fold()), other.compile(cases.Fold())
	if len(a) != len(b) {
		return false
	}
	for d, set := range a {
		oset, ok := b[d]
		if !ok || len(set) != len(oset) {
			return false
		}
		for v := range set {
			if _, ok := oset[v]; !ok {
				return false
			}
		}
	}
	return true
}

type compiled map[models.Dimension]map[string]struct{}

func (s Selection) compile(c cases.Caser) compiled {
	norm := s.Normalize()
	out := make(compiled, len(norm))
	for d, vs := range norm {
		set := make(map[string]struct{}, len(vs))
		for _, v := range vs {
			set[fold(c, v)] = struct{}{}
		}
		out[d] = set
	}
	return out
}

func (c compiled) matches(caser cases.Caser, r models.ServiceRecord) bool {
	for d, want := range c {
		hit := false
		for _, tag := range r.Tags(d) {
			if _, ok := want[fold(caser, tag)]; ok {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func fold(c cases.Caser, v string) string {
	return c.String(strings.TrimSpace(v))
}

// Match returns the records that satisfy sel, in their original order.
// The input is never modified.
func Match(records []models.ServiceRecord, sel Selection) []models.ServiceRecord {
	caser := cases.Fold()
	want := sel.compile(caser)
	if len(want) == 0 {
		return slices.Clone(records)
	}
	out := make([]models.ServiceRecord, 0, len(records))
	for _, r := range records {
		if want.matches(caser, r) {
			out = append(out, r)
		}
	}
	return out
}
