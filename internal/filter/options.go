package filter

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/starford/supportdir/internal/models"
)

// Options holds, per dimension, the distinct tag values found anywhere in a
// dataset, sorted. It is built once per load and does not narrow with the
// current selection.
type Options map[models.Dimension][]string

// BuildOptions collects the option set of every dimension. Each dimension is
// present in the result, possibly with an empty list. Tags equal under case
// folding are offered once, and the sentinel is never offered.
func BuildOptions(records []models.ServiceRecord) Options {
	out := make(Options, len(models.Dimensions))
	caser := cases.Fold()
	for _, d := range models.Dimensions {
		seen := make(map[string]struct{})
		values := []string{}
		for _, r := range records {
			for _, tag := range r.Tags(d) {
				tag = strings.TrimSpace(tag)
				if tag == "" || IsAll(tag) {
					continue
				}
				// Spellings that differ only in case select the same
				// records; the first one seen is offered.
				key := fold(caser, tag)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				values = append(values, tag)
			}
		}
		sort.Strings(values)
		out[d] = values
	}
	return out
}

// Count returns the total number of options across all dimensions.
func (o Options) Count() int {
	n := 0
	for _, vs := range o {
		n += len(vs)
	}
	return n
}
