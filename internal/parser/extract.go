package parser

import (
	"sort"
	"strings"

	"github.com/starford/supportdir/internal/models"
)

var cmsPrefixes = map[models.Dimension]string{
	models.WhoDied:       "Who:",
	models.Circumstances: "Cir:",
	models.Age:           "Age:",
	models.SupportType:   "Type:",
	models.Location:      "Location:",
}

// Prefix returns the CMS category prefix that carries tags for d.
func Prefix(d models.Dimension) string {
	return cmsPrefixes[d]
}

// ExtractTag collects the values of every raw tag that starts with prefix.
// The value is the remainder after the prefix, trimmed. Tags with a blank
// remainder are dropped. The result is deduplicated and sorted.
func ExtractTag(prefix string, rawTags []string) []string {
	if prefix == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, raw := range rawTags {
		rest, ok := strings.CutPrefix(raw, prefix)
		if !ok {
			continue
		}
		v := strings.TrimSpace(rest)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
