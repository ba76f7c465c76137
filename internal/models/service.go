// Package models defines the domain types for the support directory.
package models

// Dimension names one of the fixed filter categories.
type Dimension string

// The five filter dimensions, in display order.
const (
	WhoDied       Dimension = "who_died"
	Circumstances Dimension = "circumstances"
	Age           Dimension = "age"
	SupportType   Dimension = "support_type"
	Location      Dimension = "location"
)

// Dimensions lists every dimension in display order.
var Dimensions = []Dimension{WhoDied, Circumstances, Age, SupportType, Location}

var dimensionLabels = map[Dimension]string{
	WhoDied:       "Who has died?",
	Circumstances: "Circumstances of death",
	Age:           "Age of person needing support",
	SupportType:   "Type of support",
	Location:      "Location",
}

// Label returns the human-readable heading of the dimension. It doubles as
// the field name in the flat dataset shape.
func (d Dimension) Label() string {
	return dimensionLabels[d]
}

// Valid reports whether d is one of the known dimensions.
func (d Dimension) Valid() bool {
	_, ok := dimensionLabels[d]
	return ok
}

// ServiceRecord is one directory entry. Records are built once at load time
// and never mutated afterwards.
type ServiceRecord struct {
	ID         int                    `json:"id"`
	Title      string                 `json:"title"`
	Content    string                 `json:"content,omitempty"`
	Dimensions map[Dimension][]string `json:"dimensions"`
	Featured   bool                   `json:"featured"`
}

// Tags returns the record's tags for d. A missing dimension yields nil.
func (r ServiceRecord) Tags(d Dimension) []string {
	return r.Dimensions[d]
}

// HasContent reports whether the record carries a description.
func (r ServiceRecord) HasContent() bool {
	return r.Content != ""
}
