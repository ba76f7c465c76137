package web

import (
	"html/template"
	"maps"
	"net/url"
	"slices"
	"strconv"

	"github.com/starford/supportdir/internal/apperr"
	"github.com/starford/supportdir/internal/filter"
	"github.com/starford/supportdir/internal/models"
	"github.com/starford/supportdir/internal/parser"
	"github.com/starford/supportdir/internal/session"
)

// excerptLimit is the number of characters of plain text shown per card.
const excerptLimit = 100

type option struct {
	Value    string
	Selected bool
}

type field struct {
	Name        string
	Label       string
	Constrained bool
	Options     []option
}

type filtersData struct {
	Fields []field
}

type card struct {
	Title    string
	Link     string
	Excerpt  string
	Content  template.HTML
	Featured bool
}

type section struct {
	Heading string
	Cards   []card
}

type resultsData struct {
	Unavailable bool
	Message     string
	Empty       bool
	Total       int
	Sections    []section
}

type button struct {
	Number  int
	Link    string
	Current bool
}

type paginationData struct {
	Prev    string
	Next    string
	More    string
	Buttons []button
}

func buildFilters(opts filter.Options, sel filter.Selection) filtersData {
	var data filtersData
	for _, d := range models.Dimensions {
		f := field{Name: string(d), Label: d.Label(), Constrained: sel.Has(d)}
		picked := sel.Values(d)
		for _, v := range opts[d] {
			selected := slices.ContainsFunc(picked, func(p string) bool { return filter.SameTag(p, v) })
			f.Options = append(f.Options, option{Value: v, Selected: selected})
		}
		data.Fields = append(data.Fields, f)
	}
	return data
}

func buildResults(view session.View) resultsData {
	data := resultsData{Empty: view.Empty, Total: view.Total}
	add := func(heading string, records []models.ServiceRecord) {
		if len(records) == 0 {
			return
		}
		s := section{Heading: heading}
		for _, r := range records {
			s.Cards = append(s.Cards, newCard(r))
		}
		data.Sections = append(data.Sections, s)
	}
	add("Featured", view.Sections.Featured)
	add("Local services", view.Sections.Local)
	add("National services", view.Sections.National)
	return data
}

func unavailableResults() resultsData {
	return resultsData{Unavailable: true, Message: apperr.UnavailableMessage}
}

func newCard(r models.ServiceRecord) card {
	c := card{
		Title:    r.Title,
		Link:     "/api/services/" + strconv.Itoa(r.ID),
		Featured: r.Featured,
	}
	if !r.HasContent() {
		c.Excerpt = parser.NoDescription
		return c
	}
	c.Excerpt = parser.Excerpt(r.Content, excerptLimit)
	c.Content = template.HTML(parser.Sanitize(r.Content))
	return c
}

func buildPagination(st session.State, view session.View) paginationData {
	var data paginationData
	base := selectionQuery(st.Selection)
	link := func(key string, n int) string {
		q := maps.Clone(base)
		q.Set(key, strconv.Itoa(n))
		return "/?" + q.Encode()
	}

	if p := view.Pages; p != nil && p.TotalPages > 1 {
		if p.HasPrev {
			data.Prev = link("page", p.Prev())
		}
		if p.HasNext {
			data.Next = link("page", p.Next())
		}
		for _, n := range p.Buttons {
			data.Buttons = append(data.Buttons, button{Number: n, Link: link("page", n), Current: n == p.Current})
		}
	}
	if p := view.Progress; p != nil && p.HasMore {
		data.More = link("shown", p.Advance().Shown)
	}
	return data
}

func selectionQuery(sel filter.Selection) url.Values {
	q := url.Values{}
	for _, d := range models.Dimensions {
		for _, v := range sel.Values(d) {
			q.Add(string(d), v)
		}
	}
	return q
}
