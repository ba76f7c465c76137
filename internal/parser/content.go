package parser

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// NoDescription is shown in place of a missing description.
const NoDescription = "No description available."

var policy = bluemonday.UGCPolicy()

// Sanitize strips anything from description HTML that is not safe to embed
// in a page.
func Sanitize(content string) string {
	return policy.Sanitize(content)
}

// Excerpt reduces HTML to plain text and, when it is longer than limit
// runes, cuts it at the last space inside the limit and appends " ...".
func Excerpt(content string, limit int) string {
	text := PlainText(content)
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > -1 {
		cut = cut[:i]
	}
	return cut + " ..."
}

// PlainText returns the text content of an HTML fragment with runs of
// whitespace collapsed to single spaces.
func PlainText(content string) string {
	if content == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return strings.Join(strings.Fields(content), " ")
	}
	var sb strings.Builder
	collectText(doc, &sb)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript":
			return
		case "p", "div", "br", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
			sb.WriteString(" ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
