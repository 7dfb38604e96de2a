package notification

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	tableTags       = []string{"table", "th", "tr", "td", "thead", "tbody", "tfoot"}
	tableAttributes = []string{"colspan", "rowspan", "halign", "border", "class"}
	textTags        = []string{"a", "abbr", "acronym", "b", "blockquote", "br", "code", "div", "em", "i", "li", "ol", "p", "strong", "ul"}
)

var (
	descriptionPolicy = newDescriptionPolicy()
	tablePolicy       = newTablePolicy()
)

func newTablePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(tableTags...)
	p.AllowAttrs(tableAttributes...).OnElements(tableTags...)
	return p
}

func newDescriptionPolicy() *bluemonday.Policy {
	p := newTablePolicy()
	p.AllowElements(textTags...)
	p.AllowStandardURLs()
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("title").OnElements("abbr", "acronym")
	return p
}

// Sanitize strips everything from a report description except basic text
// formatting, links and tables. Invalid UTF-8 is replaced with U+FFFD.
func Sanitize(s string) string {
	return descriptionPolicy.Sanitize(strings.ToValidUTF8(s, "\uFFFD"))
}

// SanitizeTable strips everything but table markup.
func SanitizeTable(s string) string {
	return tablePolicy.Sanitize(strings.ToValidUTF8(s, "\uFFFD"))
}
