package notification

import (
	"html"
	"strconv"
	"strings"
)

// HTML renders the table the way a dataframe is rendered for email: a bordered
// table with the column names in thead and the index as row headers. Cells are
// escaped.
func (t *Table) HTML() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<table border="1" class="dataframe">` + "\n")
	b.WriteString("  <thead>\n    <tr>\n      <th></th>\n")
	for _, col := range t.Columns {
		b.WriteString("      <th>" + html.EscapeString(col) + "</th>\n")
	}
	b.WriteString("    </tr>\n  </thead>\n  <tbody>\n")

	for i, row := range t.Rows {
		label := strconv.Itoa(i)
		if i < len(t.Index) {
			label = t.Index[i]
		}
		b.WriteString("    <tr>\n      <th>" + html.EscapeString(label) + "</th>\n")

		width := len(row)
		if len(t.Columns) > width {
			width = len(t.Columns)
		}
		for j := 0; j < width; j++ {
			var cell string
			if j < len(row) && row[j] != nil {
				cell = *row[j]
			}
			b.WriteString("      <td>" + html.EscapeString(cell) + "</td>\n")
		}
		b.WriteString("    </tr>\n")
	}
	b.WriteString("  </tbody>\n</table>")
	return b.String()
}
