package notification

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		contains []string
		excludes []string
	}{
		{
			name:     "script removed",
			in:       `<p>Weekly spend</p><script>alert(1)</script>`,
			contains: []string{"<p>Weekly spend</p>"},
			excludes: []string{"<script", "alert(1)"},
		},
		{
			name:     "event handler and style removed",
			in:       `<div onclick="steal()" style="color:red">hi</div>`,
			contains: []string{"<div>hi</div>"},
			excludes: []string{"onclick", "style"},
		},
		{
			name:     "links keep href and title",
			in:       `<a href="https://example.org/d/1" title="Dashboard" target="_blank">open</a>`,
			contains: []string{`href="https://example.org/d/1"`, `title="Dashboard"`, ">open</a>"},
			excludes: []string{"target"},
		},
		{
			name:     "javascript urls dropped",
			in:       `<a href="javascript:alert(1)">x</a>`,
			excludes: []string{"javascript"},
		},
		{
			name:     "disallowed tags unwrapped",
			in:       `<h1>Title</h1><img src="x.png"><em>ok</em>`,
			contains: []string{"Title", "<em>ok</em>"},
			excludes: []string{"<h1>", "<img"},
		},
		{
			name:     "table attributes kept",
			in:       `<table border="1" class="dataframe" id="t"><tr><td colspan="2">x</td></tr></table>`,
			contains: []string{`border="1"`, `class="dataframe"`, `colspan="2"`},
			excludes: []string{`id="t"`},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Sanitize(tc.in)
			for _, want := range tc.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tc.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestSanitizeTableAllowsOnlyTables(t *testing.T) {
	got := SanitizeTable(`<table class="dataframe"><tr><td><b>bold</b> <a href="https://example.org">x</a></td></tr></table>`)

	assert.Contains(t, got, `<table class="dataframe">`)
	assert.Contains(t, got, "<td>bold x</td>")
	assert.NotContains(t, got, "<b>")
	assert.NotContains(t, got, "<a")
}

func TestSanitizeRepairsInvalidUTF8(t *testing.T) {
	got := Sanitize("\xff\xfe<b>bold</b>")
	assert.True(t, utf8.ValidString(got), "%q", got)
	assert.Contains(t, got, "<b>bold</b>")

	got = SanitizeTable("<table><tr><td>\xc3(</td></tr></table>")
	assert.True(t, utf8.ValidString(got), "%q", got)
}
