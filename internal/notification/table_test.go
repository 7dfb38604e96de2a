package notification

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestTableHTML(t *testing.T) {
	table := &Table{
		Columns: []string{"resource", "cost"},
		Index:   []string{"a", "b"},
		Rows: [][]*string{
			{str("AWSLambda"), str("12.5")},
			{str("<script>x</script>"), nil},
		},
	}

	got := table.HTML()

	assert.True(t, strings.HasPrefix(got, `<table border="1" class="dataframe">`))
	assert.Contains(t, got, "<th>resource</th>")
	assert.Contains(t, got, "<th>a</th>\n      <td>AWSLambda</td>\n      <td>12.5</td>")
	assert.Contains(t, got, "<td>&lt;script&gt;x&lt;/script&gt;</td>\n      <td></td>")
	assert.NotContains(t, got, "<script>")
}

func TestTableHTMLDefaultIndexAndPadding(t *testing.T) {
	table := &Table{
		Columns: []string{"x", "y"},
		Rows:    [][]*string{{str("1")}},
	}

	got := table.HTML()

	assert.Contains(t, got, "<th>0</th>\n      <td>1</td>\n      <td></td>")
	assert.Equal(t, "", (*Table)(nil).HTML())
}

func TestTableUnmarshalJSON(t *testing.T) {
	var table Table
	err := json.Unmarshal([]byte(`{"columns":["name",2],"index":[0,1],"data":[["a",1.50],[null,true]]}`), &table)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "2"}, table.Columns)
	assert.Equal(t, []string{"0", "1"}, table.Index)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "a", *table.Rows[0][0])
	assert.Equal(t, "1.50", *table.Rows[0][1])
	assert.Nil(t, table.Rows[1][0])
	assert.Equal(t, "true", *table.Rows[1][1])

	raw, err := json.Marshal(table)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["name","2"],"index":["0","1"],"data":[["a","1.50"],[null,"true"]]}`, string(raw))
}
