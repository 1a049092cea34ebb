package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want []string
	}{
		{"single spaces", "WIDTH 300 HEIGHT 200", []string{"WIDTH", "300", "HEIGHT", "200"}},
		{"runs of whitespace collapse", "  WIDTH \t 300  ", []string{"WIDTH", "300"}},
		{"control characters removed", "WID\x00TH 3\r00\n\x1A", []string{"WIDTH", "300"}},
		{"empty", "", []string{}},
		{"blank", " \t ", []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Tokenize(tt.line))
		})
	}
}

func TestIsMagic(t *testing.T) {
	t.Parallel()

	assert.True(t, IsMagic("%LOAD db.sqlite"))
	assert.True(t, IsMagic("\n%xvega_plot"), "sanitized before checking")
	assert.False(t, IsMagic("SELECT 1"))
	assert.False(t, IsMagic(" %LOAD x"))
	assert.False(t, IsMagic(""))
}

func TestParse(t *testing.T) {
	t.Parallel()

	line := Parse("%xvega_plot X_FIELD a <> SELECT a FROM t")
	assert.True(t, line.Magic)
	assert.Equal(t, "XVEGA_PLOT", line.Keyword())
	assert.Equal(t, []string{"XVEGA_PLOT", "X_FIELD", "a", "<>", "SELECT", "a", "FROM", "t"}, line.Tokens)

	sql := Parse("select * from t")
	assert.False(t, sql.Magic)
	assert.Equal(t, "select", sql.Keyword(), "non magic tokens keep their case")

	empty := Parse("")
	assert.False(t, empty.Magic)
	assert.Equal(t, "", empty.Keyword())
	assert.Empty(t, empty.Tokens)
}

func TestSplitQuery(t *testing.T) {
	t.Parallel()

	chart, query, found := SplitQuery([]string{"X_FIELD", "a", "<>", "SELECT", "*", "FROM", "t"})
	assert.True(t, found)
	assert.Equal(t, []string{"X_FIELD", "a"}, chart)
	assert.Equal(t, []string{"SELECT", "*", "FROM", "t"}, query)
	assert.Equal(t, "SELECT * FROM t", JoinQuery(query))

	chart, query, found = SplitQuery([]string{"a", "<>", "b", "<>", "c"})
	assert.True(t, found)
	assert.Equal(t, []string{"a"}, chart)
	assert.Equal(t, []string{"b", "<>", "c"}, query, "only the first delimiter splits")

	chart, query, found = SplitQuery([]string{"WIDTH", "10"})
	assert.False(t, found)
	assert.Equal(t, []string{"WIDTH", "10"}, chart)
	assert.Empty(t, query)
}
