package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return NewTable(
		"sales",
		NewHeader([]string{"price", "qty"}),
		[]Record{
			NewRecord([]string{"10", "1"}),
			NewRecord([]string{"20", "2"}),
			NewRecord([]string{"30"}),
		},
	)
}

func TestTable_Accessors(t *testing.T) {
	t.Parallel()

	table := sampleTable()
	assert.Equal(t, "sales", table.Name())
	assert.Equal(t, Header{"price", "qty"}, table.Header())
	assert.Equal(t, 3, table.Len())
	assert.Len(t, table.Records(), 3)
}

func TestTable_Columns(t *testing.T) {
	t.Parallel()

	columns := sampleTable().Columns()
	require.Len(t, columns, 2)
	assert.Equal(t, []string{"10", "20", "30"}, columns["price"])
	assert.Equal(t, []string{"1", "2", ""}, columns["qty"], "short records are padded")
}

func TestTable_Rows(t *testing.T) {
	t.Parallel()

	rows := sampleTable().Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, map[string]string{"price": "10", "qty": "1"}, rows[0])
	assert.Equal(t, map[string]string{"price": "30", "qty": ""}, rows[2])
}

func TestTable_Truncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		limit     int
		wantLen   int
		truncated bool
	}{
		{"no limit", 0, 3, false},
		{"negative limit", -1, 3, false},
		{"limit above length", 10, 3, false},
		{"limit equal to length", 3, 3, false},
		{"limit below length", 2, 2, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, truncated := sampleTable().Truncate(tt.limit)
			assert.Equal(t, tt.wantLen, got.Len())
			assert.Equal(t, tt.truncated, truncated)
		})
	}
}

func TestTable_ColumnInfo(t *testing.T) {
	t.Parallel()

	info := sampleTable().ColumnInfo()
	assert.Equal(t, []ColumnInfo{
		{Name: "price", Type: ColumnTypeInteger},
		{Name: "qty", Type: ColumnTypeInteger},
	}, info)
}

func TestTable_Equal(t *testing.T) {
	t.Parallel()

	assert.True(t, sampleTable().Equal(sampleTable()))

	other := NewTable("sales", NewHeader([]string{"price", "qty"}), []Record{NewRecord([]string{"10", "1"})})
	assert.False(t, sampleTable().Equal(other))

	renamed := NewTable("orders", sampleTable().Header(), sampleTable().Records())
	assert.False(t, sampleTable().Equal(renamed))
}

func TestTableFromFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filePath string
		want     string
	}{
		{"data.csv", "data"},
		{"/home/user/documents/data.csv", "data"},
		{"data.backup.csv", "data.backup"},
		{"data", "data"},
		{"data.csv.gz", "data"},
		{"DATA.TSV.ZST", "DATA"},
		{"logs.ltsv.xz", "logs"},
		{"book.xlsx", "book"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.filePath, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TableFromFilePath(tt.filePath))
		})
	}
}
