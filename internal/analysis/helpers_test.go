package analysis

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"edalens/adapters/excel"
	"edalens/domain/dataset"
)

// columnsTable builds a table from named columns of equal length
func columnsTable(t *testing.T, names []string, columns ...[]string) *dataset.Table {
	t.Helper()
	require.Len(t, columns, len(names))
	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0])
	}
	raw := &excel.RawData{Headers: names}
	for r := 0; r < rows; r++ {
		row := make([]string, len(columns))
		for c := range columns {
			row[c] = columns[c][r]
		}
		raw.Rows = append(raw.Rows, row)
	}
	table, err := excel.BuildTable("test.csv", raw)
	require.NoError(t, err)
	return table
}

func floats(values ...float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}
