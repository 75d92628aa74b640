package analysis

import (
	"edalens/domain/dataset"
	"edalens/internal/profiling"
)

// NumericSeries is the data behind one histogram
type NumericSeries struct {
	Column string    `json:"column"`
	Values []float64 `json:"values"`
}

// CategorySeries is the data behind one bar chart, already truncated to the top categories
type CategorySeries struct {
	Column string                    `json:"column"`
	Counts []profiling.CategoryCount `json:"counts"`
}

// ChartSelection decides which columns get a chart. Columns past the cap are dropped silently.
type ChartSelection struct {
	Numeric     []NumericSeries  `json:"numeric"`
	Categorical []CategorySeries `json:"categorical"`
}

// SelectCharts takes the first MaxChartColumns columns of each kind in table order
func SelectCharts(t *dataset.Table, opts Options) ChartSelection {
	var sel ChartSelection
	for i, c := range t.NumericColumns() {
		if i >= opts.MaxChartColumns {
			break
		}
		sel.Numeric = append(sel.Numeric, NumericSeries{
			Column: c.Name,
			Values: c.NonMissingNumbers(),
		})
	}
	for i, c := range t.CategoricalColumns() {
		if i >= opts.MaxChartColumns {
			break
		}
		counts := profiling.ValueCounts(c.NonMissingValues())
		if len(counts) > opts.TopCategories {
			counts = counts[:opts.TopCategories]
		}
		sel.Categorical = append(sel.Categorical, CategorySeries{
			Column: c.Name,
			Counts: counts,
		})
	}
	return sel
}

// GridRows lays items out left to right, perRow per row
func GridRows[T any](items []T, perRow int) [][]T {
	if perRow <= 0 {
		perRow = 1
	}
	var rows [][]T
	for start := 0; start < len(items); start += perRow {
		end := start + perRow
		if end > len(items) {
			end = len(items)
		}
		rows = append(rows, items[start:end])
	}
	return rows
}
