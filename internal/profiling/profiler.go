package profiling

import (
	"fmt"
	"sort"

	"edalens/domain/dataset"
)

// DataProfiler builds the overview tab: shape, missingness, memory, types, preview and describe table
type DataProfiler struct {
	analyzer    *DistributionAnalyzer
	previewRows int
}

// NewDataProfiler creates a profiler that previews the first previewRows rows
func NewDataProfiler(previewRows int) *DataProfiler {
	return &DataProfiler{
		analyzer:    NewDistributionAnalyzer(),
		previewRows: previewRows,
	}
}

// Summarize computes the overview over whatever columns exist; an empty table yields zero counts
func (dp *DataProfiler) Summarize(t *dataset.Table) Overview {
	bytes := t.MemoryBytes()
	ov := Overview{
		Rows:        t.Rows,
		Columns:     t.NumColumns(),
		Missing:     t.MissingCount(),
		MemoryBytes: bytes,
		MemoryMB:    FormatMB(bytes),
		Kinds:       kindCounts(t),
		Header:      t.ColumnNames(),
		Preview:     t.Head(dp.previewRows),
		Describe:    make([]ColumnSummary, 0, t.NumColumns()),
	}
	for i := range t.Columns {
		ov.Describe = append(ov.Describe, dp.ProfileColumn(&t.Columns[i]))
	}
	return ov
}

// ProfileColumn describes a single column according to its kind
func (dp *DataProfiler) ProfileColumn(c *dataset.Column) ColumnSummary {
	summary := ColumnSummary{
		Name:    c.Name,
		Kind:    c.Kind,
		Missing: c.MissingCount(),
	}
	if c.IsNumeric() {
		num := dp.analyzer.AnalyzeNumeric(c.NonMissingNumbers())
		summary.Numeric = &num
		return summary
	}
	cat := dp.analyzer.AnalyzeCategorical(c.NonMissingValues(), 0)
	summary.Categorical = &cat
	return summary
}

// kindCounts orders the type breakdown by count descending, then by kind name
func kindCounts(t *dataset.Table) []KindCount {
	counts := t.KindCounts()
	out := make([]KindCount, 0, len(counts))
	for kind, n := range counts {
		out = append(out, KindCount{Kind: kind, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// FormatMB renders a byte count as megabytes with two decimals
func FormatMB(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}
