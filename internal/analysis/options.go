package analysis

import "edalens/internal/config"

// Options holds the display heuristics shared by every view of a table
type Options struct {
	CorrelationThreshold float64
	SkewThreshold        float64
	HighCardinality      int
	SkewColumns          int
	MaxChartColumns      int
	ChartsPerRow         int
	TopCategories        int
	PreviewRows          int
	ReportColumns        int
}

// DefaultOptions returns the stock thresholds: |r| > 0.5, |skew| > 1 on the first 3 numeric columns,
// more than 50 distinct values, 6 charts per kind in rows of 3, top 10 categories
func DefaultOptions() Options {
	return Options{
		CorrelationThreshold: 0.5,
		SkewThreshold:        1.0,
		HighCardinality:      50,
		SkewColumns:          3,
		MaxChartColumns:      6,
		ChartsPerRow:         3,
		TopCategories:        10,
		PreviewRows:          5,
		ReportColumns:        3,
	}
}

// OptionsFromConfig maps the environment-driven analysis section onto Options
func OptionsFromConfig(cfg config.AnalysisConfig) Options {
	return Options{
		CorrelationThreshold: cfg.CorrelationThreshold,
		SkewThreshold:        cfg.SkewThreshold,
		HighCardinality:      cfg.HighCardinality,
		SkewColumns:          cfg.SkewColumns,
		MaxChartColumns:      cfg.MaxChartColumns,
		ChartsPerRow:         cfg.ChartsPerRow,
		TopCategories:        cfg.TopCategories,
		PreviewRows:          cfg.PreviewRows,
		ReportColumns:        cfg.ReportColumns,
	}
}
