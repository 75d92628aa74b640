package app

import (
	"fmt"
	"time"

	"edalens/domain/dataset"
	"edalens/internal"
	"edalens/internal/analysis"
	"edalens/internal/charts"
	"edalens/internal/errors"
	"edalens/internal/profiling"
	"edalens/internal/report"
)

// Dashboard is the view model of all five tabs, recomputed from the table on every request
type Dashboard struct {
	FileName      string                     `json:"file_name"`
	LoadedMessage string                     `json:"loaded_message"`
	Overview      profiling.Overview         `json:"overview"`
	Selection     analysis.ChartSelection    `json:"charts"`
	NumericRows   [][]charts.Chart           `json:"-"`
	CategoryRows  [][]charts.Chart           `json:"-"`
	Correlation   analysis.CorrelationResult `json:"correlation"`
	Heatmap       *charts.Chart              `json:"-"`
	Insights      []analysis.Insight         `json:"insights"`
	Report        report.Report              `json:"report"`
	ReportHTML    string                     `json:"-"`
	BuildMs       float64                    `json:"build_ms"`
}

// BuildObserver receives the duration of each build
type BuildObserver func(time.Duration)

// DashboardService runs the one-directional pipeline: overview, charts, correlation, insights, report
type DashboardService struct {
	opts        analysis.Options
	profiler    *profiling.DataProfiler
	correlation *analysis.CorrelationAnalyzer
	insights    *analysis.InsightGenerator
	renderer    *charts.Renderer
	reports     *report.Builder
	logger      *internal.Logger
	observe     BuildObserver
	now         func() time.Time
}

// NewDashboardService creates a dashboard service
func NewDashboardService(opts analysis.Options, logger *internal.Logger, observe BuildObserver) *DashboardService {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if observe == nil {
		observe = func(time.Duration) {}
	}
	return &DashboardService{
		opts:        opts,
		profiler:    profiling.NewDataProfiler(opts.PreviewRows),
		correlation: analysis.NewCorrelationAnalyzer(opts.CorrelationThreshold),
		insights:    analysis.NewInsightGenerator(opts),
		renderer:    charts.NewRenderer(),
		reports:     report.NewBuilder(opts.ReportColumns),
		logger:      logger,
		observe:     observe,
		now:         time.Now,
	}
}

// Build recomputes every derived view. Nothing is cached between calls.
func (s *DashboardService) Build(table *dataset.Table) (*Dashboard, error) {
	if table == nil {
		return nil, errors.NoDataset()
	}
	start := time.Now()

	d := &Dashboard{
		FileName:      table.Name,
		LoadedMessage: LoadedMessage(table),
		Overview:      s.profiler.Summarize(table),
		Selection:     analysis.SelectCharts(table, s.opts),
		Correlation:   s.correlation.Analyze(table),
		Insights:      s.insights.Generate(table),
	}

	if err := s.renderCharts(d); err != nil {
		return nil, err
	}

	d.Report = s.reports.Build(table, s.now())
	d.ReportHTML = d.Report.HTML()

	elapsed := time.Since(start)
	d.BuildMs = float64(elapsed.Nanoseconds()) / 1e6
	s.observe(elapsed)
	s.logger.Debug("[Dashboard] Built view for %s (%d numeric charts, %d categorical charts, %d strong pairs) in %.2fms",
		table.Name, len(d.Selection.Numeric), len(d.Selection.Categorical), len(d.Correlation.Pairs), d.BuildMs)
	return d, nil
}

// Report derives the export for a table with the current timestamp
func (s *DashboardService) Report(table *dataset.Table) (report.Report, error) {
	if table == nil {
		return report.Report{}, errors.NoDataset()
	}
	return s.reports.Build(table, s.now()), nil
}

func (s *DashboardService) renderCharts(d *Dashboard) error {
	numeric := make([]charts.Chart, 0, len(d.Selection.Numeric))
	for _, series := range d.Selection.Numeric {
		chart, err := s.renderer.Histogram(series.Column, series.Values)
		if err != nil {
			return errors.Wrapf(err, "histogram for %s", series.Column)
		}
		numeric = append(numeric, chart)
	}

	categorical := make([]charts.Chart, 0, len(d.Selection.Categorical))
	for _, series := range d.Selection.Categorical {
		chart, err := s.renderer.Bar(series.Column, series.Counts)
		if err != nil {
			return errors.Wrapf(err, "bar chart for %s", series.Column)
		}
		categorical = append(categorical, chart)
	}

	d.NumericRows = analysis.GridRows(numeric, s.opts.ChartsPerRow)
	d.CategoryRows = analysis.GridRows(categorical, s.opts.ChartsPerRow)

	if d.Correlation.Matrix != nil {
		heatmap, err := s.renderer.Heatmap(d.Correlation.Matrix)
		if err != nil {
			return errors.Wrap(err, "correlation heatmap")
		}
		d.Heatmap = &heatmap
	}
	return nil
}

// LoadedMessage is the success banner shown after an upload
func LoadedMessage(t *dataset.Table) string {
	return fmt.Sprintf("Successfully loaded %d rows and %d columns", t.Rows, t.NumColumns())
}
