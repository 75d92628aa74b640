package analysis

import (
	"fmt"
	"math"
	"strings"

	"edalens/domain/dataset"
	"edalens/internal/profiling"
)

// Severity drives the styling of an insight card
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Insight is one line of the insights tab
type Insight struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// insightRule appends zero or one insight for a table
type insightRule func(t *dataset.Table, opts Options) (Insight, bool)

// InsightGenerator applies the rules in a fixed order
type InsightGenerator struct {
	opts  Options
	rules []insightRule
}

// NewInsightGenerator wires the rules: missing data, type mix, high cardinality, skewness
func NewInsightGenerator(opts Options) *InsightGenerator {
	return &InsightGenerator{
		opts: opts,
		rules: []insightRule{
			missingValuesRule,
			typeMixRule,
			highCardinalityRule,
		},
	}
}

// Generate runs every rule. Skewness is checked per column and may add several lines.
func (g *InsightGenerator) Generate(t *dataset.Table) []Insight {
	var insights []Insight
	for _, rule := range g.rules {
		if insight, ok := rule(t, g.opts); ok {
			insights = append(insights, insight)
		}
	}
	return append(insights, SkewInsights(t, g.opts)...)
}

func missingValuesRule(t *dataset.Table, _ Options) (Insight, bool) {
	pct := t.MissingPercent()
	if !(pct > 0) {
		return Insight{}, false
	}
	return Insight{
		Text:     fmt.Sprintf("⚠️ Dataset has %d missing values (%.2f%% of total data)", t.MissingCount(), pct),
		Severity: SeverityWarning,
	}, true
}

func typeMixRule(t *dataset.Table, _ Options) (Insight, bool) {
	return Insight{
		Text: fmt.Sprintf("📊 Dataset contains %d numeric and %d categorical features",
			len(t.NumericColumns()), len(t.CategoricalColumns())),
		Severity: SeverityInfo,
	}, true
}

func highCardinalityRule(t *dataset.Table, opts Options) (Insight, bool) {
	var names []string
	for _, c := range t.CategoricalColumns() {
		if profiling.Cardinality(c.NonMissingValues()) > opts.HighCardinality {
			names = append(names, c.Name)
		}
	}
	if len(names) == 0 {
		return Insight{}, false
	}
	return Insight{
		Text:     "🔍 Features with high cardinality: " + strings.Join(names, ", "),
		Severity: SeverityInfo,
	}, true
}

// SkewInsights checks only the first opts.SkewColumns numeric columns; NaN skewness never fires
func SkewInsights(t *dataset.Table, opts Options) []Insight {
	var insights []Insight
	for i, c := range t.NumericColumns() {
		if i >= opts.SkewColumns {
			break
		}
		skew := profiling.Skewness(c.NonMissingNumbers())
		if math.IsNaN(skew) || math.Abs(skew) <= opts.SkewThreshold {
			continue
		}
		direction := "right"
		if skew < 0 {
			direction = "left"
		}
		insights = append(insights, Insight{
			Text:     fmt.Sprintf("📈 Feature '%s' is highly skewed to the %s (skewness: %.2f)", c.Name, direction, skew),
			Severity: SeverityInfo,
		})
	}
	return insights
}
