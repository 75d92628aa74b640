package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(insights []Insight) []string {
	out := make([]string, len(insights))
	for i, in := range insights {
		out[i] = in.Text
	}
	return out
}

func TestInsightsOrderAndMissingValues(t *testing.T) {
	table := columnsTable(t, []string{"n", "c"},
		[]string{"1", "", "2", "3"},
		[]string{"a", "b", "", "a"},
	)

	insights := NewInsightGenerator(DefaultOptions()).Generate(table)
	assert.Equal(t, []string{
		"⚠️ Dataset has 2 missing values (25.00% of total data)",
		"📊 Dataset contains 1 numeric and 1 categorical features",
	}, texts(insights))
	assert.Equal(t, SeverityWarning, insights[0].Severity)
	assert.Equal(t, SeverityInfo, insights[1].Severity)
}

func TestInsightsNoMissingLineWhenComplete(t *testing.T) {
	table := columnsTable(t, []string{"c"}, []string{"a", "b"})

	insights := NewInsightGenerator(DefaultOptions()).Generate(table)
	assert.Equal(t, []string{"📊 Dataset contains 0 numeric and 1 categorical features"}, texts(insights))
}

func TestHighCardinalityBoundary(t *testing.T) {
	distinct := func(n int) []string {
		values := make([]string, 60)
		for i := range values {
			values[i] = fmt.Sprintf("v%d", i%n)
		}
		return values
	}
	table := columnsTable(t, []string{"exactly50", "fiftyone", "wide"},
		distinct(50), distinct(51), distinct(60))

	insights := NewInsightGenerator(DefaultOptions()).Generate(table)
	assert.Contains(t, texts(insights), "🔍 Features with high cardinality: fiftyone, wide")
}

func TestSkewInsights(t *testing.T) {
	table := columnsTable(t, []string{"right", "left", "mild", "ignored"},
		floats(1, 2, 3, 10, 1),
		floats(-100, 1, 2, 3, 4),
		floats(1, 2, 2, 3, 3),
		floats(1, 1, 1, 1, 500),
	)

	insights := SkewInsights(table, DefaultOptions())
	require.Len(t, insights, 2)
	assert.Regexp(t, `^📈 Feature 'right' is highly skewed to the right \(skewness: \d+\.\d{2}\)$`, insights[0].Text)
	assert.Equal(t, "📈 Feature 'left' is highly skewed to the left (skewness: -2.23)", insights[1].Text)
}

func TestSkewInsightsRespectColumnLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.SkewColumns = 1
	table := columnsTable(t, []string{"flat", "skewed"},
		floats(1, 2, 3, 4, 5),
		floats(1, 1, 1, 1, 500),
	)

	assert.Empty(t, SkewInsights(table, opts))
}

func TestInsightsEmptyTable(t *testing.T) {
	table := columnsTable(t, []string{"a"}, []string{})

	insights := NewInsightGenerator(DefaultOptions()).Generate(table)
	assert.Equal(t, []string{"📊 Dataset contains 1 numeric and 0 categorical features"}, texts(insights))
}
