package analysis

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeNeedsTwoNumericColumns(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		cols  [][]string
	}{
		{"no numeric", []string{"a"}, [][]string{{"x", "y"}}},
		{"one numeric", []string{"a", "b"}, [][]string{floats(1, 2), {"x", "y"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewCorrelationAnalyzer(0.5).Analyze(columnsTable(t, tt.names, tt.cols...))
			assert.Equal(t, NoNumericColumnsMessage, result.Warning)
			assert.Nil(t, result.Matrix)
			assert.Empty(t, result.Pairs)
		})
	}
}

func TestPearsonMatrixIsSymmetricWithUnitDiagonal(t *testing.T) {
	table := columnsTable(t, []string{"a", "b", "c"},
		floats(1, 2, 3, 4, 5),
		floats(2, 4, 6, 8, 10),
		floats(5, 3, 4, 1, 2),
	)

	m := PearsonMatrix(table.NumericColumns())
	require.Equal(t, []string{"a", "b", "c"}, m.Columns)
	for i := range m.Columns {
		assert.Equal(t, 1.0, m.At(i, i))
		for j := range m.Columns {
			assert.Equal(t, m.At(i, j), m.At(j, i))
		}
	}
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-12)
	assert.InDelta(t, -0.8, m.At(0, 2), 1e-12)
}

func TestPearsonUsesPairwiseCompleteRows(t *testing.T) {
	table := columnsTable(t, []string{"a", "b"},
		[]string{"1", "2", "", "4", "5"},
		[]string{"2", "4", "100", "8", ""},
	)

	m := PearsonMatrix(table.NumericColumns())
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-12)
}

func TestPearsonUndefinedForConstantColumn(t *testing.T) {
	table := columnsTable(t, []string{"a", "flat"},
		floats(1, 2, 3),
		floats(7, 7, 7),
	)

	result := NewCorrelationAnalyzer(0.5).Analyze(table)
	require.NotNil(t, result.Matrix)
	assert.True(t, math.IsNaN(result.Matrix.At(0, 1)))
	assert.Empty(t, result.Pairs)
	assert.Equal(t, "No strong correlations (|r| > 0.5) found", result.Info)
}

func TestStrongPairsOrderedByAbsoluteCorrelation(t *testing.T) {
	table := columnsTable(t, []string{"a", "b", "c", "d"},
		floats(1, 2, 3, 4, 5),
		floats(1, 3, 2, 5, 4),
		floats(2, 1, 4, 3, 6),
		floats(5, 3, 4, 1, 2),
	)

	result := NewCorrelationAnalyzer(0.5).Analyze(table)
	require.Empty(t, result.Warning)
	require.Empty(t, result.Info)

	for i := 1; i < len(result.Pairs); i++ {
		assert.GreaterOrEqual(t, math.Abs(result.Pairs[i-1].Correlation), math.Abs(result.Pairs[i].Correlation))
	}
	for _, p := range result.Pairs {
		assert.Greater(t, math.Abs(p.Correlation), 0.5)
		assert.NotEqual(t, p.Feature1, p.Feature2)
	}

	require.Len(t, result.Pairs, 4)
	assert.Equal(t, "b", result.Pairs[0].Feature1)
	assert.Equal(t, "d", result.Pairs[0].Feature2)
	assert.InDelta(t, -1.0, result.Pairs[0].Correlation, 1e-12)
	assert.Equal(t, "a", result.Pairs[1].Feature1)
	assert.Equal(t, "c", result.Pairs[1].Feature2)
	assert.InDelta(t, 0.8219949365, result.Pairs[1].Correlation, 1e-9)
}

func TestStrongPairsThresholdIsStrictAndTiesKeepMatrixOrder(t *testing.T) {
	m := &CorrelationMatrix{
		Columns: []string{"x", "y", "z"},
		Values: [][]float64{
			{1, 0.5, -0.9},
			{0.5, 1, 0.9},
			{-0.9, 0.9, 1},
		},
	}

	pairs := StrongPairs(m, 0.5)
	assert.Equal(t, []CorrelationPair{
		{Feature1: "x", Feature2: "z", Correlation: -0.9},
		{Feature1: "y", Feature2: "z", Correlation: 0.9},
	}, pairs)
}

func TestCorrelationMatrixJSON(t *testing.T) {
	m := &CorrelationMatrix{
		Columns: []string{"a", "b"},
		Values:  [][]float64{{1, math.NaN()}, {math.NaN(), 1}},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["a","b"],"values":[[1,null],[null,1]]}`, string(data))
}
