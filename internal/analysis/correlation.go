package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"edalens/domain/dataset"
	"edalens/internal/profiling"
)

// NoNumericColumnsMessage is shown when fewer than two numeric columns exist
const NoNumericColumnsMessage = "No numeric columns found for correlation analysis"

// CorrelationMatrix is a symmetric Pearson matrix over the numeric columns, in table order
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// At returns r for the i-th and j-th columns
func (m *CorrelationMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// MarshalJSON writes undefined coefficients as null
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j, r := range row {
			values[i][j] = profiling.JSONFloat(r)
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, values})
}

// CorrelationPair is one unordered pair of numeric columns whose |r| passed the threshold
type CorrelationPair struct {
	Feature1    string  `json:"feature_1"`
	Feature2    string  `json:"feature_2"`
	Correlation float64 `json:"correlation"`
}

// CorrelationResult is what the correlations tab renders. When Warning is set nothing else is.
type CorrelationResult struct {
	Matrix  *CorrelationMatrix `json:"matrix,omitempty"`
	Pairs   []CorrelationPair  `json:"strong_pairs"`
	Warning string             `json:"warning,omitempty"`
	Info    string             `json:"info,omitempty"`
}

// CorrelationAnalyzer computes the correlation matrix and its strong pairs
type CorrelationAnalyzer struct {
	threshold float64
}

// NewCorrelationAnalyzer creates an analyzer keeping pairs with |r| strictly above threshold
func NewCorrelationAnalyzer(threshold float64) *CorrelationAnalyzer {
	return &CorrelationAnalyzer{threshold: threshold}
}

// Analyze requires at least two numeric columns; otherwise it returns only the warning
func (ca *CorrelationAnalyzer) Analyze(t *dataset.Table) CorrelationResult {
	numeric := t.NumericColumns()
	if len(numeric) < 2 {
		return CorrelationResult{Warning: NoNumericColumnsMessage}
	}

	matrix := PearsonMatrix(numeric)
	result := CorrelationResult{
		Matrix: matrix,
		Pairs:  StrongPairs(matrix, ca.threshold),
	}
	if len(result.Pairs) == 0 {
		result.Info = fmt.Sprintf("No strong correlations (|r| > %g) found", ca.threshold)
	}
	return result
}

// PearsonMatrix correlates every pair of columns over rows where both are present.
// Undefined coefficients (fewer than two shared rows or zero variance) are NaN.
func PearsonMatrix(columns []*dataset.Column) *CorrelationMatrix {
	n := len(columns)
	m := &CorrelationMatrix{
		Columns: make([]string, n),
		Values:  make([][]float64, n),
	}
	for i, c := range columns {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pairwisePearson(columns[i], columns[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pairwisePearson(a, b *dataset.Column) float64 {
	x := make([]float64, 0, a.Len())
	y := make([]float64, 0, b.Len())
	for k := 0; k < a.Len() && k < b.Len(); k++ {
		if a.Missing[k] || b.Missing[k] {
			continue
		}
		x = append(x, a.Numbers[k])
		y = append(y, b.Numbers[k])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// StrongPairs lists each unordered pair once with |r| > threshold, strongest first.
// Ties keep matrix order.
func StrongPairs(m *CorrelationMatrix, threshold float64) []CorrelationPair {
	var pairs []CorrelationPair
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) || math.Abs(r) <= threshold {
				continue
			}
			pairs = append(pairs, CorrelationPair{
				Feature1:    m.Columns[i],
				Feature2:    m.Columns[j],
				Correlation: r,
			})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].Correlation) > math.Abs(pairs[j].Correlation)
	})
	return pairs
}
