package profiling

import (
	"math"
	"slices"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// DistributionAnalyzer computes per-column descriptive statistics
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// AnalyzeNumeric summarizes the non-missing values of a numeric column.
// An empty input yields Count 0 and NaN everywhere else.
func (da *DistributionAnalyzer) AnalyzeNumeric(data []float64) NumericSummary {
	nan := math.NaN()
	summary := NumericSummary{
		Count: len(data), Mean: nan, StdDev: nan, Min: nan, Q25: nan,
		Median: nan, Q75: nan, Max: nan, Skewness: nan,
	}
	if len(data) == 0 {
		return summary
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return summary
	}
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)

	sorted := slices.Clone(data)
	slices.Sort(sorted)

	summary.Mean = mean
	summary.Min = min
	summary.Max = max
	summary.Q25 = quantile(sorted, 0.25)
	summary.Median = quantile(sorted, 0.5)
	summary.Q75 = quantile(sorted, 0.75)
	summary.StdDev = SampleStdDev(data)
	summary.Skewness = Skewness(data)

	return summary
}

// quantile interpolates linearly between closest ranks, position q*(n-1)
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// SampleStdDev is the n-1 standard deviation; NaN below two observations
func SampleStdDev(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}
	return stat.StdDev(data, nil)
}

// Skewness is the adjusted Fisher-Pearson sample skewness.
// Fewer than three observations give NaN; a constant column gives 0.
func Skewness(data []float64) float64 {
	if len(data) < 3 {
		return math.NaN()
	}
	if stat.Variance(data, nil) == 0 {
		return 0
	}
	return stat.Skew(data, nil)
}

// AnalyzeCategorical counts value frequencies of the non-missing values of a column.
// TopValues is ordered by count descending, ties broken by first appearance, and
// truncated to topN when topN > 0.
func (da *DistributionAnalyzer) AnalyzeCategorical(values []string, topN int) CategoricalSummary {
	counts := ValueCounts(values)
	summary := CategoricalSummary{
		Count:       len(values),
		Cardinality: len(counts),
	}
	if len(counts) > 0 {
		summary.Top = counts[0].Value
		summary.TopFreq = counts[0].Count
	}
	if topN > 0 && len(counts) > topN {
		counts = counts[:topN]
	}
	summary.TopValues = counts
	return summary
}

// ValueCounts returns every distinct value with its frequency, most frequent first
func ValueCounts(values []string) []CategoryCount {
	index := make(map[string]int)
	var counts []CategoryCount
	for _, v := range values {
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, CategoryCount{Value: v, Count: 1})
	}
	slices.SortStableFunc(counts, func(a, b CategoryCount) int {
		return b.Count - a.Count
	})
	return counts
}

// Cardinality counts distinct values
func Cardinality(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
