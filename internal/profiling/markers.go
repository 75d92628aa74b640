package profiling

import (
	"edalens/domain/dataset"
)

// NumericSummary holds descriptive statistics of a numeric column.
// Statistics that are undefined for the sample size are NaN.
type NumericSummary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std"`
	Min      float64 `json:"min"`
	Q25      float64 `json:"q25"`
	Median   float64 `json:"median"`
	Q75      float64 `json:"q75"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
}

// CategoryCount is one value of a categorical column with its frequency
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalSummary holds frequency statistics of a categorical column
type CategoricalSummary struct {
	Count       int             `json:"count"`
	Cardinality int             `json:"unique"`
	Top         string          `json:"top"`
	TopFreq     int             `json:"freq"`
	TopValues   []CategoryCount `json:"top_values"`
}

// ColumnSummary is the per-column row of the describe table. Exactly one of
// Numeric or Categorical is set, matching Kind.
type ColumnSummary struct {
	Name        string              `json:"name"`
	Kind        dataset.ColumnKind  `json:"kind"`
	Missing     int                 `json:"missing"`
	Numeric     *NumericSummary     `json:"numeric,omitempty"`
	Categorical *CategoricalSummary `json:"categorical,omitempty"`
}

// KindCount is one row of the column-type breakdown
type KindCount struct {
	Kind  dataset.ColumnKind `json:"type"`
	Count int                `json:"count"`
}

// Overview is the dataset-level summary shown on the first tab
type Overview struct {
	Rows        int             `json:"rows"`
	Columns     int             `json:"columns"`
	Missing     int             `json:"missing"`
	MemoryBytes int64           `json:"memory_bytes"`
	MemoryMB    string          `json:"memory_mb"`
	Kinds       []KindCount     `json:"types"`
	Header      []string        `json:"header"`
	Preview     [][]string      `json:"preview"`
	Describe    []ColumnSummary `json:"describe"`
}
