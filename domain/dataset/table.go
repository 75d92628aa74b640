package dataset

import (
	"math"
	"unsafe"
)

// ColumnKind is the inferred primitive type of a column
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// Column is a single named, typed column of a Table.
// Raw keeps the cell text verbatim; Missing marks cells that count as missing.
// Numbers is only populated for numeric columns and holds NaN at missing positions.
type Column struct {
	Name    string     `json:"name"`
	Kind    ColumnKind `json:"kind"`
	Raw     []string   `json:"-"`
	Missing []bool     `json:"-"`
	Numbers []float64  `json:"-"`
}

// Len returns the number of cells in the column
func (c *Column) Len() int {
	return len(c.Raw)
}

// IsNumeric reports whether the column was inferred as numeric
func (c *Column) IsNumeric() bool {
	return c.Kind == KindNumeric
}

// MissingCount returns the number of missing cells in the column
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// NonMissingNumbers returns the parsed values with missing cells dropped
func (c *Column) NonMissingNumbers() []float64 {
	out := make([]float64, 0, len(c.Numbers))
	for _, v := range c.Numbers {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// NonMissingValues returns the raw cell strings with missing cells dropped
func (c *Column) NonMissingValues() []string {
	out := make([]string, 0, len(c.Raw))
	for i, v := range c.Raw {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// Table is a loaded dataset. It is built once per upload and never mutated afterwards.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Rows    int      `json:"rows"`
}

// NewTable assembles a table and checks that every column has the same row count.
func NewTable(name string, columns []Column) (*Table, error) {
	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}
	for i := range columns {
		if columns[i].Len() != rows || len(columns[i].Missing) != rows {
			return nil, &RaggedColumnError{Column: columns[i].Name, Want: rows, Got: columns[i].Len()}
		}
		if columns[i].IsNumeric() && len(columns[i].Numbers) != rows {
			return nil, &RaggedColumnError{Column: columns[i].Name, Want: rows, Got: len(columns[i].Numbers)}
		}
	}
	return &Table{Name: name, Columns: columns, Rows: rows}, nil
}

// RaggedColumnError reports a column whose length disagrees with the table row count
type RaggedColumnError struct {
	Column    string
	Want, Got int
}

func (e *RaggedColumnError) Error() string {
	return "column " + e.Column + " has a different row count than the table"
}

// NumColumns returns the column count
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// Cells returns rows × columns
func (t *Table) Cells() int {
	return t.Rows * len(t.Columns)
}

// NumericColumns returns numeric columns in file column order
func (t *Table) NumericColumns() []*Column {
	return t.columnsOfKind(KindNumeric)
}

// CategoricalColumns returns categorical columns in file column order
func (t *Table) CategoricalColumns() []*Column {
	return t.columnsOfKind(KindCategorical)
}

func (t *Table) columnsOfKind(kind ColumnKind) []*Column {
	var out []*Column
	for i := range t.Columns {
		if t.Columns[i].Kind == kind {
			out = append(out, &t.Columns[i])
		}
	}
	return out
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// MissingCount sums missing cells over all columns
func (t *Table) MissingCount() int {
	total := 0
	for i := range t.Columns {
		total += t.Columns[i].MissingCount()
	}
	return total
}

// MissingPercent is missing cells / total cells × 100; zero for an empty table
func (t *Table) MissingPercent() float64 {
	cells := t.Cells()
	if cells == 0 {
		return 0
	}
	return float64(t.MissingCount()) / float64(cells) * 100
}

// KindCounts counts columns per inferred kind
func (t *Table) KindCounts() map[ColumnKind]int {
	counts := make(map[ColumnKind]int)
	for i := range t.Columns {
		counts[t.Columns[i].Kind]++
	}
	return counts
}

// Head returns the first n rows verbatim, row-major
func (t *Table) Head(n int) [][]string {
	if n > t.Rows {
		n = t.Rows
	}
	if n <= 0 {
		return [][]string{}
	}
	rows := make([][]string, n)
	for r := 0; r < n; r++ {
		row := make([]string, len(t.Columns))
		for c := range t.Columns {
			row[c] = t.Columns[c].Raw[r]
		}
		rows[r] = row
	}
	return rows
}

// ColumnNames returns the header in file order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i := range t.Columns {
		names[i] = t.Columns[i].Name
	}
	return names
}

var (
	stringHeaderSize = int64(unsafe.Sizeof(""))
	float64Size      = int64(unsafe.Sizeof(float64(0)))
)

// MemoryBytes approximates the bytes held by the table in memory:
// a float64 per numeric cell, a string header plus payload per categorical cell,
// a missing flag per cell, and the column names.
func (t *Table) MemoryBytes() int64 {
	var total int64
	for i := range t.Columns {
		c := &t.Columns[i]
		total += stringHeaderSize + int64(len(c.Name))
		total += int64(len(c.Missing))
		if c.IsNumeric() {
			total += float64Size * int64(len(c.Numbers))
			continue
		}
		for _, v := range c.Raw {
			total += stringHeaderSize + int64(len(v))
		}
	}
	return total
}
