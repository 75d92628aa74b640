// Package report assembles the exported summary of a table and renders it as PDF or HTML.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"

	"edalens/domain/dataset"
	"edalens/internal/profiling"
)

const (
	// Title is the running header of every page
	Title = "Automated EDA Report"

	SectionOverview   = "Dataset Overview"
	SectionStatistics = "Statistical Summary"
)

// Section is a titled block of text lines
type Section struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// Report is derived from a table at generation time and never stored
type Report struct {
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
}

// Builder derives reports with a fixed number of summarized numeric columns
type Builder struct {
	statColumns int
}

// NewBuilder summarizes the first statColumns numeric columns
func NewBuilder(statColumns int) *Builder {
	return &Builder{statColumns: statColumns}
}

// Build produces exactly two sections: the dataset shape and per-column mean and std
func (b *Builder) Build(t *dataset.Table, now time.Time) Report {
	overview := Section{
		Title: SectionOverview,
		Lines: []string{
			fmt.Sprintf("Rows: %d, Columns: %d", t.Rows, t.NumColumns()),
			fmt.Sprintf("Missing Values: %d", t.MissingCount()),
		},
	}

	summary := Section{Title: SectionStatistics, Lines: []string{}}
	for i, c := range t.NumericColumns() {
		if i >= b.statColumns {
			break
		}
		values := c.NonMissingNumbers()
		summary.Lines = append(summary.Lines, fmt.Sprintf("%s: Mean=%s, Std=%s",
			c.Name, formatStat(mean(values)), formatStat(profiling.SampleStdDev(values))))
	}

	return Report{
		Source:      t.Name,
		GeneratedAt: now,
		Sections:    []Section{overview, summary},
	}
}

func mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return math.NaN()
	}
	return m
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}

// FileName is eda_report_<YYYYMMDD_HHMMSS>.pdf for the generation time
func (r Report) FileName() string {
	return FileName(r.GeneratedAt)
}

// FileName formats the download name for a generation timestamp
func FileName(at time.Time) string {
	return at.Format("eda_report_20060102_150405") + ".pdf"
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"#", `\#`, "<", `\<`, ">", `\>`, "|", `\|`, "~", `\~`, "-", `\-`, "+", `\+`,
)

// Markdown renders the sections as a level-2 heading followed by one paragraph per line
func (r Report) Markdown() string {
	var sb strings.Builder
	for _, s := range r.Sections {
		fmt.Fprintf(&sb, "## %s\n\n", markdownEscaper.Replace(s.Title))
		for _, line := range s.Lines {
			sb.WriteString(markdownEscaper.Replace(line))
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// HTML is the Markdown rendition converted for the in-page preview; raw HTML is dropped
func (r Report) HTML() string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return string(markdown.ToHTML([]byte(r.Markdown()), p, renderer))
}
