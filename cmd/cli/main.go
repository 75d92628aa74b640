package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"edalens/adapters/excel"
	"edalens/app"
	"edalens/domain/dataset"
	"edalens/internal"
	"edalens/internal/analysis"
	"edalens/internal/config"
	"edalens/internal/report"
	"edalens/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "edalens-cli",
		Short:        "Run the automated EDA pipeline on a file from the command line",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newReportCmd(),
		newSampleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// environment loads configuration and a logger for one command run
func environment(verbose bool) (*config.Config, *internal.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := internal.NewNopLogger()
	if verbose {
		logger = internal.NewLogger(internal.LogLevelDebug, "console")
	}
	return cfg, logger, nil
}

func loadTable(path string, cfg *config.Config, logger *internal.Logger) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	readerConfig := excel.DefaultReaderConfig()
	readerConfig.MaxBytes = cfg.Server.UploadLimitBytes()
	table, err := excel.NewDataReader(readerConfig, logger).Read(path, f)
	if err != nil {
		return nil, fmt.Errorf("%s", app.ErrorBanner(err))
	}
	return table, nil
}

func newAnalyzeCmd() *cobra.Command {
	var asJSON bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Print the overview, strong correlations and insights for a CSV or Excel file",
		Long: `Analyze a dataset and print what the web dashboard shows, without charts.

Example: edalens-cli analyze sales.csv
         edalens-cli analyze sales.csv --json | jq .insights`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := environment(verbose)
			if err != nil {
				return err
			}
			table, err := loadTable(args[0], cfg, logger)
			if err != nil {
				return err
			}

			dashboard, err := app.NewDashboardService(analysis.OptionsFromConfig(cfg.Analysis), logger, nil).Build(table)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(dashboard)
			}
			printDashboard(cmd.OutOrStdout(), dashboard)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full view model as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline steps to stderr")
	return cmd
}

func printDashboard(w io.Writer, d *app.Dashboard) {
	ov := d.Overview
	fmt.Fprintln(w, d.LoadedMessage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Dataset Overview")
	fmt.Fprintf(w, "  Rows: %d\n  Columns: %d\n  Missing Values: %d\n  Memory Usage: %s\n",
		ov.Rows, ov.Columns, ov.Missing, ov.MemoryMB)
	for _, k := range ov.Kinds {
		fmt.Fprintf(w, "  %-12s %d\n", k.Kind, k.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Correlation Analysis")
	switch {
	case d.Correlation.Warning != "":
		fmt.Fprintf(w, "  %s\n", d.Correlation.Warning)
	case len(d.Correlation.Pairs) == 0:
		fmt.Fprintf(w, "  %s\n", d.Correlation.Info)
	default:
		for _, p := range d.Correlation.Pairs {
			fmt.Fprintf(w, "  %s ~ %s: %.4f\n", p.Feature1, p.Feature2, p.Correlation)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Key Insights")
	for _, insight := range d.Insights {
		fmt.Fprintf(w, "  %s\n", insight.Text)
	}
}

func newReportCmd() *cobra.Command {
	var outDir string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Write the PDF report for a CSV or Excel file",
		Long: `Generate the same PDF the web UI exports, named eda_report_<YYYYMMDD_HHMMSS>.pdf.

Example: edalens-cli report sales.csv -o ./reports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := environment(verbose)
			if err != nil {
				return err
			}
			table, err := loadTable(args[0], cfg, logger)
			if err != nil {
				return err
			}

			rep := report.NewBuilder(cfg.Analysis.ReportColumns).Build(table, time.Now())
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", outDir, err)
			}
			path := filepath.Join(outDir, rep.FileName())

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := report.RenderPDF(rep, f, report.PDFOptions{Compress: true}); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory to write the report into")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline steps to stderr")
	return cmd
}

func newSampleCmd() *cobra.Command {
	opts := testkit.DefaultOrderConfig()
	var outPath string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic e-commerce orders CSV to try the dashboard with",
		Long: `Generate a reproducible orders dataset with missing values, skewed and
correlated numeric columns, and a high-cardinality ID column.

Example: edalens-cli sample -n 1000 -o orders.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}
			return testkit.NewOrderGenerator(opts).WriteCSV(w)
		},
	}

	cmd.Flags().IntVarP(&opts.Orders, "rows", "n", opts.Orders, "Number of orders")
	cmd.Flags().IntVar(&opts.Customers, "customers", opts.Customers, "Number of distinct customers")
	cmd.Flags().Float64Var(&opts.MissingRate, "missing", opts.MissingRate, "Share of risk_score cells left empty")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "Random seed")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "Output file, - for stdout")
	return cmd
}
