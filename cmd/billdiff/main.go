// Command billdiff compares subscriber fees between two billing months
// of a monthly dataset file (.xlsx, .xls SpreadsheetML or .csv).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"billscan/internal/billing"
	"billscan/internal/exporter"
	"billscan/internal/services"
)

var (
	listMonths bool
	monthA     string
	monthB     string
	outputPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "billdiff [dataset file]",
		Short: "Compare subscriber fees between two billing months",
		Long: `billdiff loads a monthly billing dataset, groups the records by
billing month and subscriber number, and prints the fee change of every
subscriber between two chosen months.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().BoolVarP(&listMonths, "list", "l", false, "List available months and exit")
	rootCmd.Flags().StringVar(&monthA, "month-a", "", "Baseline month (YYYY-MM)")
	rootCmd.Flags().StringVar(&monthB, "month-b", "", "Comparison month (YYYY-MM)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the comparison as CSV to this path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", path)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	svc := services.NewCompareService(billing.DefaultKeywords(), logger)

	ctx := context.Background()
	table, err := svc.LoadMonthTable(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	months := table.Months()
	if listMonths {
		for _, m := range months {
			fmt.Printf("%s  (%d subscribers)\n", m, len(table[m]))
		}
		return nil
	}

	// Default to the two most recent months, matching the common case
	// of "compare this bill against last month's".
	if monthA == "" || monthB == "" {
		if len(months) < 2 {
			return fmt.Errorf("dataset has %d month(s); use --month-a and --month-b with at least two", len(months))
		}
		monthA = months[len(months)-2]
		monthB = months[len(months)-1]
	}

	entries, summary, err := svc.Compare(ctx, table, monthA, monthB)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	printComparison(monthA, monthB, entries, summary)

	if outputPath != "" {
		exp := exporter.NewDiffExporter(logger)
		if err := exp.ExportFile(outputPath, entries); err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
		fmt.Printf("\nSaved to %s\n", outputPath)
	}
	return nil
}

func printComparison(monthA, monthB string, entries []billing.DiffEntry, summary services.DiffSummary) {
	fmt.Printf("%s -> %s (%d subscribers)\n\n", monthA, monthB, len(entries))
	fmt.Printf("%-16s %12s %12s %12s %10s\n", "number", monthA, monthB, "delta", "delta%")
	for _, e := range entries {
		fmt.Printf("%-16s %12.2f %12.2f %+12.2f %+9.2f%%\n",
			e.Number, e.FeeA, e.FeeB, e.Delta, e.DeltaPercent)
	}

	fmt.Printf("\ntotal delta:   %+.2f\n", summary.TotalDelta)
	fmt.Printf("average delta: %+.2f\n", summary.AverageDelta)
	if summary.MaxEntry != nil {
		fmt.Printf("largest move:  %s (%+.2f, %+.2f%%)\n",
			summary.MaxEntry.Number, summary.MaxEntry.Delta, summary.MaxEntry.DeltaPercent)
	}
}
