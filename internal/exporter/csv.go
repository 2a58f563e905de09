package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"billscan/internal/billing"
)

// diffHeaders is the fixed column set of a comparison export.
var diffHeaders = []string{"设备号码", "上月费用", "本月费用", "差额", "变化率(%)"}

// DiffExporter writes month-comparison results as CSV files.
type DiffExporter struct {
	logger *slog.Logger
}

// NewDiffExporter creates a CSV exporter for comparison results.
func NewDiffExporter(logger *slog.Logger) *DiffExporter {
	return &DiffExporter{logger: logger.With(slog.String("component", "exporter"))}
}

// ExportFile writes entries to path, creating parent directories as
// needed. The file starts with a UTF-8 BOM for Excel compatibility.
func (e *DiffExporter) ExportFile(path string, entries []billing.DiffEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	if err := WriteDiff(file, entries); err != nil {
		return err
	}

	e.logger.Info("comparison exported",
		slog.String("path", path),
		slog.Int("entries", len(entries)))
	return nil
}

// WriteDiff writes the header row and one record per entry to w. It
// does not write a BOM; callers streaming to a file or HTTP response
// decide that themselves.
func WriteDiff(w io.Writer, entries []billing.DiffEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(diffHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, entry := range entries {
		record := []string{
			entry.Number,
			formatAmount(entry.FeeA),
			formatAmount(entry.FeeB),
			formatAmount(entry.Delta),
			formatAmount(entry.DeltaPercent),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
