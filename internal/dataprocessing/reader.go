package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"billscan/internal/billing"
)

// The effective region of a package report: the source format frames
// every sheet with a 10-row account banner and a 7-row footer, both
// discarded before the grid reaches the engine.
const (
	LeadingBandRows  = 10
	TrailingBandRows = 7
)

// SheetGrid is one worksheet's effective region, ready for the engine.
type SheetGrid struct {
	Name string        `json:"name"`
	Rows []billing.Row `json:"rows"`
}

// ReadPackageGrids extracts the effective grid of every sheet in an
// xlsx package report, including column-A font metadata so the
// classifier can recognize package headers. Sheets too short to hold
// an effective region come back with an empty grid rather than an
// error.
func ReadPackageGrids(path string) ([]SheetGrid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var grids []SheetGrid
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}

		if len(rows) <= LeadingBandRows+TrailingBandRows {
			slog.Debug("sheet shorter than framing bands, skipping rows",
				slog.String("sheet", sheet),
				slog.Int("rows", len(rows)))
			grids = append(grids, SheetGrid{Name: sheet})
			continue
		}

		effective := rows[LeadingBandRows : len(rows)-TrailingBandRows]
		grid := make([]billing.Row, len(effective))
		for i, raw := range effective {
			row := make(billing.Row, len(raw))
			for j, text := range raw {
				row[j] = billing.Cell{Text: strings.TrimSpace(text)}
			}
			// Only column A's style matters for classification;
			// excel row numbers are 1-based and pre-trim.
			if style := columnAStyle(f, sheet, LeadingBandRows+i+1); style != nil && len(row) > 0 {
				row[0].Style = style
			}
			grid[i] = row
		}
		grids = append(grids, SheetGrid{Name: sheet, Rows: grid})
	}
	return grids, nil
}

// columnAStyle fetches the font metadata of cell A<row>, or nil when
// the workbook carries no usable style for it.
func columnAStyle(f *excelize.File, sheet string, row int) *billing.CellStyle {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil
	}
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return nil
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil || style.Font == nil {
		return nil
	}
	return &billing.CellStyle{
		FontSize: style.Font.Size,
		Bold:     style.Font.Bold,
	}
}
