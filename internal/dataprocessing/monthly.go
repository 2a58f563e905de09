package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"billscan/internal/billing"
)

// ReadMonthlyRecords loads a monthly bill dataset (xlsx, SpreadsheetML
// or CSV) and maps its rows to raw billing records using keyword-based
// column discovery on the header row. The header is row 0; a missing
// required column is a structural error surfaced to the caller.
func ReadMonthlyRecords(path string, kw billing.Keywords) ([]billing.BillingRecord, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch format {
	case FormatXLSX:
		rows, err = readFirstSheet(path)
	case FormatSpreadsheetML:
		rows, err = readSpreadsheetMLFile(path)
	case FormatCSV:
		rows, err = readCSV(path)
	case FormatOLE2:
		return nil, fmt.Errorf("legacy binary .xls (BIFF) is not supported; re-save the file as .xlsx")
	default:
		return nil, fmt.Errorf("unrecognized file format")
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("dataset is empty or has no header row")
	}

	cols, err := billing.DiscoverColumns(rows[0], kw)
	if err != nil {
		return nil, err
	}

	records := make([]billing.BillingRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, billing.BillingRecord{
			Cycle:  cellAt(row, cols.Cycle),
			Number: cellAt(row, cols.Number),
			Fee:    cellAt(row, cols.Fee),
		})
	}
	return records, nil
}

func readFirstSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readSpreadsheetMLFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return ParseSpreadsheetML(f)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		// Strip a UTF-8 BOM that Excel-produced CSVs carry.
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
