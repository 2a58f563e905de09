package dataprocessing

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Excel 2003 XML (SpreadsheetML) support. Some carriers still export
// this format under an .xls extension; excelize cannot read it, so the
// sparse Cell/Index structure is decoded directly.
//
// Document shape: Workbook > Worksheet > Table > Row > Cell > Data,
// where a Cell may carry a 1-based ss:Index attribute to skip columns.

type xmlWorkbook struct {
	Worksheets []xmlWorksheet `xml:"Worksheet"`
}

type xmlWorksheet struct {
	Table xmlTable `xml:"Table"`
}

type xmlTable struct {
	Rows []xmlRow `xml:"Row"`
}

type xmlRow struct {
	Cells []xmlCell `xml:"Cell"`
}

type xmlCell struct {
	Index int    `xml:"Index,attr"`
	Data  string `xml:"Data"`
}

// ParseSpreadsheetML decodes the first worksheet's table into a dense
// grid of display strings, padding skipped columns with empties.
func ParseSpreadsheetML(r io.Reader) ([][]string, error) {
	var wb xmlWorkbook
	if err := xml.NewDecoder(r).Decode(&wb); err != nil {
		return nil, fmt.Errorf("failed to decode SpreadsheetML: %w", err)
	}
	if len(wb.Worksheets) == 0 {
		return nil, fmt.Errorf("SpreadsheetML document has no worksheet")
	}

	table := wb.Worksheets[0].Table
	grid := make([][]string, 0, len(table.Rows))
	maxCols := 0
	for _, row := range table.Rows {
		var cells []string
		for _, cell := range row.Cells {
			if cell.Index > 0 {
				for len(cells) < cell.Index-1 {
					cells = append(cells, "")
				}
			}
			cells = append(cells, cell.Data)
		}
		if len(cells) > maxCols {
			maxCols = len(cells)
		}
		grid = append(grid, cells)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("SpreadsheetML table is empty")
	}

	// Equalize row widths so header indexes stay valid everywhere.
	for i, row := range grid {
		for len(row) < maxCols {
			row = append(row, "")
		}
		grid[i] = row
	}
	return grid, nil
}
