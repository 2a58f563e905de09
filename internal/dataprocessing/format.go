package dataprocessing

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies the on-disk encoding of an uploaded file,
// regardless of its extension. Exports frequently arrive as ".xls"
// files that are really zipped xlsx or SpreadsheetML.
type Format int

const (
	FormatUnknown Format = iota
	FormatXLSX
	FormatOLE2
	FormatSpreadsheetML
	FormatCSV
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatXLSX:
		return "xlsx"
	case FormatOLE2:
		return "xls"
	case FormatSpreadsheetML:
		return "spreadsheetml"
	case FormatCSV:
		return "csv"
	default:
		return "unknown"
	}
}

var (
	zipMagic  = []byte("PK")
	ole2Magic = []byte{0xd0, 0xcf, 0x11, 0xe0}
	xmlMagic  = []byte("<?xml")
	utf8BOM   = []byte{0xef, 0xbb, 0xbf}
)

// DetectFormat sniffs the file's magic bytes, falling back to the
// extension when the header is inconclusive.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 8)
	n, _ := f.Read(head)
	head = head[:n]
	head = bytes.TrimPrefix(head, utf8BOM)

	switch {
	case bytes.HasPrefix(head, zipMagic):
		return FormatXLSX, nil
	case bytes.HasPrefix(head, ole2Magic):
		return FormatOLE2, nil
	case bytes.HasPrefix(head, xmlMagic):
		return FormatSpreadsheetML, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatOLE2, nil
	}
	return FormatUnknown, nil
}
