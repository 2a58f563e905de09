package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billscan/internal/billing"
)

func TestReadMonthlyRecordsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monthly.csv")
	content := "\ufeff设备号码,账务周期,账单费用\n" +
		"13800000000,[20240701]2024-07-01:2024-07-31,100\n" +
		"13800000000,[20240801]2024-08-01:2024-08-31,150\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	records, err := ReadMonthlyRecords(path, billing.DefaultKeywords())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, billing.BillingRecord{
		Cycle:  "[20240701]2024-07-01:2024-07-31",
		Number: "13800000000",
		Fee:    "100",
	}, records[0])
}

func TestReadMonthlyRecordsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monthly.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"设备号码", "账务周期", "账单费用"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"13800000000", "[20240701]2024-07-01:2024-07-31", 100}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	records, err := ReadMonthlyRecords(path, billing.DefaultKeywords())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "13800000000", records[0].Number)
	assert.Equal(t, "100", records[0].Fee)
}

func TestReadMonthlyRecordsSpreadsheetML(t *testing.T) {
	// SpreadsheetML frequently hides behind an .xls extension; the
	// sniffer must route it by content, not name.
	path := filepath.Join(t.TempDir(), "monthly.xls")
	require.NoError(t, os.WriteFile(path, []byte(spreadsheetMLDoc), 0644))

	records, err := ReadMonthlyRecords(path, billing.DefaultKeywords())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "55.5", records[1].Fee)
}

func TestReadMonthlyRecordsMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.csv")
	require.NoError(t, os.WriteFile(path, []byte("号码,费用\n138,10\n"), 0644))

	_, err := ReadMonthlyRecords(path, billing.DefaultKeywords())
	var notFound *billing.ErrColumnNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "billing cycle", notFound.Column)
}

func TestReadMonthlyRecordsLegacyBIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.xls")
	head := append([]byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}, make([]byte, 64)...)
	require.NoError(t, os.WriteFile(path, head, 0644))

	_, err := ReadMonthlyRecords(path, billing.DefaultKeywords())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestDetectFormat(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content []byte
		want    Format
	}{
		{"zip magic", "a.xls", []byte("PK\x03\x04rest"), FormatXLSX},
		{"ole2 magic", "b.xlsx", []byte{0xd0, 0xcf, 0x11, 0xe0, 0, 0, 0, 0}, FormatOLE2},
		{"xml magic", "c.xls", []byte(`<?xml version="1.0"?>`), FormatSpreadsheetML},
		{"bom then xml", "d.xls", append([]byte{0xef, 0xbb, 0xbf}, []byte("<?xml")...), FormatSpreadsheetML},
		{"csv by extension", "e.csv", []byte("a,b,c\n"), FormatCSV},
		{"xls by extension", "f.xls", []byte("plain"), FormatOLE2},
		{"unknown", "g.bin", []byte("plain"), FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, tt.content, 0644))

			format, err := DetectFormat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, format)
		})
	}
}
