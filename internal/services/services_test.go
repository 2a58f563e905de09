package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billscan/internal/billing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeReportWorkbook(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for r := 1; r <= 10; r++ {
		require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "账户说明"))
	}

	rows := [][]interface{}{
		{"畅享套餐199"},
		{"产品", "原价", "减免", "实际消费"},
		{"语音", "10", "-2", "8"},
		{"小计", "10", "-2", "8"},
		{"合计", "10", "-2", "8"},
	}
	for i, row := range rows {
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", 11+i), &row))
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Bold: true},
	})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "A11", "A11", headerStyle))

	for r := 16; r <= 22; r++ {
		require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "页脚"))
	}

	require.NoError(t, f.SaveAs(path))
}

func TestAnalyzeWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	writeReportWorkbook(t, path)

	svc := NewAnalysisService(billing.DefaultKeywords(), testLogger())
	sheets, err := svc.AnalyzeWorkbook(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	sheet := sheets[0]
	assert.Equal(t, 5, sheet.RowCount)
	require.Len(t, sheet.Groups, 1)

	group := sheet.Groups[0]
	assert.Equal(t, "畅享套餐199", group.PackageName)
	// Structured tier: the single subtotal row's actual-consumption
	// value.
	assert.Equal(t, 8.0, group.TotalAmount)
	assert.Len(t, group.Rows, 5)
}

func TestAnalyzeWorkbookMissingFile(t *testing.T) {
	svc := NewAnalysisService(billing.DefaultKeywords(), testLogger())
	_, err := svc.AnalyzeWorkbook(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestCompareService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monthly.csv")
	content := "设备号码,账务周期,账单费用\n" +
		"13800000000,[20240701]2024-07-01:2024-07-31,100\n" +
		"13900000000,[20240701]2024-07-01:2024-07-31,40\n" +
		"13800000000,[20240801]2024-08-01:2024-08-31,150\n" +
		"13700000000,[20240801]2024-08-01:2024-08-31,20\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	svc := NewCompareService(billing.DefaultKeywords(), testLogger())
	table, err := svc.LoadMonthTable(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-07", "2024-08"}, table.Months())

	entries, summary, err := svc.Compare(context.Background(), table, "2024-07", "2024-08")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// 50 - 40 + 20
	assert.Equal(t, 30.0, summary.TotalDelta)
	assert.Equal(t, 10.0, summary.AverageDelta)
	require.NotNil(t, summary.MaxEntry)
	assert.Equal(t, "13800000000", summary.MaxEntry.Number)
}

func TestCompareServiceEmptyMonth(t *testing.T) {
	svc := NewCompareService(billing.DefaultKeywords(), testLogger())
	table := billing.MonthTable{"2024-07": {{Number: "138", Fee: 1}}}

	_, _, err := svc.Compare(context.Background(), table, "2024-07", "2024-12")
	var empty *ErrMonthEmpty
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "2024-12", empty.Month)
}
