package dataprocessing

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billscan/internal/billing"
)

// writePackageWorkbook builds a minimal package report: a 10-row
// banner, three effective rows (header styled 16pt bold), and a 7-row
// footer.
func writePackageWorkbook(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for r := 1; r <= LeadingBandRows; r++ {
		require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "账户说明"))
	}

	require.NoError(t, f.SetCellValue(sheet, "A11", "畅享套餐199"))
	require.NoError(t, f.SetCellValue(sheet, "A12", "语音"))
	require.NoError(t, f.SetCellValue(sheet, "B12", "30"))
	require.NoError(t, f.SetCellValue(sheet, "A13", "合计"))
	require.NoError(t, f.SetCellValue(sheet, "B13", "30"))

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Bold: true},
	})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "A11", "A11", headerStyle))

	for r := 14; r < 14+TrailingBandRows; r++ {
		require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "页脚"))
	}

	require.NoError(t, f.SaveAs(path))
}

func TestReadPackageGrids(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.xlsx")
	writePackageWorkbook(t, path)

	grids, err := ReadPackageGrids(path)
	require.NoError(t, err)
	require.Len(t, grids, 1)

	grid := grids[0]
	require.Len(t, grid.Rows, 3)
	assert.Equal(t, "畅享套餐199", grid.Rows[0].Cell(0).Text)
	assert.Equal(t, "语音", grid.Rows[1].Cell(0).Text)
	assert.Equal(t, "合计", grid.Rows[2].Cell(0).Text)

	// The banner and footer bands are gone and the header row kept
	// its font metadata, so classification finds the package.
	tags := billing.ClassifyGrid(grid.Rows, billing.DefaultKeywords())
	assert.True(t, tags[0].Has(billing.TagPackageHeader))
	assert.True(t, tags[2].Has(billing.TagTotal))
}

func TestReadPackageGridsShortSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "只有一行"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	grids, err := ReadPackageGrids(path)
	require.NoError(t, err)
	require.Len(t, grids, 1)
	assert.Empty(t, grids[0].Rows)
}

func TestReadPackageGridsMissingFile(t *testing.T) {
	_, err := ReadPackageGrids(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
