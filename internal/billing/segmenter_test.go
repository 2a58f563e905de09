package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segment(rows []Row) []Block {
	return Segment(rows, ClassifyGrid(rows, DefaultKeywords()))
}

func TestSegmentSinglePackage(t *testing.T) {
	rows := []Row{
		TextRow("账户说明"),
		{styledCell("畅享套餐199", 16, true)},
		TextRow("语音", "30"),
		TextRow("流量", "169"),
		TextRow("合计", "199"),
		TextRow("尾注"),
	}

	blocks := segment(rows)
	require.Len(t, blocks, 1)
	assert.Equal(t, "畅享套餐199", blocks[0].Name)
	assert.Equal(t, 1, blocks[0].StartIndex)
	assert.Equal(t, 4, blocks[0].EndIndex)
	assert.Len(t, blocks[0].Rows, 4)
}

func TestSegmentUnterminatedPackageEndsBeforeNextHeader(t *testing.T) {
	rows := []Row{
		{styledCell("套餐A", 16, true)},
		TextRow("语音", "30"),
		{styledCell("套餐B", 16, true)},
		TextRow("流量", "50"),
		TextRow("合计", "50"),
	}

	blocks := segment(rows)
	require.Len(t, blocks, 2)

	// The malformed block without a total is still emitted.
	assert.Equal(t, "套餐A", blocks[0].Name)
	assert.Equal(t, 0, blocks[0].StartIndex)
	assert.Equal(t, 1, blocks[0].EndIndex)

	assert.Equal(t, "套餐B", blocks[1].Name)
	assert.Equal(t, 2, blocks[1].StartIndex)
	assert.Equal(t, 4, blocks[1].EndIndex)
}

func TestSegmentPackageRunsToGridEnd(t *testing.T) {
	rows := []Row{
		{styledCell("套餐A", 16, true)},
		TextRow("语音", "30"),
		TextRow("流量", "50"),
	}

	blocks := segment(rows)
	require.Len(t, blocks, 1)
	assert.Equal(t, 2, blocks[0].EndIndex)
}

func TestSegmentDegenerateOneRowPackage(t *testing.T) {
	// A row tagged both header and total must not loop the scanner.
	rows := []Row{
		{styledCell("合计", 16, true)},
		TextRow("后续", "1"),
	}

	blocks := segment(rows)
	require.Len(t, blocks, 1)
	assert.Equal(t, 0, blocks[0].StartIndex)
	// Header row itself is not its own terminator; the block runs on.
	assert.Equal(t, 1, blocks[0].EndIndex)
}

func TestSegmentEmptyHeaderNameGetsPlaceholder(t *testing.T) {
	rows := []Row{
		{styledCell("   ", 16, true)},
		TextRow("合计", "10"),
	}

	blocks := segment(rows)
	require.Len(t, blocks, 1)
	assert.Equal(t, UnnamedPackageName, blocks[0].Name)
}

func TestSegmentResidualAnchors(t *testing.T) {
	// Anchors at 3 and 10 with the only total at 6: the first anchor
	// extends through the total, the second stands alone.
	rows := make([]Row, 12)
	for i := range rows {
		rows[i] = TextRow("行", "0")
	}
	rows[3] = Row{styledCell("13800000000", 14, false), {Text: "1"}}
	rows[6] = TextRow("合计", "88")
	rows[10] = Row{styledCell("13900000000", 14, false), {Text: "2"}}

	blocks := segment(rows)
	require.Len(t, blocks, 1)

	b := blocks[0]
	assert.Equal(t, OtherPackagesName, b.Name)
	assert.True(t, b.Residual)
	require.Len(t, b.Rows, 5) // rows 3,4,5,6 then 10
	assert.Equal(t, "13800000000", b.Rows[0].Cell(0).Text)
	assert.Equal(t, "合计", b.Rows[3].Cell(0).Text)
	assert.Equal(t, "13900000000", b.Rows[4].Cell(0).Text)
	assert.Equal(t, 3, b.StartIndex)
	assert.Equal(t, 10, b.EndIndex)
}

func TestSegmentResidualSkipsRowsClaimedByPackages(t *testing.T) {
	rows := []Row{
		{styledCell("13800000000", 14, false)}, // anchor outside any package
		{styledCell("套餐A", 16, true)},
		TextRow("语音", "30"),
		TextRow("合计", "30"), // claimed by 套餐A
		TextRow("合计", "5"),  // first unclaimed total
	}

	blocks := segment(rows)
	require.Len(t, blocks, 2)

	residual := blocks[1]
	assert.True(t, residual.Residual)
	// Anchor row and the unclaimed total only; package rows stay out.
	require.Len(t, residual.Rows, 2)
	assert.Equal(t, "13800000000", residual.Rows[0].Cell(0).Text)
	assert.Equal(t, "5", residual.Rows[1].Cell(1).Text)
}

func TestSegmentFallbackUngrouped(t *testing.T) {
	rows := []Row{
		TextRow("项目", "金额"),
		TextRow("a", "1"),
		TextRow("b", "2"),
	}

	blocks := segment(rows)
	require.Len(t, blocks, 1)
	assert.Equal(t, UngroupedName, blocks[0].Name)
	assert.True(t, blocks[0].Fallback)
	assert.Len(t, blocks[0].Rows, 3)
	assert.Equal(t, 0, blocks[0].StartIndex)
	assert.Equal(t, 2, blocks[0].EndIndex)
}

func TestSegmentEmptyGrid(t *testing.T) {
	assert.Empty(t, segment(nil))
}
