package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spreadsheetMLDoc = `<?xml version="1.0"?>
<Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet"
          xmlns:ss="urn:schemas-microsoft-com:office:spreadsheet">
 <Worksheet ss:Name="Sheet1">
  <Table>
   <Row>
    <Cell><Data ss:Type="String">设备号码</Data></Cell>
    <Cell><Data ss:Type="String">账务周期</Data></Cell>
    <Cell><Data ss:Type="String">账单费用</Data></Cell>
   </Row>
   <Row>
    <Cell><Data ss:Type="String">13800000000</Data></Cell>
    <Cell><Data ss:Type="String">[20240701]2024-07-01:2024-07-31</Data></Cell>
    <Cell><Data ss:Type="Number">100</Data></Cell>
   </Row>
   <Row>
    <Cell><Data ss:Type="String">13900000000</Data></Cell>
    <Cell ss:Index="3"><Data ss:Type="Number">55.5</Data></Cell>
   </Row>
  </Table>
 </Worksheet>
</Workbook>`

func TestParseSpreadsheetML(t *testing.T) {
	grid, err := ParseSpreadsheetML(strings.NewReader(spreadsheetMLDoc))
	require.NoError(t, err)
	require.Len(t, grid, 3)

	assert.Equal(t, []string{"设备号码", "账务周期", "账单费用"}, grid[0])
	assert.Equal(t, "100", grid[1][2])

	// ss:Index skipped column 2; the gap is padded with an empty.
	assert.Equal(t, []string{"13900000000", "", "55.5"}, grid[2])
}

func TestParseSpreadsheetMLEmptyDocument(t *testing.T) {
	_, err := ParseSpreadsheetML(strings.NewReader(`<?xml version="1.0"?><Workbook/>`))
	assert.Error(t, err)
}

func TestParseSpreadsheetMLNotXML(t *testing.T) {
	_, err := ParseSpreadsheetML(strings.NewReader("not xml at all"))
	assert.Error(t, err)
}
