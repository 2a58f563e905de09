package billing

// CellStyle carries the font metadata the classifier needs. It is only
// populated when the source format preserves per-cell formatting; a nil
// style degrades classification to content-only rules.
type CellStyle struct {
	FontSize float64 `json:"font_size"`
	Bold     bool    `json:"bold"`
}

// Cell is a single spreadsheet cell: a display string (empty for blank,
// never "nil") plus optional style metadata.
type Cell struct {
	Text  string     `json:"text"`
	Style *CellStyle `json:"style,omitempty"`
}

// Row is an ordered sequence of cells, column A at index 0. Rows within
// one grid need not share a length; consumers treat missing cells as
// empty.
type Row []Cell

// Cell returns the cell at column i, or a zero Cell when the row is too
// short.
func (r Row) Cell(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// Texts returns the row's display strings.
func (r Row) Texts() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Text
	}
	return out
}

// TextRow builds a style-less Row from display strings.
func TextRow(texts ...string) Row {
	row := make(Row, len(texts))
	for i, t := range texts {
		row[i] = Cell{Text: t}
	}
	return row
}

// RowTag is a set of semantic roles assigned to a row. A row may carry
// zero, one, or several tags; the set is derived purely from the row's
// first cell and is immutable once computed.
type RowTag uint8

const (
	// TagPackageHeader marks a package name row: column 0 in 16pt bold.
	TagPackageHeader RowTag = 1 << iota
	// TagOtherMarker marks an "other" product row: column 0 in 14pt.
	TagOtherMarker
	// TagTotal marks a grand-total row: column 0 text equals the
	// total literal exactly.
	TagTotal
	// TagSubtotal marks a subtotal row: column 0 text contains the
	// subtotal literal.
	TagSubtotal
)

// Has reports whether all tags in mask are present.
func (t RowTag) Has(mask RowTag) bool { return t&mask == mask }

// Block is a contiguous (or, for the residual block, concatenated)
// slice of the grid with a display name. StartIndex and EndIndex are
// positions in the original grid, both inclusive.
type Block struct {
	Name       string `json:"name"`
	Rows       []Row  `json:"rows"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
	Residual   bool   `json:"residual,omitempty"`
	Fallback   bool   `json:"fallback,omitempty"`
}

// Display names for blocks that have no usable header text. The marker
// keywords in Keywords are contractual; these are presentation only.
const (
	UnnamedPackageName = "未命名套餐"
	OtherPackagesName  = "其他套餐"
	UngroupedName      = "未识别到套餐"
)

// Keywords is the single configuration table for every literal the
// engine matches against. Defaults follow the upstream report format;
// tests may substitute their own table.
type Keywords struct {
	// Total ends a package block when column 0 equals it exactly.
	Total string `yaml:"total"`
	// Subtotal marks subtotal rows by substring match on column 0.
	Subtotal string `yaml:"subtotal"`

	// Header keyword families for structured (tier 1) aggregation.
	Price    []string `yaml:"price"`
	Discount []string `yaml:"discount"`
	Actual   []string `yaml:"actual"`

	// AmountHeader locates the fallback (tier 2) amount column.
	AmountHeader []string `yaml:"amount_header"`

	// Column discovery keywords for monthly bill datasets.
	CycleColumn  []string `yaml:"cycle_column"`
	NumberColumn []string `yaml:"number_column"`
	FeeColumn    []string `yaml:"fee_column"`
}

// DefaultKeywords returns the keyword table for the standard carrier
// report layout.
func DefaultKeywords() Keywords {
	return Keywords{
		Total:    "合计",
		Subtotal: "小计",

		Price:    []string{"原价"},
		Discount: []string{"减免", "优惠"},
		Actual:   []string{"实际消费", "实收", "实付"},

		AmountHeader: []string{
			"金额", "合计", "费用", "总价", "元)", "（元）",
			"应收", "应付", "实收", "实付", "小计", "总计",
		},

		CycleColumn:  []string{"账单周期", "周期", "账期", "账务周期", "计费周期"},
		NumberColumn: []string{"号码", "接入号", "手机号", "产品", "客户", "账户"},
		FeeColumn:    []string{"账单费用", "费用", "实际消费", "消费", "金额", "合计"},
	}
}

// SubscriberRecord is one subscriber's accumulated fee within a month.
type SubscriberRecord struct {
	Number string  `json:"number"`
	Fee    float64 `json:"fee"`
}

// MonthTable maps a YYYY-MM month key to the subscriber records seen in
// that month. Duplicate numbers within a month are merged additively at
// build time, so each number appears at most once per month.
type MonthTable map[string][]SubscriberRecord

// DiffEntry is one subscriber's cross-month comparison line.
type DiffEntry struct {
	Number       string  `json:"number"`
	FeeA         float64 `json:"fee_a"`
	FeeB         float64 `json:"fee_b"`
	Delta        float64 `json:"delta"`
	DeltaPercent float64 `json:"delta_percent"`
}
