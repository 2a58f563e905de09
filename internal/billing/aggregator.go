package billing

import "strings"

// aggregateStrategy attempts to compute a block total. A false second
// return means "no result here", falling through to the next strategy.
type aggregateStrategy func(b Block, kw Keywords) (float64, bool)

// Aggregate computes the total amount for one block. Strategies are
// tried in priority order and the first that produces a result wins;
// the chain always terminates because the final fallback never
// declines. Known quirk, kept deliberately: when the structured tier
// finds amount columns but no subtotal/total rows underneath them, the
// fallback tier recomputes its column choice from the block's first
// row, so the two tiers may sum different columns.
func Aggregate(b Block, kw Keywords) float64 {
	strategies := []aggregateStrategy{
		aggregateStructured,
		aggregateFallback,
	}
	for _, strategy := range strategies {
		if total, ok := strategy(b, kw); ok {
			return total
		}
	}
	return 0
}

// aggregateStructured handles blocks that carry an inner header naming
// price / discount / actual-consumption columns. It sums only the
// subtotal rows below that header (grand-total rows when no subtotals
// exist), taking each row's actual-consumption value when present and
// price+discount otherwise.
func aggregateStructured(b Block, kw Keywords) (float64, bool) {
	headerIdx := -1
	for i, row := range b.Rows {
		for _, cell := range row {
			s := strings.TrimSpace(cell.Text)
			if containsAny(s, kw.Price) || containsAny(s, kw.Discount) || containsAny(s, kw.Actual) {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return 0, false
	}

	// Assign each header column to at most one family; the first
	// matching column per family wins, families checked in
	// price, discount, actual order.
	priceCol, discountCol, actualCol := -1, -1, -1
	for idx, cell := range b.Rows[headerIdx] {
		s := strings.TrimSpace(cell.Text)
		if s == "" {
			continue
		}
		if containsAny(s, kw.Price) {
			if priceCol < 0 {
				priceCol = idx
			}
			continue
		}
		if containsAny(s, kw.Discount) {
			if discountCol < 0 {
				discountCol = idx
			}
			continue
		}
		if containsAny(s, kw.Actual) && actualCol < 0 {
			actualCol = idx
		}
	}
	if priceCol < 0 && discountCol < 0 && actualCol < 0 {
		return 0, false
	}

	var subtotalRows, totalRows []int
	for i := headerIdx + 1; i < len(b.Rows); i++ {
		first := strings.TrimSpace(b.Rows[i].Cell(0).Text)
		switch {
		case kw.Subtotal != "" && strings.Contains(first, kw.Subtotal):
			subtotalRows = append(subtotalRows, i)
		case first == kw.Total || strings.HasPrefix(first, kw.Total):
			totalRows = append(totalRows, i)
		}
	}
	targetRows := subtotalRows
	if len(targetRows) == 0 {
		targetRows = totalRows
	}
	if len(targetRows) == 0 {
		return 0, false
	}

	var total float64
	for _, i := range targetRows {
		row := b.Rows[i]
		if actualCol >= 0 {
			if v, ok := ParseAmount(row.Cell(actualCol).Text); ok {
				total += v
				continue
			}
		}
		price, priceOK := columnAmount(row, priceCol)
		discount, discountOK := columnAmount(row, discountCol)
		if priceOK || discountOK {
			// An absent side counts as 0 only when the other side
			// exists; a row with neither contributes nothing.
			total += price + discount
		}
	}
	return round2(total), true
}

// aggregateFallback is the naive tier: pick an amount column from the
// block's first row by header keyword (last column when nothing
// matches) and sum it over every row after the first, skipping
// unparsable cells. Row 0 is excluded unconditionally since it is a
// header or package name row.
func aggregateFallback(b Block, kw Keywords) (float64, bool) {
	if len(b.Rows) == 0 {
		return 0, true
	}

	col := findAmountColumn(b.Rows[0], kw)
	if col < 0 {
		ncols := 0
		for _, row := range b.Rows {
			if len(row) > ncols {
				ncols = len(row)
			}
		}
		col = ncols - 1
	}

	var total float64
	for i := 1; i < len(b.Rows); i++ {
		if v, ok := ParseAmount(b.Rows[i].Cell(col).Text); ok {
			total += v
		}
	}
	return round2(total), true
}

// findAmountColumn scans a header row for the first cell containing an
// amount keyword; -1 when nothing matches.
func findAmountColumn(header Row, kw Keywords) int {
	for i, cell := range header {
		s := strings.TrimSpace(cell.Text)
		if s == "" {
			continue
		}
		if containsAny(s, kw.AmountHeader) {
			return i
		}
	}
	return -1
}

// columnAmount parses row[col], reporting absence for a missing column
// or unparsable cell.
func columnAmount(row Row, col int) (float64, bool) {
	if col < 0 {
		return 0, false
	}
	return ParseAmount(row.Cell(col).Text)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
