package billing

import "strings"

// Font sizes the source reports use to mark structure in column A.
const (
	packageHeaderFontSize = 16
	otherMarkerFontSize   = 14
)

// Classify derives a row's tag set from its first cell. It is total:
// absent style metadata simply yields fewer tags, never an error.
func Classify(row Row, kw Keywords) RowTag {
	var tags RowTag

	cell := row.Cell(0)
	if s := cell.Style; s != nil {
		// Font sizes arrive as floats from the style table; the
		// report marks structure with whole point sizes.
		if int(s.FontSize) == packageHeaderFontSize && s.Bold {
			tags |= TagPackageHeader
		}
		if int(s.FontSize) == otherMarkerFontSize {
			tags |= TagOtherMarker
		}
	}

	text := strings.TrimSpace(cell.Text)
	if text == kw.Total {
		tags |= TagTotal
	}
	// Subtotal rows may carry suffixes, so substring rather than
	// exact match.
	if kw.Subtotal != "" && strings.Contains(text, kw.Subtotal) {
		tags |= TagSubtotal
	}

	return tags
}

// ClassifyGrid tags every row of a grid, returning a slice parallel to
// rows.
func ClassifyGrid(rows []Row, kw Keywords) []RowTag {
	tags := make([]RowTag, len(rows))
	for i, row := range rows {
		tags[i] = Classify(row, kw)
	}
	return tags
}
