package billing

import "strings"

// Segment partitions a classified grid into blocks: one block per
// package header (running to its grand-total row, the row before the
// next header, or the end of the grid), followed by at most one
// residual block collecting "other" product rows that no package
// claimed. When the grid shows no structure at all, a single fallback
// block covering every row is returned so the caller can still render
// something.
//
// tags must be parallel to rows, as produced by ClassifyGrid.
func Segment(rows []Row, tags []RowTag) []Block {
	n := len(rows)

	var blocks []Block
	covered := make([]bool, n)

	// Package blocks: single left-to-right scan. A header starts a
	// block even when its terminating total never shows up; the
	// malformed block is emitted rather than dropped. A row tagged
	// both header and total is a degenerate one-row package.
	for i := 0; i < n; {
		if !tags[i].Has(TagPackageHeader) {
			i++
			continue
		}
		end := n - 1
		for j := i + 1; j < n; j++ {
			if tags[j].Has(TagTotal) {
				end = j
				break
			}
			if tags[j].Has(TagPackageHeader) {
				end = j - 1
				break
			}
		}
		blocks = append(blocks, Block{
			Name:       blockName(rows[i]),
			Rows:       rows[i : end+1],
			StartIndex: i,
			EndIndex:   end,
		})
		for k := i; k <= end; k++ {
			covered[k] = true
		}
		i = end + 1
	}

	// Residual block: every "other" marker outside the package blocks
	// anchors an extension running to the first unclaimed total row.
	// Extensions may overlap the next anchor; the duplication mirrors
	// the looser grouping of the residual category.
	var residual Block
	residual.StartIndex = -1
	for i := 0; i < n; i++ {
		if !tags[i].Has(TagOtherMarker) || covered[i] {
			continue
		}
		end := i
		found := false
		for j := i + 1; j < n; j++ {
			if tags[j].Has(TagTotal) && !covered[j] {
				end = j
				found = true
				break
			}
		}
		if !found {
			end = i
		}
		for k := i; k <= end; k++ {
			if covered[k] {
				continue
			}
			residual.Rows = append(residual.Rows, rows[k])
		}
		if residual.StartIndex < 0 {
			residual.StartIndex = i
		}
		residual.EndIndex = end
	}
	if len(residual.Rows) > 0 {
		residual.Name = OtherPackagesName
		residual.Residual = true
		blocks = append(blocks, residual)
	}

	if len(blocks) == 0 && n > 0 {
		// No headers and no markers anywhere: grouping heuristics
		// found no structure, hand the whole grid back as one block.
		return []Block{{
			Name:       UngroupedName,
			Rows:       rows,
			StartIndex: 0,
			EndIndex:   n - 1,
			Fallback:   true,
		}}
	}

	return blocks
}

func blockName(header Row) string {
	name := strings.TrimSpace(header.Cell(0).Text)
	if name == "" {
		return UnnamedPackageName
	}
	return name
}
