// Package billing implements the semantic analysis engine for telecom
// billing spreadsheets.
//
// The package operates on a normalized grid of display strings (with
// optional per-cell font metadata) that an external reader has already
// trimmed of its fixed header and footer bands. It provides:
//
//   - Row classification: tagging rows as package headers, "other"
//     product markers, grand-total or subtotal rows based on the first
//     cell's content and style (classifier.go)
//   - Block segmentation: partitioning the grid into named package
//     blocks and a residual "other packages" block (segmenter.go)
//   - Amount aggregation: computing a per-block total through an
//     ordered list of fallback strategies (aggregator.go)
//   - Billing-cycle parsing: extracting a YYYY-MM month key from
//     free-text cycle cells (cycle.go)
//   - Monthly differencing: grouping records by month and subscriber
//     number and computing an outer-join comparison between two
//     months (monthly.go)
//
// Every entry point is a pure function of its input; the package holds
// no state between calls and never performs I/O. Heterogeneous input
// (short rows, missing styles, unparsable numbers, unterminated
// package blocks) is absorbed by fallback rules rather than surfaced
// as errors. The only errors raised are dataset-level structural
// failures: no extractable month anywhere, or a required column that
// cannot be discovered by keyword.
//
// All keyword literals used for classification and column discovery
// live in the Keywords table (types.go) so they can be overridden in
// tests or configuration without touching the logic.
package billing
