// Package dataprocessing reads uploaded bill exports into the plain
// grids the billing engine consumes.
//
// It owns everything the engine deliberately does not: choosing a
// reader by file signature (xlsx, Excel 2003 SpreadsheetML, CSV),
// extracting display strings and column-A font styles via excelize,
// and discarding the fixed leading and trailing bands that frame the
// effective region of a package report.
package dataprocessing
