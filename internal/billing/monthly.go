package billing

import (
	"errors"
	"sort"
	"strings"
)

// ErrNoMonths is returned when not a single row of a dataset yields a
// month key. Per-row extraction failures are silently skipped; a
// dataset with nothing to group is a structural failure.
var ErrNoMonths = errors.New("no month key could be extracted from any row")

// BillingRecord is one raw row of a monthly bill export, as display
// strings. The three fields correspond to the cycle, number and fee
// columns discovered by keyword.
type BillingRecord struct {
	Cycle  string `json:"cycle"`
	Number string `json:"number"`
	Fee    string `json:"fee"`
}

// BuildMonthTable groups raw records by extracted month and subscriber
// number. Records without an extractable month or with an empty number
// are skipped. Unlike block aggregation, an unparsable fee here is
// treated as an explicit 0: the fee column is expected to always be
// meaningful, so a bad cell should not drop the subscriber.
func BuildMonthTable(records []BillingRecord) (MonthTable, error) {
	table := make(MonthTable)
	for _, rec := range records {
		month, ok := ExtractMonth(rec.Cycle)
		if !ok {
			continue
		}
		number := strings.TrimSpace(rec.Number)
		if number == "" {
			continue
		}
		fee, ok := ParseAmount(rec.Fee)
		if !ok {
			fee = 0
		}

		merged := false
		for i := range table[month] {
			if table[month][i].Number == number {
				table[month][i].Fee += fee
				merged = true
				break
			}
		}
		if !merged {
			table[month] = append(table[month], SubscriberRecord{
				Number: number,
				Fee:    round2(fee),
			})
		}
	}
	if len(table) == 0 {
		return nil, ErrNoMonths
	}
	return table, nil
}

// Months lists the table's month keys in ascending order.
func (t MonthTable) Months() []string {
	months := make([]string, 0, len(t))
	for m := range t {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// Diff computes the outer-join comparison of two months. Every number
// present in either month appears exactly once, numbers from monthA in
// their original order followed by monthB-only numbers in theirs. A
// number missing from one month contributes fee 0 there. The percent
// change substitutes 1 for a zero monthA fee so that subscribers new
// in monthB still get a (deliberately distorted) percentage instead of
// a division by zero.
func Diff(table MonthTable, monthA, monthB string) []DiffEntry {
	feesB := make(map[string]float64, len(table[monthB]))
	for _, rec := range table[monthB] {
		feesB[rec.Number] = rec.Fee
	}

	var entries []DiffEntry
	seen := make(map[string]bool)
	for _, rec := range table[monthA] {
		entries = append(entries, newDiffEntry(rec.Number, rec.Fee, feesB[rec.Number]))
		seen[rec.Number] = true
	}
	for _, rec := range table[monthB] {
		if seen[rec.Number] {
			continue
		}
		entries = append(entries, newDiffEntry(rec.Number, 0, rec.Fee))
	}
	return entries
}

func newDiffEntry(number string, feeA, feeB float64) DiffEntry {
	denom := feeA
	if denom == 0 {
		denom = 1
	}
	return DiffEntry{
		Number:       number,
		FeeA:         feeA,
		FeeB:         feeB,
		Delta:        feeB - feeA,
		DeltaPercent: round2((feeB - feeA) / denom * 100),
	}
}

// ErrColumnNotFound is returned by DiscoverColumns when a required
// column cannot be located by keyword.
type ErrColumnNotFound struct {
	Column string
}

func (e *ErrColumnNotFound) Error() string {
	return "required column not found in header: " + e.Column
}

// DatasetColumns holds the positions of the three columns a monthly
// dataset must provide.
type DatasetColumns struct {
	Cycle  int
	Number int
	Fee    int
}

// DiscoverColumns locates the billing-cycle, subscriber-number and fee
// columns in a dataset header by keyword. The first matching column
// per role wins. All three are required; a miss is a structural error,
// not something the fallback tiers can absorb.
func DiscoverColumns(header []string, kw Keywords) (DatasetColumns, error) {
	cols := DatasetColumns{Cycle: -1, Number: -1, Fee: -1}
	for i, raw := range header {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if cols.Cycle < 0 && containsAny(s, kw.CycleColumn) {
			cols.Cycle = i
		}
		if cols.Number < 0 && containsAny(s, kw.NumberColumn) {
			cols.Number = i
		}
		if cols.Fee < 0 && containsAny(s, kw.FeeColumn) {
			cols.Fee = i
		}
	}
	switch {
	case cols.Cycle < 0:
		return cols, &ErrColumnNotFound{Column: "billing cycle"}
	case cols.Number < 0:
		return cols, &ErrColumnNotFound{Column: "subscriber number"}
	case cols.Fee < 0:
		return cols, &ErrColumnNotFound{Column: "fee"}
	}
	return cols, nil
}
