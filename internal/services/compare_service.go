package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"billscan/internal/billing"
	"billscan/internal/dataprocessing"
)

// DiffSummary aggregates a comparison for display: total and average
// delta plus the subscriber with the largest absolute change.
type DiffSummary struct {
	TotalDelta   float64            `json:"totalDelta"`
	AverageDelta float64            `json:"averageDelta"`
	MaxEntry     *billing.DiffEntry `json:"maxEntry,omitempty"`
}

// CompareService builds month tables from uploaded datasets and
// computes cross-month comparisons.
type CompareService struct {
	keywords billing.Keywords
	logger   *slog.Logger
}

// NewCompareService creates a comparison service using the given
// keyword table.
func NewCompareService(keywords billing.Keywords, logger *slog.Logger) *CompareService {
	return &CompareService{
		keywords: keywords,
		logger:   logger.With(slog.String("service", "compare")),
	}
}

// LoadMonthTable reads a monthly dataset file and groups it by month
// and subscriber number.
func (s *CompareService) LoadMonthTable(ctx context.Context, path string) (billing.MonthTable, error) {
	records, err := dataprocessing.ReadMonthlyRecords(path, s.keywords)
	if err != nil {
		return nil, err
	}
	table, err := billing.BuildMonthTable(records)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "month table built",
		slog.Int("records", len(records)),
		slog.Int("months", len(table)),
	)
	return table, nil
}

// ErrMonthEmpty reports a requested month absent from the table.
type ErrMonthEmpty struct {
	Month string
}

func (e *ErrMonthEmpty) Error() string {
	return fmt.Sprintf("month %s has no data", e.Month)
}

// Compare diffs two months of a table and summarizes the result.
func (s *CompareService) Compare(ctx context.Context, table billing.MonthTable, monthA, monthB string) ([]billing.DiffEntry, DiffSummary, error) {
	if len(table[monthA]) == 0 {
		return nil, DiffSummary{}, &ErrMonthEmpty{Month: monthA}
	}
	if len(table[monthB]) == 0 {
		return nil, DiffSummary{}, &ErrMonthEmpty{Month: monthB}
	}

	entries := billing.Diff(table, monthA, monthB)

	s.logger.InfoContext(ctx, "months compared",
		slog.String("month_a", monthA),
		slog.String("month_b", monthB),
		slog.Int("subscribers", len(entries)),
	)
	return entries, summarize(entries), nil
}

func summarize(entries []billing.DiffEntry) DiffSummary {
	var summary DiffSummary
	if len(entries) == 0 {
		return summary
	}

	maxIdx := 0
	for i, e := range entries {
		summary.TotalDelta += e.Delta
		if math.Abs(e.Delta) > math.Abs(entries[maxIdx].Delta) {
			maxIdx = i
		}
	}
	summary.AverageDelta = roundCents(summary.TotalDelta / float64(len(entries)))
	summary.TotalDelta = roundCents(summary.TotalDelta)
	max := entries[maxIdx]
	summary.MaxEntry = &max
	return summary
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
