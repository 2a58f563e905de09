// Package services orchestrates the reader shims and the billing
// engine behind the HTTP handlers and the CLI.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"billscan/internal/billing"
	"billscan/internal/dataprocessing"
)

// PackageGroup is one analyzed block, flattened for rendering.
type PackageGroup struct {
	PackageName string     `json:"packageName"`
	Rows        [][]string `json:"rows"`
	TotalAmount float64    `json:"totalAmount"`
	Residual    bool       `json:"residual,omitempty"`
	Fallback    bool       `json:"fallback,omitempty"`
}

// SheetAnalysis is the analysis result for one worksheet.
type SheetAnalysis struct {
	Name     string         `json:"name"`
	RowCount int            `json:"rowCount"`
	Groups   []PackageGroup `json:"groups"`
}

// AnalysisService runs the package-block analysis over uploaded
// workbooks.
type AnalysisService struct {
	keywords billing.Keywords
	logger   *slog.Logger
}

// NewAnalysisService creates an analysis service using the given
// keyword table.
func NewAnalysisService(keywords billing.Keywords, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		keywords: keywords,
		logger:   logger.With(slog.String("service", "analysis")),
	}
}

// AnalyzeWorkbook reads every sheet of an xlsx package report and
// returns its segmented blocks with computed totals. Sheets are
// independent, so they are analyzed concurrently; the engine itself is
// pure and needs no coordination.
func (s *AnalysisService) AnalyzeWorkbook(ctx context.Context, path string) ([]SheetAnalysis, error) {
	grids, err := dataprocessing.ReadPackageGrids(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	results := make([]SheetAnalysis, len(grids))
	g, ctx := errgroup.WithContext(ctx)
	for i, grid := range grids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.analyzeSheet(ctx, grid)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *AnalysisService) analyzeSheet(ctx context.Context, grid dataprocessing.SheetGrid) SheetAnalysis {
	tags := billing.ClassifyGrid(grid.Rows, s.keywords)
	blocks := billing.Segment(grid.Rows, tags)

	analysis := SheetAnalysis{
		Name:     grid.Name,
		RowCount: len(grid.Rows),
		Groups:   make([]PackageGroup, 0, len(blocks)),
	}
	for _, block := range blocks {
		total := billing.Aggregate(block, s.keywords)
		rows := make([][]string, len(block.Rows))
		for i, row := range block.Rows {
			rows[i] = row.Texts()
		}
		analysis.Groups = append(analysis.Groups, PackageGroup{
			PackageName: block.Name,
			Rows:        rows,
			TotalAmount: total,
			Residual:    block.Residual,
			Fallback:    block.Fallback,
		})
	}

	s.logger.InfoContext(ctx, "sheet analyzed",
		slog.String("sheet", grid.Name),
		slog.Int("rows", len(grid.Rows)),
		slog.Int("groups", len(analysis.Groups)),
	)
	return analysis
}
