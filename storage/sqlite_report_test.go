package storage

import (
	"path/filepath"
	"testing"

	"product-intelligence/models"
)

func TestSQLiteSaveReportTables(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "products.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	report := &models.IntelligenceReport{
		Performance: []models.CategoryPerformance{{
			CategoryStats: models.CategoryStats{
				MainCategory:   "electronics",
				Count:          25,
				TotalReviews:   40000,
				WeightedRating: 4.31,
				AvgQuality:     3.9,
			},
			Tier:        "Strong Performer",
			QualityRank: 1,
		}},
		Opportunities: []models.MarketOpportunity{{
			MainCategory:     "electronics",
			SubCategory:      "headphones",
			Count:            8,
			DemandSignal:     9000,
			OpportunityScore: 1125,
			IsGap:            true,
		}},
		Summary: models.ExecutiveSummary{
			TotalProducts:   25,
			TotalCategories: 1,
			AvgRating:       4.2,
			AvgPrice:        1100,
			TotalReviews:    40000,
			TopCategories: []models.CategoryQuality{
				{MainCategory: "electronics", AvgQuality: 3.9, Count: 25},
			},
		},
	}
	if err := store.SaveReport(report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	var tier string
	var rank int
	row := store.db.QueryRow(`SELECT tier, quality_rank FROM category_performance WHERE main_category = 'electronics'`)
	if err := row.Scan(&tier, &rank); err != nil {
		t.Fatalf("query performance: %v", err)
	}
	if tier != "Strong Performer" || rank != 1 {
		t.Errorf("performance row = %q / %d", tier, rank)
	}

	var isGap int
	row = store.db.QueryRow(`SELECT is_gap FROM market_opportunities WHERE sub_category = 'headphones'`)
	if err := row.Scan(&isGap); err != nil {
		t.Fatalf("query opportunities: %v", err)
	}
	if isGap != 1 {
		t.Errorf("is_gap = %d, want 1", isGap)
	}

	// Empty report sections still get their (empty) tables.
	var n int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM bcg_matrix`).Scan(&n); err != nil {
		t.Fatalf("query bcg_matrix: %v", err)
	}
	if n != 0 {
		t.Errorf("bcg_matrix rows = %d, want 0", n)
	}

	// A second save replaces, not appends.
	if err := store.SaveReport(report); err != nil {
		t.Fatalf("second SaveReport: %v", err)
	}
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM category_performance`).Scan(&n); err != nil {
		t.Fatalf("query performance count: %v", err)
	}
	if n != 1 {
		t.Errorf("category_performance rows after resave = %d, want 1", n)
	}
}
