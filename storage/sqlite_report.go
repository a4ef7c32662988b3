package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"product-intelligence/models"
)

// reportTable is one report result destined for its own SQLite table.
// Tables are dropped and recreated on every save; report output belongs to
// the run that produced it.
type reportTable struct {
	name string
	ddl  string
	cols int
	rows [][]any
}

// SaveReport persists every table of the report suite so downstream tools
// can query results next to the products table they came from.
func (s *SQLiteStore) SaveReport(report *models.IntelligenceReport) error {
	tables := []reportTable{
		performanceTable(report.Performance),
		satisfactionTable(report.Satisfaction),
		bcgTable(report.BCG),
		priceBandTable(report.PriceBands),
		opportunityTable(report.Opportunities),
		topProductTable(report.TopProducts),
		successTable(report.Success),
		candidateTable("improvement_candidates", report.Improvement),
		candidateTable("underpriced_candidates", report.Underpriced),
		topCategoryTable(report.Summary.TopCategories),
		summaryTable(report.Summary),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: begin report save: %w", err)
	}
	for _, tbl := range tables {
		if err := saveTable(tx, tbl); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite: save %s: %w", tbl.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit report save: %w", err)
	}
	return nil
}

func saveTable(tx *sql.Tx, tbl reportTable) error {
	if _, err := tx.Exec(`DROP TABLE IF EXISTS "` + tbl.name + `"`); err != nil {
		return err
	}
	if _, err := tx.Exec(`CREATE TABLE "` + tbl.name + `" (` + tbl.ddl + `)`); err != nil {
		return err
	}

	ph := strings.TrimRight(strings.Repeat("?,", tbl.cols), ",")
	stmt, err := tx.Prepare(`INSERT INTO "` + tbl.name + `" VALUES (` + ph + `)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range tbl.rows {
		if _, err := stmt.Exec(row...); err != nil {
			return err
		}
	}
	return nil
}

func performanceTable(perf []models.CategoryPerformance) reportTable {
	rows := make([][]any, 0, len(perf))
	for _, p := range perf {
		rows = append(rows, []any{
			p.MainCategory, p.Count, p.Price.Mean, p.Price.Median, p.Price.StdDev,
			p.Rating.Mean, p.WeightedRating, p.TotalReviews, p.Subcategories,
			p.AvgQuality, p.Tier, p.QualityRank,
		})
	}
	return reportTable{
		name: "category_performance",
		ddl: `main_category TEXT, products INTEGER, avg_price REAL, median_price REAL,
			price_stddev REAL, avg_rating REAL, weighted_rating REAL, total_reviews INTEGER,
			subcategories INTEGER, avg_quality REAL, tier TEXT, quality_rank INTEGER`,
		cols: 12,
		rows: rows,
	}
}

func satisfactionTable(tiers []models.SatisfactionTier) reportTable {
	rows := make([][]any, 0, len(tiers))
	for _, t := range tiers {
		rows = append(rows, []any{t.MainCategory, t.Count, t.WeightedRating, t.Tier})
	}
	return reportTable{
		name: "satisfaction_tiers",
		ddl:  `main_category TEXT, products INTEGER, weighted_rating REAL, tier TEXT`,
		cols: 4,
		rows: rows,
	}
}

func bcgTable(quadrants []models.BCGQuadrant) reportTable {
	rows := make([][]any, 0, len(quadrants))
	for _, q := range quadrants {
		rows = append(rows, []any{q.MainCategory, q.Count, q.WeightedRating, q.TotalReviews, q.Quadrant})
	}
	return reportTable{
		name: "bcg_matrix",
		ddl:  `main_category TEXT, products INTEGER, weighted_rating REAL, total_reviews INTEGER, quadrant TEXT`,
		cols: 5,
		rows: rows,
	}
}

func priceBandTable(bands []models.PriceBand) reportTable {
	rows := make([][]any, 0, len(bands))
	for _, b := range bands {
		rows = append(rows, []any{b.MainCategory, b.Band, b.Count, b.AvgRating, b.AvgReviews})
	}
	return reportTable{
		name: "price_bands",
		ddl:  `main_category TEXT, band TEXT, products INTEGER, avg_rating REAL, avg_reviews REAL`,
		cols: 5,
		rows: rows,
	}
}

func opportunityTable(opps []models.MarketOpportunity) reportTable {
	rows := make([][]any, 0, len(opps))
	for _, o := range opps {
		rows = append(rows, []any{
			o.MainCategory, o.SubCategory, o.Count, o.AvgRating,
			o.DemandSignal, o.OpportunityScore, boolToInt(o.IsGap),
		})
	}
	return reportTable{
		name: "market_opportunities",
		ddl: `main_category TEXT, sub_category TEXT, products INTEGER, avg_rating REAL,
			demand_signal INTEGER, opportunity_score REAL, is_gap INTEGER`,
		cols: 7,
		rows: rows,
	}
}

func topProductTable(products []models.RankedProduct) reportTable {
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{
			p.Name, p.MainCategory, p.Composite, p.Rank, p.PriceQuartile, p.PremiumLabel,
		})
	}
	return reportTable{
		name: "top_products",
		ddl: `name TEXT, main_category TEXT, composite_score REAL, category_rank INTEGER,
			price_quartile INTEGER, premium_label TEXT`,
		cols: 6,
		rows: rows,
	}
}

func successTable(success []models.CategorySuccess) reportTable {
	rows := make([][]any, 0, len(success))
	for _, s := range success {
		rows = append(rows, []any{s.MainCategory, s.Count, s.Successful, s.SuccessRate})
	}
	return reportTable{
		name: "category_success",
		ddl:  `main_category TEXT, products INTEGER, successful INTEGER, success_rate REAL`,
		cols: 4,
		rows: rows,
	}
}

func candidateTable(name string, candidates []models.ProductCandidate) reportTable {
	rows := make([][]any, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, []any{
			c.Name, c.MainCategory, c.Rating, c.ReviewCount, c.Price, c.PriceVsAvgPct,
		})
	}
	return reportTable{
		name: name,
		ddl: `name TEXT, main_category TEXT, rating REAL, reviews INTEGER,
			price REAL, price_vs_avg_pct REAL`,
		cols: 6,
		rows: rows,
	}
}

func topCategoryTable(cats []models.CategoryQuality) reportTable {
	rows := make([][]any, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []any{c.MainCategory, c.Count, c.AvgQuality})
	}
	return reportTable{
		name: "top_categories",
		ddl:  `main_category TEXT, products INTEGER, avg_quality REAL`,
		cols: 3,
		rows: rows,
	}
}

func summaryTable(s models.ExecutiveSummary) reportTable {
	return reportTable{
		name: "executive_summary",
		ddl: `total_products INTEGER, total_categories INTEGER, avg_rating REAL,
			avg_price REAL, total_reviews INTEGER, rated_four_plus INTEGER,
			premium_priced INTEGER, high_potential INTEGER`,
		cols: 8,
		rows: [][]any{{
			s.TotalProducts, s.TotalCategories, s.AvgRating, s.AvgPrice,
			s.TotalReviews, s.RatedFourPlus, s.PremiumPriced, s.HighPotential,
		}},
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
