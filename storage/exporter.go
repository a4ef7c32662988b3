package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/andybalholm/brotli"

	"product-intelligence/models"
	"product-intelligence/utils"
)

// Exporter writes the report suite and the per-product scores to CSV files
// under a single directory, one file per table. With compression on, every
// file also gets a .csv.br sibling so large exports ship cheaply.
type Exporter struct {
	dir      string
	compress bool
	logger   *utils.Logger
}

// NewExporter returns an Exporter rooted at dir.
func NewExporter(dir string, compress bool, logger *utils.Logger) *Exporter {
	return &Exporter{dir: dir, compress: compress, logger: logger}
}

// ExportReport writes every table of the report to its own CSV file.
func (e *Exporter) ExportReport(report *models.IntelligenceReport) error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("export: create report dir: %w", err)
	}

	tables := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"category_performance", performanceHeader, performanceRows(report.Performance)},
		{"satisfaction_tiers", satisfactionHeader, satisfactionRows(report.Satisfaction)},
		{"bcg_matrix", bcgHeader, bcgRows(report.BCG)},
		{"price_bands", priceBandHeader, priceBandRows(report.PriceBands)},
		{"market_opportunities", opportunityHeader, opportunityRows(report.Opportunities)},
		{"top_products", topProductHeader, topProductRows(report.TopProducts)},
		{"category_success", successHeader, successRows(report.Success)},
		{"improvement_candidates", candidateHeader, candidateRows(report.Improvement)},
		{"underpriced_candidates", candidateHeader, candidateRows(report.Underpriced)},
		{"top_categories", topCategoryHeader, topCategoryRows(report.Summary.TopCategories)},
		{"executive_summary", summaryHeader, summaryRows(report.Summary)},
	}

	for _, tbl := range tables {
		if err := e.writeTable(tbl.name, tbl.header, tbl.rows); err != nil {
			return err
		}
	}

	e.logger.Info("[export] Wrote %d report tables to %s", len(tables), e.dir)
	return nil
}

// ExportScores writes one row per product with every derived metric.
// Undefined metrics export as empty cells, never as zeroes.
func (e *Exporter) ExportScores(scored []*models.ScoredProduct) error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("export: create report dir: %w", err)
	}

	rows := make([][]string, 0, len(scored))
	for _, s := range scored {
		p := s.Product
		quartile := ""
		if s.PriceQuartile > 0 {
			quartile = strconv.Itoa(s.PriceQuartile)
		}
		rows = append(rows, []string{
			p.Name,
			p.MainCategory,
			p.SubCategory,
			optFloat(p.Rating, p.HasRating),
			optInt(p.ReviewCount, p.HasReviews),
			optFloat(p.Price, p.HasPrice),
			optFloat(p.ActualPrice, p.HasActualPrice),
			optFloat(s.DiscountPercent, s.HasDiscountPercent),
			optFloat(s.Composite, s.HasComposite),
			optFloat(s.ValueRatio, s.HasValueRatio),
			optFloat(s.Quality, s.HasQuality),
			optFloat(s.ValueScore, s.HasValueScore),
			optFloat(s.ReviewDensity, s.HasReviewDensity),
			optFloat(s.PricePerRating, s.HasPricePerRating),
			s.RatingLabel,
			quartile,
		})
	}

	header := []string{
		"name", "main_category", "sub_category", "rating", "reviews",
		"price", "actual_price", "discount_percent", "composite_score",
		"value_ratio", "quality_score", "value_score", "review_density",
		"price_per_rating", "rating_label", "price_quartile",
	}
	if err := e.writeTable("scored_products", header, rows); err != nil {
		return err
	}

	e.logger.Info("[export] Wrote %d scored products to %s", len(rows), e.dir)
	return nil
}

func (e *Exporter) writeTable(name string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("export: %s header: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("export: %s rows: %w", name, err)
	}

	path := filepath.Join(e.dir, name+".csv")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	e.logger.Debug("[export] %s: %d rows", filepath.Base(path), len(rows))

	if !e.compress {
		return nil
	}
	return writeBrotli(path+".br", buf.Bytes())
}

func writeBrotli(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	bw := brotli.NewWriterLevel(f, brotli.BestCompression)
	if _, err := bw.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("export: compress %s: %w", path, err)
	}
	if err := bw.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("export: finish %s: %w", path, err)
	}
	return f.Close()
}

var performanceHeader = []string{
	"main_category", "products", "avg_price", "median_price", "price_stddev",
	"avg_rating", "weighted_rating", "total_reviews", "subcategories",
	"avg_quality", "tier", "quality_rank",
}

func performanceRows(perf []models.CategoryPerformance) [][]string {
	rows := make([][]string, 0, len(perf))
	for _, p := range perf {
		rows = append(rows, []string{
			p.MainCategory,
			strconv.Itoa(p.Count),
			f2(p.Price.Mean),
			f2(p.Price.Median),
			f2(p.Price.StdDev),
			f2(p.Rating.Mean),
			f2(p.WeightedRating),
			strconv.FormatInt(p.TotalReviews, 10),
			strconv.Itoa(p.Subcategories),
			f2(p.AvgQuality),
			p.Tier,
			strconv.Itoa(p.QualityRank),
		})
	}
	return rows
}

var satisfactionHeader = []string{"main_category", "products", "weighted_rating", "tier"}

func satisfactionRows(tiers []models.SatisfactionTier) [][]string {
	rows := make([][]string, 0, len(tiers))
	for _, t := range tiers {
		rows = append(rows, []string{
			t.MainCategory, strconv.Itoa(t.Count), f2(t.WeightedRating), t.Tier,
		})
	}
	return rows
}

var bcgHeader = []string{"main_category", "products", "weighted_rating", "total_reviews", "quadrant"}

func bcgRows(quadrants []models.BCGQuadrant) [][]string {
	rows := make([][]string, 0, len(quadrants))
	for _, q := range quadrants {
		rows = append(rows, []string{
			q.MainCategory,
			strconv.Itoa(q.Count),
			f2(q.WeightedRating),
			strconv.FormatInt(q.TotalReviews, 10),
			q.Quadrant,
		})
	}
	return rows
}

var priceBandHeader = []string{"main_category", "band", "products", "avg_rating", "avg_reviews"}

func priceBandRows(bands []models.PriceBand) [][]string {
	rows := make([][]string, 0, len(bands))
	for _, b := range bands {
		rows = append(rows, []string{
			b.MainCategory, b.Band, strconv.Itoa(b.Count), f2(b.AvgRating), f2(b.AvgReviews),
		})
	}
	return rows
}

var opportunityHeader = []string{
	"main_category", "sub_category", "products", "avg_rating",
	"demand_signal", "opportunity_score", "is_gap",
}

func opportunityRows(opps []models.MarketOpportunity) [][]string {
	rows := make([][]string, 0, len(opps))
	for _, o := range opps {
		rows = append(rows, []string{
			o.MainCategory,
			o.SubCategory,
			strconv.Itoa(o.Count),
			f2(o.AvgRating),
			strconv.FormatInt(o.DemandSignal, 10),
			f2(o.OpportunityScore),
			strconv.FormatBool(o.IsGap),
		})
	}
	return rows
}

var topProductHeader = []string{
	"name", "main_category", "composite_score", "category_rank",
	"price_quartile", "premium_label",
}

func topProductRows(products []models.RankedProduct) [][]string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.Name,
			p.MainCategory,
			f2(p.Composite),
			strconv.Itoa(p.Rank),
			strconv.Itoa(p.PriceQuartile),
			p.PremiumLabel,
		})
	}
	return rows
}

var successHeader = []string{"main_category", "products", "successful", "success_rate"}

func successRows(success []models.CategorySuccess) [][]string {
	rows := make([][]string, 0, len(success))
	for _, s := range success {
		rows = append(rows, []string{
			s.MainCategory, strconv.Itoa(s.Count), strconv.Itoa(s.Successful), f2(s.SuccessRate),
		})
	}
	return rows
}

var candidateHeader = []string{
	"name", "main_category", "rating", "reviews", "price", "price_vs_avg_pct",
}

func candidateRows(candidates []models.ProductCandidate) [][]string {
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, []string{
			c.Name,
			c.MainCategory,
			f2(c.Rating),
			strconv.Itoa(c.ReviewCount),
			f2(c.Price),
			f2(c.PriceVsAvgPct),
		})
	}
	return rows
}

var topCategoryHeader = []string{"main_category", "products", "avg_quality"}

func topCategoryRows(cats []models.CategoryQuality) [][]string {
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{c.MainCategory, strconv.Itoa(c.Count), f2(c.AvgQuality)})
	}
	return rows
}

var summaryHeader = []string{
	"total_products", "total_categories", "avg_rating", "avg_price",
	"total_reviews", "rated_four_plus", "premium_priced", "high_potential",
}

func summaryRows(s models.ExecutiveSummary) [][]string {
	return [][]string{{
		strconv.Itoa(s.TotalProducts),
		strconv.Itoa(s.TotalCategories),
		f2(s.AvgRating),
		f2(s.AvgPrice),
		strconv.FormatInt(s.TotalReviews, 10),
		strconv.Itoa(s.RatedFourPlus),
		strconv.Itoa(s.PremiumPriced),
		strconv.Itoa(s.HighPotential),
	}}
}

func f2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func optFloat(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return f2(v)
}

func optInt(v int, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.Itoa(v)
}
