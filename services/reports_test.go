package services

import (
	"testing"

	"product-intelligence/config"
	"product-intelligence/models"
)

// reportConfig lowers the group-size cutoffs so the 20-product fixture
// exercises every report.
func reportConfig() *config.Config {
	cfg := testConfig()
	cfg.PerfMinGroup = 3
	cfg.SatisfactionMinGroup = 3
	cfg.BCGMinGroup = 3
	cfg.ExecTopMinGroup = 4
	return cfg
}

// sampleProducts is a fixed 20-product catalog across three categories.
// Every product lists at twice its selling price, so each discount is
// exactly 50% and every composite score is defined.
//
// Hand-computed facts the tests below lean on:
//   - mean ratings: toys & games 4.5, electronics 4.2, home & kitchen 4.0
//   - weighted ratings: toys 4.49, electronics 78650/18000, home 31740/8000
//   - total reviews: electronics 18000, home 8000, toys 1000 (27000 overall)
//   - 70th percentile of review counts: 1650 (between 1500 and 2000)
//   - overall mean price: 30380/20 = 1519, median price: 1049
func sampleProducts() []*models.Product {
	rows := []struct {
		name    string
		cat     string
		sub     string
		rating  float64
		reviews int
		price   float64
	}{
		{"boAt Rockerz 450 Bluetooth Headphone", "electronics", "headphones", 4.5, 3000, 999},
		{"Sony WH-CH520 Wireless Headphone", "electronics", "headphones", 4.3, 2000, 1499},
		{"JBL Tune 510BT On-Ear", "electronics", "headphones", 4.1, 1000, 2499},
		{"Sennheiser HD 250BT Over-Ear", "electronics", "headphones", 4.7, 4000, 3499},
		{"Bose SoundLink On-Ear", "electronics", "headphones", 4.4, 2500, 5999},
		{"Zebronics ZEB-A20 Monitor", "electronics", "monitors", 3.9, 500, 799},
		{"Acer Aopen 22CH1Q Monitor", "electronics", "monitors", 4.0, 1000, 1299},
		{"LG 22MP410 FHD Monitor", "electronics", "monitors", 4.2, 1500, 1999},
		{"Samsung 24in FHD Monitor", "electronics", "monitors", 4.3, 2000, 2999},
		{"Frontech 19in HD Monitor", "electronics", "monitors", 3.6, 500, 899},

		{"Pigeon Favourite Pressure Cooker 3L", "home & kitchen", "cookware", 4.0, 3000, 299},
		{"Nirlon Non-Stick Pan Set", "home & kitchen", "cookware", 3.8, 800, 499},
		{"Prestige Omega Deluxe Kadai", "home & kitchen", "cookware", 4.4, 1000, 1099},
		{"SAF Flower Set of 3 Wall Paintings", "home & kitchen", "decor", 3.6, 1500, 249},
		{"Story@Home Blackout Curtain Pair", "home & kitchen", "decor", 4.2, 500, 1899},
		{"Solimo Engineered Wood Wall Shelf", "home & kitchen", "decor", 4.0, 1200, 649},

		{"Frank Jungle Safari 60pc Puzzle", "toys & games", "puzzles", 4.6, 100, 399},
		{"Ratnas Alphabet Learning Puzzle", "toys & games", "puzzles", 4.4, 200, 599},
		{"Marvel Titan Hero Spider-Man Figure", "toys & games", "action figures", 4.5, 300, 899},
		{"Transformers Cyberverse Optimus Prime", "toys & games", "action figures", 4.5, 400, 1299},
	}

	products := make([]*models.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, &models.Product{
			Name:         r.name,
			MainCategory: r.cat,
			SubCategory:  r.sub,
			Rating:       r.rating, HasRating: true,
			ReviewCount: r.reviews, HasReviews: true,
			Price: r.price, HasPrice: true,
			ActualPrice: r.price * 2, HasActualPrice: true,
		})
	}
	return products
}

func generateFixtureReport(t *testing.T, cfg *config.Config) *models.IntelligenceReport {
	t.Helper()
	calc := NewCalculator(cfg)
	svc := NewReportService(cfg, newTestLogger(), calc)
	return svc.Generate(calc.ScoreAll(sampleProducts()))
}

func TestReportCategoryAveragesAndRankOrder(t *testing.T) {
	r := generateFixtureReport(t, reportConfig())

	if len(r.Performance) != 3 {
		t.Fatalf("Performance rows: got %d, want 3", len(r.Performance))
	}

	want := []struct {
		category   string
		rank       int
		meanRating float64
		tier       string
	}{
		{"toys & games", 1, 4.5, "Strong Performer"},
		{"electronics", 2, 4.2, "Strong Performer"},
		{"home & kitchen", 3, 4.0, "Average Performer"},
	}

	for i, w := range want {
		row := r.Performance[i]
		if row.MainCategory != w.category {
			t.Errorf("row %d: category %q, want %q", i, row.MainCategory, w.category)
		}
		if row.QualityRank != w.rank {
			t.Errorf("%s: rank %d, want %d", w.category, row.QualityRank, w.rank)
		}
		if !almostEqual(row.Rating.Mean, w.meanRating) {
			t.Errorf("%s: mean rating %.4f, want %.4f", w.category, row.Rating.Mean, w.meanRating)
		}
		if row.Tier != w.tier {
			t.Errorf("%s: tier %q, want %q", w.category, row.Tier, w.tier)
		}
	}

	elec := r.Performance[1]
	if elec.Count != 10 {
		t.Errorf("electronics count: got %d, want 10", elec.Count)
	}
	if elec.TotalReviews != 18000 {
		t.Errorf("electronics reviews: got %d, want 18000", elec.TotalReviews)
	}
	if !almostEqual(elec.WeightedRating, 78650.0/18000.0) {
		t.Errorf("electronics weighted rating: got %.6f, want %.6f", elec.WeightedRating, 78650.0/18000.0)
	}
	if elec.Subcategories != 2 {
		t.Errorf("electronics subcategories: got %d, want 2", elec.Subcategories)
	}
}

func TestReportSatisfactionTiers(t *testing.T) {
	r := generateFixtureReport(t, reportConfig())

	if len(r.Satisfaction) != 3 {
		t.Fatalf("Satisfaction rows: got %d, want 3", len(r.Satisfaction))
	}
	if r.Satisfaction[0].MainCategory != "toys & games" {
		t.Errorf("highest weighted rating should sort first, got %q", r.Satisfaction[0].MainCategory)
	}

	tiers := make(map[string]string)
	for _, row := range r.Satisfaction {
		tiers[row.MainCategory] = row.Tier
	}
	if tiers["toys & games"] != "Highly Satisfied" {
		t.Errorf("toys tier: got %q, want Highly Satisfied", tiers["toys & games"])
	}
	if tiers["electronics"] != "Highly Satisfied" {
		t.Errorf("electronics tier: got %q, want Highly Satisfied", tiers["electronics"])
	}
	if tiers["home & kitchen"] != "Mixed" {
		t.Errorf("home tier: got %q, want Mixed", tiers["home & kitchen"])
	}
}

func TestReportBCGQuadrants(t *testing.T) {
	r := generateFixtureReport(t, reportConfig())

	if len(r.BCG) != 3 {
		t.Fatalf("BCG rows: got %d, want 3", len(r.BCG))
	}

	quadrants := make(map[string]string)
	for _, row := range r.BCG {
		quadrants[row.MainCategory] = row.Quadrant
	}
	if quadrants["electronics"] != "Star" {
		t.Errorf("electronics: got %q, want Star", quadrants["electronics"])
	}
	if quadrants["home & kitchen"] != "Cash Cow" {
		t.Errorf("home: got %q, want Cash Cow", quadrants["home & kitchen"])
	}
	if quadrants["toys & games"] != "Question Mark" {
		t.Errorf("toys: got %q, want Question Mark", quadrants["toys & games"])
	}

	if r.BCG[0].MainCategory != "electronics" {
		t.Errorf("Star should sort first, got %q", r.BCG[0].MainCategory)
	}
}

func TestReportPriceBands(t *testing.T) {
	r := generateFixtureReport(t, reportConfig())

	var elec []models.PriceBand
	for _, row := range r.PriceBands {
		if row.MainCategory == "electronics" {
			elec = append(elec, row)
		}
	}

	want := []struct {
		band  string
		count int
	}{
		{"500-1000", 3},
		{"1000-2000", 3},
		{"2000-5000", 3},
		{"Above 5000", 1},
	}
	if len(elec) != len(want) {
		t.Fatalf("electronics bands: got %d rows, want %d", len(elec), len(want))
	}
	for i, w := range want {
		if elec[i].Band != w.band || elec[i].Count != w.count {
			t.Errorf("band %d: got %s/%d, want %s/%d", i, elec[i].Band, elec[i].Count, w.band, w.count)
		}
	}
}

func TestReportMarketOpportunities(t *testing.T) {
	r := generateFixtureReport(t, reportConfig())

	if len(r.Opportunities) != 6 {
		t.Fatalf("Opportunities rows: got %d, want 6", len(r.Opportunities))
	}

	top := r.Opportunities[0]
	if top.MainCategory != "electronics" || top.SubCategory != "headphones" {
		t.Errorf("top opportunity: got %s/%s, want electronics/headphones", top.MainCategory, top.SubCategory)
	}
	if !almostEqual(top.OpportunityScore, 2500) {
		t.Errorf("top opportunity score: got %.2f, want 2500", top.OpportunityScore)
	}
	if !top.IsGap {
		t.Error("headphones should be flagged as a gap (low supply, high demand)")
	}

	for _, row := range r.Opportunities {
		if row.SubCategory == "puzzles" && row.IsGap {
			t.Error("puzzles demand (300) is under the gap threshold, must not be flagged")
		}
	}
}

func TestReportTopProductsRanking(t *testing.T) {
	r := generateFixtureReport(t, reportConfig())

	if len(r.TopProducts) != 10 {
		t.Fatalf("TopProducts rows: got %d, want 10", len(r.TopProducts))
	}

	first := r.TopProducts[0]
	if first.Name != "Sennheiser HD 250BT Over-Ear" {
		t.Errorf("top product: got %q", first.Name)
	}
	if !almostEqual(first.Composite, 18.08) {
		t.Errorf("top composite: got %.4f, want 18.08", first.Composite)
	}
	if first.Rank != 1 {
		t.Errorf("top product rank: got %d, want 1", first.Rank)
	}
	if first.PriceQuartile != 4 {
		t.Errorf("top product price quartile: got %d, want 4", first.PriceQuartile)
	}
	if first.PremiumLabel != "Premium Quality" {
		t.Errorf("top product label: got %q, want Premium Quality", first.PremiumLabel)
	}

	// The two 4.3-star, 2000-review products tie on composite 17.32 and
	// share rank 4 inside electronics; the next product ranks 6.
	ranks := make(map[string]int)
	for _, row := range r.TopProducts {
		ranks[row.Name] = row.Rank
	}
	if ranks["Sony WH-CH520 Wireless Headphone"] != 4 {
		t.Errorf("tied rank: got %d, want 4", ranks["Sony WH-CH520 Wireless Headphone"])
	}
	if ranks["Samsung 24in FHD Monitor"] != 4 {
		t.Errorf("tied rank: got %d, want 4", ranks["Samsung 24in FHD Monitor"])
	}
	if ranks["LG 22MP410 FHD Monitor"] != 6 {
		t.Errorf("rank after tie: got %d, want 6", ranks["LG 22MP410 FHD Monitor"])
	}

	// Best home product carries rank 1 within its own category even
	// though it sits mid-table globally.
	if ranks["Pigeon Favourite Pressure Cooker 3L"] != 1 {
		t.Errorf("per-category rank: got %d, want 1", ranks["Pigeon Favourite Pressure Cooker 3L"])
	}
}

func TestReportSuccessRates(t *testing.T) {
	r := generateFixtureReport(t, reportConfig())

	if len(r.Success) != 3 {
		t.Fatalf("Success rows: got %d, want 3", len(r.Success))
	}

	// Review threshold is p70 = 1650; success needs rating ≥ 4.0 too.
	want := []struct {
		category string
		rate     float64
	}{
		{"electronics", 50.0},
		{"home & kitchen", 100.0 / 6.0},
		{"toys & games", 0.0},
	}
	for i, w := range want {
		row := r.Success[i]
		if row.MainCategory != w.category {
			t.Errorf("row %d: got %q, want %q", i, row.MainCategory, w.category)
		}
		if !almostEqual(row.SuccessRate, w.rate) {
			t.Errorf("%s: rate %.4f, want %.4f", w.category, row.SuccessRate, w.rate)
		}
	}
}

func TestReportCandidates(t *testing.T) {
	r := generateFixtureReport(t, reportConfig())

	if len(r.Improvement) != 4 {
		t.Fatalf("Improvement rows: got %d, want 4", len(r.Improvement))
	}
	if r.Improvement[0].Name != "SAF Flower Set of 3 Wall Paintings" {
		t.Errorf("highest-volume improvement candidate: got %q", r.Improvement[0].Name)
	}

	if len(r.Underpriced) != 2 {
		t.Fatalf("Underpriced rows: got %d, want 2", len(r.Underpriced))
	}
	if r.Underpriced[0].Name != "boAt Rockerz 450 Bluetooth Headphone" {
		t.Errorf("deepest underpricing: got %q", r.Underpriced[0].Name)
	}
	if r.Underpriced[1].Name != "Frank Jungle Safari 60pc Puzzle" {
		t.Errorf("second underpriced: got %q", r.Underpriced[1].Name)
	}
	if r.Underpriced[0].PriceVsAvgPct >= -20 {
		t.Errorf("underpriced pct should be at most -20, got %.2f", r.Underpriced[0].PriceVsAvgPct)
	}
}

func TestReportExecutiveSummary(t *testing.T) {
	r := generateFixtureReport(t, reportConfig())
	sum := r.Summary

	if sum.TotalProducts != 20 {
		t.Errorf("TotalProducts: got %d, want 20", sum.TotalProducts)
	}
	if sum.TotalCategories != 3 {
		t.Errorf("TotalCategories: got %d, want 3", sum.TotalCategories)
	}
	if sum.TotalReviews != 27000 {
		t.Errorf("TotalReviews: got %d, want 27000", sum.TotalReviews)
	}
	if !almostEqual(sum.AvgRating, 4.2) {
		t.Errorf("AvgRating: got %.4f, want 4.2", sum.AvgRating)
	}
	if !almostEqual(sum.AvgPrice, 1519) {
		t.Errorf("AvgPrice: got %.4f, want 1519", sum.AvgPrice)
	}
	if sum.RatedFourPlus != 16 {
		t.Errorf("RatedFourPlus: got %d, want 16", sum.RatedFourPlus)
	}
	if sum.PremiumPriced != 6 {
		t.Errorf("PremiumPriced: got %d, want 6", sum.PremiumPriced)
	}
	if sum.HighPotential != 3 {
		t.Errorf("HighPotential: got %d, want 3", sum.HighPotential)
	}

	if len(sum.TopCategories) != 3 {
		t.Fatalf("TopCategories: got %d, want 3", len(sum.TopCategories))
	}
	if sum.TopCategories[0].MainCategory != "toys & games" {
		t.Errorf("best category by quality: got %q, want toys & games", sum.TopCategories[0].MainCategory)
	}
}

func TestReportMinGroupSizeFiltering(t *testing.T) {
	// Nine products in one category under a ≥10 cutoff must not appear
	// in the classified output at all.
	cfg := reportConfig()
	cfg.PerfMinGroup = 10
	cfg.SatisfactionMinGroup = 10
	cfg.BCGMinGroup = 10

	var products []*models.Product
	for _, p := range sampleProducts() {
		if p.MainCategory == "electronics" && p.Name != "Frontech 19in HD Monitor" {
			products = append(products, p)
		}
	}
	if len(products) != 9 {
		t.Fatalf("fixture slice: got %d products, want 9", len(products))
	}

	calc := NewCalculator(cfg)
	svc := NewReportService(cfg, newTestLogger(), calc)
	r := svc.Generate(calc.ScoreAll(products))

	if len(r.Performance) != 0 {
		t.Errorf("Performance should be empty, got %d rows", len(r.Performance))
	}
	if len(r.Satisfaction) != 0 {
		t.Errorf("Satisfaction should be empty, got %d rows", len(r.Satisfaction))
	}
	if len(r.BCG) != 0 {
		t.Errorf("BCG should be empty, got %d rows", len(r.BCG))
	}
}

func TestReportEmptyInput(t *testing.T) {
	cfg := reportConfig()
	calc := NewCalculator(cfg)
	svc := NewReportService(cfg, newTestLogger(), calc)

	r := svc.Generate(nil)
	if r.Summary.TotalProducts != 0 || len(r.Performance) != 0 || len(r.TopProducts) != 0 {
		t.Error("empty input should produce an empty report")
	}
}
