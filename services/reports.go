package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"product-intelligence/config"
	"product-intelligence/models"
	"product-intelligence/utils"
)

// ReportService assembles the full report suite from scored products.
// Every threshold it applies is a named configuration value; reports
// with overlapping concerns deliberately keep their own cutoffs.
type ReportService struct {
	cfg    *config.Config
	logger *utils.Logger
	calc   *Calculator
}

// NewReportService creates a ReportService.
func NewReportService(cfg *config.Config, logger *utils.Logger, calc *Calculator) *ReportService {
	return &ReportService{cfg: cfg, logger: logger, calc: calc}
}

// Generate runs every report over the scored products and bundles the
// resulting tables.
func (s *ReportService) Generate(scored []*models.ScoredProduct) *models.IntelligenceReport {
	report := &models.IntelligenceReport{}
	if len(scored) == 0 {
		return report
	}

	byCategory := make(map[string][]*models.ScoredProduct)
	for _, sp := range scored {
		byCategory[sp.Product.MainCategory] = append(byCategory[sp.Product.MainCategory], sp)
	}
	categories := sortedKeys(byCategory)

	stats := make(map[string]models.CategoryStats, len(categories))
	for _, cat := range categories {
		stats[cat] = s.categoryStats(cat, "", byCategory[cat])
	}

	report.Performance = s.performance(categories, stats)
	report.Satisfaction = s.satisfaction(categories, stats)
	report.BCG = s.bcg(categories, stats)
	report.PriceBands = s.priceBands(categories, byCategory)
	report.Opportunities = s.opportunities(scored)
	report.TopProducts = s.topProducts(byCategory)
	report.Success = s.success(categories, byCategory)
	report.Improvement, report.Underpriced = s.candidates(categories, byCategory)
	report.Summary = s.summary(scored, stats)

	s.logger.Info("[reports] Generated report suite over %d products in %d categories",
		len(scored), len(categories))
	return report
}

// categoryStats computes the aggregate view of one group. Each statistic
// draws only on the rows whose fields are valid for it.
func (s *ReportService) categoryStats(main, sub string, group []*models.ScoredProduct) models.CategoryStats {
	cs := models.CategoryStats{MainCategory: main, SubCategory: sub, Count: len(group)}

	var prices, ratings, qualities []float64
	var wValues, wWeights []float64
	subs := make(map[string]struct{})

	for _, sp := range group {
		p := sp.Product
		if p.HasPrice {
			prices = append(prices, p.Price)
		}
		if p.HasRating {
			ratings = append(ratings, p.Rating)
		}
		if p.HasReviews {
			cs.TotalReviews += int64(p.ReviewCount)
		}
		if p.HasRating && p.HasReviews {
			wValues = append(wValues, p.Rating)
			wWeights = append(wWeights, float64(p.ReviewCount))
		}
		if sp.HasQuality {
			qualities = append(qualities, sp.Quality)
		}
		if p.SubCategory != "" {
			subs[p.SubCategory] = struct{}{}
		}
	}

	if st, err := Summarize(prices); err == nil {
		cs.Price = st
	}
	if st, err := Summarize(ratings); err == nil {
		cs.Rating = st
	}
	if wr, err := WeightedMean(wValues, wWeights); err == nil {
		cs.WeightedRating = wr
	} else if m, err := Mean(ratings); err == nil {
		// No review counts anywhere in the group; unweighted is the
		// best remaining signal.
		cs.WeightedRating = m
	}
	if m, err := Mean(qualities); err == nil {
		cs.AvgQuality = m
	}
	cs.Subcategories = len(subs)
	return cs
}

// tierRules is the ordered market-position chain over a category
// aggregate.
func (s *ReportService) tierRules() []Rule[models.CategoryStats] {
	return []Rule[models.CategoryStats]{
		{Label: "Market Leader", Matches: func(cs models.CategoryStats) bool {
			return cs.WeightedRating >= s.cfg.PerfLeaderRating && cs.Count >= s.cfg.PerfLeaderCount
		}},
		{Label: "Strong Performer", Matches: func(cs models.CategoryStats) bool {
			return cs.WeightedRating >= s.cfg.PerfStrongRating
		}},
		{Label: "Average Performer", Matches: func(cs models.CategoryStats) bool {
			return cs.WeightedRating >= s.cfg.PerfAverageRating
		}},
		{Label: "Underperformer"},
	}
}

func (s *ReportService) performance(categories []string, stats map[string]models.CategoryStats) []models.CategoryPerformance {
	var rows []models.CategoryPerformance
	for _, cat := range categories {
		cs := stats[cat]
		if cs.Count < s.cfg.PerfMinGroup {
			s.logger.Debug("[reports] Performance: dropping %s (%d products): %v",
				cat, cs.Count, ErrInsufficientGroup)
			continue
		}
		tier, _ := FirstMatch(s.tierRules(), cs)
		rows = append(rows, models.CategoryPerformance{CategoryStats: cs, Tier: tier})
	}

	qualities := make([]float64, len(rows))
	for i, r := range rows {
		qualities[i] = r.AvgQuality
	}
	for i, rank := range RankDesc(qualities) {
		rows[i].QualityRank = rank
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].QualityRank < rows[b].QualityRank })
	return rows
}

// satisfactionRules is the ordered tier chain over a weighted rating.
func (s *ReportService) satisfactionRules() []Rule[float64] {
	return []Rule[float64]{
		{Label: "Highly Satisfied", Matches: func(wr float64) bool { return wr >= s.cfg.SatisfactionHighMin }},
		{Label: "Satisfied", Matches: func(wr float64) bool { return wr >= s.cfg.SatisfactionMidMin }},
		{Label: "Mixed", Matches: func(wr float64) bool { return wr >= s.cfg.SatisfactionLowMin }},
		{Label: "At Risk"},
	}
}

func (s *ReportService) satisfaction(categories []string, stats map[string]models.CategoryStats) []models.SatisfactionTier {
	var rows []models.SatisfactionTier
	for _, cat := range categories {
		cs := stats[cat]
		if cs.Count < s.cfg.SatisfactionMinGroup {
			s.logger.Debug("[reports] Satisfaction: dropping %s (%d products): %v",
				cat, cs.Count, ErrInsufficientGroup)
			continue
		}
		tier, _ := FirstMatch(s.satisfactionRules(), cs.WeightedRating)
		rows = append(rows, models.SatisfactionTier{
			MainCategory:   cat,
			Count:          cs.Count,
			WeightedRating: cs.WeightedRating,
			Tier:           tier,
		})
	}
	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].WeightedRating != rows[b].WeightedRating {
			return rows[a].WeightedRating > rows[b].WeightedRating
		}
		return rows[a].MainCategory < rows[b].MainCategory
	})
	return rows
}

type bcgSignal struct {
	rating  float64
	reviews float64
}

// bcgRules maps a category's satisfaction proxy (weighted rating) and
// revenue proxy (total reviews vs the median across categories) to a
// portfolio quadrant. Order carries the logic: a category reaching
// neither Star nor Cash Cow but rated above the threshold is a
// Question Mark.
func (s *ReportService) bcgRules(medianReviews float64) []Rule[bcgSignal] {
	threshold := s.cfg.BCGRatingThreshold
	return []Rule[bcgSignal]{
		{Label: "Star", Matches: func(b bcgSignal) bool {
			return b.rating >= threshold && b.reviews >= medianReviews
		}},
		{Label: "Cash Cow", Matches: func(b bcgSignal) bool {
			return b.reviews >= medianReviews
		}},
		{Label: "Question Mark", Matches: func(b bcgSignal) bool {
			return b.rating >= threshold
		}},
		{Label: "Dog"},
	}
}

func (s *ReportService) bcg(categories []string, stats map[string]models.CategoryStats) []models.BCGQuadrant {
	var rows []models.BCGQuadrant
	var revenues []float64
	for _, cat := range categories {
		cs := stats[cat]
		if cs.Count < s.cfg.BCGMinGroup {
			s.logger.Debug("[reports] BCG: dropping %s (%d products): %v",
				cat, cs.Count, ErrInsufficientGroup)
			continue
		}
		rows = append(rows, models.BCGQuadrant{
			MainCategory:   cat,
			Count:          cs.Count,
			WeightedRating: cs.WeightedRating,
			TotalReviews:   cs.TotalReviews,
		})
		revenues = append(revenues, float64(cs.TotalReviews))
	}
	if len(rows) == 0 {
		return rows
	}

	medianReviews, _ := Median(revenues)
	rules := s.bcgRules(medianReviews)
	for i := range rows {
		label, _ := FirstMatch(rules, bcgSignal{
			rating:  rows[i].WeightedRating,
			reviews: float64(rows[i].TotalReviews),
		})
		rows[i].Quadrant = label
	}

	order := map[string]int{"Star": 0, "Cash Cow": 1, "Question Mark": 2, "Dog": 3}
	sort.SliceStable(rows, func(a, b int) bool {
		if order[rows[a].Quadrant] != order[rows[b].Quadrant] {
			return order[rows[a].Quadrant] < order[rows[b].Quadrant]
		}
		return rows[a].TotalReviews > rows[b].TotalReviews
	})
	return rows
}

// bandLabels renders the configured price band edges into row labels,
// "Under 500" through "Above 5000".
func (s *ReportService) bandLabels() []string {
	edges := s.cfg.PriceBandEdges
	labels := make([]string, 0, len(edges)+1)
	labels = append(labels, "Under "+formatEdge(edges[0]))
	for i := 1; i < len(edges); i++ {
		labels = append(labels, formatEdge(edges[i-1])+"-"+formatEdge(edges[i]))
	}
	labels = append(labels, "Above "+formatEdge(edges[len(edges)-1]))
	return labels
}

func (s *ReportService) bandRules(labels []string) []Rule[float64] {
	edges := s.cfg.PriceBandEdges
	rules := make([]Rule[float64], 0, len(labels))
	for i, edge := range edges {
		edge := edge
		rules = append(rules, Rule[float64]{
			Label:   labels[i],
			Matches: func(price float64) bool { return price < edge },
		})
	}
	rules = append(rules, Rule[float64]{Label: labels[len(labels)-1]})
	return rules
}

func formatEdge(edge float64) string {
	return strconv.FormatFloat(edge, 'f', -1, 64)
}

func (s *ReportService) priceBands(categories []string, byCategory map[string][]*models.ScoredProduct) []models.PriceBand {
	labels := s.bandLabels()
	rules := s.bandRules(labels)

	type cell struct {
		count   int
		ratings []float64
		reviews []float64
	}

	var rows []models.PriceBand
	for _, cat := range categories {
		cells := make(map[string]*cell)
		for _, sp := range byCategory[cat] {
			p := sp.Product
			if !p.HasPrice {
				continue
			}
			label, err := FirstMatch(rules, p.Price)
			if err != nil {
				continue
			}
			c := cells[label]
			if c == nil {
				c = &cell{}
				cells[label] = c
			}
			c.count++
			if p.HasRating {
				c.ratings = append(c.ratings, p.Rating)
			}
			if p.HasReviews {
				c.reviews = append(c.reviews, float64(p.ReviewCount))
			}
		}

		for _, label := range labels {
			c := cells[label]
			if c == nil {
				continue
			}
			row := models.PriceBand{MainCategory: cat, Band: label, Count: c.count}
			if m, err := Mean(c.ratings); err == nil {
				row.AvgRating = m
			}
			if m, err := Mean(c.reviews); err == nil {
				row.AvgReviews = m
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func (s *ReportService) opportunities(scored []*models.ScoredProduct) []models.MarketOpportunity {
	type key struct{ main, sub string }
	groups := make(map[key][]*models.ScoredProduct)
	for _, sp := range scored {
		if sp.Product.SubCategory == "" {
			continue
		}
		k := key{sp.Product.MainCategory, sp.Product.SubCategory}
		groups[k] = append(groups[k], sp)
	}

	var rows []models.MarketOpportunity
	for k, group := range groups {
		row := models.MarketOpportunity{MainCategory: k.main, SubCategory: k.sub, Count: len(group)}
		var ratings []float64
		for _, sp := range group {
			if sp.Product.HasRating {
				ratings = append(ratings, sp.Product.Rating)
			}
			if sp.Product.HasReviews {
				row.DemandSignal += int64(sp.Product.ReviewCount)
			}
		}
		if m, err := Mean(ratings); err == nil {
			row.AvgRating = m
		}
		row.OpportunityScore = float64(row.DemandSignal) / float64(row.Count)
		row.IsGap = row.Count < s.cfg.GapMaxProducts && row.DemandSignal > s.cfg.GapMinDemand
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].OpportunityScore != rows[b].OpportunityScore {
			return rows[a].OpportunityScore > rows[b].OpportunityScore
		}
		if rows[a].MainCategory != rows[b].MainCategory {
			return rows[a].MainCategory < rows[b].MainCategory
		}
		return rows[a].SubCategory < rows[b].SubCategory
	})
	if len(rows) > s.cfg.OpportunityLimit {
		rows = rows[:s.cfg.OpportunityLimit]
	}
	return rows
}

func (s *ReportService) topProducts(byCategory map[string][]*models.ScoredProduct) []models.RankedProduct {
	premium := s.calc.PremiumRules()

	var rows []models.RankedProduct
	for cat, group := range byCategory {
		var ranked []*models.ScoredProduct
		for _, sp := range group {
			if sp.HasComposite {
				ranked = append(ranked, sp)
			}
		}
		if len(ranked) == 0 {
			continue
		}

		composites := make([]float64, len(ranked))
		for i, sp := range ranked {
			composites[i] = sp.Composite
		}
		for i, rank := range RankDesc(composites) {
			sp := ranked[i]
			label, _ := FirstMatch(premium, sp.Product)
			rows = append(rows, models.RankedProduct{
				Name:          sp.Product.Name,
				MainCategory:  cat,
				Composite:     sp.Composite,
				Rank:          rank,
				PriceQuartile: sp.PriceQuartile,
				PremiumLabel:  label,
			})
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].Composite != rows[b].Composite {
			return rows[a].Composite > rows[b].Composite
		}
		return rows[a].Name < rows[b].Name
	})
	if len(rows) > s.cfg.TopProductsLimit {
		rows = rows[:s.cfg.TopProductsLimit]
	}
	return rows
}

func (s *ReportService) success(categories []string, byCategory map[string][]*models.ScoredProduct) []models.CategorySuccess {
	var allReviews []float64
	for _, cat := range categories {
		for _, sp := range byCategory[cat] {
			if sp.Product.HasReviews {
				allReviews = append(allReviews, float64(sp.Product.ReviewCount))
			}
		}
	}
	threshold, err := Percentile(allReviews, s.cfg.SuccessReviewsPct)
	if err != nil {
		s.logger.Warn("[reports] Success: no usable review counts: %v", err)
		return nil
	}

	var rows []models.CategorySuccess
	for _, cat := range categories {
		var assessable, successful int
		for _, sp := range byCategory[cat] {
			p := sp.Product
			if !p.HasRating || !p.HasReviews {
				continue
			}
			assessable++
			if p.Rating >= s.cfg.SuccessRatingMin && float64(p.ReviewCount) >= threshold {
				successful++
			}
		}
		if assessable == 0 {
			continue
		}
		rows = append(rows, models.CategorySuccess{
			MainCategory: cat,
			Count:        assessable,
			Successful:   successful,
			SuccessRate:  float64(successful) / float64(assessable) * 100,
		})
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].SuccessRate != rows[b].SuccessRate {
			return rows[a].SuccessRate > rows[b].SuccessRate
		}
		return rows[a].MainCategory < rows[b].MainCategory
	})
	return rows
}

func (s *ReportService) candidates(categories []string, byCategory map[string][]*models.ScoredProduct) (improvement, underpriced []models.ProductCandidate) {
	for _, cat := range categories {
		group := byCategory[cat]

		var prices []float64
		for _, sp := range group {
			if sp.Product.HasPrice {
				prices = append(prices, sp.Product.Price)
			}
		}
		avgPrice, avgErr := Mean(prices)

		for _, sp := range group {
			p := sp.Product
			cand := models.ProductCandidate{
				Name:         p.Name,
				MainCategory: cat,
				Rating:       p.Rating,
				ReviewCount:  p.ReviewCount,
				Price:        p.Price,
			}
			hasVsAvg := false
			if p.HasPrice && avgErr == nil && avgPrice > 0 {
				cand.PriceVsAvgPct = (p.Price - avgPrice) / avgPrice * 100
				hasVsAvg = true
			}

			if p.HasRating && p.HasReviews &&
				p.Rating < s.cfg.ImproveRatingMax && p.ReviewCount > s.cfg.ImproveReviewsMin {
				improvement = append(improvement, cand)
			}
			if p.HasRating && hasVsAvg &&
				p.Rating >= s.cfg.UnderpricedRatingMin && cand.PriceVsAvgPct <= s.cfg.UnderpricedPriceVsAvg {
				underpriced = append(underpriced, cand)
			}
		}
	}

	sort.SliceStable(improvement, func(a, b int) bool {
		if improvement[a].ReviewCount != improvement[b].ReviewCount {
			return improvement[a].ReviewCount > improvement[b].ReviewCount
		}
		return improvement[a].Name < improvement[b].Name
	})
	sort.SliceStable(underpriced, func(a, b int) bool {
		if underpriced[a].PriceVsAvgPct != underpriced[b].PriceVsAvgPct {
			return underpriced[a].PriceVsAvgPct < underpriced[b].PriceVsAvgPct
		}
		return underpriced[a].Name < underpriced[b].Name
	})
	return improvement, underpriced
}

func (s *ReportService) summary(scored []*models.ScoredProduct, stats map[string]models.CategoryStats) models.ExecutiveSummary {
	sum := models.ExecutiveSummary{TotalProducts: len(scored), TotalCategories: len(stats)}

	var ratings, prices []float64
	for _, sp := range scored {
		p := sp.Product
		if p.HasRating {
			ratings = append(ratings, p.Rating)
			if p.Rating >= s.cfg.RatingGoodMin {
				sum.RatedFourPlus++
			}
		}
		if p.HasPrice {
			prices = append(prices, p.Price)
			if p.Price >= s.cfg.PremiumPriceMin {
				sum.PremiumPriced++
			}
		}
		if p.HasReviews {
			sum.TotalReviews += int64(p.ReviewCount)
		}
	}
	if m, err := Mean(ratings); err == nil {
		sum.AvgRating = m
	}
	if m, err := Mean(prices); err == nil {
		sum.AvgPrice = m
	}

	medianPrice, medianErr := Median(prices)
	if medianErr == nil {
		for _, sp := range scored {
			p := sp.Product
			if p.HasRating && p.Rating >= s.cfg.RatingExcellentMin &&
				p.HasPrice && p.Price <= medianPrice {
				sum.HighPotential++
			}
		}
	}

	var quals []models.CategoryQuality
	for cat, cs := range stats {
		if cs.Count < s.cfg.ExecTopMinGroup {
			continue
		}
		quals = append(quals, models.CategoryQuality{
			MainCategory: cat,
			AvgQuality:   cs.AvgQuality,
			Count:        cs.Count,
		})
	}
	sort.SliceStable(quals, func(a, b int) bool {
		if quals[a].AvgQuality != quals[b].AvgQuality {
			return quals[a].AvgQuality > quals[b].AvgQuality
		}
		return quals[a].MainCategory < quals[b].MainCategory
	})
	if len(quals) > 5 {
		quals = quals[:5]
	}
	sum.TopCategories = quals
	return sum
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Print renders the report suite to the console.
func (s *ReportService) Print(r *models.IntelligenceReport) {
	sep := strings.Repeat("═", 66)
	thin := strings.Repeat("─", 66)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📦 PRODUCT INTELLIGENCE REPORT\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Executive summary
	fmt.Printf("\033[1;33m  Executive Summary\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Products analyzed      : \033[1m%d\033[0m across \033[1m%d\033[0m categories\n",
		r.Summary.TotalProducts, r.Summary.TotalCategories)
	fmt.Printf("  Average rating         : \033[1;32m%.2f ★\033[0m\n", r.Summary.AvgRating)
	fmt.Printf("  Average price          : \033[1;32m%s%.2f\033[0m\n", s.cfg.CurrencySymbol, r.Summary.AvgPrice)
	fmt.Printf("  Total reviews          : \033[1m%d\033[0m\n", r.Summary.TotalReviews)
	fmt.Printf("  Rated %.1f+             : \033[1m%d\033[0m products\n", s.cfg.RatingGoodMin, r.Summary.RatedFourPlus)
	fmt.Printf("  Premium priced         : \033[1m%d\033[0m products\n", r.Summary.PremiumPriced)
	fmt.Printf("  High potential         : \033[1m%d\033[0m products (top rated at or under median price)\n",
		r.Summary.HighPotential)
	if len(r.Summary.TopCategories) > 0 {
		fmt.Printf("\n  Top categories by quality score:\n")
		for i, tc := range r.Summary.TopCategories {
			fmt.Printf("  \033[1m%d.\033[0m %-36s %.3f (%d products)\n",
				i+1, truncate(tc.MainCategory, 34), tc.AvgQuality, tc.Count)
		}
	}
	fmt.Println()

	// Category performance
	fmt.Printf("\033[1;33m  Category Performance\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.Performance) == 0 {
		fmt.Printf("  No category met the minimum group size\n")
	}
	for _, row := range capRows(r.Performance, 10) {
		fmt.Printf("  #%-2d %-32s %-17s %.2f ★  %s%.0f median\n",
			row.QualityRank, truncate(row.MainCategory, 30), row.Tier,
			row.WeightedRating, s.cfg.CurrencySymbol, row.Price.Median)
	}
	fmt.Println()

	// Satisfaction tiers
	fmt.Printf("\033[1;33m  Customer Satisfaction\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, row := range r.Satisfaction {
		bar := strings.Repeat("█", int(row.WeightedRating*4))
		fmt.Printf("  %-32s %-17s %s %.2f\n",
			truncate(row.MainCategory, 30), row.Tier, bar, row.WeightedRating)
	}
	fmt.Println()

	// BCG portfolio
	fmt.Printf("\033[1;33m  Portfolio Quadrants\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, row := range r.BCG {
		fmt.Printf("  %-14s %-32s %.2f ★  %d reviews\n",
			row.Quadrant, truncate(row.MainCategory, 30), row.WeightedRating, row.TotalReviews)
	}
	fmt.Println()

	// Market opportunities
	fmt.Printf("\033[1;33m  Market Opportunities\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, row := range r.Opportunities {
		marker := "  "
		if row.IsGap {
			marker = "\033[1;31m▲\033[0m "
		}
		fmt.Printf("  %s%-44s %6.0f reviews/product (%d products)\n",
			marker, truncate(row.MainCategory+" / "+row.SubCategory, 42),
			row.OpportunityScore, row.Count)
	}
	fmt.Println()

	// Top products
	fmt.Printf("\033[1;33m  Top Products by Composite Score\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopProducts) == 0 {
		fmt.Printf("  No products with a complete score\n")
	}
	for i, row := range r.TopProducts {
		fmt.Printf("  \033[1m%2d.\033[0m %-40s %6.2f  Q%d  %s\n",
			i+1, truncate(row.Name, 38), row.Composite, row.PriceQuartile, row.PremiumLabel)
	}
	fmt.Println()

	// Success rates
	fmt.Printf("\033[1;33m  Success Rates (high rating, high review volume)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, row := range capRows(r.Success, 10) {
		fmt.Printf("  %-32s %5.1f%%  (%d of %d)\n",
			truncate(row.MainCategory, 30), row.SuccessRate, row.Successful, row.Count)
	}
	fmt.Println()

	// Action lists
	fmt.Printf("\033[1;33m  Action Items\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Improvement candidates : \033[1m%d\033[0m high-volume products under %.1f ★\n",
		len(r.Improvement), s.cfg.ImproveRatingMax)
	for _, row := range capRows(r.Improvement, 5) {
		fmt.Printf("    • %-42s %.1f ★, %d reviews\n", truncate(row.Name, 40), row.Rating, row.ReviewCount)
	}
	fmt.Printf("  Underpriced quality    : \033[1m%d\033[0m products %.0f%%+ below category average\n",
		len(r.Underpriced), -s.cfg.UnderpricedPriceVsAvg)
	for _, row := range capRows(r.Underpriced, 5) {
		fmt.Printf("    • %-42s %.1f ★, %+.1f%% vs avg\n", truncate(row.Name, 40), row.Rating, row.PriceVsAvgPct)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

// capRows limits a table to its first n rows for console rendering.
func capRows[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
