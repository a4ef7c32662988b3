package models

// SummaryStats holds the descriptive statistics for one numeric column of a
// group. StdDev is the sample standard deviation (0 for groups of one).
type SummaryStats struct {
	Count  int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// CategoryStats is the aggregate view of one category group (optionally
// keyed by sub-category as well).
type CategoryStats struct {
	MainCategory string
	SubCategory  string
	Count        int

	Price  SummaryStats
	Rating SummaryStats

	TotalReviews   int64
	WeightedRating float64 // review-count weighted mean rating
	AvgQuality     float64
	Subcategories  int // distinct sub-categories inside the group
}

// CategoryPerformance is a category group plus its market-position tier and
// its quality rank across all qualifying categories.
type CategoryPerformance struct {
	CategoryStats
	Tier        string
	QualityRank int
}

type SatisfactionTier struct {
	MainCategory   string
	Count          int
	WeightedRating float64
	Tier           string
}

type BCGQuadrant struct {
	MainCategory   string
	Count          int
	WeightedRating float64
	TotalReviews   int64
	Quadrant       string
}

type PriceBand struct {
	MainCategory string
	Band         string
	Count        int
	AvgRating    float64
	AvgReviews   float64
}

type MarketOpportunity struct {
	MainCategory     string
	SubCategory      string
	Count            int
	AvgRating        float64
	DemandSignal     int64 // total review count, a demand proxy
	OpportunityScore float64
	IsGap            bool // low supply, high demand
}

type RankedProduct struct {
	Name          string
	MainCategory  string
	Composite     float64
	Rank          int // within category, SQL RANK() semantics
	PriceQuartile int
	PremiumLabel  string
}

type CategorySuccess struct {
	MainCategory string
	Count        int
	Successful   int
	SuccessRate  float64 // percent
}

// ProductCandidate is a single product surfaced by an opportunity screen
// (improvement targets, underpriced quality products).
type ProductCandidate struct {
	Name          string
	MainCategory  string
	Rating        float64
	ReviewCount   int
	Price         float64
	PriceVsAvgPct float64 // price vs category mean, percent
}

type CategoryQuality struct {
	MainCategory string
	AvgQuality   float64
	Count        int
}

type ExecutiveSummary struct {
	TotalProducts   int
	TotalCategories int
	AvgRating       float64
	AvgPrice        float64
	TotalReviews    int64
	TopCategories   []CategoryQuality
	HighPotential   int // high rating at or under the overall median price
	RatedFourPlus   int
	PremiumPriced   int
}

// IntelligenceReport bundles every report table produced by one run.
type IntelligenceReport struct {
	Performance   []CategoryPerformance
	Satisfaction  []SatisfactionTier
	BCG           []BCGQuadrant
	PriceBands    []PriceBand
	Opportunities []MarketOpportunity
	TopProducts   []RankedProduct
	Success       []CategorySuccess
	Improvement   []ProductCandidate
	Underpriced   []ProductCandidate
	Summary       ExecutiveSummary
}
