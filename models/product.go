package models

import "time"

// RawProduct holds one unprocessed row from the product listings dataset.
// All numeric-looking fields arrive as locale-formatted text ("₹1,099",
// "4.1", "2,255") and may be empty or malformed.
type RawProduct struct {
	Name          string
	MainCategory  string
	SubCategory   string
	Image         string
	Link          string
	Ratings       string
	NoOfRatings   string
	DiscountPrice string
	ActualPrice   string
	SourceFile    string
	LoadedAt      time.Time
}

// Product is the normalized record every analysis works on. Each numeric
// field carries its own validity flag: a product whose price failed to parse
// still takes part in rating analyses, and vice versa. Nothing about
// validity is persisted beyond these flags — inclusion is decided per query.
type Product struct {
	ID           int64
	Name         string
	MainCategory string
	SubCategory  string

	Rating         float64
	HasRating      bool
	ReviewCount    int
	HasReviews     bool
	Price          float64 // discounted selling price
	HasPrice       bool
	ActualPrice    float64 // list price before discount
	HasActualPrice bool

	Image     string
	Link      string
	CreatedAt time.Time
}

// ScoredProduct pairs a product with its derived per-row metrics. A Has*
// flag is false when the metric is undefined for the row (missing inputs,
// zero price, actual price not above selling price) — undefined metrics
// exclude the row from the analyses that need them.
type ScoredProduct struct {
	Product *Product

	DiscountPercent    float64
	HasDiscountPercent bool
	Composite          float64
	HasComposite       bool
	ValueRatio         float64
	HasValueRatio      bool
	Quality            float64
	HasQuality         bool
	ValueScore         float64 // quality score per thousand units of price
	HasValueScore      bool
	ReviewDensity      float64
	HasReviewDensity   bool
	PricePerRating     float64
	HasPricePerRating  bool

	RatingLabel   string // Excellent / Good / Average / Poor
	PriceQuartile int    // 1..4 across all priced products, 0 when unpriced
}
