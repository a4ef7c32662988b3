package services

import (
	"fmt"
	"math"

	"product-intelligence/config"
	"product-intelligence/models"
)

// Calculator computes per-product derived metrics. All weights,
// divisors and label thresholds are policy values supplied through
// configuration.
type Calculator struct {
	cfg *config.Config
}

// NewCalculator creates a Calculator with the given config.
func NewCalculator(cfg *config.Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// DiscountPercent returns the discount depth in percent. It is defined
// only when both prices parsed and the list price exceeds the selling
// price; anything else is a data-entry artifact and excluded.
func (c *Calculator) DiscountPercent(p *models.Product) (float64, error) {
	if !p.HasPrice || !p.HasActualPrice {
		return 0, fmt.Errorf("scores: discount for %q needs both prices: %w", p.Name, ErrUndefinedOperation)
	}
	if p.ActualPrice <= p.Price {
		return 0, fmt.Errorf("scores: discount undefined for %q (list %.2f not above price %.2f): %w",
			p.Name, p.ActualPrice, p.Price, ErrUndefinedOperation)
	}
	return (p.ActualPrice - p.Price) / p.ActualPrice * 100, nil
}

// Composite blends rating, review volume and discount depth into one
// rankable score. All three components must be defined.
func (c *Calculator) Composite(p *models.Product) (float64, error) {
	if !p.HasRating || !p.HasReviews {
		return 0, fmt.Errorf("scores: composite for %q needs rating and reviews: %w", p.Name, ErrUndefinedOperation)
	}
	discount, err := c.DiscountPercent(p)
	if err != nil {
		return 0, err
	}
	return p.Rating*c.cfg.CompositeRatingWeight +
		float64(p.ReviewCount)/c.cfg.ReviewDivisor*c.cfg.CompositeReviewWeight +
		discount*c.cfg.CompositeDiscountWeight, nil
}

// ValueRatio relates rating to price in thousands, a proxy for
// price-adjusted quality. Undefined at zero price.
func (c *Calculator) ValueRatio(p *models.Product) (float64, error) {
	if !p.HasRating || !p.HasPrice {
		return 0, fmt.Errorf("scores: value ratio for %q needs rating and price: %w", p.Name, ErrUndefinedOperation)
	}
	if p.Price == 0 {
		return 0, fmt.Errorf("scores: value ratio undefined at zero price for %q: %w", p.Name, ErrUndefinedOperation)
	}
	return p.Rating / (p.Price / 1000), nil
}

// Quality blends rating with log-damped review volume.
func (c *Calculator) Quality(p *models.Product) (float64, error) {
	if !p.HasRating || !p.HasReviews {
		return 0, fmt.Errorf("scores: quality for %q needs rating and reviews: %w", p.Name, ErrUndefinedOperation)
	}
	return p.Rating*c.cfg.QualityRatingWeight +
		math.Log1p(float64(p.ReviewCount))/10*c.cfg.QualityReviewWeight, nil
}

// ValueScore is the quality score per thousand units of price.
func (c *Calculator) ValueScore(p *models.Product) (float64, error) {
	quality, err := c.Quality(p)
	if err != nil {
		return 0, err
	}
	if !p.HasPrice {
		return 0, fmt.Errorf("scores: value score for %q needs a price: %w", p.Name, ErrUndefinedOperation)
	}
	if p.Price == 0 {
		return 0, fmt.Errorf("scores: value score undefined at zero price for %q: %w", p.Name, ErrUndefinedOperation)
	}
	return quality / (p.Price / 1000), nil
}

// ReviewDensity measures engagement, log-damped review volume scaled by
// the rating.
func (c *Calculator) ReviewDensity(p *models.Product) (float64, error) {
	if !p.HasRating || !p.HasReviews {
		return 0, fmt.Errorf("scores: review density for %q needs rating and reviews: %w", p.Name, ErrUndefinedOperation)
	}
	return math.Log1p(float64(p.ReviewCount)) * p.Rating, nil
}

// PricePerRating is the price paid per rating point. Undefined for
// unrated (zero-star) products.
func (c *Calculator) PricePerRating(p *models.Product) (float64, error) {
	if !p.HasRating || !p.HasPrice {
		return 0, fmt.Errorf("scores: price per rating for %q needs rating and price: %w", p.Name, ErrUndefinedOperation)
	}
	if p.Rating == 0 {
		return 0, fmt.Errorf("scores: price per rating undefined at zero rating for %q: %w", p.Name, ErrUndefinedOperation)
	}
	return p.Price / p.Rating, nil
}

// RatingRules is the ordered label chain for a product's rating.
func (c *Calculator) RatingRules() []Rule[float64] {
	return []Rule[float64]{
		{Label: "Excellent", Matches: func(r float64) bool { return r >= c.cfg.RatingExcellentMin }},
		{Label: "Good", Matches: func(r float64) bool { return r >= c.cfg.RatingGoodMin }},
		{Label: "Average", Matches: func(r float64) bool { return r >= c.cfg.RatingAverageMin }},
		{Label: "Poor"},
	}
}

// PremiumRules is the ordered market-position chain over a product's
// rating and price. Order matters: the quality-and-price rule must fire
// before the single-signal rules below it.
func (c *Calculator) PremiumRules() []Rule[*models.Product] {
	return []Rule[*models.Product]{
		{Label: "Premium Quality", Matches: func(p *models.Product) bool {
			return p.HasRating && p.Rating >= c.cfg.PremiumRatingMin &&
				p.HasPrice && p.Price >= c.cfg.PremiumPriceMin
		}},
		{Label: "Affordable Quality", Matches: func(p *models.Product) bool {
			return p.HasRating && p.Rating >= c.cfg.PremiumRatingMin
		}},
		{Label: "Premium Price", Matches: func(p *models.Product) bool {
			return p.HasPrice && p.Price >= c.cfg.PremiumPriceMin
		}},
		{Label: "Standard"},
	}
}

// ScoreAll derives every per-product metric, assigns rating labels and
// buckets priced products into global price quartiles. Metrics that are
// undefined for a row leave their flag unset; the row stays in.
func (c *Calculator) ScoreAll(products []*models.Product) []*models.ScoredProduct {
	scored := make([]*models.ScoredProduct, len(products))

	for i, p := range products {
		s := &models.ScoredProduct{Product: p}

		if v, err := c.DiscountPercent(p); err == nil {
			s.DiscountPercent, s.HasDiscountPercent = v, true
		}
		if v, err := c.Composite(p); err == nil {
			s.Composite, s.HasComposite = v, true
		}
		if v, err := c.ValueRatio(p); err == nil {
			s.ValueRatio, s.HasValueRatio = v, true
		}
		if v, err := c.Quality(p); err == nil {
			s.Quality, s.HasQuality = v, true
		}
		if v, err := c.ValueScore(p); err == nil {
			s.ValueScore, s.HasValueScore = v, true
		}
		if v, err := c.ReviewDensity(p); err == nil {
			s.ReviewDensity, s.HasReviewDensity = v, true
		}
		if v, err := c.PricePerRating(p); err == nil {
			s.PricePerRating, s.HasPricePerRating = v, true
		}

		if p.HasRating {
			if label, err := FirstMatch(c.RatingRules(), p.Rating); err == nil {
				s.RatingLabel = label
			}
		}

		scored[i] = s
	}

	// Global price quartiles over the priced subset.
	var prices []float64
	var at []int
	for i, s := range scored {
		if s.Product.HasPrice {
			prices = append(prices, s.Product.Price)
			at = append(at, i)
		}
	}
	for j, bucket := range Quartiles(prices) {
		scored[at[j]].PriceQuartile = bucket
	}

	return scored
}
