package services

import (
	"errors"
	"testing"

	"product-intelligence/config"
	"product-intelligence/models"
	"product-intelligence/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger(false) }

func testConfig() *config.Config {
	return &config.Config{
		CurrencySymbol: "₹",
		ThousandsSep:   ",",
		DecimalSep:     ".",

		CompositeRatingWeight:   0.4,
		CompositeReviewWeight:   0.3,
		CompositeDiscountWeight: 0.3,
		ReviewDivisor:           1000,
		QualityRatingWeight:     0.6,
		QualityReviewWeight:     0.4,

		RatingExcellentMin: 4.5,
		RatingGoodMin:      4.0,
		RatingAverageMin:   3.5,

		PerfMinGroup:          10,
		PerfLeaderRating:      4.2,
		PerfLeaderCount:       100,
		PerfStrongRating:      4.0,
		PerfAverageRating:     3.5,
		SatisfactionMinGroup:  15,
		SatisfactionHighMin:   4.2,
		SatisfactionMidMin:    4.0,
		SatisfactionLowMin:    3.5,
		BCGMinGroup:           10,
		BCGRatingThreshold:    4.0,
		ExecTopMinGroup:       50,
		GapMaxProducts:        20,
		GapMinDemand:          500,
		SuccessRatingMin:      4.0,
		SuccessReviewsPct:     0.70,
		ImproveRatingMax:      4.0,
		ImproveReviewsMin:     100,
		UnderpricedRatingMin:  4.5,
		UnderpricedPriceVsAvg: -20,
		PremiumRatingMin:      4.2,
		PremiumPriceMin:       1500,
		TopProductsLimit:      10,
		OpportunityLimit:      15,

		PriceBandEdges: []float64{500, 1000, 2000, 5000},
	}
}

func TestNormalizerCurrency(t *testing.T) {
	n := NewNormalizer(testConfig(), newTestLogger())

	tests := []struct {
		raw  string
		want float64
	}{
		{"₹1,234.50", 1234.50},
		{"1234", 1234.00},
		{"₹399", 399},
		{" ₹ 1,099 ", 1099},
		{"₹58,990", 58990},
		{"₹1,00,000", 100000},
	}

	for _, tt := range tests {
		got, err := n.Currency(tt.raw)
		if err != nil {
			t.Errorf("Currency(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Currency(%q) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizerCurrencyInvalid(t *testing.T) {
	n := NewNormalizer(testConfig(), newTestLogger())

	for _, raw := range []string{"", "N/A", "abc", "₹", "1.2.3", "₹1,2,3.4.5"} {
		_, err := n.Currency(raw)
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Currency(%q): expected ErrInvalidFormat, got %v", raw, err)
		}
	}
}

func TestNormalizerRating(t *testing.T) {
	n := NewNormalizer(testConfig(), newTestLogger())

	tests := []struct {
		raw  string
		want float64
	}{
		{"4.1", 4.1},
		{"5", 5.0},
		{"0", 0.0},
		{" 3.9 ", 3.9},
	}

	for _, tt := range tests {
		got, err := n.Rating(tt.raw)
		if err != nil {
			t.Errorf("Rating(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Rating(%q) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizerRatingInvalid(t *testing.T) {
	n := NewNormalizer(testConfig(), newTestLogger())

	for _, raw := range []string{"", "Get", "FREE", "6.0", "5.1", "-1", "NaN", "4,1"} {
		_, err := n.Rating(raw)
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Rating(%q): expected ErrInvalidFormat, got %v", raw, err)
		}
	}
}

func TestNormalizerReviewCount(t *testing.T) {
	n := NewNormalizer(testConfig(), newTestLogger())

	tests := []struct {
		raw  string
		want int
	}{
		{"2,255", 2255},
		{"0", 0},
		{"1,00,000", 100000},
		{" 43 ", 43},
	}

	for _, tt := range tests {
		got, err := n.ReviewCount(tt.raw)
		if err != nil {
			t.Errorf("ReviewCount(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReviewCount(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizerReviewCountInvalid(t *testing.T) {
	n := NewNormalizer(testConfig(), newTestLogger())

	for _, raw := range []string{"", "abc", "12.5", "-3", "many"} {
		_, err := n.ReviewCount(raw)
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("ReviewCount(%q): expected ErrInvalidFormat, got %v", raw, err)
		}
	}
}

func TestNormalizeAllDropsEmptyNameOrCategory(t *testing.T) {
	n := NewNormalizer(testConfig(), newTestLogger())
	raw := []*models.RawProduct{
		{Name: "", MainCategory: "electronics", DiscountPrice: "₹100"},
		{Name: "Speaker", MainCategory: "   ", DiscountPrice: "₹200"},
		{Name: "Monitor", MainCategory: "electronics", DiscountPrice: "₹300"},
	}

	got := n.NormalizeAll(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 product after dropping incomplete rows, got %d", len(got))
	}
	if got[0].Name != "Monitor" {
		t.Errorf("kept product: got %q, want %q", got[0].Name, "Monitor")
	}
}

func TestNormalizeAllDeduplicates(t *testing.T) {
	n := NewNormalizer(testConfig(), newTestLogger())
	raw := []*models.RawProduct{
		{Name: "Monitor", MainCategory: "electronics", DiscountPrice: "₹1,099"},
		{Name: "Monitor", MainCategory: "electronics", DiscountPrice: "₹1,099"},
		{Name: "Monitor", MainCategory: "electronics", DiscountPrice: "₹999"},
	}

	got := n.NormalizeAll(raw)
	if len(got) != 2 {
		t.Errorf("expected 2 products after deduplication, got %d", len(got))
	}
}

func TestNormalizeAllKeepsRowsWithInvalidFields(t *testing.T) {
	n := NewNormalizer(testConfig(), newTestLogger())
	raw := []*models.RawProduct{
		{Name: "Cable", MainCategory: "accessories", Ratings: "4.3", NoOfRatings: "1,204", DiscountPrice: "FREE", ActualPrice: "₹299"},
	}

	got := n.NormalizeAll(raw)
	if len(got) != 1 {
		t.Fatalf("expected the row to survive an invalid price, got %d rows", len(got))
	}

	p := got[0]
	if p.HasPrice {
		t.Error("HasPrice should be false for an unparseable price")
	}
	if !p.HasRating || p.Rating != 4.3 {
		t.Errorf("rating: got (%.2f, %v), want (4.30, true)", p.Rating, p.HasRating)
	}
	if !p.HasReviews || p.ReviewCount != 1204 {
		t.Errorf("reviews: got (%d, %v), want (1204, true)", p.ReviewCount, p.HasReviews)
	}
	if !p.HasActualPrice || p.ActualPrice != 299 {
		t.Errorf("actual price: got (%.2f, %v), want (299.00, true)", p.ActualPrice, p.HasActualPrice)
	}
}

func TestNormalizeAllCollapsesWhitespace(t *testing.T) {
	n := NewNormalizer(testConfig(), newTestLogger())
	raw := []*models.RawProduct{
		{Name: "  Wireless   Mouse ", MainCategory: " computers  &  accessories "},
	}

	got := n.NormalizeAll(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 product, got %d", len(got))
	}
	if got[0].Name != "Wireless Mouse" {
		t.Errorf("name: got %q, want %q", got[0].Name, "Wireless Mouse")
	}
	if got[0].MainCategory != "computers & accessories" {
		t.Errorf("category: got %q, want %q", got[0].MainCategory, "computers & accessories")
	}
}
