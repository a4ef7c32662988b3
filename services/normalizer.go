package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"product-intelligence/config"
	"product-intelligence/models"
	"product-intelligence/utils"
)

var (
	// decimalRegexp matches a plain decimal numeral once locale
	// characters have been stripped
	decimalRegexp = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	// integerRegexp matches a plain non-negative integer
	integerRegexp = regexp.MustCompile(`^\d+$`)
)

// Normalizer converts raw text fields into typed numeric values. The
// locale characters it strips (currency symbol, thousands separator,
// decimal separator) come from configuration so the same code handles
// other catalog locales.
type Normalizer struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given config and logger.
func NewNormalizer(cfg *config.Config, logger *utils.Logger) *Normalizer {
	return &Normalizer{cfg: cfg, logger: logger}
}

// Currency parses a currency amount such as "₹1,234.50" or "1234".
// It strips the configured symbol, thousands separators and whitespace,
// maps the configured decimal separator to ".", then requires a plain
// decimal numeral.
func (n *Normalizer) Currency(raw string) (float64, error) {
	s := strings.ReplaceAll(raw, n.cfg.CurrencySymbol, "")
	s = strings.ReplaceAll(s, n.cfg.ThousandsSep, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if n.cfg.DecimalSep != "." {
		s = strings.ReplaceAll(s, n.cfg.DecimalSep, ".")
	}

	if !decimalRegexp.MatchString(s) {
		return 0, fmt.Errorf("normalizer: currency %q: %w", raw, ErrInvalidFormat)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("normalizer: currency %q: %w", raw, ErrInvalidFormat)
	}
	return v, nil
}

// Rating parses a rating string and enforces the 0–5 scale.
func (n *Normalizer) Rating(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if !decimalRegexp.MatchString(s) {
		return 0, fmt.Errorf("normalizer: rating %q: %w", raw, ErrInvalidFormat)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("normalizer: rating %q: %w", raw, ErrInvalidFormat)
	}
	if v < 0 || v > 5 {
		return 0, fmt.Errorf("normalizer: rating %q outside 0-5: %w", raw, ErrInvalidFormat)
	}
	return v, nil
}

// ReviewCount parses a review count such as "2,255" into a non-negative
// integer.
func (n *Normalizer) ReviewCount(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, n.cfg.ThousandsSep, "")
	if !integerRegexp.MatchString(s) {
		return 0, fmt.Errorf("normalizer: review count %q: %w", raw, ErrInvalidFormat)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("normalizer: review count %q: %w", raw, ErrInvalidFormat)
	}
	return v, nil
}

// NormalizeAll converts raw rows into products. Rows with an empty name
// or main category are dropped, and duplicate (name, category, price)
// rows keep their first occurrence. A field that fails to parse leaves
// its validity flag unset; the row itself stays in, since each analysis
// decides inclusion from the flags it needs.
func (n *Normalizer) NormalizeAll(raw []*models.RawProduct) []*models.Product {
	seen := utils.NewKeySet()
	result := make([]*models.Product, 0, len(raw))

	var badRatings, badReviews, badPrices int

	for _, r := range raw {
		name := normalizeText(r.Name)
		category := normalizeText(r.MainCategory)
		if name == "" || category == "" {
			n.logger.Debug("[normalizer] Dropping row with empty name or category (source %s)", r.SourceFile)
			continue
		}

		key := name + "|" + category + "|" + strings.TrimSpace(r.DiscountPrice)
		if !seen.Add(key) {
			n.logger.Debug("[normalizer] Duplicate product skipped: %s", name)
			continue
		}

		p := &models.Product{
			Name:         name,
			MainCategory: category,
			SubCategory:  normalizeText(r.SubCategory),
			Image:        strings.TrimSpace(r.Image),
			Link:         strings.TrimSpace(r.Link),
			CreatedAt:    time.Now(),
		}

		if v, err := n.Rating(r.Ratings); err == nil {
			p.Rating, p.HasRating = v, true
		} else {
			badRatings++
		}
		if v, err := n.ReviewCount(r.NoOfRatings); err == nil {
			p.ReviewCount, p.HasReviews = v, true
		} else {
			badReviews++
		}
		if v, err := n.Currency(r.DiscountPrice); err == nil {
			p.Price, p.HasPrice = v, true
		} else {
			badPrices++
		}
		if v, err := n.Currency(r.ActualPrice); err == nil {
			p.ActualPrice, p.HasActualPrice = v, true
		}

		result = append(result, p)
	}

	n.logger.Info("[normalizer] Normalized %d → %d products (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	if badRatings+badReviews+badPrices > 0 {
		n.logger.Debug("[normalizer] Unparseable fields kept as invalid: %d ratings, %d review counts, %d prices",
			badRatings, badReviews, badPrices)
	}
	return result
}

// normalizeText strips leading/trailing whitespace and collapses internal
// whitespace runs.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
