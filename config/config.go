package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the pipeline. Values come from
// the environment, with a .env file loaded first if one is present.
type Config struct {
	// Dataset ingestion
	DatasetDir  string
	DatasetGlob string

	// Number formats in the source files
	CurrencySymbol string
	ThousandsSep   string
	DecimalSep     string

	// Raw sample echo
	RawSamplePath  string
	RawSampleLimit int

	// Embedded store
	SQLitePath string

	// Report output
	ReportDir       string
	CompressExports bool

	// Optional Postgres sink
	PGEnabled  bool
	PGHost     string
	PGPort     int
	PGUser     string
	PGPassword string
	PGDatabase string
	PGSSLMode  string

	// Optional SFTP publishing
	SFTPEnabled   bool
	SFTPHost      string
	SFTPPort      int
	SFTPUser      string
	SFTPPassword  string
	SFTPRemoteDir string

	// Execution
	MaxConcurrency int
	MaxRetries     int
	RetryBaseDelay time.Duration
	Debug          bool

	// Composite score weights
	CompositeRatingWeight   float64
	CompositeReviewWeight   float64
	CompositeDiscountWeight float64
	ReviewDivisor           float64

	// Quality score weights
	QualityRatingWeight float64
	QualityReviewWeight float64

	// Per-product label chains
	RatingExcellentMin float64
	RatingGoodMin      float64
	RatingAverageMin   float64

	// Report thresholds. Each report carries its own cutoffs.
	PerfMinGroup          int
	PerfLeaderRating      float64
	PerfLeaderCount       int
	PerfStrongRating      float64
	PerfAverageRating     float64
	SatisfactionMinGroup  int
	SatisfactionHighMin   float64
	SatisfactionMidMin    float64
	SatisfactionLowMin    float64
	BCGMinGroup           int
	BCGRatingThreshold    float64
	ExecTopMinGroup       int
	GapMaxProducts        int
	GapMinDemand          int64
	SuccessRatingMin      float64
	SuccessReviewsPct     float64
	ImproveRatingMax      float64
	ImproveReviewsMin     int
	UnderpricedRatingMin  float64
	UnderpricedPriceVsAvg float64
	PremiumRatingMin      float64
	PremiumPriceMin       float64
	TopProductsLimit      int
	OpportunityLimit      int

	// Price band edges, ascending
	PriceBandEdges []float64
}

// Load reads configuration from the environment. Missing keys fall back
// to defaults that match the Amazon India dataset the pipeline was
// built around.
func Load() (*Config, error) {
	// Best effort: a missing .env file is fine, real env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		DatasetDir:  getEnv("DATASET_DIR", "./data"),
		DatasetGlob: getEnv("DATASET_GLOB", "*.csv"),

		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₹"),
		ThousandsSep:   getEnv("THOUSANDS_SEP", ","),
		DecimalSep:     getEnv("DECIMAL_SEP", "."),

		RawSamplePath:  getEnv("RAW_SAMPLE_PATH", "./reports/raw_sample.csv"),
		RawSampleLimit: getEnvInt("RAW_SAMPLE_LIMIT", 10),

		SQLitePath: getEnv("SQLITE_PATH", "./products.db"),

		ReportDir:       getEnv("REPORT_DIR", "./reports"),
		CompressExports: getEnvBool("COMPRESS_EXPORTS", false),

		PGEnabled:  getEnvBool("PG_ENABLED", false),
		PGHost:     getEnv("POSTGRES_HOST", "localhost"),
		PGPort:     getEnvInt("POSTGRES_PORT", 5432),
		PGUser:     getEnv("POSTGRES_USER", "postgres"),
		PGPassword: getEnv("POSTGRES_PASSWORD", ""),
		PGDatabase: getEnv("POSTGRES_DB", "products"),
		PGSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		SFTPEnabled:   getEnvBool("SFTP_ENABLED", false),
		SFTPHost:      getEnv("SFTP_HOST", ""),
		SFTPPort:      getEnvInt("SFTP_PORT", 22),
		SFTPUser:      getEnv("SFTP_USER", ""),
		SFTPPassword:  getEnv("SFTP_PASSWORD", ""),
		SFTPRemoteDir: getEnv("SFTP_REMOTE_DIR", "/reports"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		RetryBaseDelay: time.Duration(getEnvInt("RETRY_BASE_DELAY_MS", 500)) * time.Millisecond,
		Debug:          getEnvBool("DEBUG", false),

		CompositeRatingWeight:   getEnvFloat("COMPOSITE_RATING_WEIGHT", 0.4),
		CompositeReviewWeight:   getEnvFloat("COMPOSITE_REVIEW_WEIGHT", 0.3),
		CompositeDiscountWeight: getEnvFloat("COMPOSITE_DISCOUNT_WEIGHT", 0.3),
		ReviewDivisor:           getEnvFloat("REVIEW_DIVISOR", 1000),

		QualityRatingWeight: getEnvFloat("QUALITY_RATING_WEIGHT", 0.6),
		QualityReviewWeight: getEnvFloat("QUALITY_REVIEW_WEIGHT", 0.4),

		RatingExcellentMin: getEnvFloat("RATING_EXCELLENT_MIN", 4.5),
		RatingGoodMin:      getEnvFloat("RATING_GOOD_MIN", 4.0),
		RatingAverageMin:   getEnvFloat("RATING_AVERAGE_MIN", 3.5),

		PerfMinGroup:          getEnvInt("PERF_MIN_GROUP", 10),
		PerfLeaderRating:      getEnvFloat("PERF_LEADER_RATING", 4.2),
		PerfLeaderCount:       getEnvInt("PERF_LEADER_COUNT", 100),
		PerfStrongRating:      getEnvFloat("PERF_STRONG_RATING", 4.0),
		PerfAverageRating:     getEnvFloat("PERF_AVERAGE_RATING", 3.5),
		SatisfactionMinGroup:  getEnvInt("SATISFACTION_MIN_GROUP", 15),
		SatisfactionHighMin:   getEnvFloat("SATISFACTION_HIGH_MIN", 4.2),
		SatisfactionMidMin:    getEnvFloat("SATISFACTION_MID_MIN", 4.0),
		SatisfactionLowMin:    getEnvFloat("SATISFACTION_LOW_MIN", 3.5),
		BCGMinGroup:           getEnvInt("BCG_MIN_GROUP", 10),
		BCGRatingThreshold:    getEnvFloat("BCG_RATING_THRESHOLD", 4.0),
		ExecTopMinGroup:       getEnvInt("EXEC_TOP_MIN_GROUP", 50),
		GapMaxProducts:        getEnvInt("GAP_MAX_PRODUCTS", 20),
		GapMinDemand:          int64(getEnvInt("GAP_MIN_DEMAND", 500)),
		SuccessRatingMin:      getEnvFloat("SUCCESS_RATING_MIN", 4.0),
		SuccessReviewsPct:     getEnvFloat("SUCCESS_REVIEWS_PCT", 0.70),
		ImproveRatingMax:      getEnvFloat("IMPROVE_RATING_MAX", 4.0),
		ImproveReviewsMin:     getEnvInt("IMPROVE_REVIEWS_MIN", 100),
		UnderpricedRatingMin:  getEnvFloat("UNDERPRICED_RATING_MIN", 4.5),
		UnderpricedPriceVsAvg: getEnvFloat("UNDERPRICED_PRICE_VS_AVG", -20),
		PremiumRatingMin:      getEnvFloat("PREMIUM_RATING_MIN", 4.2),
		PremiumPriceMin:       getEnvFloat("PREMIUM_PRICE_MIN", 1500),
		TopProductsLimit:      getEnvInt("TOP_PRODUCTS_LIMIT", 10),
		OpportunityLimit:      getEnvInt("OPPORTUNITY_LIMIT", 15),

		PriceBandEdges: getEnvFloats("PRICE_BAND_EDGES", []float64{500, 1000, 2000, 5000}),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatasetDir == "" {
		return fmt.Errorf("config: DATASET_DIR must not be empty")
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("config: MAX_CONCURRENCY must be at least 1, got %d", c.MaxConcurrency)
	}
	if c.RawSampleLimit < 0 {
		return fmt.Errorf("config: RAW_SAMPLE_LIMIT must not be negative, got %d", c.RawSampleLimit)
	}
	if c.SuccessReviewsPct < 0 || c.SuccessReviewsPct > 1 {
		return fmt.Errorf("config: SUCCESS_REVIEWS_PCT must be in [0,1], got %g", c.SuccessReviewsPct)
	}
	for i := 1; i < len(c.PriceBandEdges); i++ {
		if c.PriceBandEdges[i] <= c.PriceBandEdges[i-1] {
			return fmt.Errorf("config: PRICE_BAND_EDGES must be strictly ascending, got %v", c.PriceBandEdges)
		}
	}
	if c.PGEnabled && c.PGPassword == "" {
		return fmt.Errorf("config: POSTGRES_PASSWORD is required when PG_ENABLED is set")
	}
	if c.SFTPEnabled && (c.SFTPHost == "" || c.SFTPUser == "") {
		return fmt.Errorf("config: SFTP_HOST and SFTP_USER are required when SFTP_ENABLED is set")
	}
	return nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PGHost, c.PGPort, c.PGUser, c.PGPassword, c.PGDatabase, c.PGSSLMode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloats(key string, fallback []float64) []float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fallback
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
