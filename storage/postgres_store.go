package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"product-intelligence/models"
	"product-intelligence/utils"
)

// PostgresStore mirrors the product table into PostgreSQL for downstream
// consumers (dashboards, ad-hoc SQL). The embedded SQLite store stays the
// pipeline's source of truth; this backend is optional.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, waits for the server
// to accept it, runs schema migrations, and returns a ready-to-use store.
func NewPostgresStore(ctx context.Context, dsn string, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{
		MaxAttempts: 10,
		BaseDelay:   2 * time.Second,
		MaxDelay:    10 * time.Second,
		Logger:      logger,
	}
	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id            SERIAL PRIMARY KEY,
			name          TEXT          NOT NULL,
			main_category TEXT          NOT NULL,
			sub_category  TEXT          NOT NULL DEFAULT '',
			rating        NUMERIC(4,2),
			review_count  INTEGER,
			price         NUMERIC(12,2),
			actual_price  NUMERIC(12,2),
			image         TEXT          NOT NULL DEFAULT '',
			link          TEXT          NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_products_category ON products(main_category);
		CREATE INDEX IF NOT EXISTS idx_products_rating   ON products(rating);
		CREATE INDEX IF NOT EXISTS idx_products_price    ON products(price);
	`)
	return err
}

// Clear deletes all existing products from the table.
func (ps *PostgresStore) Clear() error {
	_, err := ps.db.Exec("DELETE FROM products")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts ALL products, clearing old data first. There is no
// natural key once raw price text is gone, so replacement beats upsert.
func (ps *PostgresStore) Write(products []*models.Product) error {
	if err := ps.Clear(); err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(products); i += batchSize {
		end := i + batchSize
		if end > len(products) {
			end = len(products)
		}
		if err := ps.insertBatch(products[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PostgresStore) insertBatch(batch []*models.Product) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*9)

	for idx, p := range batch {
		base := idx * 9
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
		valueArgs = append(valueArgs,
			p.Name, p.MainCategory, p.SubCategory,
			nullFloat(p.Rating, p.HasRating),
			nullInt(int64(p.ReviewCount), p.HasReviews),
			nullFloat(p.Price, p.HasPrice),
			nullFloat(p.ActualPrice, p.HasActualPrice),
			p.Image, p.Link)
	}

	query := fmt.Sprintf(`
		INSERT INTO products
			(name, main_category, sub_category, rating, review_count, price, actual_price, image, link)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := ps.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// FetchAll retrieves all stored products in insertion order.
func (ps *PostgresStore) FetchAll() ([]*models.Product, error) {
	rows, err := ps.db.Query(`
		SELECT id, name, main_category, sub_category, rating, review_count,
		       price, actual_price, image, link, created_at
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		var rating, price, actual sql.NullFloat64
		var reviews sql.NullInt64
		if err := rows.Scan(
			&p.ID, &p.Name, &p.MainCategory, &p.SubCategory,
			&rating, &reviews, &price, &actual,
			&p.Image, &p.Link, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		p.Rating, p.HasRating = rating.Float64, rating.Valid
		if reviews.Valid {
			p.ReviewCount, p.HasReviews = int(reviews.Int64), true
		}
		p.Price, p.HasPrice = price.Float64, price.Valid
		p.ActualPrice, p.HasActualPrice = actual.Float64, actual.Valid
		products = append(products, p)
	}
	return products, rows.Err()
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
