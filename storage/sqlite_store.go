package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"product-intelligence/models"
)

// SQLiteStore persists normalized products to an embedded SQLite database.
// Numeric fields that failed normalization are stored as NULL, never as
// zeroes, so per-field validity survives the round trip.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file at path and runs
// schema migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("sqlite: create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			main_category TEXT NOT NULL,
			sub_category  TEXT NOT NULL DEFAULT '',
			rating        REAL,
			review_count  INTEGER,
			price         REAL,
			actual_price  REAL,
			image         TEXT NOT NULL DEFAULT '',
			link          TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMP NOT NULL
		)
	`); err != nil {
		return err
	}

	for _, idx := range []string{
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(main_category)`,
		`CREATE INDEX IF NOT EXISTS idx_products_rating   ON products(rating)`,
		`CREATE INDEX IF NOT EXISTS idx_products_price    ON products(price)`,
	} {
		if _, err := s.db.Exec(idx); err != nil {
			return err
		}
	}
	return nil
}

// Clear deletes all existing products from the table.
func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec("DELETE FROM products")
	if err != nil {
		return fmt.Errorf("sqlite: clear: %w", err)
	}
	return nil
}

// Write replaces the stored products with the given set. Inserts run in a
// single transaction through one prepared statement.
func (s *SQLiteStore) Write(products []*models.Product) error {
	if err := s.Clear(); err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO products
			(name, main_category, sub_category, rating, review_count,
			 price, actual_price, image, link, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		_, err := stmt.Exec(
			p.Name,
			p.MainCategory,
			p.SubCategory,
			nullFloat(p.Rating, p.HasRating),
			nullInt(int64(p.ReviewCount), p.HasReviews),
			nullFloat(p.Price, p.HasPrice),
			nullFloat(p.ActualPrice, p.HasActualPrice),
			p.Image,
			p.Link,
			p.CreatedAt,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite: insert %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// FetchAll retrieves all stored products in insertion order.
func (s *SQLiteStore) FetchAll() ([]*models.Product, error) {
	rows, err := s.db.Query(`
		SELECT id, name, main_category, sub_category, rating, review_count,
		       price, actual_price, image, link, created_at
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetch all: %w", err)
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
			return nil, fmt.Errorf("sqlite: scan row: %w", err)
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

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullFloat(v float64, ok bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: ok}
}

func nullInt(v int64, ok bool) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: ok}
}
