package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"product-intelligence/models"
)

// CSVWriter echoes raw (unnormalized) dataset rows to a CSV file so a run
// leaves a small inspectable sample of its input. It is safe for
// concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	limit  int
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
// limit caps how many rows WriteRaw keeps; 0 means keep everything.
func NewCSVWriter(path string, limit int) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	// Write header
	if err := w.Write([]string{
		"name", "main_category", "sub_category", "ratings", "no_of_ratings",
		"discount_price", "actual_price", "source_file", "loaded_at",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w, limit: limit}, nil
}

// WriteRaw appends up to limit raw rows to the CSV file.
func (c *CSVWriter) WriteRaw(products []*models.RawProduct) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.limit > 0 && len(products) > c.limit {
		products = products[:c.limit]
	}

	for _, p := range products {
		row := []string{
			p.Name,
			p.MainCategory,
			p.SubCategory,
			p.Ratings,
			p.NoOfRatings,
			p.DiscountPrice,
			p.ActualPrice,
			p.SourceFile,
			p.LoadedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
