package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"product-intelligence/config"
	"product-intelligence/models"
	"product-intelligence/utils"
)

// Reader bulk-loads raw product rows from the CSV files of a dataset
// directory. Files may order their columns differently or omit columns
// entirely; fields are matched by header name, so a union of uneven
// files still lines up.
type Reader struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewReader creates a Reader with the given config and logger.
func NewReader(cfg *config.Config, logger *utils.Logger) *Reader {
	return &Reader{cfg: cfg, logger: logger}
}

// Load reads every file matching the configured glob. Files parse in
// parallel, bounded by MaxConcurrency, but rows keep file order so a
// later dedupe pass always keeps the same first occurrence.
func (r *Reader) Load(ctx context.Context) ([]*models.RawProduct, error) {
	pattern := filepath.Join(r.cfg.DatasetDir, r.cfg.DatasetGlob)
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("dataset: bad glob %q: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("dataset: no files match %q", pattern)
	}
	sort.Strings(files)

	indexes := make([]int, len(files))
	for i := range indexes {
		indexes[i] = i
	}

	perFile := make([][]*models.RawProduct, len(files))
	err = utils.ParallelForEach(ctx, indexes, r.cfg.MaxConcurrency, func(ctx context.Context, i int) error {
		rows, skipped, err := r.readFile(files[i])
		if err != nil {
			return err
		}
		if skipped > 0 {
			r.logger.Warn("[dataset] %s: skipped %d malformed rows", filepath.Base(files[i]), skipped)
		}
		r.logger.Debug("[dataset] %s: %d rows", filepath.Base(files[i]), len(rows))
		perFile[i] = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	var all []*models.RawProduct
	for _, rows := range perFile {
		all = append(all, rows...)
	}

	r.logger.Info("[dataset] Loaded %d raw rows from %d files", len(all), len(files))
	return all, nil
}

func (r *Reader) readFile(path string) ([]*models.RawProduct, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("dataset: read header of %s: %w", path, err)
	}

	cols := columnIndex(header)
	if _, ok := cols["name"]; !ok {
		return nil, 0, fmt.Errorf("dataset: %s has no name column", path)
	}

	base := filepath.Base(path)
	loadedAt := time.Now()

	var rows []*models.RawProduct
	skipped := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.Reader resumes on the next line after a parse error.
			skipped++
			continue
		}
		rows = append(rows, &models.RawProduct{
			Name:          field(record, cols, "name"),
			MainCategory:  field(record, cols, "main_category"),
			SubCategory:   field(record, cols, "sub_category"),
			Image:         field(record, cols, "image"),
			Link:          field(record, cols, "link"),
			Ratings:       field(record, cols, "ratings"),
			NoOfRatings:   field(record, cols, "no_of_ratings"),
			DiscountPrice: field(record, cols, "discount_price"),
			ActualPrice:   field(record, cols, "actual_price"),
			SourceFile:    base,
			LoadedAt:      loadedAt,
		})
	}
	return rows, skipped, nil
}

// columnIndex maps lowercased, trimmed header names to positions. The
// first header cell may carry a UTF-8 BOM from spreadsheet exports.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}
