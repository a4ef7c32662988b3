package storage

import (
	"path/filepath"
	"testing"
	"time"

	"product-intelligence/models"
)

func TestCSVWriterCapsRawSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "raw_sample.csv")
	w, err := NewCSVWriter(path, 2)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	raw := []*models.RawProduct{
		{Name: "One", MainCategory: "toys", DiscountPrice: "₹1,099", SourceFile: "a.csv", LoadedAt: time.Now()},
		{Name: "Two", MainCategory: "toys", SourceFile: "a.csv", LoadedAt: time.Now()},
		{Name: "Three", MainCategory: "toys", SourceFile: "a.csv", LoadedAt: time.Now()},
	}
	if err := w.WriteRaw(raw); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want header + 2 capped rows", len(rows))
	}
	if rows[0][0] != "name" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "One" || rows[1][5] != "₹1,099" || rows[2][0] != "Two" {
		t.Errorf("sample rows = %v, %v", rows[1], rows[2])
	}
}

func TestCSVWriterZeroLimitKeepsEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw_sample.csv")
	w, err := NewCSVWriter(path, 0)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	raw := []*models.RawProduct{
		{Name: "One", MainCategory: "toys", LoadedAt: time.Now()},
		{Name: "Two", MainCategory: "toys", LoadedAt: time.Now()},
	}
	if err := w.WriteRaw(raw); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if rows := readCSV(t, path); len(rows) != 3 {
		t.Errorf("len(rows) = %d, want header + 2", len(rows))
	}
}
