package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"product-intelligence/config"
	"product-intelligence/dataset"
	"product-intelligence/models"
	"product-intelligence/services"
	"product-intelligence/storage"
	"product-intelligence/utils"
)

func main() {
	logger := utils.NewLogger(false)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Config load failed: %v", err)
		os.Exit(1)
	}
	if cfg.Debug {
		logger = utils.NewLogger(true)
	}

	logger.Info("=== Product Intelligence Pipeline starting ===")
	logger.Info("Config — dataset: %s | concurrency: %d | sqlite: %s | reports: %s",
		filepath.Join(cfg.DatasetDir, cfg.DatasetGlob), cfg.MaxConcurrency, cfg.SQLitePath, cfg.ReportDir)

	ctx := context.Background()

	reader := dataset.NewReader(cfg, logger)
	rawProducts, err := reader.Load(ctx)
	if err != nil {
		logger.Error("Dataset load failed: %v", err)
		os.Exit(1)
	}
	if len(rawProducts) == 0 {
		logger.Error("Dataset is empty. Exiting.")
		os.Exit(1)
	}

	csvWriter, err := storage.NewCSVWriter(cfg.RawSamplePath, cfg.RawSampleLimit)
	if err != nil {
		logger.Error("Failed to create raw sample writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	if err := csvWriter.WriteRaw(rawProducts); err != nil {
		logger.Error("Raw sample write failed: %v", err)
	} else {
		logger.Info("Raw sample saved to %s", cfg.RawSamplePath)
	}

	normalizer := services.NewNormalizer(cfg, logger)
	products := normalizer.NormalizeAll(rawProducts)

	if len(products) == 0 {
		logger.Error("All rows were dropped during normalization. Exiting.")
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(cfg.SQLitePath)
	if err != nil {
		logger.Error("Failed to open SQLite store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Write(products); err != nil {
		logger.Error("SQLite write failed: %v", err)
	} else {
		logger.Info("Normalized products stored in SQLite (table: products)")
	}

	dbProducts, err := store.FetchAll()
	if err != nil {
		logger.Error("Failed to fetch products from SQLite for analysis: %v", err)
		dbProducts = products
	}

	if cfg.PGEnabled {
		mirrorToPostgres(ctx, cfg, logger, dbProducts)
	}

	calc := services.NewCalculator(cfg)
	scored := calc.ScoreAll(dbProducts)

	reportSvc := services.NewReportService(cfg, logger, calc)
	report := reportSvc.Generate(scored)
	reportSvc.Print(report)

	if err := store.SaveReport(report); err != nil {
		logger.Error("Report save failed: %v", err)
	} else {
		logger.Info("Report tables stored in SQLite")
	}

	exporter := storage.NewExporter(cfg.ReportDir, cfg.CompressExports, logger)
	if err := exporter.ExportReport(report); err != nil {
		logger.Error("Report export failed: %v", err)
	}
	if err := exporter.ExportScores(scored); err != nil {
		logger.Error("Score export failed: %v", err)
	}

	if cfg.SFTPEnabled {
		uploadReports(ctx, cfg, logger)
	}

	fmt.Printf("  Done. Raw sample → %s | Products → %s | Reports → %s\n\n",
		cfg.RawSamplePath, cfg.SQLitePath, cfg.ReportDir)
}

// mirrorToPostgres copies the normalized products into PostgreSQL for
// downstream SQL consumers. Failures log and move on; the pipeline's own
// analyses never depend on the mirror.
func mirrorToPostgres(ctx context.Context, cfg *config.Config, logger *utils.Logger, products []*models.Product) {
	pg, err := storage.NewPostgresStore(ctx, cfg.DSN(), logger)
	if err != nil {
		logger.Error("PostgreSQL connect failed: %v", err)
		return
	}
	defer pg.Close()

	if err := pg.Write(products); err != nil {
		logger.Error("PostgreSQL mirror failed: %v", err)
		return
	}
	logger.Info("Products mirrored to PostgreSQL (table: products)")
}

func uploadReports(ctx context.Context, cfg *config.Config, logger *utils.Logger) {
	uploader := storage.NewSFTPUploader(storage.SFTPConfig{
		Host:      cfg.SFTPHost,
		Port:      cfg.SFTPPort,
		User:      cfg.SFTPUser,
		Password:  cfg.SFTPPassword,
		RemoteDir: cfg.SFTPRemoteDir,
	}, logger)

	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   cfg.RetryBaseDelay,
		Logger:      logger,
	}
	if err := retry.Do(ctx, "report upload", func() error {
		return uploader.UploadDir(ctx, cfg.ReportDir)
	}); err != nil {
		logger.Error("SFTP upload failed: %v", err)
	}
}
