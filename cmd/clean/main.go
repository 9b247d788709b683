package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"cafesales/internal/amqp"
	"cafesales/internal/cleaner"
	"cafesales/internal/cli"
	"cafesales/internal/config"
	"cafesales/internal/core"
	"cafesales/internal/dataset"
	"cafesales/internal/export"
	"cafesales/internal/log"
)

func main() {
	logger := cli.SetupLogger(log.ComponentCleaner)
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext()
	defer stop()

	records, err := dataset.Load(cfg.RawDataPath)
	if err != nil {
		logger.Error("Failed to load raw dataset", "error", err, "path", cfg.RawDataPath)
		os.Exit(1)
	}
	logger.Info("Raw dataset loaded", "path", cfg.RawDataPath, "rows", len(records))

	c := cleaner.New(cleaner.DefaultRules(), cleaner.DefaultPolicy(), logger.Logger)
	txs, report := c.Clean(records)

	logger.Info("Dataset cleaned",
		"rows_in", report.RowsIn,
		"rows_kept", report.RowsKept,
		"rows_dropped", report.RowsDropped())
	for reason, n := range report.Dropped {
		logger.Info("Rows dropped", "reason", reason, "count", n)
	}
	for kind, n := range report.Repaired {
		logger.Info("Values repaired", "kind", kind, "count", n)
	}

	if err := dataset.Save(cfg.CleanedDataPath, txs); err != nil {
		logger.Error("Failed to write cleaned dataset", "error", err, "path", cfg.CleanedDataPath)
		os.Exit(1)
	}
	logger.Info("Cleaned dataset written", "path", cfg.CleanedDataPath, "rows", len(txs))

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	loadCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	if err := repo.ReplaceAll(loadCtx, txs); err != nil {
		logger.Error("Failed to load warehouse", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	if cfg.NotifyEnabled() {
		notifyRefresh(ctx, cfg, report)
	}
	if cfg.ExportEnabled() {
		exportSheet(ctx, cfg, txs)
	}

	logger.Info("Cleaning run complete")
}

// notifyRefresh publishes a dataset.refreshed event. Failures are logged and
// swallowed; the cleaned files and warehouse are already on disk.
func notifyRefresh(ctx context.Context, cfg *config.Config, report *cleaner.Report) {
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.WarnContext(ctx, "AMQP connection failed", "error", err)
		return
	}
	defer client.Close()

	msg := amqp.NewDatasetRefreshedMessage(cfg.RawDataPath, report.RowsKept, report.RowsDropped())
	if err := client.PublishDatasetRefreshed(ctx, msg); err != nil {
		slog.WarnContext(ctx, "AMQP publish failed", "error", err)
	}
}

func exportSheet(ctx context.Context, cfg *config.Config, txs []core.Transaction) {
	exporter, err := export.NewSheetsExporter(ctx, cfg)
	if err != nil {
		slog.WarnContext(ctx, "Sheets exporter init failed", "error", err)
		return
	}
	if err := exporter.Export(ctx, txs); err != nil {
		slog.WarnContext(ctx, "Sheets export failed", "error", err)
	}
}
