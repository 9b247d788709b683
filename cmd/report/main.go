package main

import (
	"errors"
	"os"

	"cafesales/internal/cli"
	"cafesales/internal/dataset"
	"cafesales/internal/log"
	"cafesales/internal/report"
)

func main() {
	logger := cli.SetupLogger(log.ComponentReporter)
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	txs, err := dataset.LoadCleaned(cfg.CleanedDataPath)
	if err != nil {
		logger.Error("Failed to load cleaned dataset", "error", err, "path", cfg.CleanedDataPath)
		os.Exit(1)
	}
	logger.Info("Cleaned dataset loaded", "path", cfg.CleanedDataPath, "rows", len(txs))

	renderer := report.NewRenderer(cfg.FiguresDir, logger.Logger)
	if err := renderer.RenderAll(txs); err != nil {
		if errors.Is(err, report.ErrEmptyDataset) {
			logger.Error("Nothing to report on, run the cleaner first", "path", cfg.CleanedDataPath)
		} else {
			logger.Error("Failed to render charts", "error", err, "dir", cfg.FiguresDir)
		}
		os.Exit(1)
	}

	logger.Info("Charts written", "dir", cfg.FiguresDir)
}
