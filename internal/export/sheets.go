// Package export pushes the cleaned dataset to a Google Sheet so the data
// can be eyeballed outside this toolkit.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"cafesales/internal/config"
	"cafesales/internal/core"
	"cafesales/internal/dataset"
)

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsExporter builds an exporter from the configured service account
// credentials (inline JSON preferred, file fallback, ADC last).
func NewSheetsExporter(ctx context.Context, cfg *config.Config) (*SheetsExporter, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	var opts []goption.ClientOption
	switch {
	case cfg.GoogleServiceAccountJSON != "":
		opts = append(opts, goption.WithCredentialsJSON([]byte(cfg.GoogleServiceAccountJSON)))
	case cfg.GoogleServiceAccountFile != "":
		opts = append(opts, goption.WithCredentialsFile(cfg.GoogleServiceAccountFile))
	}
	opts = append(opts, goption.WithScopes(gsheet.SpreadsheetsScope))

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetName:     cfg.GoogleSheetName,
	}, nil
}

// Export replaces the target sheet's content with the cleaned rows,
// mirroring the cleaned file's column layout.
func (e *SheetsExporter) Export(ctx context.Context, txs []core.Transaction) error {
	values := make([][]interface{}, 0, len(txs)+1)

	header := make([]interface{}, len(dataset.CleanedHeader))
	for i, name := range dataset.CleanedHeader {
		header[i] = name
	}
	values = append(values, header)

	for _, tx := range txs {
		values = append(values, []interface{}{
			tx.ID,
			tx.Item,
			strconv.Itoa(tx.Quantity),
			tx.UnitPrice.StringFixed(2),
			tx.Total.StringFixed(2),
			string(tx.Payment),
			string(tx.Location),
			tx.Date.Key(),
			tx.Date.Weekday().String(),
			tx.Date.Month().String(),
		})
	}

	clearRange := fmt.Sprintf("%s!A:Z", e.sheetName)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", e.sheetName, err)
	}

	writeRange := fmt.Sprintf("%s!A1", e.sheetName)
	_, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, writeRange, &gsheet.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", e.sheetName, err)
	}

	slog.InfoContext(ctx, "Cleaned dataset exported to Google Sheets",
		"spreadsheet_id", e.spreadsheetID,
		"sheet", e.sheetName,
		"rows", len(txs))

	return nil
}
