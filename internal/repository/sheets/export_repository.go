package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/teamten/finhealth/internal/config"
	"github.com/teamten/finhealth/internal/domain/models"
)

const (
	resultsWriteRange = "Scores!A:J"
	timestampLayout   = "2006-01-02 15:04:05"
)

// Exporter defines the export operations supported by the Google Sheets adapter.
type Exporter interface {
	AppendResult(ctx context.Context, result models.ZScoreResult) error
}

// GoogleSheetExporter appends scored results to a shared spreadsheet using
// the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
	now           func() time.Time
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
		now:           time.Now,
	}, nil
}

// AppendResult writes one scored company as a row of the results sheet.
func (e *GoogleSheetExporter) AppendResult(ctx context.Context, result models.ZScoreResult) error {
	values := []interface{}{
		e.now().UTC().Format(timestampLayout),
		result.Identifier,
		result.ZScore,
		string(result.Zone),
		result.X1,
		result.X2,
		result.X3,
		result.X4,
		result.X5,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, resultsWriteRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append result row for %s: %w", result.Identifier, err)
	}

	e.logger.Debug("result appended to sheet", zap.String("identifier", result.Identifier))
	return nil
}
