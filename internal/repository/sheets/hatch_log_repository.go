// Package sheets keeps an append-only hatch log in a Google Sheets
// spreadsheet. History pruning archives each removed tray here before the
// record is deleted, so the incubation history survives the prune.
package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

const (
	hatchLogRange = "HatchLog!A:H"
	dateLayout    = "2006-01-02"
)

// HatchLog records trays that are about to be pruned from the store.
type HatchLog interface {
	Archive(ctx context.Context, tray models.Tray) error
}

// GoogleSheetHatchLog implements HatchLog using the official Google Sheets API.
type GoogleSheetHatchLog struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetHatchLog builds a Google Sheets backed hatch log.
func NewGoogleSheetHatchLog(ctx context.Context, credentialsPath, spreadsheetID string, logger *zap.Logger) (*GoogleSheetHatchLog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(credentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetHatchLog{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}, nil
}

// Archive appends one tray as a row to the hatch log sheet.
func (l *GoogleSheetHatchLog) Archive(ctx context.Context, tray models.Tray) error {
	removedDate := ""
	if tray.RemovedDate != nil {
		removedDate = tray.RemovedDate.Format(dateLayout)
	}

	values := []interface{}{
		tray.ID,
		string(tray.Door),
		tray.Row,
		string(tray.Position),
		string(tray.EggType),
		tray.AddedDate.Format(dateLayout),
		removedDate,
		tray.Notes,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := l.service.Spreadsheets.Values.Append(l.spreadsheetID, hatchLogRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append tray %s into hatch log: %w", tray.ID, err)
	}

	l.logger.Debug("tray archived to hatch log", zap.String("tray_id", tray.ID))
	return nil
}
