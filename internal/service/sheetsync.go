package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/skillOfill/razorpay-backend/internal/config"
	"github.com/skillOfill/razorpay-backend/internal/model"
)

// SheetSync appends each issued license to a Google Sheet so there is an
// audit ledger outside the database. It is optional: a nil *SheetSync is a
// valid no-op collaborator, and sync failures are logged but never surfaced
// to the webhook caller.
type SheetSync struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	log           *slog.Logger
}

func NewSheetSync(cfg config.SheetsConfig, log *slog.Logger) (*SheetSync, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	ctx := context.Background()

	b, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read sheets credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("load sheets credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetSync{
		service:       srv,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		log:           log,
	}, nil
}

// AppendLicense records one issued license as a new sheet row.
func (s *SheetSync) AppendLicense(lic *model.LicenseKey) error {
	if s == nil {
		return nil
	}

	row := []interface{}{
		lic.LicenseKey,
		lic.Email,
		deref(lic.OrderID),
		deref(lic.PaymentID),
		lic.CreatedAt.Format(time.RFC3339),
	}

	_, err := s.service.Spreadsheets.Values.Append(
		s.spreadsheetID,
		s.sheetName+"!A2:E",
		&sheets.ValueRange{Values: [][]interface{}{row}},
	).ValueInputOption("USER_ENTERED").Do()
	if err != nil {
		s.log.Error("sheet sync failed", "error", err, "key_prefix", keyPrefixForLog(lic.LicenseKey))
		return err
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
