// Package sheets reads tabs of the planning spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/Ever-fnf/imc/pkg/errors"
	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// Source is the spreadsheet surface the stages depend on.
type Source interface {
	// Values returns every cell of the tab as text, rows padded to equal width.
	Values(ctx context.Context, tab string) ([][]string, error)
	// Records returns the tab as header-keyed records.
	Records(ctx context.Context, tab string) ([]*models.Record, error)
}

// Client reads a single spreadsheet through the Sheets v4 API.
type Client struct {
	srv           *sheetsv4.Service
	spreadsheetID string
	log           *logrus.Entry
}

// NewClient builds a read-only client from the sheets configuration.
// Extra options are appended after the credentials.
func NewClient(ctx context.Context, cfg models.Sheets, log *logrus.Entry, opts ...option.ClientOption) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, apperrors.MissingConfig("sheets.spreadsheet_id")
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheetsv4.SpreadsheetsReadonlyScope)}
	switch {
	case cfg.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	srv, err := sheetsv4.NewService(ctx, clientOpts...)
	if err != nil {
		appErr := apperrors.New(apperrors.ErrCodeSourceAuth, "Failed to create Sheets client").
			WithSuggestions("Check that the service account key is valid JSON")
		appErr.Cause = err
		return nil, appErr
	}

	return &Client{
		srv:           srv,
		spreadsheetID: cfg.SpreadsheetID,
		log:           log.WithField("spreadsheet", cfg.SpreadsheetID),
	}, nil
}

// Values implements Source.
func (c *Client) Values(ctx context.Context, tab string) ([][]string, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, tabRange(tab)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(tab, err)
	}

	values := PadRows(toStrings(resp.Values))
	c.log.WithFields(logrus.Fields{"tab": tab, "rows": len(values)}).Debug("Read tab")
	return values, nil
}

// Records implements Source.
func (c *Client) Records(ctx context.Context, tab string) ([]*models.Record, error) {
	values, err := c.Values(ctx, tab)
	if err != nil {
		return nil, err
	}
	records, err := ToRecords(values)
	if err != nil {
		return nil, apperrors.SourceError(err.Error(), tab, nil).
			WithContext("spreadsheet", c.spreadsheetID)
	}
	return records, nil
}

// tabRange addresses a whole tab; titles are quoted so spaces and
// punctuation survive A1 parsing.
func tabRange(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

func classify(tab string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusNotFound,
			apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range"):
			return apperrors.TabNotFound(tab, err)
		case apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden:
			appErr := apperrors.New(apperrors.ErrCodeSourceAuth, fmt.Sprintf("access to tab %q denied", tab)).
				WithContext("tab", tab).
				WithSuggestions("Share the spreadsheet with the service account email")
			appErr.Cause = err
			return appErr
		}
	}
	return apperrors.SourceError("Failed to read tab", tab, err)
}
