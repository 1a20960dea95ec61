package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client is the Sheets/Drive surface the registration export uses.
type Client interface {
	// Create makes a new spreadsheet and returns its id and URL.
	Create(title string) (spreadsheetID, url string, err error)
	// Share grants write access to ownerEmail (when non-empty) and read
	// access to anyone with the link.
	Share(spreadsheetID, ownerEmail string) error
	Clear(spreadsheetID, rangeStr string) error
	Write(spreadsheetID, startCell string, rows [][]interface{}) error
}

type GoogleClient struct {
	sheets *sheets.Service
	drive  *drive.Service
}

func NewGoogleClient(credentialsPath string) (*GoogleClient, error) {
	ctx := context.Background()

	sheetsSrv, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	driveSrv, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &GoogleClient{
		sheets: sheetsSrv,
		drive:  driveSrv,
	}, nil
}

func (c *GoogleClient) Create(title string) (string, string, error) {
	resp, err := c.sheets.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: title,
		},
	}).Do()
	if err != nil {
		return "", "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}
	return resp.SpreadsheetId, resp.SpreadsheetUrl, nil
}

func (c *GoogleClient) Share(spreadsheetID, ownerEmail string) error {
	if ownerEmail != "" {
		_, err := c.drive.Permissions.Create(spreadsheetID, &drive.Permission{
			Type:         "user",
			Role:         "writer",
			EmailAddress: ownerEmail,
		}).Do()
		if err != nil {
			return fmt.Errorf("failed to grant owner access: %w", err)
		}
	}

	_, err := c.drive.Permissions.Create(spreadsheetID, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Do()
	if err != nil {
		return fmt.Errorf("failed to grant link access: %w", err)
	}
	return nil
}

func (c *GoogleClient) Clear(spreadsheetID, rangeStr string) error {
	_, err := c.sheets.Spreadsheets.Values.Clear(spreadsheetID, rangeStr, &sheets.ClearValuesRequest{}).Do()
	if err != nil {
		return fmt.Errorf("failed to clear range: %w", err)
	}
	return nil
}

func (c *GoogleClient) Write(spreadsheetID, startCell string, rows [][]interface{}) error {
	valRange := &sheets.ValueRange{Values: rows}
	_, err := c.sheets.Spreadsheets.Values.Update(spreadsheetID, startCell, valRange).ValueInputOption("RAW").Do()
	if err != nil {
		return fmt.Errorf("failed to write values: %w", err)
	}
	return nil
}
