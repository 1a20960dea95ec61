package application

import (
	"fmt"
	"sync"

	"m5cup/internal/models"
	"m5cup/internal/repository"
	"m5cup/pkg/sheets"

	"github.com/xuri/excelize/v2"
)

const (
	exportSheetName = "Команды"
	sheetTitle      = "M5 Domination Cup — регистрации"
	sheetClearRange = "A1:Z10000"
	sheetStartCell  = "A1"
)

type ExportService interface {
	// BuildExcelReport renders every registration into an xlsx, one row
	// per player.
	BuildExcelReport() ([]byte, error)
	// SyncToSheet publishes the registration table to the Google
	// Spreadsheet, creating it on first use, and returns its URL.
	SyncToSheet() (string, error)
}

type ExportServiceImpl struct {
	repo         repository.Registration
	sheetsClient sheets.Client
	ownerEmail   string
	logger       Logger

	mu             sync.Mutex
	spreadsheetID  string
	spreadsheetURL string
}

func NewExportServiceImpl(repo repository.Registration, sheetsClient sheets.Client, ownerEmail string, logger Logger) *ExportServiceImpl {
	return &ExportServiceImpl{
		repo:         repo,
		sheetsClient: sheetsClient,
		ownerEmail:   ownerEmail,
		logger:       logger,
	}
}

var exportHeaders = []string{"ID", "Команда", "Статус", "Дата регистрации", "Капитан", "Игрок", "Юзернейм", "Комментарий"}

func (s *ExportServiceImpl) BuildExcelReport() ([]byte, error) {
	teams, err := s.repo.GetAllTeams()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	f.NewSheet(exportSheetName)
	f.DeleteSheet("Sheet1")

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheetName, cell, h)
	}

	rowNum := 2
	for _, t := range teams {
		for _, r := range teamRows(t) {
			for col, v := range r {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
				f.SetCellValue(exportSheetName, cell, v)
			}
			rowNum++
		}
	}

	f.SetColWidth(exportSheetName, "A", "A", 6)
	f.SetColWidth(exportSheetName, "B", "B", 24)
	f.SetColWidth(exportSheetName, "C", "E", 18)
	f.SetColWidth(exportSheetName, "F", "H", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ExportServiceImpl) SyncToSheet() (string, error) {
	if s.sheetsClient == nil {
		return "", fmt.Errorf("google sheets client is not configured")
	}

	teams, err := s.repo.GetAllTeams()
	if err != nil {
		return "", err
	}

	url, err := s.ensureSpreadsheet()
	if err != nil {
		return "", err
	}

	rows := [][]interface{}{toRow(exportHeaders)}
	for _, t := range teams {
		for _, r := range teamRows(t) {
			rows = append(rows, r)
		}
	}

	if err := s.sheetsClient.Clear(s.spreadsheetID, sheetClearRange); err != nil {
		s.logger.Error("failed to clear sheet: %v", err)
	}
	if err := s.sheetsClient.Write(s.spreadsheetID, sheetStartCell, rows); err != nil {
		return "", fmt.Errorf("failed to update sheet: %w", err)
	}

	return url, nil
}

func (s *ExportServiceImpl) ensureSpreadsheet() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spreadsheetID != "" {
		return s.spreadsheetURL, nil
	}

	id, url, err := s.sheetsClient.Create(sheetTitle)
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	if err := s.sheetsClient.Share(id, s.ownerEmail); err != nil {
		return "", fmt.Errorf("failed to share spreadsheet: %w", err)
	}

	s.spreadsheetID = id
	s.spreadsheetURL = url
	return url, nil
}

// teamRows flattens a team into one export row per player.
func teamRows(t models.Team) [][]interface{} {
	comment := ""
	if t.AdminComment != nil {
		comment = *t.AdminComment
	}
	date := t.RegistrationDate.Format("02.01.2006 15:04")

	var rows [][]interface{}
	for _, p := range t.Players {
		rows = append(rows, []interface{}{
			t.ID, t.Name, t.Status, date, t.CaptainContact, p.Nickname, "@" + p.TelegramUsername, comment,
		})
	}
	return rows
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
