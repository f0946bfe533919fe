package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"invoicer/internal/gcp"
	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

// Service reads and writes back rows of a Google spreadsheet
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger

	mu      sync.Mutex
	headers map[string][]string // normalized header line per tab, as last read
}

// NewSheetsService creates a new Google Sheets service
func NewSheetsService(ctx context.Context, sheetURL string) (*Service, error) {
	const op = "NewSheetsService"

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}

	client, err := gcp.HTTPClient(ctx, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return newService(sheetsService, spreadsheetID), nil
}

func newService(svc *sheets.Service, spreadsheetID string) *Service {
	log := logger.WithComponent("sheets")
	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Using spreadsheet")

	return &Service{
		sheetsService: svc,
		spreadsheetID: spreadsheetID,
		log:           log,
		headers:       make(map[string][]string),
	}
}

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

// quoteTab quotes a tab name for A1 notation
func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

// cellRange returns the A1 reference of a single cell, both coordinates 1-based
func cellRange(tab string, col, row int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return quoteTab(tab) + "!" + cell, nil
}

// Rows reads a whole tab. The first line holds the headers.
func (s *Service) Rows(ctx context.Context, tab string) ([]*models.Row, error) {
	const op = "Rows"

	values, err := s.ReadRange(ctx, quoteTab(tab))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(values) == 0 {
		s.log.Warn().Str("tab", tab).Msg("Tab is empty")
		s.setHeaders(tab, nil)
		return nil, nil
	}

	headers := toStrings(values[0])
	s.setHeaders(tab, headers)

	rows := make([]*models.Row, 0, len(values)-1)
	for i, raw := range values[1:] {
		row := models.NewRow(tab, len(rows), i+2, headers, toStrings(raw))
		if row.IsBlank() {
			continue
		}
		rows = append(rows, row)
	}

	s.log.Debug().
		Str("tab", tab).
		Int("rows", len(rows)).
		Msg("Read tab")

	return rows, nil
}

// Save writes the changed cells of a row in one batch update
func (s *Service) Save(ctx context.Context, row *models.Row) error {
	const op = "Save"

	changes := row.Changes()
	if len(changes) == 0 {
		return nil
	}

	headers, ok := s.headersOf(row.Tab)
	if !ok {
		return fmt.Errorf("%s: tab %q has not been read", op, row.Tab)
	}

	data := make([]*sheets.ValueRange, 0, len(changes))
	for _, h := range changes {
		col := indexOf(headers, h)
		if col < 0 {
			return fmt.Errorf("%s: tab %q has no column %q", op, row.Tab, h)
		}
		rng, err := cellRange(row.Tab, col+1, row.Number)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		data = append(data, &sheets.ValueRange{
			Range:  rng,
			Values: [][]interface{}{{row.Value(h)}},
		})
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	if _, err := s.sheetsService.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%s: failed to update row %d of %s: %w", op, row.Number, row.Tab, err)
	}

	row.MarkSaved()

	s.log.Debug().
		Str("tab", row.Tab).
		Int("row", row.Number).
		Strs("columns", changes).
		Msg("Row saved")

	return nil
}

// ReadRange reads values from a specified range in the spreadsheet
func (s *Service) ReadRange(ctx context.Context, rangeSpec string) ([][]interface{}, error) {
	const op = "ReadRange"

	s.log.Debug().
		Str("range", rangeSpec).
		Msg("Reading range from spreadsheet")

	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read range %s: %w", op, rangeSpec, err)
	}

	return resp.Values, nil
}

func (s *Service) setHeaders(tab string, headers []string) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = models.NormalizeHeader(h)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers[tab] = normalized
}

func (s *Service) headersOf(tab string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.headers[tab]
	return h, ok
}

func indexOf(headers []string, header string) int {
	key := models.NormalizeHeader(header)
	for i, h := range headers {
		if h == key {
			return i
		}
	}
	return -1
}

func toStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if c == nil {
			continue
		}
		out[i] = fmt.Sprint(c)
	}
	return out
}
