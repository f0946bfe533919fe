// Package workbook reads order data from a local .xlsx file and writes the
// assigned invoice numbers back into it.
package workbook

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

// Workbook is a row source backed by an .xlsx file
type Workbook struct {
	path string
	log  zerolog.Logger

	mu      sync.Mutex
	file    *excelize.File
	headers map[string][]string
}

// Open opens an existing workbook
func Open(path string) (*Workbook, error) {
	const op = "Open"

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open workbook %s: %w", op, path, err)
	}

	log := logger.WithComponent("workbook")
	log.Debug().
		Str("path", path).
		Strs("tabs", f.GetSheetList()).
		Msg("Workbook opened")

	return &Workbook{
		path:    path,
		log:     log,
		file:    f,
		headers: make(map[string][]string),
	}, nil
}

// Close releases the workbook
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// Rows reads a whole tab. The first line holds the headers.
func (w *Workbook) Rows(_ context.Context, tab string) ([]*models.Row, error) {
	const op = "Rows"

	w.mu.Lock()
	defer w.mu.Unlock()

	values, err := w.file.GetRows(tab)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read tab %s: %w", op, tab, err)
	}
	if len(values) == 0 {
		w.log.Warn().Str("tab", tab).Msg("Tab is empty")
		w.headers[tab] = nil
		return nil, nil
	}

	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = models.NormalizeHeader(h)
	}
	w.headers[tab] = headers

	rows := make([]*models.Row, 0, len(values)-1)
	for i, raw := range values[1:] {
		row := models.NewRow(tab, len(rows), i+2, headers, raw)
		if row.IsBlank() {
			continue
		}
		rows = append(rows, row)
	}

	w.log.Debug().
		Str("tab", tab).
		Int("rows", len(rows)).
		Msg("Read tab")

	return rows, nil
}

// Save writes the changed cells of a row and saves the file
func (w *Workbook) Save(_ context.Context, row *models.Row) error {
	const op = "Save"

	changes := row.Changes()
	if len(changes) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	headers, ok := w.headers[row.Tab]
	if !ok {
		return fmt.Errorf("%s: tab %q has not been read", op, row.Tab)
	}

	for _, h := range changes {
		col := -1
		for i, name := range headers {
			if name == h {
				col = i
				break
			}
		}
		if col < 0 {
			return fmt.Errorf("%s: tab %q has no column %q", op, row.Tab, h)
		}

		cell, err := excelize.CoordinatesToCellName(col+1, row.Number)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := w.file.SetCellValue(row.Tab, cell, row.Value(h)); err != nil {
			return fmt.Errorf("%s: failed to set %s!%s: %w", op, row.Tab, cell, err)
		}
	}

	if err := w.file.Save(); err != nil {
		return fmt.Errorf("%s: failed to save workbook %s: %w", op, w.path, err)
	}

	row.MarkSaved()

	w.log.Debug().
		Str("tab", row.Tab).
		Int("row", row.Number).
		Strs("columns", changes).
		Msg("Row saved")

	return nil
}
