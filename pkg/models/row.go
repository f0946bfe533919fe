package models

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Row is one data row of a sheet tab with cells addressed by header name.
// Row sources record every Set so that Save only writes the changed cells.
type Row struct {
	Tab    string // Tab (worksheet) the row belongs to
	Index  int    // 0-based position among the data rows of the tab
	Number int    // 1-based row number in the sheet, the header is row 1

	cells   map[string]string
	changed []string
}

// NewRow builds a row from a header line and the cell values below it.
// Missing trailing cells are treated as blank.
func NewRow(tab string, index, number int, headers, values []string) *Row {
	r := &Row{
		Tab:    tab,
		Index:  index,
		Number: number,
		cells:  make(map[string]string, len(headers)),
	}
	for i, h := range headers {
		key := NormalizeHeader(h)
		if key == "" {
			continue
		}
		if i < len(values) {
			r.cells[key] = values[i]
		} else {
			r.cells[key] = ""
		}
	}
	return r
}

// NormalizeHeader trims a header and brings it to NFC so that umlauts typed
// on different systems address the same column.
func NormalizeHeader(h string) string {
	return norm.NFC.String(strings.TrimSpace(h))
}

// Get returns the trimmed cell value, or "" when the column does not exist
func (r *Row) Get(header string) string {
	return strings.TrimSpace(r.cells[NormalizeHeader(header)])
}

// Has reports whether the tab has a column with this header
func (r *Row) Has(header string) bool {
	_, ok := r.cells[NormalizeHeader(header)]
	return ok
}

// Set changes a cell and marks it for the next save
func (r *Row) Set(header, value string) {
	key := NormalizeHeader(header)
	if r.cells == nil {
		r.cells = make(map[string]string)
	}
	r.cells[key] = value
	for _, c := range r.changed {
		if c == key {
			return
		}
	}
	r.changed = append(r.changed, key)
}

// Changes returns the headers set since the last save, in the order they were set
func (r *Row) Changes() []string {
	out := make([]string, len(r.changed))
	copy(out, r.changed)
	return out
}

// Value returns the raw, untrimmed cell value
func (r *Row) Value(header string) string {
	return r.cells[NormalizeHeader(header)]
}

// MarkSaved clears the change list after a successful save
func (r *Row) MarkSaved() {
	r.changed = nil
}

// IsBlank reports whether every cell of the row is empty
func (r *Row) IsBlank() bool {
	for _, v := range r.cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
