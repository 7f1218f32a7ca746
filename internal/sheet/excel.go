// Package sheet reads spreadsheet menus into records for the text pipeline.
package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrNoSheets = errors.New("workbook has no sheets")

// Reader turns the first worksheet of a workbook into records keyed by the
// header row.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Rows reads data as an .xlsx workbook. Blank header cells are named
// "Unnamed: <col>" and rows with no values are skipped.
func (r *Reader) Rows(data []byte) ([]map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []map[string]string{}, nil
	}

	// GetRows drops trailing empty cells, so the widest row sets the width.
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	header := make([]string, width)
	for i := range header {
		h := ""
		if i < len(rows[0]) {
			h = strings.TrimSpace(rows[0][i])
		}
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		header[i] = h
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		empty := true
		for i, name := range header {
			v := ""
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			if v != "" {
				empty = false
			}
			rec[name] = v
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records, nil
}
