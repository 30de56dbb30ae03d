// Package xlsx writes summary tables into spreadsheet workbooks.
package xlsx

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/huangsam/scoretools/schema"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is created when a table is written before any worksheet exists.
const DefaultSheet = "Tables"

// Errors returned by the table writer.
var (
	ErrFileExists = errors.New("xlsx: file exists and overwrite is disabled")
	ErrClosed     = errors.New("xlsx: writer is closed")
)

// Cursor is the zero-indexed position of the next table.
type Cursor struct {
	Sheet string // empty means the first worksheet
	Row   int
	Col   int
}

// Below returns the cursor moved down by n rows.
func (c Cursor) Below(n int) Cursor {
	c.Row += n
	return c
}

// WriteOptions controls how a single table is laid out.
type WriteOptions struct {
	Index bool // write row labels as the first column
}

type styleKey struct {
	style Style
	kind  cellKind
}

// TableWriter accumulates tables in one workbook and saves it on Close.
type TableWriter struct {
	path   string
	temp   bool
	file   *excelize.File
	sheets []string
	styles map[styleKey]int

	mu       sync.Mutex
	once     sync.Once
	closed   bool
	closeErr error
}

// NewTableWriter opens a workbook that will be saved to path. An empty path
// writes to a new temporary file. An existing file is only replaced when overwrite is set.
func NewTableWriter(path string, overwrite bool) (*TableWriter, error) {
	temp := false
	if path == "" {
		f, err := os.CreateTemp("", "scoretools-*.xlsx")
		if err != nil {
			return nil, fmt.Errorf("xlsx: failed to create temporary workbook: %w", err)
		}
		path = f.Name()
		_ = f.Close()
		temp = true
	} else if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrFileExists, path)
		}
	}

	w := &TableWriter{
		path:   path,
		temp:   temp,
		file:   excelize.NewFile(),
		styles: make(map[styleKey]int),
	}
	register(w)
	return w, nil
}

// Path returns the file the workbook is saved to.
func (w *TableWriter) Path() string {
	return w.path
}

// Temporary reports whether the workbook path was generated.
func (w *TableWriter) Temporary() bool {
	return w.temp
}

// AddWorksheet creates sheet if it does not exist yet.
func (w *TableWriter) AddWorksheet(sheet string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.addWorksheet(sheet)
}

func (w *TableWriter) addWorksheet(sheet string) error {
	if slices.Contains(w.sheets, sheet) {
		return nil
	}
	if len(w.sheets) == 0 {
		// A new workbook carries one unnamed sheet that becomes the first worksheet.
		if err := w.file.SetSheetName(w.file.GetSheetList()[0], sheet); err != nil {
			return fmt.Errorf("xlsx: failed to name worksheet %q: %w", sheet, err)
		}
	} else if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx: failed to add worksheet %q: %w", sheet, err)
	}
	w.sheets = append(w.sheets, sheet)
	return nil
}

// WorksheetNames lists the worksheets in creation order.
func (w *TableWriter) WorksheetNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.sheets)
}

// WriteTable writes t at cur and returns the cursor below it, leaving style.Gap blank rows.
// The header row holds the index name followed by the column names.
func (w *TableWriter) WriteTable(cur Cursor, t schema.Table, style Style, opts WriteOptions) (Cursor, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return cur, ErrClosed
	}
	if cur.Row < 0 || cur.Col < 0 {
		return cur, fmt.Errorf("xlsx: invalid cursor position (%d, %d)", cur.Row, cur.Col)
	}

	switch {
	case cur.Sheet == "" && len(w.sheets) > 0:
		cur.Sheet = w.sheets[0]
	case cur.Sheet == "":
		cur.Sheet = DefaultSheet
	}
	if err := w.addWorksheet(cur.Sheet); err != nil {
		return cur, err
	}

	header, err := w.styleID(style, headerCell)
	if err != nil {
		return cur, err
	}

	col := cur.Col
	if opts.Index {
		if err := w.setCell(cur.Sheet, cur.Row, col, t.Index, header); err != nil {
			return cur, err
		}
		width := utf8.RuneCountInString(t.Index)
		for i, r := range t.Rows {
			if err := w.setCell(cur.Sheet, cur.Row+1+i, col, r.Label, header); err != nil {
				return cur, err
			}
			width = max(width, utf8.RuneCountInString(r.Label))
		}
		if err := w.fitColumn(cur.Sheet, col, width); err != nil {
			return cur, err
		}
		col++
	}

	for j, name := range t.Columns {
		if err := w.setCell(cur.Sheet, cur.Row, col+j, name, header); err != nil {
			return cur, err
		}
		kind := dataCell
		if style.Formats.IsPercent(name) {
			kind = percentCell
		}
		for i, r := range t.Rows {
			if j >= len(r.Values) {
				continue
			}
			cellKind := kind
			if _, isFloat := r.Values[j].(float64); isFloat && kind == dataCell {
				cellKind = decimalCell
			}
			id, err := w.styleID(style, cellKind)
			if err != nil {
				return cur, err
			}
			if err := w.setCell(cur.Sheet, cur.Row+1+i, col+j, r.Values[j], id); err != nil {
				return cur, err
			}
		}
	}

	return cur.Below(len(t.Rows) + 1 + style.Gap), nil
}

// styleID returns the workbook style for one kind of cell, creating it on first use.
func (w *TableWriter) styleID(style Style, kind cellKind) (int, error) {
	key := styleKey{style: style, kind: kind}
	if id, ok := w.styles[key]; ok {
		return id, nil
	}
	id, err := w.file.NewStyle(style.excelStyle(kind))
	if err != nil {
		return 0, fmt.Errorf("xlsx: failed to create style: %w", err)
	}
	w.styles[key] = id
	return id, nil
}

func (w *TableWriter) setCell(sheet string, row, col int, value any, styleID int) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if f, ok := value.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		value = ""
	}
	if err := w.file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("xlsx: failed to write %s!%s: %w", sheet, cell, err)
	}
	return w.file.SetCellStyle(sheet, cell, cell, styleID)
}

func (w *TableWriter) fitColumn(sheet string, col, chars int) error {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return w.file.SetColWidth(sheet, name, name, float64(max(chars, 8)+2))
}

// Close saves the workbook. Only the first call does any work; later calls
// return the same result.
func (w *TableWriter) Close() error {
	w.once.Do(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.closed = true
		unregister(w)
		if len(w.sheets) == 0 {
			if err := w.addWorksheet(DefaultSheet); err != nil {
				w.closeErr = err
				return
			}
		}
		if err := w.file.SaveAs(w.path); err != nil {
			w.closeErr = fmt.Errorf("xlsx: failed to save %s: %w", w.path, err)
		}
		if err := w.file.Close(); err != nil && w.closeErr == nil {
			w.closeErr = err
		}
	})
	return w.closeErr
}

// Discard closes the workbook without saving it, leaving any existing file at
// the path untouched. A generated temporary file is removed. Later calls to
// Close or Discard do nothing.
func (w *TableWriter) Discard() error {
	w.once.Do(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.closed = true
		unregister(w)
		if w.temp {
			if err := os.Remove(w.path); err != nil && !errors.Is(err, os.ErrNotExist) {
				w.closeErr = err
			}
		}
		if err := w.file.Close(); err != nil && w.closeErr == nil {
			w.closeErr = err
		}
	})
	return w.closeErr
}
