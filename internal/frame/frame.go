// Package frame loads delimited files into an in-memory column store.
package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/scoretools/core/binning"
)

// Errors returned by Frame lookups.
var (
	ErrColumnNotFound = errors.New("frame: column not found")
	ErrNotNumeric     = errors.New("frame: column is not numeric")
	ErrEmptyInput     = errors.New("frame: input has no header row")
)

// missingTokens are cell values read as missing.
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"nan":  {},
	"null": {},
	"none": {},
	".":    {},
}

// Frame is a column-oriented table of raw string cells with numeric views.
type Frame struct {
	columns []string
	cells   map[string][]string
	rows    int
}

// New builds a frame from named numeric columns of equal length.
func New(columns []string, values map[string][]float64) (*Frame, error) {
	f := &Frame{columns: slices.Clone(columns), cells: make(map[string][]string, len(columns))}
	for i, name := range columns {
		col, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
		}
		if i == 0 {
			f.rows = len(col)
		} else if len(col) != f.rows {
			return nil, fmt.Errorf("frame: column %s has %d rows, expected %d", name, len(col), f.rows)
		}
		cells := make([]string, len(col))
		for j, x := range col {
			if !math.IsNaN(x) {
				cells[j] = strconv.FormatFloat(x, 'f', -1, 64)
			}
		}
		f.cells[name] = cells
	}
	return f, nil
}

// ReadCSV reads a header row followed by data rows.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	f := &Frame{cells: make(map[string][]string, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := f.cells[name]; dup {
			return nil, fmt.Errorf("frame: duplicate column %q", name)
		}
		f.columns = append(f.columns, name)
		f.cells[name] = nil
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", f.rows+2, err)
		}
		for i, name := range f.columns {
			f.cells[name] = append(f.cells[name], strings.TrimSpace(record[i]))
		}
		f.rows++
	}
	return f, nil
}

// Load reads the CSV file at path.
func Load(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()
	return ReadCSV(file)
}

// Columns returns the column names in file order.
func (f *Frame) Columns() []string {
	return slices.Clone(f.columns)
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return f.rows
}

// Has reports whether the frame has the named column.
func (f *Frame) Has(name string) bool {
	_, ok := f.cells[name]
	return ok
}

// Numeric parses the named column. Missing cells become NaN.
func (f *Frame) Numeric(name string) ([]float64, error) {
	cells, ok := f.cells[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	out := make([]float64, len(cells))
	for i, cell := range cells {
		if _, missing := missingTokens[strings.ToLower(cell)]; missing {
			out[i] = math.NaN()
			continue
		}
		x, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d value %q", ErrNotNumeric, name, i+1, cell)
		}
		out[i] = x
	}
	return out, nil
}

// Variable returns the named column as a binning variable.
func (f *Frame) Variable(name string) (binning.Variable, error) {
	values, err := f.Numeric(name)
	if err != nil {
		return binning.Variable{}, err
	}
	return binning.Variable{Name: name, Values: values}, nil
}
