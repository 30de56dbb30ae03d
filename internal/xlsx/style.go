package xlsx

import (
	"fmt"
	"regexp"

	"github.com/xuri/excelize/v2"
)

// DefaultPercentKeys matches column headers whose values are shares or rates.
const DefaultPercentKeys = `percent|pct|%|rate`

// Built-in excelize number formats.
const (
	percentNumFmt = 10 // 0.00%
	decimalNumFmt = 2  // 0.00
)

// FormatHandler decides the number format of a column from its header.
type FormatHandler struct {
	pct *regexp.Regexp
}

// NewFormatHandler compiles keys, a regular expression matched case-insensitively
// against column headers to detect percent columns.
func NewFormatHandler(keys string) (*FormatHandler, error) {
	re, err := regexp.Compile("(?i)" + keys)
	if err != nil {
		return nil, fmt.Errorf("xlsx: invalid percent keys %q: %w", keys, err)
	}
	return &FormatHandler{pct: re}, nil
}

// IsPercent reports whether column holds percentages.
func (h *FormatHandler) IsPercent(column string) bool {
	return h != nil && h.pct.MatchString(column)
}

var defaultFormats, _ = NewFormatHandler(DefaultPercentKeys)

// Style is the immutable formatting applied by one WriteTable call.
type Style struct {
	FontFamily  string
	HeaderColor string
	HeaderBold  bool
	Border      int
	Formats     *FormatHandler
	Gap         int // blank rows left below each table
}

// DefaultStyle is bold Calibri headers on a lavender fill with thin borders.
func DefaultStyle() Style {
	return Style{
		FontFamily:  "Calibri",
		HeaderColor: "#e5d9fc",
		HeaderBold:  true,
		Border:      1,
		Formats:     defaultFormats,
		Gap:         1,
	}
}

// WithHeaderColor returns a copy of s with a different header fill.
func (s Style) WithHeaderColor(color string) Style {
	s.HeaderColor = color
	return s
}

// WithFormats returns a copy of s using h for number formats.
func (s Style) WithFormats(h *FormatHandler) Style {
	s.Formats = h
	return s
}

// cellKind distinguishes the excelize styles derived from one Style.
type cellKind int

const (
	headerCell cellKind = iota
	dataCell
	percentCell
	decimalCell
)

func (s Style) borders() []excelize.Border {
	if s.Border == 0 {
		return nil
	}
	out := make([]excelize.Border, 0, 4)
	for _, side := range []string{"left", "top", "right", "bottom"} {
		out = append(out, excelize.Border{Type: side, Color: "000000", Style: s.Border})
	}
	return out
}

// excelStyle renders s for one kind of cell.
func (s Style) excelStyle(kind cellKind) *excelize.Style {
	es := &excelize.Style{
		Border: s.borders(),
		Font:   &excelize.Font{Family: s.FontFamily},
	}
	switch kind {
	case headerCell:
		es.Font.Bold = s.HeaderBold
		if s.HeaderColor != "" {
			es.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.HeaderColor}}
		}
	case percentCell:
		es.NumFmt = percentNumFmt
	case decimalCell:
		es.NumFmt = decimalNumFmt
	}
	return es
}
