package binning

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// NullCode marks a record that belongs to no category.
const NullCode = -1

// Categorical is an ordered categorical column. Codes index into Categories.
type Categorical struct {
	Name       string
	Categories []string
	Codes      []int
}

// Len returns the number of records.
func (c *Categorical) Len() int {
	return len(c.Codes)
}

// Label returns the category of record i; ok is false for null records.
func (c *Categorical) Label(i int) (string, bool) {
	code := c.Codes[i]
	if code == NullCode {
		return "", false
	}
	return c.Categories[code], true
}

// Labels returns the category label per record, using nullLabel for null records.
func (c *Categorical) Labels(nullLabel string) []string {
	out := make([]string, len(c.Codes))
	for i := range c.Codes {
		if label, ok := c.Label(i); ok {
			out[i] = label
		} else {
			out[i] = nullLabel
		}
	}
	return out
}

// IndexOf returns the position of label in Categories, or -1.
func (c *Categorical) IndexOf(label string) int {
	return slices.Index(c.Categories, label)
}

// Counts returns the number of records per category, in category order.
func (c *Categorical) Counts() []int {
	counts := make([]int, len(c.Categories))
	for _, code := range c.Codes {
		if code != NullCode {
			counts[code]++
		}
	}
	return counts
}

// NullCount returns the number of records without a category.
func (c *Categorical) NullCount() int {
	n := 0
	for _, code := range c.Codes {
		if code == NullCode {
			n++
		}
	}
	return n
}

// addCategory appends label and returns its code. The label must be new.
func (c *Categorical) addCategory(label string) (int, error) {
	if c.IndexOf(label) >= 0 {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateCategory, label)
	}
	return c.appendCategory(label), nil
}

// appendCategory appends label and returns its code, even when another
// category already reads the same.
func (c *Categorical) appendCategory(label string) int {
	c.Categories = append(c.Categories, label)
	return len(c.Categories) - 1
}

// reorder rearranges the categories so that order[i] becomes category i.
// order must be a permutation of the current category positions.
func (c *Categorical) reorder(order []int) {
	remap := make([]int, len(order))
	cats := make([]string, len(order))
	for newPos, oldPos := range order {
		remap[oldPos] = newPos
		cats[newPos] = c.Categories[oldPos]
	}
	for i, code := range c.Codes {
		if code != NullCode {
			c.Codes[i] = remap[code]
		}
	}
	c.Categories = cats
}

// FromValues builds a categorical with one category per distinct non-missing value,
// ordered ascending. Missing values become null records.
func FromValues(v Variable) *Categorical {
	levels := uniqueSorted(v.Values)
	cat := &Categorical{
		Name:       v.Name,
		Categories: make([]string, len(levels)),
		Codes:      make([]int, len(v.Values)),
	}
	for i, level := range levels {
		cat.Categories[i] = formatLiteral(level)
	}
	for i, x := range v.Values {
		if math.IsNaN(x) {
			cat.Codes[i] = NullCode
			continue
		}
		pos, _ := slices.BinarySearch(levels, x)
		cat.Codes[i] = pos
	}
	return cat
}

// formatLiteral renders a value with the fewest digits that round-trip.
func formatLiteral(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
