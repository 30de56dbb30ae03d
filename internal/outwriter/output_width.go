package outwriter

import (
	"os"

	"github.com/huangsam/scoretools/internal/contract"
	"golang.org/x/term"
)

// Width bounds for the label column of text tables.
const (
	minLabelWidth = 12
	maxLabelWidth = 60
)

// getMaxLabelWidth calculates the maximum width for row labels in table output
// based on terminal width and the number of value columns.
func getMaxLabelWidth(cfg *contract.Config, valueColumns int) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Each value column needs room for a number plus borders and padding
	baseWidth := valueColumns*(cfg.Precision+10) + 4

	available := termWidth - baseWidth
	return min(max(available, minLabelWidth), maxLabelWidth)
}

// truncateLabel shortens label to maxWidth runes with an ellipsis suffix.
func truncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}
