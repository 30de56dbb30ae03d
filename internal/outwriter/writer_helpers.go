package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/huangsam/scoretools/internal/contract"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		logWrote(successMsg, outputFile)
	}
	return nil
}

// logWrote reports a finished file write on stderr.
func logWrote(successMsg, outputFile string) {
	_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return writeRows(csvWriter)
}

// valueFormatter renders one table cell as text.
type valueFormatter func(v any) string

// newValueFormatter prints floats with a fixed number of decimals, integers as
// integers and missing floats as an empty string.
func newValueFormatter(precision int) valueFormatter {
	return func(v any) string {
		switch x := v.(type) {
		case float64:
			if math.IsNaN(x) {
				return ""
			}
			return strconv.FormatFloat(x, 'f', precision, 64)
		case int:
			return strconv.Itoa(x)
		case nil:
			return ""
		default:
			return fmt.Sprint(x)
		}
	}
}

// jsonNumber replaces values JSON cannot encode.
func jsonNumber(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}
