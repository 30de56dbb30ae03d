package contract

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ParseStringList splits a comma-separated list, dropping blank entries.
func ParseStringList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseFloatList parses a comma-separated list of numbers such as "1, 22.5,50".
// An empty string yields a nil slice.
func ParseFloatList(s string) ([]float64, error) {
	var out []float64
	for _, part := range ParseStringList(s) {
		x, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number '%s'", part)
		}
		out = append(out, x)
	}
	return out, nil
}

// ParseBoolList parses a comma-separated list of booleans accepted by ParseBoolString.
func ParseBoolList(s string) ([]bool, error) {
	var out []bool
	for _, part := range ParseStringList(s) {
		b, err := ParseBoolString(part)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
