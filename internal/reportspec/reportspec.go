// Package reportspec reads YAML report definitions: the source file, the
// workbook to write and the tables to put in it.
package reportspec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/scoretools/core/binning"
	"github.com/huangsam/scoretools/core/tables"
	"github.com/huangsam/scoretools/schema"
	"gopkg.in/yaml.v3"
)

// DefaultBins is the bin count used when neither a report nor its defaults give one.
const DefaultBins = 10

// ErrInvalidReport is wrapped by every validation failure.
var ErrInvalidReport = errors.New("reportspec: invalid report")

// Report is a full report definition.
type Report struct {
	Source      string      `yaml:"source"`
	Output      string      `yaml:"output"` // empty writes a temporary workbook
	Overwrite   bool        `yaml:"overwrite"`
	Sheet       string      `yaml:"sheet"`
	HeaderColor string      `yaml:"header_color"`
	PercentKeys string      `yaml:"percent_keys"`
	Defaults    Binning     `yaml:"defaults"`
	Tables      []TableSpec `yaml:"tables"`
}

// Binning holds the break method settings shared by a report and its tables.
// Unset fields fall back to the report defaults.
type Binning struct {
	Method      schema.BreakMethod `yaml:"method"`
	Bins        *Bins              `yaml:"bins"`
	Percentiles []float64          `yaml:"percentiles"`
	Exceptions  []float64          `yaml:"exceptions"`
	Digits      *int               `yaml:"digits"`
	CleanCuts   *bool              `yaml:"clean_cuts"`
	FillNA      *string            `yaml:"fill_na"`
	DropNA      *bool              `yaml:"drop_na"`
	NALast      *bool              `yaml:"na_last"`
}

// TableSpec is one entry of a report. Which fields apply depends on Kind.
type TableSpec struct {
	Kind      schema.TableKind `yaml:"kind"`
	Sheet     string           `yaml:"sheet"`
	Variables List[string]     `yaml:"variables"`
	Perf      List[string]     `yaml:"perf"`
	Extra     List[string]     `yaml:"extra"`
	Scores    List[string]     `yaml:"scores"`
	Ascending List[bool]       `yaml:"ascending"`
	DOF       float64          `yaml:"dof"`
	Chart     string           `yaml:"chart"`
	Binning   `yaml:",inline"`
}

// Bins is a BinSpec read from either a scalar count or a list of cut points.
type Bins struct {
	binning.BinSpec
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *Bins) UnmarshalYAML(node *yaml.Node) error {
	spec, err := decodeBinSpec(node)
	if err != nil {
		return err
	}
	b.BinSpec = spec
	return nil
}

// decodeBinSpec reads "bins: 5" as a count and "bins: [0, 10, 20]" as cut points.
func decodeBinSpec(node *yaml.Node) (binning.BinSpec, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var n int
		if err := node.Decode(&n); err != nil {
			return binning.BinSpec{}, fmt.Errorf("line %d: bins must be an integer or a list of numbers: %w", node.Line, err)
		}
		spec := binning.BinCount(n)
		return spec, spec.Validate()
	case yaml.SequenceNode:
		var cuts []float64
		if err := node.Decode(&cuts); err != nil {
			return binning.BinSpec{}, fmt.Errorf("line %d: bins must be an integer or a list of numbers: %w", node.Line, err)
		}
		return binning.BinCuts(cuts...), nil
	default:
		return binning.BinSpec{}, fmt.Errorf("line %d: bins must be an integer or a list of numbers", node.Line)
	}
}

// List accepts a single value where a list is expected.
type List[T any] []T

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *List[T]) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v T
		if err := node.Decode(&v); err != nil {
			return err
		}
		*l = List[T]{v}
	case yaml.SequenceNode:
		var vs []T
		if err := node.Decode(&vs); err != nil {
			return err
		}
		*l = vs
	default:
		return fmt.Errorf("line %d: expected a value or a list", node.Line)
	}
	return nil
}

// Load reads and validates the report at path. A relative source is resolved
// against the directory of the report file.
func Load(path string) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	r, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if r.Source != "" && !filepath.IsAbs(r.Source) {
		r.Source = filepath.Join(filepath.Dir(path), r.Source)
	}
	return r, nil
}

// Parse decodes and validates a report. Unknown keys are rejected.
func Parse(r io.Reader) (*Report, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var report Report
	if err := dec.Decode(&report); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidReport)
		}
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	return &report, nil
}

// Validate checks that every table has the fields its kind needs.
func (r *Report) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return fmt.Errorf("%w: source is required", ErrInvalidReport)
	}
	if len(r.Tables) == 0 {
		return fmt.Errorf("%w: no tables", ErrInvalidReport)
	}
	if err := r.Defaults.validate(); err != nil {
		return fmt.Errorf("%w: defaults: %v", ErrInvalidReport, err)
	}
	for i, t := range r.Tables {
		if err := t.validate(); err != nil {
			return fmt.Errorf("%w: table %d (%s): %v", ErrInvalidReport, i+1, t.Kind, err)
		}
	}
	return nil
}

func (b Binning) validate() error {
	if b.Method == "" {
		return nil
	}
	if _, ok := schema.ValidBreakMethods[b.Method]; !ok {
		return fmt.Errorf("unknown method %q", b.Method)
	}
	return nil
}

func (t TableSpec) validate() error {
	if _, ok := schema.ValidTableKinds[t.Kind]; !ok {
		return fmt.Errorf("unknown kind %q (expected freq, bivar or gains)", t.Kind)
	}
	if err := t.Binning.validate(); err != nil {
		return err
	}
	switch t.Kind {
	case schema.FreqKind:
		if len(t.Variables) == 0 {
			return errors.New("variables are required")
		}
	case schema.BivarKind:
		if len(t.Variables) == 0 || len(t.Perf) == 0 {
			return errors.New("variables and perf are required")
		}
	case schema.GainsKind:
		if len(t.Scores) == 0 || len(t.Perf) == 0 {
			return errors.New("scores and perf are required")
		}
		if len(t.Ascending) > 1 && len(t.Ascending) != len(t.Scores) {
			return fmt.Errorf("ascending must have 1 or %d values", len(t.Scores))
		}
		if t.DOF < 0 || t.DOF > 1 {
			return fmt.Errorf("dof must be in (0, 1] (received %v)", t.DOF)
		}
	}
	return nil
}

// Merge fills the unset fields of b from defaults.
func (b Binning) Merge(defaults Binning) Binning {
	out := b
	if out.Method == "" {
		out.Method = defaults.Method
	}
	if out.Bins == nil {
		out.Bins = defaults.Bins
	}
	if out.Percentiles == nil {
		out.Percentiles = defaults.Percentiles
	}
	if out.Exceptions == nil {
		out.Exceptions = defaults.Exceptions
	}
	if out.Digits == nil {
		out.Digits = defaults.Digits
	}
	if out.CleanCuts == nil {
		out.CleanCuts = defaults.CleanCuts
	}
	if out.FillNA == nil {
		out.FillNA = defaults.FillNA
	}
	if out.DropNA == nil {
		out.DropNA = defaults.DropNA
	}
	if out.NALast == nil {
		out.NALast = defaults.NALast
	}
	return out
}

// method returns the configured method or infers one from the arguments given.
func (b Binning) method() schema.BreakMethod {
	switch {
	case b.Method != "":
		return b.Method
	case len(b.Percentiles) > 0:
		return schema.PercentileBreak
	default:
		return schema.CleanCutBreak
	}
}

// Breaker builds the break method for a table.
func (b Binning) Breaker() tables.Breaker {
	spec := binning.BinCount(DefaultBins)
	if b.Bins != nil {
		spec = b.Bins.BinSpec
	}

	args := tables.BreakArgs{Cut: binning.DefaultCutOptions()}
	switch method := b.method(); {
	case method == schema.PercentileBreak:
		args.Values = b.Percentiles
	case spec.Kind == binning.SpecCuts:
		args.Values = spec.Cuts
	default:
		args.Count = spec.Count
	}
	if b.Digits != nil {
		args.Cut.Digits = *b.Digits
	}
	if b.CleanCuts != nil {
		args.Cut.CleanCuts = *b.CleanCuts
	}
	return tables.Breaker{Method: b.method(), Args: args, Exceptions: b.Exceptions}
}

// FillOptions returns how unbinned records are tabulated.
func (b Binning) FillOptions() tables.FillOptions {
	opts := tables.DefaultFillOptions()
	if b.FillNA != nil {
		opts.FillNA = binning.MissingLabel(*b.FillNA)
	}
	if b.DropNA != nil && *b.DropNA {
		opts.FillNA = nil
	}
	if b.NALast != nil {
		opts.NALast = *b.NALast
	}
	return opts
}

// Effective returns the table's binning merged with the report defaults.
func (r *Report) Effective(t TableSpec) Binning {
	return t.Binning.Merge(r.Defaults)
}

// AscendingFor returns the sort direction list for a gains table, defaulting to ascending.
func (t TableSpec) AscendingFor() []bool {
	if len(t.Ascending) == 0 {
		return []bool{true}
	}
	return t.Ascending
}
