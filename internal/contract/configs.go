package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/scoretools/core/binning"
	"github.com/huangsam/scoretools/schema"
)

// Default values for configuration.
const (
	DefaultBins          = 10
	DefaultDigits        = 0
	DefaultPrecision     = 3
	MaxPrecision         = 10
	DefaultCutsDivisor   = 5.0
	DefaultCutsThreshold = 10.0
	DefaultDepthOfFile   = 1.0
	DefaultSheetName     = "Tables"
)

// Config holds the runtime configuration for a command.
// This struct remains the "final, validated" config.
type Config struct {
	Source    string // CSV file with one column per variable
	Variables []string

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	LogLevel   string

	Method             schema.BreakMethod
	Bins               int
	Breaks             []float64
	Percentiles        []float64
	Exceptions         []float64
	Missing            *string // nil leaves missing records unlabelled
	MissingPosition    binning.Position
	ExceptionsPosition binning.Position
	Digits             int
	CleanCuts          bool
	CutsDivisor        float64
	CutsThreshold      float64

	FillNA *string // nil drops unbinned records from tables
	NALast bool

	Perfs       []string
	ExtraVars   []string
	Scores      []string
	Ascending   []bool
	DepthOfFile float64
	ChartFile   string
	ChartTitle  string

	Sheet     string
	Overwrite bool

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	SourceStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Var           string `mapstructure:"var"`
	Output        string `mapstructure:"output"`
	OutputFile    string `mapstructure:"output-file"`
	Precision     int    `mapstructure:"precision"`
	Width         int    `mapstructure:"width"`
	Color         string `mapstructure:"color"`
	LogLevel      string `mapstructure:"log-level"`
	RunsBackend   string `mapstructure:"runs-backend"`
	RunsDBConnect string `mapstructure:"runs-db-connect"`

	// --- Binning fields shared by cut, freq and bivar ---
	Method             string  `mapstructure:"method"`
	Bins               int     `mapstructure:"bins"`
	Breaks             string  `mapstructure:"breaks"`
	Percentiles        string  `mapstructure:"percentiles"`
	Exceptions         string  `mapstructure:"exceptions"`
	Missing            string  `mapstructure:"missing"`
	NoMissing          bool    `mapstructure:"no-missing"`
	MissingPosition    string  `mapstructure:"missing-position"`
	ExceptionsPosition string  `mapstructure:"exceptions-position"`
	Digits             int     `mapstructure:"digits"`
	CleanCuts          bool    `mapstructure:"clean-cuts"`
	CutsDivisor        float64 `mapstructure:"cuts-divisor"`
	CutsThreshold      float64 `mapstructure:"cuts-threshold"`

	// --- Table fields from freqCmd and bivarCmd ---
	FillNA string `mapstructure:"fill-na"`
	DropNA bool   `mapstructure:"drop-na"`
	NALast bool   `mapstructure:"na-last"`
	Perf   string `mapstructure:"perf"`
	Extra  string `mapstructure:"extra"`

	// --- Fields from gplotCmd.Flags() ---
	Score      string  `mapstructure:"score"`
	Ascending  string  `mapstructure:"ascending"`
	DOF        float64 `mapstructure:"dof"`
	ChartFile  string  `mapstructure:"chart-file"`
	ChartTitle string  `mapstructure:"chart-title"`

	// --- Fields from reportCmd.Flags() ---
	Sheet     string `mapstructure:"sheet"`
	Overwrite bool   `mapstructure:"overwrite"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Variables = cloneSlice(c.Variables)
	clone.Breaks = cloneSlice(c.Breaks)
	clone.Percentiles = cloneSlice(c.Percentiles)
	clone.Exceptions = cloneSlice(c.Exceptions)
	clone.Perfs = cloneSlice(c.Perfs)
	clone.ExtraVars = cloneSlice(c.ExtraVars)
	clone.Scores = cloneSlice(c.Scores)
	clone.Ascending = cloneSlice(c.Ascending)
	if c.Missing != nil {
		clone.Missing = binning.MissingLabel(*c.Missing)
	}
	if c.FillNA != nil {
		clone.FillNA = binning.MissingLabel(*c.FillNA)
	}
	return &clone
}

func cloneSlice[T any](xs []T) []T {
	if xs == nil {
		return nil
	}
	return append(make([]T, 0, len(xs)), xs...)
}

// CutOptions converts the binning fields into options for binning.CleanCut.
func (c *Config) CutOptions() binning.CutOptions {
	return binning.CutOptions{
		Exceptions:         c.Exceptions,
		ExceptionsPosition: c.ExceptionsPosition,
		Missing:            c.Missing,
		MissingPosition:    c.MissingPosition,
		Digits:             c.Digits,
		CleanCuts:          c.CleanCuts,
		CutsDivisor:        c.CutsDivisor,
		CutsThreshold:      c.CutsThreshold,
	}
}

// BinSpec returns the bin specification for cleancut: explicit breaks win over a bin count.
func (c *Config) BinSpec() binning.BinSpec {
	if len(c.Breaks) > 0 {
		return binning.BinCuts(c.Breaks...)
	}
	return binning.BinCount(c.Bins)
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processBinning(cfg, input); err != nil {
		return err
	}
	if err := processTables(cfg, input); err != nil {
		return err
	}
	if err := processGains(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the run-history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend == "" {
		cfg.RunsBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	return ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect)
}

// validateSimpleInputs processes and validates the output and display fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Source = strings.TrimSpace(input.SourceStr)
	cfg.Variables = ParseStringList(input.Var)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogLevel = input.LogLevel

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", input.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.XLSXOut) && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", cfg.Output)
	}
	return nil
}

// processBinning parses the break method and its arguments.
func processBinning(cfg *Config, input *ConfigRawInput) error {
	var err error
	if cfg.Breaks, err = ParseFloatList(input.Breaks); err != nil {
		return fmt.Errorf("invalid --breaks value: %w", err)
	}
	if cfg.Percentiles, err = ParseFloatList(input.Percentiles); err != nil {
		return fmt.Errorf("invalid --percentiles value: %w", err)
	}
	if cfg.Exceptions, err = ParseFloatList(input.Exceptions); err != nil {
		return fmt.Errorf("invalid --exceptions value: %w", err)
	}

	if input.Bins < 0 {
		return fmt.Errorf("bins must be at least 1 (received %d)", input.Bins)
	}
	cfg.Bins = input.Bins
	if cfg.Bins == 0 {
		cfg.Bins = DefaultBins
	}

	cfg.Method = resolveBreakMethod(input, cfg)
	if err := RevalidateBinning(cfg); err != nil {
		return err
	}

	if !input.NoMissing {
		label := input.Missing
		if label == "" {
			label = binning.DefaultMissingLabel
		}
		cfg.Missing = binning.MissingLabel(label)
	}
	if cfg.MissingPosition, err = parsePositionOr(input.MissingPosition, binning.First); err != nil {
		return fmt.Errorf("invalid --missing-position value: %w", err)
	}
	if cfg.ExceptionsPosition, err = parsePositionOr(input.ExceptionsPosition, binning.Last); err != nil {
		return fmt.Errorf("invalid --exceptions-position value: %w", err)
	}

	if input.Digits < 0 {
		return fmt.Errorf("digits must be 0 or greater (received %d)", input.Digits)
	}
	cfg.Digits = input.Digits
	cfg.CleanCuts = input.CleanCuts
	cfg.CutsDivisor = input.CutsDivisor
	if cfg.CutsDivisor == 0 {
		cfg.CutsDivisor = DefaultCutsDivisor
	}
	if cfg.CutsDivisor < 0 {
		return fmt.Errorf("cuts-divisor must be positive (received %v)", cfg.CutsDivisor)
	}
	cfg.CutsThreshold = input.CutsThreshold
	return nil
}

// RevalidateBinning checks that the break method is known and has the arguments it needs.
func RevalidateBinning(cfg *Config) error {
	if _, ok := schema.ValidBreakMethods[cfg.Method]; !ok {
		return fmt.Errorf("invalid method '%s'. must be none, bins, percentiles, breaks, cleancut", cfg.Method)
	}
	if cfg.Bins < 1 {
		return fmt.Errorf("bins must be at least 1 (received %d)", cfg.Bins)
	}
	switch cfg.Method {
	case schema.ExplicitBreak:
		if len(cfg.Breaks) == 0 {
			return fmt.Errorf("method %s requires --breaks", cfg.Method)
		}
	case schema.PercentileBreak:
		if len(cfg.Percentiles) == 0 {
			return fmt.Errorf("method %s requires --percentiles", cfg.Method)
		}
	}
	return nil
}

// resolveBreakMethod picks the method named by --method, or infers one from the arguments given.
func resolveBreakMethod(input *ConfigRawInput, cfg *Config) schema.BreakMethod {
	if m := strings.TrimSpace(input.Method); m != "" {
		return schema.BreakMethod(strings.ToLower(m))
	}
	if len(cfg.Percentiles) > 0 {
		return schema.PercentileBreak
	}
	return schema.CleanCutBreak
}

func parsePositionOr(s string, fallback binning.Position) (binning.Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return fallback, nil
	}
	return binning.ParsePosition(s)
}

// processTables handles the fill options and table columns.
func processTables(cfg *Config, input *ConfigRawInput) error {
	if !input.DropNA {
		label := input.FillNA
		if label == "" {
			label = binning.DefaultMissingLabel
		}
		cfg.FillNA = binning.MissingLabel(label)
	}
	cfg.NALast = input.NALast
	cfg.Perfs = ParseStringList(input.Perf)
	cfg.ExtraVars = ParseStringList(input.Extra)
	cfg.Sheet = strings.TrimSpace(input.Sheet)
	if cfg.Sheet == "" {
		cfg.Sheet = DefaultSheetName
	}
	cfg.Overwrite = input.Overwrite
	return nil
}

// processGains handles the gains chart parameters.
func processGains(cfg *Config, input *ConfigRawInput) error {
	cfg.Scores = ParseStringList(input.Score)
	cfg.ChartFile = strings.TrimSpace(input.ChartFile)
	cfg.ChartTitle = input.ChartTitle

	cfg.Ascending = []bool{true}
	if strings.TrimSpace(input.Ascending) != "" {
		asc, err := ParseBoolList(input.Ascending)
		if err != nil {
			return fmt.Errorf("invalid --ascending value: %w", err)
		}
		cfg.Ascending = asc
	}

	cfg.DepthOfFile = input.DOF
	if cfg.DepthOfFile == 0 {
		cfg.DepthOfFile = DefaultDepthOfFile
	}
	return RevalidateGains(cfg)
}

// RevalidateGains checks the sort directions and depth of file of a gains request.
func RevalidateGains(cfg *Config) error {
	if len(cfg.Scores) > 0 && len(cfg.Ascending) != 1 && len(cfg.Ascending) != len(cfg.Scores) {
		return fmt.Errorf("--ascending must have 1 or %d values (received %d)", len(cfg.Scores), len(cfg.Ascending))
	}
	if cfg.DepthOfFile <= 0 || cfg.DepthOfFile > 1 {
		return fmt.Errorf("dof must be in (0, 1] (received %v)", cfg.DepthOfFile)
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run history.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scoretools_runs.db"
	}
	return filepath.Join(homeDir, ".scoretools_runs.db")
}
