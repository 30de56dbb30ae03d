// Package cmd defines the command-line interface for scoretools.
package cmd

import (
	"fmt"

	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// addBinningFlags registers the break method flags shared by cut, freq and bivar.
func addBinningFlags(flags *pflag.FlagSet) {
	flags.String("var", "", "Comma-separated list of variables to bin")
	flags.String("method", "", "Break method: none or bins or percentiles or breaks or cleancut (inferred when empty)")
	flags.IntP("bins", "b", contract.DefaultBins, "Number of bins for the bins and cleancut methods")
	flags.String("breaks", "", "Comma-separated cut points, e.g. 0,500,700")
	flags.String("percentiles", "", "Comma-separated percentiles, e.g. 10,50,90")
	flags.String("exceptions", "", "Comma-separated special values kept in their own categories, e.g. -1,9999")
	flags.String("missing", "", "Label of the category holding missing values (default \"Missing\")")
	flags.Bool("no-missing", false, "Leave missing values without a category")
	flags.String("missing-position", "first", "Where the missing category goes: first or last")
	flags.String("exceptions-position", "last", "Where the exception categories go: first or last")
	flags.Int("digits", contract.DefaultDigits, "Decimal digits kept in bin boundaries and labels")
	flags.Bool("clean-cuts", false, "Round boundaries to a multiple of the cuts divisor")
	flags.Float64("cuts-divisor", contract.DefaultCutsDivisor, "Divisor used by --clean-cuts")
	flags.Float64("cuts-threshold", contract.DefaultCutsThreshold, "Boundaries below this magnitude are left unrounded by --clean-cuts")
}

// addTableFlags registers the flags shared by freq, bivar and report.
func addTableFlags(flags *pflag.FlagSet) {
	flags.String("fill-na", "", "Label for records left without a category (default \"Missing\")")
	flags.Bool("drop-na", false, "Drop records left without a category from tables")
	flags.Bool("na-last", false, "Place the unbinned row after the binned rows")
	flags.String("sheet", contract.DefaultSheetName, "Worksheet name for xlsx output")
	flags.Bool("overwrite", false, "Replace an existing workbook")
}

// bindCommandFlags binds the local flags of the running command to Viper.
// Commands share flag names, so binding happens per invocation rather than at init.
func bindCommandFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.LocalFlags()); err != nil {
		return fmt.Errorf("error binding %s flags: %w", cmd.Name(), err)
	}
	return nil
}

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(cutCmd)
	rootCmd.AddCommand(freqCmd)
	rootCmd.AddCommand(bivarCmd)
	rootCmd.AddCommand(gplotCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsTablesCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().StringP("output-file", "o", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Diagnostic log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("runs-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Command flags are bound to Viper by bindCommandFlags when the command runs
	addBinningFlags(cutCmd.Flags())

	addBinningFlags(freqCmd.Flags())
	addTableFlags(freqCmd.Flags())

	addBinningFlags(bivarCmd.Flags())
	addTableFlags(bivarCmd.Flags())
	bivarCmd.Flags().String("perf", "", "Comma-separated binary performance fields, e.g. bad")
	bivarCmd.Flags().String("extra", "", "Comma-separated continuous fields summarized by their mean")

	gplotCmd.Flags().String("perf", "", "Comma-separated binary performance fields")
	gplotCmd.Flags().String("score", "", "Comma-separated score fields")
	gplotCmd.Flags().String("ascending", "true", "Sort direction: one value for all scores or one per score")
	gplotCmd.Flags().String("exceptions", "", "Comma-separated score values dropped from the curves")
	gplotCmd.Flags().Float64("dof", contract.DefaultDepthOfFile, "Depth of file in (0, 1] at which the curves are clipped")
	gplotCmd.Flags().String("chart-file", "", "Save the gains chart to this file (png, svg, pdf, jpg, eps or tif)")
	gplotCmd.Flags().String("chart-title", "", "Title drawn above the gains chart")

	reportCmd.Flags().String("sheet", contract.DefaultSheetName, "Worksheet for tables that do not name one")
	reportCmd.Flags().Bool("overwrite", false, "Replace an existing workbook")

	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
}
