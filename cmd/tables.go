package cmd

import (
	"github.com/huangsam/scoretools/core"
	"github.com/spf13/cobra"
)

// cutCmd bins a single variable.
var cutCmd = &cobra.Command{
	Use:   "cut <csv-file>",
	Short: "Assign every record of a variable to a bin.",
	Long: `Discretize one numeric column and print the category of every record.

Missing values get their own category and declared exception values
(e.g. -1 for "no bureau hit") are kept out of the regular bins.

Break methods:
- cleancut    quantile bins with readable, de-duplicated boundaries (default)
- bins        N even-population bins
- percentiles bins cut at the given percentiles
- breaks      bins cut at the given boundaries
- none        one category per distinct value

Examples:
  # Ten clean quantile bins
  scoretools cut data.csv --var income

  # Explicit boundaries with special values
  scoretools cut data.csv --var score --breaks 300,500,700,850 --exceptions -1,9999

  # Write the assignment to CSV
  scoretools cut data.csv --var age --bins 5 --output csv --output-file age.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteCut(rootCtx, cfg, runStore)
	},
}

// freqCmd builds frequency tables.
var freqCmd = &cobra.Command{
	Use:   "freq <csv-file>",
	Short: "Show frequency tables for binned variables.",
	Long: `Bin each variable and count the records per category.

Every table lists the frequency, percent, cumulative frequency and
cumulative percent of each category, in category order.

Examples:
  # Frequency of two variables in 5 bins
  scoretools freq data.csv --var age,income --bins 5

  # Distinct values of a flag, dropping missing records
  scoretools freq data.csv --var bad --method none --drop-na`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteFreq(rootCtx, cfg, runStore)
	},
}

// bivarCmd builds bivariate tables.
var bivarCmd = &cobra.Command{
	Use:   "bivar <csv-file>",
	Short: "Show performance rates over the bins of variables.",
	Long: `Bin each variable and distribute binary performance fields over its categories.

For every category the table shows the record count and share, and per
performance field its sum, rate and share of the total. Extra fields are
summarized by their mean. A Total row closes every table.

Examples:
  # Bad rate by score band
  scoretools bivar data.csv --var score --perf bad --breaks 300,500,700,850

  # Several outcomes and an average balance, exported to a workbook
  scoretools bivar data.csv --var score,income --perf bad,churn --extra balance \
    --output xlsx --output-file bivar.xlsx`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteBivar(rootCtx, cfg, runStore)
	},
}

// gplotCmd ranks scores by KS and draws gains charts.
var gplotCmd = &cobra.Command{
	Use:   "gplot <csv-file>",
	Short: "Rank scores by KS and draw cumulative gains charts.",
	Long: `Pair every performance field with every score, compute the KS statistic
of each pair and draw their cumulative gains curves.

Pairs are listed from the highest KS down. Records whose score is an
exception value are left out of the curves.

Examples:
  # Compare two scores against the bad flag
  scoretools gplot data.csv --perf bad --score score_v1,score_v2 --chart-file gains.png

  # Higher scores are riskier for the second score; stop at 30% of file
  scoretools gplot data.csv --perf bad --score s1,s2 --ascending true,false --dof 0.3 \
    --chart-file gains.svg --chart-title "Top 30%"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteGplot(rootCtx, cfg, runStore)
	},
}

// reportCmd writes a workbook from a report definition.
var reportCmd = &cobra.Command{
	Use:   "report <report.yaml>",
	Short: "Build a spreadsheet of tables from a YAML report definition.",
	Long: `Read a report definition and write every table it lists into one workbook.

A report names a source CSV file, default binning settings and a list of
freq, bivar and gains tables, each optionally placed on its own worksheet.

Example report:
  source: data.csv
  output: report.xlsx
  defaults:
    bins: 10
    exceptions: [-1]
  tables:
    - kind: freq
      variables: [age, income]
    - kind: bivar
      sheet: Bivariate
      variables: score
      perf: bad
    - kind: gains
      perf: bad
      scores: [score_v1, score_v2]
      chart: gains.png

Examples:
  scoretools report monthly.yaml
  scoretools report monthly.yaml --output-file out.xlsx --overwrite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteReport(rootCtx, cfg, runStore)
	},
}
