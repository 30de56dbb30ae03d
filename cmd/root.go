package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/internal/logging"
	"github.com/huangsam/scoretools/internal/runstore"
	"github.com/huangsam/scoretools/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profile holds profiling configuration.
var profile = &contract.ProfileConfig{}

// runStore records command runs. It is opened by sharedSetup and closed by Close.
var runStore contract.RunStore

// startProfiling starts CPU and memory profiling if enabled.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "scoretools",
	Short:              "Bin variables and build credit score tables.",
	Long:               `Scoretools discretizes numeric variables and summarizes them as frequency, bivariate and gains tables.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// configureConfigFile points viper at --config or the default .scoretools.yaml locations.
func configureConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".scoretools") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configureConfigFile()

	viper.SetEnvPrefix("SCORETOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", "warn")
	viper.SetDefault("bins", contract.DefaultBins)
	viper.SetDefault("digits", contract.DefaultDigits)
	viper.SetDefault("cuts-divisor", contract.DefaultCutsDivisor)
	viper.SetDefault("cuts-threshold", contract.DefaultCutsThreshold)
	viper.SetDefault("dof", contract.DefaultDepthOfFile)
	viper.SetDefault("sheet", contract.DefaultSheetName)
	viper.SetDefault("runs-backend", schema.NoneBackend)
	viper.SetDefault("runs-db-connect", "")
}

// readConfigFile merges the config file into viper. A missing file is fine.
func readConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the run store.
func sharedSetup(_ context.Context, cmd *cobra.Command, args []string) error {
	if err := bindCommandFlags(cmd); err != nil {
		return err
	}
	contract.ProcessProfilingConfig(profile, viper.GetString("profile"))
	if err := startProfiling(); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := readConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.SourceStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	logging.SetDefaultCLILogger(cfg.LogLevel, cfg.UseColors)

	// 5. Open run history with the validated backend
	store, err := runstore.NewRunStore(cfg.RunsBackend, cfg.RunsDBConnect)
	if err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	runStore = store
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Close releases the run store and stops profiling if enabled.
func Close() error {
	var errs []error
	if runStore != nil {
		errs = append(errs, runStore.Close())
		runStore = nil
	}
	errs = append(errs, stopProfiling())
	return errors.Join(errs...)
}
