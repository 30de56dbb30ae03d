// Package main provides a performance benchmarking tool for the scoretools CLI.
// It generates synthetic scored portfolios of increasing size, times the table commands
// against them with and without run tracking, treating the first tracked run as cold and
// averaging the rest as warm, and writes the timings to CSV.
//
// Prerequisites:
// - scoretools binary installed and available in PATH
//
// Usage: go run ./benchmark [work-dir]
//
//	work-dir: Directory where the synthetic CSV files and the run database are written
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// BenchmarkResult holds the result of a benchmark run (untracked average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset       string
	Command       string
	UntrackedTime string
	ColdTime      string
	WarmTime      string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir        string
	Timeout        time.Duration
	UntrackedRuns  int
	TrackedRuns    int
	DatasetSizes   map[string]int
	DatasetOrder   []string
	CommandArgs    map[string][]string
	CommandOrder   []string
	TrackingDBPath string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:       workDir,
		Timeout:       5 * time.Minute,
		UntrackedRuns: 3,
		TrackedRuns:   4,
		DatasetSizes: map[string]int{
			"small":  10_000,
			"medium": 100_000,
			"large":  1_000_000,
		},
		DatasetOrder: []string{"small", "medium", "large"},
		CommandArgs: map[string][]string{
			"freq":  {"--var", "score,utilization,balance", "--exceptions", "-1"},
			"bivar": {"--var", "score,utilization", "--perf", "bad", "--extra", "balance", "--exceptions", "-1"},
			"gplot": {"--score", "score,utilization", "--perf", "bad", "--exceptions", "-1", "--ascending", "true,false"},
		},
		CommandOrder:   []string{"freq", "bivar", "gplot"},
		TrackingDBPath: filepath.Join(workDir, "benchmark_runs.db"),
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing run history...\n")
	clearCmd := exec.Command("scoretools", "runs", "clear", "--runs-backend", "sqlite", "--runs-db-connect", config.TrackingDBPath)
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear run history: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Run history cleared successfully\n")
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the scoretools binary exists and the work dir is usable.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("scoretools"); err != nil {
		return errors.New("scoretools binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateDataset writes n synthetic accounts to path. Scores are normal, the bad flag
// follows a logistic link on the score, and about one percent of scores carry the -1 exception.
func generateDataset(path string, n int, seed uint64) error {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	rng := rand.New(src)
	scores := distuv.Normal{Mu: 650, Sigma: 80, Src: src}
	balances := distuv.LogNormal{Mu: 8, Sigma: 1, Src: src}
	utilization := distuv.Beta{Alpha: 2, Beta: 5, Src: src}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"score", "utilization", "balance", "bad"}); err != nil {
		return err
	}
	for range n {
		score := math.Round(scores.Rand())
		bad := 0
		if rng.Float64() < 1/(1+math.Exp((score-560)/40)) {
			bad = 1
		}
		scoreField := strconv.FormatFloat(score, 'f', 0, 64)
		if rng.Float64() < 0.01 {
			scoreField = "-1"
		}
		utilField := strconv.FormatFloat(utilization.Rand(), 'f', 4, 64)
		if rng.Float64() < 0.02 {
			utilField = ""
		}
		record := []string{scoreField, utilField, strconv.FormatFloat(balances.Rand(), 'f', 2, 64), strconv.Itoa(bad)}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// runBenchmarks generates every dataset and times every command against it.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, untracked: %d runs, tracked: %d runs\n",
		len(config.DatasetOrder), config.Timeout, config.UntrackedRuns, config.TrackedRuns)

	for i, dataset := range config.DatasetOrder {
		size := config.DatasetSizes[dataset]
		path := filepath.Join(config.WorkDir, fmt.Sprintf("portfolio_%s.csv", dataset))
		fmt.Printf("Generating %s dataset (%d rows)\n", dataset, size)
		if err := generateDataset(path, size, uint64(i+1)); err != nil {
			return nil, fmt.Errorf("failed to generate %s dataset: %w", dataset, err)
		}

		for _, command := range config.CommandOrder {
			results = append(results, runBenchmarkSuite(config, dataset, path, command))
		}
	}

	return results, nil
}

// runBenchmarkSuite runs both untracked and tracked benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, dataset, path, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)

	runPhase := func(backend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, path, command, backend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, untrackedAvg := runPhase("none", config.UntrackedRuns, "Untracked")
	coldTime, warmAvg := runPhase("sqlite", config.TrackedRuns, "Tracked")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Untracked average: %s, Cold time: %s, Warm average: %s\n", untrackedAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:       dataset,
		Command:       command,
		UntrackedTime: untrackedAvg,
		ColdTime:      coldTimeStr,
		WarmTime:      warmAvg,
	}
}

// runBenchmark executes a scoretools command numRuns times and returns the cold time and the warm times.
// The untracked phase reports every run as warm.
func runBenchmark(config BenchmarkConfig, path, command, backend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{command, path, "--output", "csv", "--output-file", os.DevNull, "--runs-backend", backend}, config.CommandArgs[command]...)
	if backend == "sqlite" {
		args = append(args, "--runs-db-connect", config.TrackingDBPath)
	}

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		err := exec.CommandContext(ctx, "scoretools", args...).Run()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil {
			times = append(times, elapsed)
		}
	}

	if backend == "none" || len(times) == 0 {
		return 0, times
	}
	return times[0], times[1:]
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("scoretools_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "untracked_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.UntrackedTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.CommandOrder {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: Untracked: %s, Cold: %s, Warm: %s\n", result.Dataset, result.UntrackedTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
