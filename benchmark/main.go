// Package main provides a performance benchmarking tool for the devpick CLI.
// It generates synthetic feasibility tables of increasing size and measures
// how long a pick takes for each forms mode, running each test multiple times,
// treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - devpick binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the generated inputs are written
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/devpick/core/algo"
	"github.com/huangsam/devpick/internal/parquet"
)

// BenchmarkResult holds the result of a benchmark suite (cold run and average of warm runs).
type BenchmarkResult struct {
	Parcels  int
	Mode     string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Runs        int
	TargetShare float64
	Sizes       []int
	Forms       []string
	Modes       map[string]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     5 * time.Minute,
		Runs:        4,
		TargetShare: 0.1,
		Sizes:       []int{1_000, 10_000, 100_000},
		Forms:       []string{"residential", "mixedresidential", "office"},
		Modes: map[string]string{
			"all":     "",
			"single":  "residential",
			"compete": "residential,mixedresidential,office",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
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

	printSummary(results)
}

// checkPrerequisites verifies that the devpick binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("devpick"); err != nil {
		return fmt.Errorf("devpick binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks generates inputs for every size and times each forms mode against them
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %d modes, %v timeout, %d runs\n",
		len(config.Sizes), len(config.Modes), config.Timeout, config.Runs)

	for _, size := range config.Sizes {
		fmt.Printf("Generating %d parcels\n", size)
		feasibility, parcels, err := generateInputs(config, size)
		if err != nil {
			return nil, err
		}
		target := int(float64(size) * config.TargetShare)

		for _, mode := range []string{"all", "single", "compete"} {
			result := runBenchmarkSuite(config, size, mode, feasibility, parcels, target)
			results = append(results, result)
		}
	}

	return results, nil
}

// generateInputs writes a feasibility row per parcel and form plus the parcel attributes
func generateInputs(config BenchmarkConfig, size int) (feasibilityPath, parcelsPath string, err error) {
	rng := algo.NewRand(uint64(size))
	feasibility := make([]parquet.FeasibilityRow, 0, size*len(config.Forms))
	parcels := make([]parquet.ParcelRow, 0, size)
	for i := range size {
		id := "p" + strconv.Itoa(i)
		parcelSize := 2000 + rng.Float64()*8000
		parcels = append(parcels, parquet.ParcelRow{
			ParcelID:     id,
			ParcelSize:   parcelSize,
			AveUnitSize:  900 + rng.Float64()*300,
			CurrentUnits: float64(rng.IntN(3)),
		})
		for _, form := range config.Forms {
			row := parquet.FeasibilityRow{
				ParcelID:     id,
				Form:         form,
				MaxProfit:    rng.Float64() * 1e6,
				MaxProfitFAR: 1 + rng.Float64()*3,
				Stories:      float64(1 + rng.IntN(8)),
			}
			floorArea := parcelSize * row.MaxProfitFAR
			switch form {
			case "office":
				row.NonResidentialSqft = floorArea
			case "mixedresidential":
				row.ResidentialSqft = floorArea * 0.7
				row.NonResidentialSqft = floorArea * 0.3
			default:
				row.ResidentialSqft = floorArea
			}
			feasibility = append(feasibility, row)
		}
	}

	feasibilityPath = filepath.Join(config.WorkDir, fmt.Sprintf("feasibility_%d.parquet", size))
	parcelsPath = filepath.Join(config.WorkDir, fmt.Sprintf("parcels_%d.parquet", size))
	if err := parquet.WriteFeasibilityParquet(feasibility, feasibilityPath); err != nil {
		return "", "", fmt.Errorf("failed to write feasibility: %w", err)
	}
	if err := parquet.WriteParcelsParquet(parcels, parcelsPath); err != nil {
		return "", "", fmt.Errorf("failed to write parcels: %w", err)
	}
	return feasibilityPath, parcelsPath, nil
}

// runBenchmarkSuite times a forms mode and reports cold and warm durations
func runBenchmarkSuite(config BenchmarkConfig, size int, mode, feasibility, parcels string, target int) BenchmarkResult {
	fmt.Printf("Running %s pick on %d parcels (target %d)\n", mode, size, target)

	args := []string{
		"pick",
		"--feasibility", feasibility,
		"--parcels", parcels,
		"--target-units", strconv.Itoa(target),
		"--seed", "1",
	}
	if forms := config.Modes[mode]; forms != "" {
		args = append(args, "--forms", forms)
	}

	coldTime, warmTimes := runBenchmark(config, args)

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}
	warmAvg := "TIMEOUT"
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Parcels:  size,
		Mode:     mode,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a devpick command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("devpick", args...)

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Pick completed in")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/devpick_benchmark_%s.csv", timestamp)

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

	// Write header
	if err := writer.Write([]string{"parcels", "mode", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{strconv.Itoa(result.Parcels), result.Mode, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, mode := range []string{"all", "single", "compete"} {
		fmt.Printf("Forms mode %s:\n", mode)
		for _, result := range results {
			if result.Mode == mode {
				fmt.Printf("  %-8d: Cold: %s, Warm: %s\n", result.Parcels, result.ColdTime, result.WarmTime)
			}
		}
	}
}
