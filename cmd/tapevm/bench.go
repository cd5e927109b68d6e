package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tapevm/tapevm"
)

// BenchResult holds benchmark statistics
type BenchResult struct {
	Name          string  `json:"name"`
	Iterations    int     `json:"iterations"`
	Warmup        int     `json:"warmup"`
	TotalNs       int64   `json:"total_ns"`
	TotalDuration string  `json:"total_duration"`
	OpsPerSec     float64 `json:"ops_per_sec"`
	MinNs         int64   `json:"min_ns"`
	MaxNs         int64   `json:"max_ns"`
	AvgNs         int64   `json:"avg_ns"`
	MedianNs      int64   `json:"median_ns"`
	P95Ns         int64   `json:"p95_ns"`
	P99Ns         int64   `json:"p99_ns"`
}

// measure runs warmup untimed and then iterations timed runs, returning
// the sorted durations and their total. A cancelled context stops it.
func measure(ctx context.Context, run func() error, warmup, iterations int) ([]time.Duration, time.Duration, error) {
	for i := 0; i < warmup; i++ {
		_ = run()
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
	}
	runtime.GC()

	durations := make([]time.Duration, iterations)
	var total time.Duration
	for i := range durations {
		start := time.Now()
		_ = run()
		durations[i] = time.Since(start)
		total += durations[i]
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	return durations, total, nil
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench [file]",
		Short: "Benchmark a program",
		Long: `Compile a program once and run it repeatedly on fresh tapes. Program
output is discarded and every run gets the same input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: benchHandler,
	}
	addSourceFlags(cmd)
	cmd.Flags().IntP("iterations", "n", 1000, "Number of timed runs")
	cmd.Flags().Int("warmup", 100, "Number of untimed runs first")
	cmd.Flags().String("input", "", "File to use as program input (default empty)")
	return cmd
}

func benchHandler(cmd *cobra.Command, args []string) error {
	code, name, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}
	opts, err := getOptions()
	if err != nil {
		return err
	}
	var input []byte
	if path, _ := cmd.Flags().GetString("input"); path != "" {
		r, closeInput, err := getInput(cmd)
		if err != nil {
			return err
		}
		input, err = io.ReadAll(r)
		closeInput()
		if err != nil {
			return err
		}
	}
	iterations, _ := cmd.Flags().GetInt("iterations")
	if iterations <= 0 {
		iterations = 1000
	}
	warmup, _ := cmd.Flags().GetInt("warmup")
	if warmup < 0 {
		warmup = 100
	}

	fn, err := tapevm.Compile(code, append(opts, tapevm.WithFilename(name))...)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	run := func() error {
		_, err := tapevm.Run(ctx, fn, append(opts,
			tapevm.WithInput(bytes.NewReader(input)),
			tapevm.WithOutput(io.Discard),
		)...)
		return err
	}

	// First, verify the program runs without a fault
	if err := run(); err != nil {
		return err
	}
	durations, total, err := measure(ctx, run, warmup, iterations)
	if err != nil {
		return err
	}

	result := BenchResult{
		Name:          fn.Name(),
		Iterations:    iterations,
		Warmup:        warmup,
		TotalNs:       total.Nanoseconds(),
		TotalDuration: total.Round(time.Microsecond).String(),
		MinNs:         durations[0].Nanoseconds(),
		MaxNs:         durations[iterations-1].Nanoseconds(),
		AvgNs:         (total / time.Duration(iterations)).Nanoseconds(),
		MedianNs:      durations[iterations/2].Nanoseconds(),
		P95Ns:         durations[int(float64(iterations)*0.95)].Nanoseconds(),
		P99Ns:         durations[int(float64(iterations)*0.99)].Nanoseconds(),
	}
	if total > 0 {
		result.OpsPerSec = float64(iterations) / total.Seconds()
	}

	w := cmd.OutOrStdout()
	if format == "json" {
		out, err := getOutputJSON(w, result)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	title := color.New(color.FgYellow, color.Bold)
	label := color.New(color.FgMagenta)
	value := color.New(color.FgGreen)
	if !colorEnabled(w) {
		title.DisableColor()
		label.DisableColor()
		value.DisableColor()
	}
	row := func(name string, v any) {
		fmt.Fprintf(w, "%s%s\n", label.Sprintf("%-13s", name+":"), value.Sprint(v))
	}
	fmt.Fprintln(w, title.Sprintf("Benchmark %s", result.Name))
	row("Iterations", iterations)
	row("Warmup", warmup)
	row("Total time", total.Round(time.Microsecond))
	row("Ops/sec", fmt.Sprintf("%.2f", result.OpsPerSec))
	row("Min", time.Duration(result.MinNs))
	row("Max", time.Duration(result.MaxNs))
	row("Avg", time.Duration(result.AvgNs))
	row("Median", time.Duration(result.MedianNs))
	row("p95", time.Duration(result.P95Ns))
	row("p99", time.Duration(result.P99Ns))
	return nil
}
