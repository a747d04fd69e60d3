package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"euler-quat/internal/anglefile"
	"euler-quat/internal/batch"
	"euler-quat/internal/config"
	"euler-quat/internal/mathutil"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	// "quat yaw pitch roll" is checked before flag parsing so that
	// negative angles are not mistaken for flags.
	if a, ok := parseTriple(args); ok {
		printQuat(stdout, a.Quat())
		return 0
	}

	fs := flag.NewFlagSet("quat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "Path to config.json file")
	input := fs.String("in", "", "Angle file (text, JSON or YAML)")
	inFormat := fs.String("format", "", "Input format: auto, text, json, yaml (default: auto)")
	output := fs.String("out", "", "Output file (default: stdout)")
	outFormat := fs.String("oformat", "", "Output format: text, yaml (default: text)")
	workers := fs.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	strict := fs.Bool("strict", false, "Reject entries with NaN or infinite angles")
	quiet := fs.Bool("q", false, "Suppress progress and summary output")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() > 0 {
		a, ok := parseTriple(fs.Args())
		if !ok {
			fmt.Fprintf(stderr, "Error: expected three angles (yaw pitch roll), got %q\n", fs.Args())
			return 2
		}
		printQuat(stdout, a.Quat())
		return 0
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Input:        *input,
		InputFormat:  *inFormat,
		Output:       *output,
		OutputFormat: *outFormat,
		Workers:      *workers,
		Strict:       *strict,
	})

	if cfg.Input == "" {
		fmt.Fprintln(stderr, "Error: no input. Use 'quat yaw pitch roll', -in or config.json.")
		fs.Usage()
		return 2
	}

	entries, err := anglefile.Parse(cfg.Input, cfg.InputFormat)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading angles: %v\n", err)
		return 1
	}

	// Summary goes to stderr when results go to stdout.
	info := stdout
	if cfg.Output == "" {
		info = stderr
	}
	if *quiet {
		info = io.Discard
	}

	fmt.Fprintf(info, "Entries: %d, Workers: %d\n", len(entries), cfg.Workers)

	start := time.Now()
	results := batch.Run(batch.Config{
		Workers:         cfg.Workers,
		RejectNonFinite: cfg.RejectNonFinite,
		Progress:        info,
	}, entries)
	elapsed := time.Since(start)

	if cfg.Output == "" {
		err = batch.WriteResults(stdout, cfg.OutputFormat, results)
	} else {
		err = writeFile(cfg.Output, cfg.OutputFormat, results)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error writing results: %v\n", err)
		return 1
	}

	failed := batch.Failed(results)
	fmt.Fprintf(info, "Converted: %d/%d in %s\n", len(results)-len(failed), len(results), elapsed.Round(time.Microsecond))
	if cfg.Output != "" {
		fmt.Fprintf(info, "Output: %s\n", cfg.Output)
	}

	if len(failed) > 0 {
		fmt.Fprintf(stderr, "\nFailed (%d):\n", len(failed))
		limit := 20
		if len(failed) < limit {
			limit = len(failed)
		}
		for _, r := range failed[:limit] {
			fmt.Fprintf(stderr, "  %s: %s\n", r.Name, r.Error)
		}
		return 1
	}
	return 0
}

// writeFile writes results to path and reports the Close error as well.
func writeFile(path, format string, results []batch.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := batch.WriteResults(f, format, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseTriple(args []string) (mathutil.Angles, bool) {
	if len(args) != 3 {
		return mathutil.Angles{}, false
	}
	var v [3]float64
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return mathutil.Angles{}, false
		}
		v[i] = f
	}
	return mathutil.Angles{Yaw: v[0], Pitch: v[1], Roll: v[2]}, true
}

func printQuat(w io.Writer, q mathutil.Quat) {
	fmt.Fprintf(w, "%s %s %s %s\n",
		strconv.FormatFloat(q.W(), 'g', -1, 64),
		strconv.FormatFloat(q.X(), 'g', -1, 64),
		strconv.FormatFloat(q.Y(), 'g', -1, 64),
		strconv.FormatFloat(q.Z(), 'g', -1, 64))
}
