// Command padllstats renders a teardown statistics report written by a
// process that embedded the interpose layer, which optionally emits
// one to a file whose name includes the process id.
//
// It does not recompute anything; the file already holds a line-based
// dump produced by (*stats.Registry).Render in Lines mode, and this
// tool re-renders it as a table, or as lines again (sorted by category
// then operation).
package main

import (
	"fmt"
	"os"

	"github.com/padll/iointerpose/internal/stats"
	"github.com/spf13/pflag"
)

func main() {
	var format string
	pflag.StringVar(&format, "format", "table", "output format: table|lines")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: padllstats [--format table|lines] <report-file>")
		os.Exit(2)
	}

	mode, err := parseMode(format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "padllstats:", err)
		os.Exit(2)
	}

	if err := run(pflag.Arg(0), mode, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "padllstats:", err)
		os.Exit(1)
	}
}

func parseMode(format string) (stats.RenderMode, error) {
	switch format {
	case "table":
		return stats.Table, nil
	case "lines":
		return stats.Lines, nil
	default:
		return 0, fmt.Errorf("unknown --format %q, want table or lines", format)
	}
}

func run(path string, mode stats.RenderMode, out *os.File) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reg, err := stats.Load(f)
	if err != nil {
		return fmt.Errorf("parsing report %s: %w", path, err)
	}
	return reg.Render(out, mode)
}
