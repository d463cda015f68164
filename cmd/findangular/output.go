package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/sneh-ach/findangular/internal/reduce"
)

// printResults writes the merged statistics to w: an aligned table when
// stdout is a terminal, plain key=value lines otherwise or when forced.
func printResults(w io.Writer, cfg OutputConfig, result reduce.Result, workers int) {
	if !cfg.ForcePlain && term.IsTerminal(int(os.Stdout.Fd())) {
		printResultTable(w, cfg, result, workers)
		return
	}
	printResultPlain(w, cfg, result, workers)
}

func printResultTable(w io.Writer, cfg OutputConfig, result reduce.Result, workers int) {
	rows := [][]string{
		{"minimum distance", formatFloat(result.Min, cfg.Precision)},
		{"maximum distance", formatFloat(result.Max, cfg.Precision)},
		{"mean distance", formatFloat(result.Mean, cfg.Precision)},
		{"pairs evaluated", formatCount(int64(result.Pairs))},
		{"worker threads", formatCount(int64(workers))},
		{"compute time", formatDuration(result.Elapsed)},
	}
	printTable(w, []string{"statistic", "value"}, rows)
}

func printResultPlain(w io.Writer, cfg OutputConfig, result reduce.Result, workers int) {
	fmt.Fprintf(w, "min_distance=%s\n", formatFloat(result.Min, cfg.Precision))
	fmt.Fprintf(w, "max_distance=%s\n", formatFloat(result.Max, cfg.Precision))
	fmt.Fprintf(w, "mean_distance=%s\n", formatFloat(result.Mean, cfg.Precision))
	fmt.Fprintf(w, "pairs=%d\n", result.Pairs)
	fmt.Fprintf(w, "workers=%d\n", workers)
	fmt.Fprintf(w, "compute_seconds=%s\n", strconv.FormatFloat(result.Elapsed.Seconds(), 'f', 6, 64))
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	render := func(values []string) {
		for i, value := range values {
			if i > 0 {
				fmt.Fprint(w, "  ")
			}
			fmt.Fprint(w, value)
			padding := widths[i] - len(value)
			if padding > 0 {
				fmt.Fprint(w, strings.Repeat(" ", padding))
			}
		}
		fmt.Fprintln(w)
	}

	render(headers)
	separator := make([]string, len(headers))
	for i, width := range widths {
		separator[i] = strings.Repeat("-", width)
	}
	render(separator)
	for _, row := range rows {
		padded := make([]string, len(headers))
		copy(padded, row)
		render(padded)
	}
}

func formatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func formatBytes(v uint64) string {
	if v == 0 {
		return "0 B"
	}
	units := []string{"B", "KiB", "MiB", "GiB", "TiB"}
	value := float64(v)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d %s", v, units[unit])
	}
	return fmt.Sprintf("%.2f %s", value, units[unit])
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return d.Round(time.Microsecond).String()
}

func formatCount(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var out []byte
	first := len(s) % 3
	if first == 0 {
		first = 3
	}
	out = append(out, s[:first]...)
	for i := first; i < len(s); i += 3 {
		out = append(out, ',')
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
