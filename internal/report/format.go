package report

import (
	"fmt"
	"math"
	"strconv"
)

// ------------------- Formatting Utilities -------------------

// MaxCellLength is the display cap for document table cells; longer values
// are truncated. Aggregation math always sees the untruncated value.
const MaxCellLength = 40

// FormatDuration converts a non-negative number of seconds to "HH:MM:SS".
// The input is rounded to the nearest whole second before decomposition.
func FormatDuration(totalSeconds float64) string {
	secs := int(math.Round(totalSeconds))
	if secs < 0 {
		secs = 0
	}
	hours := secs / 3600
	rest := secs % 3600
	return fmt.Sprintf("%02d:%02d:%02d", hours, rest/60, rest%60)
}

// CoerceNumericCells returns a copy of row where every cell except the first
// (the dimension key) and, when hasTrailingPercentage is set, the last one
// is parsed to an int if possible. Cells that don't parse (preformatted
// durations, fractions) pass through unchanged.
func CoerceNumericCells(row []interface{}, hasTrailingPercentage bool) []interface{} {
	out := make([]interface{}, len(row))
	copy(out, row)

	last := len(out)
	if hasTrailingPercentage {
		last--
	}
	for i := 1; i < last; i++ {
		s, ok := out[i].(string)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(s); err == nil {
			out[i] = n
		}
	}
	return out
}

// SelectTopN returns, preserving input order, the indexes of the first n
// rows whose dimension value (first cell) is not excluded. The sentinel
// "(not set)" is the usual exclusion; the full set still reaches the sheet.
func SelectTopN(rows [][]string, n int, excluded map[string]bool) []int {
	picked := make([]int, 0, n)
	for i, row := range rows {
		if len(picked) >= n {
			break
		}
		if len(row) == 0 || excluded[row[0]] {
			continue
		}
		picked = append(picked, i)
	}
	return picked
}

// TruncateText caps a display value at MaxCellLength characters, appending
// an ellipsis marker past the cap. Applied to table-cell display only.
func TruncateText(value string) string {
	runes := []rune(value)
	if len(runes) <= MaxCellLength {
		return value
	}
	return string(runes[:MaxCellLength+1]) + "(...)"
}

// wholePercent renders a 0–1 fraction as a rounded whole-percent string.
func wholePercent(fraction float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(fraction*100)))
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// parseInt reads an integer metric cell, tolerating float-formatted input.
func parseInt(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(math.Round(f))
	}
	return 0
}

// parseFloat reads a float metric cell, zero on failure.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
