// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/aldenmoor/typeforge/internal/metrics"
	"github.com/aldenmoor/typeforge/internal/model"
)

const sparkChars = " .:-=+*#%@"

// weakCharMarkerCount is how many of the lowest-accuracy characters get
// flagged with a marker glyph in the per-character table.
const weakCharMarkerCount = 5

// AttemptMetrics computes WPM and unproductive-keystroke percentage for an
// attempt, delegating the arithmetic to the shared metrics formulas so this
// package never reimplements them; it only aggregates across attempts.
func AttemptMetrics(correctChars, incorrect, collateral, backspaces, typedKeystrokes int, durationMs int64) (wpm, unproductivePercent float64) {
	wpm = metrics.WPM(correctChars, float64(durationMs))
	unproductivePercent = metrics.UnproductivePercent(typedKeystrokes, incorrect, collateral, backspaces)
	return wpm, unproductivePercent
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary table for attempts.
func RenderSummary(w io.Writer, attempts []model.AttemptAggregate) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	var totalWPM, totalUnproductive float64
	bestWPM := 0.0
	for _, a := range attempts {
		wpm, unproductive := AttemptMetrics(a.Correct, a.Incorrect, a.Collateral, a.Backspaces, a.TypedKeystrokes, a.DurationMs)
		totalWPM += wpm
		totalUnproductive += unproductive
		if wpm > bestWPM {
			bestWPM = wpm
		}
	}
	count := float64(len(attempts))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Attempts: %d\n", len(attempts)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.2f\n", totalWPM/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best WPM: %.2f\n", bestWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Unproductive: %.2f%%\n", totalUnproductive/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurves prints learning curves for WPM and unproductive-keystroke percentage.
func RenderCurves(w io.Writer, attempts []model.AttemptAggregate, window int) error {
	return RenderCurvesWithSize(w, attempts, window, 0, 10, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, attempts []model.AttemptAggregate, window, totalWidth, height int, useColor bool) error {
	if len(attempts) == 0 {
		return nil
	}
	wpms := make([]float64, len(attempts))
	unproductive := make([]float64, len(attempts))
	for i, a := range attempts {
		wpm, unpct := AttemptMetrics(a.Correct, a.Incorrect, a.Collateral, a.Backspaces, a.TypedKeystrokes, a.DurationMs)
		wpms[i] = wpm
		unproductive[i] = unpct
	}
	wpms = MovingAverage(wpms, window)
	unproductive = MovingAverage(unproductive, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "WPM", Values: wpms},
		{Name: "Unproductive%", Values: unproductive},
	}, width, height, useColor)
}

// RenderCharTable prints per-character aggregates.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	type row struct {
		rawChar   string
		char      string
		acc       float64
		latency   float64
		correct   int
		incorrect int
	}
	rows := make([]row, 0, len(aggs))
	for _, agg := range aggs {
		charLabel := agg.Char
		if charLabel == " " {
			charLabel = "<space>"
		}
		total := agg.Correct + agg.Incorrect
		acc := 0.0
		if total > 0 {
			acc = float64(agg.Correct) / float64(total)
		}
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		rows = append(rows, row{
			rawChar:   agg.Char,
			char:      charLabel,
			acc:       acc,
			latency:   lat,
			correct:   agg.Correct,
			incorrect: agg.Incorrect,
		})
	}
	// Sort by lowest accuracy.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc == rows[j].acc {
			return rows[i].char < rows[j].char
		}
		return rows[i].acc < rows[j].acc
	})

	if _, err := fmt.Fprintln(w, "Per-Character (Windowed)"); err != nil {
		return err
	}

	weak := SelectWeakChars(aggs, weakCharMarkerCount)
	headers := []string{"Char", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect"}
	tableRows := make([][]string, 0, len(rows))
	markedRows := map[int]string{}
	for i, r := range rows {
		if runes := []rune(r.rawChar); len(runes) > 0 {
			if _, ok := weak[runes[0]]; ok {
				markedRows[i] = "! "
			}
		}
		tableRows = append(tableRows, []string{
			r.char,
			fmt.Sprintf("%.2f%%", r.acc*100),
			fmt.Sprintf("%.1f", r.latency),
			fmt.Sprintf("%d", r.correct),
			fmt.Sprintf("%d", r.incorrect),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	lines := formatTable(headers, tableRows, rightAlign, markedRows)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCharCurves prints per-character learning curves.
func RenderCharCurves(w io.Writer, attempts []model.AttemptAggregate, perAttempt map[int64]map[string]model.CharAggregate, chars []string, window int) error {
	return RenderCharCurvesWithSize(w, attempts, perAttempt, chars, window, 0, 10, false)
}

// RenderCharCurvesWithSize prints per-character learning curves sized to a given total width.
func RenderCharCurvesWithSize(w io.Writer, attempts []model.AttemptAggregate, perAttempt map[int64]map[string]model.CharAggregate, chars []string, window, totalWidth, height int, useColor bool) error {
	if len(chars) == 0 || len(attempts) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Character Curves"); err != nil {
		return err
	}
	for _, ch := range chars {
		accSeries := make([]float64, len(attempts))
		latSeries := make([]float64, len(attempts))
		for i, a := range attempts {
			if data, ok := perAttempt[a.AttemptID]; ok {
				if agg, ok := data[ch]; ok {
					total := agg.Correct + agg.Incorrect
					if total > 0 {
						accSeries[i] = float64(agg.Correct) / float64(total) * 100
					}
					if agg.LatencyCount > 0 {
						latSeries[i] = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
					}
				}
			}
		}
		accSeries = MovingAverage(accSeries, window)
		latSeries = MovingAverage(latSeries, window)
		width := 0
		if totalWidth > 0 {
			width = PlotWidthFor(totalWidth)
		}
		if err := PlotSeriesWithColor(w, fmt.Sprintf("Char %s", ch), []Series{
			{Name: "Accuracy", Values: accSeries},
			{Name: "Latency", Values: latSeries},
		}, width, height, useColor); err != nil {
			return err
		}
	}
	return nil
}
