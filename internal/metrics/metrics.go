// Package metrics computes pure derived statistics from engine counters
// and an externally supplied duration.
package metrics

import "math"

// WPM computes words-per-minute from correctly typed characters and a
// duration in milliseconds, using the standard 5-characters-per-word
// convention. Returns 0 for a non-positive or non-finite duration.
func WPM(correctChars int, durationMs float64) float64 {
	if durationMs <= 0 || !isFinite(durationMs) {
		return 0
	}
	minutes := durationMs / 60000
	return (float64(correctChars) / 5) / minutes
}

// UnproductivePercent computes the percentage of keystrokes that did not
// land as a newly-counted correct character: incorrect entries,
// collateral entries, and backspaces, as a share of all typed keystrokes.
func UnproductivePercent(typedKeystrokes, incorrect, collateral, backspaces int) float64 {
	if typedKeystrokes <= 0 {
		return 0
	}
	unproductive := incorrect + collateral + backspaces
	return (float64(unproductive) / float64(typedKeystrokes)) * 100
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
