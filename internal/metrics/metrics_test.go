package metrics

import (
	"math"
	"testing"
)

func TestWPM(t *testing.T) {
	got := WPM(250, 60000) // 250 chars / 5 = 50 words in exactly 1 minute
	if math.Abs(got-50) > 1e-9 {
		t.Fatalf("got %v, want 50", got)
	}
}

func TestWPMZeroOrNegativeDuration(t *testing.T) {
	if got := WPM(100, 0); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
	if got := WPM(100, -5); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestWPMNonFiniteDuration(t *testing.T) {
	if got := WPM(100, math.NaN()); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
	if got := WPM(100, math.Inf(1)); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestUnproductivePercent(t *testing.T) {
	got := UnproductivePercent(100, 5, 3, 2)
	if math.Abs(got-10) > 1e-9 {
		t.Fatalf("got %v, want 10", got)
	}
}

func TestUnproductivePercentZeroKeystrokes(t *testing.T) {
	if got := UnproductivePercent(0, 5, 3, 2); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
	if got := UnproductivePercent(-1, 5, 3, 2); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}
