package config

import "testing"

func TestLoadConfigMissingFileIsNotError(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Practice.LinesPerSegment != nil {
		t.Fatalf("expected zero-value settings for a missing file")
	}
}

func TestLoadConfigEmptyPathIsError(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestResolveAppliesFileOverridesOverDefaults(t *testing.T) {
	lines := 42
	comments := false
	got := Resolve(PracticeSettings{LinesPerSegment: &lines, IncludeComments: &comments})
	if got.LinesPerSegment != 42 {
		t.Fatalf("linesPerSegment = %d, want 42", got.LinesPerSegment)
	}
	if got.IncludeComments {
		t.Fatalf("expected includeComments overridden to false")
	}
	defaults := HardDefaults()
	if got.TabWidth != defaults.TabWidth || got.SlackN != defaults.SlackN {
		t.Fatalf("expected unset fields to keep hard defaults")
	}
}

func TestResolveClampsOutOfRangeValues(t *testing.T) {
	huge := 999999
	negative := -10
	got := Resolve(PracticeSettings{LinesPerSegment: &huge, Slack: &negative})
	if got.LinesPerSegment != 5000 {
		t.Fatalf("linesPerSegment = %d, want clamped to 5000", got.LinesPerSegment)
	}
	if got.SlackN != 0 {
		t.Fatalf("slackN = %d, want clamped to 0", got.SlackN)
	}
}

func TestResolveClampsTabWidthAndMaxSegmentChars(t *testing.T) {
	tabWidth := 99
	maxChars := 1
	got := Resolve(PracticeSettings{TabWidth: &tabWidth, MaxSegmentChars: &maxChars})
	if got.TabWidth != 16 {
		t.Fatalf("tabWidth = %d, want clamped to 16", got.TabWidth)
	}
	if got.MaxSegmentChars != 500 {
		t.Fatalf("maxSegmentChars = %d, want clamped to 500", got.MaxSegmentChars)
	}
}
