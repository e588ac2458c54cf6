// Package model defines shared data structures.
package model

import "time"

// Mark classifies a single character of a segment's text.
type Mark int

// Mark values, in the order a character can progress through them.
const (
	Untouched Mark = iota
	Correct
	Incorrect
	Collateral
)

// TextRange is a half-open byte range [Start, End) into some reference string.
type TextRange struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r TextRange) Len() int {
	return r.End - r.Start
}

// PracticeConfig is the resolved, in-effect policy for a practice run.
type PracticeConfig struct {
	LinesPerSegment        int
	TabWidth               int
	SlackN                 int
	MaxSegmentChars        int
	IncludeComments        bool
	SkipLeadingIndentation bool
	TrimTrailingWhitespace bool
	AutoSkipBlankLines     bool
	AllowWhitespaceAdvance bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	FilePath    string
	Since       *time.Time
	Last        int
	CurveWindow int
	Chars       string
}

// Attempt is the output record produced exactly once when a segment's
// engine session reports completion.
type Attempt struct {
	ID               int64   `json:"id"`
	FilePath         string  `json:"filePath"`
	FileName         string  `json:"fileName"`
	SegmentIndex     int     `json:"segmentIndex"`
	SegmentStartLine int     `json:"segmentStartLine"`
	SegmentEndLine   int     `json:"segmentEndLine"`
	LinesPerSegment  int     `json:"linesPerSegment"`
	TabWidth         int     `json:"tabWidth"`
	SlackN           int     `json:"slackN"`
	TypeableChars    int     `json:"typeableChars"`
	TypedKeystrokes  int     `json:"typedKeystrokes"`
	Incorrect        int     `json:"incorrect"`
	Collateral       int     `json:"collateral"`
	Backspaces       int     `json:"backspaces"`
	CorrectChars     int     `json:"correctChars"`
	StartAtMs        int64   `json:"startAtMs"`
	EndAtMs          int64   `json:"endAtMs"`
	DurationMs       int64   `json:"durationMs"`
	WPM              float64 `json:"wpm"`
	UnproductivePct  float64 `json:"unproductivePercent"`
}

// CharStats stores per-character stats for a single attempt.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across attempts.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// AttemptAggregate summarizes an attempt for reporting.
type AttemptAggregate struct {
	AttemptID       int64
	EndedAt         time.Time
	Correct         int
	Incorrect       int
	Collateral      int
	Backspaces      int
	TypedKeystrokes int
	DurationMs      int64
}

// PersistedDocument is the top-level shape of the JSON attempt-history file.
type PersistedDocument struct {
	SchemaVersion int       `json:"schemaVersion"`
	Attempts      []Attempt `json:"attempts"`
}
