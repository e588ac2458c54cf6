package stats

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aldenmoor/typeforge/internal/model"
	"github.com/aldenmoor/typeforge/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "typeforge.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		startMs := int64(i) * 60000
		endMs := startMs + 30000
		attempt := model.Attempt{
			FilePath:        "main.go",
			FileName:        "main.go",
			SegmentIndex:    0,
			TypeableChars:   11,
			TypedKeystrokes: 11,
			Incorrect:       1,
			CorrectChars:    10,
			StartAtMs:       startMs,
			EndAtMs:         endMs,
			DurationMs:      endMs - startMs,
		}
		charStats := []model.CharStats{
			{Char: "a", Correct: 5, Incorrect: 0},
			{Char: "b", Correct: 4, Incorrect: 1},
		}
		id, err := st.InsertAttempt(ctx, attempt, charStats)
		if err != nil {
			t.Fatalf("insert attempt: %v", err)
		}
		ids = append(ids, id)
	}

	cfg := model.StatsConfig{
		FilePath:    "main.go",
		Last:        2,
		CurveWindow: 2,
		Chars:       "a,b",
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(report.Attempts))
	}
	if report.Attempts[0].AttemptID != ids[1] || report.Attempts[1].AttemptID != ids[2] {
		t.Fatalf("unexpected attempt ids: %+v", report.Attempts)
	}
	if len(report.WindowAttemptIDs) != 2 {
		t.Fatalf("expected 2 window attempt ids, got %d", len(report.WindowAttemptIDs))
	}
	if len(report.CharAggsAll) == 0 {
		t.Fatalf("expected char aggregates for all attempts")
	}
	if len(report.CharAggsWindow) == 0 {
		t.Fatalf("expected char aggregates for window attempts")
	}
}
