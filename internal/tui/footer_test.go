package tui

import (
	"strings"
	"testing"

	"github.com/aldenmoor/typeforge/internal/engine"
	"github.com/aldenmoor/typeforge/internal/segment"
)

func TestRenderFooterFormats(t *testing.T) {
	segs := []segment.Segment{{Index: 0, Text: "abcd"}}
	m := &Model{
		segments:         segs,
		segIndex:         0,
		eng:              engine.New("abcd", 2, false, nil, false),
		hasLast:          true,
		lastWPM:          72.4,
		lastUnproductive: 2.2,
		allWPM:           68.1,
		allUnproductive:  3.1,
	}
	m.eng.HandleKey('a')
	m.eng.HandleKey('b')

	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Segment 1/1", "Progress 50%", "Last 72.4 WPM", "2.2% unproductive", "All-time 68.1 WPM", "3.1% unproductive"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterEmptyWithoutEngine(t *testing.T) {
	m := &Model{}
	if out := m.renderFooter(); out != "" {
		t.Fatalf("expected empty footer without an active engine, got %q", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
