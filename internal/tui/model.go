// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aldenmoor/typeforge/internal/engine"
	"github.com/aldenmoor/typeforge/internal/metrics"
	"github.com/aldenmoor/typeforge/internal/model"
	"github.com/aldenmoor/typeforge/internal/segment"
	"github.com/aldenmoor/typeforge/internal/skipplan"
	"github.com/aldenmoor/typeforge/internal/store"
)

type charStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

// Model implements the Bubble Tea typing UI. It advances through a file's
// segments one engine.Engine at a time, persisting a completed Attempt each
// time a segment finishes.
type Model struct {
	config   model.PracticeConfig
	store    *store.Store
	filePath string
	fileName string
	segments []segment.Segment

	segIndex int
	eng      *engine.Engine
	done     bool

	width  int
	height int

	started       bool
	startedAt     time.Time
	prevCorrectAt time.Time
	charStats     map[rune]*charStat

	lastWPM          float64
	lastUnproductive float64
	hasLast          bool

	allWPM          float64
	allUnproductive float64
	allCorrect      int
	allIncorrect    int
	allCollateral   int
	allBackspaces   int
	allKeystrokes   int
	allDurationMs   int64
}

var (
	correctStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	collateralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0A030"))
	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	lockedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a typing TUI model over a file's segments.
func NewModel(cfg model.PracticeConfig, st *store.Store, segments []segment.Segment, filePath string) *Model {
	m := &Model{
		config:   cfg,
		store:    st,
		filePath: filePath,
		fileName: filepath.Base(filePath),
		segments: segments,
	}
	m.loadFooterStats()
	m.startSegment(0)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyBackspace, tea.KeyDelete:
			m.handleBackspace()
			return m, nil
		case tea.KeySpace:
			m.handleRunes([]rune{' '})
			return m, nil
		case tea.KeyEnter:
			m.handleRunes([]rune{'\n'})
			return m, nil
		case tea.KeyRunes:
			m.handleRunes(msg.Runes)
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.eng == nil {
		if m.done {
			return "Practice complete."
		}
		return ""
	}
	text := m.eng.Text()
	styledRunes := buildStyledRunes(text, m.eng.Marks(), m.eng.Cursor(), m.eng.Locked())
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	if m.eng.Locked() {
		content = content + "\n" + lockedStyle.Render("Locked — press backspace to continue")
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) handleBackspace() {
	if m.eng == nil {
		return
	}
	m.eng.HandleBackspace()
}

func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		if m.eng == nil || m.eng.IsComplete() {
			return
		}
		if !m.started {
			m.started = true
			m.startedAt = time.Now()
		}
		wasLocked := m.eng.Locked()
		pos := m.eng.Cursor()
		var expected rune
		if pos < len(m.eng.Text()) {
			expected, _ = utf8.DecodeRuneInString(m.eng.Text()[pos:])
		}
		m.eng.HandleKey(r)
		if !wasLocked {
			m.updateCharStat(pos, expected)
		}
		if m.eng.IsComplete() {
			m.finishSegment()
			return
		}
	}
}

func (m *Model) updateCharStat(pos int, expected rune) {
	if expected == 0 {
		return
	}
	entry := m.charEntry(expected)
	switch m.eng.Mark(pos) {
	case model.Correct:
		entry.correct++
		now := time.Now()
		if !m.prevCorrectAt.IsZero() {
			delta := now.Sub(m.prevCorrectAt)
			entry.latencySumMs += delta.Milliseconds()
			entry.latencyCount++
		}
		m.prevCorrectAt = now
	case model.Incorrect, model.Collateral:
		entry.incorrect++
	}
}

func (m *Model) charEntry(r rune) *charStat {
	if m.charStats == nil {
		m.charStats = map[rune]*charStat{}
	}
	entry, ok := m.charStats[r]
	if !ok {
		entry = &charStat{}
		m.charStats[r] = entry
	}
	return entry
}

// startSegment builds the engine for segments[i], skipping over any
// segment that is entirely covered by skip ranges (it completes with no
// keystrokes and produces no attempt). It sets m.done once segments run out.
func (m *Model) startSegment(i int) {
	for i < len(m.segments) {
		seg := m.segments[i]
		ranges := skipplan.Plan(seg.Text, seg.CommentRanges, skipplan.Policy{
			IncludeComments:        m.config.IncludeComments,
			SkipLeadingIndentation: m.config.SkipLeadingIndentation,
			TrimTrailingWhitespace: m.config.TrimTrailingWhitespace,
		})
		eng := engine.New(seg.Text, m.config.SlackN, m.config.AutoSkipBlankLines, ranges, m.config.AllowWhitespaceAdvance)
		if eng.IsComplete() {
			i++
			continue
		}
		m.segIndex = i
		m.eng = eng
		m.started = false
		m.startedAt = time.Time{}
		m.prevCorrectAt = time.Time{}
		m.charStats = map[rune]*charStat{}
		return
	}
	m.segIndex = len(m.segments)
	m.eng = nil
	m.done = true
}

func (m *Model) finishSegment() {
	if !m.started {
		m.startSegment(m.segIndex + 1)
		return
	}
	seg := m.segments[m.segIndex]
	endedAt := time.Now()

	attempt := model.Attempt{
		FilePath:         m.filePath,
		FileName:         m.fileName,
		SegmentIndex:     seg.Index,
		SegmentStartLine: seg.StartLine,
		SegmentEndLine:   seg.EndLine,
		LinesPerSegment:  m.config.LinesPerSegment,
		TabWidth:         m.config.TabWidth,
		SlackN:           m.config.SlackN,
		TypeableChars:    m.eng.TypeableChars(),
		TypedKeystrokes:  m.eng.TypedKeystrokes(),
		Incorrect:        m.eng.Incorrect(),
		Collateral:       m.eng.Collateral(),
		Backspaces:       m.eng.Backspaces(),
		CorrectChars:     m.eng.CorrectChars(),
		StartAtMs:        m.startedAt.UnixMilli(),
		EndAtMs:          endedAt.UnixMilli(),
		DurationMs:       endedAt.Sub(m.startedAt).Milliseconds(),
	}
	attempt.WPM = metrics.WPM(attempt.CorrectChars, float64(attempt.DurationMs))
	attempt.UnproductivePct = metrics.UnproductivePercent(attempt.TypedKeystrokes, attempt.Incorrect, attempt.Collateral, attempt.Backspaces)

	charStats := make([]model.CharStats, 0, len(m.charStats))
	for ch, entry := range m.charStats {
		charStats = append(charStats, model.CharStats{
			Char:         string(ch),
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}

	ctx := context.Background()
	if _, err := m.store.InsertAttempt(ctx, attempt, charStats); err != nil {
		logErrf("failed to save attempt: %v\n", err)
	}

	m.lastWPM = attempt.WPM
	m.lastUnproductive = attempt.UnproductivePct
	m.hasLast = true
	m.allCorrect += attempt.CorrectChars
	m.allIncorrect += attempt.Incorrect
	m.allCollateral += attempt.Collateral
	m.allBackspaces += attempt.Backspaces
	m.allKeystrokes += attempt.TypedKeystrokes
	m.allDurationMs += attempt.DurationMs
	m.recomputeAllTime()

	m.startSegment(m.segIndex + 1)
}

func (m *Model) loadFooterStats() {
	ctx := context.Background()
	attempts, err := m.store.ListAttempts(ctx, model.StatsConfig{FilePath: m.filePath})
	if err != nil {
		logErrf("failed to load attempt stats: %v\n", err)
		return
	}
	if len(attempts) == 0 {
		return
	}
	last := attempts[len(attempts)-1]
	m.lastWPM = metrics.WPM(last.Correct, float64(last.DurationMs))
	m.lastUnproductive = metrics.UnproductivePercent(last.TypedKeystrokes, last.Incorrect, last.Collateral, last.Backspaces)
	m.hasLast = true

	for _, a := range attempts {
		m.allCorrect += a.Correct
		m.allIncorrect += a.Incorrect
		m.allCollateral += a.Collateral
		m.allBackspaces += a.Backspaces
		m.allKeystrokes += a.TypedKeystrokes
		m.allDurationMs += a.DurationMs
	}
	m.recomputeAllTime()
}

func (m *Model) recomputeAllTime() {
	m.allWPM = metrics.WPM(m.allCorrect, float64(m.allDurationMs))
	m.allUnproductive = metrics.UnproductivePercent(m.allKeystrokes, m.allIncorrect, m.allCollateral, m.allBackspaces)
}

func (m *Model) renderFooter() string {
	if m.eng == nil {
		return ""
	}
	progress := 0
	if n := len(m.eng.Text()); n > 0 {
		progress = int(float64(m.eng.Cursor()) / float64(n) * 100)
	}
	segments := []string{
		fmt.Sprintf("Segment %d/%d", m.segIndex+1, len(m.segments)),
		fmt.Sprintf("Progress %d%%", progress),
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%% unproductive", m.lastWPM, m.lastUnproductive))
	}
	segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%% unproductive", m.allWPM, m.allUnproductive))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
