package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"qmdscan/internal/driver"
)

func newTestModel(files ...string) *progressModel {
	ch := make(chan driver.Event)
	return NewProgressModel("tokenize", files, ch).(*progressModel)
}

func TestApplyEventTracksStatus(t *testing.T) {
	m := newTestModel("a.qmd", "b.qmd")

	m.applyEvent(driver.Event{File: "a.qmd", Stage: driver.StageScan, Status: driver.StatusWorking})
	if got := m.items[0].status; got != "scanning" {
		t.Fatalf("status = %q, want scanning", got)
	}
	if got := m.percent(); got != 0.25 {
		t.Fatalf("percent = %v, want 0.25", got)
	}

	m.applyEvent(driver.Event{File: "a.qmd", Stage: driver.StageScan, Status: driver.StatusDone, Tokens: 42})
	m.applyEvent(driver.Event{File: "b.qmd", Stage: driver.StageLoad, Status: driver.StatusError})
	if m.finished() != 2 || m.percent() != 1 {
		t.Fatalf("finished = %d percent = %v", m.finished(), m.percent())
	}
	if m.tokens != 42 || m.failed != 1 {
		t.Fatalf("tokens = %d failed = %d", m.tokens, m.failed)
	}
}

func TestApplyEventIgnoresUnknownFile(t *testing.T) {
	m := newTestModel("a.qmd")
	if cmd := m.applyEvent(driver.Event{File: "other.qmd", Status: driver.StatusDone}); cmd != nil {
		t.Fatalf("unknown file produced a command")
	}
	if m.items[0].status != "queued" {
		t.Fatalf("status changed to %q", m.items[0].status)
	}
}

func TestViewListsDocuments(t *testing.T) {
	m := newTestModel("docs/intro.qmd", "docs/"+strings.Repeat("long", 40)+".qmd")
	m.applyEvent(driver.Event{File: "docs/intro.qmd", Stage: driver.StageScan, Status: driver.StatusDone, Tokens: 7})
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	view := m.View()
	if !strings.Contains(view, "docs/intro.qmd") || !strings.Contains(view, "7 tok") {
		t.Fatalf("view missing document row:\n%s", view)
	}
	if !strings.Contains(view, "...") {
		t.Fatalf("long path not truncated:\n%s", view)
	}
	if !strings.Contains(view, "(1/2, 7 tokens)") {
		t.Fatalf("header missing counts:\n%s", view)
	}
}

func TestDoneMsgQuits(t *testing.T) {
	m := newTestModel("a.qmd")
	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatalf("done = %t cmd = %v", m.done, cmd)
	}
	if !strings.HasPrefix(stripANSI(m.View()), "done: ") {
		t.Fatalf("view after done:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 5); got != "ab..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 2); got != "ab" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("漢字漢字", 6); got != "漢..." {
		t.Fatalf("truncate wide = %q", got)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			esc = true
		case esc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			esc = false
		case !esc:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel("a.qmd")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("ctrl-c produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl-c did not quit")
	}
}
