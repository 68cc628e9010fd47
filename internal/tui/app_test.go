package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/ansuz/internal/annotate"
	"github.com/starford/ansuz/internal/noteservice"
)

// step feeds one message through Update and returns the concrete model.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func openTestNote(t *testing.T, content string) Model {
	t.Helper()
	m := NewModel(context.Background(), nil)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	note := &noteservice.NoteDetail{
		Path:        "test.md",
		Title:       "Test",
		Content:     content,
		Annotations: annotate.Extract(content),
	}
	m, _ = step(t, m, NoteOpenedMsg{Note: note})
	return m
}

func TestFindSessionLifecycle(t *testing.T) {
	m := openTestNote(t, "cat Cat cat")

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if m.session == nil {
		t.Fatal("expected a search session after opening the find bar")
	}
	if m.focused != FocusFind {
		t.Fatalf("focused = %d, want FocusFind", m.focused)
	}

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cat")})
	if got := len(m.session.Matches()); got != 3 {
		t.Fatalf("matches = %d, want 3", got)
	}
	if got := m.session.CurrentIndex(); got != 1 {
		t.Fatalf("current = %d, want 1", got)
	}

	// Enter advances to the next match.
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.session.CurrentIndex(); got != 2 {
		t.Fatalf("current after enter = %d, want 2", got)
	}

	// Case sensitivity drops the capitalized occurrence.
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if got := len(m.session.Matches()); got != 2 {
		t.Fatalf("case-sensitive matches = %d, want 2", got)
	}

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.session != nil {
		t.Fatal("expected session to be gone after esc")
	}
	if cmd == nil {
		t.Fatal("expected a reload command after closing the find bar")
	}
}

func TestSpanSelectionAndFollow(t *testing.T) {
	m := openTestNote(t, "visit www.example.com today")
	if len(m.note.Annotations) != 1 {
		t.Fatalf("annotations = %d, want 1", len(m.note.Annotations))
	}

	// Move focus from the sidebar into the content pane.
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focused != FocusContent {
		t.Fatalf("focused = %d, want FocusContent", m.focused)
	}

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.spanIndex != 0 {
		t.Fatalf("spanIndex = %d, want 0", m.spanIndex)
	}

	// Right at the last span stays put.
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.spanIndex != 0 {
		t.Fatalf("spanIndex after clamp = %d, want 0", m.spanIndex)
	}

	_, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from following the span")
	}
	msg, ok := cmd().(ExternalLinkMsg)
	if !ok {
		t.Fatalf("cmd returned %T, want ExternalLinkMsg", cmd())
	}
	if msg.URL != "https://www.example.com" {
		t.Fatalf("URL = %q, want scheme prefixed", msg.URL)
	}
}

func TestNoteChangeResetsSession(t *testing.T) {
	m := openTestNote(t, "cat cat")
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cat")})
	if m.session == nil {
		t.Fatal("expected an active session")
	}

	other := &noteservice.NoteDetail{Path: "other.md", Title: "Other", Content: "dog"}
	m, _ = step(t, m, NoteOpenedMsg{Note: other})
	if m.session != nil {
		t.Fatal("expected session to reset when a different note opens")
	}
	if m.focused != FocusContent {
		t.Fatalf("focused = %d, want FocusContent", m.focused)
	}
	if m.note.Path != "other.md" {
		t.Fatalf("note = %q, want other.md", m.note.Path)
	}
}
