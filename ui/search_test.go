package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"lume/config"
	"lume/engine"
	"lume/model"
	"lume/storage"
)

func newTestAppView(t *testing.T) AppView {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Model: "test-model"}
	a := NewAppView(cfg, engine.New(cfg, nil), store)

	m, _ := a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m.(AppView)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestMessageSearchOverlay(t *testing.T) {
	a := newTestAppView(t)
	a.messages = []model.Message{
		model.NewMessage(model.RoleSystem, "owls are off limits"),
		model.NewMessage(model.RoleUser, "tell me about owls"),
		model.NewMessage(model.RoleAssistant, "Owls are nocturnal raptors."),
		model.NewMessage(model.RoleUser, "and hawks?"),
	}

	m, _ := a.Update(keyMsg("ctrl+f"))
	a = m.(AppView)
	if !a.showSearch {
		t.Fatal("ctrl+f did not open the search overlay")
	}

	m, _ = a.Update(keyMsg("owls"))
	a = m.(AppView)
	if len(a.searchResults) != 2 {
		t.Fatalf("got %d results, want 2 (system messages excluded)", len(a.searchResults))
	}
	if a.searchResults[0].MessageIndex != 1 {
		t.Errorf("first result index = %d", a.searchResults[0].MessageIndex)
	}

	view := a.View()
	if !strings.Contains(view, "2 matches") {
		t.Errorf("overlay view missing match count:\n%s", view)
	}

	// Navigate to the second match and jump to it.
	m, _ = a.Update(keyMsg("down"))
	a = m.(AppView)
	if a.searchIdx != 1 {
		t.Errorf("searchIdx = %d after down", a.searchIdx)
	}
	m, _ = a.Update(keyMsg("enter"))
	a = m.(AppView)
	if a.showSearch {
		t.Error("enter did not close the overlay")
	}
}

func TestMessageSearchEscCloses(t *testing.T) {
	a := newTestAppView(t)

	m, _ := a.Update(keyMsg("ctrl+f"))
	a = m.(AppView)
	m, _ = a.Update(keyMsg("esc"))
	a = m.(AppView)
	if a.showSearch {
		t.Error("esc did not close the overlay")
	}

	// With the overlay closed, typing goes to the composer again.
	m, _ = a.Update(keyMsg("hi"))
	a = m.(AppView)
	if a.textarea.Value() != "hi" {
		t.Errorf("textarea = %q after typing", a.textarea.Value())
	}
}
