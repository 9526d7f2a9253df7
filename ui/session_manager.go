package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"lume/storage"
)

// visibleSessions returns the sessions the manager currently displays:
// the fuzzy-filtered subset while a filter is active, the whole ordered
// collection otherwise.
func (a *AppView) visibleSessions() []*storage.Session {
	if a.filterInput.Value() == "" {
		return a.store.Sessions()
	}
	if a.filtered == nil {
		return []*storage.Session{}
	}
	return a.filtered
}

func (a *AppView) applySessionFilter() {
	query := a.filterInput.Value()
	if query == "" {
		a.filtered = nil
		return
	}

	sessions := a.store.Sessions()
	titles := make([]string, len(sessions))
	for i, session := range sessions {
		titles[i] = session.Title
	}

	matches := fuzzy.Find(query, titles)
	filtered := make([]*storage.Session, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, sessions[match.Index])
	}
	a.filtered = filtered
	if a.sessionIdx >= len(filtered) {
		a.sessionIdx = 0
	}
}

func (a AppView) handleSessionManagerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.filterMode {
		switch msg.String() {
		case "esc":
			a.filterMode = false
			a.filterInput.Reset()
			a.filtered = nil
			return a, nil
		case "enter":
			a.filterMode = false
			return a, nil
		case "up", "down":
			// Fall through to navigation below.
		default:
			var cmd tea.Cmd
			a.filterInput, cmd = a.filterInput.Update(msg)
			a.applySessionFilter()
			return a, cmd
		}
	}

	sessions := a.visibleSessions()

	switch msg.String() {
	case "esc", "ctrl+s", "q":
		a.showSessionManager = false
		return a, nil

	case "up", "k":
		if a.sessionIdx > 0 {
			a.sessionIdx--
		}
		return a, nil

	case "down", "j":
		if a.sessionIdx < len(sessions)-1 {
			a.sessionIdx++
		}
		return a, nil

	case "/":
		a.filterMode = true
		a.filterInput.Focus()
		return a, nil

	case "enter":
		if a.sessionIdx < len(sessions) {
			return a.selectSession(sessions[a.sessionIdx].ID)
		}
		return a, nil

	case "d":
		if a.sessionIdx < len(sessions) {
			return a.deleteSession(sessions[a.sessionIdx].ID)
		}
		return a, nil
	}

	return a, nil
}

func (a AppView) selectSession(id string) (tea.Model, tea.Cmd) {
	a.showSessionManager = false
	a.filterInput.Reset()
	a.filtered = nil

	if !a.store.Select(id) {
		// Selecting the already-active session is a no-op.
		return a, nil
	}

	a.abandonTurn()
	a.bindActiveSession()
	a.updateViewportContent(true)
	return a, nil
}

func (a AppView) deleteSession(id string) (tea.Model, tea.Cmd) {
	wasActive := a.store.ActiveID() == id
	if wasActive {
		a.abandonTurn()
	}

	if err := a.store.Delete(id); err != nil {
		a.flash = fmt.Sprintf("Delete failed: %v", err)
		return a, nil
	}
	if wasActive {
		a.bindActiveSession()
		a.updateViewportContent(true)
	}

	a.applySessionFilter()
	if a.sessionIdx >= len(a.visibleSessions()) && a.sessionIdx > 0 {
		a.sessionIdx--
	}
	return a, nil
}

func (a AppView) renderSessionManager() string {
	modalWidth := a.width - 10
	if modalWidth > 90 {
		modalWidth = 90
	}
	if modalWidth < 30 {
		modalWidth = 30
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Sessions")

	var header string
	if a.filterMode {
		header = a.filterInput.View()
	} else {
		header = DimStyle.Render(fmt.Sprintf("%d sessions", len(a.visibleSessions())))
	}

	var rows []string
	for i, session := range a.visibleSessions() {
		label := runewidth.Truncate(session.Title, modalWidth-26, "…")
		row := fmt.Sprintf("%s  %s  %s",
			runewidth.FillRight(label, modalWidth-26),
			DimStyle.Render(fmt.Sprintf("%3d msgs", len(session.Messages))),
			DimStyle.Render(relativeTime(session.UpdatedAt)),
		)
		if i == a.sessionIdx {
			row = SelectedStyle.Render("> " + row)
		} else {
			row = "  " + row
		}
		if session.ID == a.store.ActiveID() {
			row += SelectedStyle.Render(" *")
		}
		rows = append(rows, row)
	}

	footer := HelpStyle.Render("enter select | d delete | / filter | esc close")

	body := strings.Join([]string{title, header, "", strings.Join(rows, "\n"), "", footer}, "\n")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2).
		Width(modalWidth + 4).
		Render(body)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2")
	}
}
