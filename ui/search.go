package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"lume/model"
	"lume/storage"
)

const searchMaxVisible = 8

func (a AppView) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+f":
		a.showSearch = false
		return a, nil

	case "up":
		if a.searchIdx > 0 {
			a.searchIdx--
		}
		return a, nil

	case "down":
		if a.searchIdx < len(a.searchResults)-1 {
			a.searchIdx++
		}
		return a, nil

	case "enter":
		if a.searchIdx < len(a.searchResults) {
			match := a.searchResults[a.searchIdx]
			a.showSearch = false
			a.updateViewportContent(false)
			a.jumpToMessage(match.MessageIndex)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.searchResults = storage.SearchMessages(a.messages, a.searchInput.Value())
	a.searchIdx = 0
	return a, cmd
}

// jumpToMessage scrolls the viewport so the message at idx sits roughly in
// the middle. The offset is the rendered height of everything before it.
func (a *AppView) jumpToMessage(idx int) {
	var prefix strings.Builder
	for i := 0; i < idx && i < len(a.messages); i++ {
		prefix.WriteString(renderMessage(a.messages[i]))
		prefix.WriteString("\n\n")
	}

	offset := strings.Count(prefix.String(), "\n") - a.viewport.Height/2
	if max := a.viewport.TotalLineCount() - a.viewport.Height; offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	a.viewport.SetYOffset(offset)
}

func (a AppView) renderMessageSearch() string {
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
		Render("Search Messages")

	var results string
	switch {
	case a.searchInput.Value() == "":
		results = DimStyle.Render("Type to search this conversation...")
	case len(a.searchResults) == 0:
		results = DimStyle.Render("No matches")
	default:
		start := 0
		if a.searchIdx >= searchMaxVisible {
			start = a.searchIdx - searchMaxVisible + 1
		}
		end := start + searchMaxVisible
		if end > len(a.searchResults) {
			end = len(a.searchResults)
		}

		var rows []string
		for i := start; i < end; i++ {
			match := a.searchResults[i]
			who := "You"
			style := UserStyle
			if match.Role != model.RoleUser {
				who = "Lume"
				style = AssistantStyle
			}
			row := fmt.Sprintf("%s %s  %s",
				style.Render(who),
				DimStyle.Render(match.Timestamp.Format("Jan 2 15:04")),
				runewidth.Truncate(match.Preview, modalWidth-20, "…"),
			)
			if i == a.searchIdx {
				row = SelectedStyle.Render("> ") + row
			} else {
				row = "  " + row
			}
			rows = append(rows, row)
		}
		header := DimStyle.Render(fmt.Sprintf("%d matches", len(a.searchResults)))
		results = header + "\n" + strings.Join(rows, "\n")
	}

	footer := HelpStyle.Render("enter jump | up/down navigate | esc close")

	body := strings.Join([]string{title, a.searchInput.View(), "", results, "", footer}, "\n")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2).
		Width(modalWidth + 4).
		Render(body)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}
