package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"lume/config"
	"lume/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case tea.KeyMsg:
		a.flash = ""
		if a.showSessionManager {
			return a.handleSessionManagerKey(msg)
		}
		if a.showSearch {
			return a.handleSearchKey(msg)
		}
		return a.handleChatKey(msg)

	case spinner.TickMsg:
		if !a.streaming {
			return a, nil
		}
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		a.updateViewportContent(true)
		return a, cmd

	case streamOpenedMsg:
		if msg.turn != a.turn {
			// Session changed while the turn was opening; abandon it.
			msg.stream.Cancel()
			return a, nil
		}
		a.stream = msg.stream
		return a, awaitSnapshot(msg.turn, msg.stream)

	case model.SnapshotMsg:
		if msg.Turn != a.turn {
			return a, nil
		}
		a.partial = msg.Snapshot
		a.updateViewportContent(true)
		return a, awaitSnapshot(msg.Turn, a.stream)

	case model.StreamDoneMsg:
		if msg.Turn != a.turn {
			return a, nil
		}
		return a.finishTurn()

	case model.StreamErrorMsg:
		if msg.Turn != a.turn {
			return a, nil
		}
		return a.failTurn(msg.Err)

	case model.ClipboardCopiedMsg:
		if msg.Err != nil {
			a.flash = fmt.Sprintf("Copy failed: %v", msg.Err)
		} else {
			a.flash = "Copied to clipboard"
		}
		return a, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a AppView) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height

	headerHeight := 1
	footerHeight := 1
	inputHeight := 3
	vpHeight := msg.Height - headerHeight - footerHeight - inputHeight - 3
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !a.ready {
		a.viewport = viewport.New(msg.Width, vpHeight)
		a.ready = true
	} else {
		a.viewport.Width = msg.Width
		a.viewport.Height = vpHeight
	}
	a.textarea.SetWidth(msg.Width)
	a.updateViewportContent(true)
	return a, nil
}

func (a AppView) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		a.abandonTurn()
		return a, tea.Quit

	case "esc":
		if a.streaming {
			a.abandonTurn()
			a.flash = "Turn cancelled"
			a.updateViewportContent(true)
		}
		return a, nil

	case "ctrl+n":
		return a.newChat()

	case "ctrl+s":
		a.showSessionManager = true
		a.sessionIdx = 0
		a.filterMode = false
		a.filterInput.Reset()
		a.filtered = nil
		return a, nil

	case "ctrl+f":
		a.showSearch = true
		a.searchInput.Reset()
		a.searchInput.Focus()
		a.searchResults = nil
		a.searchIdx = 0
		return a, nil

	case "ctrl+y":
		for i := len(a.messages) - 1; i >= 0; i-- {
			if a.messages[i].Role == model.RoleAssistant && !a.messages[i].IsError {
				return a, copyToClipboard(a.messages[i].Content)
			}
		}
		a.flash = "Nothing to copy"
		return a, nil

	case "enter":
		return a.submit()
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// submit opens a turn for the textarea content. Submissions are disabled
// while a turn is in flight.
func (a AppView) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(a.textarea.Value())
	if text == "" || a.streaming {
		return a, nil
	}

	a.textarea.Reset()
	a.messages = append(a.messages, model.NewMessage(model.RoleUser, text))
	a.persistActive()

	a.turn++
	a.streaming = true
	a.partial = ""
	a.updateViewportContent(true)

	return a, tea.Batch(a.loadingSpinner.Tick, openTurn(a.eng, a.turn, text))
}

func (a AppView) finishTurn() (tea.Model, tea.Cmd) {
	a.streaming = false
	a.stream = nil

	if a.partial == "" {
		a.flash = "No response received"
		a.updateViewportContent(true)
		return a, nil
	}

	a.messages = append(a.messages, model.NewMessage(model.RoleAssistant, a.partial))
	a.partial = ""
	a.persistActive()
	a.updateViewportContent(true)
	return a, nil
}

func (a AppView) failTurn(err error) (tea.Model, tea.Cmd) {
	a.streaming = false
	a.stream = nil
	a.partial = ""

	a.messages = append(a.messages, model.NewErrorMessage(fmt.Sprintf("Error: %v", err)))
	a.persistActive()
	a.updateViewportContent(true)
	return a, nil
}

// abandonTurn cancels any in-flight stream and invalidates its turn
// identifier so late messages are dropped.
func (a *AppView) abandonTurn() {
	if a.stream != nil {
		a.stream.Cancel()
		a.stream = nil
	}
	a.streaming = false
	a.partial = ""
	a.turn++
}

func (a AppView) newChat() (tea.Model, tea.Cmd) {
	a.abandonTurn()
	if _, err := a.store.Create(); err != nil {
		a.flash = fmt.Sprintf("Create failed: %v", err)
		return a, nil
	}
	a.bindActiveSession()
	a.updateViewportContent(true)
	return a, nil
}

func (a *AppView) persistActive() {
	if err := a.store.Update(a.store.ActiveID(), a.messages); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[ui] session save failed: %v", err)
		}
		a.flash = fmt.Sprintf("Save failed: %v", err)
	}
}
