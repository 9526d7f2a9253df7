// Package ui is the terminal shell: it drives user input, renders streaming
// snapshots, and calls into the session store and conversation engine. All
// state mutation happens on the Bubble Tea update loop; commands only ever
// report back via messages.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lume/config"
	"lume/engine"
	"lume/model"
	"lume/storage"
)

type AppView struct {
	cfg   *config.Config
	eng   *engine.Engine
	store *storage.Store

	// UI components
	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	// Active session working copy
	messages []model.Message

	// Streaming state. turn increments whenever a stream starts or the
	// session changes; messages tagged with a stale turn are dropped.
	streaming bool
	turn      int
	stream    *engine.Stream
	partial   string

	// Session manager overlay
	showSessionManager bool
	sessionIdx         int
	filterMode         bool
	filterInput        textinput.Model
	filtered           []*storage.Session

	// Message search overlay
	showSearch    bool
	searchInput   textinput.Model
	searchResults []storage.MessageMatch
	searchIdx     int

	flash string
}

func NewAppView(cfg *config.Config, eng *engine.Engine, store *storage.Store) AppView {
	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Focus()
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	fi := textinput.New()
	fi.Placeholder = "Filter sessions..."

	si := textinput.New()
	si.Placeholder = "Search messages..."

	a := AppView{
		cfg:            cfg,
		eng:            eng,
		store:          store,
		textarea:       ta,
		loadingSpinner: sp,
		filterInput:    fi,
		searchInput:    si,
	}
	a.bindActiveSession()
	return a
}

// bindActiveSession points the working copy at the store's active session
// and rebuilds the transport history for it.
func (a *AppView) bindActiveSession() {
	session := a.store.Active()
	if session == nil {
		return
	}
	a.messages = append([]model.Message(nil), session.Messages...)
	a.eng.StartChat(a.messages)
}

func (a AppView) Init() tea.Cmd {
	return textarea.Blink
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.showSessionManager {
		return a.renderSessionManager()
	}
	if a.showSearch {
		return a.renderMessageSearch()
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, a.viewport.View(), a.textarea.View(), footer)
}

func (a AppView) renderHeader() string {
	title := storage.PlaceholderTitle
	if session := a.store.Active(); session != nil {
		title = session.Title
	}

	transport := "offline"
	if kind := a.eng.Kind(); kind != "" {
		transport = string(kind)
	}

	left := TitleStyle.Render("Lume") + DimStyle.Render("  "+title)
	right := DimStyle.Render(fmt.Sprintf("%s | %s", a.cfg.Model, transport))
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (a AppView) renderFooter() string {
	if a.flash != "" {
		return StatusStyle.Render(a.flash)
	}
	if a.streaming {
		return StatusStyle.Render(a.loadingSpinner.View() + " Streaming... (esc to cancel)")
	}
	return HelpStyle.Render("enter send | ctrl+n new chat | ctrl+s sessions | ctrl+f search | ctrl+y copy reply | ctrl+c quit")
}

// renderTranscript builds the viewport content from the message list plus
// the in-progress snapshot, if any.
func (a AppView) renderTranscript() string {
	var b strings.Builder
	for _, msg := range a.messages {
		b.WriteString(renderMessage(msg))
		b.WriteString("\n\n")
	}
	if a.streaming {
		b.WriteString(AssistantStyle.Render("Lume"))
		b.WriteString("\n")
		if a.partial == "" {
			b.WriteString(DimStyle.Render(a.loadingSpinner.View() + " thinking..."))
		} else {
			b.WriteString(a.partial)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderMessage(msg model.Message) string {
	switch {
	case msg.IsError:
		return ErrorStyle.Render("Lume") + "\n" + ErrorStyle.Render(msg.Content)
	case msg.Role == model.RoleUser:
		return UserStyle.Render("You") + "\n" + msg.Content
	case msg.Role == model.RoleSystem:
		return DimStyle.Render(msg.Content)
	default:
		return AssistantStyle.Render("Lume") + "\n" + msg.Content
	}
}

func (a *AppView) updateViewportContent(gotoBottom bool) {
	if !a.ready {
		return
	}
	a.viewport.SetContent(a.renderTranscript())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}
