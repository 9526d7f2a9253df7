// Package storage persists the session collection. The whole collection is
// the unit of persistence: one JSON document holds every session, read once
// at startup and rewritten on every change.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"lume/config"
	"lume/model"
)

// PlaceholderTitle is the title a session carries until its first user
// message supplies a derived one.
const PlaceholderTitle = "New Chat"

// WelcomeText seeds every freshly created session so the message list is
// never empty.
const WelcomeText = "Hello! How can I help you today?"

const sessionsFile = "sessions.json"
const activeIDFile = "active_session.id"

// Session is one persisted, independently titled conversation thread.
type Session struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Messages  []model.Message `json:"messages"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store holds the ordered session collection in memory and mirrors every
// change to disk. All mutation happens on the UI task; no locking.
type Store struct {
	path       string
	activePath string
	sessions   []*Session
	activeID   string
}

// Open loads the session collection from dataDir. Malformed stored data is
// logged and treated as no saved state; a fresh session is created so the
// collection is never empty.
func Open(dataDir string) (*Store, error) {
	s := &Store{
		path:       filepath.Join(dataDir, sessionsFile),
		activePath: filepath.Join(dataDir, activeIDFile),
	}

	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s.sessions); err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[storage] discarding malformed session data: %v", err)
			}
			s.sessions = nil
		}
	case os.IsNotExist(err):
		// First run.
	default:
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}

	if len(s.sessions) == 0 {
		if _, err := s.Create(); err != nil {
			return nil, err
		}
		return s, nil
	}

	s.sortSessions()
	s.activeID = s.sessions[0].ID
	if saved := s.loadActiveID(); saved != "" {
		if sess := s.byID(saved); sess != nil {
			s.activeID = sess.ID
		}
	}
	return s, nil
}

// Sessions returns the collection in display order (UpdatedAt descending).
func (s *Store) Sessions() []*Session {
	return s.sessions
}

// ActiveID returns the active session's identifier.
func (s *Store) ActiveID() string {
	return s.activeID
}

// Active returns the active session.
func (s *Store) Active() *Session {
	return s.byID(s.activeID)
}

// Create makes a new session seeded with the welcome message, inserts it at
// the front of the collection, makes it active, and persists.
func (s *Store) Create() (*Session, error) {
	session := &Session{
		ID:        uuid.New().String(),
		Title:     PlaceholderTitle,
		Messages:  []model.Message{model.NewMessage(model.RoleAssistant, WelcomeText)},
		UpdatedAt: time.Now(),
	}
	s.sessions = append([]*Session{session}, s.sessions...)
	s.activeID = session.ID
	return session, s.persist()
}

// Update replaces a session's message list, bumps its update time, derives
// a title from the first user message while the placeholder is still in
// place, re-sorts, and persists.
func (s *Store) Update(id string, messages []model.Message) error {
	session := s.byID(id)
	if session == nil {
		return fmt.Errorf("unknown session %s", id)
	}

	session.Messages = messages
	session.UpdatedAt = time.Now()

	if session.Title == PlaceholderTitle {
		for _, msg := range messages {
			if msg.Role == model.RoleUser {
				session.Title = DeriveTitle(msg.Content)
				break
			}
		}
	}

	s.sortSessions()
	return s.persist()
}

// Delete removes a session. Deleting the last session synthesizes a fresh
// replacement; deleting the active session activates the now-first session.
func (s *Store) Delete(id string) error {
	kept := s.sessions[:0]
	for _, session := range s.sessions {
		if session.ID != id {
			kept = append(kept, session)
		}
	}
	s.sessions = kept

	if len(s.sessions) == 0 {
		_, err := s.Create()
		return err
	}
	if s.activeID == id {
		s.activeID = s.sessions[0].ID
	}
	return s.persist()
}

// Select switches the active session. Selecting the already-active session
// is a no-op; the return value reports whether the selection changed.
func (s *Store) Select(id string) bool {
	if id == s.activeID || s.byID(id) == nil {
		return false
	}
	s.activeID = id
	s.saveActiveID()
	return true
}

func (s *Store) byID(id string) *Session {
	for _, session := range s.sessions {
		if session.ID == id {
			return session
		}
	}
	return nil
}

// sortSessions orders by UpdatedAt descending; the stable sort preserves
// relative order for equal timestamps.
func (s *Store) sortSessions() {
	sort.SliceStable(s.sessions, func(i, j int) bool {
		return s.sessions[i].UpdatedAt.After(s.sessions[j].UpdatedAt)
	})
}

func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}
	// 0600 - session data contains conversation history
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	s.saveActiveID()
	return nil
}

func (s *Store) saveActiveID() {
	_ = os.WriteFile(s.activePath, []byte(s.activeID), 0600)
}

func (s *Store) loadActiveID() string {
	data, err := os.ReadFile(s.activePath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// DeriveTitle derives a session title from the first user message: the
// first 30 characters plus an ellipsis marker when truncated, the text
// unchanged otherwise.
func DeriveTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) > 30 {
		return string(runes[:30]) + "..."
	}
	return firstMessage
}
