package storage

import (
	"strings"
	"time"

	"lume/model"
)

// MessageMatch is one in-session search hit.
type MessageMatch struct {
	MessageIndex int
	Role         string
	Preview      string
	Timestamp    time.Time
}

// SearchMessages finds messages containing query (case-insensitive).
// System messages are excluded.
func SearchMessages(messages []model.Message, query string) []MessageMatch {
	if query == "" {
		return nil
	}

	queryLower := strings.ToLower(query)
	var matches []MessageMatch

	for i, msg := range messages {
		if msg.Role == model.RoleSystem {
			continue
		}
		if !strings.Contains(strings.ToLower(msg.Content), queryLower) {
			continue
		}

		preview := msg.Content
		if len(preview) > 100 {
			preview = preview[:100] + "..."
		}
		matches = append(matches, MessageMatch{
			MessageIndex: i,
			Role:         msg.Role,
			Preview:      preview,
			Timestamp:    msg.Timestamp,
		})
	}

	return matches
}
