// Package events carries the observable side effects of the page
// lifecycle: page creation, executed updates, and vote changes. Events are
// published after the owning transaction commits - a rolled-back
// transaction emits nothing.
package events

import "time"

// Type identifies an event kind
type Type string

const (
	// TypePageCreated is emitted once per successful page creation
	TypePageCreated Type = "page-created"
	// TypeUpdateExecuted is emitted when an update request is applied,
	// whether immediately (permissionless) or via approvals
	TypeUpdateExecuted Type = "page-update-executed"
	// TypeVoteChanged is emitted on every vote call that changes state
	TypeVoteChanged Type = "vote-changed"
)

// Event is one observable occurrence. Fields beyond Type/PageID are
// populated per kind: RequestID and NewHTML for executed updates,
// TotalLikes/TotalDislikes for vote changes.
type Event struct {
	Type          Type      `json:"type"`
	PageID        int64     `json:"page_id"`
	RequestID     int64     `json:"request_id,omitempty"`
	NewHTML       string    `json:"new_html,omitempty"`
	TotalLikes    int64     `json:"total_likes,omitempty"`
	TotalDislikes int64     `json:"total_dislikes,omitempty"`
	At            time.Time `json:"at"`
}

// Publisher is the producer side of the bus. Services depend on this
// interface so tests can capture emitted events.
type Publisher interface {
	Publish(ev Event)
}
