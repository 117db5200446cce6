package rfd

import (
	"fmt"
	"time"
)

// State is the lifecycle state of an RFD, owned by the external tool.
type State string

const (
	StatePreDiscussion State = "prediscussion"
	StateIdeation      State = "ideation"
	StateDiscussion    State = "discussion"
	StatePublished     State = "published"
	StateCommitted     State = "committed"
	StateAbandoned     State = "abandoned"
)

// Valid reports whether s is one of the known lifecycle states.
func (s State) Valid() bool {
	switch s {
	case StatePreDiscussion, StateIdeation, StateDiscussion,
		StatePublished, StateCommitted, StateAbandoned:
		return true
	}
	return false
}

// Description returns the human-readable label used in room descriptions and
// change notices.
func (s State) Description() string {
	switch s {
	case StatePreDiscussion:
		return "Pre-discussion"
	case StateIdeation:
		return "Ideation"
	case StateDiscussion:
		return "In discussion"
	case StatePublished:
		return "Published"
	case StateCommitted:
		return "Committed"
	case StateAbandoned:
		return "Abandoned"
	default:
		return string(s)
	}
}

// Record is the RFD as delivered by the external tool. Treated as an
// immutable value for the duration of one webhook delivery.
type Record struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Authors         []string  `json:"authors"`
	State           State     `json:"state"`
	Tags            []string  `json:"tags"`
	Content         string    `json:"content,omitempty"`
	ContentRendered string    `json:"content_rendered,omitempty"`
	DiscussionURL   string    `json:"discussion,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StringChange is an (old, new) pair for a scalar field.
type StringChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// StateChange is an (old, new) pair for the lifecycle state.
type StateChange struct {
	Old State `json:"old"`
	New State `json:"new"`
}

// ListChange is an (old, new) pair for a list-valued field.
type ListChange struct {
	Old []string `json:"old"`
	New []string `json:"new"`
}

// ChangeSet is the structured diff accompanying an update event. A nil field
// means "unchanged"; content carries only a changed flag, never a payload.
type ChangeSet struct {
	Title         *StringChange `json:"title,omitempty"`
	State         *StateChange  `json:"state,omitempty"`
	Authors       *ListChange   `json:"authors,omitempty"`
	Tags          *ListChange   `json:"tags,omitempty"`
	DiscussionURL *StringChange `json:"discussion,omitempty"`
	Content       bool          `json:"content,omitempty"`
}

// Empty reports whether the ChangeSet carries no changes at all. An empty
// ChangeSet on an update is an explicit no-op: no side effects, no message.
func (c *ChangeSet) Empty() bool {
	if c == nil {
		return true
	}
	return c.Title == nil && c.State == nil && c.Authors == nil &&
		c.Tags == nil && c.DiscussionURL == nil && !c.Content
}

// EventType identifies a webhook delivery kind.
type EventType string

const (
	EventCreated EventType = "rfd.created"
	EventUpdated EventType = "rfd.updated"
)

// Event is the decoded webhook payload.
type Event struct {
	Event     EventType  `json:"event"`
	Timestamp time.Time  `json:"timestamp"`
	RFD       *Record    `json:"rfd"`
	Link      string     `json:"link"`
	Changes   *ChangeSet `json:"changes,omitempty"`
}

// Validate checks the required envelope fields. It does not reach into
// tool-owned record content beyond the identifier.
func (e *Event) Validate() error {
	if e.Event == "" {
		return fmt.Errorf("missing event type")
	}
	if e.Event != EventCreated && e.Event != EventUpdated {
		return fmt.Errorf("unknown event type %q", e.Event)
	}
	if e.RFD == nil {
		return fmt.Errorf("missing rfd")
	}
	if e.RFD.ID == "" {
		return fmt.Errorf("missing rfd id")
	}
	return nil
}
