package domain

import "time"

// EventType defines the category of a traversal event.
type EventType string

const (
	EventStart      EventType = "start"
	EventSelect     EventType = "select"
	EventBack       EventType = "back"
	EventReset      EventType = "reset"
	EventOutcome    EventType = "outcome"
	EventUnresolved EventType = "unresolved"
)

// NodeEvent describes a movement of the session pointer.
type NodeEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	GraphID   string    `json:"graph_id,omitempty"`
	// FromNodeID is empty for start and reset.
	FromNodeID string `json:"from_node_id,omitempty"`
	NodeID     string `json:"node_id"`
	OptionKey  string `json:"option_key,omitempty"`
}

// DiscardEvent lists answers dropped after an upstream choice changed.
type DiscardEvent struct {
	Timestamp time.Time `json:"timestamp"`
	GraphID   string    `json:"graph_id,omitempty"`
	NodeID    string    `json:"node_id"`
	Dropped   []string  `json:"dropped"`
}

// LifecycleHooks defines callbacks for traversal observability.
// Hooks run synchronously inside the transition and must not call back into the session.
type LifecycleHooks struct {
	OnTransition func(*NodeEvent)
	OnDiscard    func(*DiscardEvent)
}
