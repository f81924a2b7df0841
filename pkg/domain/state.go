package domain

import (
	"slices"
	"time"
)

// State is the persisted snapshot of one traversal session.
type State struct {
	// GraphID names the graph artifact the session walks.
	GraphID string `json:"graph_id,omitempty"`

	// CurrentNodeID is the node on screen.
	CurrentNodeID string `json:"current_node_id"`

	// Answers maps a node id to the option key chosen there.
	Answers map[string]string `json:"answers"`

	// History is the back-stack of visited node ids. The last element is the top.
	History []string `json:"history"`

	UserName string `json:"user_name,omitempty"`

	// OutcomeID is set only while CurrentNodeID is a result node.
	OutcomeID string `json:"outcome_id,omitempty"`

	StartedAt *time.Time `json:"started_at,omitempty"`
}

// NewState creates a clean state positioned at startNodeID.
func NewState(graphID, startNodeID string) *State {
	return &State{
		GraphID:       graphID,
		CurrentNodeID: startNodeID,
		Answers:       make(map[string]string),
		History:       []string{},
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		c.Answers[k] = v
	}
	c.History = slices.Clone(s.History)
	if c.History == nil {
		c.History = []string{}
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		c.StartedAt = &t
	}
	return &c
}

// InHistory reports whether nodeID is on the back-stack.
func (s *State) InHistory(nodeID string) bool {
	return slices.Contains(s.History, nodeID)
}

// Active reports whether the state holds a session in progress.
func (s *State) Active() bool {
	return s.StartedAt != nil || len(s.History) > 0 || len(s.Answers) > 0
}
