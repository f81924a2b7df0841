package session

import "github.com/aretw0/wayfinder/pkg/domain"

// View is what the presentation layer renders for the current position.
type View struct {
	GraphID       string       `json:"graph_id"`
	CurrentNodeID string       `json:"current_node_id"`
	Node          *domain.Node `json:"node,omitempty"`
	// Prompt is the node text (or result intro) with placeholders resolved.
	Prompt     string        `json:"prompt"`
	Options    []domain.Edge `json:"options"`
	CanGoBack  bool          `json:"can_go_back"`
	IsTerminal bool          `json:"is_terminal"`
	Outcome    *domain.Node  `json:"outcome,omitempty"`

	// SelectedOption is the answer previously recorded here, shown as highlighted after going back.
	SelectedOption string            `json:"selected_option,omitempty"`
	UserName       string            `json:"user_name,omitempty"`
	Answers        map[string]string `json:"answers"`
}
