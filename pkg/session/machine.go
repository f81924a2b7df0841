package session

import (
	"log/slog"
	"time"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/engine"
	"github.com/aretw0/wayfinder/pkg/text"
)

// Machine is the navigation state machine for one traversal of one graph.
// Every operation completes synchronously and is total over well-formed state.
// A Machine is owned by a single user context and is not safe for concurrent use;
// servers serialize access through Manager.
type Machine struct {
	graph  *domain.Graph
	state  *domain.State
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithMachineLogger sets the logger used for diagnostics such as unresolvable edges.
func WithMachineLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) MachineOption {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithClock overrides the time source used for StartedAt.
func WithClock(now func() time.Time) MachineOption {
	return func(m *Machine) {
		m.now = now
	}
}

// NewMachine creates a machine in the pristine state: pointer at the start node,
// no answers, no history and no active session.
func NewMachine(g *domain.Graph, opts ...MachineOption) *Machine {
	m := &Machine{
		graph:  g,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.state = domain.NewState(g.ID, g.StartNodeID)
	return m
}

// Graph returns the graph the machine walks.
func (m *Machine) Graph() *domain.Graph {
	return m.graph
}

// State returns a copy of the current state.
func (m *Machine) State() *domain.State {
	return m.state.Clone()
}

// Restore replaces the current state with a copy of s.
// An empty pointer falls back to the start node.
func (m *Machine) Restore(s *domain.State) {
	restored := s.Clone()
	if restored == nil {
		restored = domain.NewState(m.graph.ID, m.graph.StartNodeID)
	}
	if restored.Answers == nil {
		restored.Answers = make(map[string]string)
	}
	if restored.CurrentNodeID == "" {
		restored.CurrentNodeID = m.graph.StartNodeID
	}
	if restored.GraphID == "" {
		restored.GraphID = m.graph.ID
	}
	m.state = restored
}

// Start begins a new session at the start node, overwriting any session in progress.
func (m *Machine) Start(userName string) {
	started := m.now()
	m.state = domain.NewState(m.graph.ID, m.graph.StartNodeID)
	m.state.UserName = userName
	m.state.StartedAt = &started

	m.emit(domain.EventStart, "", m.state.CurrentNodeID, "")
}

// SelectOption answers the current node with optionKey and advances along the matching edge.
//
// Changing a previously recorded answer drops every answer outside the current path
// (nodes neither on the back-stack nor current). Re-selecting the same answer keeps them.
//
// When no edge matches, answers and history are still updated, the position is kept,
// and false is returned. This only happens with a corrupt graph.
func (m *Machine) SelectOption(optionKey string) bool {
	current := m.state.CurrentNodeID

	if prev, answered := m.state.Answers[current]; answered && prev != optionKey {
		m.discardDownstream(current)
	}

	m.state.Answers[current] = optionKey
	if n := len(m.state.History); n == 0 || m.state.History[n-1] != current {
		m.state.History = append(m.state.History, current)
	}

	next, ok := engine.ResolveNext(m.graph, current, optionKey)
	if !ok {
		m.logger.Warn("no edge for selected option",
			"graph", m.graph.ID,
			"node", current,
			"option", optionKey,
		)
		m.emit(domain.EventUnresolved, current, current, optionKey)
		return false
	}

	m.state.CurrentNodeID = next
	m.state.OutcomeID = ""
	m.emit(domain.EventSelect, current, next, optionKey)

	if engine.IsTerminal(m.graph, next) {
		m.state.OutcomeID = next
		m.emit(domain.EventOutcome, current, next, optionKey)
	}
	return true
}

// discardDownstream drops answers recorded at nodes that are no longer on the path to current.
func (m *Machine) discardDownstream(current string) {
	var dropped []string
	for nodeID := range m.state.Answers {
		if nodeID == current || m.state.InHistory(nodeID) {
			continue
		}
		dropped = append(dropped, nodeID)
	}
	if len(dropped) == 0 {
		return
	}
	for _, nodeID := range dropped {
		delete(m.state.Answers, nodeID)
	}
	if m.hooks.OnDiscard != nil {
		m.hooks.OnDiscard(&domain.DiscardEvent{
			Timestamp: m.now(),
			GraphID:   m.graph.ID,
			NodeID:    current,
			Dropped:   dropped,
		})
	}
}

// GoBack pops the back-stack into the current position. It returns false when there is
// nowhere to go. Recorded answers are kept so the previous choice stays visible.
func (m *Machine) GoBack() bool {
	n := len(m.state.History)
	if n == 0 {
		return false
	}
	from := m.state.CurrentNodeID
	previous := m.state.History[n-1]
	m.state.History = m.state.History[:n-1]
	m.state.CurrentNodeID = previous
	m.state.OutcomeID = ""

	m.emit(domain.EventBack, from, previous, "")
	return true
}

// Reset returns to the pristine state with no active session.
func (m *Machine) Reset() {
	m.state = domain.NewState(m.graph.ID, m.graph.StartNodeID)
	m.emit(domain.EventReset, "", m.state.CurrentNodeID, "")
}

// View builds the presentation snapshot of the current position.
func (m *Machine) View() View {
	s := m.state
	v := View{
		GraphID:        m.graph.ID,
		CurrentNodeID:  s.CurrentNodeID,
		Options:        engine.OptionsFor(m.graph, s.CurrentNodeID),
		CanGoBack:      len(s.History) > 0,
		IsTerminal:     engine.IsTerminal(m.graph, s.CurrentNodeID),
		SelectedOption: s.Answers[s.CurrentNodeID],
		UserName:       s.UserName,
		Answers:        make(map[string]string, len(s.Answers)),
	}
	for k, val := range s.Answers {
		v.Answers[k] = val
	}

	if node, ok := engine.LookupNode(m.graph, s.CurrentNodeID); ok {
		v.Node = &node
		prompt := node.Text
		if node.IsResult() {
			prompt = node.Intro
		}
		v.Prompt = text.Substitute(prompt, s.UserName, s.Answers)
	}
	if s.OutcomeID != "" {
		if outcome, ok := engine.LookupNode(m.graph, s.OutcomeID); ok {
			v.Outcome = &outcome
		}
	}
	return v
}

func (m *Machine) emit(typ domain.EventType, from, to, optionKey string) {
	if m.hooks.OnTransition == nil {
		return
	}
	m.hooks.OnTransition(&domain.NodeEvent{
		Timestamp:  m.now(),
		Type:       typ,
		GraphID:    m.graph.ID,
		FromNodeID: from,
		NodeID:     to,
		OptionKey:  optionKey,
	})
}
