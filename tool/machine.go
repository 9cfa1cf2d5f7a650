package tool

import (
	"errors"
	"fmt"
	"strings"

	"scrawl/internal/logging"
)

// ErrUnknownState is returned when a transition names a state that does
// not exist in the tool's tree.
var ErrUnknownState = errors.New("tool: unknown state")

// Transition is a handler's verdict on an event.
type Transition struct {
	// To is a dotted path from the tool root, e.g. "pointing.shape".
	// Empty means stay in the current state.
	To      string
	Session Session
	Effects []Command
	// Handled stops the event from bubbling to ancestors.
	Handled bool
}

// Goto moves to the state at path.
func Goto(path string, s Session, effects ...Command) Transition {
	return Transition{To: path, Session: s, Effects: effects, Handled: true}
}

// Stay keeps the current state.
func Stay(s Session, effects ...Command) Transition {
	return Transition{Session: s, Effects: effects, Handled: true}
}

// Pass leaves the event to the node's ancestors.
func Pass() Transition {
	return Transition{}
}

// Handler reacts to one event type in one state.
type Handler func(Session, Event) (Transition, error)

// Hook runs when a state is entered or exited.
type Hook func(Session) (Session, []Command, error)

// Node is one state in a tool's tree.
type Node struct {
	ID string

	parent   *Node
	children map[string]*Node
	initial  string
	active   *Node

	handlers map[EventType]Handler
	onEnter  Hook
	onExit   Hook
}

// NodeOption configures a Node.
type NodeOption func(*Node)

// On handles events of type t in this state.
func On(t EventType, h Handler) NodeOption {
	return func(n *Node) { n.handlers[t] = h }
}

// OnEnter runs h when the state is entered.
func OnEnter(h Hook) NodeOption {
	return func(n *Node) { n.onEnter = h }
}

// OnExit runs h when the state is exited.
func OnExit(h Hook) NodeOption {
	return func(n *Node) { n.onExit = h }
}

// Children nests states below this one. initial is entered whenever this
// state is entered directly.
func Children(initial string, nodes ...*Node) NodeOption {
	return func(n *Node) {
		n.initial = initial
		for _, c := range nodes {
			c.parent = n
			n.children[c.ID] = c
		}
	}
}

// NewNode creates a state node.
func NewNode(id string, opts ...NodeOption) *Node {
	n := &Node{
		ID:       id,
		children: make(map[string]*Node),
		handlers: make(map[EventType]Handler),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.initial != "" && n.children[n.initial] == nil {
		panic(fmt.Sprintf("tool: node %q has no initial child %q", id, n.initial))
	}
	return n
}

// find resolves a dotted path relative to n.
func (n *Node) find(path string) (*Node, error) {
	cur := n
	for _, id := range strings.Split(path, ".") {
		next, ok := cur.children[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q in %q", ErrUnknownState, path, n.ID)
		}
		cur = next
	}
	return cur, nil
}

func (n *Node) depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

func commonAncestor(a, b *Node) *Node {
	for a.depth() > b.depth() {
		a = a.parent
	}
	for b.depth() > a.depth() {
		b = b.parent
	}
	for a != b {
		a, b = a.parent, b.parent
	}
	return a
}

// Machine drives one tool's state tree.
//
// Machine is not safe for concurrent use. Events dispatched while a
// transition's effects are being applied are queued and handled once the
// current event is finished.
type Machine struct {
	root    *Node
	applier Applier
	sess    Session

	queue       []Event
	dispatching bool
}

// NewMachine creates a machine for the tool rooted at root, starting in its
// initial states. Enter hooks of the initial states are not run.
func NewMachine(root *Node, applier Applier) *Machine {
	for n := root; n.initial != ""; n = n.active {
		n.active = n.children[n.initial]
	}
	return &Machine{root: root, applier: applier}
}

// ID returns the tool id.
func (m *Machine) ID() string { return m.root.ID }

// Session returns the current session.
func (m *Machine) Session() Session { return m.sess }

// State returns the dotted path of the active leaf.
func (m *Machine) State() string {
	var parts []string
	for n := m.root.active; n != nil; n = n.active {
		parts = append(parts, n.ID)
	}
	return strings.Join(parts, ".")
}

// Is reports whether the state at path is active.
func (m *Machine) Is(path string) bool {
	state := m.State()
	return state == path || strings.HasPrefix(state, path+".")
}

func (m *Machine) leaf() *Node {
	n := m.root
	for n.active != nil {
		n = n.active
	}
	return n
}

// Dispatch delivers ev. The first error from a handler, hook, or the
// applier stops processing and drops any queued events.
func (m *Machine) Dispatch(ev Event) error {
	m.queue = append(m.queue, ev)
	if m.dispatching {
		return nil
	}
	m.dispatching = true
	defer func() { m.dispatching = false }()

	for len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		if err := m.handle(next); err != nil {
			m.queue = nil
			return err
		}
	}
	return nil
}

func (m *Machine) handle(ev Event) error {
	m.sess.Inputs = m.sess.Inputs.update(ev)
	for n := m.leaf(); n != nil; n = n.parent {
		h, ok := n.handlers[ev.Type]
		if !ok {
			continue
		}
		tr, err := h(m.sess, ev)
		if err != nil {
			return fmt.Errorf("tool: %s in %s: %w", ev.Type, m.State(), err)
		}
		if !tr.Handled {
			continue
		}
		return m.apply(tr, ev)
	}
	return nil
}

func (m *Machine) apply(tr Transition, ev Event) error {
	m.sess = tr.Session
	effects := tr.Effects

	if tr.To != "" {
		more, err := m.transition(tr.To, ev)
		if err != nil {
			return err
		}
		effects = append(effects[:len(effects):len(effects)], more...)
	}

	for _, cmd := range effects {
		if err := m.applier.Apply(cmd); err != nil {
			return fmt.Errorf("tool: apply %T: %w", cmd, err)
		}
	}
	return nil
}

// transition moves the active leaf to path, running exit hooks from the old
// leaf up to the common ancestor and enter hooks down to the new leaf.
func (m *Machine) transition(path string, ev Event) ([]Command, error) {
	target, err := m.root.find(path)
	if err != nil {
		return nil, err
	}
	from := m.leaf()
	if from == target {
		return nil, nil
	}
	fromState := m.State()
	lca := commonAncestor(from, target)

	var effects []Command
	run := func(h Hook) error {
		if h == nil {
			return nil
		}
		sess, cmds, err := h(m.sess)
		if err != nil {
			return err
		}
		m.sess = sess
		effects = append(effects, cmds...)
		return nil
	}

	for n := from; n != lca; n = n.parent {
		if err := run(n.onExit); err != nil {
			return nil, fmt.Errorf("tool: exit %s: %w", n.ID, err)
		}
		n.active = nil
		n.parent.active = nil
	}

	var down []*Node
	for n := target; n != lca; n = n.parent {
		down = append(down, n)
	}
	for i := len(down) - 1; i >= 0; i-- {
		n := down[i]
		n.parent.active = n
		if err := run(n.onEnter); err != nil {
			return nil, fmt.Errorf("tool: enter %s: %w", n.ID, err)
		}
	}
	for n := target; n.initial != ""; n = n.active {
		c := n.children[n.initial]
		n.active = c
		if err := run(c.onEnter); err != nil {
			return nil, fmt.Errorf("tool: enter %s: %w", c.ID, err)
		}
	}

	logging.Logger().Debug("tool: transition",
		"tool", m.root.ID, "event", ev.Type.String(), "from", fromState, "to", m.State())
	return effects, nil
}
