package fsm

import (
	"fmt"
	"time"
)

// Event is an external stimulus routed through the machine. The empty event
// marks transitions evaluated automatically every tick.
type Event string

// Guard decides whether a transition may fire.
type Guard func() bool

// Observer is notified after every completed state change.
type Observer func(from, to string)

// State is one node of the machine. All hooks are optional.
type State struct {
	Name    string
	OnEnter func()
	OnExit  func()
	OnTick  func(dt time.Duration)
}

// Transition connects two states, fired either by an event or, when Event is
// empty, checked once per Update tick. Transitions are evaluated in the order
// they were added; the first passing guard wins.
type Transition struct {
	From  string
	To    string
	Event Event
	Guard Guard
}

// Machine is an explicit single-region state machine advanced once per tick.
// Waits are modelled as accumulated time checked by guards, so an event
// arriving mid-wait interrupts the wait immediately.
type Machine struct {
	states      map[string]*State
	transitions map[string][]Transition
	observers   []Observer

	current     string
	timeInState time.Duration
}

func New() *Machine {
	return &Machine{
		states:      make(map[string]*State),
		transitions: make(map[string][]Transition),
	}
}

func (m *Machine) AddState(s State) error {
	if s.Name == "" {
		return fmt.Errorf("state name must not be empty")
	}
	if _, exists := m.states[s.Name]; exists {
		return fmt.Errorf("state %q already defined", s.Name)
	}
	copied := s
	m.states[s.Name] = &copied
	return nil
}

func (m *Machine) AddTransition(t Transition) error {
	if _, ok := m.states[t.From]; !ok {
		return fmt.Errorf("transition from unknown state %q", t.From)
	}
	if _, ok := m.states[t.To]; !ok {
		return fmt.Errorf("transition to unknown state %q", t.To)
	}
	m.transitions[t.From] = append(m.transitions[t.From], t)
	return nil
}

// Observe registers a state-change listener. This replaces ad hoc multicast
// callbacks with one explicit observer list.
func (m *Machine) Observe(fn Observer) {
	m.observers = append(m.observers, fn)
}

// Start enters the initial state.
func (m *Machine) Start(initial string) error {
	state, ok := m.states[initial]
	if !ok {
		return fmt.Errorf("unknown initial state %q", initial)
	}
	m.current = initial
	m.timeInState = 0
	if state.OnEnter != nil {
		state.OnEnter()
	}
	return nil
}

// Update accumulates time, runs the current state's tick hook, then fires the
// first tick transition whose guard passes.
func (m *Machine) Update(dt time.Duration) {
	if m.current == "" {
		return
	}
	m.timeInState += dt

	state := m.states[m.current]
	if state.OnTick != nil {
		state.OnTick(dt)
	}

	for _, t := range m.transitions[m.current] {
		if t.Event != "" {
			continue
		}
		if t.Guard == nil || t.Guard() {
			m.transition(t.To)
			return
		}
	}
}

// Fire routes an external event. It reports whether a transition fired.
func (m *Machine) Fire(event Event) bool {
	if m.current == "" || event == "" {
		return false
	}
	for _, t := range m.transitions[m.current] {
		if t.Event != event {
			continue
		}
		if t.Guard == nil || t.Guard() {
			m.transition(t.To)
			return true
		}
	}
	return false
}

func (m *Machine) transition(to string) {
	from := m.current
	if fromState := m.states[from]; fromState.OnExit != nil {
		fromState.OnExit()
	}
	m.current = to
	m.timeInState = 0
	if toState := m.states[to]; toState.OnEnter != nil {
		toState.OnEnter()
	}
	for _, fn := range m.observers {
		fn(from, to)
	}
}

// Current returns the active state name, empty before Start.
func (m *Machine) Current() string { return m.current }

// TimeInState returns the accumulated time since the last transition.
func (m *Machine) TimeInState() time.Duration { return m.timeInState }
