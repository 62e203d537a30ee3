package fsm

import (
	"testing"
	"time"
)

func twoStateMachine(t *testing.T) *Machine {
	t.Helper()
	m := New()
	for _, name := range []string{"idle", "walk"} {
		if err := m.AddState(State{Name: name}); err != nil {
			t.Fatalf("add state %q: %v", name, err)
		}
	}
	return m
}

func TestStartEntersInitialState(t *testing.T) {
	m := New()
	entered := false
	if err := m.AddState(State{Name: "idle", OnEnter: func() { entered = true }}); err != nil {
		t.Fatalf("add state: %v", err)
	}

	if err := m.Start("idle"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !entered {
		t.Fatalf("initial state enter hook should run")
	}
	if m.Current() != "idle" {
		t.Fatalf("current should be idle, got %q", m.Current())
	}

	if err := m.Start("missing"); err == nil {
		t.Fatalf("expected error for unknown initial state")
	}
}

func TestTickTransitionWaitsForGuard(t *testing.T) {
	m := twoStateMachine(t)
	err := m.AddTransition(Transition{
		From:  "idle",
		To:    "walk",
		Guard: func() bool { return m.TimeInState() >= 2*time.Second },
	})
	if err != nil {
		t.Fatalf("add transition: %v", err)
	}
	if err := m.Start("idle"); err != nil {
		t.Fatalf("start: %v", err)
	}

	m.Update(time.Second)
	if m.Current() != "idle" {
		t.Fatalf("guard not yet satisfied, should stay idle")
	}
	m.Update(time.Second)
	if m.Current() != "walk" {
		t.Fatalf("guard satisfied, should now walk, got %q", m.Current())
	}
	if m.TimeInState() != 0 {
		t.Fatalf("time in state should reset on transition, got %v", m.TimeInState())
	}
}

func TestFireRoutesEvents(t *testing.T) {
	m := twoStateMachine(t)
	if err := m.AddTransition(Transition{From: "idle", To: "walk", Event: "go"}); err != nil {
		t.Fatalf("add transition: %v", err)
	}
	if err := m.Start("idle"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if m.Fire("stop") {
		t.Fatalf("unmatched event must not fire")
	}
	if !m.Fire("go") {
		t.Fatalf("matching event should fire")
	}
	if m.Current() != "walk" {
		t.Fatalf("event should have moved the machine to walk, got %q", m.Current())
	}
	if m.Fire("go") {
		t.Fatalf("event with no transition from the new state must not fire")
	}
}

func TestGuardBlocksEvent(t *testing.T) {
	m := twoStateMachine(t)
	allowed := false
	err := m.AddTransition(Transition{
		From:  "idle",
		To:    "walk",
		Event: "go",
		Guard: func() bool { return allowed },
	})
	if err != nil {
		t.Fatalf("add transition: %v", err)
	}
	if err := m.Start("idle"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if m.Fire("go") {
		t.Fatalf("guarded event should not fire while the guard fails")
	}
	allowed = true
	if !m.Fire("go") {
		t.Fatalf("guarded event should fire once the guard passes")
	}
}

func TestTransitionRunsHooksInOrder(t *testing.T) {
	m := New()
	var order []string
	states := []State{
		{Name: "a", OnExit: func() { order = append(order, "exit-a") }},
		{Name: "b", OnEnter: func() { order = append(order, "enter-b") }},
	}
	for _, s := range states {
		if err := m.AddState(s); err != nil {
			t.Fatalf("add state: %v", err)
		}
	}
	if err := m.AddTransition(Transition{From: "a", To: "b", Event: "next"}); err != nil {
		t.Fatalf("add transition: %v", err)
	}
	m.Observe(func(from, to string) { order = append(order, from+"->"+to) })

	if err := m.Start("a"); err != nil {
		t.Fatalf("start: %v", err)
	}
	m.Fire("next")

	want := []string{"exit-a", "enter-b", "a->b"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("hook order diverged: expected %v, got %v", want, order)
		}
	}
}

func TestFirstPassingTickTransitionWins(t *testing.T) {
	m := New()
	for _, name := range []string{"a", "b", "c"} {
		if err := m.AddState(State{Name: name}); err != nil {
			t.Fatalf("add state: %v", err)
		}
	}
	if err := m.AddTransition(Transition{From: "a", To: "b"}); err != nil {
		t.Fatalf("add transition: %v", err)
	}
	if err := m.AddTransition(Transition{From: "a", To: "c"}); err != nil {
		t.Fatalf("add transition: %v", err)
	}
	if err := m.Start("a"); err != nil {
		t.Fatalf("start: %v", err)
	}

	m.Update(time.Millisecond)
	if m.Current() != "b" {
		t.Fatalf("first registered transition should win, got %q", m.Current())
	}
}

func TestOnTickRunsBeforeTransitions(t *testing.T) {
	m := New()
	ticked := time.Duration(0)
	if err := m.AddState(State{Name: "a", OnTick: func(dt time.Duration) { ticked += dt }}); err != nil {
		t.Fatalf("add state: %v", err)
	}
	if err := m.AddState(State{Name: "b"}); err != nil {
		t.Fatalf("add state: %v", err)
	}
	if err := m.AddTransition(Transition{From: "a", To: "b"}); err != nil {
		t.Fatalf("add transition: %v", err)
	}
	if err := m.Start("a"); err != nil {
		t.Fatalf("start: %v", err)
	}

	m.Update(50 * time.Millisecond)
	if ticked != 50*time.Millisecond {
		t.Fatalf("tick hook should run before the transition, got %v", ticked)
	}
	if m.Current() != "b" {
		t.Fatalf("machine should have transitioned after the tick")
	}
}

func TestValidationErrors(t *testing.T) {
	m := New()
	if err := m.AddState(State{}); err == nil {
		t.Fatalf("expected error for empty state name")
	}
	if err := m.AddState(State{Name: "a"}); err != nil {
		t.Fatalf("add state: %v", err)
	}
	if err := m.AddState(State{Name: "a"}); err == nil {
		t.Fatalf("expected error for duplicate state")
	}
	if err := m.AddTransition(Transition{From: "a", To: "missing"}); err == nil {
		t.Fatalf("expected error for unknown target state")
	}
	if err := m.AddTransition(Transition{From: "missing", To: "a"}); err == nil {
		t.Fatalf("expected error for unknown source state")
	}
}

func TestUpdateBeforeStartIsNoOp(t *testing.T) {
	m := twoStateMachine(t)
	m.Update(time.Second)
	if m.Current() != "" {
		t.Fatalf("machine should stay inert before Start")
	}
	if m.Fire("go") {
		t.Fatalf("events before Start must not fire")
	}
}
