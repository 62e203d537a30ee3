package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"islandgen/internal/fsm"
	"islandgen/internal/geom"
	"islandgen/internal/scatter"
)

// Enemy states.
const (
	StateIdle     = "idle"
	StateWalk     = "walk"
	StateConfused = "confused"
	StateAttack   = "attack"
)

// Events an enemy reacts to.
const (
	EventConfused  fsm.Event = "confused"
	EventAttack    fsm.Event = "attack"
	EventAttackEnd fsm.Event = "attackEnd"
)

const (
	enemyWanderRadius  = 12.0
	enemySpeed         = 2.5
	enemyArriveEpsilon = 0.25
	confusedDuration   = 3 * time.Second
	idleWaitMin        = 2 * time.Second
	idleWaitSpan       = 3 * time.Second
)

// Enemy is a ground unit driven by an explicit state machine: idle waits,
// wander walks, and interrupt events for confusion and attacks. All waits are
// per-tick timer checks, so an attack event aborts a pending wait immediately.
type Enemy struct {
	ID       string
	Kind     string
	Position geom.Vec3

	machine *fsm.Machine
	ground  scatter.GroundQuery
	rng     *rand.Rand

	wait   time.Duration
	target geom.Vec2
}

func NewEnemy(kind string, ground scatter.GroundQuery, rng *rand.Rand) (*Enemy, error) {
	e := &Enemy{
		ID:      uuid.NewString(),
		Kind:    kind,
		machine: fsm.New(),
		ground:  ground,
		rng:     rng,
	}

	states := []fsm.State{
		{Name: StateIdle, OnEnter: e.enterIdle},
		{Name: StateWalk, OnEnter: e.enterWalk, OnTick: e.tickWalk},
		{Name: StateConfused},
		{Name: StateAttack},
	}
	for _, s := range states {
		if err := e.machine.AddState(s); err != nil {
			return nil, err
		}
	}

	transitions := []fsm.Transition{
		{From: StateIdle, To: StateWalk, Guard: func() bool { return e.machine.TimeInState() >= e.wait }},
		{From: StateWalk, To: StateIdle, Guard: e.arrived},
		{From: StateConfused, To: StateIdle, Guard: func() bool { return e.machine.TimeInState() >= confusedDuration }},
		{From: StateIdle, To: StateConfused, Event: EventConfused},
		{From: StateWalk, To: StateConfused, Event: EventConfused},
		{From: StateIdle, To: StateAttack, Event: EventAttack},
		{From: StateWalk, To: StateAttack, Event: EventAttack},
		{From: StateConfused, To: StateAttack, Event: EventAttack},
		{From: StateAttack, To: StateIdle, Event: EventAttackEnd},
	}
	for _, t := range transitions {
		if err := e.machine.AddTransition(t); err != nil {
			return nil, err
		}
	}

	if err := e.machine.Start(StateIdle); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Enemy) enterIdle() {
	e.wait = idleWaitMin + time.Duration(e.rng.Float64()*float64(idleWaitSpan))
}

func (e *Enemy) enterWalk() {
	angle := e.rng.Float64() * 2 * math.Pi
	dist := e.rng.Float64() * enemyWanderRadius
	e.target = geom.Vec2{
		X: e.Position.X + dist*math.Cos(angle),
		Y: e.Position.Z + dist*math.Sin(angle),
	}
}

func (e *Enemy) tickWalk(dt time.Duration) {
	here := geom.Vec2{X: e.Position.X, Y: e.Position.Z}
	delta := e.target.Sub(here)
	dist := delta.Len()
	if dist < 1e-9 {
		return
	}

	step := enemySpeed * dt.Seconds()
	if step > dist {
		step = dist
	}
	next := here.Add(delta.Scale(step / dist))

	// Refuse to walk off the island.
	height, ok := e.ground(next)
	if !ok {
		e.target = here
		return
	}
	e.Position = geom.Vec3{X: next.X, Y: height, Z: next.Y}
}

func (e *Enemy) arrived() bool {
	here := geom.Vec2{X: e.Position.X, Y: e.Position.Z}
	return here.Dist(e.target) <= enemyArriveEpsilon
}

// Update advances the state machine by one tick.
func (e *Enemy) Update(dt time.Duration) {
	e.machine.Update(dt)
}

// Fire routes an external event to the state machine.
func (e *Enemy) Fire(event fsm.Event) bool {
	return e.machine.Fire(event)
}

// State reports the active state name.
func (e *Enemy) State() string {
	return e.machine.Current()
}

// Observe subscribes to the enemy's state changes.
func (e *Enemy) Observe(fn fsm.Observer) {
	e.machine.Observe(fn)
}

// Park resets the enemy to its pooled rest state: origin position, idle
// machine, cleared target.
func (e *Enemy) Park() {
	e.Position = geom.Vec3{}
	e.target = geom.Vec2{}
	e.wait = 0
	// Restart so a reacquired instance never resumes a stale state.
	_ = e.machine.Start(StateIdle)
}
