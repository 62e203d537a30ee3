package sim

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"islandgen/internal/fsm"
	"islandgen/internal/geom"
	"islandgen/internal/scatter"
)

// Drone states.
const (
	StatePatrol = "patrol"
	StateChase  = "chase"
	StateReturn = "return"
)

// Drone events.
const (
	EventTargetSpotted fsm.Event = "targetSpotted"
	EventTargetLost    fsm.Event = "targetLost"
)

const (
	droneCruiseSpeed   = 8.0
	droneChaseSpeed    = 12.0
	droneHoverHeight   = 6.0
	droneArriveEpsilon = 0.5
	droneLowBattery    = 0.2
	droneDrainPerSec   = 0.01
	droneChargePerSec  = 0.25
)

// Drone is a flight controller state machine holding a fixed altitude above
// the terrain. It patrols waypoints, chases spotted targets, and returns home
// on low battery.
type Drone struct {
	ID       string
	Position geom.Vec3
	Battery  float64

	machine   *fsm.Machine
	ground    scatter.GroundQuery
	home      geom.Vec2
	waypoints []geom.Vec2
	waypoint  int
	target    geom.Vec2
	hasTarget bool
}

func NewDrone(home geom.Vec2, waypoints []geom.Vec2, ground scatter.GroundQuery) (*Drone, error) {
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("drone needs at least one patrol waypoint")
	}

	d := &Drone{
		ID:        uuid.NewString(),
		Battery:   1,
		machine:   fsm.New(),
		ground:    ground,
		home:      home,
		waypoints: append([]geom.Vec2(nil), waypoints...),
	}
	d.Position = d.hoverAt(home)

	states := []fsm.State{
		{Name: StatePatrol, OnTick: d.tickPatrol},
		{Name: StateChase, OnTick: d.tickChase},
		{Name: StateReturn, OnTick: d.tickReturn},
	}
	for _, s := range states {
		if err := d.machine.AddState(s); err != nil {
			return nil, err
		}
	}

	transitions := []fsm.Transition{
		{From: StatePatrol, To: StateReturn, Guard: d.batteryLow},
		{From: StateChase, To: StateReturn, Guard: d.batteryLow},
		{From: StateReturn, To: StatePatrol, Guard: d.recharged},
		{From: StatePatrol, To: StateChase, Event: EventTargetSpotted, Guard: func() bool { return d.hasTarget }},
		{From: StateChase, To: StatePatrol, Event: EventTargetLost},
	}
	for _, t := range transitions {
		if err := d.machine.AddTransition(t); err != nil {
			return nil, err
		}
	}

	if err := d.machine.Start(StatePatrol); err != nil {
		return nil, err
	}
	return d, nil
}

// SpotTarget reports a target position and fires the chase event.
func (d *Drone) SpotTarget(p geom.Vec2) bool {
	d.target = p
	d.hasTarget = true
	return d.machine.Fire(EventTargetSpotted)
}

// LoseTarget clears the target and fires the lost event.
func (d *Drone) LoseTarget() bool {
	d.hasTarget = false
	return d.machine.Fire(EventTargetLost)
}

// Update drains battery and advances the flight state machine by one tick.
func (d *Drone) Update(dt time.Duration) {
	if d.machine.Current() != StateReturn {
		d.Battery -= droneDrainPerSec * dt.Seconds()
		if d.Battery < 0 {
			d.Battery = 0
		}
	}
	d.machine.Update(dt)
}

// State reports the active state name.
func (d *Drone) State() string {
	return d.machine.Current()
}

func (d *Drone) tickPatrol(dt time.Duration) {
	goal := d.waypoints[d.waypoint]
	if d.flyToward(goal, droneCruiseSpeed, dt) {
		d.waypoint = (d.waypoint + 1) % len(d.waypoints)
	}
}

func (d *Drone) tickChase(dt time.Duration) {
	if !d.hasTarget {
		return
	}
	d.flyToward(d.target, droneChaseSpeed, dt)
}

func (d *Drone) tickReturn(dt time.Duration) {
	if d.flyToward(d.home, droneCruiseSpeed, dt) {
		d.Battery += droneChargePerSec * dt.Seconds()
		if d.Battery > 1 {
			d.Battery = 1
		}
	}
}

func (d *Drone) batteryLow() bool {
	return d.Battery <= droneLowBattery
}

func (d *Drone) recharged() bool {
	return d.Battery >= 1 && d.atGoal(d.home)
}

// flyToward advances horizontally and holds hover altitude over the terrain
// under the new position. It reports whether the goal has been reached.
func (d *Drone) flyToward(goal geom.Vec2, speed float64, dt time.Duration) bool {
	here := geom.Vec2{X: d.Position.X, Y: d.Position.Z}
	delta := goal.Sub(here)
	dist := delta.Len()
	if dist <= droneArriveEpsilon {
		return true
	}

	step := speed * dt.Seconds()
	if step > dist {
		step = dist
	}
	next := here.Add(delta.Scale(step / dist))
	d.Position = d.hoverAt(next)
	return next.Dist(goal) <= droneArriveEpsilon
}

func (d *Drone) hoverAt(p geom.Vec2) geom.Vec3 {
	altitude := droneHoverHeight
	if height, ok := d.ground(p); ok {
		altitude = height + droneHoverHeight
	}
	return geom.Vec3{X: p.X, Y: altitude, Z: p.Y}
}

func (d *Drone) atGoal(goal geom.Vec2) bool {
	here := geom.Vec2{X: d.Position.X, Y: d.Position.Z}
	return here.Dist(goal) <= droneArriveEpsilon
}
