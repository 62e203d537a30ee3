package sim

import (
	"fmt"
	"math/rand"
	"time"

	"islandgen/internal/fsm"
	"islandgen/internal/geom"
	"islandgen/internal/pool"
	"islandgen/internal/scatter"
)

// World is the composition root for the simulation glue: it owns the
// per-kind enemy pools, the drones, and the shared ground query, and wires
// them together explicitly instead of through package-level singletons.
type World struct {
	ground scatter.GroundQuery
	rng    *rand.Rand

	pools  map[string]*pool.Pool[Enemy]
	active map[string][]*Enemy
	drones []*Drone
}

// PoolSpec sizes one enemy kind's fixed pool.
type PoolSpec struct {
	Kind     string
	Capacity int
}

func NewWorld(ground scatter.GroundQuery, rng *rand.Rand, specs []PoolSpec) (*World, error) {
	if ground == nil {
		return nil, fmt.Errorf("ground query is required")
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one enemy pool spec is required")
	}

	w := &World{
		ground: ground,
		rng:    rng,
		pools:  make(map[string]*pool.Pool[Enemy], len(specs)),
		active: make(map[string][]*Enemy, len(specs)),
	}

	for _, spec := range specs {
		spec := spec
		if _, exists := w.pools[spec.Kind]; exists {
			return nil, fmt.Errorf("duplicate pool spec for kind %q", spec.Kind)
		}
		factory := func() *Enemy {
			enemy, err := NewEnemy(spec.Kind, ground, rng)
			if err != nil {
				// State and transition names are compile-time constants;
				// a failure here is a programming error.
				panic(err)
			}
			return enemy
		}
		p, err := pool.New(spec.Capacity, 0, factory, pool.Hooks[Enemy]{
			OnRelease: func(e *Enemy) { e.Park() },
		})
		if err != nil {
			return nil, fmt.Errorf("pool for kind %q: %w", spec.Kind, err)
		}
		w.pools[spec.Kind] = p
	}
	return w, nil
}

// SpawnEnemies places up to amount enemies of the given kind at well-spaced
// scatter positions. Requesting more than the kind's pool holds is a fatal
// configuration error; a scatter shortfall is tolerated and reported.
func (w *World) SpawnEnemies(kind string, amount int, sampler *scatter.Sampler) (scatter.Report, error) {
	p, ok := w.pools[kind]
	if !ok {
		return scatter.Report{}, fmt.Errorf("unknown enemy kind %q", kind)
	}
	if amount > p.Available() {
		return scatter.Report{}, fmt.Errorf("requested %d %q enemies but pool holds %d: %w",
			amount, kind, p.Available(), pool.ErrCapacityExhausted)
	}

	transforms, report := scatter.Place(sampler, amount, w.ground, w.rng)
	for _, t := range transforms {
		enemy, err := p.Acquire()
		if err != nil {
			return report, fmt.Errorf("acquire %q enemy: %w", kind, err)
		}
		enemy.Position = t.Position
		w.active[kind] = append(w.active[kind], enemy)
	}
	return report, nil
}

// AddDrone registers a patrol drone.
func (w *World) AddDrone(home geom.Vec2, waypoints []geom.Vec2) (*Drone, error) {
	drone, err := NewDrone(home, waypoints, w.ground)
	if err != nil {
		return nil, err
	}
	w.drones = append(w.drones, drone)
	return drone, nil
}

// Update advances every active enemy and drone by one tick.
func (w *World) Update(dt time.Duration) {
	for _, enemies := range w.active {
		for _, enemy := range enemies {
			enemy.Update(dt)
		}
	}
	for _, drone := range w.drones {
		drone.Update(dt)
	}
}

// Broadcast fires an event at every active enemy and reports how many
// transitioned.
func (w *World) Broadcast(event fsm.Event) int {
	count := 0
	for _, enemies := range w.active {
		for _, enemy := range enemies {
			if enemy.Fire(event) {
				count++
			}
		}
	}
	return count
}

// ReturnAllToPool parks every active enemy back into its pool. Calling it
// twice in a row is a no-op the second time.
func (w *World) ReturnAllToPool() {
	for kind, p := range w.pools {
		p.ReturnAll()
		w.active[kind] = w.active[kind][:0]
	}
}

// ActiveEnemies returns the live enemies of one kind.
func (w *World) ActiveEnemies(kind string) []*Enemy {
	return w.active[kind]
}

// Drones returns the registered drones.
func (w *World) Drones() []*Drone {
	return w.drones
}
