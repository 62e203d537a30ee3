package scatter

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"islandgen/internal/geom"
)

const maskValidThreshold = 0.5

// Config parameterizes a best-candidate sampler. Mask and MaskBounds are
// optional; the mask bounds rectangle is independent of the spawn bounds, so
// callers may sample a padded spawn region against a full-terrain validity
// mask.
type Config struct {
	SpawnBounds        geom.Rect
	CandidatesPerPoint int
	Mask               *geom.Bitmap
	MaskBounds         geom.Rect
}

// Sampler places well-spaced points with Mitchell's best-candidate
// algorithm. Accepted points are append-only and indexed by a uniform spatial
// grid for neighborhood distance checks. Candidates returned by
// TryGetNextCandidate are NOT registered automatically: the caller confirms
// physical placement first and then calls RegisterAcceptedPosition, so failed
// placements never create phantom exclusion zones.
type Sampler struct {
	cfg      Config
	rng      *rand.Rand
	cellSize float64
	accepted []geom.Vec2
	cells    map[cellKey][]int
}

type cellKey struct {
	X int
	Y int
}

func NewSampler(cfg Config, seed int64) (*Sampler, error) {
	if cfg.SpawnBounds.Width() <= 0 || cfg.SpawnBounds.Height() <= 0 {
		return nil, fmt.Errorf("degenerate spawn bounds: %vx%v", cfg.SpawnBounds.Width(), cfg.SpawnBounds.Height())
	}
	if cfg.CandidatesPerPoint < 1 {
		return nil, fmt.Errorf("candidatesPerPoint must be at least 1, got %d", cfg.CandidatesPerPoint)
	}
	if cfg.Mask != nil && (cfg.MaskBounds.Width() <= 0 || cfg.MaskBounds.Height() <= 0) {
		return nil, errors.New("mask set but mask bounds are degenerate")
	}

	cellSize := cfg.SpawnBounds.Width() / 50
	if cellSize < 1 {
		cellSize = 1
	}

	return &Sampler{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}, nil
}

// TryGetNextCandidate draws up to CandidatesPerPoint*10 uniform points inside
// the spawn bounds, discards mask-invalid draws, and among up to
// CandidatesPerPoint valid draws returns the one farthest from every accepted
// point. Reports false when the attempt budget produced no valid candidate.
func (s *Sampler) TryGetNextCandidate() (geom.Vec2, bool) {
	var best geom.Vec2
	bestDist2 := -1.0
	validSeen := 0

	budget := s.cfg.CandidatesPerPoint * 10
	for attempt := 0; attempt < budget && validSeen < s.cfg.CandidatesPerPoint; attempt++ {
		p := geom.Vec2{
			X: s.cfg.SpawnBounds.Min.X + s.rng.Float64()*s.cfg.SpawnBounds.Width(),
			Y: s.cfg.SpawnBounds.Min.Y + s.rng.Float64()*s.cfg.SpawnBounds.Height(),
		}
		if !s.maskValid(p) {
			continue
		}
		validSeen++

		d2 := s.minDist2(p)
		if d2 > bestDist2 {
			best = p
			bestDist2 = d2
		}
	}

	if validSeen == 0 {
		return geom.Vec2{}, false
	}
	return best, true
}

// RegisterAcceptedPosition permanently records a confirmed placement into the
// accepted list and the spatial grid.
func (s *Sampler) RegisterAcceptedPosition(p geom.Vec2) {
	idx := len(s.accepted)
	s.accepted = append(s.accepted, p)
	key := s.cellOf(p)
	s.cells[key] = append(s.cells[key], idx)
}

// Accepted returns a copy of the registered placements.
func (s *Sampler) Accepted() []geom.Vec2 {
	return append([]geom.Vec2(nil), s.accepted...)
}

func (s *Sampler) maskValid(p geom.Vec2) bool {
	if s.cfg.Mask == nil {
		return true
	}
	uv, err := s.cfg.MaskBounds.Normalize(p)
	if err != nil {
		return false
	}
	if uv.X < 0 || uv.X > 1 || uv.Y < 0 || uv.Y > 1 {
		return false
	}
	return s.cfg.Mask.Bilinear(uv.X, uv.Y) > maskValidThreshold
}

// minDist2 finds the squared distance to the nearest accepted point, checking
// the 3x3 cell neighborhood around the candidate and falling back to a full
// scan while no neighboring cell is populated yet.
func (s *Sampler) minDist2(p geom.Vec2) float64 {
	if len(s.accepted) == 0 {
		return math.MaxFloat64
	}

	center := s.cellOf(p)
	min := math.MaxFloat64
	found := false
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			for _, idx := range s.cells[cellKey{X: center.X + dx, Y: center.Y + dy}] {
				found = true
				if d2 := p.Dist2(s.accepted[idx]); d2 < min {
					min = d2
				}
			}
		}
	}
	if found {
		return min
	}

	for _, q := range s.accepted {
		if d2 := p.Dist2(q); d2 < min {
			min = d2
		}
	}
	return min
}

func (s *Sampler) cellOf(p geom.Vec2) cellKey {
	return cellKey{
		X: int(math.Floor(p.X / s.cellSize)),
		Y: int(math.Floor(p.Y / s.cellSize)),
	}
}
