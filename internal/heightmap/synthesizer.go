package heightmap

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"islandgen/internal/geom"
	"islandgen/internal/noise"
)

// Settings describe one island heightmap build. Resolution counts quads per
// side; the produced grids have (Resolution+1) points per side.
type Settings struct {
	Resolution    int     `json:"resolution"`
	MeshWorldSize float64 `json:"meshWorldSize"`
	HeightScale   float64 `json:"heightScale"`

	Base            noise.Settings `json:"base"`
	Overlay         noise.Settings `json:"overlay"`
	OverlayStrength float64        `json:"overlayStrength"`

	// SlopeWidth is the Chebyshev radius of the slope dilation max-filter.
	SlopeWidth int `json:"slopeWidth"`

	// Stepped snaps macro heights to the nearest AllowedHeights entry.
	Stepped        bool      `json:"stepped"`
	AllowedHeights []float64 `json:"allowedHeights,omitempty"`
}

// Synthesizer builds a height grid and a dilated slope grid from fractal
// noise shaped by an island falloff curve. Slope is computed on the clean
// macro heights before the micro overlay so bump noise never registers as
// cliff.
type Synthesizer struct {
	settings Settings
	falloff  *geom.Curve
	allowed  []float64
}

func NewSynthesizer(settings Settings, falloff *geom.Curve) (*Synthesizer, error) {
	if settings.Resolution < 1 {
		return nil, fmt.Errorf("resolution must be at least 1, got %d", settings.Resolution)
	}
	if settings.MeshWorldSize <= 0 {
		return nil, fmt.Errorf("meshWorldSize must be positive, got %v", settings.MeshWorldSize)
	}
	if settings.SlopeWidth < 0 {
		return nil, fmt.Errorf("slopeWidth cannot be negative, got %d", settings.SlopeWidth)
	}
	if settings.Stepped && len(settings.AllowedHeights) == 0 {
		return nil, errors.New("stepped heights require a non-empty allowedHeights list")
	}
	if falloff == nil {
		return nil, errors.New("falloff curve is required")
	}

	allowed := append([]float64(nil), settings.AllowedHeights...)
	sort.Float64s(allowed)

	return &Synthesizer{
		settings: settings,
		falloff:  falloff,
		allowed:  allowed,
	}, nil
}

// Build runs the four generation passes and returns the final height grid and
// the dilated slope grid. Both grids are read-only to callers. Identical
// (seed, settings) inputs reproduce identical grids.
func (s *Synthesizer) Build(seed int64) (heights *Grid, slopes *Grid) {
	points := s.settings.Resolution + 1

	macro := s.buildMacro(seed, points)
	raw := s.buildSlope(macro, points)
	slopes = s.dilateSlope(raw, points)
	heights = s.applyOverlay(seed, macro, points)
	return heights, slopes
}

func (s *Synthesizer) buildMacro(seed int64, points int) *Grid {
	field := noise.NewField(seed, s.settings.Base)
	res := float64(s.settings.Resolution)

	grid := NewGrid(points)
	for y := 0; y < points; y++ {
		v := float64(y) / res
		for x := 0; x < points; x++ {
			u := float64(x) / res

			base := field.Sample(u, v)
			distFromCenter := 2 * math.Hypot(u-0.5, v-0.5)
			shaped := base * s.falloff.Evaluate(distFromCenter)

			if s.settings.Stepped {
				shaped = snapToNearest(shaped, s.allowed)
			}
			grid.Set(x, y, shaped)
		}
	}
	return grid
}

func (s *Synthesizer) buildSlope(macro *Grid, points int) *Grid {
	pixelWorldSize := s.settings.MeshWorldSize / float64(s.settings.Resolution)

	grid := NewGrid(points)
	for y := 0; y < points; y++ {
		for x := 0; x < points; x++ {
			h := macro.At(x, y)
			maxDiff := 0.0
			for _, n := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+n[0], y+n[1]
				if nx < 0 || ny < 0 || nx >= points || ny >= points {
					continue
				}
				diff := math.Abs(h - macro.At(nx, ny))
				if diff > maxDiff {
					maxDiff = diff
				}
			}

			rise := maxDiff * s.settings.HeightScale
			angleDeg := math.Atan(rise/pixelWorldSize) * 180 / math.Pi
			grid.Set(x, y, angleDeg/90)
		}
	}
	return grid
}

func (s *Synthesizer) dilateSlope(raw *Grid, points int) *Grid {
	radius := s.settings.SlopeWidth
	if radius == 0 {
		return raw.Clone()
	}

	grid := NewGrid(points)
	for y := 0; y < points; y++ {
		for x := 0; x < points; x++ {
			best := raw.At(x, y)
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= points || ny >= points {
						continue
					}
					if v := raw.At(nx, ny); v > best {
						best = v
					}
				}
			}
			grid.Set(x, y, best)
		}
	}
	return grid
}

func (s *Synthesizer) applyOverlay(seed int64, macro *Grid, points int) *Grid {
	if s.settings.OverlayStrength == 0 || s.settings.Overlay.Octaves == 0 {
		return macro.Clone()
	}

	field := noise.NewField(seed, s.settings.Overlay)
	res := float64(s.settings.Resolution)

	grid := NewGrid(points)
	for y := 0; y < points; y++ {
		v := float64(y) / res
		for x := 0; x < points; x++ {
			u := float64(x) / res
			micro := (field.Sample(u, v) - 0.5) * s.settings.OverlayStrength
			grid.Set(x, y, clamp01(macro.At(x, y)+micro))
		}
	}
	return grid
}

// snapToNearest returns the closest allowed value by linear scan. On an exact
// distance tie the earliest entry wins.
func snapToNearest(v float64, allowed []float64) float64 {
	best := allowed[0]
	bestDist := math.Abs(v - best)
	for _, candidate := range allowed[1:] {
		dist := math.Abs(v - candidate)
		if dist < bestDist {
			best = candidate
			bestDist = dist
		}
	}
	return best
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
