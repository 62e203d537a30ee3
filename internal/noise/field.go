package noise

import (
	"math/rand"

	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Primitive selects the smooth base noise function underneath the octave
// accumulation. Both produce samples in [0,1] before weighting.
type Primitive string

const (
	PrimitivePerlin  Primitive = "perlin"
	PrimitiveSimplex Primitive = "simplex"
)

const offsetRange = 100000

const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
)

// Settings parameterize one fractal noise evaluation. Zero octaves is legal
// and yields a constant zero field.
type Settings struct {
	Frequency   float64   `json:"frequency"`
	Amplitude   float64   `json:"amplitude"`
	Octaves     int       `json:"octaves"`
	Lacunarity  float64   `json:"lacunarity"`
	Persistence float64   `json:"persistence"`
	Primitive   Primitive `json:"primitive,omitempty"`
}

// Field evaluates seeded multi-octave noise. The per-octave sample offsets are
// derived once at construction from the seed, in the same order a per-call
// reseed would produce them, so results stay identical while the hot path
// avoids regenerating offsets for every sample.
type Field struct {
	settings Settings
	offsets  []offset
	base     func(x, y float64) float64
}

type offset struct {
	x float64
	y float64
}

func NewField(seed int64, settings Settings) *Field {
	rng := rand.New(rand.NewSource(seed))
	offsets := make([]offset, 0, settings.Octaves)
	for i := 0; i < settings.Octaves; i++ {
		ox := rng.Intn(2*offsetRange+1) - offsetRange
		oy := rng.Intn(2*offsetRange+1) - offsetRange
		offsets = append(offsets, offset{x: float64(ox), y: float64(oy)})
	}

	field := &Field{
		settings: settings,
		offsets:  offsets,
	}

	switch settings.Primitive {
	case PrimitiveSimplex:
		simplex := opensimplex.NewNormalized(seed)
		field.base = simplex.Eval2
	default:
		source := perlin.NewPerlin(perlinAlpha, perlinBeta, 1, seed)
		field.base = func(x, y float64) float64 {
			return (source.Noise2D(x, y) + 1) * 0.5
		}
	}
	return field
}

// Sample returns fractal noise at (u,v), normalized to [0,1] by the total
// accumulated amplitude. A zero amplitude budget returns 0 rather than NaN.
func (f *Field) Sample(u, v float64) float64 {
	frequency := f.settings.Frequency
	amplitude := f.settings.Amplitude

	sum := 0.0
	maxPossible := 0.0
	for i := range f.offsets {
		sum += f.base(u*frequency+f.offsets[i].x, v*frequency+f.offsets[i].y) * amplitude
		maxPossible += amplitude
		frequency *= f.settings.Lacunarity
		amplitude *= f.settings.Persistence
	}

	if maxPossible <= 0 {
		return 0
	}
	return clamp01(sum / maxPossible)
}

// Sample is the one-shot form of Field.Sample. Identical (seed, u, v,
// settings) inputs always produce identical output.
func Sample(seed int64, u, v float64, settings Settings) float64 {
	return NewField(seed, settings).Sample(u, v)
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
