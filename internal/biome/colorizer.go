package biome

import (
	"errors"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"islandgen/internal/heightmap"
)

const slopeBlendEpsilon = 1e-4

// SlopeOverride replaces per-layer slope blending with a single flat
// threshold and fixed cliff color. Used by the flat-shaded mesh variant.
type SlopeOverride struct {
	Threshold float64
	Color     colorful.Color
}

// Colorizer maps (height, dilated slope) pairs to colors through an ordered
// set of height layers.
type Colorizer struct {
	layers    []Layer
	sharpness float64
	override  *SlopeOverride
}

// NewColorizer validates and sorts the layer set ascending by start height.
// Sharpness values above 1 push blends between adjacent layers toward hard
// edges; 1 is linear.
func NewColorizer(layers []Layer, sharpness float64, override *SlopeOverride) (*Colorizer, error) {
	if len(layers) == 0 {
		return nil, errors.New("layer list must not be empty")
	}
	for _, layer := range layers {
		if err := layer.validate(); err != nil {
			return nil, err
		}
	}
	if sharpness <= 0 {
		return nil, errors.New("sharpness must be positive")
	}

	sorted := append([]Layer(nil), layers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartHeight < sorted[j].StartHeight
	})

	return &Colorizer{
		layers:    sorted,
		sharpness: sharpness,
		override:  override,
	}, nil
}

// LayerDataAt returns the interpolated layer data bracketing the given
// height. Heights outside the keyed range clamp to the boundary layer's raw
// data, with no extrapolation.
func (c *Colorizer) LayerDataAt(height float64) LayerData {
	layers := c.layers
	if height <= layers[0].StartHeight {
		return layerData(layers[0])
	}

	// Largest index whose start height does not exceed the query.
	idx := 0
	for i := range layers {
		if layers[i].StartHeight <= height {
			idx = i
		}
	}
	if idx == len(layers)-1 {
		return layerData(layers[idx])
	}

	a, b := layers[idx], layers[idx+1]
	span := b.StartHeight - a.StartHeight
	t := 0.0
	if span > 0 {
		t = (height - a.StartHeight) / span
	}
	t = clamp01((t-0.5)*c.sharpness + 0.5)

	return LayerData{
		Color:          a.BaseColor.BlendRgb(b.BaseColor, t),
		SlopeColor:     a.SlopeColor.BlendRgb(b.SlopeColor, t),
		SlopeThreshold: lerp(a.SlopeThreshold, b.SlopeThreshold, t),
		SlopeBlend:     lerp(a.SlopeBlend, b.SlopeBlend, t),
	}
}

// ColorAt resolves the final color for a cell given its height and dilated
// slope.
func (c *Colorizer) ColorAt(height, dilatedSlope float64) colorful.Color {
	if c.override != nil {
		if dilatedSlope >= c.override.Threshold {
			return c.override.Color
		}
		return c.LayerDataAt(height).Color
	}

	data := c.LayerDataAt(height)
	if dilatedSlope < data.SlopeThreshold {
		return data.Color
	}
	blend := data.SlopeBlend
	if blend < slopeBlendEpsilon {
		blend = slopeBlendEpsilon
	}
	f := clamp01((dilatedSlope - data.SlopeThreshold) / blend)
	return data.Color.BlendRgb(data.SlopeColor, f)
}

// ColorGrid produces the per-point color array for a height/slope grid pair,
// row-major to match the grids.
func (c *Colorizer) ColorGrid(heights, slopes *heightmap.Grid) []colorful.Color {
	points := heights.Points
	colors := make([]colorful.Color, 0, points*points)
	for y := 0; y < points; y++ {
		for x := 0; x < points; x++ {
			colors = append(colors, c.ColorAt(heights.At(x, y), slopes.At(x, y)))
		}
	}
	return colors
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
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
