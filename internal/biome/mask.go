package biome

import (
	"fmt"

	"islandgen/internal/geom"
	"islandgen/internal/heightmap"
)

// DominantLayerMask builds a binary mask marking every grid point whose
// height falls inside the band owned by the layer at the given (sorted)
// index: from its start height up to the next layer's start, or 1.0 for the
// top layer.
func (c *Colorizer) DominantLayerMask(heights *heightmap.Grid, index int) (*geom.Bitmap, error) {
	if index < 0 || index >= len(c.layers) {
		return nil, fmt.Errorf("layer index %d out of range [0,%d)", index, len(c.layers))
	}

	lower := c.layers[index].StartHeight
	upper := 1.0
	if index+1 < len(c.layers) {
		upper = c.layers[index+1].StartHeight
	}

	mask, err := geom.NewBitmap(heights.Points, heights.Points)
	if err != nil {
		return nil, err
	}
	for y := 0; y < heights.Points; y++ {
		for x := 0; x < heights.Points; x++ {
			h := heights.At(x, y)
			if h >= lower && (h < upper || index == len(c.layers)-1) {
				mask.Set(x, y, 1)
			}
		}
	}
	return mask, nil
}

// GrassValidityMask marks the grid points where foliage may be scattered:
// height inside [minHeight, maxHeight] and dilated slope below maxSlope.
// Slope exclusion uses the dilated grid so cliff bands stay clear of grass
// even one cell away from the steep pixels themselves.
func GrassValidityMask(heights, slopes *heightmap.Grid, maxSlope, minHeight, maxHeight float64) (*geom.Bitmap, error) {
	if heights.Points != slopes.Points {
		return nil, fmt.Errorf("grid size mismatch: heights %d, slopes %d", heights.Points, slopes.Points)
	}
	if minHeight > maxHeight {
		return nil, fmt.Errorf("minHeight %v exceeds maxHeight %v", minHeight, maxHeight)
	}

	mask, err := geom.NewBitmap(heights.Points, heights.Points)
	if err != nil {
		return nil, err
	}
	for y := 0; y < heights.Points; y++ {
		for x := 0; x < heights.Points; x++ {
			h := heights.At(x, y)
			if h < minHeight || h > maxHeight {
				continue
			}
			if slopes.At(x, y) >= maxSlope {
				continue
			}
			mask.Set(x, y, 1)
		}
	}
	return mask, nil
}

// Layers exposes the sorted layer set, for mask naming and preview export.
func (c *Colorizer) Layers() []Layer {
	return append([]Layer(nil), c.layers...)
}
