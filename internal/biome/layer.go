package biome

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Layer is one height band of the island coloring, ordered by StartHeight.
type Layer struct {
	Name           string
	StartHeight    float64
	BaseColor      colorful.Color
	SlopeColor     colorful.Color
	SlopeThreshold float64
	SlopeBlend     float64
}

func (l Layer) validate() error {
	if l.StartHeight < 0 || l.StartHeight > 1 {
		return fmt.Errorf("layer %q: startHeight %v outside [0,1]", l.Name, l.StartHeight)
	}
	if l.SlopeThreshold < 0 || l.SlopeThreshold > 1 {
		return fmt.Errorf("layer %q: slopeThreshold %v outside [0,1]", l.Name, l.SlopeThreshold)
	}
	if l.SlopeBlend < 0 || l.SlopeBlend > 0.2 {
		return fmt.Errorf("layer %q: slopeBlend %v outside [0,0.2]", l.Name, l.SlopeBlend)
	}
	return nil
}

// LayerData is the interpolated per-height layer information used for final
// shading.
type LayerData struct {
	Color          colorful.Color
	SlopeColor     colorful.Color
	SlopeThreshold float64
	SlopeBlend     float64
}

func layerData(l Layer) LayerData {
	return LayerData{
		Color:          l.BaseColor,
		SlopeColor:     l.SlopeColor,
		SlopeThreshold: l.SlopeThreshold,
		SlopeBlend:     l.SlopeBlend,
	}
}
