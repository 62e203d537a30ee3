package geom

import (
	"errors"
	"sort"
)

// Keyframe anchors a curve value at a parameter position.
type Keyframe struct {
	T     float64 `json:"t"`
	Value float64 `json:"value"`
}

// Curve evaluates a keyframed scalar function with smoothstep easing between
// keys. Parameters outside the keyed range clamp to the boundary values.
type Curve struct {
	keys []Keyframe
}

func NewCurve(keys ...Keyframe) (*Curve, error) {
	if len(keys) < 2 {
		return nil, errors.New("curve needs at least two keyframes")
	}
	sorted := append([]Keyframe(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })
	return &Curve{keys: sorted}, nil
}

func (c *Curve) Evaluate(t float64) float64 {
	keys := c.keys
	if t <= keys[0].T {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if t >= last.T {
		return last.Value
	}
	for i := 0; i < len(keys)-1; i++ {
		a, b := keys[i], keys[i+1]
		if t > b.T {
			continue
		}
		span := b.T - a.T
		if span <= 0 {
			return b.Value
		}
		f := smooth((t - a.T) / span)
		return a.Value + f*(b.Value-a.Value)
	}
	return last.Value
}

// DefaultIslandFalloff shapes heights down toward zero near the region edge.
// The parameter is twice the normalized distance from the island center, so
// the domain of interest spans [0,2].
func DefaultIslandFalloff() *Curve {
	curve, err := NewCurve(
		Keyframe{T: 0, Value: 1},
		Keyframe{T: 0.55, Value: 0.95},
		Keyframe{T: 0.85, Value: 0.55},
		Keyframe{T: 1.05, Value: 0.12},
		Keyframe{T: 1.25, Value: 0},
		Keyframe{T: 2, Value: 0},
	)
	if err != nil {
		panic(err)
	}
	return curve
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}
