package geom

import "fmt"

// Rect is an axis-aligned rectangle on the horizontal plane.
type Rect struct {
	Min Vec2
	Max Vec2
}

func NewRect(minX, minY, maxX, maxY float64) Rect {
	return Rect{Min: Vec2{X: minX, Y: minY}, Max: Vec2{X: maxX, Y: maxY}}
}

func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Shrink insets all four edges by the given padding. Padding larger than half
// the extent collapses the rectangle to its center.
func (r Rect) Shrink(padding float64) Rect {
	out := Rect{
		Min: Vec2{X: r.Min.X + padding, Y: r.Min.Y + padding},
		Max: Vec2{X: r.Max.X - padding, Y: r.Max.Y - padding},
	}
	if out.Min.X > out.Max.X {
		mid := (r.Min.X + r.Max.X) / 2
		out.Min.X, out.Max.X = mid, mid
	}
	if out.Min.Y > out.Max.Y {
		mid := (r.Min.Y + r.Max.Y) / 2
		out.Min.Y, out.Max.Y = mid, mid
	}
	return out
}

// Normalize maps a point inside the rectangle to [0,1]² coordinates.
func (r Rect) Normalize(p Vec2) (Vec2, error) {
	if r.Width() <= 0 || r.Height() <= 0 {
		return Vec2{}, fmt.Errorf("degenerate rect %+v", r)
	}
	return Vec2{
		X: (p.X - r.Min.X) / r.Width(),
		Y: (p.Y - r.Min.Y) / r.Height(),
	}, nil
}
