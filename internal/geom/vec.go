package geom

import "math"

// Vec2 is a point or direction on the horizontal plane.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) Len2() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

func (v Vec2) Dist2(o Vec2) float64 { return v.Sub(o).Len2() }

// Vec3 represents positions in world space, Y up.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Normalized returns the unit vector, or the zero vector when the length is
// too small to divide by safely.
func (v Vec3) Normalized() Vec3 {
	length := v.Len()
	if length < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / length)
}

// Vec4 carries a tangent with handedness in W.
type Vec4 struct {
	X float64
	Y float64
	Z float64
	W float64
}
