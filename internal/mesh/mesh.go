package mesh

import (
	"github.com/lucasb-eyer/go-colorful"

	"islandgen/internal/geom"
)

// Mesh is the renderable output handed to an external mesh consumer, which
// owns GPU upload and collision assignment.
type Mesh struct {
	Positions []geom.Vec3
	Normals   []geom.Vec3
	Tangents  []geom.Vec4
	UVs       []geom.Vec2
	Colors    []colorful.Color
	Indices   []int
	Bounds    Bounds
}

// Bounds is the axis-aligned box enclosing all vertices.
type Bounds struct {
	Min geom.Vec3
	Max geom.Vec3
}

func computeBounds(positions []geom.Vec3) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		if p.X < b.Min.X {
			b.Min.X = p.X
		}
		if p.Y < b.Min.Y {
			b.Min.Y = p.Y
		}
		if p.Z < b.Min.Z {
			b.Min.Z = p.Z
		}
		if p.X > b.Max.X {
			b.Max.X = p.X
		}
		if p.Y > b.Max.Y {
			b.Max.Y = p.Y
		}
		if p.Z > b.Max.Z {
			b.Max.Z = p.Z
		}
	}
	return b
}

// tangentFor projects the world X axis onto the plane perpendicular to the
// normal. Degenerate cases fall back to +X.
func tangentFor(normal geom.Vec3) geom.Vec4 {
	xAxis := geom.Vec3{X: 1}
	projected := xAxis.Sub(normal.Scale(normal.Dot(xAxis))).Normalized()
	if projected.Len() < 1e-9 {
		projected = xAxis
	}
	return geom.Vec4{X: projected.X, Y: projected.Y, Z: projected.Z, W: -1}
}
