package mesh

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"islandgen/internal/geom"
	"islandgen/internal/heightmap"
)

// PointColorFunc colors a shared vertex at grid point (x,y).
type PointColorFunc func(x, y int) colorful.Color

// QuadColorFunc colors a flat-shaded quad from its mean height and the slope
// derived from its face normal, both in [0,1].
type QuadColorFunc func(height, slope float64) colorful.Color

// BuildShared emits one vertex per grid point with interpolated shading: two
// triangles per quad sharing vertices, normals averaged from adjacent faces.
func BuildShared(heights *heightmap.Grid, heightScale, worldSize float64, colorAt PointColorFunc) (*Mesh, error) {
	if err := checkBuildArgs(heights, worldSize); err != nil {
		return nil, err
	}

	points := heights.Points
	res := points - 1

	m := &Mesh{
		Positions: make([]geom.Vec3, 0, points*points),
		UVs:       make([]geom.Vec2, 0, points*points),
		Colors:    make([]colorful.Color, 0, points*points),
		Indices:   make([]int, 0, res*res*6),
	}

	for y := 0; y < points; y++ {
		for x := 0; x < points; x++ {
			m.Positions = append(m.Positions, vertexPosition(heights, x, y, heightScale, worldSize))
			m.UVs = append(m.UVs, geom.Vec2{X: float64(x) / float64(res), Y: float64(y) / float64(res)})
			m.Colors = append(m.Colors, colorAt(x, y))
		}
	}

	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			v := y*points + x
			m.Indices = append(m.Indices,
				v, v+points, v+1,
				v+1, v+points, v+points+1,
			)
		}
	}

	m.Normals = averagedNormals(m.Positions, m.Indices)
	m.Tangents = make([]geom.Vec4, len(m.Normals))
	for i, n := range m.Normals {
		m.Tangents[i] = tangentFor(n)
	}
	m.Bounds = computeBounds(m.Positions)
	return m, nil
}

// BuildFlat emits four unique vertices per quad so each quad carries a single
// flat color and normal. The quad normal comes from the cross product of its
// diagonals, sign-corrected to point up, and its slope angle picks the color.
func BuildFlat(heights *heightmap.Grid, heightScale, worldSize float64, colorAt QuadColorFunc) (*Mesh, error) {
	if err := checkBuildArgs(heights, worldSize); err != nil {
		return nil, err
	}

	points := heights.Points
	res := points - 1

	m := &Mesh{
		Positions: make([]geom.Vec3, 0, res*res*4),
		Normals:   make([]geom.Vec3, 0, res*res*4),
		Tangents:  make([]geom.Vec4, 0, res*res*4),
		UVs:       make([]geom.Vec2, 0, res*res*4),
		Colors:    make([]colorful.Color, 0, res*res*4),
		Indices:   make([]int, 0, res*res*6),
	}

	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			p00 := vertexPosition(heights, x, y, heightScale, worldSize)
			p10 := vertexPosition(heights, x+1, y, heightScale, worldSize)
			p01 := vertexPosition(heights, x, y+1, heightScale, worldSize)
			p11 := vertexPosition(heights, x+1, y+1, heightScale, worldSize)

			normal := p11.Sub(p00).Cross(p01.Sub(p10)).Normalized()
			if normal.Y < 0 {
				normal = normal.Scale(-1)
			}

			slope := math.Acos(clamp(normal.Y, -1, 1)) * 180 / math.Pi / 90
			meanHeight := (heights.At(x, y) + heights.At(x+1, y) + heights.At(x, y+1) + heights.At(x+1, y+1)) / 4
			color := colorAt(meanHeight, slope)

			base := len(m.Positions)
			tangent := tangentFor(normal)
			for _, corner := range [4]struct {
				pos geom.Vec3
				u   int
				v   int
			}{
				{pos: p00, u: x, v: y},
				{pos: p10, u: x + 1, v: y},
				{pos: p01, u: x, v: y + 1},
				{pos: p11, u: x + 1, v: y + 1},
			} {
				m.Positions = append(m.Positions, corner.pos)
				m.Normals = append(m.Normals, normal)
				m.Tangents = append(m.Tangents, tangent)
				m.UVs = append(m.UVs, geom.Vec2{X: float64(corner.u) / float64(res), Y: float64(corner.v) / float64(res)})
				m.Colors = append(m.Colors, color)
			}

			m.Indices = append(m.Indices,
				base, base+2, base+1,
				base+1, base+2, base+3,
			)
		}
	}

	m.Bounds = computeBounds(m.Positions)
	return m, nil
}

func checkBuildArgs(heights *heightmap.Grid, worldSize float64) error {
	if heights == nil || heights.Points < 2 {
		return fmt.Errorf("height grid needs at least 2x2 points")
	}
	if worldSize <= 0 {
		return fmt.Errorf("worldSize must be positive, got %v", worldSize)
	}
	return nil
}

func vertexPosition(heights *heightmap.Grid, x, y int, heightScale, worldSize float64) geom.Vec3 {
	res := float64(heights.Points - 1)
	return geom.Vec3{
		X: (float64(x)/res)*worldSize - worldSize/2,
		Y: heights.At(x, y) * heightScale,
		Z: (float64(y)/res)*worldSize - worldSize/2,
	}
}

func averagedNormals(positions []geom.Vec3, indices []int) []geom.Vec3 {
	normals := make([]geom.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		face := positions[b].Sub(positions[a]).Cross(positions[c].Sub(positions[a]))
		normals[a] = normals[a].Add(face)
		normals[b] = normals[b].Add(face)
		normals[c] = normals[c].Add(face)
	}
	for i := range normals {
		n := normals[i].Normalized()
		if n.Len() < 1e-9 {
			n = geom.Vec3{Y: 1}
		}
		normals[i] = n
	}
	return normals
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
