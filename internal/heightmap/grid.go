package heightmap

// Grid holds one float per grid point, (points × points). It is owned by the
// synthesizer while being built and must be treated as read-only afterwards.
type Grid struct {
	Points int
	Values []float64
}

func NewGrid(points int) *Grid {
	return &Grid{
		Points: points,
		Values: make([]float64, points*points),
	}
}

func (g *Grid) At(x, y int) float64 {
	return g.Values[y*g.Points+x]
}

func (g *Grid) Set(x, y int, v float64) {
	g.Values[y*g.Points+x] = v
}

// Clone returns an independent copy. Consumers that need scratch space copy
// instead of mutating a handed-off grid.
func (g *Grid) Clone() *Grid {
	out := NewGrid(g.Points)
	copy(out.Values, g.Values)
	return out
}

// Bilinear samples the grid at normalized (u,v) in [0,1] with bilinear
// filtering, clamping coordinates outside the range to the edge.
func (g *Grid) Bilinear(u, v float64) float64 {
	if u < 0 {
		u = 0
	}
	if u > 1 {
		u = 1
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	fx := u * float64(g.Points-1)
	fy := v * float64(g.Points-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= g.Points {
		x1 = g.Points - 1
	}
	if y1 >= g.Points {
		y1 = g.Points - 1
	}
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	top := g.At(x0, y0) + tx*(g.At(x1, y0)-g.At(x0, y0))
	bottom := g.At(x0, y1) + tx*(g.At(x1, y1)-g.At(x0, y1))
	return top + ty*(bottom-top)
}
