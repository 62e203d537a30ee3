package geom

import "fmt"

// Bitmap is a dense grayscale grid used for validity and density masks.
// Values are expected in [0,1].
type Bitmap struct {
	Width  int
	Height int
	Values []float64
}

func NewBitmap(width, height int) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("bitmap dimensions must be positive, got %dx%d", width, height)
	}
	return &Bitmap{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}, nil
}

func (b *Bitmap) At(x, y int) float64 {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x >= b.Width {
		x = b.Width - 1
	}
	if y >= b.Height {
		y = b.Height - 1
	}
	return b.Values[y*b.Width+x]
}

func (b *Bitmap) Set(x, y int, v float64) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	b.Values[y*b.Width+x] = v
}

// Bilinear samples the bitmap at normalized (u,v) coordinates in [0,1] with
// bilinear filtering. Coordinates outside [0,1] clamp to the edge texels.
func (b *Bitmap) Bilinear(u, v float64) float64 {
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

	fx := u * float64(b.Width-1)
	fy := v * float64(b.Height-1)
	x0 := int(fx)
	y0 := int(fy)
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := b.At(x0, y0)
	c10 := b.At(x0+1, y0)
	c01 := b.At(x0, y0+1)
	c11 := b.At(x0+1, y0+1)

	top := c00 + tx*(c10-c00)
	bottom := c01 + tx*(c11-c01)
	return top + ty*(bottom-top)
}
