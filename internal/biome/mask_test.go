package biome

import (
	"testing"

	"islandgen/internal/heightmap"
)

func TestDominantLayerMaskCoversExactBands(t *testing.T) {
	c, err := NewColorizer(testLayers(), 2, nil)
	if err != nil {
		t.Fatalf("build colorizer: %v", err)
	}

	heights := heightmap.NewGrid(2)
	heights.Set(0, 0, 0.1)  // sand
	heights.Set(1, 0, 0.3)  // grass starts here
	heights.Set(0, 1, 0.79) // still grass
	heights.Set(1, 1, 1.0)  // snow, top band includes 1.0

	grass, err := c.DominantLayerMask(heights, 1)
	if err != nil {
		t.Fatalf("grass mask: %v", err)
	}
	wantGrass := [4]float64{0, 1, 1, 0}
	for i, want := range wantGrass {
		if grass.Values[i] != want {
			t.Fatalf("grass mask cell %d: want %v, got %v", i, want, grass.Values[i])
		}
	}

	snow, err := c.DominantLayerMask(heights, 2)
	if err != nil {
		t.Fatalf("snow mask: %v", err)
	}
	if snow.Values[3] != 1 {
		t.Fatalf("top layer band must include height 1.0")
	}

	if _, err := c.DominantLayerMask(heights, 5); err == nil {
		t.Fatalf("expected error for out-of-range layer index")
	}
}

func TestGrassValidityMask(t *testing.T) {
	heights := heightmap.NewGrid(2)
	slopes := heightmap.NewGrid(2)

	heights.Set(0, 0, 0.05) // below min height
	heights.Set(1, 0, 0.4)  // valid
	heights.Set(0, 1, 0.4)  // valid height, too steep
	heights.Set(1, 1, 0.9)  // above max height
	slopes.Set(0, 1, 0.6)

	mask, err := GrassValidityMask(heights, slopes, 0.35, 0.1, 0.7)
	if err != nil {
		t.Fatalf("build mask: %v", err)
	}

	want := [4]float64{0, 1, 0, 0}
	for i, w := range want {
		if mask.Values[i] != w {
			t.Fatalf("mask cell %d: want %v, got %v", i, w, mask.Values[i])
		}
	}
}

func TestGrassValidityMaskRejectsBadInputs(t *testing.T) {
	heights := heightmap.NewGrid(2)
	slopes := heightmap.NewGrid(3)
	if _, err := GrassValidityMask(heights, slopes, 0.35, 0.1, 0.7); err == nil {
		t.Fatalf("expected error for grid size mismatch")
	}

	slopes = heightmap.NewGrid(2)
	if _, err := GrassValidityMask(heights, slopes, 0.35, 0.7, 0.1); err == nil {
		t.Fatalf("expected error for inverted height window")
	}
}
