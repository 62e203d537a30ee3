package island

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"islandgen/internal/geom"
	"islandgen/internal/heightmap"
	"islandgen/internal/scatter"
)

// SaveHeightmapPNG writes the final height grid as a grayscale image.
func SaveHeightmapPNG(i *Island, outputDir string) error {
	img := grayImage(i.Heights)
	return writePNG(outputDir, fmt.Sprintf("island_%d_height.png", i.Seed), img)
}

// SaveSlopePNG writes the dilated slope grid as a grayscale image.
func SaveSlopePNG(i *Island, outputDir string) error {
	img := grayImage(i.Slopes)
	return writePNG(outputDir, fmt.Sprintf("island_%d_slope.png", i.Seed), img)
}

// SaveColorPNG writes the biome color grid.
func SaveColorPNG(i *Island, outputDir string) error {
	points := i.Heights.Points
	img := image.NewNRGBA(image.Rect(0, 0, points, points))
	for y := 0; y < points; y++ {
		for x := 0; x < points; x++ {
			r, g, b := i.Colors[y*points+x].Clamped().RGB255()
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return writePNG(outputDir, fmt.Sprintf("island_%d_color.png", i.Seed), img)
}

// SaveMaskPNG writes a validity bitmap as a black/white image under the given
// name.
func SaveMaskPNG(mask *geom.Bitmap, outputDir, name string) error {
	img := image.NewGray(image.Rect(0, 0, mask.Width, mask.Height))
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(clamp01(mask.At(x, y)) * 255)})
		}
	}
	return writePNG(outputDir, name, img)
}

// SaveScatterPNG overlays accepted scatter positions on the heightmap.
func SaveScatterPNG(i *Island, transforms []scatter.Transform, outputDir, name string) error {
	img := grayImage(i.Heights)
	bounds := i.Bounds()
	points := i.Heights.Points

	marker := color.NRGBA{R: 224, G: 64, B: 48, A: 255}
	rgba := image.NewNRGBA(img.Bounds())
	for y := 0; y < points; y++ {
		for x := 0; x < points; x++ {
			g := img.GrayAt(x, y).Y
			rgba.SetNRGBA(x, y, color.NRGBA{R: g, G: g, B: g, A: 255})
		}
	}
	for _, t := range transforms {
		uv, err := bounds.Normalize(geom.Vec2{X: t.Position.X, Y: t.Position.Z})
		if err != nil {
			continue
		}
		px := int(math.Round(uv.X * float64(points-1)))
		py := int(math.Round(uv.Y * float64(points-1)))
		rgba.SetNRGBA(px, py, marker)
	}
	return writePNG(outputDir, name, rgba)
}

// WriteMeshOBJ dumps the island mesh as a Wavefront OBJ file, positions and
// normals only, for inspection in any external viewer.
func WriteMeshOBJ(i *Island, outputDir string) error {
	if err := ensureDir(outputDir); err != nil {
		return err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("island_%d.obj", i.Seed))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create obj: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "# islandgen seed %d\n", i.Seed)
	for _, p := range i.Mesh.Positions {
		fmt.Fprintf(w, "v %.6f %.6f %.6f\n", p.X, p.Y, p.Z)
	}
	for _, n := range i.Mesh.Normals {
		fmt.Fprintf(w, "vn %.6f %.6f %.6f\n", n.X, n.Y, n.Z)
	}
	indices := i.Mesh.Indices
	for t := 0; t+2 < len(indices); t += 3 {
		// OBJ indices are one-based.
		a, b, c := indices[t]+1, indices[t+1]+1, indices[t+2]+1
		fmt.Fprintf(w, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write obj: %w", err)
	}
	return nil
}

func grayImage(grid *heightmap.Grid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, grid.Points, grid.Points))
	for y := 0; y < grid.Points; y++ {
		for x := 0; x < grid.Points; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(clamp01(grid.At(x, y)) * 255)})
		}
	}
	return img
}

func writePNG(outputDir, name string, img image.Image) error {
	if err := ensureDir(outputDir); err != nil {
		return err
	}
	path := filepath.Join(outputDir, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

func ensureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("output directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
