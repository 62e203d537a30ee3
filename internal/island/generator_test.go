package island

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"islandgen/internal/config"
	"islandgen/internal/geom"
	"islandgen/internal/scatter"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Terrain.Resolution = 24
	cfg.Scatter.GrassAmount = 40
	return cfg
}

func mustGenerate(t *testing.T, cfg *config.Config, seed int64) (*Generator, *Island) {
	t.Helper()
	gen, err := NewGenerator(cfg)
	if err != nil {
		t.Fatalf("build generator: %v", err)
	}
	isl, err := gen.Generate(seed)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return gen, isl
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := smallConfig()
	_, a := mustGenerate(t, cfg, 7)
	_, b := mustGenerate(t, cfg, 7)

	for i := range a.Heights.Values {
		if a.Heights.Values[i] != b.Heights.Values[i] {
			t.Fatalf("heights diverged at %d", i)
		}
	}
	for i := range a.Mesh.Positions {
		if a.Mesh.Positions[i] != b.Mesh.Positions[i] {
			t.Fatalf("mesh positions diverged at %d", i)
		}
	}
	if a.Settings.Base.Frequency != b.Settings.Base.Frequency {
		t.Fatalf("randomized parameters must repeat per seed")
	}
}

func TestGenerateDiffersAcrossSeeds(t *testing.T) {
	cfg := smallConfig()
	_, a := mustGenerate(t, cfg, 1)
	_, b := mustGenerate(t, cfg, 2)

	same := true
	for i := range a.Heights.Values {
		if a.Heights.Values[i] != b.Heights.Values[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced identical heightmaps")
	}
}

func TestGenerateProducesCompleteResult(t *testing.T) {
	cfg := smallConfig()
	_, isl := mustGenerate(t, cfg, 3)

	points := cfg.Terrain.Resolution + 1
	if isl.Heights.Points != points || isl.Slopes.Points != points {
		t.Fatalf("grid sizes should be %d, got %d/%d", points, isl.Heights.Points, isl.Slopes.Points)
	}
	if len(isl.Colors) != points*points {
		t.Fatalf("expected %d colors, got %d", points*points, len(isl.Colors))
	}
	if len(isl.Mesh.Positions) == 0 || len(isl.Mesh.Indices) == 0 {
		t.Fatalf("mesh should carry geometry")
	}
}

func TestGenerateFlatTopology(t *testing.T) {
	cfg := smallConfig()
	cfg.Mesh.Topology = "flat"
	_, isl := mustGenerate(t, cfg, 3)

	res := cfg.Terrain.Resolution
	if len(isl.Mesh.Positions) != res*res*4 {
		t.Fatalf("flat topology should emit 4 vertices per quad, got %d", len(isl.Mesh.Positions))
	}
}

func TestHeightAtMatchesMeshScale(t *testing.T) {
	cfg := smallConfig()
	_, isl := mustGenerate(t, cfg, 5)

	h, ok := isl.HeightAt(geom.Vec2{})
	if !ok {
		t.Fatalf("island center should have ground")
	}
	if h < 0 || h > cfg.Terrain.HeightScale {
		t.Fatalf("center height %v outside [0,%v]", h, cfg.Terrain.HeightScale)
	}

	if _, ok := isl.HeightAt(geom.Vec2{X: cfg.Terrain.MeshWorldSize, Y: 0}); ok {
		t.Fatalf("points beyond the bounds must report no ground")
	}
}

func TestGrassSamplerAvoidsInvalidTerrain(t *testing.T) {
	cfg := smallConfig()
	gen, isl := mustGenerate(t, cfg, 9)

	sampler, err := gen.GrassSampler(isl, 9)
	if err != nil {
		t.Fatalf("grass sampler: %v", err)
	}

	rng := rand.New(rand.NewSource(9))
	transforms, _ := scatter.Place(sampler, cfg.Scatter.GrassAmount, isl.GroundQuery(), rng)

	spawn := isl.Bounds().Shrink(cfg.Scatter.SpawnPadding)
	for i, tr := range transforms {
		p := geom.Vec2{X: tr.Position.X, Y: tr.Position.Z}
		if !spawn.Contains(p) {
			t.Fatalf("grass %d escaped the padded spawn rect: %+v", i, p)
		}
		h := tr.Position.Y / cfg.Terrain.HeightScale
		// The mask is grid-resolution and the placement is continuous, so
		// allow bilinear spill near band edges.
		if h < cfg.Scatter.GrassMinHeight-0.15 || h > cfg.Scatter.GrassMaxHeight+0.15 {
			t.Fatalf("grass %d placed at invalid height %v", i, h)
		}
	}
}

func TestNewGeneratorRejectsBadColors(t *testing.T) {
	cfg := smallConfig()
	cfg.Biome.Layers[0].BaseColor = "not-a-color"
	if _, err := NewGenerator(cfg); err == nil {
		t.Fatalf("expected error for malformed layer color")
	}

	cfg = smallConfig()
	cfg.Biome.SlopeOverride = &config.SlopeOverrideConfig{Threshold: 0.5, Color: "nope"}
	if _, err := NewGenerator(cfg); err == nil {
		t.Fatalf("expected error for malformed override color")
	}

	cfg = smallConfig()
	cfg.Terrain.Resolution = 0
	if _, err := NewGenerator(cfg); err == nil {
		t.Fatalf("expected validation error for zero resolution")
	}
}

func TestExportArtifactsWriteFiles(t *testing.T) {
	cfg := smallConfig()
	gen, isl := mustGenerate(t, cfg, 11)
	dir := t.TempDir()

	if err := SaveHeightmapPNG(isl, dir); err != nil {
		t.Fatalf("save heightmap: %v", err)
	}
	if err := SaveSlopePNG(isl, dir); err != nil {
		t.Fatalf("save slope: %v", err)
	}
	if err := SaveColorPNG(isl, dir); err != nil {
		t.Fatalf("save color: %v", err)
	}
	if err := WriteMeshOBJ(isl, dir); err != nil {
		t.Fatalf("write obj: %v", err)
	}

	sampler, err := gen.GrassSampler(isl, 11)
	if err != nil {
		t.Fatalf("grass sampler: %v", err)
	}
	rng := rand.New(rand.NewSource(11))
	transforms, _ := scatter.Place(sampler, 20, isl.GroundQuery(), rng)
	if err := SaveScatterPNG(isl, transforms, dir, "scatter.png"); err != nil {
		t.Fatalf("save scatter: %v", err)
	}

	for _, name := range []string{
		"island_11_height.png",
		"island_11_slope.png",
		"island_11_color.png",
		"island_11.obj",
		"scatter.png",
	} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("artifact %s missing: %v", name, err)
		}
		if info.Size() == 0 {
			t.Fatalf("artifact %s is empty", name)
		}
	}
}
