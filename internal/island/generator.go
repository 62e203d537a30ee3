package island

import (
	"fmt"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"islandgen/internal/biome"
	"islandgen/internal/config"
	"islandgen/internal/geom"
	"islandgen/internal/heightmap"
	"islandgen/internal/mesh"
	"islandgen/internal/scatter"
)

// Generator is the composition root of the terrain pipeline. It validates
// configuration once, then runs heightmap synthesis, biome coloring, and mesh
// building strictly in that order for every generated island.
type Generator struct {
	cfg       *config.Config
	falloff   *geom.Curve
	colorizer *biome.Colorizer
}

// Island is one finished generation result. Its grids are owned by the
// pipeline during construction and read-only afterwards; rerunning Generate
// with the same seed reproduces them exactly.
type Island struct {
	Seed     int64
	Settings heightmap.Settings
	Heights  *heightmap.Grid
	Slopes   *heightmap.Grid
	Colors   []colorful.Color
	Mesh     *mesh.Mesh

	worldSize   float64
	heightScale float64
}

func NewGenerator(cfg *config.Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	layers := make([]biome.Layer, 0, len(cfg.Biome.Layers))
	for _, lc := range cfg.Biome.Layers {
		base, err := colorful.Hex(lc.BaseColor)
		if err != nil {
			return nil, fmt.Errorf("layer %q baseColor: %w", lc.Name, err)
		}
		slope, err := colorful.Hex(lc.SlopeColor)
		if err != nil {
			return nil, fmt.Errorf("layer %q slopeColor: %w", lc.Name, err)
		}
		layers = append(layers, biome.Layer{
			Name:           lc.Name,
			StartHeight:    lc.StartHeight,
			BaseColor:      base,
			SlopeColor:     slope,
			SlopeThreshold: lc.SlopeThreshold,
			SlopeBlend:     lc.SlopeBlend,
		})
	}

	var override *biome.SlopeOverride
	if cfg.Biome.SlopeOverride != nil {
		color, err := colorful.Hex(cfg.Biome.SlopeOverride.Color)
		if err != nil {
			return nil, fmt.Errorf("slope override color: %w", err)
		}
		override = &biome.SlopeOverride{
			Threshold: cfg.Biome.SlopeOverride.Threshold,
			Color:     color,
		}
	}

	colorizer, err := biome.NewColorizer(layers, cfg.Biome.Sharpness, override)
	if err != nil {
		return nil, err
	}

	return &Generator{
		cfg:       cfg,
		falloff:   geom.DefaultIslandFalloff(),
		colorizer: colorizer,
	}, nil
}

// Colorizer exposes the configured biome colorizer for mask building.
func (g *Generator) Colorizer() *biome.Colorizer {
	return g.colorizer
}

// Generate runs one full pipeline pass for the seed. The pass is synchronous
// and single-threaded; nothing consumes the grids until they are complete.
func (g *Generator) Generate(seed int64) (*Island, error) {
	settings := heightmap.Settings{
		Resolution:      g.cfg.Terrain.Resolution,
		MeshWorldSize:   g.cfg.Terrain.MeshWorldSize,
		HeightScale:     g.cfg.Terrain.HeightScale,
		Base:            g.cfg.Terrain.Base,
		Overlay:         g.cfg.Terrain.Overlay,
		OverlayStrength: g.cfg.Terrain.OverlayStrength,
		SlopeWidth:      g.cfg.Terrain.SlopeWidth,
		Stepped:         g.cfg.Terrain.Stepped,
		AllowedHeights:  g.cfg.Terrain.AllowedHeights,
	}

	if g.cfg.Island.Randomize {
		// Parameter jitter draws in a fixed order so a seed fully determines
		// the island.
		rng := rand.New(rand.NewSource(seed))
		settings.Base.Frequency = lerp(g.cfg.Island.FrequencyMin, g.cfg.Island.FrequencyMax, rng.Float64())
		settings.OverlayStrength = lerp(g.cfg.Island.OverlayStrengthMin, g.cfg.Island.OverlayStrengthMax, rng.Float64())
	}

	synth, err := heightmap.NewSynthesizer(settings, g.falloff)
	if err != nil {
		return nil, fmt.Errorf("heightmap synthesizer: %w", err)
	}
	heights, slopes := synth.Build(seed)

	colors := g.colorizer.ColorGrid(heights, slopes)

	var built *mesh.Mesh
	switch g.cfg.Mesh.Topology {
	case "flat":
		built, err = mesh.BuildFlat(heights, settings.HeightScale, settings.MeshWorldSize,
			func(height, slope float64) colorful.Color {
				return g.colorizer.ColorAt(height, slope)
			})
	default:
		built, err = mesh.BuildShared(heights, settings.HeightScale, settings.MeshWorldSize,
			func(x, y int) colorful.Color {
				return g.colorizer.ColorAt(heights.At(x, y), slopes.At(x, y))
			})
	}
	if err != nil {
		return nil, fmt.Errorf("mesh build: %w", err)
	}

	return &Island{
		Seed:        seed,
		Settings:    settings,
		Heights:     heights,
		Slopes:      slopes,
		Colors:      colors,
		Mesh:        built,
		worldSize:   settings.MeshWorldSize,
		heightScale: settings.HeightScale,
	}, nil
}

// Bounds returns the island's world-space rectangle, centered on the origin.
func (i *Island) Bounds() geom.Rect {
	half := i.worldSize / 2
	return geom.NewRect(-half, -half, half, half)
}

// HeightAt answers the ground-height query for a world-space point by
// bilinear sampling of the final height grid. Points off the island report
// no ground. Because it reads the same grid the mesh was built from,
// generation-time and scatter-time heights always agree.
func (i *Island) HeightAt(p geom.Vec2) (float64, bool) {
	bounds := i.Bounds()
	if !bounds.Contains(p) {
		return 0, false
	}
	uv, err := bounds.Normalize(p)
	if err != nil {
		return 0, false
	}
	return i.Heights.Bilinear(uv.X, uv.Y) * i.heightScale, true
}

// GroundQuery adapts the island to the scatter package's query contract.
func (i *Island) GroundQuery() scatter.GroundQuery {
	return i.HeightAt
}

// GrassSampler builds a blue-noise sampler for foliage scattering: the spawn
// rectangle is the island bounds inset by the configured padding, while the
// grass validity mask keeps mapping over the full terrain rectangle. The two
// rectangles are deliberately independent.
func (g *Generator) GrassSampler(i *Island, seed int64) (*scatter.Sampler, error) {
	mask, err := biome.GrassValidityMask(i.Heights, i.Slopes,
		g.cfg.Scatter.GrassMaxSlope, g.cfg.Scatter.GrassMinHeight, g.cfg.Scatter.GrassMaxHeight)
	if err != nil {
		return nil, fmt.Errorf("grass mask: %w", err)
	}

	return scatter.NewSampler(scatter.Config{
		SpawnBounds:        i.Bounds().Shrink(g.cfg.Scatter.SpawnPadding),
		CandidatesPerPoint: g.cfg.Scatter.CandidatesPerPoint,
		Mask:               mask,
		MaskBounds:         i.Bounds(),
	}, seed)
}

// SpawnSampler builds an unmasked sampler covering the whole island, used for
// enemy placement where the ground query alone decides validity.
func (g *Generator) SpawnSampler(i *Island, seed int64) (*scatter.Sampler, error) {
	return scatter.NewSampler(scatter.Config{
		SpawnBounds:        i.Bounds(),
		CandidatesPerPoint: g.cfg.Scatter.CandidatesPerPoint,
	}, seed)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
