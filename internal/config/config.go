package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"islandgen/internal/noise"
)

// Config captures every tunable parameter of one island generation run.
type Config struct {
	Island  IslandConfig  `json:"island" yaml:"island"`
	Terrain TerrainConfig `json:"terrain" yaml:"terrain"`
	Biome   BiomeConfig   `json:"biome" yaml:"biome"`
	Mesh    MeshConfig    `json:"mesh" yaml:"mesh"`
	Scatter ScatterConfig `json:"scatter" yaml:"scatter"`
	Pools   []PoolConfig  `json:"pools" yaml:"pools"`
}

type IslandConfig struct {
	Seed int64 `json:"seed" yaml:"seed"`

	// Randomize jitters selected terrain parameters per island so repeated
	// generations with incrementing seeds produce visually distinct islands.
	Randomize          bool    `json:"randomize" yaml:"randomize"`
	FrequencyMin       float64 `json:"frequencyMin" yaml:"frequencyMin"`
	FrequencyMax       float64 `json:"frequencyMax" yaml:"frequencyMax"`
	OverlayStrengthMin float64 `json:"overlayStrengthMin" yaml:"overlayStrengthMin"`
	OverlayStrengthMax float64 `json:"overlayStrengthMax" yaml:"overlayStrengthMax"`
}

type TerrainConfig struct {
	Resolution    int     `json:"resolution" yaml:"resolution"`
	MeshWorldSize float64 `json:"meshWorldSize" yaml:"meshWorldSize"`
	HeightScale   float64 `json:"heightScale" yaml:"heightScale"`

	Base            noise.Settings `json:"base" yaml:"base"`
	Overlay         noise.Settings `json:"overlay" yaml:"overlay"`
	OverlayStrength float64        `json:"overlayStrength" yaml:"overlayStrength"`

	SlopeWidth     int       `json:"slopeWidth" yaml:"slopeWidth"`
	Stepped        bool      `json:"stepped" yaml:"stepped"`
	AllowedHeights []float64 `json:"allowedHeights,omitempty" yaml:"allowedHeights,omitempty"`
}

type BiomeConfig struct {
	Sharpness     float64              `json:"sharpness" yaml:"sharpness"`
	Layers        []LayerConfig        `json:"layers" yaml:"layers"`
	SlopeOverride *SlopeOverrideConfig `json:"slopeOverride,omitempty" yaml:"slopeOverride,omitempty"`
}

type LayerConfig struct {
	Name           string  `json:"name" yaml:"name"`
	StartHeight    float64 `json:"startHeight" yaml:"startHeight"`
	BaseColor      string  `json:"baseColor" yaml:"baseColor"`
	SlopeColor     string  `json:"slopeColor" yaml:"slopeColor"`
	SlopeThreshold float64 `json:"slopeThreshold" yaml:"slopeThreshold"`
	SlopeBlend     float64 `json:"slopeBlend" yaml:"slopeBlend"`
}

type SlopeOverrideConfig struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Color     string  `json:"color" yaml:"color"`
}

type MeshConfig struct {
	// Topology is "shared" for interpolated shading or "flat" for per-quad
	// flat shading with unshared vertices.
	Topology string `json:"topology" yaml:"topology"`
}

type ScatterConfig struct {
	CandidatesPerPoint int `json:"candidatesPerPoint" yaml:"candidatesPerPoint"`

	// SpawnPadding shrinks the spawn rectangle relative to the full terrain
	// rectangle the validity mask maps over. The two stay independently
	// configurable.
	SpawnPadding float64 `json:"spawnPadding" yaml:"spawnPadding"`

	GrassMaxSlope  float64 `json:"grassMaxSlope" yaml:"grassMaxSlope"`
	GrassMinHeight float64 `json:"grassMinHeight" yaml:"grassMinHeight"`
	GrassMaxHeight float64 `json:"grassMaxHeight" yaml:"grassMaxHeight"`
	GrassAmount    int     `json:"grassAmount" yaml:"grassAmount"`
}

type PoolConfig struct {
	Kind     string `json:"kind" yaml:"kind"`
	Capacity int    `json:"capacity" yaml:"capacity"`
	Spawn    int    `json:"spawn" yaml:"spawn"`
}

// Load reads configuration from a JSON or YAML file, chosen by extension. An
// empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse json config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Island: IslandConfig{
			Seed:               1337,
			Randomize:          true,
			FrequencyMin:       1.6,
			FrequencyMax:       2.6,
			OverlayStrengthMin: 0.02,
			OverlayStrengthMax: 0.06,
		},
		Terrain: TerrainConfig{
			Resolution:    128,
			MeshWorldSize: 200,
			HeightScale:   24,
			Base: noise.Settings{
				Frequency:   2.0,
				Amplitude:   1,
				Octaves:     4,
				Lacunarity:  2.0,
				Persistence: 0.5,
			},
			Overlay: noise.Settings{
				Frequency:   14,
				Amplitude:   1,
				Octaves:     2,
				Lacunarity:  2.0,
				Persistence: 0.5,
				Primitive:   noise.PrimitiveSimplex,
			},
			OverlayStrength: 0.04,
			SlopeWidth:      2,
			Stepped:         true,
			AllowedHeights:  []float64{0, 0.1, 0.2, 0.35, 0.5, 0.65, 0.8, 1},
		},
		Biome: BiomeConfig{
			Sharpness: 2.2,
			Layers: []LayerConfig{
				{Name: "shore", StartHeight: 0, BaseColor: "#d8c596", SlopeColor: "#8a7a55", SlopeThreshold: 0.55, SlopeBlend: 0.1},
				{Name: "grass", StartHeight: 0.12, BaseColor: "#4a9d58", SlopeColor: "#6b5d49", SlopeThreshold: 0.4, SlopeBlend: 0.12},
				{Name: "forest", StartHeight: 0.38, BaseColor: "#2f7a3f", SlopeColor: "#5c5146", SlopeThreshold: 0.38, SlopeBlend: 0.12},
				{Name: "rock", StartHeight: 0.62, BaseColor: "#7d7468", SlopeColor: "#5a524a", SlopeThreshold: 0.3, SlopeBlend: 0.15},
				{Name: "snow", StartHeight: 0.85, BaseColor: "#f2f4f5", SlopeColor: "#9aa0a6", SlopeThreshold: 0.35, SlopeBlend: 0.1},
			},
		},
		Mesh: MeshConfig{
			Topology: "shared",
		},
		Scatter: ScatterConfig{
			CandidatesPerPoint: 15,
			SpawnPadding:       6,
			GrassMaxSlope:      0.35,
			GrassMinHeight:     0.1,
			GrassMaxHeight:     0.7,
			GrassAmount:        400,
		},
		Pools: []PoolConfig{
			{Kind: "walker", Capacity: 24, Spawn: 12},
			{Kind: "brute", Capacity: 8, Spawn: 4},
		},
	}
}

func (c *Config) Validate() error {
	if c.Terrain.Resolution < 1 {
		return errors.New("terrain.resolution must be at least 1")
	}
	if c.Terrain.MeshWorldSize <= 0 {
		return errors.New("terrain.meshWorldSize must be positive")
	}
	if c.Terrain.HeightScale <= 0 {
		return errors.New("terrain.heightScale must be positive")
	}
	if c.Terrain.Base.Octaves < 0 || c.Terrain.Overlay.Octaves < 0 {
		return errors.New("terrain octave counts cannot be negative")
	}
	if c.Terrain.Stepped && len(c.Terrain.AllowedHeights) == 0 {
		return errors.New("terrain.stepped requires a non-empty allowedHeights list")
	}
	for _, h := range c.Terrain.AllowedHeights {
		if h < 0 || h > 1 {
			return fmt.Errorf("terrain.allowedHeights entry %v outside [0,1]", h)
		}
	}
	if c.Island.Randomize {
		if c.Island.FrequencyMax < c.Island.FrequencyMin {
			return errors.New("island.frequencyMax must be >= frequencyMin")
		}
		if c.Island.OverlayStrengthMax < c.Island.OverlayStrengthMin {
			return errors.New("island.overlayStrengthMax must be >= overlayStrengthMin")
		}
	}
	if c.Biome.Sharpness <= 0 {
		return errors.New("biome.sharpness must be positive")
	}
	if len(c.Biome.Layers) == 0 {
		return errors.New("biome.layers must not be empty")
	}
	for _, layer := range c.Biome.Layers {
		if layer.Name == "" {
			return errors.New("biome layer name must be set")
		}
		if layer.StartHeight < 0 || layer.StartHeight > 1 {
			return fmt.Errorf("biome layer %q startHeight outside [0,1]", layer.Name)
		}
	}
	switch c.Mesh.Topology {
	case "shared", "flat":
	default:
		return fmt.Errorf("mesh.topology must be \"shared\" or \"flat\", got %q", c.Mesh.Topology)
	}
	if c.Scatter.CandidatesPerPoint < 1 {
		return errors.New("scatter.candidatesPerPoint must be at least 1")
	}
	if c.Scatter.SpawnPadding < 0 {
		return errors.New("scatter.spawnPadding cannot be negative")
	}
	if c.Scatter.SpawnPadding*2 >= c.Terrain.MeshWorldSize {
		return errors.New("scatter.spawnPadding collapses the spawn region")
	}
	if c.Scatter.GrassMinHeight > c.Scatter.GrassMaxHeight {
		return errors.New("scatter.grassMinHeight must be <= grassMaxHeight")
	}
	if c.Scatter.GrassAmount < 0 {
		return errors.New("scatter.grassAmount cannot be negative")
	}
	for _, p := range c.Pools {
		if p.Kind == "" {
			return errors.New("pool kind must be set")
		}
		if p.Capacity <= 0 {
			return fmt.Errorf("pool %q capacity must be positive", p.Kind)
		}
		if p.Spawn < 0 {
			return fmt.Errorf("pool %q spawn count cannot be negative", p.Kind)
		}
		if p.Spawn > p.Capacity {
			return fmt.Errorf("pool %q spawn count %d exceeds capacity %d", p.Kind, p.Spawn, p.Capacity)
		}
	}
	return nil
}
