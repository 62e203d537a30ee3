package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"islandgen/internal/biome"
	"islandgen/internal/config"
	"islandgen/internal/geom"
	"islandgen/internal/island"
	"islandgen/internal/scatter"
	"islandgen/internal/sim"
)

func main() {
	var (
		cfgPath string
		seed    int64
		outDir  string
		simTime time.Duration
	)
	flag.StringVar(&cfgPath, "config", "", "path to island generator configuration file")
	flag.Int64Var(&seed, "seed", 0, "override the configured generation seed")
	flag.StringVar(&outDir, "out", "out", "directory for generated artifacts")
	flag.DurationVar(&simTime, "sim", 10*time.Second, "how long to run the enemy simulation")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if seed != 0 {
		cfg.Island.Seed = seed
	}

	gen, err := island.NewGenerator(cfg)
	if err != nil {
		log.Fatalf("initialise generator: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	isl, err := gen.Generate(cfg.Island.Seed)
	if err != nil {
		log.Fatalf("generate island: %v", err)
	}
	log.Printf("generated island seed=%d resolution=%d vertices=%d",
		isl.Seed, cfg.Terrain.Resolution, len(isl.Mesh.Positions))

	if err := exportArtifacts(gen, isl, cfg, outDir); err != nil {
		log.Fatalf("export artifacts: %v", err)
	}

	if err := runSimulation(ctx, gen, isl, cfg, simTime); err != nil {
		log.Fatalf("simulation: %v", err)
	}
}

func exportArtifacts(gen *island.Generator, isl *island.Island, cfg *config.Config, outDir string) error {
	if err := island.SaveHeightmapPNG(isl, outDir); err != nil {
		return err
	}
	if err := island.SaveSlopePNG(isl, outDir); err != nil {
		return err
	}
	if err := island.SaveColorPNG(isl, outDir); err != nil {
		return err
	}
	if err := island.WriteMeshOBJ(isl, outDir); err != nil {
		return err
	}

	colorizer := gen.Colorizer()
	for idx, layer := range colorizer.Layers() {
		layerMask, err := colorizer.DominantLayerMask(isl.Heights, idx)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("layer_%s_mask.png", layer.Name)
		if err := island.SaveMaskPNG(layerMask, outDir, name); err != nil {
			return err
		}
	}

	mask, err := biome.GrassValidityMask(isl.Heights, isl.Slopes,
		cfg.Scatter.GrassMaxSlope, cfg.Scatter.GrassMinHeight, cfg.Scatter.GrassMaxHeight)
	if err != nil {
		return err
	}
	if err := island.SaveMaskPNG(mask, outDir, "grass_mask.png"); err != nil {
		return err
	}

	sampler, err := gen.GrassSampler(isl, cfg.Island.Seed)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(cfg.Island.Seed))
	grass, report := scatter.Place(sampler, cfg.Scatter.GrassAmount, isl.GroundQuery(), rng)
	log.Printf("grass placement: %d of %d in %d attempts",
		report.Placed, report.Requested, report.Attempts)

	return island.SaveScatterPNG(isl, grass, outDir, "grass_scatter.png")
}

func runSimulation(ctx context.Context, gen *island.Generator, isl *island.Island, cfg *config.Config, duration time.Duration) error {
	rng := rand.New(rand.NewSource(cfg.Island.Seed + 1))

	specs := make([]sim.PoolSpec, 0, len(cfg.Pools))
	for _, p := range cfg.Pools {
		specs = append(specs, sim.PoolSpec{Kind: p.Kind, Capacity: p.Capacity})
	}
	world, err := sim.NewWorld(isl.GroundQuery(), rng, specs)
	if err != nil {
		return err
	}

	for _, p := range cfg.Pools {
		sampler, err := gen.SpawnSampler(isl, cfg.Island.Seed+int64(len(p.Kind)))
		if err != nil {
			return err
		}
		report, err := world.SpawnEnemies(p.Kind, p.Spawn, sampler)
		if err != nil {
			return err
		}
		log.Printf("spawned %d/%d %s enemies", report.Placed, report.Requested, p.Kind)
	}

	bounds := isl.Bounds()
	center := geom.Vec2{
		X: (bounds.Min.X + bounds.Max.X) / 2,
		Y: (bounds.Min.Y + bounds.Max.Y) / 2,
	}
	patrol := []geom.Vec2{
		{X: center.X - 30, Y: center.Y - 30},
		{X: center.X + 30, Y: center.Y - 30},
		{X: center.X + 30, Y: center.Y + 30},
		{X: center.X - 30, Y: center.Y + 30},
	}
	if _, err := world.AddDrone(center, patrol); err != nil {
		return err
	}

	const step = 50 * time.Millisecond
	ticker := time.NewTicker(step)
	defer ticker.Stop()
	deadline := time.After(duration)

	for {
		select {
		case <-ctx.Done():
			log.Printf("simulation interrupted, returning actors to pools")
			world.ReturnAllToPool()
			return nil
		case <-deadline:
			fired := world.Broadcast(sim.EventConfused)
			log.Printf("simulation finished, confused %d enemies before teardown", fired)
			world.ReturnAllToPool()
			return nil
		case <-ticker.C:
			world.Update(step)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}

		// Ensure the process terminates if teardown stalls.
		time.AfterFunc(10*time.Second, func() {
			log.Printf("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}
