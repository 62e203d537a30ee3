package heightmap

import (
	"testing"

	"islandgen/internal/geom"
	"islandgen/internal/noise"
)

func testSettings() Settings {
	return Settings{
		Resolution:    32,
		MeshWorldSize: 100,
		HeightScale:   20,
		Base: noise.Settings{
			Frequency:   2.0,
			Amplitude:   1,
			Octaves:     4,
			Lacunarity:  2.0,
			Persistence: 0.5,
		},
		Overlay: noise.Settings{
			Frequency:   12,
			Amplitude:   1,
			Octaves:     2,
			Lacunarity:  2.0,
			Persistence: 0.5,
		},
		OverlayStrength: 0.05,
		SlopeWidth:      2,
	}
}

func mustSynthesizer(t *testing.T, settings Settings) *Synthesizer {
	t.Helper()
	s, err := NewSynthesizer(settings, geom.DefaultIslandFalloff())
	if err != nil {
		t.Fatalf("build synthesizer: %v", err)
	}
	return s
}

func TestBuildIsDeterministic(t *testing.T) {
	settings := testSettings()
	a := mustSynthesizer(t, settings)
	b := mustSynthesizer(t, settings)

	ha, sa := a.Build(42)
	hb, sb := b.Build(42)

	for i := range ha.Values {
		if ha.Values[i] != hb.Values[i] {
			t.Fatalf("height grids diverged at %d: %v vs %v", i, ha.Values[i], hb.Values[i])
		}
		if sa.Values[i] != sb.Values[i] {
			t.Fatalf("slope grids diverged at %d: %v vs %v", i, sa.Values[i], sb.Values[i])
		}
	}
}

func TestBuildGridDimensions(t *testing.T) {
	settings := testSettings()
	settings.Resolution = 10

	heights, slopes := mustSynthesizer(t, settings).Build(1)
	if heights.Points != 11 || slopes.Points != 11 {
		t.Fatalf("expected 11 points per side, got heights=%d slopes=%d",
			heights.Points, slopes.Points)
	}
}

func TestBuildValuesStayInUnitRange(t *testing.T) {
	settings := testSettings()
	settings.OverlayStrength = 5 // extreme micro noise must still clamp

	heights, slopes := mustSynthesizer(t, settings).Build(7)
	for i, h := range heights.Values {
		if h < 0 || h > 1 {
			t.Fatalf("height out of range at %d: %v", i, h)
		}
		if s := slopes.Values[i]; s < 0 || s > 1 {
			t.Fatalf("slope out of range at %d: %v", i, s)
		}
	}
}

func TestSteppedHeightsSnapToAllowedSet(t *testing.T) {
	settings := testSettings()
	settings.Stepped = true
	settings.AllowedHeights = []float64{0, 0.2, 0.4, 0.6, 0.8, 1}
	settings.OverlayStrength = 0 // keep the snapped macro values untouched

	heights, _ := mustSynthesizer(t, settings).Build(3)
	allowed := map[float64]bool{0: true, 0.2: true, 0.4: true, 0.6: true, 0.8: true, 1: true}
	for i, h := range heights.Values {
		if !allowed[h] {
			t.Fatalf("height %v at %d is not in the allowed set", h, i)
		}
	}
}

func TestSnapToNearestTieBreaksToEarlierValue(t *testing.T) {
	tests := []struct {
		value   float64
		allowed []float64
		want    float64
	}{
		{0.46, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}, 0.4},
		{0.5, []float64{0.4, 0.6}, 0.4},
		{0.1, []float64{0, 0.5, 1}, 0},
		{0.9, []float64{0, 0.5, 1}, 1},
		{-0.3, []float64{0, 1}, 0},
		{1.7, []float64{0, 1}, 1},
	}
	for _, tt := range tests {
		if got := snapToNearest(tt.value, tt.allowed); got != tt.want {
			t.Fatalf("snap(%v, %v): want %v, got %v", tt.value, tt.allowed, tt.want, got)
		}
	}
}

func TestDilatedSlopeNeverBelowRaw(t *testing.T) {
	settings := testSettings()
	settings.Stepped = true
	settings.AllowedHeights = []float64{0, 0.25, 0.5, 0.75, 1}

	s := mustSynthesizer(t, settings)
	points := settings.Resolution + 1
	macro := s.buildMacro(11, points)
	raw := s.buildSlope(macro, points)
	dilated := s.dilateSlope(raw, points)

	for i := range raw.Values {
		if dilated.Values[i] < raw.Values[i] {
			t.Fatalf("dilation lowered slope at %d: %v -> %v", i, raw.Values[i], dilated.Values[i])
		}
	}
}

func TestZeroSlopeWidthKeepsRawSlopes(t *testing.T) {
	settings := testSettings()
	settings.SlopeWidth = 0

	s := mustSynthesizer(t, settings)
	points := settings.Resolution + 1
	macro := s.buildMacro(5, points)
	raw := s.buildSlope(macro, points)
	dilated := s.dilateSlope(raw, points)

	for i := range raw.Values {
		if dilated.Values[i] != raw.Values[i] {
			t.Fatalf("zero radius should copy slopes, diverged at %d", i)
		}
	}
}

func TestSlopeIgnoresMicroOverlay(t *testing.T) {
	flat := testSettings()
	flat.OverlayStrength = 0
	bumpy := testSettings()
	bumpy.OverlayStrength = 0.3

	_, flatSlopes := mustSynthesizer(t, flat).Build(9)
	_, bumpySlopes := mustSynthesizer(t, bumpy).Build(9)

	for i := range flatSlopes.Values {
		if a, b := flatSlopes.Values[i], bumpySlopes.Values[i]; a != b {
			t.Fatalf("overlay changed slope at %d: %v vs %v", i, a, b)
		}
	}
}

func TestNewSynthesizerRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero resolution", func(s *Settings) { s.Resolution = 0 }},
		{"non-positive world size", func(s *Settings) { s.MeshWorldSize = 0 }},
		{"negative slope width", func(s *Settings) { s.SlopeWidth = -1 }},
		{"stepped without heights", func(s *Settings) { s.Stepped = true; s.AllowedHeights = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings()
			tt.mutate(&settings)
			if _, err := NewSynthesizer(settings, geom.DefaultIslandFalloff()); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	if _, err := NewSynthesizer(testSettings(), nil); err == nil {
		t.Fatalf("expected error for missing falloff curve")
	}
}

func TestGridBilinear(t *testing.T) {
	g := NewGrid(2)
	g.Set(0, 0, 0)
	g.Set(1, 0, 1)
	g.Set(0, 1, 0)
	g.Set(1, 1, 1)

	if got := g.Bilinear(0.25, 0); got != 0.25 {
		t.Fatalf("expected interpolated 0.25, got %v", got)
	}
	if got := g.Bilinear(0.5, 0.5); got != 0.5 {
		t.Fatalf("expected center 0.5, got %v", got)
	}
	if got := g.Bilinear(0, 0); got != 0 {
		t.Fatalf("expected exact corner 0, got %v", got)
	}
}
