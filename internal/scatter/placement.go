package scatter

import (
	"log"
	"math/rand"

	"islandgen/internal/geom"
)

// attemptsPerRequested bounds the candidate retries for one placement batch.
const attemptsPerRequested = 20

// GroundQuery resolves the world-space ground height under a horizontal
// point. A false return means no ground exists there and the placement is
// rejected without registering an exclusion zone.
type GroundQuery func(p geom.Vec2) (float64, bool)

// Transform is one instance for the GPU instancing consumer.
type Transform struct {
	Position geom.Vec3
	YawDeg   float64
	Scale    float64
}

// Report summarizes a placement batch. Placed < Requested is an accepted
// partial result, not an error.
type Report struct {
	Requested int
	Placed    int
	Attempts  int
}

// Shortfall returns how many requested placements could not be made.
func (r Report) Shortfall() int {
	return r.Requested - r.Placed
}

// Place requests the given number of well-spaced instances from the sampler,
// confirming each candidate against the ground query before registering it.
// The call under-places and logs the shortfall instead of looping forever.
func Place(s *Sampler, amount int, ground GroundQuery, rng *rand.Rand) ([]Transform, Report) {
	report := Report{Requested: amount}
	if amount <= 0 {
		return nil, report
	}

	transforms := make([]Transform, 0, amount)
	budget := amount * attemptsPerRequested
	for report.Attempts = 0; report.Attempts < budget && report.Placed < amount; report.Attempts++ {
		candidate, ok := s.TryGetNextCandidate()
		if !ok {
			continue
		}

		height, ok := ground(candidate)
		if !ok {
			continue
		}

		s.RegisterAcceptedPosition(candidate)
		transforms = append(transforms, Transform{
			Position: geom.Vec3{X: candidate.X, Y: height, Z: candidate.Y},
			YawDeg:   rng.Float64() * 360,
			Scale:    0.8 + rng.Float64()*0.4,
		})
		report.Placed++
	}

	if report.Placed < report.Requested {
		log.Printf("scatter placement shortfall: placed %d of %d after %d attempts",
			report.Placed, report.Requested, report.Attempts)
	}
	return transforms, report
}
