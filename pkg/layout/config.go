package layout

// Config holds the tunable parameters of a layout run
type Config struct {
	Iterations          int     // simulation budget
	RepulsionStrength   float64 // pairwise repulsion coefficient
	SpringStrength      float64 // edge attraction coefficient
	DampingFactor       float64 // velocity damping, 0 < d < 1
	Spacing             float64 // target inter-node spacing
	ClusterSeparation   float64 // distance between cluster centers
	TimeSpread          float64 // magnitude of the temporal axis
	SimilarityThreshold float64 // min edge strength for clustering
	QuickLayout         bool    // cap iterations for interactive use
	Bounds              float64 // half-extent of the bounding volume
	Seed                int64   // 0 = time-seeded
}

// quickIterationCap bounds a quick-layout run
const quickIterationCap = 50

// energyThreshold is the total kinetic energy below which a run is
// considered converged
const energyThreshold = 0.01

// minSeparation is the distance floor that keeps the repulsion term
// from blowing up when two nodes coincide
const minSeparation = 0.1

// Cohesion coefficients: weak pull toward the cluster centroid and a
// weaker one toward the global origin, to prevent unbounded drift
const (
	clusterCohesion = 0.01
	originCohesion  = 0.001
)

// DefaultConfig returns the engineering defaults for a layout run
func DefaultConfig() Config {
	return Config{
		Iterations:          300,
		RepulsionStrength:   500,
		SpringStrength:      0.05,
		DampingFactor:       0.9,
		Spacing:             10,
		ClusterSeparation:   40,
		TimeSpread:          30,
		SimilarityThreshold: 0.5,
		Bounds:              200,
	}
}

// budget returns the effective iteration budget
func (c Config) budget() int {
	if c.QuickLayout && c.Iterations > quickIterationCap {
		return quickIterationCap
	}
	return c.Iterations
}
