// Package layout assigns 3D coordinates to graph nodes with an
// iterative force-directed simulation. A run walks a fixed state
// machine (initialize, cluster, place, simulate) and terminates either
// converged or with its iteration budget exhausted; both are valid
// outcomes. Runs are restartable from scratch only — there is no
// incremental re-layout.
package layout

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dd0wney/graphscape/pkg/algorithms"
	"github.com/dd0wney/graphscape/pkg/graph"
	"github.com/dd0wney/graphscape/pkg/logging"
)

// Engine runs force-directed layout over immutable snapshots.
// An Engine is not safe for concurrent runs; create one per run or
// serialize callers (the dispatcher does the latter).
type Engine struct {
	cfg      Config
	logger   logging.Logger
	progress ProgressFunc
	rng      *rand.Rand
}

// NewEngine creates a layout engine with the given configuration
func NewEngine(cfg Config) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		cfg:    cfg,
		logger: logging.DefaultLogger().With(logging.Component("layout")),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// SetLogger replaces the engine's logger
func (e *Engine) SetLogger(l logging.Logger) { e.logger = l }

// SetProgress installs a progress milestone callback
func (e *Engine) SetProgress(fn ProgressFunc) { e.progress = fn }

func (e *Engine) report(phase Phase, percent float64) {
	if e.progress != nil {
		e.progress(Progress{Phase: phase, Percent: percent})
	}
}

// Run executes a full layout over the snapshot and returns the final
// positions and cluster assignments. Degenerate inputs (0 or 1 nodes)
// yield trivial results, never errors.
func (e *Engine) Run(s *graph.Snapshot) *Result {
	timer := logging.StartTimer(e.logger, "layout run",
		logging.Count(s.NodeCount()))

	e.report(PhaseInitializing, 0)

	if s.NodeCount() == 0 {
		e.report(PhaseConverged, 100)
		timer.End()
		return &Result{
			Positions:   map[string]graph.Vector3{},
			Clusters:    []graph.Cluster{},
			Assignments: map[string]string{},
			Outcome:     PhaseConverged,
		}
	}

	idx := algorithms.NewIndex(s)

	degrees := make(map[string]int, s.NodeCount())
	for _, n := range s.Nodes() {
		degrees[n.ID] = idx.Degree(n.ID)
	}
	scratch := newArena(s, degrees, e.cfg)
	e.seedPositions(scratch)

	e.report(PhaseClustering, 10)
	groups := idx.Components(algorithms.ClusterOptions{
		MinStrength:     e.cfg.SimilarityThreshold,
		DefaultStrength: 0.5,
	})
	e.logger.Debug("clustering complete",
		logging.Phase(string(PhaseClustering)),
		logging.Count(len(groups)))

	e.report(PhaseInitialPlacement, 20)
	scratch.placeGroups(groups, e.cfg, e.rng)
	scratch.applyTemporalAxis(s, e.cfg.TimeSpread)

	outcome, iterations, energy := e.simulate(scratch)

	e.finalize(scratch)

	result := &Result{
		Positions:   scratch.positions(),
		Outcome:     outcome,
		Iterations:  iterations,
		FinalEnergy: energy,
	}
	result.Clusters, result.Assignments = buildClusters(groups, result.Positions)

	e.report(outcome, 100)
	e.logger.Info("layout finished",
		logging.Phase(string(outcome)),
		logging.Iteration(iterations),
		logging.Float64("energy", energy))
	timer.End()
	return result
}

// seedPositions keeps a prior nonzero position and randomizes the rest
// inside the bounding volume
func (e *Engine) seedPositions(a *arena) {
	for i := range a.nodes {
		if a.nodes[i].position.IsZero() {
			a.nodes[i].position = graph.Vector3{
				X: (e.rng.Float64()*2 - 1) * e.cfg.Bounds,
				Y: (e.rng.Float64()*2 - 1) * e.cfg.Bounds,
				Z: (e.rng.Float64()*2 - 1) * e.cfg.Bounds,
			}
		}
	}
}

// simulate runs the force integration loop until convergence or budget
// exhaustion
func (e *Engine) simulate(a *arena) (Phase, int, float64) {
	budget := e.cfg.budget()
	if budget <= 0 {
		return PhaseConverged, 0, a.totalKineticEnergy()
	}
	reportEvery := budget / 10
	if reportEvery == 0 {
		reportEvery = 1
	}

	for iter := 1; iter <= budget; iter++ {
		e.step(a)

		if iter%reportEvery == 0 {
			// Simulation spans 20% to 95% of the overall run
			e.report(PhaseSimulating, 20+75*float64(iter)/float64(budget))
		}

		if energy := a.totalKineticEnergy(); energy < energyThreshold {
			return PhaseConverged, iter, energy
		}
	}
	return PhaseExhausted, budget, a.totalKineticEnergy()
}

// step advances the simulation one tick: reset forces, accumulate
// repulsion, springs and cohesion, then integrate
func (e *Engine) step(a *arena) {
	for i := range a.nodes {
		a.nodes[i].force = graph.Vector3{}
	}

	e.applyRepulsion(a)
	e.applySprings(a)
	e.applyCohesion(a)
	e.integrate(a)
}

// applyRepulsion pushes every node pair apart with magnitude
// repulsion/d². This O(n²) loop dominates the run cost and is why
// layout executes off the caller's thread.
func (e *Engine) applyRepulsion(a *arena) {
	for i := 0; i < len(a.nodes); i++ {
		for j := i + 1; j < len(a.nodes); j++ {
			delta := a.nodes[i].position.Sub(a.nodes[j].position)
			dist := delta.Length()
			if dist < minSeparation {
				dist = minSeparation
				// Coincident nodes get a deterministic nudge axis
				delta = graph.Vector3{X: 1}
			}

			magnitude := e.cfg.RepulsionStrength / (dist * dist)
			push := delta.Normalize().Scale(magnitude)

			a.nodes[i].force = a.nodes[i].force.Add(push)
			a.nodes[j].force = a.nodes[j].force.Sub(push)
		}
	}
}

// applySprings pulls connected nodes toward each edge's ideal rest
// length with magnitude spring*(d - ideal)
func (e *Engine) applySprings(a *arena) {
	for _, sp := range a.springs {
		delta := a.nodes[sp.b].position.Sub(a.nodes[sp.a].position)
		dist := delta.Length()
		if dist < minSeparation {
			continue
		}

		magnitude := e.cfg.SpringStrength * (dist - sp.ideal)
		pull := delta.Normalize().Scale(magnitude)

		a.nodes[sp.a].force = a.nodes[sp.a].force.Add(pull)
		a.nodes[sp.b].force = a.nodes[sp.b].force.Sub(pull)
	}
}

// applyCohesion drags each node weakly toward its cluster's running
// centroid and toward the global origin so disconnected parts don't
// drift away
func (e *Engine) applyCohesion(a *arena) {
	// Running centroids per placement group
	type centroid struct {
		sum   graph.Vector3
		count int
	}
	centroids := map[int]*centroid{}
	for i := range a.nodes {
		c := centroids[a.nodes[i].cluster]
		if c == nil {
			c = &centroid{}
			centroids[a.nodes[i].cluster] = c
		}
		c.sum = c.sum.Add(a.nodes[i].position)
		c.count++
	}

	for i := range a.nodes {
		n := &a.nodes[i]
		if c := centroids[n.cluster]; c != nil && c.count > 1 {
			center := c.sum.Scale(1 / float64(c.count))
			n.force = n.force.Add(center.Sub(n.position).Scale(clusterCohesion))
		}
		n.force = n.force.Add(n.position.Scale(-originCohesion))
	}
}

// integrate applies velocity = (velocity + force/mass) * damping,
// advances positions, and clamps to the bounding volume
func (e *Engine) integrate(a *arena) {
	for i := range a.nodes {
		n := &a.nodes[i]
		n.velocity = n.velocity.Add(n.force.Scale(1 / n.mass)).Scale(e.cfg.DampingFactor)
		n.position = n.position.Add(n.velocity)

		if e.cfg.Bounds > 0 {
			n.position.X = clamp(n.position.X, -e.cfg.Bounds, e.cfg.Bounds)
			n.position.Y = clamp(n.position.Y, -e.cfg.Bounds, e.cfg.Bounds)
			n.position.Z = clamp(n.position.Z, -e.cfg.Bounds, e.cfg.Bounds)
		}
	}
}

// finalize translates all positions so the bounding-box center of the
// result sits at the origin
func (e *Engine) finalize(a *arena) {
	if len(a.nodes) == 0 {
		return
	}
	min := a.nodes[0].position
	max := a.nodes[0].position
	for i := range a.nodes {
		p := a.nodes[i].position
		min.X, max.X = minMax(min.X, max.X, p.X)
		min.Y, max.Y = minMax(min.Y, max.Y, p.Y)
		min.Z, max.Z = minMax(min.Z, max.Z, p.Z)
	}
	center := min.Add(max).Scale(0.5)
	for i := range a.nodes {
		a.nodes[i].position = a.nodes[i].position.Sub(center)
	}
}

// buildClusters converts placement groups of size >= 2 into clusters
// with geometry computed from the final positions
func buildClusters(groups [][]string, positions map[string]graph.Vector3) ([]graph.Cluster, map[string]string) {
	clusters := make([]graph.Cluster, 0)
	assignments := make(map[string]string)

	for _, member := range groups {
		if len(member) < 2 {
			continue
		}
		cluster := graph.Cluster{
			ID:      fmt.Sprintf("cluster-%d", len(clusters)),
			NodeIDs: member,
		}
		var center graph.Vector3
		for _, id := range member {
			center = center.Add(positions[id])
		}
		cluster.Center = center.Scale(1 / float64(len(member)))
		for _, id := range member {
			if d := cluster.Center.Distance(positions[id]); d > cluster.Radius {
				cluster.Radius = d
			}
			assignments[id] = cluster.ID
		}
		clusters = append(clusters, cluster)
	}
	return clusters, assignments
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minMax(lo, hi, v float64) (float64, float64) {
	if v < lo {
		lo = v
	}
	if v > hi {
		hi = v
	}
	return lo, hi
}
