package camera

import (
	"math"

	"github.com/dd0wney/graphscape/pkg/graph"
)

// defaultViewDirection is where the camera sits relative to the frame
// center when no prior orientation is kept: slightly above, pulled
// back along +Z.
var defaultViewDirection = graph.Vector3{X: 0, Y: 0.3, Z: 1}

// FrameNodes computes the pose that best displays the given positions:
// the bounding sphere of the set, viewed from a distance derived from
// the sphere radius, the padding factor and the field of view, clamped
// to the configured range. An empty position set frames the origin at
// MinDistance.
func FrameNodes(positions []graph.Vector3, current State, cfg PositioningConfig) State {
	center, radius := boundingSphere(positions)
	distance := frameDistance(radius, cfg)

	dir := defaultViewDirection.Normalize()
	if cfg.MaintainOrientation {
		if prior := current.Position.Sub(current.Target); prior.Length() > 0 {
			dir = prior.Normalize()
		}
	}

	near := distance / 100
	if near < 0.1 {
		near = 0.1
	}

	return State{
		Position: center.Add(dir.Scale(distance)),
		Target:   center,
		Up:       graph.Vector3{Y: 1},
		FOV:      cfg.FieldOfView,
		Near:     near,
		Far:      distance * 10,
	}
}

// frameDistance converts a bounding radius into a camera distance.
// PreventCloseUp enforces a floor above MinDistance so a single-node
// focus doesn't slam the camera into the node.
func frameDistance(radius float64, cfg PositioningConfig) float64 {
	halfFOV := cfg.FieldOfView / 2 * math.Pi / 180
	if halfFOV <= 0 {
		halfFOV = math.Pi / 6
	}

	distance := radius * cfg.PaddingFactor / math.Tan(halfFOV)

	if distance < cfg.MinDistance {
		distance = cfg.MinDistance
	}
	if cfg.MaxDistance > 0 && distance > cfg.MaxDistance {
		distance = cfg.MaxDistance
	}
	if cfg.PreventCloseUp {
		if floor := cfg.MinDistance * 2; distance < floor {
			distance = floor
		}
	}
	return distance
}

// boundingSphere returns the bounding-box center of the positions and
// the max distance from that center to any position
func boundingSphere(positions []graph.Vector3) (graph.Vector3, float64) {
	if len(positions) == 0 {
		return graph.Vector3{}, 0
	}

	min, max := positions[0], positions[0]
	for _, p := range positions {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
		max.Z = math.Max(max.Z, p.Z)
	}
	center := min.Add(max).Scale(0.5)

	radius := 0.0
	for _, p := range positions {
		if d := center.Distance(p); d > radius {
			radius = d
		}
	}
	return center, radius
}
