// Package visualization computes initial node positions for the annotated
// Mapper graph and exports it for the browser renderer. The browser's force
// simulation refines the layout; these positions just give it a stable start.
package visualization

import (
	"math"
	"math/rand"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/graph"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       int64   // Random seed, so repeated renders are identical
}

// Layout interface for different layout algorithms
type Layout interface {
	ComputeLayout(g *graph.Graph) (map[uint64]Position, error)
}

// ForceDirectedLayout implements force-directed graph layout
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	if config.Seed == 0 {
		config.Seed = 1
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using a force-directed algorithm
func (fdl *ForceDirectedLayout) ComputeLayout(g *graph.Graph) (map[uint64]Position, error) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return make(map[uint64]Position), nil
	}

	// Single node - center it
	if len(nodes) == 1 {
		return map[uint64]Position{
			nodes[0].ID: {
				X: fdl.config.Width / 2,
				Y: fdl.config.Height / 2,
			},
		}, nil
	}

	rng := rand.New(rand.NewSource(fdl.config.Seed))

	// Initialize random positions
	positions := make(map[uint64]Position)
	for _, node := range nodes {
		positions[node.ID] = Position{
			X: rng.Float64()*(fdl.config.Width-2*fdl.config.Padding) + fdl.config.Padding,
			Y: rng.Float64()*(fdl.config.Height-2*fdl.config.Padding) + fdl.config.Padding,
		}
	}

	// Force-directed iterations
	k := math.Sqrt((fdl.config.Width * fdl.config.Height) / float64(len(nodes))) // Optimal distance
	temperature := fdl.config.Width / 10.0

	for iter := 0; iter < fdl.config.Iterations; iter++ {
		forces := make(map[uint64]Position)
		for _, node := range nodes {
			forces[node.ID] = Position{X: 0, Y: 0}
		}

		// Repulsion between all pairs
		for i, node1 := range nodes {
			for j := i + 1; j < len(nodes); j++ {
				node2 := nodes[j]
				dx := positions[node1.ID].X - positions[node2.ID].X
				dy := positions[node1.ID].Y - positions[node2.ID].Y
				dist := math.Sqrt(dx*dx + dy*dy)

				if dist < 0.01 {
					dist = 0.01
				}

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[node1.ID] = Position{
					X: forces[node1.ID].X + fx,
					Y: forces[node1.ID].Y + fy,
				}
				forces[node2.ID] = Position{
					X: forces[node2.ID].X - fx,
					Y: forces[node2.ID].Y - fy,
				}
			}
		}

		// Attraction along links
		for _, node := range nodes {
			neighbors, err := g.Neighbors(node.ID)
			if err != nil {
				return nil, err
			}
			for _, other := range neighbors {
				dx := positions[node.ID].X - positions[other].X
				dy := positions[node.ID].Y - positions[other].Y
				dist := math.Sqrt(dx*dx + dy*dy)

				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[node.ID] = Position{
					X: forces[node.ID].X - fx,
					Y: forces[node.ID].Y - fy,
				}
			}
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(fdl.config.Iterations)
		for _, node := range nodes {
			fx := forces[node.ID].X
			fy := forces[node.ID].Y
			force := math.Sqrt(fx*fx + fy*fy)

			if force > 0 {
				dx := (fx / force) * math.Min(force, temperature) * cool
				dy := (fy / force) * math.Min(force, temperature) * cool

				positions[node.ID] = Position{
					X: positions[node.ID].X + dx,
					Y: positions[node.ID].Y + dy,
				}
			}
		}

		temperature *= 0.95
	}

	return normalizePositions(positions, fdl.config.Width, fdl.config.Height, fdl.config.Padding), nil
}

// CircularLayout arranges nodes in a circle
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout arranges nodes in a circle in ID order
func (cl *CircularLayout) ComputeLayout(g *graph.Graph) (map[uint64]Position, error) {
	nodes := g.Nodes()
	positions := make(map[uint64]Position)

	if len(nodes) == 0 {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Min(centerX, centerY) - cl.config.Padding

	angleStep := 2 * math.Pi / float64(len(nodes))

	for i, node := range nodes {
		angle := float64(i) * angleStep
		positions[node.ID] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions, nil
}

// normalizePositions scales positions to fit within bounds
func normalizePositions(positions map[uint64]Position, width, height, padding float64) map[uint64]Position {
	if len(positions) == 0 {
		return positions
	}

	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY

	if rangeX < 0.01 {
		rangeX = 1
	}
	if rangeY < 0.01 {
		rangeY = 1
	}

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	normalized := make(map[uint64]Position)
	for nodeID, pos := range positions {
		normalized[nodeID] = Position{
			X: padding + ((pos.X-minX)/rangeX)*targetWidth,
			Y: padding + ((pos.Y-minY)/rangeY)*targetHeight,
		}
	}

	return normalized
}
