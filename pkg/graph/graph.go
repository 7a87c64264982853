// Package graph holds the in-memory Mapper graph that the loaders populate
// and the annotation passes decorate. Nodes carry typed properties; links
// are undirected and deduplicated.
package graph

import (
	"sort"
)

// Graph is an in-memory Mapper graph. Not safe for concurrent mutation;
// the loaders build it once and readers share it afterwards.
type Graph struct {
	nodes     map[uint64]*Node
	nameIndex map[string]uint64
	adjacency map[uint64]map[uint64]bool
	linkCount int
	nextID    uint64
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[uint64]*Node),
		nameIndex: make(map[string]uint64),
		adjacency: make(map[uint64]map[uint64]bool),
		nextID:    1,
	}
}

// AddNode adds a node with the given name and member indices.
// Names must be unique; IDs are assigned in insertion order.
func (g *Graph) AddNode(name string, members []int) (*Node, error) {
	if _, exists := g.nameIndex[name]; exists {
		return nil, &GraphError{Op: "AddNode", Name: name, Cause: ErrDuplicateNode}
	}

	node := &Node{
		ID:         g.nextID,
		Name:       name,
		Members:    append([]int(nil), members...),
		Properties: make(map[string]Value),
	}
	g.nextID++

	g.nodes[node.ID] = node
	g.nameIndex[name] = node.ID
	g.adjacency[node.ID] = make(map[uint64]bool)

	return node, nil
}

// AddLink records an undirected link between two nodes by ID.
// Self-links are ignored; repeated links are deduplicated.
func (g *Graph) AddLink(a, b uint64) error {
	if a == b {
		return nil
	}
	if _, ok := g.nodes[a]; !ok {
		return &GraphError{Op: "AddLink", ID: a, Cause: ErrNodeNotFound}
	}
	if _, ok := g.nodes[b]; !ok {
		return &GraphError{Op: "AddLink", ID: b, Cause: ErrNodeNotFound}
	}

	if g.adjacency[a][b] {
		return nil
	}
	g.adjacency[a][b] = true
	g.adjacency[b][a] = true
	g.linkCount++

	return nil
}

// GetNode returns the node with the given ID.
func (g *Graph) GetNode(id uint64) (*Node, error) {
	node, ok := g.nodes[id]
	if !ok {
		return nil, &GraphError{Op: "GetNode", ID: id, Cause: ErrNodeNotFound}
	}
	return node, nil
}

// GetNodeByName returns the node with the given name.
func (g *Graph) GetNodeByName(name string) (*Node, error) {
	id, ok := g.nameIndex[name]
	if !ok {
		return nil, &GraphError{Op: "GetNodeByName", Name: name, Cause: ErrNodeNotFound}
	}
	return g.nodes[id], nil
}

// Neighbors returns the IDs of nodes linked to the given node, in ascending order.
func (g *Graph) Neighbors(id uint64) ([]uint64, error) {
	adj, ok := g.adjacency[id]
	if !ok {
		return nil, &GraphError{Op: "Neighbors", ID: id, Cause: ErrNodeNotFound}
	}

	neighbors := make([]uint64, 0, len(adj))
	for n := range adj {
		neighbors = append(neighbors, n)
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })

	return neighbors, nil
}

// Nodes returns all nodes in ascending ID order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, node := range g.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	return nodes
}

// Links returns all undirected links as ID pairs with the smaller ID first,
// sorted for stable output.
func (g *Graph) Links() [][2]uint64 {
	links := make([][2]uint64, 0, g.linkCount)
	for a, adj := range g.adjacency {
		for b := range adj {
			if a < b {
				links = append(links, [2]uint64{a, b})
			}
		}
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i][0] != links[j][0] {
			return links[i][0] < links[j][0]
		}
		return links[i][1] < links[j][1]
	})

	return links
}

// SetProperty sets a property on the node with the given ID.
func (g *Graph) SetProperty(id uint64, key string, value Value) error {
	node, ok := g.nodes[id]
	if !ok {
		return &GraphError{Op: "SetProperty", ID: id, Cause: ErrNodeNotFound}
	}
	node.Properties[key] = value
	return nil
}

// GetStatistics returns node and link counts.
func (g *Graph) GetStatistics() Statistics {
	return Statistics{
		NodeCount: len(g.nodes),
		LinkCount: g.linkCount,
	}
}
