// Package kmapper loads Mapper graphs exported by the upstream topology
// pipeline. The export is a single JSON document: "nodes" maps node names to
// the orthogroup row indices they cover, "links" maps node names to the
// names of adjacent nodes.
package kmapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/graph"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/logging"
)

var (
	ErrNoNodes        = errors.New("mapper document has no nodes")
	ErrNegativeMember = errors.New("negative member index")
)

// Document mirrors the Mapper JSON export.
type Document struct {
	Nodes map[string][]int    `json:"nodes"`
	Links map[string][]string `json:"links"`
	Meta  map[string]any      `json:"meta,omitempty"`
}

// Loader parses Mapper exports into a graph.
type Loader struct {
	logger logging.Logger
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{logger: logger.With(logging.Component("kmapper"))}
}

// Load reads a Mapper JSON export from a file.
func (l *Loader) Load(path string) (*graph.Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapper graph: %w", err)
	}
	defer file.Close()

	g, err := l.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return g, nil
}

// Parse decodes a Mapper JSON export into a graph. Node IDs follow the
// lexicographic order of node names so repeated loads are identical.
func (l *Loader) Parse(r io.Reader) (*graph.Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode mapper document: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return nil, ErrNoNodes
	}

	names := make([]string, 0, len(doc.Nodes))
	for name := range doc.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	g := graph.NewGraph()
	for _, name := range names {
		members := doc.Nodes[name]
		for _, m := range members {
			if m < 0 {
				return nil, fmt.Errorf("node %q member %d: %w", name, m, ErrNegativeMember)
			}
		}
		if _, err := g.AddNode(name, members); err != nil {
			return nil, err
		}
	}

	skipped := 0
	for from, targets := range doc.Links {
		fromNode, err := g.GetNodeByName(from)
		if err != nil {
			skipped += len(targets)
			l.logger.Warn("link source not in nodes", logging.NodeName(from))
			continue
		}
		for _, to := range targets {
			toNode, err := g.GetNodeByName(to)
			if err != nil {
				skipped++
				l.logger.Warn("link target not in nodes", logging.NodeName(to))
				continue
			}
			if err := g.AddLink(fromNode.ID, toNode.ID); err != nil {
				return nil, err
			}
		}
	}

	stats := g.GetStatistics()
	l.logger.Info("mapper graph loaded",
		logging.Int("nodes", stats.NodeCount),
		logging.Int("links", stats.LinkCount),
		logging.Int("links_skipped", skipped),
	)

	return g, nil
}
