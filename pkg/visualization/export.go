package visualization

import (
	"encoding/json"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/enrichment"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/graph"
)

// NodeView is one node as the browser renderer sees it.
type NodeView struct {
	ID          uint64            `json:"id"`
	Name        string            `json:"name"`
	Title       string            `json:"title"`
	Color       string            `json:"color"`
	Size        int               `json:"size"`
	X           float64           `json:"x"`
	Y           float64           `json:"y"`
	Orthogroups []string          `json:"orthogroups,omitempty"`
	Enriched    []string          `json:"enriched,omitempty"`
	Purified    []string          `json:"purified,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
}

// LinkView is one undirected link.
type LinkView struct {
	Source uint64 `json:"source"`
	Target uint64 `json:"target"`
}

// ViewData is the complete renderer payload.
type ViewData struct {
	Nodes []NodeView `json:"nodes"`
	Links []LinkView `json:"links"`
}

// Export builds the renderer payload from an annotated graph and layout
// positions. Annotation properties with dedicated fields are lifted out of
// the flat property map; everything else is rendered as display strings.
func Export(g *graph.Graph, positions map[uint64]Position) *ViewData {
	nodes := g.Nodes()

	view := &ViewData{
		Nodes: make([]NodeView, 0, len(nodes)),
		Links: make([]LinkView, 0),
	}

	for _, node := range nodes {
		pos := positions[node.ID]

		nv := NodeView{
			ID:    node.ID,
			Name:  node.Name,
			Title: node.Name,
			Color: enrichment.DefaultColor,
			Size:  len(node.Members),
			X:     pos.X,
			Y:     pos.Y,
		}

		if v, ok := node.Properties["title"]; ok {
			if title, err := v.AsString(); err == nil && title != "" {
				nv.Title = title
			}
		}
		if v, ok := node.Properties["color"]; ok {
			if color, err := v.AsString(); err == nil && color != "" {
				nv.Color = color
			}
		}
		if groups, err := node.Properties["orthogroups"].AsStringList(); err == nil {
			nv.Orthogroups = groups
		}
		if enriched, err := node.Properties["enriched"].AsStringList(); err == nil {
			nv.Enriched = enriched
		}
		if purified, err := node.Properties["purified"].AsStringList(); err == nil {
			nv.Purified = purified
		}

		lifted := map[string]bool{
			"title": true, "color": true, "orthogroups": true,
			"enriched": true, "purified": true,
		}
		for key, val := range node.Properties {
			if lifted[key] {
				continue
			}
			if nv.Properties == nil {
				nv.Properties = make(map[string]string)
			}
			nv.Properties[key] = val.String()
		}

		view.Nodes = append(view.Nodes, nv)
	}

	for _, link := range g.Links() {
		view.Links = append(view.Links, LinkView{Source: link[0], Target: link[1]})
	}

	return view
}

// JSON marshals the payload.
func (v *ViewData) JSON() ([]byte, error) {
	return json.Marshal(v)
}
