package visualization

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/enrichment"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/graph"
)

// setupAnnotatedGraph builds a two-node graph carrying annotation properties
func setupAnnotatedGraph(t *testing.T) *graph.Graph {
	t.Helper()

	g := graph.NewGraph()
	n0, err := g.AddNode("cube0_cluster0", []int{0, 1})
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	n1, err := g.AddNode("cube1_cluster0", []int{2})
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	g.AddLink(n0.ID, n1.ID)

	n0.Properties["title"] = graph.StringValue("cube0_cluster0: 2 orthogroups, 5 genes")
	n0.Properties["color"] = graph.StringValue("#d62728")
	n0.Properties["orthogroups"] = graph.StringListValue([]string{"OG0000000", "OG0000001"})
	n0.Properties["enriched"] = graph.StringListValue([]string{"GO:0009734"})
	n0.Properties["purified"] = graph.StringListValue([]string{})
	n0.Properties["gene_count"] = graph.IntValue(5)

	return g
}

func TestExport(t *testing.T) {
	g := setupAnnotatedGraph(t)
	positions := map[uint64]Position{1: {X: 10, Y: 20}, 2: {X: 30, Y: 40}}

	view := Export(g, positions)

	if len(view.Nodes) != 2 || len(view.Links) != 1 {
		t.Fatalf("Expected 2 nodes and 1 link, got %d and %d", len(view.Nodes), len(view.Links))
	}

	n0 := view.Nodes[0]
	if n0.Name != "cube0_cluster0" {
		t.Errorf("Expected node order by ID, got %s first", n0.Name)
	}
	if n0.Color != "#d62728" {
		t.Errorf("Expected annotated color, got %s", n0.Color)
	}
	if n0.Size != 2 {
		t.Errorf("Expected size 2 (member count), got %d", n0.Size)
	}
	if n0.X != 10 || n0.Y != 20 {
		t.Errorf("Expected position (10, 20), got (%g, %g)", n0.X, n0.Y)
	}
	if len(n0.Enriched) != 1 || n0.Enriched[0] != "GO:0009734" {
		t.Errorf("Expected enriched [GO:0009734], got %v", n0.Enriched)
	}
	if n0.Properties["gene_count"] != "5" {
		t.Errorf("Expected gene_count property '5', got %v", n0.Properties)
	}
	if _, lifted := n0.Properties["title"]; lifted {
		t.Error("Title should be lifted out of the property map")
	}

	// Unannotated nodes fall back to defaults
	n1 := view.Nodes[1]
	if n1.Color != enrichment.DefaultColor {
		t.Errorf("Expected default color, got %s", n1.Color)
	}
	if n1.Title != "cube1_cluster0" {
		t.Errorf("Expected name as fallback title, got %s", n1.Title)
	}

	if view.Links[0] != (LinkView{Source: 1, Target: 2}) {
		t.Errorf("Unexpected link: %+v", view.Links[0])
	}
}

func TestExport_JSONRoundTrip(t *testing.T) {
	g := setupAnnotatedGraph(t)
	view := Export(g, map[uint64]Position{})

	data, err := view.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var decoded ViewData
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(decoded.Nodes) != 2 {
		t.Errorf("Expected 2 nodes after round trip, got %d", len(decoded.Nodes))
	}
}

func TestRenderHTML(t *testing.T) {
	g := setupAnnotatedGraph(t)
	view := Export(g, map[uint64]Position{1: {X: 1, Y: 2}})

	var buf bytes.Buffer
	if err := RenderHTML(&buf, view, "Mapper enrichment"); err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "<title>Mapper enrichment</title>") {
		t.Error("Rendered page missing title")
	}
	if !strings.Contains(html, "cube0_cluster0") {
		t.Error("Rendered page missing embedded node data")
	}
	if !strings.Contains(html, "d3.forceSimulation") {
		t.Error("Rendered page missing the renderer script")
	}
}
