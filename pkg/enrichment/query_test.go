package enrichment

import (
	"errors"
	"testing"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/graph"
)

// setupQueryGraph builds a graph matching the node names in sampleResults
func setupQueryGraph(t *testing.T) *graph.Graph {
	t.Helper()

	g := graph.NewGraph()
	members := map[string][]int{
		"cube0_cluster0": {0, 1, 2},
		"cube1_cluster0": {1},
		"cube2_cluster0": {3, 4},
	}
	for _, name := range []string{"cube0_cluster0", "cube1_cluster0", "cube2_cluster0"} {
		if _, err := g.AddNode(name, members[name]); err != nil {
			t.Fatalf("AddNode failed: %v", err)
		}
	}
	return g
}

func nodeColor(t *testing.T, g *graph.Graph, name string) string {
	t.Helper()

	node, err := g.GetNodeByName(name)
	if err != nil {
		t.Fatalf("GetNodeByName(%q) failed: %v", name, err)
	}
	color, err := node.Properties["color"].AsString()
	if err != nil {
		t.Fatalf("Node %q has no color: %v", name, err)
	}
	return color
}

func TestTermQuery_Apply(t *testing.T) {
	results := parseSampleResults(t)
	g := setupQueryGraph(t)

	applied, err := results.TermQuery("GO:0006355").Apply(g)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if got := nodeColor(t, g, "cube0_cluster0"); got != EnrichedColor {
		t.Errorf("Expected enriched color, got %s", got)
	}
	if got := nodeColor(t, g, "cube1_cluster0"); got != PurifiedColor {
		t.Errorf("Expected purified color, got %s", got)
	}
	if got := nodeColor(t, g, "cube2_cluster0"); got != DefaultColor {
		t.Errorf("Expected default color, got %s", got)
	}

	if applied.Matches["enriched:GO:0006355"] != 1 {
		t.Errorf("Expected 1 enriched match, got %d", applied.Matches["enriched:GO:0006355"])
	}
	if applied.Default != 1 {
		t.Errorf("Expected 1 default node, got %d", applied.Default)
	}
}

func TestQuery_FirstMatchWins(t *testing.T) {
	g := setupQueryGraph(t)

	q := NewQuery(
		SizeAtLeast(1, "#111111"),
		SizeAtLeast(2, "#222222"),
	)
	if _, err := q.Apply(g); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// Every node has at least one member, so the second rule never fires
	if got := nodeColor(t, g, "cube0_cluster0"); got != "#111111" {
		t.Errorf("Expected first rule's color, got %s", got)
	}
}

func TestQuery_InvalidColor(t *testing.T) {
	g := setupQueryGraph(t)

	q := NewQuery(SizeAtLeast(1, "red"))
	_, err := q.Apply(g)
	if !errors.Is(err, ErrInvalidColor) {
		t.Errorf("Expected ErrInvalidColor, got %v", err)
	}
}

func TestHasGene(t *testing.T) {
	g := setupQueryGraph(t)
	node, _ := g.GetNodeByName("cube0_cluster0")
	node.Properties["genes"] = graph.StringListValue([]string{"AT1G01010", "AT1G01020"})

	q := NewQuery(HasGene("AT1G01020", MatchColor))
	if _, err := q.Apply(g); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if got := nodeColor(t, g, "cube0_cluster0"); got != MatchColor {
		t.Errorf("Expected match color, got %s", got)
	}
	// Unannotated nodes never match
	if got := nodeColor(t, g, "cube1_cluster0"); got != DefaultColor {
		t.Errorf("Expected default color, got %s", got)
	}
}

func TestHasOrthogroup(t *testing.T) {
	g := setupQueryGraph(t)
	node, _ := g.GetNodeByName("cube2_cluster0")
	node.Properties["orthogroups"] = graph.StringListValue([]string{"OG0000003", "OG0000004"})

	q := NewQuery(HasOrthogroup("OG0000004", MatchColor))
	if _, err := q.Apply(g); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if got := nodeColor(t, g, "cube2_cluster0"); got != MatchColor {
		t.Errorf("Expected match color, got %s", got)
	}
}

func TestSizeAtLeast(t *testing.T) {
	g := setupQueryGraph(t)

	q := NewQuery(SizeAtLeast(2, MatchColor))
	applied, err := q.Apply(g)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if applied.Matches["size>=2"] != 2 {
		t.Errorf("Expected 2 matches, got %d", applied.Matches["size>=2"])
	}
	if got := nodeColor(t, g, "cube1_cluster0"); got != DefaultColor {
		t.Errorf("Expected default color for single-member node, got %s", got)
	}
}

func TestValidColor(t *testing.T) {
	for input, want := range map[string]bool{
		"#d62728":  true,
		"#ABCDEF":  true,
		"d62728":   false,
		"#d6272":   false,
		"#d627289": false,
		"red":      false,
	} {
		if got := ValidColor(input); got != want {
			t.Errorf("ValidColor(%q) = %v, want %v", input, got, want)
		}
	}
}
