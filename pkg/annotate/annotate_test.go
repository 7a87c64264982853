package annotate

import (
	"strings"
	"testing"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/enrichment"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/graph"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/ortho"
)

const testTable = "Orthogroup\tArabidopsis\tZea_mays\n" +
	"OG0000000\tAT1G01010, AT1G01020\tZm00001d027230\n" +
	"OG0000001\tAT2G17950\t\n" +
	"OG0000002\t\tZm00001d027231\n"

const testResults = "node\tgo_id\tgo_name\tp_value\tdirection\n" +
	"n0\tGO:0009734\tauxin-activated signaling pathway\t0.0001\tenriched\n" +
	"n0\tGO:0006355\tregulation of transcription\t0.01\tpurified\n" +
	"ghost\tGO:0015979\tphotosynthesis\t0.002\tenriched\n"

// setupAnnotator builds a two-node graph over the three-orthogroup table
func setupAnnotator(t *testing.T) *Annotator {
	t.Helper()

	g := graph.NewGraph()
	if _, err := g.AddNode("n0", []int{0, 1}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if _, err := g.AddNode("n1", []int{2, 7}); err != nil { // 7 is outside the table
		t.Fatalf("AddNode failed: %v", err)
	}

	table, err := ortho.ParseTable(strings.NewReader(testTable), nil)
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	results, err := enrichment.Parse(strings.NewReader(testResults), nil)
	if err != nil {
		t.Fatalf("Parse results failed: %v", err)
	}

	return New(g, table, results, nil)
}

func stringList(t *testing.T, node *graph.Node, key string) []string {
	t.Helper()

	list, err := node.Properties[key].AsStringList()
	if err != nil {
		t.Fatalf("Property %q: %v", key, err)
	}
	return list
}

func TestApply_Orthogroups(t *testing.T) {
	a := setupAnnotator(t)

	summary, err := a.Apply()
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	n0, _ := a.Graph.GetNodeByName("n0")
	groups := stringList(t, n0, "orthogroups")
	if len(groups) != 2 || groups[0] != "OG0000000" || groups[1] != "OG0000001" {
		t.Errorf("Expected [OG0000000 OG0000001], got %v", groups)
	}

	// n1's member 7 is outside the table: dropped, not fatal
	n1, _ := a.Graph.GetNodeByName("n1")
	if groups := stringList(t, n1, "orthogroups"); len(groups) != 1 || groups[0] != "OG0000002" {
		t.Errorf("Expected [OG0000002], got %v", groups)
	}
	if summary.MembersDropped != 1 {
		t.Errorf("Expected 1 dropped member, got %d", summary.MembersDropped)
	}
}

func TestApply_Genes(t *testing.T) {
	a := setupAnnotator(t)

	if _, err := a.Apply(); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	n0, _ := a.Graph.GetNodeByName("n0")
	arabidopsis := stringList(t, n0, "genes:Arabidopsis")
	if len(arabidopsis) != 3 {
		t.Errorf("Expected 3 Arabidopsis genes, got %v", arabidopsis)
	}
	maize := stringList(t, n0, "genes:Zea_mays")
	if len(maize) != 1 || maize[0] != "Zm00001d027230" {
		t.Errorf("Expected [Zm00001d027230], got %v", maize)
	}

	count, err := n0.Properties["gene_count"].AsInt()
	if err != nil || count != 4 {
		t.Errorf("Expected gene_count 4, got %d (err %v)", count, err)
	}

	all := stringList(t, n0, "genes")
	if len(all) != 4 {
		t.Errorf("Expected 4 combined genes, got %v", all)
	}
}

func TestApply_Enrichment(t *testing.T) {
	a := setupAnnotator(t)

	summary, err := a.Apply()
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	n0, _ := a.Graph.GetNodeByName("n0")
	enriched := stringList(t, n0, "enriched")
	if len(enriched) != 1 || enriched[0] != "GO:0009734" {
		t.Errorf("Expected [GO:0009734], got %v", enriched)
	}
	purified := stringList(t, n0, "purified")
	if len(purified) != 1 || purified[0] != "GO:0006355" {
		t.Errorf("Expected [GO:0006355], got %v", purified)
	}

	// Nodes without results still get (empty) term lists
	n1, _ := a.Graph.GetNodeByName("n1")
	if enriched := stringList(t, n1, "enriched"); len(enriched) != 0 {
		t.Errorf("Expected no enriched terms, got %v", enriched)
	}

	if summary.EnrichmentMatched != 2 {
		t.Errorf("Expected 2 matched rows, got %d", summary.EnrichmentMatched)
	}
	if summary.EnrichmentUnmatched != 1 {
		t.Errorf("Expected 1 unmatched row (ghost), got %d", summary.EnrichmentUnmatched)
	}
}

func TestApply_Titles(t *testing.T) {
	a := setupAnnotator(t)

	summary, err := a.Apply()
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if summary.NodesAnnotated != 2 {
		t.Errorf("Expected 2 annotated nodes, got %d", summary.NodesAnnotated)
	}

	n0, _ := a.Graph.GetNodeByName("n0")
	title, err := n0.Properties["title"].AsString()
	if err != nil {
		t.Fatalf("Title missing: %v", err)
	}
	if !strings.Contains(title, "n0: 2 orthogroups") {
		t.Errorf("Title missing member count: %q", title)
	}
	if !strings.Contains(title, "4 genes") {
		t.Errorf("Title missing gene count: %q", title)
	}
	if !strings.Contains(title, "auxin-activated signaling pathway") {
		t.Errorf("Title missing top enriched term: %q", title)
	}
}

func TestApply_Titles_PurifiedTermMoreSignificant(t *testing.T) {
	g := graph.NewGraph()
	if _, err := g.AddNode("n0", []int{0}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	// The most significant term is purified; the title still names the
	// top enriched term
	rows := "node\tgo_id\tgo_name\tp_value\tdirection\n" +
		"n0\tGO:0006355\tregulation of transcription\t0.0001\tpurified\n" +
		"n0\tGO:0009734\tauxin-activated signaling pathway\t0.01\tenriched\n"
	results, err := enrichment.Parse(strings.NewReader(rows), nil)
	if err != nil {
		t.Fatalf("Parse results failed: %v", err)
	}

	if _, err := New(g, nil, results, nil).Apply(); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	n0, _ := g.GetNodeByName("n0")
	title, err := n0.Properties["title"].AsString()
	if err != nil {
		t.Fatalf("Title missing: %v", err)
	}
	if !strings.Contains(title, "top: auxin-activated signaling pathway (GO:0009734)") {
		t.Errorf("Title missing top enriched term: %q", title)
	}
}

func TestApply_WithoutTableOrResults(t *testing.T) {
	g := graph.NewGraph()
	if _, err := g.AddNode("n0", []int{0}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	summary, err := New(g, nil, nil, nil).Apply()
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if summary.NodesAnnotated != 1 {
		t.Errorf("Expected 1 annotated node, got %d", summary.NodesAnnotated)
	}

	n0, _ := g.GetNodeByName("n0")
	if _, ok := n0.Properties["orthogroups"]; ok {
		t.Error("Orthogroup pass should be skipped without a table")
	}
	if _, ok := n0.Properties["title"]; !ok {
		t.Error("Title pass should always run")
	}
}
