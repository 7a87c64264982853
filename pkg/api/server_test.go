package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/annotate"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/enrichment"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/graph"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/ortho"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/visualization"
)

const testTable = "Orthogroup\tArabidopsis\tZea_mays\n" +
	"OG0000000\tAT1G01010, AT1G01020\tZm00001d027230\n" +
	"OG0000001\tAT2G17950\t\n"

const testResults = "node\tgo_id\tgo_name\tp_value\tdirection\n" +
	"cube0_cluster0\tGO:0009734\tauxin-activated signaling pathway\t0.0001\tenriched\n" +
	"cube1_cluster0\tGO:0009734\tauxin-activated signaling pathway\t0.02\tpurified\n"

// startTestServer builds a small annotated graph and wraps it in a test server
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	g := graph.NewGraph()
	_, err := g.AddNode("cube0_cluster0", []int{0})
	require.NoError(t, err)
	_, err = g.AddNode("cube1_cluster0", []int{1})
	require.NoError(t, err)
	require.NoError(t, g.AddLink(1, 2))

	table, err := ortho.ParseTable(strings.NewReader(testTable), nil)
	require.NoError(t, err)
	results, err := enrichment.Parse(strings.NewReader(testResults), nil)
	require.NoError(t, err)

	_, err = annotate.New(g, table, results, nil).Apply()
	require.NoError(t, err)

	positions, err := visualization.NewCircularLayout(&visualization.LayoutConfig{Width: 800, Height: 600}).ComputeLayout(g)
	require.NoError(t, err)

	server := httptest.NewServer(NewServer(g, Options{
		Results:   results,
		Positions: positions,
		PageTitle: "test graph",
	}).Handler())
	t.Cleanup(server.Close)

	return server
}

func TestHandleIndex(t *testing.T) {
	server := startTestServer(t)

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestHandleGraph(t *testing.T) {
	server := startTestServer(t)

	resp, err := http.Get(server.URL + "/api/graph")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view visualization.ViewData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))

	assert.Len(t, view.Nodes, 2)
	assert.Len(t, view.Links, 1)
	assert.Equal(t, "cube0_cluster0", view.Nodes[0].Name)
	assert.Equal(t, []string{"GO:0009734"}, view.Nodes[0].Enriched)
}

func TestHandleColor_TermQuery(t *testing.T) {
	server := startTestServer(t)

	body := `{"rules": [{"kind": "term", "term": "GO:0009734"}]}`
	resp, err := http.Post(server.URL+"/api/color", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var colorResp ColorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&colorResp))

	assert.NotEmpty(t, colorResp.QueryID)
	assert.Equal(t, 1, colorResp.Matches["enriched:GO:0009734"])
	assert.Equal(t, 1, colorResp.Matches["purified:GO:0009734"])
	assert.Equal(t, 0, colorResp.Default)

	// The recoloring must be visible in subsequent graph fetches
	resp2, err := http.Get(server.URL + "/api/graph")
	require.NoError(t, err)
	defer resp2.Body.Close()

	var view visualization.ViewData
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&view))
	assert.Equal(t, enrichment.EnrichedColor, view.Nodes[0].Color)
	assert.Equal(t, enrichment.PurifiedColor, view.Nodes[1].Color)
}

func TestHandleColor_GeneQuery(t *testing.T) {
	server := startTestServer(t)

	body := `{"rules": [{"kind": "gene", "gene": "AT2G17950", "color": "#ff00ff"}]}`
	resp, err := http.Post(server.URL+"/api/color", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var colorResp ColorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&colorResp))
	assert.Equal(t, 1, colorResp.Matches["gene:AT2G17950"])
	assert.Equal(t, 1, colorResp.Default)
}

func TestHandleColor_InvalidRequests(t *testing.T) {
	server := startTestServer(t)

	cases := map[string]string{
		"empty body":    `{}`,
		"bad kind":      `{"rules": [{"kind": "species"}]}`,
		"missing term":  `{"rules": [{"kind": "term"}]}`,
		"bad color":     `{"rules": [{"kind": "gene", "gene": "x", "color": "magenta"}]}`,
		"not even json": `{{{`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/api/color", "application/json", bytes.NewBufferString(body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHandleColor_MethodNotAllowed(t *testing.T) {
	server := startTestServer(t)

	resp, err := http.Get(server.URL + "/api/color")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandleTerms(t *testing.T) {
	server := startTestServer(t)

	resp, err := http.Get(server.URL + "/api/terms")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, []string{"GO:0009734"}, payload["terms"])
}

func TestHandleHealth(t *testing.T) {
	server := startTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 2, health.Nodes)
	assert.Equal(t, 1, health.Links)
	assert.Equal(t, 1, health.Terms)
}

func TestHandleMetrics(t *testing.T) {
	server := startTestServer(t)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "mapper_graph_nodes_total 2")
}
