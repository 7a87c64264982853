// Package annotate joins the loaded inputs onto the Mapper graph: member
// indices become orthogroup IDs, orthogroups bring per-species gene lists,
// enrichment rows become per-node term lists, and every node gets a display
// title.
package annotate

import (
	"fmt"
	"strings"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/enrichment"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/graph"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/logging"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/ortho"
)

// Annotator runs annotation passes over a graph. Table and Results may be
// nil; passes needing a missing input are skipped.
type Annotator struct {
	Graph   *graph.Graph
	Table   *ortho.Table
	Results *enrichment.Results

	logger logging.Logger
}

// Summary reports what an annotation run did.
type Summary struct {
	NodesAnnotated      int
	MembersDropped      int // member indices outside the orthogroup table
	EnrichmentMatched   int // enrichment rows whose node exists in the graph
	EnrichmentUnmatched int
}

// New creates an annotator. A nil logger disables logging.
func New(g *graph.Graph, table *ortho.Table, results *enrichment.Results, logger logging.Logger) *Annotator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Annotator{
		Graph:   g,
		Table:   table,
		Results: results,
		logger:  logger.With(logging.Component("annotate")),
	}
}

// Apply runs all annotation passes in order.
func (a *Annotator) Apply() (*Summary, error) {
	summary := &Summary{}

	if a.Table != nil {
		if err := a.AnnotateOrthogroups(summary); err != nil {
			return nil, err
		}
		if err := a.AnnotateGenes(summary); err != nil {
			return nil, err
		}
	}
	if a.Results != nil {
		a.AnnotateEnrichment(summary)
	}
	a.AnnotateTitles(summary)

	a.logger.Info("annotation complete",
		logging.Int("nodes", summary.NodesAnnotated),
		logging.Int("members_dropped", summary.MembersDropped),
		logging.Int("enrichment_matched", summary.EnrichmentMatched),
		logging.Int("enrichment_unmatched", summary.EnrichmentUnmatched),
	)

	return summary, nil
}

// AnnotateOrthogroups sets the "orthogroups" property from node members.
// Members outside the table are dropped and counted, never fatal.
func (a *Annotator) AnnotateOrthogroups(summary *Summary) error {
	for _, node := range a.Graph.Nodes() {
		ids := make([]string, 0, len(node.Members))
		for _, m := range node.Members {
			group, err := a.Table.Group(m)
			if err != nil {
				summary.MembersDropped++
				a.logger.Warn("member index outside orthogroup table",
					logging.NodeName(node.Name),
					logging.Int("member", m),
				)
				continue
			}
			ids = append(ids, group.ID)
		}
		node.Properties["orthogroups"] = graph.StringListValue(ids)
	}
	return nil
}

// AnnotateGenes sets per-species gene lists ("genes:<species>"), the
// combined "genes" list, and "gene_count". Runs on valid members only.
func (a *Annotator) AnnotateGenes(summary *Summary) error {
	species := a.Table.Species()

	for _, node := range a.Graph.Nodes() {
		perSpecies := make(map[string][]string, len(species))
		var all []string

		for _, m := range node.Members {
			bySpecies, err := a.Table.GenesBySpecies(m)
			if err != nil {
				continue // counted by AnnotateOrthogroups
			}
			for _, s := range species {
				perSpecies[s] = append(perSpecies[s], bySpecies[s]...)
				all = append(all, bySpecies[s]...)
			}
		}

		for _, s := range species {
			node.Properties["genes:"+s] = graph.StringListValue(perSpecies[s])
		}
		node.Properties["genes"] = graph.StringListValue(all)
		node.Properties["gene_count"] = graph.IntValue(int64(len(all)))
	}
	return nil
}

// AnnotateEnrichment sets the "enriched" and "purified" term-ID lists on
// every node, most significant term first. Rows naming nodes that are not
// in the graph are counted as unmatched.
func (a *Annotator) AnnotateEnrichment(summary *Summary) {
	known := make(map[string]bool)
	for _, node := range a.Graph.Nodes() {
		var enriched, purified []string
		for _, row := range a.Results.ForNode(node.Name) {
			if row.Direction == enrichment.Enriched {
				enriched = append(enriched, row.TermID)
			} else {
				purified = append(purified, row.TermID)
			}
			summary.EnrichmentMatched++
		}
		node.Properties["enriched"] = graph.StringListValue(enriched)
		node.Properties["purified"] = graph.StringListValue(purified)
		known[node.Name] = true
	}

	for _, name := range a.Results.Nodes() {
		if !known[name] {
			rows := len(a.Results.ForNode(name))
			summary.EnrichmentUnmatched += rows
			a.logger.Warn("enrichment rows for unknown node",
				logging.NodeName(name),
				logging.Rows(rows),
			)
		}
	}
}

// AnnotateTitles sets the "title" property: node name, member and gene
// counts, and the top enriched term when one exists.
func (a *Annotator) AnnotateTitles(summary *Summary) {
	for _, node := range a.Graph.Nodes() {
		parts := []string{fmt.Sprintf("%s: %d orthogroups", node.Name, len(node.Members))}

		if count, err := node.Properties["gene_count"].AsInt(); err == nil {
			parts = append(parts, fmt.Sprintf("%d genes", count))
		}
		if a.Results != nil {
			for _, row := range a.Results.ForNode(node.Name) {
				if row.Direction == enrichment.Enriched {
					parts = append(parts, fmt.Sprintf("top: %s (%s)", row.TermName, row.TermID))
					break
				}
			}
		}

		node.Properties["title"] = graph.StringValue(strings.Join(parts, ", "))
		summary.NodesAnnotated++
	}
}
