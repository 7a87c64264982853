package enrichment

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/graph"
)

// Default palette. Matches the tab10 colors the upstream plots use.
const (
	DefaultColor  = "#cccccc"
	EnrichedColor = "#d62728"
	PurifiedColor = "#1f77b4"
	MatchColor    = "#2ca02c"
)

var (
	ErrInvalidColor = errors.New("color must be #rrggbb")

	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// ValidColor reports whether s is a #rrggbb color.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// ColorRule colors the nodes a predicate matches.
type ColorRule struct {
	Name  string
	Color string
	Match func(node *graph.Node) bool
}

// Query is an ordered list of coloring rules; the first matching rule wins.
// Nodes matching no rule get the default color.
type Query struct {
	Rules   []ColorRule
	Default string
}

// NewQuery creates a query with the default palette.
func NewQuery(rules ...ColorRule) *Query {
	return &Query{Rules: rules, Default: DefaultColor}
}

// Validate checks that every rule and the default carry a valid color.
func (q *Query) Validate() error {
	if !ValidColor(q.Default) {
		return fmt.Errorf("default %q: %w", q.Default, ErrInvalidColor)
	}
	for _, rule := range q.Rules {
		if !ValidColor(rule.Color) {
			return fmt.Errorf("rule %s: %q: %w", rule.Name, rule.Color, ErrInvalidColor)
		}
	}
	return nil
}

// ApplyResult reports how many nodes each rule colored.
type ApplyResult struct {
	Matches map[string]int // rule name -> node count
	Default int            // nodes that fell through to the default color
}

// Apply colors every node in the graph: the first matching rule's color is
// written to the node's "color" property, the default color otherwise.
func (q *Query) Apply(g *graph.Graph) (*ApplyResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	result := &ApplyResult{Matches: make(map[string]int)}
	for _, node := range g.Nodes() {
		color := q.Default
		matched := false
		for _, rule := range q.Rules {
			if rule.Match(node) {
				color = rule.Color
				result.Matches[rule.Name]++
				matched = true
				break
			}
		}
		if !matched {
			result.Default++
		}
		node.Properties["color"] = graph.StringValue(color)
	}

	return result, nil
}

// TermEnriched matches nodes where the given GO term is enriched.
func (r *Results) TermEnriched(termID, color string) ColorRule {
	return r.termRule("enriched:"+termID, termID, Enriched, color)
}

// TermPurified matches nodes where the given GO term is purified.
func (r *Results) TermPurified(termID, color string) ColorRule {
	return r.termRule("purified:"+termID, termID, Purified, color)
}

func (r *Results) termRule(name, termID string, direction Direction, color string) ColorRule {
	nodes := make(map[string]bool)
	for _, row := range r.byTerm[termID] {
		if row.Direction == direction {
			nodes[row.Node] = true
		}
	}
	return ColorRule{
		Name:  name,
		Color: color,
		Match: func(node *graph.Node) bool { return nodes[node.Name] },
	}
}

// TermAny builds the enriched/purified rule pair for one GO term.
func (r *Results) TermAny(termID, enrichedColor, purifiedColor string) []ColorRule {
	return []ColorRule{
		r.TermEnriched(termID, enrichedColor),
		r.TermPurified(termID, purifiedColor),
	}
}

// TermQuery builds the standard two-rule query for one GO term: enriched
// nodes red, purified nodes blue.
func (r *Results) TermQuery(termID string) *Query {
	return NewQuery(r.TermAny(termID, EnrichedColor, PurifiedColor)...)
}

// HasGene matches nodes whose annotated gene list contains the given gene.
// Requires the gene annotation pass to have run.
func HasGene(gene, color string) ColorRule {
	return ColorRule{
		Name:  "gene:" + gene,
		Color: color,
		Match: func(node *graph.Node) bool {
			genes, err := node.Properties["genes"].AsStringList()
			if err != nil {
				return false
			}
			return slices.Contains(genes, gene)
		},
	}
}

// HasOrthogroup matches nodes whose annotated orthogroup list contains the
// given orthogroup ID.
func HasOrthogroup(orthogroupID, color string) ColorRule {
	return ColorRule{
		Name:  "orthogroup:" + orthogroupID,
		Color: color,
		Match: func(node *graph.Node) bool {
			groups, err := node.Properties["orthogroups"].AsStringList()
			if err != nil {
				return false
			}
			return slices.Contains(groups, orthogroupID)
		},
	}
}

// SizeAtLeast matches nodes covering at least n orthogroups.
func SizeAtLeast(n int, color string) ColorRule {
	return ColorRule{
		Name:  fmt.Sprintf("size>=%d", n),
		Color: color,
		Match: func(node *graph.Node) bool { return len(node.Members) >= n },
	}
}
