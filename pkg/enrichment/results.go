// Package enrichment loads functional-enrichment results produced by the
// upstream statistics step and answers coloring queries over them. One
// result row records that a GO term is over- or under-represented among the
// genes of one Mapper node.
package enrichment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/logging"
)

var (
	ErrEmptyResults     = errors.New("enrichment file has no rows")
	ErrMissingColumn    = errors.New("enrichment file is missing a required column")
	ErrInvalidDirection = errors.New("invalid enrichment direction")
)

// Direction indicates over- or under-representation of a term.
type Direction int

const (
	// Enriched means the term is over-represented in the node's genes
	Enriched Direction = iota
	// Purified means the term is under-represented in the node's genes
	Purified
)

// String returns the lowercase name used in result files.
func (d Direction) String() string {
	if d == Purified {
		return "purified"
	}
	return "enriched"
}

// ParseDirection converts a file cell to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enriched", "over":
		return Enriched, nil
	case "purified", "under":
		return Purified, nil
	default:
		return Enriched, fmt.Errorf("%q: %w", s, ErrInvalidDirection)
	}
}

// Result is one enrichment row.
type Result struct {
	Node      string
	TermID    string
	TermName  string
	PValue    float64
	Direction Direction
}

// Results holds all rows indexed by node and by term.
type Results struct {
	rows   []Result
	byNode map[string][]Result
	byTerm map[string][]Result
}

// Load reads enrichment results from a TSV file.
func Load(path string, logger logging.Logger) (*Results, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open enrichment results: %w", err)
	}
	defer file.Close()

	results, err := Parse(file, logger)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return results, nil
}

// Parse reads enrichment results from a reader. The TSV needs node, go_id,
// go_name, p_value, and direction columns; extra columns are ignored.
func Parse(r io.Reader, logger logging.Logger) (*Results, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, ErrEmptyResults
	}

	colIndex := make(map[string]int)
	for i, col := range strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t") {
		colIndex[strings.TrimSpace(col)] = i
	}
	for _, required := range []string{"node", "go_id", "go_name", "p_value", "direction"} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("%q: %w", required, ErrMissingColumn)
		}
	}

	results := &Results{
		byNode: make(map[string][]Result),
		byTerm: make(map[string][]Result),
	}

	line := 1
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")

		pval, err := strconv.ParseFloat(getField(fields, colIndex, "p_value"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: p_value: %w", line, err)
		}
		direction, err := ParseDirection(getField(fields, colIndex, "direction"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		result := Result{
			Node:      getField(fields, colIndex, "node"),
			TermID:    getField(fields, colIndex, "go_id"),
			TermName:  getField(fields, colIndex, "go_name"),
			PValue:    pval,
			Direction: direction,
		}

		results.rows = append(results.rows, result)
		results.byNode[result.Node] = append(results.byNode[result.Node], result)
		results.byTerm[result.TermID] = append(results.byTerm[result.TermID], result)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	if len(results.rows) == 0 {
		return nil, ErrEmptyResults
	}

	logger.Info("enrichment results loaded",
		logging.Component("enrichment"),
		logging.Rows(len(results.rows)),
		logging.Int("nodes", len(results.byNode)),
		logging.Int("terms", len(results.byTerm)),
	)

	return results, nil
}

func getField(fields []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(fields) {
		return strings.TrimSpace(fields[idx])
	}
	return ""
}

// Len returns the number of result rows.
func (r *Results) Len() int {
	return len(r.rows)
}

// ForNode returns all results for the named node, most significant first.
func (r *Results) ForNode(node string) []Result {
	rows := append([]Result(nil), r.byNode[node]...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].PValue < rows[j].PValue })
	return rows
}

// ForTerm returns all results for the given GO term ID.
func (r *Results) ForTerm(termID string) []Result {
	return r.byTerm[termID]
}

// Terms returns all distinct term IDs in sorted order.
func (r *Results) Terms() []string {
	terms := make([]string, 0, len(r.byTerm))
	for t := range r.byTerm {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// Nodes returns all node names that have at least one result, sorted.
func (r *Results) Nodes() []string {
	nodes := make([]string, 0, len(r.byNode))
	for n := range r.byNode {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}
