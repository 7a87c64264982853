// Package ortho parses orthogroup-to-gene tables in the OrthoFinder
// Orthogroups.tsv shape: one row per orthogroup, one column per species,
// cells holding comma-separated gene lists. The row order defines the
// orthogroup index that Mapper node members refer to.
package ortho

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/logging"
)

var (
	ErrEmptyTable       = errors.New("orthogroup table is empty")
	ErrRaggedRow        = errors.New("row has wrong column count")
	ErrDuplicateGroup   = errors.New("duplicate orthogroup ID")
	ErrGroupOutOfRange  = errors.New("orthogroup index out of range")
	ErrUnknownGroupName = errors.New("unknown orthogroup ID")
)

// Orthogroup is one row of the table: an ID plus per-species gene lists,
// indexed the same as Species().
type Orthogroup struct {
	ID    string
	Genes [][]string
}

// Table is a parsed orthogroup table.
type Table struct {
	species []string
	groups  []Orthogroup
	byName  map[string]int
}

// LoadTable reads an orthogroup table from a TSV file.
func LoadTable(path string, logger logging.Logger) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open orthogroup table: %w", err)
	}
	defer file.Close()

	table, err := ParseTable(file, logger)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return table, nil
}

// ParseTable parses an orthogroup table from a reader.
func ParseTable(r io.Reader, logger logging.Logger) (*Table, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024) // gene lists can be long

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, ErrEmptyTable
	}

	header := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
	if len(header) < 2 {
		return nil, fmt.Errorf("header needs an orthogroup column and at least one species, got %d columns", len(header))
	}

	table := &Table{
		species: header[1:],
		byName:  make(map[string]int),
	}

	line := 1
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if text == "" {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) != len(header) {
			return nil, fmt.Errorf("line %d: got %d columns, want %d: %w", line, len(fields), len(header), ErrRaggedRow)
		}

		id := strings.TrimSpace(fields[0])
		if _, exists := table.byName[id]; exists {
			return nil, fmt.Errorf("line %d: %q: %w", line, id, ErrDuplicateGroup)
		}

		group := Orthogroup{
			ID:    id,
			Genes: make([][]string, len(table.species)),
		}
		for i, cell := range fields[1:] {
			group.Genes[i] = splitGenes(cell)
		}

		table.byName[id] = len(table.groups)
		table.groups = append(table.groups, group)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	if len(table.groups) == 0 {
		return nil, ErrEmptyTable
	}

	logger.Info("orthogroup table loaded",
		logging.Component("ortho"),
		logging.Int("orthogroups", len(table.groups)),
		logging.Int("species", len(table.species)),
	)

	return table, nil
}

// splitGenes splits a comma-separated gene cell; empty cells mean no genes.
func splitGenes(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return []string{}
	}

	parts := strings.Split(cell, ",")
	genes := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			genes = append(genes, g)
		}
	}
	return genes
}

// Species returns the species column names in table order.
func (t *Table) Species() []string {
	return t.species
}

// Count returns the number of orthogroups.
func (t *Table) Count() int {
	return len(t.groups)
}

// Group returns the orthogroup at the given row index.
func (t *Table) Group(i int) (*Orthogroup, error) {
	if i < 0 || i >= len(t.groups) {
		return nil, fmt.Errorf("index %d of %d: %w", i, len(t.groups), ErrGroupOutOfRange)
	}
	return &t.groups[i], nil
}

// GroupByName returns the orthogroup with the given ID.
func (t *Table) GroupByName(id string) (*Orthogroup, error) {
	i, ok := t.byName[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownGroupName)
	}
	return &t.groups[i], nil
}

// Genes returns all genes of the orthogroup at the given index, flattened
// across species in species order.
func (t *Table) Genes(i int) ([]string, error) {
	group, err := t.Group(i)
	if err != nil {
		return nil, err
	}

	var genes []string
	for _, speciesGenes := range group.Genes {
		genes = append(genes, speciesGenes...)
	}
	return genes, nil
}

// GenesBySpecies returns the orthogroup's genes keyed by species name.
func (t *Table) GenesBySpecies(i int) (map[string][]string, error) {
	group, err := t.Group(i)
	if err != nil {
		return nil, err
	}

	bySpecies := make(map[string][]string, len(t.species))
	for s, name := range t.species {
		bySpecies[name] = group.Genes[s]
	}
	return bySpecies, nil
}
