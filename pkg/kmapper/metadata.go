package kmapper

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/graph"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/logging"
)

var ErrNoNodeColumn = errors.New("metadata is missing a node column")

// MetadataSummary reports the outcome of a metadata load.
type MetadataSummary struct {
	RowsApplied int
	RowsUnknown int
	Columns     []string
}

// LoadNodeMetadata reads per-node metadata from a CSV file and applies it
// as node properties.
func (l *Loader) LoadNodeMetadata(path string, g *graph.Graph) (*MetadataSummary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open node metadata: %w", err)
	}
	defer file.Close()

	summary, err := l.ParseNodeMetadata(file, g)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return summary, nil
}

// ParseNodeMetadata applies CSV metadata to graph nodes. The CSV must have a
// "node" column naming the Mapper node; every other column becomes a node
// property, numeric cells as floats and everything else as strings. Rows
// naming unknown nodes are counted and skipped.
func (l *Loader) ParseNodeMetadata(r io.Reader, g *graph.Graph) (*MetadataSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}
	nodeCol, ok := colIndex["node"]
	if !ok {
		return nil, ErrNoNodeColumn
	}

	summary := &MetadataSummary{}
	for _, col := range header {
		if strings.TrimSpace(col) != "node" {
			summary.Columns = append(summary.Columns, strings.TrimSpace(col))
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if nodeCol >= len(record) {
			continue
		}

		name := strings.TrimSpace(record[nodeCol])
		node, err := g.GetNodeByName(name)
		if err != nil {
			summary.RowsUnknown++
			l.logger.Warn("metadata row for unknown node", logging.NodeName(name))
			continue
		}

		for i, col := range header {
			key := strings.TrimSpace(col)
			if key == "node" || i >= len(record) {
				continue
			}
			node.Properties[key] = cellValue(strings.TrimSpace(record[i]))
		}
		summary.RowsApplied++
	}

	l.logger.Info("node metadata applied",
		logging.Rows(summary.RowsApplied),
		logging.Int("rows_unknown", summary.RowsUnknown),
	)

	return summary, nil
}

// cellValue types a CSV cell: numeric cells become floats, the rest strings.
func cellValue(s string) graph.Value {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return graph.FloatValue(f)
	}
	return graph.StringValue(s)
}
