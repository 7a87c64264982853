// Package pipeline runs the full load, annotate, color, layout sequence the
// CLIs share: Mapper graph in, annotated and positioned graph out.
package pipeline

import (
	"fmt"
	"time"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/annotate"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/config"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/enrichment"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/graph"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/kmapper"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/logging"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/metrics"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/ortho"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/visualization"
)

// Result is everything the pipeline produced.
type Result struct {
	Graph     *graph.Graph
	Table     *ortho.Table
	Results   *enrichment.Results
	Positions map[uint64]visualization.Position
	Summary   *annotate.Summary
	Coloring  *enrichment.ApplyResult
}

// Pipeline loads and annotates per config.
type Pipeline struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
}

// New creates a pipeline. Logger and metrics may be nil.
func New(cfg *config.Config, logger logging.Logger, reg *metrics.Registry) *Pipeline {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Pipeline{cfg: cfg, logger: logger, metrics: reg}
}

// Run executes the pipeline.
func (p *Pipeline) Run() (*Result, error) {
	result := &Result{}

	loader := kmapper.NewLoader(p.logger)

	start := time.Now()
	g, err := loader.Load(p.cfg.Inputs.Graph)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	p.metrics.RecordLoad("graph", time.Since(start))
	result.Graph = g

	stats := g.GetStatistics()
	p.metrics.SetGraphSize(stats.NodeCount, stats.LinkCount)

	if p.cfg.Inputs.Metadata != "" {
		start = time.Now()
		if _, err := loader.LoadNodeMetadata(p.cfg.Inputs.Metadata, g); err != nil {
			return nil, fmt.Errorf("load metadata: %w", err)
		}
		p.metrics.RecordLoad("metadata", time.Since(start))
	}

	if p.cfg.Inputs.Orthogroups != "" {
		start = time.Now()
		result.Table, err = ortho.LoadTable(p.cfg.Inputs.Orthogroups, p.logger)
		if err != nil {
			return nil, fmt.Errorf("load orthogroups: %w", err)
		}
		p.metrics.RecordLoad("orthogroups", time.Since(start))
	}

	if p.cfg.Inputs.Enrichment != "" {
		start = time.Now()
		result.Results, err = enrichment.Load(p.cfg.Inputs.Enrichment, p.logger)
		if err != nil {
			return nil, fmt.Errorf("load enrichment: %w", err)
		}
		p.metrics.RecordLoad("enrichment", time.Since(start))
	}

	result.Summary, err = annotate.New(g, result.Table, result.Results, p.logger).Apply()
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}

	query, err := p.initialQuery(result.Results)
	if err != nil {
		return nil, err
	}
	result.Coloring, err = query.Apply(g)
	if err != nil {
		return nil, fmt.Errorf("apply coloring: %w", err)
	}

	layout, err := p.layout()
	if err != nil {
		return nil, err
	}
	result.Positions, err = layout.ComputeLayout(g)
	if err != nil {
		return nil, fmt.Errorf("compute layout: %w", err)
	}

	return result, nil
}

// initialQuery builds the coloring query named in the config. With no query
// configured every node gets the default color.
func (p *Pipeline) initialQuery(results *enrichment.Results) (*enrichment.Query, error) {
	q := p.cfg.Query

	query := enrichment.NewQuery()
	if q.Default != "" {
		query.Default = q.Default
	}

	switch {
	case q.Term != "":
		if results == nil {
			return nil, fmt.Errorf("query.term needs inputs.enrichment")
		}
		query.Rules = append(query.Rules,
			results.TermAny(q.Term, enrichment.EnrichedColor, enrichment.PurifiedColor)...)
		p.metrics.RecordColorQuery("term")
	case q.Gene != "":
		query.Rules = append(query.Rules, enrichment.HasGene(q.Gene, enrichment.MatchColor))
		p.metrics.RecordColorQuery("gene")
	case q.Orthogroup != "":
		query.Rules = append(query.Rules, enrichment.HasOrthogroup(q.Orthogroup, enrichment.MatchColor))
		p.metrics.RecordColorQuery("orthogroup")
	}

	return query, nil
}

func (p *Pipeline) layout() (visualization.Layout, error) {
	layoutCfg := &visualization.LayoutConfig{
		Width:      p.cfg.Layout.Width,
		Height:     p.cfg.Layout.Height,
		Iterations: p.cfg.Layout.Iterations,
		Seed:       p.cfg.Layout.Seed,
	}

	switch p.cfg.Layout.Algorithm {
	case "", "force":
		return visualization.NewForceDirectedLayout(layoutCfg), nil
	case "circular":
		return visualization.NewCircularLayout(layoutCfg), nil
	default:
		return nil, fmt.Errorf("unknown layout algorithm %q", p.cfg.Layout.Algorithm)
	}
}
