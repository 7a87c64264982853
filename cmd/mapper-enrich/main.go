// mapper-enrich loads a precomputed Mapper graph plus its biological
// metadata, annotates the nodes, applies a coloring query, and writes an
// interactive HTML page (and optionally the raw renderer JSON).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/config"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/logging"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/pipeline"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/visualization"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00"))
)

func main() {
	configFile := flag.String("config", "", "YAML config file (flags override)")
	graphFile := flag.String("graph", "", "Path to the Mapper graph JSON")
	orthoFile := flag.String("orthogroups", "", "Path to Orthogroups.tsv")
	metaFile := flag.String("metadata", "", "Path to node metadata CSV")
	enrichFile := flag.String("enrichment", "", "Path to enrichment results TSV")
	colorTerm := flag.String("color-term", "", "GO term to color by (enriched red, purified blue)")
	colorGene := flag.String("color-gene", "", "Gene to highlight")
	outFile := flag.String("out", "", "Output HTML file")
	jsonFile := flag.String("json", "", "Output renderer JSON file")
	title := flag.String("title", "", "Page title")
	layoutAlgo := flag.String("layout", "", "Layout algorithm: force or circular")
	seed := flag.Int64("seed", 0, "Layout random seed")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := buildConfig(*configFile, func(cfg *config.Config) {
		setIfNotEmpty(&cfg.Inputs.Graph, *graphFile)
		setIfNotEmpty(&cfg.Inputs.Orthogroups, *orthoFile)
		setIfNotEmpty(&cfg.Inputs.Metadata, *metaFile)
		setIfNotEmpty(&cfg.Inputs.Enrichment, *enrichFile)
		setIfNotEmpty(&cfg.Query.Term, *colorTerm)
		setIfNotEmpty(&cfg.Query.Gene, *colorGene)
		setIfNotEmpty(&cfg.Output.HTML, *outFile)
		setIfNotEmpty(&cfg.Output.JSON, *jsonFile)
		setIfNotEmpty(&cfg.Output.Title, *title)
		setIfNotEmpty(&cfg.Layout.Algorithm, *layoutAlgo)
		if *seed != 0 {
			cfg.Layout.Seed = *seed
		}
	})
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Inputs.Graph == "" {
		fmt.Println("Usage: mapper-enrich --graph mapper.json [--orthogroups Orthogroups.tsv]")
		fmt.Println("         [--metadata nodes.csv] [--enrichment enrichment.tsv]")
		fmt.Println("         [--color-term GO:0009734] [--out graph.html] [--json graph.json]")
		os.Exit(1)
	}

	structured := logging.NewDefaultLogger()
	structured.SetLevel(logging.ParseLevel(cfg.LogLevel))

	result, err := pipeline.New(cfg, structured, nil).Run()
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	view := visualization.Export(result.Graph, result.Positions)

	if cfg.Output.HTML != "" {
		if err := visualization.WriteHTMLFile(cfg.Output.HTML, view, cfg.Output.Title); err != nil {
			logger.Error("write html", "error", err)
			os.Exit(1)
		}
		logger.Info("html written", "path", cfg.Output.HTML)
	}

	if cfg.Output.JSON != "" {
		data, err := view.JSON()
		if err != nil {
			logger.Error("marshal view", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(cfg.Output.JSON, data, 0o644); err != nil {
			logger.Error("write json", "error", err)
			os.Exit(1)
		}
		logger.Info("json written", "path", cfg.Output.JSON)
	}

	printSummary(cfg, result)
}

// buildConfig loads the config file when given, then lets flags override.
func buildConfig(path string, applyFlags func(*config.Config)) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyFlags(cfg)
	if cfg.Inputs.Graph != "" {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// printSummary renders the run summary table to stdout.
func printSummary(cfg *config.Config, result *pipeline.Result) {
	stats := result.Graph.GetStatistics()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(cfg.Output.Title) + "\n\n")

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	row("Nodes", fmt.Sprintf("%d", stats.NodeCount))
	row("Links", fmt.Sprintf("%d", stats.LinkCount))
	if result.Table != nil {
		row("Orthogroups", fmt.Sprintf("%d", result.Table.Count()))
		row("Species", strings.Join(result.Table.Species(), ", "))
	}
	if result.Results != nil {
		row("Enrichment rows", fmt.Sprintf("%d", result.Results.Len()))
		row("GO terms", fmt.Sprintf("%d", len(result.Results.Terms())))
	}
	for name, count := range result.Coloring.Matches {
		row("Colored "+name, fmt.Sprintf("%d nodes", count))
	}
	row("Default color", fmt.Sprintf("%d nodes", result.Coloring.Default))

	if result.Summary.MembersDropped > 0 {
		sb.WriteString(warnStyle.Render(fmt.Sprintf("\n%d member indices were outside the orthogroup table", result.Summary.MembersDropped)) + "\n")
	}
	if result.Summary.EnrichmentUnmatched > 0 {
		sb.WriteString(warnStyle.Render(fmt.Sprintf("%d enrichment rows named unknown nodes", result.Summary.EnrichmentUnmatched)) + "\n")
	}

	fmt.Println(sb.String())
}
