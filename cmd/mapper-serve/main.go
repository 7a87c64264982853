// mapper-serve loads and annotates a Mapper graph, then serves it for
// interactive exploration: the rendered page at /, the renderer JSON at
// /api/graph, and ad-hoc recoloring at /api/color.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/api"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/config"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/logging"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/metrics"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/pipeline"
)

func main() {
	configFile := flag.String("config", "", "YAML config file (flags override)")
	graphFile := flag.String("graph", "", "Path to the Mapper graph JSON")
	orthoFile := flag.String("orthogroups", "", "Path to Orthogroups.tsv")
	metaFile := flag.String("metadata", "", "Path to node metadata CSV")
	enrichFile := flag.String("enrichment", "", "Path to enrichment results TSV")
	port := flag.Int("port", 0, "Listen port")
	title := flag.String("title", "", "Page title")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			logger.Error("invalid configuration", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *graphFile != "" {
		cfg.Inputs.Graph = *graphFile
	}
	if *orthoFile != "" {
		cfg.Inputs.Orthogroups = *orthoFile
	}
	if *metaFile != "" {
		cfg.Inputs.Metadata = *metaFile
	}
	if *enrichFile != "" {
		cfg.Inputs.Enrichment = *enrichFile
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *title != "" {
		cfg.Output.Title = *title
	}

	if cfg.Inputs.Graph == "" {
		fmt.Println("Usage: mapper-serve --graph mapper.json [--orthogroups Orthogroups.tsv]")
		fmt.Println("         [--metadata nodes.csv] [--enrichment enrichment.tsv] [--port 8080]")
		os.Exit(1)
	}

	structured := logging.NewDefaultLogger()
	structured.SetLevel(logging.ParseLevel(cfg.LogLevel))
	registry := metrics.NewRegistry()

	result, err := pipeline.New(cfg, structured, registry).Run()
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	stats := result.Graph.GetStatistics()
	logger.Info("graph ready",
		"nodes", stats.NodeCount,
		"links", stats.LinkCount,
		"port", cfg.Server.Port,
	)

	server := api.NewServer(result.Graph, api.Options{
		Results:   result.Results,
		Positions: result.Positions,
		PageTitle: cfg.Output.Title,
		Metrics:   registry,
		Logger:    structured,
		Port:      cfg.Server.Port,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
