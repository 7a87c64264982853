package visualization

import (
	"fmt"
	"html/template"
	"io"
	"os"
)

// RenderHTML writes a self-contained interactive page: the payload is
// embedded as JSON and a d3 force simulation handles drag, pan, zoom, and
// tooltips. No server is needed to open the file.
func RenderHTML(w io.Writer, view *ViewData, pageTitle string) error {
	payload, err := view.JSON()
	if err != nil {
		return fmt.Errorf("marshal view data: %w", err)
	}

	return pageTemplate.Execute(w, pageData{
		Title:   pageTitle,
		Payload: template.JS(payload),
	})
}

// WriteHTMLFile renders the page to a file.
func WriteHTMLFile(path string, view *ViewData, pageTitle string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := RenderHTML(file, view, pageTitle); err != nil {
		return err
	}
	return file.Close()
}

type pageData struct {
	Title   string
	Payload template.JS
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://cdn.jsdelivr.net/npm/d3@7"></script>
<style>
  body { margin: 0; font-family: sans-serif; }
  #tooltip {
    position: absolute; pointer-events: none; visibility: hidden;
    background: rgba(0,0,0,0.8); color: #fff; padding: 6px 8px;
    border-radius: 4px; font-size: 12px; max-width: 360px;
  }
  svg { width: 100vw; height: 100vh; display: block; }
</style>
</head>
<body>
<div id="tooltip"></div>
<svg></svg>
<script>
const data = {{.Payload}};

const svg = d3.select("svg");
const width = window.innerWidth, height = window.innerHeight;
const container = svg.append("g");

svg.call(d3.zoom().scaleExtent([0.1, 8]).on("zoom", e => container.attr("transform", e.transform)));

const sizeScale = d3.scaleSqrt()
  .domain([1, d3.max(data.nodes, d => d.size) || 1])
  .range([4, 18]);

const simulation = d3.forceSimulation(data.nodes)
  .force("link", d3.forceLink(data.links).id(d => d.id).distance(40))
  .force("charge", d3.forceManyBody().strength(-80))
  .force("center", d3.forceCenter(width / 2, height / 2));

const link = container.append("g")
  .selectAll("line").data(data.links).join("line")
  .attr("stroke", "#999").attr("stroke-opacity", 0.6);

const tooltip = d3.select("#tooltip");

const node = container.append("g")
  .selectAll("circle").data(data.nodes).join("circle")
  .attr("r", d => sizeScale(d.size))
  .attr("fill", d => d.color)
  .attr("stroke", "#333").attr("stroke-width", 0.8)
  .call(d3.drag()
    .on("start", (e, d) => { if (!e.active) simulation.alphaTarget(0.3).restart(); d.fx = d.x; d.fy = d.y; })
    .on("drag", (e, d) => { d.fx = e.x; d.fy = e.y; })
    .on("end", (e, d) => { if (!e.active) simulation.alphaTarget(0); d.fx = null; d.fy = null; }))
  .on("mouseover", (e, d) => {
    let html = "<b>" + d.title + "</b>";
    if (d.enriched && d.enriched.length) html += "<br>enriched: " + d.enriched.join(", ");
    if (d.purified && d.purified.length) html += "<br>purified: " + d.purified.join(", ");
    tooltip.html(html).style("visibility", "visible");
  })
  .on("mousemove", e => tooltip.style("top", (e.pageY + 12) + "px").style("left", (e.pageX + 12) + "px"))
  .on("mouseout", () => tooltip.style("visibility", "hidden"));

simulation.on("tick", () => {
  link.attr("x1", d => d.source.x).attr("y1", d => d.source.y)
      .attr("x2", d => d.target.x).attr("y2", d => d.target.y);
  node.attr("cx", d => d.x).attr("cy", d => d.y);
});
</script>
</body>
</html>
`))
