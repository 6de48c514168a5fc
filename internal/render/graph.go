package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/timeline"
)

// GraphFormat is an output format for RenderGraph.
type GraphFormat string

const (
	FormatDOT GraphFormat = "dot"
	FormatSVG GraphFormat = "svg"
	FormatPNG GraphFormat = "png"
)

// ParseGraphFormat validates a format name.
func ParseGraphFormat(s string) (GraphFormat, error) {
	switch f := GraphFormat(strings.ToLower(s)); f {
	case FormatDOT, FormatSVG, FormatPNG:
		return f, nil
	}
	return "", fmt.Errorf("unknown graph format %q (expected dot, svg or png)", s)
}

// ToDOT converts the chart's activities and dependencies to a left-to-right
// Graphviz digraph. Nodes follow chart row order; edges are labelled with
// their type and violated edges are drawn red. Inert dependencies are left
// out.
func ToDOT(c timeline.Chart) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for _, a := range c.Rows {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(a))}
		if a.IsSingleDay() {
			attrs = append(attrs, "shape=diamond", "style=filled")
		}
		if a.Status == domain.ActivityCompleted {
			attrs = append(attrs, "fillcolor=\"#d1fae5\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", a.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, s := range c.Statuses {
		if s.Inert {
			continue
		}
		d := s.Dependency
		attrs := []string{fmt.Sprintf("label=%q", string(d.Type))}
		if s.Conflict {
			attrs = append(attrs, "color=red", "fontcolor=red", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", d.SourceID, d.TargetID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(a domain.Activity) string {
	dates := domain.FormatDay(a.StartDate)
	if !a.IsSingleDay() {
		dates += " to " + domain.FormatDay(a.EffectiveEnd())
	}
	return a.Name + "\n" + dates
}

// RenderGraph renders DOT source in the given format. FormatDOT returns the
// source unchanged.
func RenderGraph(ctx context.Context, dot string, format GraphFormat) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, fmt.Errorf("unknown graph format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
