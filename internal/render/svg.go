// Package render turns computed charts into SVG documents and dependency
// graphs into Graphviz output.
package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/timeline"
)

// SVG renders the chart to a complete SVG document.
func SVG(c timeline.Chart, style Style) []byte {
	var buf bytes.Buffer
	_ = WriteSVG(&buf, c, style)
	return buf.Bytes()
}

// WriteSVG writes the chart as an SVG document. The activity name column
// sits left of the time axis and the tick labels above it; bar and path
// coordinates from the chart are used unchanged inside a translated group.
func WriteSVG(w io.Writer, c timeline.Chart, style Style) error {
	var svg strings.Builder

	labelW := float64(style.Layout.LabelWidth)
	headerH := float64(style.Layout.HeaderHeight)
	width := labelW + c.Grid.TotalWidth
	height := headerH + c.Height()
	if c.Grid.IsEmpty() {
		width = labelW + 240
		height = headerH + 48
	}

	fmt.Fprintf(&svg, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.label { font-family: %s; font-size: %dpx; fill: %s; }
.owner { font-family: %s; font-size: %dpx; fill: %s; }
.tick { font-family: %s; font-size: %dpx; fill: %s; }
</style>
%s%s</defs>
`, num(width), num(height), style.Colors.Background,
		style.Font.Family, style.Font.Size, style.Colors.Text,
		style.Font.Family, style.Font.Size-2, style.Colors.Muted,
		style.Font.Family, style.Font.Size-1, style.Colors.Muted,
		arrowMarker("arrow", style.Colors.Arrow),
		arrowMarker("arrow-conflict", style.Colors.Conflict))

	if c.Grid.IsEmpty() {
		fmt.Fprintf(&svg, `<text class="label" x="%s" y="%s">No activities</text>
`, num(labelW), num(headerH+24))
		svg.WriteString("</svg>\n")
		_, err := io.WriteString(w, svg.String())
		return err
	}

	writeTicks(&svg, c, style, labelW, headerH)
	writeLabels(&svg, c, headerH)

	fmt.Fprintf(&svg, `<g transform="translate(%s,%s)">
`, num(labelW), num(headerH))
	for _, p := range c.Paths {
		writePath(&svg, p, style)
	}
	for _, b := range c.Bars {
		writeBar(&svg, b, style)
	}
	svg.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, svg.String())
	return err
}

func arrowMarker(id, color string) string {
	return fmt.Sprintf(`<marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">
<path d="M0,0 L10,5 L0,10 z" fill="%s"/>
</marker>
`, id, color)
}

func writeTicks(svg *strings.Builder, c timeline.Chart, style Style, labelW, headerH float64) {
	bottom := headerH + c.Height()
	for _, t := range c.Grid.Ticks {
		x := labelW + t.X
		fmt.Fprintf(svg, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>
`, num(x), num(headerH), num(x), num(bottom), style.Colors.GridLine)
		fmt.Fprintf(svg, `<text class="tick" x="%s" y="%s">%s</text>
`, num(x+4), num(headerH-10), escapeXML(t.Label))
	}
}

func writeLabels(svg *strings.Builder, c timeline.Chart, headerH float64) {
	for i, a := range c.Rows {
		y := headerH + c.Layout.RowCenter(i)
		fmt.Fprintf(svg, `<text class="label" x="8" y="%s">%s</text>
`, num(y), escapeXML(a.Name))
		if a.Owner != "" {
			fmt.Fprintf(svg, `<text class="owner" x="8" y="%s">%s</text>
`, num(y+12), escapeXML(a.Owner))
		}
	}
}

func writeBar(svg *strings.Builder, b timeline.Bar, style Style) {
	fill := barColor(b, style)
	title := escapeXML(b.Name)
	if b.Milestone {
		cx, cy := b.CenterX(), b.CenterY()
		r := b.Width / 2
		fmt.Fprintf(svg, `<polygon data-id="%s" points="%s,%s %s,%s %s,%s %s,%s" fill="%s"><title>%s</title></polygon>
`, escapeXML(b.ActivityID),
			num(cx), num(cy-r), // top
			num(cx+r), num(cy), // right
			num(cx), num(cy+r), // bottom
			num(cx-r), num(cy), // left
			fill, title)
		return
	}
	fmt.Fprintf(svg, `<rect data-id="%s" x="%s" y="%s" width="%s" height="%s" rx="%d" fill="%s"><title>%s</title></rect>
`, escapeXML(b.ActivityID), num(b.X), num(b.Y), num(b.Width), num(b.Height),
		style.Layout.BarRadius, fill, title)
}

func writePath(svg *strings.Builder, p timeline.Path, style Style) {
	color, marker := style.Colors.Arrow, "arrow"
	if p.Conflict {
		color, marker = style.Colors.Conflict, "arrow-conflict"
	}
	fmt.Fprintf(svg, `<path data-id="%s" d="%s" fill="none" stroke="%s" stroke-width="%d" marker-end="url(#%s)"/>
`, escapeXML(p.DependencyID), p.D(), color, style.Layout.ArrowWidth, marker)
}

func barColor(b timeline.Bar, style Style) string {
	if b.Conflict {
		return style.Colors.Conflict
	}
	switch b.Status {
	case domain.ActivityCompleted:
		return style.Colors.BarCompleted
	case domain.ActivityInProgress:
		return style.Colors.BarInProgress
	default:
		return style.Colors.Bar
	}
}

func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

// escapeXML escapes the five XML special characters.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
