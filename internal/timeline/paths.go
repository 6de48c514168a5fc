package timeline

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
)

// Point is a canvas coordinate.
type Point struct {
	X float64
	Y float64
}

// Path is the routed, orthogonal connector for one dependency.
type Path struct {
	DependencyID string
	SourceID     string
	TargetID     string
	Type         domain.DependencyType
	Points       []Point
	Conflict     bool
	// Backward is set when the target anchor lies left of the source anchor
	// and the path detours through the gutter between rows.
	Backward bool
}

// D renders the path as an SVG path data string.
func (p Path) D() string {
	var b strings.Builder
	for i, pt := range p.Points {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(fmtCoord(pt.X))
		b.WriteString(",")
		b.WriteString(fmtCoord(pt.Y))
	}
	return b.String()
}

// SourceUsesEnd reports whether the dependency leaves from the source's end
// edge (FS, FF) rather than its start edge (SS, SF).
func SourceUsesEnd(t domain.DependencyType) bool {
	return t == domain.FinishToStart || t == domain.FinishToFinish
}

// TargetUsesEnd reports whether the dependency arrives at the target's end
// edge (FF, SF) rather than its start edge (FS, SS).
func TargetUsesEnd(t domain.DependencyType) bool {
	return t == domain.FinishToFinish || t == domain.StartToFinish
}

// PlanPaths routes every non-inert dependency between its anchors. Rows must
// be in the order they are drawn; dependencies whose endpoints are not in
// rows produce no path.
func PlanPaths(g Grid, rows []domain.Activity, statuses []scheduler.DependencyStatus, l Layout) []Path {
	if g.IsEmpty() {
		return nil
	}
	rowOf := make(map[string]int, len(rows))
	for i, a := range rows {
		rowOf[a.ID] = i
	}

	var paths []Path
	for _, s := range statuses {
		if s.Inert || !s.Dependency.Type.Valid() {
			continue
		}
		dep := s.Dependency
		si, okS := rowOf[dep.SourceID]
		ti, okT := rowOf[dep.TargetID]
		if !okS || !okT {
			continue
		}
		src, dst := rows[si], rows[ti]

		x1 := g.DateToPosition(anchorDate(src, SourceUsesEnd(dep.Type)))
		x2 := g.DateToPosition(anchorDate(dst, TargetUsesEnd(dep.Type)))
		y1, y2 := l.RowCenter(si), l.RowCenter(ti)

		p := Path{
			DependencyID: dep.ID,
			SourceID:     dep.SourceID,
			TargetID:     dep.TargetID,
			Type:         dep.Type,
			Conflict:     s.Conflict,
		}
		if x2-x1 >= 2*l.Stub {
			p.Points = forwardRoute(x1, y1, x2, y2)
		} else {
			p.Backward = true
			p.Points = backwardRoute(x1, y1, x2, y2, l)
		}
		paths = append(paths, p)
	}
	return paths
}

func anchorDate(a domain.Activity, useEnd bool) time.Time {
	if useEnd {
		return a.EffectiveEnd()
	}
	return a.StartDate
}

// forwardRoute is a single elbow through the horizontal midpoint.
func forwardRoute(x1, y1, x2, y2 float64) []Point {
	if y1 == y2 {
		return []Point{{x1, y1}, {x2, y2}}
	}
	mx := (x1 + x2) / 2
	return []Point{{x1, y1}, {mx, y1}, {mx, y2}, {x2, y2}}
}

// backwardRoute stubs out to the right of the source, travels along the row
// boundary next to the target, and stubs into the target from the left.
func backwardRoute(x1, y1, x2, y2 float64, l Layout) []Point {
	gy := y2 - l.RowHeight/2
	if y2 <= y1 {
		gy = y2 + l.RowHeight/2
	}
	sx := x1 + l.Stub
	tx := x2 - l.Stub
	return []Point{{x1, y1}, {sx, y1}, {sx, gy}, {tx, gy}, {tx, y2}, {x2, y2}}
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
