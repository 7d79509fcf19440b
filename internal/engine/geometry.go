package engine

import (
	"math"

	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// ResolveGeometry turns deck inputs into area, perimeter, bounding extents
// and the house-side ledger run.
//
// In rectangle mode the length and width inputs are authoritative and area
// or perimeter overrides are ignored. In polygon mode overrides replace the
// shoelace area and edge-sum perimeter, but the bounding extents always come
// from the points. A polygon with fewer than 3 points resolves to zero area
// and perimeter and is flagged Incomplete.
func ResolveGeometry(d model.DeckInputs) model.GeometryResult {
	if d.ShapeMode == model.ShapePolygon {
		return resolvePolygon(d)
	}

	length := math.Max(model.Finite(d.LengthFt, 0), 0)
	width := math.Max(model.Finite(d.WidthFt, 0), 0)
	g := model.GeometryResult{
		AreaSqft:    length * width,
		PerimeterLf: 2 * (length + width),
		LengthFt:    length,
		WidthFt:     width,
		Source:      model.GeometryRectangle,
	}
	if d.Ledger {
		if d.LedgerSide.Vertical() {
			g.LedgerRunFt = width
		} else {
			g.LedgerRunFt = length
		}
	}
	return g
}

func resolvePolygon(d model.DeckInputs) model.GeometryResult {
	pts := d.PolygonPoints
	min, max := pts.BoundingBox()
	g := model.GeometryResult{
		LengthFt: max.X - min.X,
		WidthFt:  max.Y - min.Y,
		Source:   model.GeometryPolygon,
	}
	if len(pts) < 3 {
		g.Incomplete = true
		return g
	}

	g.AreaSqft = pts.Area()
	g.PerimeterLf = pts.Perimeter()
	if v := model.Finite(d.AreaOverrideSqft, 0); v > 0 {
		g.AreaSqft = v
		g.AreaOverridden = true
	}
	if v := model.Finite(d.PerimeterOverrideLf, 0); v > 0 {
		g.PerimeterLf = v
		g.PerimeterOverride = true
	}

	if d.Ledger {
		idx := 0
		if d.LedgerEdgeIndex != nil {
			idx = *d.LedgerEdgeIndex
		}
		a, b := pts.Edge(idx)
		run := math.Hypot(b.X-a.X, b.Y-a.Y)
		if run > 0 {
			g.LedgerEdge = &model.Segment{A: a, B: b}
			g.LedgerRunFt = run
		} else {
			// Coincident points: assume the house runs the bounding length.
			g.LedgerRunFt = g.LengthFt
			g.LedgerApproximate = true
		}
	}
	return g
}
