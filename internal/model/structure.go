package model

import (
	"fmt"
	"sort"
	"strings"
)

// Geometry sources recorded on a GeometryResult.
const (
	GeometryRectangle = "rectangular_inputs"
	GeometryPolygon   = "polygon_points"
)

// Segment is a straight edge between two points.
type Segment struct {
	A Point2D `json:"a"`
	B Point2D `json:"b"`
}

// GeometryResult is the resolved footprint of a deck.
type GeometryResult struct {
	AreaSqft    float64  `json:"area_sqft"`    // override-aware in polygon mode
	PerimeterLf float64  `json:"perimeter_lf"` // override-aware in polygon mode
	LengthFt    float64  `json:"length_ft"`    // bounding extent along x
	WidthFt     float64  `json:"width_ft"`     // bounding extent along y
	LedgerRunFt float64  `json:"ledger_run_ft"`
	LedgerEdge  *Segment `json:"ledger_edge,omitempty"`
	Source      string   `json:"source"`

	// Polygon with fewer than 3 points; area and perimeter are zero
	Incomplete bool `json:"incomplete,omitempty"`
	// Ledger edge had no length so the bounding length stands in for it
	LedgerApproximate bool `json:"ledger_approximate,omitempty"`
	AreaOverridden    bool `json:"area_overridden,omitempty"`
	PerimeterOverride bool `json:"perimeter_overridden,omitempty"`
}

// Polygon reports whether the geometry came from polygon points.
func (g GeometryResult) Polygon() bool {
	return g.Source == GeometryPolygon
}

// Sizing is the output of the structural sizing heuristics. All values are
// estimating allowances, not engineered sizes.
type Sizing struct {
	JoistSpacingIn float64 `json:"joist_spacing_in"`
	JoistSpanFt    float64 `json:"joist_span_ft"`
	JoistSize      string  `json:"joist_size"`
	JoistCount     int     `json:"joist_count"`
	FramingDepthFt float64 `json:"framing_depth_ft"`
	RimLf          float64 `json:"rim_lf"`
	BeamCount      int     `json:"beam_count"`
	BeamPly        int     `json:"beam_ply"`
	PostsPerBeam   int     `json:"posts_per_beam"`
	BeamPostCount  int     `json:"beam_post_count"`
	RailingRunFt   float64 `json:"railing_run_ft"`
	RailingSpans   int     `json:"railing_spans"`
	RailingPosts   int     `json:"railing_posts"`
	PostCount      int     `json:"post_count"`
}

// StockPiece is a count of one stock length.
type StockPiece struct {
	LengthFt float64 `json:"length_ft"`
	Count    int     `json:"count"`
}

// StockMix is a purchase list of stock lengths, longest first, plus the
// overage left after cutting the runs it was built for.
type StockMix struct {
	Pieces    []StockPiece `json:"pieces"`
	OverageFt float64      `json:"overage_ft"`
}

// Count returns the number of pieces of the given length.
func (m StockMix) Count(lengthFt float64) int {
	for _, p := range m.Pieces {
		if p.LengthFt == lengthFt {
			return p.Count
		}
	}
	return 0
}

// TotalPieces returns the number of pieces across all lengths.
func (m StockMix) TotalPieces() int {
	n := 0
	for _, p := range m.Pieces {
		n += p.Count
	}
	return n
}

// TotalLengthFt returns the purchased length.
func (m StockMix) TotalLengthFt() float64 {
	var total float64
	for _, p := range m.Pieces {
		total += p.LengthFt * float64(p.Count)
	}
	return total
}

// Add returns m plus times copies of o.
func (m StockMix) Add(o StockMix, times int) StockMix {
	counts := make(map[float64]int, len(m.Pieces)+len(o.Pieces))
	for _, p := range m.Pieces {
		counts[p.LengthFt] += p.Count
	}
	for _, p := range o.Pieces {
		counts[p.LengthFt] += p.Count * times
	}
	out := StockMix{OverageFt: Round2(m.OverageFt + o.OverageFt*float64(times))}
	for l, c := range counts {
		if c > 0 {
			out.Pieces = append(out.Pieces, StockPiece{LengthFt: l, Count: c})
		}
	}
	sort.Slice(out.Pieces, func(i, j int) bool {
		return out.Pieces[i].LengthFt > out.Pieces[j].LengthFt
	})
	return out
}

func (m StockMix) String() string {
	if len(m.Pieces) == 0 {
		return "no stock lengths"
	}
	parts := make([]string, len(m.Pieces))
	for i, p := range m.Pieces {
		parts[i] = fmt.Sprintf("%gft x %d", p.LengthFt, p.Count)
	}
	return strings.Join(parts, ", ")
}
