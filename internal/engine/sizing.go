package engine

import (
	"math"

	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// Two-tier joist sizes; there is no span table behind these.
const (
	joistSizeSmall = "2x8"
	joistSizeLarge = "2x10"
)

// SizeStructure derives framing counts from resolved geometry. The rules
// are estimating heuristics and are not a structural check.
func SizeStructure(g model.GeometryResult, d model.DeckInputs, a model.Assumptions) model.Sizing {
	a = a.Normalized()
	length := math.Max(model.Finite(g.LengthFt, 0), 0)
	var s model.Sizing

	s.JoistSpacingIn = model.Finite(d.JoistSpacingIn, 0)
	if s.JoistSpacingIn <= 0 {
		s.JoistSpacingIn = 16
	}
	if d.DeckingMaterial == model.DeckingComposite {
		s.JoistSpacingIn = math.Min(s.JoistSpacingIn, a.CompositeJoistSpacingIn)
	}

	// Add beam lines until every joist span fits.
	s.BeamCount = max(d.BeamCount, 1)
	ledgerSupport := 0
	if d.Ledger {
		ledgerSupport = 1
	}
	for length/float64(s.BeamCount+ledgerSupport) > a.MaxJoistSpanFt {
		s.BeamCount++
	}
	s.JoistSpanFt = length / float64(s.BeamCount+ledgerSupport)
	s.JoistSize = joistSizeSmall
	if s.JoistSpanFt > a.LargeJoistSpanFt {
		s.JoistSize = joistSizeLarge
	}

	switch {
	case s.BeamCount >= 3 || length > a.BeamTriplePlyLengthFt:
		s.BeamPly = 3
	case s.BeamCount >= 2 || length > a.BeamDoublePlyLengthFt:
		s.BeamPly = 2
	default:
		s.BeamPly = 1
	}

	if g.Polygon() {
		s.FramingDepthFt = math.Max(1, g.AreaSqft/math.Max(1, length))
		s.RimLf = g.PerimeterLf
	} else {
		s.FramingDepthFt = g.WidthFt
		s.RimLf = 2*length + 2*g.WidthFt
	}
	s.JoistCount = max(1, ceilInt(length*12/s.JoistSpacingIn))

	postSpacing := model.Finite(d.PostSpacingFt, 0)
	if postSpacing <= 0 {
		postSpacing = model.DefaultDeckInputs().PostSpacingFt
	}
	s.PostsPerBeam = ceilInt(length/postSpacing) + 1
	s.BeamPostCount = s.PostsPerBeam * s.BeamCount

	if d.RailingType != model.RailingNone {
		s.RailingRunFt = railingRun(g, d)
		s.RailingSpans = ceilInt(s.RailingRunFt / a.RailingPostSpacingFt)
		s.RailingPosts = s.RailingSpans + 1
	}
	s.PostCount = max(s.BeamPostCount, s.RailingPosts, 4)
	return s
}

// railingRun is the open perimeter that needs guard rail: the full
// perimeter less the ledger run and the stair openings, or the custom
// footage when the sides are custom.
func railingRun(g model.GeometryResult, d model.DeckInputs) float64 {
	if d.RailingSides == model.RailingCustom {
		if v := model.Finite(d.CustomRailingLf, 0); v > 0 {
			return v
		}
	}
	open := g.PerimeterLf
	if d.Ledger {
		open = math.Max(open-g.LedgerRunFt, 0)
	}
	return math.Max(open-stairOpening(d), 0)
}

func stairOpening(d model.DeckInputs) float64 {
	if d.StairCount <= 0 {
		return 0
	}
	return math.Max(model.Finite(d.StairWidthFt, 0), 0) * float64(d.StairCount)
}

// ceilInt rounds up, treating non-finite values as zero.
func ceilInt(v float64) int {
	return int(math.Ceil(model.Finite(v, 0)))
}
