package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/DeckTakeoff/internal/engine"
	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// ValidateDesignInputs checks one deck or fence design. Values are checked
// as given; zero-valued optional fields are expected to have been defaulted
// by model.DecodeDesignInputs.
func ValidateDesignInputs(in model.DesignInputs) *Report {
	r := NewReport()
	switch v := in.(type) {
	case model.DeckInputs:
		validateDeck(v, r)
	case *model.DeckInputs:
		if v == nil {
			r.AddError(Result{Message: "deck inputs are missing", Field: "design_mode"})
			return r
		}
		validateDeck(*v, r)
	case model.FenceInputs:
		validateFence(v, r)
	case *model.FenceInputs:
		if v == nil {
			r.AddError(Result{Message: "fence inputs are missing", Field: "design_mode"})
			return r
		}
		validateFence(*v, r)
	default:
		r.AddError(Result{
			Message:     "unsupported design inputs",
			Field:       "design_mode",
			ActualValue: fmt.Sprintf("%T", in),
			Expected:    "deck or fence",
		})
	}
	return r
}

// Upper bounds on design sizes. They keep every stock run well under
// engine.MaxRunFt.
const (
	MaxDimensionFt   = 1000
	MaxAreaSqft      = MaxDimensionFt * MaxDimensionFt
	MaxRunLf         = 4 * MaxDimensionFt
	MaxPolygonPoints = 500
	MaxItemCount     = 1000 // stairs, posts, gates, fan plates
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// nonNegative rejects NaN, infinities and negative values.
func nonNegative(r *Report, field string, v float64) bool {
	if !finite(v) || v < 0 {
		r.AddError(Result{
			Message:     fmt.Sprintf("%s must be a finite number >= 0", field),
			Field:       field,
			ActualValue: fmt.Sprint(v),
			Expected:    ">= 0",
		})
		return false
	}
	return true
}

func positive(r *Report, field string, v float64) {
	if !finite(v) || v <= 0 {
		r.AddError(Result{
			Message:     fmt.Sprintf("%s must be greater than 0", field),
			Field:       field,
			ActualValue: fmt.Sprint(v),
			Expected:    "> 0",
		})
	}
}

// atMost rejects values above limit. Non-finite values are left to the
// other checks.
func atMost(r *Report, field string, v, limit float64) {
	if finite(v) && v > limit {
		r.AddError(Result{
			Message:     fmt.Sprintf("%s must be at most %g", field, limit),
			Field:       field,
			ActualValue: fmt.Sprint(v),
			Expected:    fmt.Sprintf("<= %g", limit),
		})
	}
}

func countAtMost(r *Report, field string, v int) {
	if v > MaxItemCount {
		r.AddError(Result{
			Message:     fmt.Sprintf("%s must be at most %d", field, MaxItemCount),
			Field:       field,
			ActualValue: v,
			Expected:    fmt.Sprintf("<= %d", MaxItemCount),
		})
	}
}

func oneOf[T ~string](r *Report, field string, v T, allowed ...T) {
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	r.AddError(Result{
		Message:     fmt.Sprintf("%s must be one of %s", field, strings.Join(names, ", ")),
		Field:       field,
		ActualValue: string(v),
		Expected:    strings.Join(names, "|"),
	})
}

func validateDeck(d model.DeckInputs, r *Report) {
	oneOf(r, "shape_mode", d.ShapeMode, model.ShapeRectangle, model.ShapePolygon)
	polygon := d.ShapeMode == model.ShapePolygon

	if nonNegative(r, "deck_length_ft", d.LengthFt) && d.LengthFt == 0 && !polygon {
		r.AddError(Result{Message: "deck_length_ft must be greater than 0", Field: "deck_length_ft", Expected: "> 0"})
	}
	if nonNegative(r, "deck_width_ft", d.WidthFt) && d.WidthFt == 0 && !polygon {
		r.AddError(Result{Message: "deck_width_ft must be greater than 0", Field: "deck_width_ft", Expected: "> 0"})
	}
	nonNegative(r, "deck_height_ft", d.HeightFt)
	nonNegative(r, "deck_area_override_sqft", d.AreaOverrideSqft)
	nonNegative(r, "deck_perimeter_override_lf", d.PerimeterOverrideLf)
	atMost(r, "deck_length_ft", d.LengthFt, MaxDimensionFt)
	atMost(r, "deck_width_ft", d.WidthFt, MaxDimensionFt)
	atMost(r, "deck_height_ft", d.HeightFt, MaxDimensionFt)
	atMost(r, "deck_area_override_sqft", d.AreaOverrideSqft, MaxAreaSqft)
	atMost(r, "deck_perimeter_override_lf", d.PerimeterOverrideLf, MaxRunLf)

	oneOf(r, "decking_material", d.DeckingMaterial, model.DeckingWood, model.DeckingComposite)
	positive(r, "decking_board_width_in", d.BoardWidthIn)
	if d.JoistSpacingIn != 12 && d.JoistSpacingIn != 16 && d.JoistSpacingIn != 24 {
		r.AddError(Result{
			Message:     "joist_spacing_in must be 12, 16 or 24",
			Field:       "joist_spacing_in",
			ActualValue: fmt.Sprint(d.JoistSpacingIn),
			Expected:    "12|16|24",
		})
	} else if d.DeckingMaterial == model.DeckingComposite && d.JoistSpacingIn > 12 {
		r.AddInfo(Result{
			Message:     fmt.Sprintf("composite decking caps joist spacing; %g in will be reduced", d.JoistSpacingIn),
			Field:       "joist_spacing_in",
			ActualValue: d.JoistSpacingIn,
		})
	}

	oneOf(r, "ledger_side", d.LedgerSide, model.LedgerTop, model.LedgerRight, model.LedgerBottom, model.LedgerLeft)
	if d.BeamCount < 1 {
		r.AddError(Result{Message: "beam_count must be at least 1", Field: "beam_count", ActualValue: d.BeamCount, Expected: ">= 1"})
	}
	oneOf(r, "post_size", d.PostSize, model.Post4x4, model.Post6x6)
	positive(r, "post_spacing_ft", d.PostSpacingFt)
	atMost(r, "post_spacing_ft", d.PostSpacingFt, MaxDimensionFt)
	countAtMost(r, "beam_count", d.BeamCount)

	if d.StairCount < 0 {
		r.AddError(Result{Message: "stair_count must be >= 0", Field: "stair_count", ActualValue: d.StairCount, Expected: ">= 0"})
	}
	countAtMost(r, "stair_count", d.StairCount)
	positive(r, "stair_width_ft", d.StairWidthFt)
	atMost(r, "stair_width_ft", d.StairWidthFt, MaxDimensionFt)

	oneOf(r, "railing_type", d.RailingType, model.RailingNone, model.RailingWood, model.RailingAluminum, model.RailingCable)
	oneOf(r, "railing_sides", d.RailingSides, model.RailingAllSides, model.RailingThreeSides, model.RailingCustom)
	atMost(r, "custom_railing_lf", d.CustomRailingLf, MaxRunLf)
	if nonNegative(r, "custom_railing_lf", d.CustomRailingLf) &&
		d.RailingSides == model.RailingCustom && d.CustomRailingLf == 0 && d.RailingType != model.RailingNone {
		r.AddWarning(Result{
			Message: "railing_sides is custom but custom_railing_lf is 0; no railing will be ordered",
			Field:   "custom_railing_lf",
		})
	}

	if polygon {
		validatePolygon(d, r)
	} else if len(d.PolygonPoints) > 0 {
		r.AddInfo(Result{Message: "deck_polygon_points are ignored in rectangle mode", Field: "deck_polygon_points"})
	}

	if d.Cover != nil {
		validateCover(*d.Cover, r)
	}
}

func validatePolygon(d model.DeckInputs, r *Report) {
	if len(d.PolygonPoints) > MaxPolygonPoints {
		r.AddError(Result{
			Message:     fmt.Sprintf("polygon has more than %d points", MaxPolygonPoints),
			Field:       "deck_polygon_points",
			ActualValue: len(d.PolygonPoints),
			Expected:    fmt.Sprintf("<= %d points", MaxPolygonPoints),
		})
		return
	}
	allFinite := true
	for i, p := range d.PolygonPoints {
		if !finite(p.X) || !finite(p.Y) {
			allFinite = false
			r.AddError(Result{
				Message:     fmt.Sprintf("polygon point %d has a non-finite coordinate", i),
				Field:       fmt.Sprintf("deck_polygon_points[%d]", i),
				ActualValue: fmt.Sprintf("(%v, %v)", p.X, p.Y),
			})
		}
	}
	if allFinite && len(d.PolygonPoints) > 0 {
		lo, hi := d.PolygonPoints.BoundingBox()
		if hi.X-lo.X > MaxDimensionFt || hi.Y-lo.Y > MaxDimensionFt {
			r.AddError(Result{
				Message:     fmt.Sprintf("polygon extent must be at most %gft on each axis", float64(MaxDimensionFt)),
				Field:       "deck_polygon_points",
				ActualValue: fmt.Sprintf("%gx%g", hi.X-lo.X, hi.Y-lo.Y),
				Expected:    fmt.Sprintf("<= %g", float64(MaxDimensionFt)),
			})
		}
		if p := d.PolygonPoints.Perimeter(); d.PerimeterOverrideLf == 0 && p > MaxRunLf {
			r.AddError(Result{
				Message:     fmt.Sprintf("polygon perimeter must be at most %gft", float64(MaxRunLf)),
				Field:       "deck_polygon_points",
				ActualValue: fmt.Sprintf("%.1f", p),
				Expected:    fmt.Sprintf("<= %g", float64(MaxRunLf)),
			})
		}
	}

	if len(d.PolygonPoints) < 3 {
		if d.AreaOverrideSqft == 0 {
			r.AddWarning(Result{
				Message:     "polygon has fewer than 3 points; area and perimeter will be 0",
				Field:       "deck_polygon_points",
				ActualValue: len(d.PolygonPoints),
				Expected:    ">= 3 points",
			})
		}
		return
	}

	if d.LedgerEdgeIndex != nil {
		idx := *d.LedgerEdgeIndex
		if idx < 0 || idx >= len(d.PolygonPoints) {
			r.AddWarning(Result{
				Message:     fmt.Sprintf("ledger_edge_index %d is outside the polygon and wraps around", idx),
				Field:       "ledger_edge_index",
				ActualValue: idx,
				Expected:    fmt.Sprintf("0..%d", len(d.PolygonPoints)-1),
			})
		}
	} else if d.Ledger {
		r.AddInfo(Result{
			Message: "no ledger_edge_index on a polygon deck; edge 0 is used for the house side",
			Field:   "ledger_edge_index",
		})
	}
}

func validateCover(c model.CoverPackage, r *Report) {
	if c.RoofType != "" {
		oneOf(r, "cover.roof_type", c.RoofType, "shed", "gable")
	}
	if c.RoofingMaterial != "" {
		oneOf(r, "cover.roofing_material", c.RoofingMaterial, "shingle", "metal")
	}
	oneOf(r, "cover.ceiling_finish", c.CeilingFinish, "none", "drywall", "tongue_groove", "beadboard")
	nonNegative(r, "cover.roof_length_ft", c.RoofLengthFt)
	nonNegative(r, "cover.roof_width_ft", c.RoofWidthFt)
	atMost(r, "cover.roof_length_ft", c.RoofLengthFt, MaxDimensionFt)
	atMost(r, "cover.roof_width_ft", c.RoofWidthFt, MaxDimensionFt)
	positive(r, "cover.rafter_spacing_in", c.RafterSpacingIn)
	countAtMost(r, "cover.ceiling_fan_plates", c.CeilingFanPlates)
	countAtMost(r, "cover.cover_post_count", c.CoverPostCount)
	if c.CeilingFanPlates < 0 {
		r.AddError(Result{Message: "cover.ceiling_fan_plates must be >= 0", Field: "cover.ceiling_fan_plates", ActualValue: c.CeilingFanPlates})
	}
	if c.CoverPostCount < 0 {
		r.AddError(Result{Message: "cover.cover_post_count must be >= 0", Field: "cover.cover_post_count", ActualValue: c.CoverPostCount})
	}

	if v := engine.ValidateCoveredPackage(c); !v.Ready {
		r.AddWarning(Result{
			Message:     "covered package is incomplete: " + strings.Join(v.Missing, ", "),
			Field:       "cover",
			ActualValue: v.Missing,
		})
	}
}

func validateFence(f model.FenceInputs, r *Report) {
	oneOf(r, "fence_layout", f.Layout, model.FenceStraight, model.FenceCorner, model.FenceUShape)
	nonNegative(r, "fence_length_ft", f.LengthFt)
	sidesOK := nonNegative(r, "fence_side_a_ft", f.SideAFt)
	sidesOK = nonNegative(r, "fence_side_b_ft", f.SideBFt) && sidesOK
	sidesOK = nonNegative(r, "fence_side_c_ft", f.SideCFt) && sidesOK
	atMost(r, "fence_length_ft", f.LengthFt, MaxDimensionFt)
	atMost(r, "fence_side_a_ft", f.SideAFt, MaxDimensionFt)
	atMost(r, "fence_side_b_ft", f.SideBFt, MaxDimensionFt)
	atMost(r, "fence_side_c_ft", f.SideCFt, MaxDimensionFt)
	atMost(r, "fence_height_ft", f.HeightFt, MaxDimensionFt)

	if sidesOK {
		missing := (f.Layout == model.FenceCorner && (f.SideAFt == 0 || f.SideBFt == 0)) ||
			(f.Layout == model.FenceUShape && (f.SideAFt == 0 || f.SideBFt == 0 || f.SideCFt == 0))
		if missing {
			r.AddWarning(Result{
				Message: fmt.Sprintf("%s layout is missing a side length; fence_length_ft is used as one run", f.Layout),
				Field:   "fence_layout",
			})
		}
		if finite(f.LengthFt) && f.RunFt() == 0 {
			r.AddWarning(Result{Message: "fence run is 0 ft; only gate items will be priced", Field: "fence_length_ft"})
		}
	}

	if nonNegative(r, "fence_height_ft", f.HeightFt) && f.HeightFt == 0 {
		r.AddWarning(Result{Message: "fence_height_ft is 0; fence area will be 0", Field: "fence_height_ft"})
	}
	oneOf(r, "fence_material", f.Material, "wood", "vinyl", "metal")
	oneOf(r, "fence_style", f.Style, "privacy", "picket", "panel")
	nonNegative(r, "fence_post_spacing_ft", f.PostSpacingFt)
	if f.RailCount < 0 {
		r.AddError(Result{Message: "fence_rail_count must be >= 0", Field: "fence_rail_count", ActualValue: f.RailCount})
	}
	positive(r, "fence_picket_width_in", f.PicketWidthIn)
	nonNegative(r, "fence_picket_gap_in", f.PicketGapIn)
	if f.GateCount < 0 {
		r.AddError(Result{Message: "fence_gate_count must be >= 0", Field: "fence_gate_count", ActualValue: f.GateCount})
	}
	countAtMost(r, "fence_rail_count", f.RailCount)
	countAtMost(r, "fence_gate_count", f.GateCount)
	positive(r, "fence_gate_width_ft", f.GateWidthFt)
	atMost(r, "fence_gate_width_ft", f.GateWidthFt, MaxDimensionFt)
}
