package engine

import (
	"fmt"
	"strings"

	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// Stair geometry used for riser and stringer counts.
const (
	riserHeightIn      = 7.5
	stringerSpacingFt  = 1.5
	structuralPostName = "PT structural post"
)

func beamName(ply int) string {
	switch ply {
	case 3:
		return "PT beam triple-ply allowance"
	case 2:
		return "PT beam double-ply allowance"
	default:
		return "PT beam single-ply allowance"
	}
}

func (e *Estimator) deckTakeoff(d model.DeckInputs) (model.TakeoffResult, error) {
	a := e.Assumptions.Normalized()

	var warnings []string
	if d.Cover != nil {
		if v := ValidateCoveredPackage(*d.Cover); !v.Ready {
			if a.RequireCompleteCoveredPackage {
				return model.TakeoffResult{}, errors.New(errors.ErrCodeIncompletePackage,
					"covered package is missing: %s", strings.Join(v.Missing, ", "))
			}
			warnings = append(warnings, "covered package incomplete: "+strings.Join(v.Missing, ", "))
		}
		// Work on a copy so defaults never leak into the caller's inputs.
		c := *d.Cover
		d.Cover = &c
	}
	d.ApplyDefaults()

	framing, err := NewStockOptimizer(a.FramingLengthsFt)
	if err != nil {
		return model.TakeoffResult{}, fmt.Errorf("framing stock lengths: %w", err)
	}
	boards, err := NewStockOptimizer(a.BoardLengthsFt)
	if err != nil {
		return model.TakeoffResult{}, fmt.Errorf("deck board stock lengths: %w", err)
	}

	g := ResolveGeometry(d)
	s := SizeStructure(g, d, a)
	if g.Incomplete {
		warnings = append(warnings, "polygon footprint has fewer than 3 points; area and perimeter are zero")
	}
	if g.LedgerApproximate {
		warnings = append(warnings, "ledger edge has no length; bounding length used as house side")
	}

	length := g.LengthFt
	joistName := s.JoistSize + " PT joist"
	rimName := s.JoistSize + " PT rim joist"
	beam := beamName(s.BeamPly)

	joistStock, err := framing.Accumulate([]float64{s.FramingDepthFt}, s.JoistCount)
	if err != nil {
		return model.TakeoffResult{}, fmt.Errorf("joist stock: %w", err)
	}
	rimRuns, rimRepeat := []float64{length, g.WidthFt}, 2
	if g.Polygon() {
		rimRuns, rimRepeat = []float64{s.RimLf}, 1
	}
	rimStock, err := framing.Accumulate(rimRuns, rimRepeat)
	if err != nil {
		return model.TakeoffResult{}, fmt.Errorf("rim stock: %w", err)
	}
	beamStock, err := framing.Accumulate([]float64{length}, s.BeamCount*s.BeamPly)
	if err != nil {
		return model.TakeoffResult{}, fmt.Errorf("beam stock: %w", err)
	}

	boardWidth := d.BoardWidthIn
	courses := ceilInt(s.FramingDepthFt * 12 / boardWidth)
	boardMix, err := boards.BestMix(length)
	if err != nil {
		return model.TakeoffResult{}, fmt.Errorf("deck board stock: %w", err)
	}
	overage := model.Round2(joistStock.OverageFt + rimStock.OverageFt + beamStock.OverageFt +
		boardMix.OverageFt*float64(courses))

	footings := s.PostCount
	screwBoxes := ceilInt(g.AreaSqft / 100 * a.ScrewBoxesPer100Sqft)
	waste := a.DefaultWaste

	items := []model.TakeoffItem{
		summary(line{
			cat: model.CategoryFraming, name: joistName + " (LF summary)", unit: model.UnitLinear,
			qty: model.Round2(float64(s.JoistCount) * s.FramingDepthFt), waste: waste, lead: 2,
			notes: fmt.Sprintf(`Joists: %d @ %gft (%g" O.C.); stock: %s`,
				s.JoistCount, model.Round2(s.FramingDepthFt), s.JoistSpacingIn, joistStock),
		}),
		summary(line{
			cat: model.CategoryFraming, name: rimName + " (LF summary)", unit: model.UnitLinear,
			qty: model.Round2(s.RimLf), waste: waste, lead: 2,
			notes: "Perimeter rim joists; stock: " + rimStock.String(),
		}),
		summary(line{
			cat: model.CategoryFraming, name: beam + " (LF summary)", unit: model.UnitLinear,
			qty: model.Round2(float64(s.BeamCount) * length), waste: waste, lead: 3,
			notes: fmt.Sprintf("%d beam line(s), %d-ply allowance; stock: %s", s.BeamCount, s.BeamPly, beamStock),
		}),
		e.price(line{
			cat: model.CategoryDecking, name: "Deck board takeoff summary", unit: model.UnitSqft,
			qty: model.Round2(g.AreaSqft), waste: waste, lead: 4,
			notes: fmt.Sprintf("%s decking summary; detailed board counts listed below", d.DeckingMaterial),
		}),
		e.price(line{
			cat: model.CategoryFasteners, name: "Exterior screws box", unit: model.UnitBox,
			qty: float64(screwBoxes), lead: 1,
			notes: fmt.Sprintf("%g box per 100 sqft (rounded up)", a.ScrewBoxesPer100Sqft),
		}),
		e.price(line{
			cat: model.CategoryFootings, name: fmt.Sprintf("%s %s", d.PostSize, structuralPostName), unit: model.UnitEach,
			qty: float64(s.PostCount), waste: 0.08, lead: 3,
			notes: fmt.Sprintf("%d beam line(s) x %d posts per beam; %d railing support posts (min %gft railing support)",
				s.BeamCount, s.PostsPerBeam, s.RailingPosts, a.RailingPostSpacingFt),
		}),
		e.price(line{
			cat: model.CategoryFootings, name: "Concrete bag", unit: model.UnitBag,
			qty: float64(footings) * a.DeckBagsPerFooting, waste: 0.05, lead: 2,
			notes: fmt.Sprintf("%d footings x %g bags", footings, a.DeckBagsPerFooting),
		}),
	}

	for _, p := range joistStock.Pieces {
		items = append(items, e.price(line{
			cat: model.CategoryFraming, key: model.PriceKey{Base: joistName, LengthFt: p.LengthFt},
			unit: model.UnitEach, qty: float64(p.Count), waste: waste, lead: 2,
			notes: "Stock purchase count for joists",
		}))
	}
	for _, p := range rimStock.Pieces {
		items = append(items, e.price(line{
			cat: model.CategoryFraming, key: model.PriceKey{Base: rimName, LengthFt: p.LengthFt},
			unit: model.UnitEach, qty: float64(p.Count), waste: waste, lead: 2,
			notes: "Stock purchase count for rim joists",
		}))
	}
	for _, p := range beamStock.Pieces {
		items = append(items, e.price(line{
			cat: model.CategoryFraming, key: model.PriceKey{Base: beam, LengthFt: p.LengthFt},
			unit: model.UnitEach, qty: float64(p.Count), waste: waste, lead: 3,
			notes: "Stock purchase count for beam plies",
		}))
	}
	boardBase := fmt.Sprintf("Deck board - %s", d.DeckingMaterial)
	for _, p := range boardMix.Pieces {
		items = append(items, e.price(line{
			cat:  model.CategoryDecking,
			name: fmt.Sprintf("%s %gft", boardBase, p.LengthFt),
			key:  model.PriceKey{Base: boardBase, LengthFt: p.LengthFt},
			unit: model.UnitEach, qty: float64(p.Count * courses), waste: waste, lead: 4,
			notes: fmt.Sprintf("%d per course x %d courses", p.Count, courses),
		}))
	}

	if d.Ledger {
		items = append(items,
			e.price(line{
				cat: model.CategoryHardware, name: "Joist hanger", unit: model.UnitEach,
				qty: float64(s.JoistCount), waste: 0.05, lead: 2,
				notes: "One per joist with ledger",
			}),
			e.price(line{
				cat: model.CategoryWaterproofing, name: "Ledger flashing", unit: model.UnitLinear,
				qty: model.Round2(g.LedgerRunFt), waste: 0.05, lead: 2,
				notes: "Ledger flashing length",
			}),
		)
	}

	if d.RailingType != model.RailingNone {
		items = append(items,
			e.price(line{
				cat: model.CategoryRailing, name: fmt.Sprintf("Railing - %s allowance", d.RailingType), unit: model.UnitLinear,
				qty: model.Round2(s.RailingRunFt), waste: 0.08, lead: 10,
				notes: "Allowance pricing; edit to supplier quote",
			}),
			e.price(line{
				cat: model.CategoryRailing, name: "Railing post", unit: model.UnitEach,
				qty: float64(s.RailingPosts), waste: 0.08, lead: 7,
				notes: fmt.Sprintf("Post spacing allowance at ~%gft", a.RailingPostSpacingFt),
			}),
		)
	}

	if d.StairCount > 0 {
		risers := ceilInt(d.HeightFt * 12 / riserHeightIn)
		treads := max(risers-1, 0)
		perStair := ceilInt(d.StairWidthFt/stringerSpacingFt) + 1
		items = append(items,
			e.price(line{
				cat: model.CategoryStairs, name: "Stair stringer", unit: model.UnitEach,
				qty: float64(perStair * d.StairCount), waste: 0.1, lead: 4,
				notes: fmt.Sprintf("%d per stair", perStair),
			}),
			e.price(line{
				cat: model.CategoryStairs, name: "Stair tread boards", unit: model.UnitLinear,
				qty: model.Round2(float64(treads) * d.StairWidthFt * float64(d.StairCount)), waste: 0.12, lead: 4,
				notes: fmt.Sprintf("%d treads per stair", treads),
			}),
		)
		if d.RailingType != model.RailingNone {
			items = append(items, e.price(line{
				cat: model.CategoryStairs, name: "Stair railing hardware", unit: model.UnitEach,
				qty: float64(d.StairCount), lead: 5,
				notes: "Allowance per stair run",
			}))
		}
	}

	if d.Cover != nil {
		items = append(items, e.coverItems(*d.Cover, d.PostSize, waste)...)
	}

	geo := g
	sizing := s
	return model.TakeoffResult{
		DesignMode:  model.ModeDeck,
		Assumptions: deckAssumptions(d, a, g, s, joistStock, rimStock, beamStock, boardMix),
		Items:       items,
		Totals:      model.TakeoffTotals{DeckSqft: model.Round2(g.AreaSqft), StockOverageFt: overage},
		Geometry:    &geo,
		Sizing:      &sizing,
		Incomplete:  g.Incomplete,
		Warnings:    warnings,
	}, nil
}

func deckAssumptions(d model.DeckInputs, a model.Assumptions, g model.GeometryResult, s model.Sizing,
	joists, rims, beams, boards model.StockMix) model.TakeoffAssumptions {
	rimFormula := "2*length + 2*width"
	if g.Polygon() {
		rimFormula = "polygon perimeter (override when supplied)"
	}
	railingFormula := "perimeter - ledger_run - stair_width*stair_count"
	if d.RailingSides == model.RailingCustom && d.CustomRailingLf > 0 {
		railingFormula = "custom_railing_lf"
	}

	return model.TakeoffAssumptions{
		JoistMaterial:        s.JoistSize + " PT",
		BagsPerFooting:       a.DeckBagsPerFooting,
		ScrewBoxesPer100Sqft: a.ScrewBoxesPer100Sqft,
		Formulas: map[string]string{
			"deck_sqft":                  "length_ft * width_ft",
			"deck_sqft_custom":           "if shape_mode='polygon', shoelace area from polygon points unless an area override is supplied",
			"effective_joist_spacing_in": fmt.Sprintf("decking_material='composite' ? min(input_spacing,%g) : input_spacing", a.CompositeJoistSpacingIn),
			"joist_count":                "max(1, ceil((deck_length_ft*12)/effective_joist_spacing_in))",
			"beam_count_effective":       fmt.Sprintf("increase beam_count until (deck_length_ft/(beam_count + ledger_support)) <= %gft", a.MaxJoistSpanFt),
			"joist_size":                 fmt.Sprintf("joist_span_ft>%g ? '2x10' : '2x8'", a.LargeJoistSpanFt),
			"beam_ply":                   fmt.Sprintf("beams>=3 or length>%g ? 3 : beams>=2 or length>%g ? 2 : 1", a.BeamTriplePlyLengthFt, a.BeamDoublePlyLengthFt),
			"decking_board_count":        "board_courses * sum(board_mix_per_course)",
			"decking_board_mix":          "optimize board lengths per course to minimize overage, then multiply by courses",
			"rim_joists_lf":              rimFormula,
			"perimeter_lf":               "if shape_mode='polygon', perimeter from polygon points unless a perimeter override is supplied",
			"fasteners_boxes":            "ceil(deck_sqft/100)",
			"railing_support_run_lf":     railingFormula,
			"post_count":                 "max(beam_support_posts, perimeter_railing_support_posts, 4)",
			"railing_posts":              fmt.Sprintf("ceil(railing_support_run_lf/%g)+1", a.RailingPostSpacingFt),
			"stairs_stringers":           "ceil(stair_width_ft/1.5)+1",
			"roof_area":                  "roof_length_ft*roof_width_ft",
			"rafters_count":              "floor((roof_width_ft*12)/rafter_spacing_in)+1",
		},
		Constants: map[string]any{
			"default_waste_factor":                 a.DefaultWaste,
			"max_joist_span_ft":                    a.MaxJoistSpanFt,
			"composite_joist_spacing_in":           a.CompositeJoistSpacingIn,
			"default_railing_post_spacing_ft":      a.RailingPostSpacingFt,
			"beam_double_ply_length_ft":            a.BeamDoublePlyLengthFt,
			"beam_triple_ply_length_ft":            a.BeamTriplePlyLengthFt,
			"available_board_lengths_ft":           joinLengths(a.BoardLengthsFt),
			"available_framing_lengths_ft":         joinLengths(a.FramingLengthsFt),
			"joist_stock_mix":                      joists.String(),
			"rim_stock_mix":                        rims.String(),
			"beam_stock_mix":                       beams.String(),
			"board_mix_per_course":                 boards.String(),
			"board_mix_run_overage_ft":             boards.OverageFt,
			"shape_geometry_source":                g.Source,
			"post_count_total":                     s.PostCount,
			"beam_support_post_count":              s.BeamPostCount,
			"perimeter_railing_support_post_count": s.RailingPosts,
			"railing_support_run_lf":               model.Round2(s.RailingRunFt),
			"railing_support_spans":                s.RailingSpans,
			"post_count_per_beam":                  s.PostsPerBeam,
			"bags_per_footing":                     a.DeckBagsPerFooting,
			"screw_boxes_per_100_sqft":             a.ScrewBoxesPer100Sqft,
			"cost_formula":                         costFormula,
			"non_structural_disclaimer":            true,
		},
		NonStructuralDisclaimer: true,
	}
}

func joinLengths(lengths []float64) string {
	parts := make([]string, len(lengths))
	for i, l := range lengths {
		parts[i] = fmt.Sprintf("%g", l)
	}
	return strings.Join(parts, ",")
}
