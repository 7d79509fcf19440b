package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// minPicketPitchIn keeps the picket count finite when width and gap are
// both zero.
const minPicketPitchIn = 0.25

func (e *Estimator) fenceTakeoff(f model.FenceInputs) (model.TakeoffResult, error) {
	a := e.Assumptions.Normalized()
	f.ApplyDefaults()

	spacing := model.Finite(f.PostSpacingFt, 0)
	if spacing <= 0 {
		spacing = a.FencePostSpacingFt
	}
	rails := f.RailCount
	if rails < 1 {
		rails = a.FenceRailCount
	}
	gates := max(f.GateCount, 0)

	// Corner posts are shared between adjacent sides.
	sides := f.Sides()
	linePosts := 1
	var run float64
	for _, side := range sides {
		linePosts += ceilInt(side / spacing)
		run += side
	}
	gatePosts := gates * 2
	posts := linePosts + gatePosts
	kits := ceilInt(run / a.FenceHardwareKitLf)

	items := []model.TakeoffItem{
		e.price(line{
			cat: model.CategoryFence, name: "Fence post", unit: model.UnitEach,
			qty: float64(posts), waste: 0.05, lead: 3,
			notes: fmt.Sprintf("%d line posts + %d gate posts", linePosts, gatePosts),
		}),
		e.price(line{
			cat: model.CategoryFence, name: "Concrete bag", unit: model.UnitBag,
			qty: float64(posts) * a.FenceBagsPerPost, waste: 0.05, lead: 2,
			notes: fmt.Sprintf("%g bags per post footing allowance", a.FenceBagsPerPost),
		}),
		e.price(line{
			cat: model.CategoryFence, name: "Fence rail", unit: model.UnitLinear,
			qty: model.Round2(run * float64(rails)), waste: 0.08, lead: 3,
			notes: fmt.Sprintf("%d rails x run length", rails),
		}),
		e.price(line{
			cat: model.CategoryFence, name: "Fence hardware kit", unit: model.UnitEach,
			qty: float64(kits), lead: 2,
			notes: fmt.Sprintf("Hardware allowance kits per %g lf", a.FenceHardwareKitLf),
		}),
	}

	panel := f.Style == "panel"
	if panel {
		items = append(items, e.price(line{
			cat: model.CategoryFence, name: "Fence panel", unit: model.UnitEach,
			qty: float64(ceilInt(run / a.FencePanelWidthFt)), waste: 0.05, lead: 5,
			notes: fmt.Sprintf("Panel count at %g lf sections", a.FencePanelWidthFt),
		}))
	} else {
		pitch := math.Max(f.PicketWidthIn+f.PicketGapIn, minPicketPitchIn)
		items = append(items, e.price(line{
			cat: model.CategoryFence, name: "Fence picket", unit: model.UnitEach,
			qty: float64(ceilInt(run * 12 / pitch)), waste: 0.08, lead: 4,
			notes: fmt.Sprintf("%s pickets with width+gap spacing", f.Style),
		}))
	}
	if gates > 0 {
		items = append(items, e.price(line{
			cat: model.CategoryFence, name: "Fence gate allowance", unit: model.UnitEach,
			qty: float64(gates), lead: 7,
			notes: fmt.Sprintf("%d gate(s) @ %gft allowance", gates, f.GateWidthFt),
		}))
	}

	picketFormula, panelFormula := "ceil((fence_length_ft*12)/(picket_width_in+picket_gap_in))", "0"
	if panel {
		picketFormula, panelFormula = "0", fmt.Sprintf("ceil(fence_length_ft/%g)", a.FencePanelWidthFt)
	}

	return model.TakeoffResult{
		DesignMode: model.ModeFence,
		Assumptions: model.TakeoffAssumptions{
			JoistMaterial:  "N/A (fence mode)",
			BagsPerFooting: a.FenceBagsPerPost,
			Formulas: map[string]string{
				"fence_length_ft":     "sum of side lengths for corner and U layouts",
				"fence_posts":         "sum(ceil(side_ft/fence_post_spacing_ft)) + 1 + (gate_count*2)",
				"fence_concrete_bags": fmt.Sprintf("fence_posts * %g", a.FenceBagsPerPost),
				"fence_rail_lf":       "fence_length_ft * fence_rail_count",
				"fence_hardware_kits": fmt.Sprintf("ceil(fence_length_ft/%g)", a.FenceHardwareKitLf),
				"fence_pickets":       picketFormula,
				"fence_panels":        panelFormula,
			},
			Constants: map[string]any{
				"fence_layout":              string(f.Layout),
				"fence_sides":               len(sides),
				"fence_run_ft":              model.Round2(run),
				"fence_post_spacing_ft":     spacing,
				"fence_rail_count":          rails,
				"fence_bags_per_post":       a.FenceBagsPerPost,
				"fence_hardware_kit_lf":     a.FenceHardwareKitLf,
				"cost_formula":              costFormula,
				"non_structural_disclaimer": true,
			},
			NonStructuralDisclaimer: true,
		},
		Items:  items,
		Totals: model.TakeoffTotals{DeckSqft: model.Round2(run * math.Max(model.Finite(f.HeightFt, 0), 0))},
	}, nil
}
