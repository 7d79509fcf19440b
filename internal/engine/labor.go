package engine

import (
	"math"
	"regexp"

	"github.com/piwi3910/DeckTakeoff/internal/model"
)

var structuralPostPattern = regexp.MustCompile(`(?i)PT structural post$`)

// GenerateLaborPlan derives labor tasks for a design from its takeoff and a
// labor template. Deck and fence designs emit disjoint task sets.
func GenerateLaborPlan(in model.DesignInputs, takeoff model.TakeoffResult, tpl model.LaborTemplate, opts model.LaborOptions) model.LaborPlanResult {
	prod := tpl.Production.Sanitized()
	rate := tpl.Rates.Burdened()

	var tasks []model.LaborTask
	switch v := in.(type) {
	case model.FenceInputs:
		tasks = fenceLaborTasks(v, prod, rate, opts.IncludeDemo)
	case *model.FenceInputs:
		if v != nil {
			tasks = fenceLaborTasks(*v, prod, rate, opts.IncludeDemo)
		}
	case model.DeckInputs:
		tasks = deckLaborTasks(v, takeoff, prod, rate, opts.IncludeDemo)
	case *model.DeckInputs:
		if v != nil {
			tasks = deckLaborTasks(*v, takeoff, prod, rate, opts.IncludeDemo)
		}
	}

	hours := make([]float64, len(tasks))
	costs := make([]float64, len(tasks))
	for i := range tasks {
		if o, ok := opts.Overrides[tasks[i].Key]; ok {
			applyOverride(&tasks[i], o)
		}
		hours[i] = tasks[i].Hours
		costs[i] = tasks[i].Cost
	}

	return model.LaborPlanResult{
		Template:       tpl.Name,
		Tasks:          tasks,
		TotalHours:     model.SumRound2(hours...),
		TotalLaborCost: model.SumRound2(costs...),
	}
}

func laborTask(key, name, driver string, qty, hours, rate float64) model.LaborTask {
	return model.LaborTask{
		Key:            key,
		Task:           name,
		QuantityDriver: driver,
		Quantity:       model.Round2(qty),
		Hours:          model.Round2(hours),
		Rate:           model.Round2(rate),
		Cost:           model.Round2(hours * rate),
	}
}

// applyOverride replaces hours and/or rate; cost is always recomputed.
func applyOverride(t *model.LaborTask, o model.TaskOverride) {
	if o.Hours == nil && o.Rate == nil {
		return
	}
	if o.Hours != nil {
		t.Hours = model.Finite(*o.Hours, t.Hours)
	}
	if o.Rate != nil {
		t.Rate = model.Finite(*o.Rate, t.Rate)
	}
	t.Cost = model.Round2(t.Hours * t.Rate)
	t.Overridden = true
}

func deckLaborTasks(d model.DeckInputs, takeoff model.TakeoffResult, prod model.LaborProduction, rate float64, demo bool) []model.LaborTask {
	sqft := model.Finite(takeoff.Totals.DeckSqft, 0)

	var railingLf float64
	if items := takeoff.ItemsIn(model.CategoryRailing); len(items) > 0 {
		railingLf = items[0].Qty
	}

	spacing := d.PostSpacingFt
	if spacing <= 0 {
		spacing = model.DefaultDeckInputs().PostSpacingFt
	}
	posts := float64(ceilInt(model.Finite(d.LengthFt, 0)/spacing+1) * max(d.BeamCount, 1))
	if it := takeoff.FindItem(model.CategoryFootings, structuralPostPattern.MatchString); it != nil {
		posts = it.Qty
	}

	var tasks []model.LaborTask
	if demo {
		hrs := prod.DemoHrs
		if hrs <= 0 {
			hrs = math.Max(4, sqft*0.01)
		}
		tasks = append(tasks, laborTask("demo", "Demo", "include_demo", 1, hrs, rate))
	}
	stairs := float64(max(d.StairCount, 0))
	tasks = append(tasks,
		laborTask("footings", "Footings/posts", "post_count", posts, posts*prod.FootingsHrsEach, rate),
		laborTask("framing", "Framing", "deck_sqft", sqft, sqft*prod.FramingHrsPerSqft, rate),
		laborTask("decking", "Decking install", "deck_sqft", sqft, sqft*prod.DeckingHrsPerSqft, rate),
		laborTask("railing", "Railing", "railing_lf", railingLf, railingLf*prod.RailingHrsPerLf, rate),
		laborTask("stairs", "Stairs", "stair_count", stairs, stairs*prod.StairsHrsEach, rate),
	)
	if d.Cover != nil {
		roof := d.Cover.RoofAreaSqft()
		tasks = append(tasks, laborTask("cover", "Cover framing + roofing", "roof_sqft", roof, roof*prod.CoverHrsPerSqft, rate))
	}
	return tasks
}

func fenceLaborTasks(f model.FenceInputs, prod model.LaborProduction, rate float64, demo bool) []model.LaborTask {
	run := f.RunFt()
	gates := float64(max(f.GateCount, 0))

	var tasks []model.LaborTask
	if demo {
		hrs := prod.DemoHrs
		if hrs <= 0 {
			hrs = math.Max(2, run*0.02)
		}
		tasks = append(tasks, laborTask("demo", "Demo", "include_demo", 1, hrs, rate))
	}
	return append(tasks,
		laborTask("fence_layout", "Layout + post install", "fence_length_ft", run, run*prod.FenceLayoutHrsPerLf, rate),
		laborTask("fence_rails", "Rails + panel framing", "fence_length_ft", run, run*prod.FenceRailsHrsPerLf, rate),
		laborTask("fence_finish", "Pickets / panel install", "fence_length_ft", run, run*prod.FencePicketsHrsPerLf, rate),
		laborTask("fence_gates", "Gate install", "fence_gate_count", gates, gates*prod.FenceGateHrsEach, rate),
	)
}
