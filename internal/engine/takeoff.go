package engine

import (
	"strings"

	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/model"
)

const costFormula = "line_total = qty*(1+waste_factor)*unit_cost; materials_subtotal = sum(line_total)"

// Estimator generates takeoffs from design inputs. It holds only read-only
// configuration, so one Estimator may serve concurrent callers.
type Estimator struct {
	Assumptions model.Assumptions
	Catalog     model.PriceCatalog
}

// New creates an Estimator. The assumptions are normalized up front.
func New(a model.Assumptions, catalog model.PriceCatalog) *Estimator {
	return &Estimator{Assumptions: a.Normalized(), Catalog: catalog}
}

// GenerateTakeoff prices a takeoff with the default catalog. A nil
// overrides pointer means the default assumptions.
func GenerateTakeoff(in model.DesignInputs, overrides *model.Assumptions) (model.TakeoffResult, error) {
	a := model.DefaultAssumptions()
	if overrides != nil {
		a = *overrides
	}
	return New(a, model.DefaultCatalog()).GenerateTakeoff(in)
}

// GenerateTakeoff builds the priced bill of materials for one design.
// The same inputs always produce the same result, item order included.
func (e *Estimator) GenerateTakeoff(in model.DesignInputs) (model.TakeoffResult, error) {
	var res model.TakeoffResult
	var err error
	switch v := in.(type) {
	case model.DeckInputs:
		res, err = e.deckTakeoff(v)
	case *model.DeckInputs:
		if v == nil {
			return model.TakeoffResult{}, errors.New(errors.ErrCodeInvalidInput, "deck inputs are nil")
		}
		res, err = e.deckTakeoff(*v)
	case model.FenceInputs:
		res, err = e.fenceTakeoff(v)
	case *model.FenceInputs:
		if v == nil {
			return model.TakeoffResult{}, errors.New(errors.ErrCodeInvalidInput, "fence inputs are nil")
		}
		res, err = e.fenceTakeoff(*v)
	default:
		return model.TakeoffResult{}, errors.New(errors.ErrCodeInvalidInput, "unsupported design inputs %T", in)
	}
	if err != nil {
		return model.TakeoffResult{}, err
	}

	res.Totals.MaterialsSubtotal = model.MaterialsSubtotal(res.Items)
	res.Totals.ItemCount = len(res.Items)
	for _, it := range res.Items {
		if it.IsAllowance {
			res.Totals.AllowanceCount++
		}
	}
	return res, nil
}

// line collects the fields of a takeoff item before pricing.
type line struct {
	cat   model.Category
	name  string
	key   model.PriceKey
	unit  model.Unit
	qty   float64
	waste float64
	lead  int
	notes string
}

// price resolves the line against the catalog. When no name is given the
// price key doubles as the display name.
func (e *Estimator) price(l line) model.TakeoffItem {
	if l.key.Base == "" {
		l.key.Base = l.name
	}
	if l.name == "" {
		l.name = l.key.String()
	}
	p := e.Catalog.Lookup(l.key)
	return model.TakeoffItem{
		Category:     l.cat,
		Name:         l.name,
		PriceKey:     l.key,
		Unit:         l.unit,
		Qty:          model.Finite(l.qty, 0),
		WasteFactor:  l.waste,
		UnitCost:     p.UnitCost,
		Vendor:       p.Vendor,
		LeadTimeDays: l.lead,
		Notes:        l.notes,
		IsAllowance:  p.IsAllowance,
	}
}

// summary is an unpriced audit line that carries a calculated quantity.
func summary(l line) model.TakeoffItem {
	return model.TakeoffItem{
		Category:     l.cat,
		Name:         l.name,
		PriceKey:     model.PriceKey{Base: l.name},
		Unit:         l.unit,
		Qty:          model.Finite(l.qty, 0),
		WasteFactor:  l.waste,
		Vendor:       "Calculated",
		LeadTimeDays: l.lead,
		Notes:        l.notes,
		IsAllowance:  true,
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
