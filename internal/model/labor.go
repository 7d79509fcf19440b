package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LaborRates holds the crew pay rate for a template.
type LaborRates struct {
	BaseRate  float64 `json:"base_rate" toml:"base_rate"`   // $/hr before burden
	BurdenPct float64 `json:"burden_pct" toml:"burden_pct"` // payroll burden as a fraction
}

// DefaultLaborRates returns the standard crew rate.
func DefaultLaborRates() LaborRates {
	return LaborRates{BaseRate: 55, BurdenPct: 0.18}
}

// UnmarshalJSON decodes over the defaults so omitted keys keep them.
func (r *LaborRates) UnmarshalJSON(data []byte) error {
	type plain LaborRates
	v := plain(DefaultLaborRates())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = LaborRates(v)
	return nil
}

// Burdened returns base_rate * (1 + burden_pct), guarding non-finite values.
func (r LaborRates) Burdened() float64 {
	def := DefaultLaborRates()
	base := Finite(r.BaseRate, def.BaseRate)
	burden := Finite(r.BurdenPct, def.BurdenPct)
	return base * (1 + burden)
}

// LaborProduction holds per-unit production rates in hours.
type LaborProduction struct {
	FramingHrsPerSqft    float64 `json:"framing_hrs_per_sqft" toml:"framing_hrs_per_sqft"`
	DeckingHrsPerSqft    float64 `json:"decking_hrs_per_sqft" toml:"decking_hrs_per_sqft"`
	RailingHrsPerLf      float64 `json:"railing_hrs_per_lf" toml:"railing_hrs_per_lf"`
	StairsHrsEach        float64 `json:"stairs_hrs_each" toml:"stairs_hrs_each"`
	CoverHrsPerSqft      float64 `json:"cover_hrs_per_sqft" toml:"cover_hrs_per_sqft"`
	FootingsHrsEach      float64 `json:"footings_hrs_each" toml:"footings_hrs_each"`
	DemoHrs              float64 `json:"demo_hrs" toml:"demo_hrs"` // 0 means estimate from size
	FenceLayoutHrsPerLf  float64 `json:"fence_layout_hrs_per_lf" toml:"fence_layout_hrs_per_lf"`
	FenceRailsHrsPerLf   float64 `json:"fence_rails_hrs_per_lf" toml:"fence_rails_hrs_per_lf"`
	FencePicketsHrsPerLf float64 `json:"fence_pickets_hrs_per_lf" toml:"fence_pickets_hrs_per_lf"`
	FenceGateHrsEach     float64 `json:"fence_gate_hrs_each" toml:"fence_gate_hrs_each"`
}

// DefaultLaborProduction returns the standard production rates.
func DefaultLaborProduction() LaborProduction {
	return LaborProduction{
		FramingHrsPerSqft:    0.06,
		DeckingHrsPerSqft:    0.04,
		RailingHrsPerLf:      0.15,
		StairsHrsEach:        6,
		CoverHrsPerSqft:      0.08,
		FootingsHrsEach:      0.75,
		FenceLayoutHrsPerLf:  0.05,
		FenceRailsHrsPerLf:   0.07,
		FencePicketsHrsPerLf: 0.08,
		FenceGateHrsEach:     2.5,
	}
}

// UnmarshalJSON decodes over the defaults so omitted keys keep them.
func (p *LaborProduction) UnmarshalJSON(data []byte) error {
	type plain LaborProduction
	v := plain(DefaultLaborProduction())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = LaborProduction(v)
	return nil
}

// Sanitized replaces non-finite or negative rates with the defaults.
func (p LaborProduction) Sanitized() LaborProduction {
	def := DefaultLaborProduction()
	fix := func(v, d float64) float64 {
		v = Finite(v, d)
		if v < 0 {
			return d
		}
		return v
	}
	return LaborProduction{
		FramingHrsPerSqft:    fix(p.FramingHrsPerSqft, def.FramingHrsPerSqft),
		DeckingHrsPerSqft:    fix(p.DeckingHrsPerSqft, def.DeckingHrsPerSqft),
		RailingHrsPerLf:      fix(p.RailingHrsPerLf, def.RailingHrsPerLf),
		StairsHrsEach:        fix(p.StairsHrsEach, def.StairsHrsEach),
		CoverHrsPerSqft:      fix(p.CoverHrsPerSqft, def.CoverHrsPerSqft),
		FootingsHrsEach:      fix(p.FootingsHrsEach, def.FootingsHrsEach),
		DemoHrs:              fix(p.DemoHrs, 0),
		FenceLayoutHrsPerLf:  fix(p.FenceLayoutHrsPerLf, def.FenceLayoutHrsPerLf),
		FenceRailsHrsPerLf:   fix(p.FenceRailsHrsPerLf, def.FenceRailsHrsPerLf),
		FencePicketsHrsPerLf: fix(p.FencePicketsHrsPerLf, def.FencePicketsHrsPerLf),
		FenceGateHrsEach:     fix(p.FenceGateHrsEach, def.FenceGateHrsEach),
	}
}

// LaborTemplate is a named rate and production profile.
type LaborTemplate struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
	Rates      LaborRates      `json:"rates"`
	Production LaborProduction `json:"production"`
}

// NewLaborTemplate creates a template with a generated ID and timestamps.
func NewLaborTemplate(name string, rates LaborRates, production LaborProduction) LaborTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return LaborTemplate{
		ID:         uuid.New().String()[:8],
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
		Rates:      rates,
		Production: production,
	}
}

// Standard template names.
const (
	TemplateDeckOnly    = "Deck Only - Standard"
	TemplateCoveredDeck = "Covered Deck - Standard"
	TemplateFence       = "Fence - Standard"
)

// DefaultLaborTemplates returns the built-in templates.
func DefaultLaborTemplates() []LaborTemplate {
	deck := DefaultLaborProduction()
	deck.CoverHrsPerSqft = 0
	deck.FenceLayoutHrsPerLf, deck.FenceRailsHrsPerLf, deck.FencePicketsHrsPerLf, deck.FenceGateHrsEach = 0, 0, 0, 0

	covered := DefaultLaborProduction()
	covered.FootingsHrsEach = 0.9
	covered.FenceLayoutHrsPerLf, covered.FenceRailsHrsPerLf, covered.FencePicketsHrsPerLf, covered.FenceGateHrsEach = 0, 0, 0, 0

	fence := LaborProduction{
		FenceLayoutHrsPerLf:  0.05,
		FenceRailsHrsPerLf:   0.07,
		FencePicketsHrsPerLf: 0.08,
		FenceGateHrsEach:     2.5,
	}

	return []LaborTemplate{
		{ID: "deck-std", Name: TemplateDeckOnly, Rates: DefaultLaborRates(), Production: deck},
		{ID: "covered-std", Name: TemplateCoveredDeck, Rates: DefaultLaborRates(), Production: covered},
		{ID: "fence-std", Name: TemplateFence, Rates: DefaultLaborRates(), Production: fence},
	}
}

// DefaultTemplateFor picks the built-in template matching the design.
func DefaultTemplateFor(in DesignInputs) LaborTemplate {
	templates := DefaultLaborTemplates()
	switch v := in.(type) {
	case FenceInputs, *FenceInputs:
		return templates[2]
	case DeckInputs:
		if v.Covered() {
			return templates[1]
		}
	case *DeckInputs:
		if v != nil && v.Covered() {
			return templates[1]
		}
	}
	return templates[0]
}

// LaborTemplateStore holds a collection of labor templates.
type LaborTemplateStore struct {
	Templates []LaborTemplate `json:"templates"`
}

// NewLaborTemplateStore creates a store seeded with the built-in templates.
func NewLaborTemplateStore() LaborTemplateStore {
	return LaborTemplateStore{Templates: DefaultLaborTemplates()}
}

// Add adds a template to the store.
func (s *LaborTemplateStore) Add(t LaborTemplate) {
	s.Templates = append(s.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (s *LaborTemplateStore) Remove(id string) bool {
	for i, t := range s.Templates {
		if t.ID == id {
			s.Templates = append(s.Templates[:i], s.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (s *LaborTemplateStore) FindByID(id string) *LaborTemplate {
	for i := range s.Templates {
		if s.Templates[i].ID == id {
			return &s.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (s *LaborTemplateStore) FindByName(name string) *LaborTemplate {
	for i := range s.Templates {
		if s.Templates[i].Name == name {
			return &s.Templates[i]
		}
	}
	return nil
}

// Names returns the template names in store order.
func (s *LaborTemplateStore) Names() []string {
	names := make([]string, len(s.Templates))
	for i, t := range s.Templates {
		names[i] = t.Name
	}
	return names
}

// LaborTask is one line of the labor plan.
type LaborTask struct {
	Key            string  `json:"key"`
	Task           string  `json:"task"`
	QuantityDriver string  `json:"quantity_driver"`
	Quantity       float64 `json:"quantity"`
	Hours          float64 `json:"hours"`
	Rate           float64 `json:"rate"`
	Cost           float64 `json:"cost"`
	Overridden     bool    `json:"overridden,omitempty"`
}

// LaborPlanResult is the derived labor plan for a design.
type LaborPlanResult struct {
	Template       string      `json:"template"`
	Tasks          []LaborTask `json:"tasks"`
	TotalHours     float64     `json:"total_hours"`
	TotalLaborCost float64     `json:"total_labor_cost"`
}

// TaskOverride replaces the computed hours and/or rate of one task.
type TaskOverride struct {
	Hours *float64 `json:"hours,omitempty"`
	Rate  *float64 `json:"rate,omitempty"`
}

// LaborOptions tunes labor plan generation.
type LaborOptions struct {
	IncludeDemo bool                    `json:"include_demo"`
	Overrides   map[string]TaskOverride `json:"overrides,omitempty"` // keyed by task key
}
