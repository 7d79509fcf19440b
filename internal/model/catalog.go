package model

import (
	"strings"

	"github.com/google/uuid"
)

// CatalogEntry is one priced material in the catalog. When an item's
// PriceKey carries a length, UnitCost is treated as a per-foot price.
type CatalogEntry struct {
	ID          string  `json:"id"`
	Base        string  `json:"base"`
	UnitCost    float64 `json:"unit_cost"`
	Vendor      string  `json:"vendor"`
	IsAllowance bool    `json:"is_allowance"`
}

// NewCatalogEntry creates a CatalogEntry with a generated ID.
func NewCatalogEntry(base string, unitCost float64, vendor string, allowance bool) CatalogEntry {
	return CatalogEntry{
		ID:          uuid.New().String()[:8],
		Base:        base,
		UnitCost:    unitCost,
		Vendor:      vendor,
		IsAllowance: allowance,
	}
}

// Price is the resolved cost for a PriceKey.
type Price struct {
	UnitCost    float64
	Vendor      string
	IsAllowance bool
	Found       bool
}

// PriceCatalog holds the material prices used by the itemizer.
type PriceCatalog struct {
	Entries []CatalogEntry `json:"entries"`
}

// Lookup resolves a structured key. Base names match case-insensitively.
// Unknown keys price at zero and are flagged as allowances so the line is
// visibly incomplete.
func (c PriceCatalog) Lookup(key PriceKey) Price {
	e := c.FindByBase(key.Base)
	if e == nil {
		return Price{IsAllowance: true}
	}
	cost := Finite(e.UnitCost, 0)
	if key.LengthFt > 0 {
		cost = Round2(cost * key.LengthFt)
	}
	return Price{
		UnitCost:    cost,
		Vendor:      e.Vendor,
		IsAllowance: e.IsAllowance,
		Found:       true,
	}
}

// FindByBase returns the entry for a base material name, or nil.
func (c *PriceCatalog) FindByBase(base string) *CatalogEntry {
	for i := range c.Entries {
		if strings.EqualFold(c.Entries[i].Base, base) {
			return &c.Entries[i]
		}
	}
	return nil
}

// FindByID returns the entry with the given ID, or nil.
func (c *PriceCatalog) FindByID(id string) *CatalogEntry {
	for i := range c.Entries {
		if c.Entries[i].ID == id {
			return &c.Entries[i]
		}
	}
	return nil
}

// Upsert replaces the entry with the same base name or appends a new one.
// It reports whether an existing entry was replaced.
func (c *PriceCatalog) Upsert(e CatalogEntry) bool {
	if existing := c.FindByBase(e.Base); existing != nil {
		id := existing.ID
		*existing = e
		if existing.ID == "" {
			existing.ID = id
		}
		return true
	}
	if e.ID == "" {
		e.ID = uuid.New().String()[:8]
	}
	c.Entries = append(c.Entries, e)
	return false
}

// Remove deletes an entry by ID. Returns true if found and removed.
func (c *PriceCatalog) Remove(id string) bool {
	for i, e := range c.Entries {
		if e.ID == id {
			c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// DefaultCatalog returns the allowance price book used when no catalog
// file has been configured.
func DefaultCatalog() PriceCatalog {
	const (
		lumber     = "Allowance Lumber Yard"
		composite  = "Allowance Composite Supply"
		fasteners  = "Allowance Fasteners"
		structural = "Allowance Structural Lumber"
		railing    = "Allowance Railing"
		stairs     = "Allowance Stairs"
		roofing    = "Allowance Roofing"
		ceiling    = "Allowance Ceiling"
		cover      = "Allowance Structural"
		fence      = "Allowance Fence Supply"
	)
	entries := []CatalogEntry{
		NewCatalogEntry("2x8 PT joist", 2.9, lumber, false),
		NewCatalogEntry("2x10 PT joist", 3.8, lumber, false),
		NewCatalogEntry("2x8 PT rim joist", 2.95, lumber, false),
		NewCatalogEntry("2x10 PT rim joist", 3.95, lumber, false),
		NewCatalogEntry("PT beam single-ply allowance", 8.5, lumber, true),
		NewCatalogEntry("PT beam double-ply allowance", 16.5, lumber, true),
		NewCatalogEntry("PT beam triple-ply allowance", 24.5, lumber, true),
		NewCatalogEntry("Deck board - wood", 2.1, lumber, false),
		NewCatalogEntry("Deck board - composite", 3.2, composite, true),
		NewCatalogEntry("Deck board takeoff summary", 0, "Calculated Takeoff", true),
		NewCatalogEntry("Exterior screws box", 48, fasteners, false),
		NewCatalogEntry("Joist hanger", 2.25, fasteners, false),
		NewCatalogEntry("Ledger flashing", 4.5, "Allowance Waterproofing", false),
		NewCatalogEntry("Concrete bag", 7.8, "Allowance Concrete", false),
		NewCatalogEntry("4x4 PT structural post", 24, structural, false),
		NewCatalogEntry("6x6 PT structural post", 42, structural, false),
		NewCatalogEntry("Railing - wood allowance", 42, railing, true),
		NewCatalogEntry("Railing - aluminum allowance", 78, railing, true),
		NewCatalogEntry("Railing - cable allowance", 95, railing, true),
		NewCatalogEntry("Railing post", 32, railing, true),
		NewCatalogEntry("Stair stringer", 38, stairs, false),
		NewCatalogEntry("Stair tread boards", 5.5, stairs, false),
		NewCatalogEntry("Stair railing hardware", 90, stairs, true),
		NewCatalogEntry("Roof sheathing", 2.1, roofing, false),
		NewCatalogEntry("Roofing - shingle", 3.85, roofing, false),
		NewCatalogEntry("Roofing - metal", 6.4, roofing, true),
		NewCatalogEntry("Ceiling drywall", 2.35, ceiling, false),
		NewCatalogEntry("Ceiling tongue & groove", 5.9, ceiling, true),
		NewCatalogEntry("Ceiling beadboard", 4.75, ceiling, true),
		NewCatalogEntry("Ceiling fasteners", 0.22, ceiling, false),
		NewCatalogEntry("Fan-rated ceiling plate", 18, ceiling, true),
		NewCatalogEntry("Cover posts allowance", 165, cover, true),
		NewCatalogEntry("Cover beam allowance", 45, cover, true),
		NewCatalogEntry("Fence post", 28, fence, false),
		NewCatalogEntry("Fence rail", 2.7, fence, false),
		NewCatalogEntry("Fence picket", 4.4, fence, false),
		NewCatalogEntry("Fence panel", 145, fence, true),
		NewCatalogEntry("Fence gate allowance", 240, fence, true),
		NewCatalogEntry("Fence hardware kit", 24, fence, false),
	}
	return PriceCatalog{Entries: entries}
}
