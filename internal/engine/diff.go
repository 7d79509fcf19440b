package engine

import "github.com/piwi3910/DeckTakeoff/internal/model"

// ItemChange is a line present in both takeoffs whose quantity or price moved.
type ItemChange struct {
	Key  string            `json:"key"`
	Name string            `json:"name"`
	From model.TakeoffItem `json:"from"`
	To   model.TakeoffItem `json:"to"`
}

// TakeoffDiff lists what changed between two takeoff versions.
type TakeoffDiff struct {
	Added          []model.TakeoffItem `json:"added"`
	Removed        []model.TakeoffItem `json:"removed"`
	Changed        []ItemChange        `json:"changed"`
	SubtotalChange float64             `json:"subtotal_change"`
}

// Empty reports whether the two versions carry the same lines.
func (d TakeoffDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// DiffTakeoffs compares two takeoffs line by line, matching on category and
// name. Added and changed lines follow curr's order; removed lines follow prev's.
func DiffTakeoffs(prev, curr model.TakeoffResult) TakeoffDiff {
	before := make(map[string]model.TakeoffItem, len(prev.Items))
	for _, it := range prev.Items {
		before[it.Key()] = it
	}
	seen := make(map[string]bool, len(curr.Items))

	var d TakeoffDiff
	for _, it := range curr.Items {
		k := it.Key()
		seen[k] = true
		old, ok := before[k]
		switch {
		case !ok:
			d.Added = append(d.Added, it)
		case old.Qty != it.Qty || old.UnitCost != it.UnitCost || old.WasteFactor != it.WasteFactor:
			d.Changed = append(d.Changed, ItemChange{Key: k, Name: it.Name, From: old, To: it})
		}
	}
	for _, it := range prev.Items {
		if !seen[it.Key()] {
			d.Removed = append(d.Removed, it)
		}
	}
	d.SubtotalChange = model.Round2(model.MaterialsSubtotal(curr.Items) - model.MaterialsSubtotal(prev.Items))
	return d
}
