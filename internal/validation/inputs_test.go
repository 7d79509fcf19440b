package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/model"
)

func validDeck() model.DeckInputs {
	d := model.DefaultDeckInputs()
	d.LengthFt = 20
	d.WidthFt = 12
	d.HeightFt = 3
	return d
}

func validFence() model.FenceInputs {
	f := model.DefaultFenceInputs()
	f.LengthFt = 120
	f.HeightFt = 6
	return f
}

func hasField(results []Result, field string) bool {
	for _, r := range results {
		if r.Field == field {
			return true
		}
	}
	return false
}

func TestValidDeckPasses(t *testing.T) {
	r := ValidateDesignInputs(validDeck())
	if !r.Valid {
		t.Fatalf("expected valid, got errors: %+v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", r.Warnings)
	}
	if r.Err() != nil {
		t.Errorf("valid report should have nil Err, got %v", r.Err())
	}
	if r.Summary != "0 errors, 0 warnings, 0 info" {
		t.Errorf("unexpected summary %q", r.Summary)
	}
}

func TestValidFencePasses(t *testing.T) {
	r := ValidateDesignInputs(validFence())
	if !r.Valid {
		t.Fatalf("expected valid, got errors: %+v", r.Errors)
	}
}

func TestNegativeDimensionsRejected(t *testing.T) {
	d := validDeck()
	d.LengthFt = -4
	d.HeightFt = math.Inf(1)
	d.StairCount = -1

	r := ValidateDesignInputs(d)
	if r.Valid {
		t.Fatal("expected invalid report")
	}
	for _, field := range []string{"deck_length_ft", "deck_height_ft", "stair_count"} {
		if !hasField(r.Errors, field) {
			t.Errorf("expected error on %s, got %+v", field, r.Errors)
		}
	}

	err := r.Err()
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if !strings.Contains(err.Error(), "deck_length_ft") {
		t.Errorf("error should name the field, got %v", err)
	}
}

func TestBadEnumsRejected(t *testing.T) {
	d := validDeck()
	d.DeckingMaterial = "bamboo"
	d.RailingType = "glass"
	d.JoistSpacingIn = 20

	r := ValidateDesignInputs(d)
	for _, field := range []string{"decking_material", "railing_type", "joist_spacing_in"} {
		if !hasField(r.Errors, field) {
			t.Errorf("expected error on %s", field)
		}
	}
}

func TestCompositeSpacingIsInfo(t *testing.T) {
	d := validDeck()
	d.DeckingMaterial = model.DeckingComposite
	d.JoistSpacingIn = 24

	r := ValidateDesignInputs(d)
	if !r.Valid {
		t.Fatalf("composite at 24 in should be valid, got %+v", r.Errors)
	}
	if !hasField(r.Info, "joist_spacing_in") {
		t.Errorf("expected spacing info, got %+v", r.Info)
	}
}

func TestPolygonNonFiniteRejected(t *testing.T) {
	d := validDeck()
	d.ShapeMode = model.ShapePolygon
	d.PolygonPoints = model.Outline{{X: 0, Y: 0}, {X: math.NaN(), Y: 0}, {X: 10, Y: 10}}

	r := ValidateDesignInputs(d)
	if !hasField(r.Errors, "deck_polygon_points[1]") {
		t.Errorf("expected error on point 1, got %+v", r.Errors)
	}
}

func TestIncompletePolygonIsWarning(t *testing.T) {
	d := validDeck()
	d.ShapeMode = model.ShapePolygon
	d.LengthFt, d.WidthFt = 0, 0
	d.PolygonPoints = model.Outline{{X: 0, Y: 0}, {X: 10, Y: 0}}

	r := ValidateDesignInputs(d)
	if !r.Valid {
		t.Fatalf("incomplete polygon should not be an error, got %+v", r.Errors)
	}
	if !hasField(r.Warnings, "deck_polygon_points") {
		t.Errorf("expected polygon warning, got %+v", r.Warnings)
	}
}

func TestPolygonLedgerEdgeOutOfRange(t *testing.T) {
	d := validDeck()
	d.ShapeMode = model.ShapePolygon
	d.PolygonPoints = model.Outline{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	idx := 7
	d.LedgerEdgeIndex = &idx

	r := ValidateDesignInputs(d)
	if !hasField(r.Warnings, "ledger_edge_index") {
		t.Errorf("expected ledger edge warning, got %+v", r.Warnings)
	}
}

func TestIncompleteCoverIsWarning(t *testing.T) {
	d := validDeck()
	d.Cover = &model.CoverPackage{RoofType: "gable", RoofLengthFt: 20, RoofWidthFt: 12, RafterSpacingIn: 16, CeilingFinish: "none"}

	r := ValidateDesignInputs(d)
	if !r.Valid {
		t.Fatalf("incomplete cover should not be an error, got %+v", r.Errors)
	}
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0].Message, "Roof pitch") {
		t.Errorf("expected missing-field warning, got %+v", r.Warnings)
	}
}

func TestCoverBadFinishRejected(t *testing.T) {
	d := validDeck()
	d.Cover = &model.CoverPackage{RafterSpacingIn: 16, CeilingFinish: "plaster"}

	r := ValidateDesignInputs(d)
	if !hasField(r.Errors, "cover.ceiling_finish") {
		t.Errorf("expected ceiling finish error, got %+v", r.Errors)
	}
}

func TestFenceChecks(t *testing.T) {
	f := validFence()
	f.Layout = model.FenceCorner
	f.SideAFt = 40
	f.Style = "lattice"
	f.GateCount = -2
	f.PicketGapIn = math.NaN()

	r := ValidateDesignInputs(f)
	for _, field := range []string{"fence_style", "fence_gate_count", "fence_picket_gap_in"} {
		if !hasField(r.Errors, field) {
			t.Errorf("expected error on %s, got %+v", field, r.Errors)
		}
	}
	if !hasField(r.Warnings, "fence_layout") {
		t.Errorf("expected missing side warning, got %+v", r.Warnings)
	}
}

func TestFenceZeroRunWarns(t *testing.T) {
	f := validFence()
	f.LengthFt = 0

	r := ValidateDesignInputs(f)
	if !r.Valid {
		t.Fatalf("zero run should only warn, got %+v", r.Errors)
	}
	if !hasField(r.Warnings, "fence_length_ft") {
		t.Errorf("expected zero run warning, got %+v", r.Warnings)
	}
}

func TestNilPointerInputs(t *testing.T) {
	var d *model.DeckInputs
	if ValidateDesignInputs(d).Valid {
		t.Error("nil deck pointer should be invalid")
	}
}

func TestReportMerge(t *testing.T) {
	a := NewReport()
	a.AddWarning(Result{Message: "w"})
	b := NewReport()
	b.AddError(Result{Message: "e"})
	a.Merge(b)
	if a.Valid || len(a.Errors) != 1 || len(a.Warnings) != 1 {
		t.Errorf("unexpected merged report %+v", a)
	}
	if a.Errors[0].Severity != SeverityError {
		t.Errorf("expected error severity, got %s", a.Errors[0].Severity)
	}
}

func TestOversizedDimensionsRejected(t *testing.T) {
	d := validDeck()
	d.LengthFt = 1e6
	d.WidthFt = MaxDimensionFt + 1
	d.PerimeterOverrideLf = MaxRunLf + 1
	d.StairCount = MaxItemCount + 1

	r := ValidateDesignInputs(d)
	if r.Valid {
		t.Fatal("expected invalid report")
	}
	for _, field := range []string{"deck_length_ft", "deck_width_ft", "deck_perimeter_override_lf", "stair_count"} {
		if !hasField(r.Errors, field) {
			t.Errorf("expected error on %s, got %+v", field, r.Errors)
		}
	}

	d = validDeck()
	d.LengthFt, d.WidthFt = MaxDimensionFt, MaxDimensionFt
	if r := ValidateDesignInputs(d); !r.Valid {
		t.Errorf("dimensions at the limit should pass, got %+v", r.Errors)
	}
}

func TestOversizedPolygonRejected(t *testing.T) {
	d := validDeck()
	d.ShapeMode = model.ShapePolygon
	d.PolygonPoints = model.Outline{{X: 0, Y: 0}, {X: 5000, Y: 0}, {X: 5000, Y: 10}}
	if r := ValidateDesignInputs(d); !hasField(r.Errors, "deck_polygon_points") {
		t.Errorf("expected extent error, got %+v", r.Errors)
	}

	d.PolygonPoints = make(model.Outline, MaxPolygonPoints+1)
	for i := range d.PolygonPoints {
		d.PolygonPoints[i] = model.Point2D{X: float64(i % 10), Y: float64(i / 10)}
	}
	if r := ValidateDesignInputs(d); !hasField(r.Errors, "deck_polygon_points") {
		t.Errorf("expected point count error, got %+v", r.Errors)
	}

	// A zigzag inside the extent limit whose perimeter is still too long.
	d.PolygonPoints = nil
	for i := 0; i < 20; i++ {
		d.PolygonPoints = append(d.PolygonPoints,
			model.Point2D{X: float64(i), Y: 0}, model.Point2D{X: float64(i) + 0.5, Y: 900})
	}
	if r := ValidateDesignInputs(d); !hasField(r.Errors, "deck_polygon_points") {
		t.Errorf("expected perimeter error, got %+v", r.Errors)
	}
}

func TestOversizedCoverAndFenceRejected(t *testing.T) {
	d := validDeck()
	d.Cover = &model.CoverPackage{RoofLengthFt: 2000, RoofWidthFt: 12, RafterSpacingIn: 16, CeilingFinish: "none"}
	if r := ValidateDesignInputs(d); !hasField(r.Errors, "cover.roof_length_ft") {
		t.Errorf("expected roof length error, got %+v", r.Errors)
	}

	f := validFence()
	f.LengthFt = 1e7
	f.GateCount = MaxItemCount + 1
	r := ValidateDesignInputs(f)
	for _, field := range []string{"fence_length_ft", "fence_gate_count"} {
		if !hasField(r.Errors, field) {
			t.Errorf("expected error on %s, got %+v", field, r.Errors)
		}
	}
}

func TestPolygonWithoutLedgerEdgeUsesFirstEdge(t *testing.T) {
	d := validDeck()
	d.ShapeMode = model.ShapePolygon
	d.Ledger = true
	d.PolygonPoints = model.Outline{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}

	r := ValidateDesignInputs(d)
	found := false
	for _, i := range r.Info {
		if i.Field == "ledger_edge_index" && strings.Contains(i.Message, "edge 0") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected edge 0 info, got %+v", r.Info)
	}
}
