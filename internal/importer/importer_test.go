package importer

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Material,Unit cost,Vendor\nJoist hanger,2.25,Yard\nPost base,18.50,Yard\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Material;Unit cost;Vendor\nJoist hanger;2,25;Yard\nPost base;18,50;Yard\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Material\tUnit cost\tVendor\nJoist hanger\t2.25\tYard\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_Aliases(t *testing.T) {
	row := []string{"Supplier", "Description", "Price", "Placeholder"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Vendor != 0 || mapping.Base != 1 || mapping.UnitCost != 2 || mapping.Allowance != 3 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeaderIsPositional(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Joist hanger", "2.25", "Yard"})
	if isHeader {
		t.Error("data row should not be detected as a header")
	}
	if mapping.Base != 0 || mapping.UnitCost != 1 || mapping.Vendor != 2 || mapping.Allowance != 3 {
		t.Errorf("unexpected positional mapping %+v", mapping)
	}
}

// ─── parseCost Tests ───────────────────────────────────────

func TestParseCost(t *testing.T) {
	cases := map[string]float64{
		"2.25":      2.25,
		"$18.50":    18.5,
		"$1,234.50": 1234.5,
		" 7 ":       7,
	}
	for in, want := range cases {
		got, err := parseCost(in)
		if err != nil {
			t.Errorf("parseCost(%q) returned error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("parseCost(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := parseCost("call"); err == nil {
		t.Error("expected error for non-numeric cost")
	}
}

// ─── ImportCSV Tests ───────────────────────────────────────

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportCSV_WithHeader(t *testing.T) {
	path := writeTemp(t, "prices.csv",
		"Material,Unit cost,Vendor,Allowance\n"+
			"Joist hanger,2.25,Lumber Yard,no\n"+
			"Post base,$18.50,Lumber Yard,\n"+
			"Stair kit,\"$1,234.00\",Builder Supply,yes\n")

	result := ImportCSV(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(result.Entries))
	}

	kit := result.Entries[2]
	if kit.Base != "Stair kit" || kit.UnitCost != 1234 || !kit.IsAllowance {
		t.Errorf("unexpected stair kit entry %+v", kit)
	}
	if result.Entries[0].Vendor != "Lumber Yard" || result.Entries[0].ID == "" {
		t.Errorf("unexpected first entry %+v", result.Entries[0])
	}
}

func TestImportCSV_SemicolonNoHeader(t *testing.T) {
	path := writeTemp(t, "prices.csv", "Joist hanger;2.25;Deck Depot\nPost base;18.5;Deck Depot\n")

	result := ImportCSV(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_DuplicateLaterRowWins(t *testing.T) {
	path := writeTemp(t, "prices.csv",
		"Material,Price\nJoist hanger,2.25\njoist hanger,2.40\n")

	result := ImportCSV(path)
	if len(result.Entries) != 1 {
		t.Fatalf("expected duplicates to collapse, got %d entries", len(result.Entries))
	}
	if result.Entries[0].UnitCost != 2.4 {
		t.Errorf("expected later price 2.40, got %v", result.Entries[0].UnitCost)
	}
	if len(result.Warnings) < 2 {
		t.Errorf("expected header and duplicate warnings, got %v", result.Warnings)
	}
}

func TestImportCSV_RowErrors(t *testing.T) {
	path := writeTemp(t, "prices.csv",
		"Material,Unit cost\n,4.00\nPost base,call\nBolt,-1\nLag screw,0.85\n")

	result := ImportCSV(path)
	if len(result.Entries) != 1 || result.Entries[0].Base != "Lag screw" {
		t.Errorf("expected only the valid row, got %+v", result.Entries)
	}
	if len(result.Errors) != 3 {
		t.Errorf("expected 3 row errors, got %v", result.Errors)
	}
}

func TestImportCSV_MissingCostColumn(t *testing.T) {
	path := writeTemp(t, "prices.csv", "Material,Vendor\nJoist hanger,Yard\n")

	result := ImportCSV(path)
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Unit cost") {
		t.Errorf("expected missing column error, got %v", result.Errors)
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	result := ImportCSV(writeTemp(t, "empty.csv", "  \n"))
	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

func TestImportCSVFromReader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Item|Cost\nHidden fastener|0.42\n"), '|')
	if len(result.Entries) != 1 || result.Entries[0].UnitCost != 0.42 {
		t.Errorf("unexpected result %+v", result)
	}
}

// ─── ImportExcel Tests ─────────────────────────────────────

func TestImportExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Product", "Unit price", "Yard"},
		{"Concrete bag", 6.75, "Builder Supply"},
		{"Post cap", 12, "Builder Supply"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	result := ImportFile(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if result.Entries[0].Base != "Concrete bag" || result.Entries[0].UnitCost != 6.75 {
		t.Errorf("unexpected entry %+v", result.Entries[0])
	}
}

func TestImportExcel_MissingFile(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "nope.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

// ─── ImportFootprint Tests ─────────────────────────────────

func saveDrawing(t *testing.T, build func(d *drawing.Drawing)) string {
	t.Helper()
	d := dxf.NewDrawing()
	build(d)
	path := filepath.Join(t.TempDir(), "footprint.dxf")
	if err := d.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func polyLines(d *drawing.Drawing, pts [][2]float64) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		d.Line(a[0], a[1], 0, b[0], b[1], 0)
	}
}

func TestImportFootprint_LShapeInInches(t *testing.T) {
	// 20x12 ft deck with an 8x4 ft notch, drawn in inches away from the origin
	path := saveDrawing(t, func(d *drawing.Drawing) {
		pts := [][2]float64{
			{120, 240}, {360, 240}, {360, 336}, {264, 336}, {264, 384}, {120, 384},
		}
		polyLines(d, pts)
		d.Circle(200, 300, 0, 12)
	})

	result := ImportFootprint(path, FootprintOptions{UnitsPerFoot: 12})
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Shapes != 2 || len(result.Warnings) == 0 {
		t.Errorf("expected 2 shapes with a warning, got %d %v", result.Shapes, result.Warnings)
	}
	if result.AreaSqft != 208 {
		t.Errorf("expected 208 sqft, got %v", result.AreaSqft)
	}
	if result.Perimeter != 64 {
		t.Errorf("expected 64 ft perimeter, got %v", result.Perimeter)
	}
	min, max := result.Outline.BoundingBox()
	if min != (model.Point2D{}) || max != (model.Point2D{X: 20, Y: 12}) {
		t.Errorf("expected normalized 20x12 bounds, got %v %v", min, max)
	}

	deck := model.DefaultDeckInputs()
	result.ApplyToDeck(&deck)
	if deck.ShapeMode != model.ShapePolygon || len(deck.PolygonPoints) != 6 {
		t.Errorf("deck not switched to polygon: %+v", deck)
	}
	if deck.LengthFt != 20 || deck.WidthFt != 12 {
		t.Errorf("expected 20x12 deck, got %vx%v", deck.LengthFt, deck.WidthFt)
	}
}

func TestImportFootprint_OpenLinesOnly(t *testing.T) {
	path := saveDrawing(t, func(d *drawing.Drawing) {
		d.Line(0, 0, 0, 10, 0, 0)
		d.Line(10, 0, 0, 10, 10, 0)
		d.Line(10, 10, 0, 0, 10, 0)
	})

	result := ImportFootprint(path, FootprintOptions{})
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "No closed shapes") {
		t.Errorf("expected no closed shapes error, got %v", result.Errors)
	}
}

func TestImportFootprint_CircleInFeet(t *testing.T) {
	path := saveDrawing(t, func(d *drawing.Drawing) {
		d.Circle(50, 50, 0, 6)
	})

	result := ImportFootprint(path, FootprintOptions{UnitsPerFoot: math.NaN()})
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	// 32-gon inscribed in a 6 ft circle
	if math.Abs(result.AreaSqft-112.37) > 0.05 {
		t.Errorf("expected about 112.37 sqft, got %v", result.AreaSqft)
	}
}

func TestImportFootprint_MissingFile(t *testing.T) {
	result := ImportFootprint(filepath.Join(t.TempDir(), "missing.dxf"), FootprintOptions{})
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}
