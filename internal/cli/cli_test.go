package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/DeckTakeoff/internal/engine"
	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/piwi3910/DeckTakeoff/internal/project"
	"github.com/yofu/dxf"
)

const deckYAML = `design_mode: deck
deck_length_ft: 20
deck_width_ft: 12
deck_height_ft: 3
stair_count: 1
`

const biggerDeckYAML = `design_mode: deck
deck_length_ft: 24
deck_width_ft: 12
deck_height_ft: 3
stair_count: 1
`

// testEnv points HOME at a temp dir so every store lands there.
type testEnv struct {
	t      *testing.T
	dir    string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return &testEnv{t: t, dir: dir, config: filepath.Join(dir, ".decktakeoff", "config.toml")}
}

func (e *testEnv) write(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatal(err)
	}
	return path
}

func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	var out, logs bytes.Buffer
	root := New(&logs).RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.0", "abc123", "2026-01-01")
	defer SetVersion("dev", "", "")

	if version != "1.2.0" {
		t.Errorf("version = %q, want %q", version, "1.2.0")
	}
	if commit != "abc123" {
		t.Errorf("commit = %q, want %q", commit, "abc123")
	}
	if date != "2026-01-01" {
		t.Errorf("date = %q, want %q", date, "2026-01-01")
	}
}

func TestTakeoffJSON(t *testing.T) {
	env := newTestEnv(t)
	design := env.write("deck.yaml", deckYAML)

	out := env.mustRun("takeoff", design, "--json")
	var res generated
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if res.Takeoff.DesignMode != model.ModeDeck {
		t.Errorf("mode = %s, want deck", res.Takeoff.DesignMode)
	}
	if len(res.Takeoff.Items) == 0 {
		t.Error("takeoff has no items")
	}
	if res.Labor != nil || res.Estimate != nil {
		t.Error("takeoff should not include labor or estimate")
	}

	// The catalog file is seeded on first use
	if _, err := os.Stat(filepath.Join(env.dir, ".decktakeoff", "catalog.json")); err != nil {
		t.Errorf("catalog not seeded: %v", err)
	}
}

func TestTakeoffTable(t *testing.T) {
	env := newTestEnv(t)
	design := env.write("deck.yaml", deckYAML)

	out := env.mustRun("takeoff", design)
	for _, want := range []string{"Takeoff (deck)", "Materials subtotal", "Framing"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestTakeoffAssumptionFlag(t *testing.T) {
	env := newTestEnv(t)
	design := env.write("deck.yaml", deckYAML)

	_, err := env.run("takeoff", design, "--framing-lengths=-4")
	if err == nil {
		t.Fatal("expected an error for a stock list with no positive lengths")
	}
	if !strings.Contains(err.Error(), "INVALID_CONFIG") {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestEstimateSaveHistoryAndDiff(t *testing.T) {
	env := newTestEnv(t)
	small := env.write("deck.yaml", deckYAML)
	big := env.write("big.yaml", biggerDeckYAML)

	out := env.mustRun("estimate", small, "--save", "smith")
	if !strings.Contains(out, "Grand total") {
		t.Errorf("estimate output missing grand total:\n%s", out)
	}
	env.mustRun("estimate", big, "--save", "smith", "--json")

	var revs []project.Revision
	if err := json.Unmarshal([]byte(env.mustRun("history", "smith", "--json")), &revs); err != nil {
		t.Fatal(err)
	}
	if len(revs) != 2 {
		t.Fatalf("revisions = %d, want 2", len(revs))
	}
	if revs[0].Version != 1 || revs[1].Version != 2 {
		t.Errorf("versions = %d, %d", revs[0].Version, revs[1].Version)
	}
	if revs[1].Estimate == nil || revs[1].Labor == nil {
		t.Error("saved revision is missing labor or estimate")
	}

	var d engine.TakeoffDiff
	if err := json.Unmarshal([]byte(env.mustRun("diff", "smith", "--json")), &d); err != nil {
		t.Fatal(err)
	}
	if d.Empty() {
		t.Error("a longer deck should change the takeoff")
	}
	if d.SubtotalChange <= 0 {
		t.Errorf("subtotal change = %v, want > 0", d.SubtotalChange)
	}

	// Explicit versions in reverse give the opposite change
	var back engine.TakeoffDiff
	if err := json.Unmarshal([]byte(env.mustRun("diff", "smith", "v2", "1", "--json")), &back); err != nil {
		t.Fatal(err)
	}
	if back.SubtotalChange != -d.SubtotalChange {
		t.Errorf("reverse change = %v, want %v", back.SubtotalChange, -d.SubtotalChange)
	}
}

func TestDiffNeedsTwoRevisions(t *testing.T) {
	env := newTestEnv(t)
	design := env.write("deck.yaml", deckYAML)
	env.mustRun("takeoff", design, "--save", "one")

	if _, err := env.run("diff", "one"); err == nil {
		t.Error("expected an error with a single revision")
	}
	if _, err := env.run("diff", "one", "v9"); err == nil {
		t.Error("expected an error for a missing version")
	}
}

func TestLaborOverride(t *testing.T) {
	env := newTestEnv(t)
	design := env.write("deck.yaml", deckYAML)

	var plan model.LaborPlanResult
	out := env.mustRun("labor", design, "--json", "--override", "framing=10@50")
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatal(err)
	}
	if plan.Template != model.TemplateDeckOnly {
		t.Errorf("template = %q", plan.Template)
	}
	var found bool
	for _, task := range plan.Tasks {
		if task.Key == "framing" {
			found = true
			if !task.Overridden || task.Hours != 10 || task.Rate != 50 || task.Cost != 500 {
				t.Errorf("framing task = %+v", task)
			}
		}
	}
	if !found {
		t.Error("framing task missing")
	}
}

func TestLaborUnknownTemplate(t *testing.T) {
	env := newTestEnv(t)
	design := env.write("deck.yaml", deckYAML)
	if _, err := env.run("labor", design, "--template", "nope"); err == nil {
		t.Error("expected an error for an unknown template")
	}
}

func TestValidateInvalid(t *testing.T) {
	env := newTestEnv(t)
	design := env.write("bad.json", `{"design_mode": "deck", "deck_length_ft": -3, "deck_width_ft": 10}`)

	out, err := env.run("validate", design)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	if !strings.Contains(out, "Inputs are invalid") {
		t.Errorf("output = %q", out)
	}
	if _, err := env.run("takeoff", design); err == nil {
		t.Error("takeoff should refuse invalid inputs")
	}
}

func TestValidateJSON(t *testing.T) {
	env := newTestEnv(t)
	design := env.write("fence.json", `{"design_mode": "fence", "fence_length_ft": 120, "fence_height_ft": 6}`)

	out := env.mustRun("validate", design, "--json")
	var report struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if !report.Valid {
		t.Errorf("fence should be valid: %s", out)
	}
}

func TestCompareJSON(t *testing.T) {
	env := newTestEnv(t)
	design := env.write("deck.yaml", deckYAML)

	var views []comparisonView
	if err := json.Unmarshal([]byte(env.mustRun("compare", design, "--json")), &views); err != nil {
		t.Fatal(err)
	}
	if len(views) < 3 {
		t.Fatalf("scenarios = %d, want at least 3", len(views))
	}
	if views[0].Scenario != "Current" {
		t.Errorf("first scenario = %q, want Current", views[0].Scenario)
	}
	for _, v := range views {
		if v.Error != "" {
			t.Errorf("%s failed: %s", v.Scenario, v.Error)
		}
	}
}

func TestExportFormats(t *testing.T) {
	env := newTestEnv(t)
	design := env.write("deck.yaml", deckYAML)

	csvPath := filepath.Join(env.dir, "out", "materials.csv")
	env.mustRun("export", design, "--out", csvPath)
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "Category,Item") {
		t.Errorf("csv header = %q", strings.SplitN(string(data), "\n", 2)[0])
	}

	for _, tc := range []struct{ format, name string }{
		{"pdf", "proposal.pdf"},
		{"labels", "labels.pdf"},
		{"xlsx", "estimate.xlsx"},
	} {
		path := filepath.Join(env.dir, "out", tc.name)
		env.mustRun("export", design, "--format", tc.format, "--out", path)
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("%s: %v", tc.format, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s export is empty", tc.format)
		}
	}
}

func TestExportSavedRevision(t *testing.T) {
	env := newTestEnv(t)
	design := env.write("deck.yaml", deckYAML)
	env.mustRun("estimate", design, "--save", "jones")

	path := filepath.Join(env.dir, "jones.pdf")
	env.mustRun("export", "--project", "jones", "--out", path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("export is not a PDF")
	}

	if _, err := env.run("export", "--out", path); err == nil {
		t.Error("expected an error without a design file or project")
	}
}

func TestCatalogImport(t *testing.T) {
	env := newTestEnv(t)
	sheet := env.write("prices.csv", "material,cost,vendor\nDeck board - wood,2.45,Yard Co\nCedar planter,55,Yard Co\n")

	out := env.mustRun("catalog", "import", sheet, "--dry-run")
	if !strings.Contains(out, "1 new, 1 updated") {
		t.Errorf("dry run output = %q", out)
	}
	env.mustRun("catalog", "import", sheet)

	var cat model.PriceCatalog
	if err := json.Unmarshal([]byte(env.mustRun("catalog", "show", "--json")), &cat); err != nil {
		t.Fatal(err)
	}
	e := cat.FindByBase("Deck board - wood")
	if e == nil || e.UnitCost != 2.45 || e.Vendor != "Yard Co" {
		t.Errorf("imported entry = %+v", e)
	}
	if cat.FindByBase("Cedar planter") == nil {
		t.Error("new entry missing")
	}
}

func TestTemplateExportImport(t *testing.T) {
	env := newTestEnv(t)
	design := env.write("deck.yaml", deckYAML)
	path := filepath.Join(env.dir, "crew.json")
	env.mustRun("template", "export", "deck-std", path)

	var tpl map[string]any
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &tpl); err != nil {
		t.Fatal(err)
	}
	tpl["id"] = "crew-b"
	tpl["name"] = "Crew B"
	data, _ = json.Marshal(tpl)
	env.write("crew.json", string(data))
	env.mustRun("template", "import", path)

	if out := env.mustRun("template", "list"); !strings.Contains(out, "Crew B") {
		t.Errorf("template list missing Crew B:\n%s", out)
	}
	var plan model.LaborPlanResult
	if err := json.Unmarshal([]byte(env.mustRun("labor", design, "--template", "Crew B", "--json")), &plan); err != nil {
		t.Fatal(err)
	}
	if plan.Template != "Crew B" {
		t.Errorf("template = %q, want Crew B", plan.Template)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("config", "init")
	if _, err := os.Stat(env.config); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if out := env.mustRun("config", "init"); !strings.Contains(out, "already exists") {
		t.Errorf("second init = %q", out)
	}
	out := env.mustRun("config", "show")
	for _, want := range []string{"listen_addr", "[assumptions]", "max_joist_span_ft"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q", want)
		}
	}
}

func TestBackupRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "backup.json")
	env.mustRun("backup", "export", path)

	restored := filepath.Join(env.dir, "restored", "config.toml")
	var out, logs bytes.Buffer
	root := New(&logs).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", restored, "backup", "import", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("import: %v", err)
	}
	cfg, err := project.LoadAppConfig(restored)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != model.DefaultAppConfig().ListenAddr {
		t.Errorf("listen addr = %q", cfg.ListenAddr)
	}
	if !strings.Contains(out.String(), "Restored") {
		t.Errorf("output = %q", out.String())
	}
}

func TestFootprint(t *testing.T) {
	env := newTestEnv(t)
	d := dxf.NewDrawing()
	pts := [][2]float64{{0, 0}, {16, 0}, {16, 12}, {0, 12}, {0, 0}}
	for i := 0; i < len(pts)-1; i++ {
		d.Line(pts[i][0], pts[i][1], 0, pts[i+1][0], pts[i+1][1], 0)
	}
	drawing := filepath.Join(env.dir, "deck.dxf")
	if err := d.SaveAs(drawing); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(env.dir, "poly.yaml")
	env.mustRun("footprint", drawing, "--out", out)

	in, err := project.LoadDesignInputs(out)
	if err != nil {
		t.Fatal(err)
	}
	deck, ok := in.(model.DeckInputs)
	if !ok {
		t.Fatalf("inputs = %T, want DeckInputs", in)
	}
	if deck.ShapeMode != model.ShapePolygon {
		t.Errorf("shape = %s, want polygon", deck.ShapeMode)
	}
	if got := deck.PolygonPoints.Area(); got != 192 {
		t.Errorf("area = %v, want 192", got)
	}
	if deck.LengthFt != 16 || deck.WidthFt != 12 {
		t.Errorf("bounds = %v x %v, want 16 x 12", deck.LengthFt, deck.WidthFt)
	}

	env.mustRun("takeoff", out)
}

func TestFootprintNoShape(t *testing.T) {
	env := newTestEnv(t)
	d := dxf.NewDrawing()
	d.Line(0, 0, 0, 10, 0, 0)
	drawing := filepath.Join(env.dir, "open.dxf")
	if err := d.SaveAs(drawing); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run("footprint", drawing); err == nil {
		t.Error("expected an error for a drawing with no closed shape")
	}
}
