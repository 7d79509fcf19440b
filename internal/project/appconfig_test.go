package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/DeckTakeoff/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := model.DefaultAppConfig()
	cfg.Assumptions.MaxJoistSpanFt = 12
	cfg.Estimate.TaxMode = model.TaxGrandTotal
	cfg.LaborTemplate = "Crew B"
	cfg.ReviewBaseURL = "https://example.com/review"

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.Assumptions.MaxJoistSpanFt != 12 {
		t.Errorf("expected MaxJoistSpanFt=12, got %f", loaded.Assumptions.MaxJoistSpanFt)
	}
	if loaded.Estimate.TaxMode != model.TaxGrandTotal {
		t.Errorf("expected grand_total tax mode, got %s", loaded.Estimate.TaxMode)
	}
	if loaded.LaborTemplate != "Crew B" {
		t.Errorf("expected labor template Crew B, got %s", loaded.LaborTemplate)
	}
	if len(loaded.Assumptions.FramingLengthsFt) != 5 {
		t.Errorf("expected 5 framing lengths, got %v", loaded.Assumptions.FramingLengthsFt)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.toml")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected default listen addr, got %s", cfg.ListenAddr)
	}
	if cfg.Estimate.OverheadPct != 0.12 {
		t.Errorf("expected default overhead, got %f", cfg.Estimate.OverheadPct)
	}
}

func TestLoadAppConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte("labor_template = \"Fence - Standard\"\n\n[estimate]\ntax_pct = 0.06\n\n[assumptions]\nboard_lengths_ft = [12.0, 16.0]\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Estimate.TaxPct != 0.06 {
		t.Errorf("expected tax 0.06, got %f", cfg.Estimate.TaxPct)
	}
	if cfg.Estimate.ProfitPct != 0.15 {
		t.Errorf("omitted profit should keep default, got %f", cfg.Estimate.ProfitPct)
	}
	if cfg.Assumptions.RailingPostSpacingFt != 6 {
		t.Errorf("omitted assumption should keep default, got %f", cfg.Assumptions.RailingPostSpacingFt)
	}
	if len(cfg.Assumptions.BoardLengthsFt) != 2 {
		t.Errorf("expected board lengths to be replaced, got %v", cfg.Assumptions.BoardLengthsFt)
	}
}

func TestLoadAppConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not = valid = toml [[["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadAppConfig(path); err == nil {
		t.Fatal("expected error for invalid TOML, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "config.toml")

	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestStorePathsFollowConfig(t *testing.T) {
	cfg := model.DefaultAppConfig()
	if filepath.Base(CatalogPath(cfg)) != "catalog.json" {
		t.Errorf("unexpected default catalog path %s", CatalogPath(cfg))
	}
	cfg.CatalogPath = "/srv/prices.json"
	cfg.HistoryDir = "/srv/history"
	if CatalogPath(cfg) != "/srv/prices.json" || HistoryDir(cfg) != "/srv/history" {
		t.Error("configured paths should win")
	}
}
