package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/DeckTakeoff/internal/engine"
	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/piwi3910/DeckTakeoff/internal/project"
	"github.com/piwi3910/DeckTakeoff/internal/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// session bundles the stores a command works against.
type session struct {
	config    model.AppConfig
	catalog   model.PriceCatalog
	templates model.LaborTemplateStore
	history   *project.HistoryStore
}

// loadSession reads the config file and the stores it points at.
func (c *CLI) loadSession(cmd *cobra.Command) (*session, error) {
	logger := loggerFromContext(cmd.Context())

	cfg, err := project.LoadAppConfig(c.configPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config")
	}
	logger.Debug("Loaded config", "path", c.configPath)

	catalogPath := project.CatalogPath(cfg)
	catalog, err := project.LoadCatalog(catalogPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load catalog %s", catalogPath)
	}
	logger.Debug("Loaded catalog", "path", catalogPath, "entries", len(catalog.Entries))

	templatesPath := project.TemplatesPath(cfg)
	templates, err := project.LoadTemplates(templatesPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load labor templates %s", templatesPath)
	}

	return &session{
		config:    cfg,
		catalog:   catalog,
		templates: templates,
		history:   project.NewHistoryStore(project.HistoryDir(cfg)),
	}, nil
}

// estimator returns an Estimator over the session catalog.
func (s *session) estimator(a model.Assumptions) *engine.Estimator {
	return engine.New(a, s.catalog)
}

// loadInputs reads a design file and fails on validation errors. Warnings
// are logged and the takeoff goes ahead.
func loadInputs(cmd *cobra.Command, path string) (model.DesignInputs, error) {
	logger := loggerFromContext(cmd.Context())
	in, err := project.LoadDesignInputs(path)
	if err != nil {
		return nil, err
	}
	report := validation.ValidateDesignInputs(in)
	for _, w := range report.Warnings {
		logger.Warn(w.Message, "field", w.Field)
	}
	for _, i := range report.Info {
		logger.Debug(i.Message, "field", i.Field)
	}
	if !report.Valid {
		return nil, report.Err()
	}
	logger.Debug("Loaded design", "path", path, "mode", in.Mode())
	return in, nil
}

// assumptionFlags holds command-line overrides for the configured
// assumptions. Only flags the user set are applied.
type assumptionFlags struct {
	maxJoistSpan    float64
	railPostSpacing float64
	waste           float64
	fencePostSpace  float64
	fenceRails      int
	framingLengths  []float64
	boardLengths    []float64
	requireCover    bool
}

func (f *assumptionFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.maxJoistSpan, "max-joist-span", 0, "maximum joist span in feet")
	fs.Float64Var(&f.railPostSpacing, "railing-post-spacing", 0, "railing post spacing in feet")
	fs.Float64Var(&f.waste, "waste", 0, "default waste factor as a fraction (0.1 = 10%)")
	fs.Float64Var(&f.fencePostSpace, "fence-post-spacing", 0, "fence post spacing in feet")
	fs.IntVar(&f.fenceRails, "fence-rails", 0, "fence rail count")
	fs.Float64SliceVar(&f.framingLengths, "framing-lengths", nil, "framing stock lengths in feet (comma-separated)")
	fs.Float64SliceVar(&f.boardLengths, "board-lengths", nil, "decking board stock lengths in feet (comma-separated)")
	fs.BoolVar(&f.requireCover, "require-complete-cover", false, "fail when a cover package is incomplete")
}

// apply returns base with every changed flag applied.
func (f *assumptionFlags) apply(fs *pflag.FlagSet, base model.Assumptions) model.Assumptions {
	a := base
	if fs.Changed("max-joist-span") {
		a.MaxJoistSpanFt = f.maxJoistSpan
	}
	if fs.Changed("railing-post-spacing") {
		a.RailingPostSpacingFt = f.railPostSpacing
	}
	if fs.Changed("waste") {
		a.DefaultWaste = f.waste
	}
	if fs.Changed("fence-post-spacing") {
		a.FencePostSpacingFt = f.fencePostSpace
	}
	if fs.Changed("fence-rails") {
		a.FenceRailCount = f.fenceRails
	}
	if fs.Changed("framing-lengths") {
		a.FramingLengthsFt = f.framingLengths
	}
	if fs.Changed("board-lengths") {
		a.BoardLengthsFt = f.boardLengths
	}
	if fs.Changed("require-complete-cover") {
		a.RequireCompleteCoveredPackage = f.requireCover
	}
	return a
}

// estimateFlags holds command-line overrides for the markup settings.
// Percentages are given as fractions.
type estimateFlags struct {
	overhead float64
	profit   float64
	tax      float64
	taxMode  string
}

func (f *estimateFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.overhead, "overhead", 0, "overhead as a fraction (0.12 = 12%)")
	fs.Float64Var(&f.profit, "profit", 0, "profit as a fraction")
	fs.Float64Var(&f.tax, "tax", 0, "sales tax as a fraction")
	fs.StringVar(&f.taxMode, "tax-mode", "", "tax base: materials_only or grand_total")
}

func (f *estimateFlags) apply(fs *pflag.FlagSet, base model.EstimateSettings) (model.EstimateSettings, error) {
	s := base
	if fs.Changed("overhead") {
		s.OverheadPct = f.overhead
	}
	if fs.Changed("profit") {
		s.ProfitPct = f.profit
	}
	if fs.Changed("tax") {
		s.TaxPct = f.tax
	}
	if fs.Changed("tax-mode") {
		mode := model.TaxMode(strings.ToLower(f.taxMode))
		if mode != model.TaxMaterialsOnly && mode != model.TaxGrandTotal {
			return s, errors.New(errors.ErrCodeInvalidInput, "unknown tax mode %q (want materials_only or grand_total)", f.taxMode)
		}
		s.TaxMode = mode
	}
	return s, nil
}

// laborFlags selects a labor template and per-task overrides.
type laborFlags struct {
	template  string
	demo      bool
	overrides []string
}

func (f *laborFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.template, "template", "", "labor template ID or name (default: chosen from the design mode)")
	fs.BoolVar(&f.demo, "demo", false, "include demolition of an existing structure")
	fs.StringArrayVar(&f.overrides, "override", nil, "task override key=hours or key=hours@rate (repeatable)")
}

// plan resolves the template and builds the labor plan.
func (f *laborFlags) plan(s *session, in model.DesignInputs, takeoff model.TakeoffResult) (model.LaborPlanResult, error) {
	ref := f.template
	if ref == "" {
		ref = s.config.LaborTemplate
	}
	tpl, ok := project.ResolveTemplate(s.templates, ref, in)
	if !ok {
		return model.LaborPlanResult{}, errors.New(errors.ErrCodeNotFound, "labor template %q not found", ref)
	}
	overrides, err := parseOverrides(f.overrides)
	if err != nil {
		return model.LaborPlanResult{}, err
	}
	return engine.GenerateLaborPlan(in, takeoff, tpl, model.LaborOptions{IncludeDemo: f.demo, Overrides: overrides}), nil
}

// parseOverrides turns "key=hours" or "key=hours@rate" strings into task
// overrides. An empty hours part leaves the computed hours.
func parseOverrides(specs []string) (map[string]model.TaskOverride, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make(map[string]model.TaskOverride, len(specs))
	for _, spec := range specs {
		key, value, ok := strings.Cut(spec, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid override %q (want key=hours[@rate])", spec)
		}
		hoursPart, ratePart, hasRate := strings.Cut(value, "@")
		var o model.TaskOverride
		if strings.TrimSpace(hoursPart) != "" {
			h, err := parseNonNegative(hoursPart)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "override %s hours", key)
			}
			o.Hours = &h
		}
		if hasRate {
			r, err := parseNonNegative(ratePart)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "override %s rate", key)
			}
			o.Rate = &r
		}
		out[key] = o
	}
	return out, nil
}

func parseNonNegative(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 || !isFinite(v) {
		return 0, fmt.Errorf("%q must be a non-negative number", s)
	}
	return v, nil
}

func isFinite(v float64) bool {
	return model.Finite(v, -1) == v
}

// projectName derives a history project name from a design file path when
// none is given.
func projectName(explicit, path string) string {
	if explicit != "" {
		return explicit
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ensureDir creates the parent directory of an output file.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
