package cli

import (
	"github.com/piwi3910/DeckTakeoff/internal/engine"
	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/piwi3910/DeckTakeoff/internal/project"
	"github.com/piwi3910/DeckTakeoff/internal/validation"
	"github.com/spf13/cobra"
)

// generateOpts holds the flags shared by takeoff, labor and estimate.
type generateOpts struct {
	json        bool
	save        string
	assumptions assumptionFlags
	labor       laborFlags
	estimate    estimateFlags
}

// generated is the full result of one generate run. Labor and Estimate are
// nil when the command did not ask for them.
type generated struct {
	Project  string                  `json:"project,omitempty"`
	Revision string                  `json:"revision,omitempty"`
	Takeoff  model.TakeoffResult     `json:"takeoff"`
	Labor    *model.LaborPlanResult  `json:"labor,omitempty"`
	Settings *model.EstimateSettings `json:"estimate_settings,omitempty"`
	Estimate *model.EstimateTotals   `json:"estimate,omitempty"`
}

type generateDepth int

const (
	depthTakeoff generateDepth = iota
	depthLabor
	depthEstimate
)

// runGenerate loads the design and session, then builds the takeoff and,
// depending on depth, the labor plan and estimate. With --save the result
// is appended to the project history.
func (c *CLI) runGenerate(cmd *cobra.Command, path string, opts *generateOpts, depth generateDepth) (*generated, *session, error) {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	s, err := c.loadSession(cmd)
	if err != nil {
		return nil, nil, err
	}
	in, err := loadInputs(cmd, path)
	if err != nil {
		return nil, nil, err
	}

	a := opts.assumptions.apply(cmd.Flags(), s.config.Assumptions)
	takeoff, err := s.estimator(a).GenerateTakeoff(in)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range takeoff.Warnings {
		logger.Debug("Takeoff warning", "msg", w)
	}
	out := &generated{Takeoff: takeoff}

	if depth >= depthLabor {
		plan, err := opts.labor.plan(s, in, takeoff)
		if err != nil {
			return nil, nil, err
		}
		out.Labor = &plan
	}
	if depth >= depthEstimate {
		settings, err := opts.estimate.apply(cmd.Flags(), s.config.Estimate)
		if err != nil {
			return nil, nil, err
		}
		totals := engine.EstimateTotals(takeoff.Items, *out.Labor, settings)
		out.Settings = &settings
		out.Estimate = &totals
	}
	prog.done("Generated takeoff", "items", takeoff.Totals.ItemCount, "mode", takeoff.DesignMode)

	if opts.save != "" {
		name := projectName(opts.save, path)
		rev, err := s.history.Append(name, in, takeoff, out.Labor, out.Estimate)
		if err != nil {
			return nil, nil, err
		}
		out.Project = name
		out.Revision = rev.ID
		logger.Info("Saved revision", "project", name, "version", rev.Version, "id", rev.ID[:8])
	}
	return out, s, nil
}

func (c *CLI) takeoffCommand() *cobra.Command {
	var opts generateOpts
	cmd := &cobra.Command{
		Use:   "takeoff <design-file>",
		Short: "Generate the priced bill of materials for a design",
		Long: `Generate the priced bill of materials for a deck, covered deck or fence.

The design file is JSON or YAML. Assumption flags override the values in
the config file for this run only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.runGenerate(cmd, args[0], &opts, depthTakeoff)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if opts.json {
				return printJSON(w, res)
			}
			printTakeoff(w, res.Takeoff)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&opts.save, "save", "", "append the result to this project's history")
	opts.assumptions.register(cmd.Flags())
	return cmd
}

func (c *CLI) laborCommand() *cobra.Command {
	var opts generateOpts
	cmd := &cobra.Command{
		Use:   "labor <design-file>",
		Short: "Generate the labor plan for a design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.runGenerate(cmd, args[0], &opts, depthLabor)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if opts.json {
				return printJSON(w, res.Labor)
			}
			printLabor(w, *res.Labor)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	opts.assumptions.register(cmd.Flags())
	opts.labor.register(cmd.Flags())
	return cmd
}

func (c *CLI) estimateCommand() *cobra.Command {
	var opts generateOpts
	cmd := &cobra.Command{
		Use:   "estimate <design-file>",
		Short: "Generate takeoff, labor and the marked-up estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.runGenerate(cmd, args[0], &opts, depthEstimate)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if opts.json {
				return printJSON(w, res)
			}
			printTakeoff(w, res.Takeoff)
			printLabor(w, *res.Labor)
			printEstimate(w, *res.Estimate, *res.Settings)
			if res.Project != "" {
				printSuccess(w, "Saved %s revision %s", res.Project, res.Revision[:8])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&opts.save, "save", "", "append the result to this project's history")
	opts.assumptions.register(cmd.Flags())
	opts.labor.register(cmd.Flags())
	opts.estimate.register(cmd.Flags())
	return cmd
}

func (c *CLI) validateCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate <design-file>",
		Short: "Check a design file without pricing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := project.LoadDesignInputs(args[0])
			if err != nil {
				return err
			}
			report := validation.ValidateDesignInputs(in)
			w := cmd.OutOrStdout()
			if asJSON {
				if err := printJSON(w, report); err != nil {
					return err
				}
			} else {
				printReport(w, report)
			}
			if !report.Valid {
				return report.Err()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
