package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/piwi3910/DeckTakeoff/internal/engine"
	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/export"
	"github.com/piwi3910/DeckTakeoff/internal/project"
	"github.com/spf13/cobra"
)

// comparisonView is the JSON form of one scenario result.
type comparisonView struct {
	Scenario          string  `json:"scenario"`
	Error             string  `json:"error,omitempty"`
	MaterialsSubtotal float64 `json:"materials_subtotal"`
	ItemCount         int     `json:"item_count"`
	PostCount         int     `json:"post_count"`
	BeamCount         int     `json:"beam_count"`
	OverageFt         float64 `json:"overage_ft"`
}

func comparisonViews(results []engine.ComparisonResult) []comparisonView {
	views := make([]comparisonView, len(results))
	for i, r := range results {
		v := comparisonView{
			Scenario:          r.Scenario.Name,
			MaterialsSubtotal: r.MaterialsSubtotal,
			ItemCount:         r.ItemCount,
			PostCount:         r.PostCount,
			BeamCount:         r.BeamCount,
			OverageFt:         r.OverageFt,
		}
		if r.Err != nil {
			v.Error = errors.UserMessage(r.Err)
		}
		views[i] = v
	}
	return views
}

func (c *CLI) compareCommand() *cobra.Command {
	var (
		asJSON      bool
		assumptions assumptionFlags
	)
	cmd := &cobra.Command{
		Use:   "compare <design-file>",
		Short: "Compare what-if assumption scenarios for a design",
		Long: `Compare what-if assumption scenarios for a design.

Each scenario reruns the takeoff with one assumption changed: a tighter
joist span, wider railing post spacing, or a single stock length.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			s, err := c.loadSession(cmd)
			if err != nil {
				return err
			}
			in, err := loadInputs(cmd, args[0])
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			base := assumptions.apply(cmd.Flags(), s.config.Assumptions)
			results := engine.CompareScenarios(engine.BuildDefaultScenarios(base), in, s.catalog)
			prog.done("Compared scenarios", "count", len(results))

			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, comparisonViews(results))
			}
			printComparison(w, results)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the comparison as JSON")
	assumptions.register(cmd.Flags())
	return cmd
}

// findRevision resolves a revision reference: a version number ("3" or
// "v3") or an ID prefix of at least eight characters.
func findRevision(h *project.HistoryStore, name, ref string) (project.Revision, error) {
	if n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(ref), "v")); err == nil {
		revs, err := h.List(name)
		if err != nil {
			return project.Revision{}, err
		}
		for _, r := range revs {
			if r.Version == n {
				return r, nil
			}
		}
		return project.Revision{}, errors.New(errors.ErrCodeNotFound, "version %d not found in %s", n, name)
	}
	return h.Load(name, ref)
}

func (c *CLI) diffCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "diff <project> [from] [to]",
		Short: "Show what changed between two saved revisions",
		Long: `Show what changed between two saved revisions of a project.

Revisions are given as version numbers (3 or v3) or ID prefixes. Without
arguments the two newest revisions are compared; with one, that revision
is compared against the newest.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession(cmd)
			if err != nil {
				return err
			}
			name := args[0]
			revs, err := s.history.List(name)
			if err != nil {
				return err
			}

			var from, to project.Revision
			switch len(args) {
			case 1:
				if len(revs) < 2 {
					return errors.New(errors.ErrCodeNotFound, "project %s needs two revisions to diff, has %d", name, len(revs))
				}
				from, to = revs[len(revs)-2], revs[len(revs)-1]
			case 2:
				if from, err = findRevision(s.history, name, args[1]); err != nil {
					return err
				}
				if to, err = s.history.Latest(name); err != nil {
					return err
				}
			default:
				if from, err = findRevision(s.history, name, args[1]); err != nil {
					return err
				}
				if to, err = findRevision(s.history, name, args[2]); err != nil {
					return err
				}
			}

			d := engine.DiffTakeoffs(from.Takeoff, to.Takeoff)
			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, d)
			}
			printTitle(w, fmt.Sprintf("%s: v%d %s v%d", name, from.Version, iconArrow, to.Version))
			printDiff(w, d)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the diff as JSON")
	return cmd
}

func (c *CLI) historyCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history <project>",
		Short: "List saved revisions of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession(cmd)
			if err != nil {
				return err
			}
			revs, err := s.history.List(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, revs)
			}
			if len(revs) == 0 {
				printInfo(w, "No saved revisions for %s", args[0])
				return nil
			}

			rows := make([][]string, 0, len(revs))
			for _, r := range revs {
				total := "-"
				if r.Estimate != nil {
					total = export.Money(r.Estimate.GrandTotal)
				}
				rows = append(rows, []string{
					fmt.Sprintf("v%d", r.Version), r.ID[:8], r.CreatedAt, string(r.Takeoff.DesignMode),
					fmt.Sprint(r.Takeoff.Totals.ItemCount), export.Money(r.Takeoff.Totals.MaterialsSubtotal), total,
				})
			}
			printTitle(w, "History - "+args[0])
			tbl := newTable("Version", "ID", "Created", "Mode", "Items", "Materials", "Grand total").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return styleHeader
					}
					if col >= 4 {
						return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
					}
					return lipgloss.NewStyle().Padding(0, 1)
				})
			fmt.Fprintln(w, tbl.Render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the revisions as JSON")
	return cmd
}
