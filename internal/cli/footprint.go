package cli

import (
	"encoding/json"

	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/export"
	"github.com/piwi3910/DeckTakeoff/internal/importer"
	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/piwi3910/DeckTakeoff/internal/project"
	"github.com/spf13/cobra"
)

// footprintOpts holds the flags for the footprint command.
type footprintOpts struct {
	inches       bool
	unitsPerFoot float64
	base         string // deck design to apply the outline to
	out          string
}

func (c *CLI) footprintCommand() *cobra.Command {
	var opts footprintOpts
	cmd := &cobra.Command{
		Use:   "footprint <drawing.dxf>",
		Short: "Turn a DXF deck outline into a polygon design",
		Long: `Turn a DXF deck outline into a polygon design.

The largest closed shape in the drawing becomes the deck polygon. Other
deck settings come from --base when given, or the defaults otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			w := cmd.OutOrStdout()

			scale := opts.unitsPerFoot
			if opts.inches {
				scale = 12
			}
			res := importer.ImportFootprint(args[0], importer.FootprintOptions{UnitsPerFoot: scale})
			for _, warn := range res.Warnings {
				printWarning(w, "%s", warn)
			}
			if len(res.Errors) > 0 {
				for _, e := range res.Errors {
					printError(w, "%s", e)
				}
				return errors.New(errors.ErrCodeInvalidFormat, "no usable footprint in %s", args[0])
			}

			deck := model.DefaultDeckInputs()
			if opts.base != "" {
				in, err := project.LoadDesignInputs(opts.base)
				if err != nil {
					return err
				}
				d, ok := in.(model.DeckInputs)
				if !ok {
					return errors.New(errors.ErrCodeInvalidInput, "%s is not a deck design", opts.base)
				}
				deck = d
			}
			res.ApplyToDeck(&deck)
			logger.Debug("Applied footprint", "points", len(res.Outline), "shapes", res.Shapes)

			printKeyValue(w, "Vertices", export.Quantity(float64(len(res.Outline))))
			printKeyValue(w, "Area", export.Quantity(res.AreaSqft)+" sqft")
			printKeyValue(w, "Perimeter", export.Quantity(res.Perimeter)+" lf")
			printKeyValue(w, "Bounds", export.Quantity(deck.LengthFt)+" x "+export.Quantity(deck.WidthFt)+" ft")

			if opts.out == "" {
				data, err := model.EncodeDesignInputs(deck)
				if err != nil {
					return err
				}
				var v any
				if err := json.Unmarshal(data, &v); err != nil {
					return err
				}
				return printJSON(w, v)
			}
			if err := ensureDir(opts.out); err != nil {
				return err
			}
			if err := project.SaveDesignInputs(opts.out, deck); err != nil {
				return err
			}
			printSuccess(w, "Wrote polygon design")
			printFile(w, opts.out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.inches, "inches", false, "drawing units are inches")
	cmd.Flags().Float64Var(&opts.unitsPerFoot, "units-per-foot", 1, "drawing units per foot")
	cmd.Flags().StringVar(&opts.base, "base", "", "deck design file supplying the other settings")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the design to this JSON or YAML file")
	return cmd
}
