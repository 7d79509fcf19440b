package cli

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/export"
	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/spf13/cobra"
)

const (
	formatPDF    = "pdf"
	formatXLSX   = "xlsx"
	formatCSV    = "csv"
	formatLabels = "labels"
)

// exportOpts holds the flags for the export command.
type exportOpts struct {
	generateOpts
	format   string // pdf, xlsx, csv or labels; inferred from --out when empty
	out      string
	project  string // export a saved revision instead of a design file
	revision string
}

// detectFormat picks the export format from the flag or the output file
// extension.
func detectFormat(format, out string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		switch strings.ToLower(filepath.Ext(out)) {
		case ".pdf":
			f = formatPDF
		case ".xlsx":
			f = formatXLSX
		case ".csv":
			f = formatCSV
		default:
			return "", errors.New(errors.ErrCodeInvalidInput, "cannot infer format from %q; pass --format", out)
		}
	}
	switch f {
	case formatPDF, formatXLSX, formatCSV, formatLabels:
		return f, nil
	case "excel":
		return formatXLSX, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want pdf, xlsx, csv or labels)", format)
}

// reviewURL joins the configured review base with the project name.
func reviewURL(base, project string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" || project == "" {
		return ""
	}
	return base + "/" + project
}

func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts
	cmd := &cobra.Command{
		Use:   "export [design-file]",
		Short: "Write a proposal PDF, Excel workbook, CSV or pick labels",
		Long: `Write a proposal PDF, Excel workbook, CSV material list or QR pick labels.

The source is either a design file, which is estimated fresh, or a saved
revision selected with --project (and optionally --revision).`,
		Example: `  decktakeoff export deck.yaml --out proposal.pdf
  decktakeoff export --project smith-deck --format labels --out labels.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.out == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--out is required")
			}
			format, err := detectFormat(opts.format, opts.out)
			if err != nil {
				return err
			}
			doc, err := c.exportDocument(cmd, args, &opts)
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			if err := ensureDir(opts.out); err != nil {
				return err
			}
			switch format {
			case formatPDF:
				err = export.ExportPDF(opts.out, doc)
			case formatXLSX:
				err = export.ExportWorkbook(opts.out, doc)
			case formatCSV:
				err = export.ExportCSV(opts.out, doc.Takeoff)
			case formatLabels:
				err = export.ExportLabels(opts.out, doc.Project, doc.Takeoff)
			}
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "export %s", format)
			}
			prog.done("Exported", "format", format)

			w := cmd.OutOrStdout()
			printSuccess(w, "Wrote %s export", format)
			printFile(w, opts.out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "export format: pdf, xlsx, csv, labels (default: from --out)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file")
	cmd.Flags().StringVar(&opts.project, "project", "", "export a saved revision of this project")
	cmd.Flags().StringVar(&opts.revision, "revision", "", "revision version or ID (default: newest)")
	opts.assumptions.register(cmd.Flags())
	opts.labor.register(cmd.Flags())
	opts.estimate.register(cmd.Flags())
	return cmd
}

// exportDocument builds the document from a design file or a saved revision.
func (c *CLI) exportDocument(cmd *cobra.Command, args []string, opts *exportOpts) (export.Document, error) {
	if len(args) == 1 {
		res, s, err := c.runGenerate(cmd, args[0], &opts.generateOpts, depthEstimate)
		if err != nil {
			return export.Document{}, err
		}
		name := projectName(opts.project, args[0])
		return export.Document{
			Project:   name,
			CreatedAt: time.Now(),
			Takeoff:   res.Takeoff,
			Labor:     res.Labor,
			Totals:    res.Estimate,
			Settings:  res.Settings,
			ReviewURL: reviewURL(s.config.ReviewBaseURL, name),
		}, nil
	}

	if opts.project == "" {
		return export.Document{}, errors.New(errors.ErrCodeInvalidInput, "give a design file or --project")
	}
	s, err := c.loadSession(cmd)
	if err != nil {
		return export.Document{}, err
	}
	rev, err := s.history.Latest(opts.project)
	if opts.revision != "" {
		rev, err = findRevision(s.history, opts.project, opts.revision)
	}
	if err != nil {
		return export.Document{}, err
	}

	created, perr := time.Parse(time.RFC3339, rev.CreatedAt)
	if perr != nil {
		created = time.Now()
	}
	var settings *model.EstimateSettings
	if rev.Estimate != nil {
		es := s.config.Estimate
		settings = &es
	}
	loggerFromContext(cmd.Context()).Debug("Exporting revision", "project", rev.Project, "version", rev.Version)
	return export.Document{
		Project:   rev.Project,
		CreatedAt: created,
		Takeoff:   rev.Takeoff,
		Labor:     rev.Labor,
		Totals:    rev.Estimate,
		Settings:  settings,
		ReviewURL: reviewURL(s.config.ReviewBaseURL, rev.Project),
	}, nil
}
