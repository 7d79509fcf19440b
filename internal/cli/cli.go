// Package cli implements the decktakeoff command-line interface.
//
// The commands wrap the calculation core with the file-backed stores: a
// design file (JSON or YAML) goes in, and a takeoff, labor plan, estimate
// or export comes out. Config, price catalog, labor templates and history
// live under ~/.decktakeoff unless the config file points elsewhere.
//
// # Commands
//
//   - takeoff, labor, estimate: generate and print results
//   - validate: check a design file without pricing it
//   - compare: run what-if assumption scenarios side by side
//   - diff, history: inspect saved project revisions
//   - export: write PDF, Excel, CSV or pick labels
//   - catalog, template, backup, config: manage stored data
//   - footprint: turn a DXF drawing into a polygon deck
//   - serve: expose the core over HTTP
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/project"
	"github.com/spf13/cobra"
)

var (
	version = "dev" // set by SetVersion
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds shared state for all commands.
type CLI struct {
	logOut     io.Writer
	verbose    bool
	configPath string
}

// New creates a CLI that logs to w.
func New(w io.Writer) *CLI {
	return &CLI{logOut: w}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "decktakeoff",
		Short:         "Deck and fence material takeoffs, labor plans and estimates",
		Long:          `decktakeoff turns a deck or fence design into a priced bill of materials, a labor plan and a marked-up estimate.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if c.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(c.logOut, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("decktakeoff %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", project.DefaultConfigPath(), "config file")

	root.AddCommand(c.takeoffCommand())
	root.AddCommand(c.laborCommand())
	root.AddCommand(c.estimateCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.diffCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.templateCommand())
	root.AddCommand(c.backupCommand())
	root.AddCommand(c.footprintCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())

	return root
}

// Execute runs the decktakeoff CLI and returns an error if any command fails.
// The error is printed without its code prefix.
func Execute(ctx context.Context) error {
	root := New(os.Stderr).RootCommand()
	err := root.ExecuteContext(ctx)
	if err != nil {
		printError(os.Stderr, "%s", errors.UserMessage(err))
	}
	return err
}
