package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/export"
	"github.com/piwi3910/DeckTakeoff/internal/importer"
	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/piwi3910/DeckTakeoff/internal/project"
	"github.com/spf13/cobra"
)

// =============================================================================
// catalog
// =============================================================================

func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show or import material prices",
	}
	cmd.AddCommand(c.catalogShowCommand())
	cmd.AddCommand(c.catalogImportCommand())
	return cmd
}

func (c *CLI) catalogShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the price catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, s.catalog)
			}
			rows := make([][]string, 0, len(s.catalog.Entries))
			for _, e := range s.catalog.Entries {
				allowance := ""
				if e.IsAllowance {
					allowance = "yes"
				}
				rows = append(rows, []string{e.ID, e.Base, export.Money(e.UnitCost), e.Vendor, allowance})
			}
			printTitle(w, "Price catalog")
			tbl := newTable("ID", "Material", "Unit cost", "Vendor", "Allowance").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return styleHeader
					}
					if col == 2 {
						return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
					}
					return lipgloss.NewStyle().Padding(0, 1)
				})
			fmt.Fprintln(w, tbl.Render())
			printDetail(w, "%s", project.CatalogPath(s.config))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}

func (c *CLI) catalogImportCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import prices from a CSV or Excel supplier sheet",
		Long: `Import prices from a CSV or Excel supplier sheet.

Columns are matched by header name (material, cost, vendor, allowance).
A sheet without headers is read as material, cost, vendor. Imported rows
replace catalog entries with the same material name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			s, err := c.loadSession(cmd)
			if err != nil {
				return err
			}

			res := importer.ImportFile(args[0])
			w := cmd.OutOrStdout()
			for _, warn := range res.Warnings {
				printWarning(w, "%s", warn)
			}
			for _, e := range res.Errors {
				printError(w, "%s", e)
			}
			if len(res.Entries) == 0 {
				return errors.New(errors.ErrCodeInvalidFormat, "no prices imported from %s", args[0])
			}

			added, replaced := project.MergeCatalog(&s.catalog, res.Entries)
			if dryRun {
				printInfo(w, "Dry run: %d new, %d updated", added, replaced)
				return nil
			}
			path := project.CatalogPath(s.config)
			if err := project.SaveCatalog(path, s.catalog); err != nil {
				return err
			}
			logger.Info("Imported prices", "added", added, "replaced", replaced)
			printSuccess(w, "Imported %d prices (%d new, %d updated)", len(res.Entries), added, replaced)
			printFile(w, path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without saving")
	return cmd
}

// =============================================================================
// template
// =============================================================================

func (c *CLI) templateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage labor templates",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List labor templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			rows := make([][]string, 0, len(s.templates.Templates))
			for _, t := range s.templates.Templates {
				def := ""
				if t.Name == s.config.LaborTemplate || t.ID == s.config.LaborTemplate {
					def = iconSuccess
				}
				rows = append(rows, []string{t.ID, t.Name, export.Money(t.Rates.BaseRate), export.Percent(t.Rates.BurdenPct), export.Money(t.Rates.Burdened()), def})
			}
			printTitle(w, "Labor templates")
			fmt.Fprintln(w, newTable("ID", "Name", "Base rate", "Burden", "Burdened", "Default").Rows(rows...).Render())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "export <id-or-name> <file>",
		Short: "Write one template to a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession(cmd)
			if err != nil {
				return err
			}
			tpl, ok := project.ResolveTemplate(s.templates, args[0], nil)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "labor template %q not found", args[0])
			}
			if err := project.ExportTemplate(args[1], tpl); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Exported %s", tpl.Name)
			printFile(w, args[1])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Add a template from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession(cmd)
			if err != nil {
				return err
			}
			tpl, err := project.ImportTemplate(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "import template %s", args[0])
			}
			if existing := s.templates.FindByID(tpl.ID); existing != nil {
				*existing = tpl
			} else {
				s.templates.Add(tpl)
			}
			if err := project.SaveTemplates(project.TemplatesPath(s.config), s.templates); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Imported %s (%s)", tpl.Name, tpl.ID)
			return nil
		},
	})
	return cmd
}

// =============================================================================
// backup
// =============================================================================

func (c *CLI) backupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore config, catalog and labor templates",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write all settings to one JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession(cmd)
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], s.config, s.catalog, s.templates); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Backed up %d prices and %d templates", len(s.catalog.Entries), len(s.templates.Templates))
			printFile(w, args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Restore settings from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "read backup")
			}
			if err := project.SaveAppConfig(c.configPath, backup.Config); err != nil {
				return err
			}
			if err := project.SaveCatalog(project.CatalogPath(backup.Config), backup.Catalog); err != nil {
				return err
			}
			if err := project.SaveTemplates(project.TemplatesPath(backup.Config), backup.Templates); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("Restored backup", "version", backup.Version, "created", backup.CreatedAt)
			printSuccess(cmd.OutOrStdout(), "Restored %d prices and %d templates", len(backup.Catalog.Entries), len(backup.Templates.Templates))
			return nil
		},
	})
	return cmd
}

// =============================================================================
// config
// =============================================================================

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or show the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if _, err := os.Stat(c.configPath); err == nil && !force {
				printWarning(w, "Config already exists; use --force to overwrite")
				printFile(w, c.configPath)
				return nil
			}
			if err := project.SaveAppConfig(c.configPath, model.DefaultAppConfig()); err != nil {
				return err
			}
			printSuccess(w, "Wrote default config")
			printFile(w, c.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective config as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadAppConfig(c.configPath)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config")
			}
			w := cmd.OutOrStdout()
			printDetail(w, "# %s", c.configPath)
			return toml.NewEncoder(w).Encode(cfg)
		},
	})
	return cmd
}
