package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/piwi3910/DeckTakeoff/internal/engine"
	"github.com/piwi3910/DeckTakeoff/internal/export"
	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/piwi3910/DeckTakeoff/internal/validation"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - headings
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings, allowances
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - labels
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleTotal   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(22)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+styleValue.Render(value))
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, styleTitle.Render(title))
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

// =============================================================================
// Domain Output
// =============================================================================

func printTakeoff(w io.Writer, t model.TakeoffResult) {
	printTitle(w, fmt.Sprintf("Takeoff (%s)", t.DesignMode))

	rows := make([][]string, 0, len(t.Items))
	for _, it := range t.Items {
		rows = append(rows, []string{
			string(it.Category), it.Name, export.Quantity(it.Qty), string(it.Unit),
			export.Percent(it.WasteFactor), export.Money(it.UnitCost), export.Money(it.LineTotal()),
		})
	}
	tbl := newTable("Category", "Item", "Qty", "Unit", "Waste", "Unit cost", "Line total").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col >= 2 && col != 3 {
				base = base.Align(lipgloss.Right)
			}
			if row >= 0 && row < len(t.Items) && t.Items[row].IsAllowance {
				return base.Foreground(colorYellow)
			}
			return base
		})
	fmt.Fprintln(w, tbl.Render())

	area := "Deck area"
	if t.DesignMode == model.ModeFence {
		area = "Fence face"
	}
	printKeyValue(w, area, export.Quantity(t.Totals.DeckSqft)+" sqft")
	printKeyValue(w, "Items", fmt.Sprintf("%d (%d allowances)", t.Totals.ItemCount, t.Totals.AllowanceCount))
	if t.DesignMode == model.ModeDeck {
		printKeyValue(w, "Stock overage", export.Quantity(t.Totals.StockOverageFt)+" ft")
	}
	fmt.Fprintln(w, lipgloss.NewStyle().Foreground(colorGray).Width(22).Render("Materials subtotal")+" "+
		styleTotal.Render(export.Money(t.Totals.MaterialsSubtotal)))
	for _, warn := range t.Warnings {
		printWarning(w, "%s", warn)
	}
}

func printLabor(w io.Writer, plan model.LaborPlanResult) {
	printTitle(w, "Labor - "+plan.Template)
	rows := make([][]string, 0, len(plan.Tasks))
	for _, task := range plan.Tasks {
		name := task.Task
		if task.Overridden {
			name += " *"
		}
		rows = append(rows, []string{
			task.Key, name, task.QuantityDriver, export.Quantity(task.Quantity),
			export.Quantity(task.Hours), export.Money(task.Rate), export.Money(task.Cost),
		})
	}
	tbl := newTable("Key", "Task", "Driver", "Qty", "Hours", "Rate", "Cost").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col >= 3 {
				return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, tbl.Render())
	printKeyValue(w, "Total hours", export.Quantity(plan.TotalHours))
	printKeyValue(w, "Labor cost", export.Money(plan.TotalLaborCost))
}

func printEstimate(w io.Writer, tot model.EstimateTotals, s model.EstimateSettings) {
	printTitle(w, "Estimate")
	printKeyValue(w, "Materials", export.Money(tot.SubtotalMaterials))
	printKeyValue(w, "Labor", export.Money(tot.SubtotalLabor))
	printKeyValue(w, "Overhead ("+export.Percent(s.OverheadPct)+")", export.Money(tot.OverheadAmount))
	printKeyValue(w, "Profit ("+export.Percent(s.ProfitPct)+")", export.Money(tot.ProfitAmount))
	printKeyValue(w, "Pre-tax", export.Money(tot.PreTax))
	printKeyValue(w, "Tax ("+export.Percent(s.TaxPct)+", "+string(s.TaxMode)+")", export.Money(tot.TaxAmount))
	fmt.Fprintln(w, lipgloss.NewStyle().Foreground(colorGray).Width(22).Render("Grand total")+" "+
		styleTotal.Render(export.Money(tot.GrandTotal)))
}

func printReport(w io.Writer, r *validation.Report) {
	for _, e := range r.Errors {
		printError(w, "%s", e.Message)
	}
	for _, warn := range r.Warnings {
		printWarning(w, "%s", warn.Message)
	}
	for _, info := range r.Info {
		printInfo(w, "%s", info.Message)
	}
	if r.Valid {
		printSuccess(w, "Inputs are valid (%s)", r.Summary)
	} else {
		printError(w, "Inputs are invalid (%s)", r.Summary)
	}
}

func printComparison(w io.Writer, results []engine.ComparisonResult) {
	printTitle(w, "Scenario comparison")
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			rows = append(rows, []string{r.Scenario.Name, "error: " + r.Err.Error(), "", "", "", ""})
			continue
		}
		rows = append(rows, []string{
			r.Scenario.Name, export.Money(r.MaterialsSubtotal), fmt.Sprint(r.ItemCount),
			fmt.Sprint(r.PostCount), fmt.Sprint(r.BeamCount), export.Quantity(r.OverageFt) + " ft",
		})
	}
	tbl := newTable("Scenario", "Materials", "Items", "Posts", "Beams", "Overage").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col > 0 {
				return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, tbl.Render())
}

func printDiff(w io.Writer, d engine.TakeoffDiff) {
	if d.Empty() {
		printInfo(w, "No changes")
		return
	}
	for _, it := range d.Added {
		fmt.Fprintln(w, styleIconSuccess.Render("+")+" "+it.Name+" "+styleDim.Render(export.Quantity(it.Qty)+" "+string(it.Unit)))
	}
	for _, it := range d.Removed {
		fmt.Fprintln(w, styleIconError.Render("-")+" "+it.Name+" "+styleDim.Render(export.Quantity(it.Qty)+" "+string(it.Unit)))
	}
	for _, ch := range d.Changed {
		fmt.Fprintln(w, styleIconWarning.Render("~")+" "+ch.Name+" "+styleDim.Render(fmt.Sprintf("%s @ %s %s %s @ %s",
			export.Quantity(ch.From.Qty), export.Money(ch.From.UnitCost), iconArrow,
			export.Quantity(ch.To.Qty), export.Money(ch.To.UnitCost))))
	}
	printKeyValue(w, "Subtotal change", export.Money(d.SubtotalChange))
}
