package export

import (
	"fmt"

	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	sheetMaterials = "Materials"
	sheetLabor     = "Labor"
	sheetEstimate  = "Estimate"
)

var materialHeaders = []string{"Category", "Item", "Price key", "Qty", "Unit", "Waste", "Unit cost", "Line total", "Vendor", "Lead days", "Allowance", "Notes"}

// ExportWorkbook writes an Excel workbook with a Materials sheet and, when
// present, Labor and Estimate sheets. Line totals are live formulas so the
// workbook stays correct when a buyer edits a price.
func ExportWorkbook(path string, doc Document) error {
	if len(doc.Takeoff.Items) == 0 {
		return fmt.Errorf("no takeoff items to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetMaterials); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	styles, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}

	if err := writeMaterialsSheet(f, doc.Takeoff, styles); err != nil {
		return err
	}
	if doc.Labor != nil {
		if err := writeLaborSheet(f, *doc.Labor, styles); err != nil {
			return err
		}
	}
	if doc.Totals != nil {
		if err := writeEstimateSheet(f, doc, styles); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

type workbookStyles struct {
	header int
	money  int
	pct    int
	bold   int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	}); err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}
	money := `"$"#,##0.00`
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &money}); err != nil {
		return s, fmt.Errorf("failed to create money style: %w", err)
	}
	if s.pct, err = f.NewStyle(&excelize.Style{NumFmt: 10}); err != nil {
		return s, fmt.Errorf("failed to create percent style: %w", err)
	}
	if s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &money}); err != nil {
		return s, fmt.Errorf("failed to create total style: %w", err)
	}
	return s, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeMaterialsSheet(f *excelize.File, t model.TakeoffResult, st workbookStyles) error {
	if err := writeHeader(f, sheetMaterials, materialHeaders, st.header); err != nil {
		return err
	}

	for i, it := range t.Items {
		r := i + 2
		allowance := "no"
		if it.IsAllowance {
			allowance = "yes"
		}
		values := []interface{}{
			string(it.Category), it.Name, it.PriceKey.String(), it.Qty, string(it.Unit),
			it.WasteFactor, it.UnitCost, nil, it.Vendor, it.LeadTimeDays, allowance, it.Notes,
		}
		if err := writeRow(f, sheetMaterials, r, values); err != nil {
			return fmt.Errorf("failed to write item %d: %w", i+1, err)
		}
		if err := f.SetCellFormula(sheetMaterials, fmt.Sprintf("H%d", r), fmt.Sprintf("ROUND(D%d*(1+F%d)*G%d,2)", r, r, r)); err != nil {
			return fmt.Errorf("failed to write line total %d: %w", i+1, err)
		}
	}

	last := len(t.Items) + 1
	totalRow := last + 1
	if err := f.SetCellValue(sheetMaterials, fmt.Sprintf("G%d", totalRow), "Subtotal"); err != nil {
		return err
	}
	if err := f.SetCellFormula(sheetMaterials, fmt.Sprintf("H%d", totalRow), fmt.Sprintf("SUM(H2:H%d)", last)); err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetMaterials, "F2", fmt.Sprintf("F%d", last), st.pct); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetMaterials, "G2", fmt.Sprintf("H%d", last), st.money); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetMaterials, fmt.Sprintf("H%d", totalRow), fmt.Sprintf("H%d", totalRow), st.bold); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetMaterials, "B", "C", 34); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetMaterials, "I", "I", 24); err != nil {
		return err
	}
	return f.SetPanes(sheetMaterials, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeLaborSheet(f *excelize.File, plan model.LaborPlanResult, st workbookStyles) error {
	if _, err := f.NewSheet(sheetLabor); err != nil {
		return fmt.Errorf("failed to add labor sheet: %w", err)
	}
	if err := writeHeader(f, sheetLabor, []string{"Key", "Task", "Driver", "Qty", "Hours", "Rate", "Cost", "Override"}, st.header); err != nil {
		return err
	}
	for i, task := range plan.Tasks {
		values := []interface{}{task.Key, task.Task, task.QuantityDriver, task.Quantity, task.Hours, task.Rate, task.Cost, task.Overridden}
		if err := writeRow(f, sheetLabor, i+2, values); err != nil {
			return fmt.Errorf("failed to write task %s: %w", task.Key, err)
		}
	}
	totalRow := len(plan.Tasks) + 2
	if err := writeRow(f, sheetLabor, totalRow, []interface{}{"", plan.Template, "Total", nil, plan.TotalHours, nil, plan.TotalLaborCost}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetLabor, "F2", fmt.Sprintf("G%d", totalRow), st.money); err != nil {
		return err
	}
	return f.SetColWidth(sheetLabor, "B", "C", 28)
}

func writeEstimateSheet(f *excelize.File, doc Document, st workbookStyles) error {
	if _, err := f.NewSheet(sheetEstimate); err != nil {
		return fmt.Errorf("failed to add estimate sheet: %w", err)
	}
	s := model.DefaultEstimateSettings()
	if doc.Settings != nil {
		s = *doc.Settings
	}
	tot := *doc.Totals
	rows := [][]interface{}{
		{"Project", doc.title()},
		{"Date", doc.date()},
		{"Materials", tot.SubtotalMaterials},
		{"Labor", tot.SubtotalLabor},
		{"Overhead", tot.OverheadAmount, s.OverheadPct},
		{"Profit", tot.ProfitAmount, s.ProfitPct},
		{"Pre-tax total", tot.PreTax},
		{"Tax (" + string(s.TaxMode) + ")", tot.TaxAmount, s.TaxPct},
		{"Grand total", tot.GrandTotal},
	}
	if doc.ReviewURL != "" {
		rows = append(rows, []interface{}{"Review", doc.ReviewURL})
	}
	for i, r := range rows {
		if err := writeRow(f, sheetEstimate, i+1, r); err != nil {
			return fmt.Errorf("failed to write estimate row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(sheetEstimate, "B3", "B9", st.money); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetEstimate, "C5", "C8", st.pct); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetEstimate, "B9", "B9", st.bold); err != nil {
		return err
	}
	return f.SetColWidth(sheetEstimate, "A", "B", 22)
}
