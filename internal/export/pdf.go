package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/DeckTakeoff/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// categoryColor is the RGB band drawn beside each category heading.
type categoryColor struct {
	R, G, B int
}

var categoryColors = map[model.Category]categoryColor{
	model.CategoryFraming:       {R: 121, G: 85, B: 72},   // brown
	model.CategoryDecking:       {R: 255, G: 152, B: 0},   // orange
	model.CategoryFasteners:     {R: 96, G: 125, B: 139},  // slate
	model.CategoryFootings:      {R: 158, G: 158, B: 158}, // concrete
	model.CategoryHardware:      {R: 33, G: 150, B: 243},  // blue
	model.CategoryWaterproofing: {R: 0, G: 188, B: 212},   // cyan
	model.CategoryRailing:       {R: 156, G: 39, B: 176},  // purple
	model.CategoryStairs:        {R: 76, G: 175, B: 80},   // green
	model.CategoryCover:         {R: 244, G: 67, B: 54},   // red
	model.CategoryCeiling:       {R: 255, G: 235, B: 59},  // yellow
	model.CategoryFence:         {R: 139, G: 195, B: 74},  // light green
}

// Page layout constants (US Letter portrait in mm).
const (
	pageWidth    = 215.9
	pageHeight   = 279.4
	marginLeft   = 12.0
	marginRight  = 12.0
	marginTop    = 14.0
	marginBottom = 16.0
	rowHeight    = 5.5
	contentWidth = pageWidth - marginLeft - marginRight
	reviewQRSize = 32.0
)

// materialColumns are the widths of the materials table; they sum to contentWidth.
var materialColumns = []struct {
	header string
	width  float64
	align  string
}{
	{"Item", 66, "L"},
	{"Qty", 16, "R"},
	{"Unit", 12, "C"},
	{"Waste", 14, "R"},
	{"Unit cost", 22, "R"},
	{"Line total", 24, "R"},
	{"Vendor", 37.9, "L"},
}

// ExportPDF writes the takeoff as a materials list, followed by the labor
// plan and the estimate summary when the document carries them.
func ExportPDF(path string, doc Document) error {
	if len(doc.Takeoff.Items) == 0 {
		return fmt.Errorf("no takeoff items to export")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetFooterFunc(func() {
		pdf.SetY(pageHeight - marginBottom + 4)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(contentWidth/2, 4, "Quantities are estimates and not a structural design.", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth/2, 4, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	y := renderHeader(pdf, doc)
	y = renderMaterials(pdf, doc.Takeoff, y)

	if doc.Labor != nil && len(doc.Labor.Tasks) > 0 {
		y = renderLabor(pdf, *doc.Labor, y+6)
	}
	if doc.Totals != nil {
		if err := renderEstimate(pdf, doc, y+6); err != nil {
			return err
		}
	}

	return pdf.OutputFileAndClose(path)
}

// ensureSpace starts a new page when h millimetres do not fit below y.
func ensureSpace(pdf *fpdf.Fpdf, y, h float64) float64 {
	if y+h > pageHeight-marginBottom {
		pdf.AddPage()
		return marginTop
	}
	return y
}

func renderHeader(pdf *fpdf.Fpdf, doc Document) float64 {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth, 9, doc.title(), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop+9)
	t := doc.Takeoff
	stats := fmt.Sprintf("%s | %s | %s sqft | %d items (%d allowances)",
		doc.date(), t.DesignMode, Quantity(t.Totals.DeckSqft), t.Totals.ItemCount, t.Totals.AllowanceCount)
	if t.DesignMode == model.ModeFence {
		stats = fmt.Sprintf("%s | fence | %s sqft of fence face | %d items (%d allowances)",
			doc.date(), Quantity(t.Totals.DeckSqft), t.Totals.ItemCount, t.Totals.AllowanceCount)
	}
	pdf.CellFormat(contentWidth, 5, stats, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+16, pageWidth-marginRight, marginTop+16)

	y := marginTop + 19
	if len(t.Warnings) > 0 {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(200, 0, 0)
		for _, w := range t.Warnings {
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(contentWidth, 4, "! "+w, "", 0, "L", false, 0, "")
			y += 4
		}
		pdf.SetTextColor(0, 0, 0)
		y += 2
	}
	return y
}

func tableHeader(pdf *fpdf.Fpdf, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for _, c := range materialColumns {
		pdf.SetXY(x, y)
		pdf.CellFormat(c.width, rowHeight, c.header, "1", 0, "C", true, 0, "")
		x += c.width
	}
	return y + rowHeight
}

// renderMaterials draws one table section per category in takeoff order,
// each closed by a category subtotal.
func renderMaterials(pdf *fpdf.Fpdf, t model.TakeoffResult, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, "Materials", "", 0, "L", false, 0, "")
	y = tableHeader(pdf, y+8)

	for _, cat := range categoryOrder(t.Items) {
		items := t.ItemsIn(cat)
		y = ensureSpace(pdf, y, 2*rowHeight)
		if y == marginTop {
			y = tableHeader(pdf, y)
		}

		col, ok := categoryColors[cat]
		if !ok {
			col = categoryColor{R: 200, G: 200, B: 200}
		}
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(marginLeft, y, 2, rowHeight, "F")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetXY(marginLeft+3, y)
		pdf.CellFormat(contentWidth-3, rowHeight, string(cat), "", 0, "L", false, 0, "")
		y += rowHeight

		pdf.SetFont("Helvetica", "", 8)
		for i, it := range items {
			y = ensureSpace(pdf, y, rowHeight)
			if y == marginTop {
				y = tableHeader(pdf, y)
				pdf.SetFont("Helvetica", "", 8)
			}
			if i%2 == 0 {
				pdf.SetFillColor(248, 248, 248)
			} else {
				pdf.SetFillColor(255, 255, 255)
			}
			name := it.Name
			if it.IsAllowance {
				name += " *"
			}
			row := []string{
				truncate(pdf, name, materialColumns[0].width-2),
				Quantity(it.Qty),
				string(it.Unit),
				Percent(it.WasteFactor),
				Money(it.UnitCost),
				Money(it.LineTotal()),
				truncate(pdf, it.Vendor, materialColumns[6].width-2),
			}
			x := marginLeft
			for j, cell := range row {
				pdf.SetXY(x, y)
				pdf.CellFormat(materialColumns[j].width, rowHeight, cell, "1", 0, materialColumns[j].align, true, 0, "")
				x += materialColumns[j].width
			}
			y += rowHeight
		}

		y = ensureSpace(pdf, y, rowHeight)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetXY(marginLeft, y)
		label := fmt.Sprintf("%s subtotal", cat)
		pdf.CellFormat(contentWidth-materialColumns[5].width-materialColumns[6].width, rowHeight, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(materialColumns[5].width, rowHeight, Money(model.MaterialsSubtotal(items)), "", 0, "R", false, 0, "")
		y += rowHeight + 1
	}

	y = ensureSpace(pdf, y, 12)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth-materialColumns[6].width, 6,
		"Materials subtotal: "+Money(t.Totals.MaterialsSubtotal), "", 0, "R", false, 0, "")
	y += 6
	if t.Totals.AllowanceCount > 0 {
		pdf.SetFont("Helvetica", "I", 7)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(contentWidth, 4, "* allowance: replace with a vendor quote before contract", "", 0, "L", false, 0, "")
		y += 4
	}
	return y
}

func renderLabor(pdf *fpdf.Fpdf, plan model.LaborPlanResult, y float64) float64 {
	y = ensureSpace(pdf, y, 8+2*rowHeight)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, "Labor - "+plan.Template, "", 0, "L", false, 0, "")
	y += 8

	widths := []float64{60, 51.9, 20, 18, 22, 20}
	headers := []string{"Task", "Driver", "Qty", "Hours", "Rate", "Cost"}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], rowHeight, h, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	y += rowHeight

	pdf.SetFont("Helvetica", "", 8)
	for _, task := range plan.Tasks {
		y = ensureSpace(pdf, y, rowHeight)
		name := task.Task
		if task.Overridden {
			name += " (override)"
		}
		row := []string{name, task.QuantityDriver, Quantity(task.Quantity), Quantity(task.Hours), Money(task.Rate), Money(task.Cost)}
		x = marginLeft
		for i, cell := range row {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.SetXY(x, y)
			pdf.CellFormat(widths[i], rowHeight, truncate(pdf, cell, widths[i]-2), "1", 0, align, false, 0, "")
			x += widths[i]
		}
		y += rowHeight
	}

	y = ensureSpace(pdf, y, 6)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 6,
		fmt.Sprintf("%s hours | Labor total: %s", Quantity(plan.TotalHours), Money(plan.TotalLaborCost)), "", 0, "R", false, 0, "")
	return y + 6
}

// renderEstimate draws the markup rollup and, when a review URL is set, a
// QR code that opens the online proposal.
func renderEstimate(pdf *fpdf.Fpdf, doc Document, y float64) error {
	y = ensureSpace(pdf, y, 60)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, "Estimate", "", 0, "L", false, 0, "")
	y += 9

	tot := *doc.Totals
	s := model.DefaultEstimateSettings()
	if doc.Settings != nil {
		s = *doc.Settings
	}
	taxLabel := "Tax on materials"
	if s.TaxMode == model.TaxGrandTotal {
		taxLabel = "Tax on pre-tax total"
	}
	lines := []struct {
		label string
		value string
		bold  bool
	}{
		{"Materials", Money(tot.SubtotalMaterials), false},
		{"Labor", Money(tot.SubtotalLabor), false},
		{fmt.Sprintf("Overhead (%s)", Percent(s.OverheadPct)), Money(tot.OverheadAmount), false},
		{fmt.Sprintf("Profit (%s)", Percent(s.ProfitPct)), Money(tot.ProfitAmount), false},
		{"Pre-tax total", Money(tot.PreTax), true},
		{fmt.Sprintf("%s (%s)", taxLabel, Percent(s.TaxPct)), Money(tot.TaxAmount), false},
		{"Grand total", Money(tot.GrandTotal), true},
	}

	startY := y
	for _, l := range lines {
		style := ""
		if l.bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, l.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, l.value, "", 0, "R", false, 0, "")
		y += 7
	}

	if doc.ReviewURL == "" {
		return nil
	}
	png, err := qrcode.Encode(doc.ReviewURL, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate review QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader("review_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	qrX := pageWidth - marginRight - reviewQRSize
	pdf.ImageOptions("review_qr", qrX, startY, reviewQRSize, reviewQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(qrX, startY+reviewQRSize+1)
	pdf.CellFormat(reviewQRSize, 4, "Scan to review online", "", 0, "C", false, 0, "")
	return nil
}

// categoryOrder lists categories in the order they first appear.
func categoryOrder(items []model.TakeoffItem) []model.Category {
	seen := make(map[model.Category]bool)
	var out []model.Category
	for _, it := range items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}

// truncate shortens s with an ellipsis until it fits width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
