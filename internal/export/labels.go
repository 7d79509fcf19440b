package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/DeckTakeoff/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each pick label's QR code.
type LabelInfo struct {
	Project  string  `json:"project,omitempty"`
	Key      string  `json:"key"`
	Item     string  `json:"item"`
	Category string  `json:"category"`
	Qty      float64 `json:"qty"` // includes waste, rounded up to whole units
	Unit     string  `json:"unit"`
	Vendor   string  `json:"vendor,omitempty"`
	Line     int     `json:"line"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded pick labels, one per orderable
// takeoff line. Each label shows the item, the quantity to pull and the
// vendor; the QR code encodes the same data as JSON for yard scanners.
func ExportLabels(path, project string, takeoff model.TakeoffResult) error {
	labels := CollectLabelInfos(project, takeoff)
	if len(labels) == 0 {
		return fmt.Errorf("no orderable items to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Item, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", info.Line)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, info.Item, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 5, fmt.Sprintf("%s %s", Quantity(info.Qty), info.Unit), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+11)
	pdf.CellFormat(textW, 3, truncate(pdf, fmt.Sprintf("#%d %s", info.Line, info.Category), textW), "", 1, "L", false, 0, "")
	if info.Vendor != "" {
		pdf.SetXY(textX, y+labelPadding+14.5)
		pdf.CellFormat(textW, 3, truncate(pdf, info.Vendor, textW), "", 0, "L", false, 0, "")
	}
	if info.Project != "" {
		pdf.SetXY(textX, y+labelPadding+18)
		pdf.CellFormat(textW, 3, truncate(pdf, info.Project, textW), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts the pick list from a takeoff. Calculated
// summary lines and zero-quantity lines are skipped; the label quantity
// includes waste and is rounded up except for linear and area units.
func CollectLabelInfos(project string, takeoff model.TakeoffResult) []LabelInfo {
	var labels []LabelInfo
	for i, it := range takeoff.Items {
		if it.Vendor == "Calculated" || it.Qty <= 0 {
			continue
		}
		qty := it.Qty * (1 + it.WasteFactor)
		switch it.Unit {
		case model.UnitLinear, model.UnitSqft:
			qty = model.Round2(qty)
		default:
			qty = ceilQty(qty)
		}
		labels = append(labels, LabelInfo{
			Project:  project,
			Key:      it.Key(),
			Item:     it.Name,
			Category: string(it.Category),
			Qty:      qty,
			Unit:     string(it.Unit),
			Vendor:   it.Vendor,
			Line:     i + 1,
		})
	}
	return labels
}

// ceilQty rounds up, ignoring float noise below a hundredth.
func ceilQty(v float64) float64 {
	r := model.Round2(v)
	n := float64(int64(r))
	if r > n {
		return n + 1
	}
	return n
}
