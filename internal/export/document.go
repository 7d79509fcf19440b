// Package export writes takeoffs and estimates to PDF, Excel and CSV files,
// and prints QR-coded pick labels for the material yard.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/piwi3910/DeckTakeoff/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Document is everything an export can show for one project version.
// Labor and Totals are optional; a materials-only export leaves them nil.
type Document struct {
	Project   string
	CreatedAt time.Time
	Takeoff   model.TakeoffResult
	Labor     *model.LaborPlanResult
	Totals    *model.EstimateTotals
	Settings  *model.EstimateSettings
	ReviewURL string // encoded as a QR code on the estimate page when set
}

func (d Document) title() string {
	if d.Project == "" {
		return "Material Takeoff"
	}
	return d.Project
}

func (d Document) date() string {
	t := d.CreatedAt
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format("Jan 2, 2006")
}

var printer = message.NewPrinter(language.AmericanEnglish)

// Money formats a dollar amount with thousands grouping, e.g. "$1,932.00".
func Money(v float64) string {
	v = model.Round2(v)
	if v < 0 {
		return printer.Sprintf("-$%.2f", -v)
	}
	return printer.Sprintf("$%.2f", v)
}

// Quantity formats a quantity without trailing zeros.
func Quantity(v float64) string {
	return strconv.FormatFloat(model.Round2(v), 'f', -1, 64)
}

// Percent formats a fraction as a percentage, e.g. 0.0825 -> "8.25%".
func Percent(f float64) string {
	return fmt.Sprintf("%g%%", model.Round2(f*100))
}
