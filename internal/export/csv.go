package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// WriteMaterialsCSV writes the takeoff as a flat material list. Money
// columns are plain decimals so spreadsheets can sum them.
func WriteMaterialsCSV(w io.Writer, t model.TakeoffResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(materialHeaders); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, it := range t.Items {
		record := []string{
			string(it.Category),
			it.Name,
			it.PriceKey.String(),
			num(it.Qty),
			string(it.Unit),
			num(it.WasteFactor),
			strconv.FormatFloat(it.UnitCost, 'f', 2, 64),
			strconv.FormatFloat(model.Round2(it.LineTotal()), 'f', 2, 64),
			it.Vendor,
			strconv.Itoa(it.LeadTimeDays),
			strconv.FormatBool(it.IsAllowance),
			it.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %q: %w", it.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the material list to a file.
func ExportCSV(path string, t model.TakeoffResult) error {
	if len(t.Items) == 0 {
		return fmt.Errorf("no takeoff items to export")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := WriteMaterialsCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
