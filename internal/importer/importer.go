// Package importer reads price catalogs from CSV and Excel files and deck
// footprints from DXF drawings. CSV import detects the delimiter, and both
// tabular formats map columns by case-insensitive header aliases.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of a catalog import.
type ImportResult struct {
	Entries  []model.CatalogEntry
	Errors   []string
	Warnings []string
}

// ColumnMapping maps catalog column roles to their indices in the data.
type ColumnMapping struct {
	Base      int
	UnitCost  int
	Vendor    int
	Allowance int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"base":      {"base", "material", "name", "item", "description", "desc", "product"},
	"unit_cost": {"unit_cost", "unit cost", "cost", "price", "unit price", "$/unit", "$/ft", "price per ft"},
	"vendor":    {"vendor", "supplier", "source", "yard"},
	"allowance": {"allowance", "is_allowance", "is allowance", "estimate", "placeholder"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a positional
// mapping (base, cost, vendor, allowance) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Base: -1, UnitCost: -1, Vendor: -1, Allowance: -1}
	slots := map[string]*int{
		"base":      &mapping.Base,
		"unit_cost": &mapping.UnitCost,
		"vendor":    &mapping.Vendor,
		"allowance": &mapping.Allowance,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if *slots[role] == -1 {
						*slots[role] = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Base: 0, UnitCost: 1, Vendor: 2, Allowance: 3}, false
	}
	return mapping, true
}

// parseAllowance reads a yes/no cell. The second result is false when the
// value is not recognized.
func parseAllowance(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "x":
		return true, true
	case "", "no", "n", "false", "0", "-":
		return false, true
	default:
		return false, false
	}
}

// parseCost accepts plain numbers and currency-formatted values like "$1,234.50".
func parseCost(s string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	return strconv.ParseFloat(clean, 64)
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a catalog entry from a row using the given column mapping.
// Returns the entry, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.CatalogEntry, string, string) {
	base := getCell(row, mapping.Base)
	if base == "" {
		return model.CatalogEntry{}, fmt.Sprintf("%s: Missing material name", rowLabel), ""
	}

	costStr := getCell(row, mapping.UnitCost)
	if costStr == "" {
		return model.CatalogEntry{}, fmt.Sprintf("%s: Missing unit cost", rowLabel), ""
	}
	cost, err := parseCost(costStr)
	if err != nil {
		return model.CatalogEntry{}, fmt.Sprintf("%s: Invalid unit cost '%s'", rowLabel, costStr), ""
	}
	if cost < 0 {
		return model.CatalogEntry{}, fmt.Sprintf("%s: Unit cost must not be negative", rowLabel), ""
	}

	var warning string
	allowanceStr := getCell(row, mapping.Allowance)
	allowance, ok := parseAllowance(allowanceStr)
	if !ok {
		warning = fmt.Sprintf("%s: Unknown allowance flag '%s', treating as priced", rowLabel, allowanceStr)
	}

	return model.NewCatalogEntry(base, cost, getCell(row, mapping.Vendor), allowance), "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports catalog entries from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports catalog entries from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports catalog entries from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile dispatches on the file extension.
func ImportFile(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Base == -1 {
			missing = append(missing, "Material")
		}
		if mapping.UnitCost == -1 {
			missing = append(missing, "Unit cost")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 2 {
		// An unrecognized header still has a non-numeric cost cell.
		if _, err := parseCost(strings.TrimSpace(rows[0][1])); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := make(map[string]int)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		entry, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		key := strings.ToLower(entry.Base)
		if prev, ok := seen[key]; ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Duplicate material '%s', later row wins", rowLabel, entry.Base))
			entry.ID = result.Entries[prev].ID
			result.Entries[prev] = entry
			continue
		}
		seen[key] = len(result.Entries)
		result.Entries = append(result.Entries, entry)
	}

	return result
}
