package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// SaveCatalog writes the price catalog to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveCatalog(path string, catalog model.PriceCatalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCatalog reads the price catalog from the specified JSON file.
// If the file does not exist, it returns the default catalog and saves it.
func LoadCatalog(path string) (model.PriceCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			catalog := model.DefaultCatalog()
			if saveErr := SaveCatalog(path, catalog); saveErr != nil {
				return catalog, saveErr
			}
			return catalog, nil
		}
		return model.PriceCatalog{}, err
	}
	var catalog model.PriceCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return model.PriceCatalog{}, err
	}
	return catalog, nil
}

// MergeCatalog upserts every imported entry into the existing catalog by
// base name. It returns the number of added and replaced entries.
func MergeCatalog(existing *model.PriceCatalog, imported []model.CatalogEntry) (added, replaced int) {
	for _, e := range imported {
		if existing.Upsert(e) {
			replaced++
		} else {
			added++
		}
	}
	return added, replaced
}
