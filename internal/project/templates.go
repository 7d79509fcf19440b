package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// SaveTemplates writes the labor template store to a JSON file.
func SaveTemplates(path string, store model.LaborTemplateStore) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadTemplates reads a labor template store from a JSON file.
// If the file does not exist, returns a store seeded with the built-in templates.
func LoadTemplates(path string) (model.LaborTemplateStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewLaborTemplateStore(), nil
		}
		return model.LaborTemplateStore{}, err
	}
	var store model.LaborTemplateStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.LaborTemplateStore{}, err
	}
	if store.Templates == nil {
		store.Templates = []model.LaborTemplate{}
	}
	return store, nil
}

// ExportTemplate writes a single template to a JSON file for sharing.
func ExportTemplate(path string, tpl model.LaborTemplate) error {
	data, err := json.MarshalIndent(tpl, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportTemplate reads a single template from a JSON file. Missing rates
// and production values take the standard defaults.
func ImportTemplate(path string) (model.LaborTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.LaborTemplate{}, err
	}

	tpl := model.LaborTemplate{Rates: model.DefaultLaborRates(), Production: model.DefaultLaborProduction()}
	if err := json.Unmarshal(data, &tpl); err != nil {
		return model.LaborTemplate{}, err
	}
	if tpl.Name == "" {
		return model.LaborTemplate{}, errors.New("imported template has no name")
	}
	if tpl.ID == "" {
		tpl.ID = model.NewLaborTemplate(tpl.Name, tpl.Rates, tpl.Production).ID
	}
	return tpl, nil
}

// ResolveTemplate picks a template by ID or name from the store, falling
// back to the built-in default for the design when ref is empty.
func ResolveTemplate(store model.LaborTemplateStore, ref string, in model.DesignInputs) (model.LaborTemplate, bool) {
	if ref == "" {
		return model.DefaultTemplateFor(in), true
	}
	if t := store.FindByID(ref); t != nil {
		return *t, true
	}
	if t := store.FindByName(ref); t != nil {
		return *t, true
	}
	return model.LaborTemplate{}, false
}
