package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/model"
	"gopkg.in/yaml.v3"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadDesignInputs reads a design from a JSON or YAML file. YAML files use
// the same keys as the JSON form.
func LoadDesignInputs(path string) (model.DesignInputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDesignInputs(data, isYAML(path))
}

// ParseDesignInputs decodes design inputs from JSON, or from YAML when
// asYAML is set.
func ParseDesignInputs(data []byte, asYAML bool) (model.DesignInputs, error) {
	if asYAML {
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse yaml design")
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "convert yaml design")
		}
		data = converted
	}
	in, err := model.DecodeDesignInputs(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode design")
	}
	return in, nil
}

// SaveDesignInputs writes a design as JSON, or YAML for .yaml/.yml paths.
func SaveDesignInputs(path string, in model.DesignInputs) error {
	data, err := model.EncodeDesignInputs(in)
	if err != nil {
		return err
	}
	if isYAML(path) {
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		if data, err = yaml.Marshal(doc); err != nil {
			return fmt.Errorf("encode yaml design: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
