package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formengine/pkg/model"
)

type documentFile struct {
	Forms            []model.FormConfig `json:"forms" yaml:"forms"`
	model.FormConfig `yaml:",inline"`
}

// Parse decodes a JSON or YAML document into its forms. Every form must carry
// an id, a supported schemaVersion and a configuration that passes
// model.Check. source names the document in error messages.
func Parse(data []byte, source string) ([]model.FormConfig, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, source)
	}

	doc, err := decode(data, source)
	if err != nil {
		return nil, err
	}

	forms := doc.Forms
	if len(forms) == 0 {
		forms = []model.FormConfig{doc.FormConfig}
	}

	for idx, form := range forms {
		if strings.TrimSpace(form.ID) == "" {
			return nil, fmt.Errorf("%w (file %s, form %d)", ErrMissingFormID, source, idx)
		}
		if err := CheckVersion(form.SchemaVersion); err != nil {
			return nil, fmt.Errorf("config: form %q (file %s): %w", form.ID, source, err)
		}
		if err := model.Check(form); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", source, err)
		}
	}
	return forms, nil
}

func decode(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
}
