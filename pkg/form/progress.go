package form

import (
	"math"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
)

// Progress returns the share of required fields holding a value, as a whole
// percentage. A form with no required fields is complete. Only nil and the
// empty string count as unfilled, so false and empty lists are progress.
func Progress(cfg model.FormConfig, values map[string]any) int {
	required := cfg.RequiredFieldNames()
	if len(required) == 0 {
		return 100
	}
	filled := 0
	for _, name := range required {
		if !coerce.IsBlank(values[name]) {
			filled++
		}
	}
	return int(math.Round(float64(filled) / float64(len(required)) * 100))
}

// CompletedSections lists the titles of sections whose required fields are
// all filled. Sections without required fields count as complete.
func CompletedSections(cfg model.FormConfig, values map[string]any) []string {
	var out []string
	for _, section := range cfg.Sections {
		complete := true
		for _, field := range section.Fields {
			if field.Required && coerce.IsBlank(values[field.Name]) {
				complete = false
				break
			}
		}
		if complete {
			out = append(out, section.Title)
		}
	}
	return out
}
