// Package report renders forms, values and validation results as plain-text
// grid tables for terminals and logs.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bndr/gotabulate"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

const maxCellSize = 48

// Fields tabulates every field of inst with its current value, visibility and
// first validation failure. Password values are masked.
func Fields(inst *form.Instance) string {
	cfg := inst.Config()
	failures := inst.Validate()

	var rows [][]any
	for _, section := range cfg.Sections {
		for _, field := range section.Fields {
			value, _ := inst.Value(field.Name)
			errMsg := ""
			if f := failures[field.Name]; f != nil {
				errMsg = f.Message
			}
			rows = append(rows, []any{
				section.Title,
				field.Name,
				string(field.Type),
				yesNo(field.Required),
				yesNo(inst.Visible(field.Name)),
				displayValue(field, value),
				errMsg,
			})
		}
	}
	title := cfg.Title
	if title == "" {
		title = cfg.ID
	}
	return render(fmt.Sprintf("%s (%d%% complete)", title, inst.Progress()),
		[]string{"Section", "Field", "Type", "Required", "Visible", "Value", "Error"}, rows)
}

// Errors tabulates the failing fields of a Validate result in name order.
func Errors(result map[string]*validation.Failure) string {
	names := make([]string, 0, len(result))
	for name, failure := range result {
		if failure != nil {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "No validation errors"
	}
	sort.Strings(names)

	rows := make([][]any, 0, len(names))
	for _, name := range names {
		failure := result[name]
		rows = append(rows, []any{name, string(failure.Kind), failure.Message})
	}
	return render("Validation errors", []string{"Field", "Rule", "Message"}, rows)
}

// Catalog summarises a set of forms.
func Catalog(forms []model.FormConfig) string {
	if len(forms) == 0 {
		return "No forms"
	}
	rows := make([][]any, 0, len(forms))
	for _, cfg := range forms {
		rows = append(rows, []any{
			cfg.ID,
			cfg.Title,
			strconv.Itoa(len(cfg.Sections)),
			strconv.Itoa(len(cfg.Fields())),
			strconv.Itoa(len(cfg.RequiredFieldNames())),
		})
	}
	return render("", []string{"ID", "Title", "Sections", "Fields", "Required"}, rows)
}

func render(name string, headers []string, rows [][]any) string {
	if len(rows) == 0 {
		return name
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(maxCellSize)
	if name != "" {
		return fmt.Sprintf("%s:\n%s", name, t.Render("grid"))
	}
	return t.Render("grid")
}

func displayValue(field model.FieldConfig, value any) string {
	if coerce.IsBlank(value) {
		return ""
	}
	if field.Type == model.FieldTypePassword {
		return strings.Repeat("*", 8)
	}
	if list, ok := coerce.List(value); ok {
		parts := make([]string, len(list))
		for i, v := range list {
			parts[i] = coerce.String(v)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return coerce.String(value)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
