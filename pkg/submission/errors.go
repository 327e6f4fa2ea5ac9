package submission

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formengine/pkg/model"
)

// ErrorMapping splits a server error payload into messages for known fields
// and messages for the form as a whole.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapErrors attributes each payload key to a field of cfg. Keys may be plain
// names, JSON pointers ("/data/email") or dotted paths ("data.email"); the
// first segment naming a field wins. Anything else, including the usual
// form-level keys ("form", "__all__", "non_field_errors"), lands in Form so no
// message is lost. Messages are trimmed and de-duplicated; keys are visited in
// sorted order so Form is stable.
func MapErrors(cfg model.FormConfig, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	known := make(map[string]struct{})
	for _, name := range cfg.FieldNames() {
		known[name] = struct{}{}
	}

	keys := make([]string, 0, len(payload))
	for raw := range payload {
		keys = append(keys, raw)
	}
	sort.Strings(keys)

	for _, raw := range keys {
		messages := normalizeMessages(payload[raw])
		if len(messages) == 0 {
			continue
		}
		name, ok := matchField(raw, known)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[name] = normalizeMessages(append(mapping.Fields[name], messages...))
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func matchField(raw string, known map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}
	if _, ok := known[trimmed]; ok {
		return trimmed, true
	}
	for _, segment := range pathSegments(trimmed) {
		if _, ok := known[segment]; ok {
			return segment, true
		}
	}
	return "", false
}

func pathSegments(path string) []string {
	clean := strings.TrimLeft(path, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(key) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
