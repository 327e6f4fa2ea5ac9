package openapi

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
)

var allowedExtensionKeys = map[string]func(any) string{
	"label":       expectString,
	"placeholder": expectString,
	"hint":        expectString,
	"type":        expectFieldType,
	"rows":        expectNumber,
	"order":       expectNumber,
}

// Violation reports a malformed x-formengine extension.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

// Lint checks the x-formengine extensions of every request body schema in the
// document. Violations are sorted by location.
func Lint(ctx context.Context, raw []byte, opts ...Option) ([]Violation, error) {
	doc, err := load(ctx, raw, newOptions(opts))
	if err != nil {
		return nil, err
	}

	var out []Violation
	ops := collectOperations(doc)
	ids := make([]string, 0, len(ops))
	for id := range ops {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		op := ops[id]
		if op.RequestBody == nil {
			continue
		}
		l := linter{seen: make(map[*openapi3.Schema]struct{})}
		l.schema([]string{"operation", id, "requestBody"}, op.RequestBody.Value)
		out = append(out, l.violations...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Location == out[j].Location {
			return out[i].Message < out[j].Message
		}
		return out[i].Location < out[j].Location
	})
	return out, nil
}

type linter struct {
	seen       map[*openapi3.Schema]struct{}
	violations []Violation
}

func (l *linter) schema(path []string, s *openapi3.Schema) {
	if s == nil {
		return
	}
	if _, ok := l.seen[s]; ok {
		return
	}
	l.seen[s] = struct{}{}

	l.extensions(path, s.Extensions)
	for _, key := range sortedKeys(s.Properties) {
		l.schema(appendPath(path, "properties."+key), resolveRef(s.Properties[key]))
	}
	if s.Items != nil {
		l.schema(appendPath(path, "items"), s.Items.Value)
	}
	for i, ref := range s.AllOf {
		l.schema(appendPath(path, fmt.Sprintf("allOf[%d]", i)), resolveRef(ref))
	}
}

func (l *linter) extensions(path []string, extensions map[string]any) {
	value, ok := extensions[ExtensionKey]
	if !ok {
		return
	}
	nested, ok := value.(map[string]any)
	if !ok {
		l.add(path, fmt.Sprintf("%s must be an object, found %T", ExtensionKey, value))
		return
	}

	keys := make([]string, 0, len(nested))
	for key := range nested {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		check, ok := allowedExtensionKeys[key]
		if !ok {
			l.add(appendPath(path, key), fmt.Sprintf("unsupported extension key %q (supported: %s)", key, strings.Join(allowedKeyNames(), ", ")))
			continue
		}
		if msg := check(nested[key]); msg != "" {
			l.add(appendPath(path, key), msg)
		}
	}
}

func (l *linter) add(path []string, msg string) {
	l.violations = append(l.violations, Violation{Location: strings.Join(path, " > "), Message: msg})
}

func expectString(value any) string {
	if _, ok := value.(string); ok {
		return ""
	}
	return fmt.Sprintf("must be a string (got %T)", value)
}

func expectNumber(value any) string {
	if _, ok := coerce.Number(value); ok {
		return ""
	}
	return fmt.Sprintf("must be a number (got %T)", value)
}

func expectFieldType(value any) string {
	s, ok := value.(string)
	if !ok {
		return fmt.Sprintf("must be a string (got %T)", value)
	}
	if !model.FieldType(s).Known() {
		return fmt.Sprintf("unknown field type %q", s)
	}
	return ""
}

func allowedKeyNames() []string {
	out := make([]string, 0, len(allowedExtensionKeys))
	for key := range allowedExtensionKeys {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}
