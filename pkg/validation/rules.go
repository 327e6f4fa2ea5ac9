package validation

import (
	"regexp"
	"strings"
	"sync"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
)

// emailPattern follows the WHATWG "valid e-mail address" production. Length
// limits are checked separately because RE2 has no lookahead.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(?:\.[a-zA-Z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

const (
	maxEmailLength     = 254
	maxEmailLocalParts = 64
)

func checkEmail(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	if len(s) > maxEmailLength {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at < 0 || at > maxEmailLocalParts {
		return false
	}
	return emailPattern.MatchString(s)
}

func checkLength(value, param any, ok func(length, bound int) bool) bool {
	bound, valid := coerce.Int(param)
	if !valid {
		return true
	}
	length, measurable := coerce.Length(value)
	if !measurable {
		return true
	}
	return ok(length, bound)
}

func checkBound(value, param any, fieldType model.FieldType, ok func(v, bound float64) bool) bool {
	bound, valid := coerce.Number(param)
	if !valid {
		return true
	}
	number, parsed := coerce.Number(value)
	if !parsed {
		return fieldType != model.FieldTypeNumber
	}
	return ok(number, bound)
}

func (e *Evaluator) checkPattern(value, param any) bool {
	re := e.patterns.compile(param)
	if re == nil {
		return true
	}
	return re.MatchString(coerce.String(value))
}

func (e *Evaluator) checkCustom(value any, rule model.ValidationRule) bool {
	name, ok := rule.Value.(string)
	if !ok {
		return true
	}
	predicate, ok := e.predicates[strings.TrimSpace(name)]
	if !ok {
		return true
	}
	return predicate(value, rule)
}

// patternCache memoises compiled expressions; invalid expressions are cached
// as nil so they are not recompiled on every keystroke.
type patternCache struct {
	mu      sync.Mutex
	entries map[string]*regexp.Regexp
}

func newPatternCache() *patternCache {
	return &patternCache{entries: make(map[string]*regexp.Regexp)}
}

func (c *patternCache) compile(param any) *regexp.Regexp {
	if re, ok := param.(*regexp.Regexp); ok {
		return re
	}
	raw, ok := param.(string)
	if !ok || raw == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if re, cached := c.entries[raw]; cached {
		return re
	}
	re, err := regexp.Compile(anchorPattern(raw))
	if err != nil {
		re = nil
	}
	c.entries[raw] = re
	return re
}

// anchorPattern wraps string patterns so they must match the whole value. A
// leading ^ and a trailing unescaped $ are folded into the wrapping group.
func anchorPattern(raw string) string {
	inner := strings.TrimPrefix(raw, "^")
	if strings.HasSuffix(inner, "$") && !escaped(inner, len(inner)-1) {
		inner = inner[:len(inner)-1]
	}
	return "^(?:" + inner + ")$"
}

// escaped reports whether the byte at i is preceded by an odd run of
// backslashes.
func escaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
