package submission

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// SanitizeText strips every tag from raw. The result stays HTML-escaped:
// "<b>Tom</b>" becomes "Tom", "Tom & Jerry" becomes "Tom &amp; Jerry" and
// already escaped markup is never decoded back into tags.
func SanitizeText(raw string) string {
	if !strings.ContainsAny(raw, "<>&\"'") {
		return raw
	}
	return textSanitizer().Sanitize(raw)
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case string:
		return SanitizeText(typed)
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = sanitizeValue(v)
		}
		return out
	case []string:
		out := make([]string, len(typed))
		for i, v := range typed {
			out[i] = SanitizeText(v)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = sanitizeValue(v)
		}
		return out
	default:
		return value
	}
}
