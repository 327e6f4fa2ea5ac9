package validation

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
)

// File describes a chosen file. Name may be a path. Size is in bytes and Type
// a MIME type; zero values mean unknown.
type File struct {
	Name string `json:"name" yaml:"name" msgpack:"name"`
	Size int64  `json:"size,omitempty" yaml:"size,omitempty" msgpack:"size,omitempty"`
	Type string `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
}

// Files reads the descriptors held by a file field value. Entries may be File
// values, maps with name/size/type keys or bare names.
func Files(value any) []File {
	if f, ok := fileEntry(value); ok {
		return []File{f}
	}
	list, ok := coerce.List(value)
	if !ok {
		return nil
	}
	out := make([]File, 0, len(list))
	for _, item := range list {
		if f, ok := fileEntry(item); ok {
			out = append(out, f)
		}
	}
	return out
}

func fileEntry(value any) (File, bool) {
	switch typed := value.(type) {
	case File:
		return typed, true
	case *File:
		if typed == nil {
			return File{}, false
		}
		return *typed, true
	case string:
		if strings.TrimSpace(typed) == "" {
			return File{}, false
		}
		return File{Name: typed}, true
	case map[string]any:
		f := File{Name: coerce.String(typed["name"]), Type: coerce.String(typed["type"])}
		if size, ok := coerce.Number(typed["size"]); ok {
			f.Size = int64(size)
		}
		return f, true
	default:
		return File{}, false
	}
}

// FileSize rejects files larger than rule.Param megabytes. Files of unknown
// size pass.
func FileSize(value any, rule model.ValidationRule) bool {
	limit, ok := coerce.Number(rule.Param)
	if !ok || limit <= 0 {
		return true
	}
	maxBytes := int64(limit * 1024 * 1024)
	for _, f := range Files(value) {
		if f.Size > maxBytes {
			return false
		}
	}
	return true
}

// FileType accepts files whose extension or MIME type is listed in
// rule.Param, given as a list or an accept string such as ".pdf,image/*".
// The MIME type falls back to the one registered for the extension.
func FileType(value any, rule model.ValidationRule) bool {
	allowed := acceptList(rule.Param)
	if len(allowed) == 0 {
		return true
	}
	for _, f := range Files(value) {
		if !accepted(f, allowed) {
			return false
		}
	}
	return true
}

func acceptList(param any) []string {
	var raw []string
	if list, ok := coerce.List(param); ok {
		for _, item := range list {
			raw = append(raw, coerce.String(item))
		}
	} else {
		raw = strings.Split(coerce.String(param), ",")
	}
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

func accepted(f File, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(f.Name))
	mimeType := strings.ToLower(strings.TrimSpace(f.Type))
	if mimeType == "" && ext != "" {
		mimeType = strings.ToLower(mime.TypeByExtension(ext))
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	for _, entry := range allowed {
		switch {
		case strings.HasPrefix(entry, "."):
			if ext == entry {
				return true
			}
		case strings.HasSuffix(entry, "/*"):
			if mimeType != "" && strings.HasPrefix(mimeType, strings.TrimSuffix(entry, "*")) {
				return true
			}
		case mimeType == entry:
			return true
		}
	}
	return false
}
