package pets

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Los campos de texto libre se guardan sin markup.
var strictPolicy = bluemonday.StrictPolicy()

func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// normalizeTags limpia, descarta vacíos y deduplica (case-insensitive) conservando el primer orden.
func normalizeTags(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = cleanText(t)
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}

func normalizeGender(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "macho":
		return string(GenderMale)
	case "hembra":
		return string(GenderFemale)
	default:
		return strings.TrimSpace(s)
	}
}
