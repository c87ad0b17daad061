package views

import (
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/techjourney/folio/forms"
	"github.com/techjourney/folio/models"
	"github.com/techjourney/folio/utils"
)

const dateLayout = "Jan 02, 2006"

var funcs = template.FuncMap{
	"formatDate": formatDate,
	"markdown":   utils.RenderMarkdown,
	"join":       func(items []string, sep string) string { return strings.Join(items, sep) },
	"humanize":   forms.Humanize,
	"deref":      forms.Deref,
	"add":        func(a, b int) int { return a + b },
	"sub":        func(a, b int) int { return a - b },
	"seq":        seq,
	"dict":       dict,
	"contains":   contains,
	"level":      func(proficiency int) string { return models.Skill{Proficiency: proficiency}.Level() },
	"band":       band,
	"truncate":   truncate,
	"initial":    initial,
	"formNonce":  uuid.NewString,
	"statusClass": func(status string) string {
		return "status-" + strings.ReplaceAll(strings.ToLower(status), "_", "-")
	},
}

// formatDate accepts time.Time, *time.Time or an ISO date string.
func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(dateLayout)
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatDate(*t)
	case string:
		parsed, ok := models.ParseDate(t)
		if !ok {
			return t
		}
		return parsed.Format(dateLayout)
	case *string:
		return formatDate(forms.Deref(t))
	}
	return ""
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, errors.New("dict: keys must be strings")
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}

// band maps a proficiency to the color class of its bar.
func band(proficiency int) string {
	switch {
	case proficiency >= 90:
		return "band-expert"
	case proficiency >= 70:
		return "band-advanced"
	case proficiency >= 50:
		return "band-intermediate"
	default:
		return "band-beginner"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

func initial(s string) string {
	for _, r := range s {
		return strings.ToUpper(string(r))
	}
	return "?"
}
