package forms

import (
	"regexp"
	"strconv"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// SplitList splits s on sep, trims each item and drops empty ones.
// The result is never nil so it encodes as [] rather than null.
func SplitList(s, sep string) []string {
	items := []string{}
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// JoinList is the inverse of SplitList for display in a text input.
func JoinList(items []string, sep string) string {
	return strings.Join(items, sep)
}

// NullIfEmpty maps a blank optional value to nil.
func NullIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Deref returns the value of p or "".
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Slugify lowercases title and joins its alphanumeric runs with dashes.
func Slugify(title string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func floatOrNil(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// dateOnly trims an ISO timestamp to the YYYY-MM-DD a date input expects.
func dateOnly(s string) string {
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
