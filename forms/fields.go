package forms

import (
	"reflect"
	"strings"
)

// Kind selects the input widget of a Field.
type Kind string

const (
	Text     Kind = "text"
	TextArea Kind = "textarea"
	URL      Kind = "url"
	Number   Kind = "number"
	Date     Kind = "date"
	Email    Kind = "email"
	Password Kind = "password"
	Select   Kind = "select"
	Checkbox Kind = "checkbox"
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Field describes how one schema field is rendered by the generic form view.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Required    bool
	Placeholder string
	Help        string
	Rows        int
	Min, Max    string
	Options     []Option
}

// EnumOptions turns enum constants into options labelled "In Progress" style.
func EnumOptions(values []string) []Option {
	opts := make([]Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, Option{Value: v, Label: Humanize(v)})
	}
	return opts
}

// Humanize renders IN_PROGRESS as "In Progress".
func Humanize(enum string) string {
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(enum), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Values returns the fields of a schema keyed by their form name, for templates.
func Values(form any) map[string]any {
	v := reflect.ValueOf(form)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	out := map[string]any{}
	if v.Kind() != reflect.Struct {
		return out
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		out[name] = v.Field(i).Interface()
	}
	return out
}
