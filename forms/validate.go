// Package forms declares the HTML form schemas of the site and turns
// submitted values into API payloads.
//
// A schema is a struct: `form` tags bind request fields, `validate` tags
// declare rules and `label` names the field in messages.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to the message of its first failing rule.
type Errors map[string]string

// Empty reports whether no field failed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Get returns the message for field, if any.
func (e Errors) Get(field string) string {
	return e[field]
}

// Normalizer is implemented by schemas that derive values before validation.
type Normalizer interface {
	Normalize()
}

var (
	validate        = newValidator()
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	// intrange=lo-hi: an integer within [lo,hi].
	must("intrange", func(fl validator.FieldLevel) bool {
		lo, hi, ok := parseRange(fl.Param())
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return ok && err == nil && n >= lo && n <= hi
	})
	// nonneg: empty, or a number >= 0.
	must("nonneg", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		if s == "" {
			return true
		}
		f, err := strconv.ParseFloat(s, 64)
		return err == nil && f >= 0
	})
	must("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	// csvmin1: at least one non-empty comma separated item.
	must("csvmin1", func(fl validator.FieldLevel) bool {
		return len(SplitList(fl.Field().String(), ",")) > 0
	})
	return v
}

func parseRange(param string) (lo, hi int, ok bool) {
	a, b, found := strings.Cut(param, "-")
	if !found {
		return 0, 0, false
	}
	lo, errA := strconv.Atoi(a)
	hi, errB := strconv.Atoi(b)
	return lo, hi, errA == nil && errB == nil
}

// Validate normalizes form (a pointer to a schema) and checks every rule.
// All failing fields are reported, one message per field.
func Validate(form any) Errors {
	if n, ok := form.(Normalizer); ok {
		n.Normalize()
	}
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"": err.Error()}
	}

	t := reflect.TypeOf(form)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := Errors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		label := fe.StructField()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if l := sf.Tag.Get("label"); l != "" {
				label = l
			}
		}
		out[fe.Field()] = message(fe, label)
	}
	return out
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required", "required_if":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "url":
		return "Invalid URL"
	case "email":
		return "Invalid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return "Passwords don't match"
	case "intrange":
		lo, hi, _ := parseRange(fe.Param())
		return fmt.Sprintf("%s must be a whole number between %d and %d", label, lo, hi)
	case "nonneg":
		return label + " must be 0 or greater"
	case "username":
		return label + " can only contain letters, numbers, and underscores"
	case "csvmin1":
		return label + " needs at least one entry"
	case "datetime":
		return label + " must be a date (YYYY-MM-DD)"
	default:
		return label + " is invalid"
	}
}
