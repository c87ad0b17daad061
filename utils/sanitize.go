package utils

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	sanitizer = bluemonday.UGCPolicy()
	markdown  = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// RenderMarkdown converts post markdown to sanitized HTML safe for templates.
func RenderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
