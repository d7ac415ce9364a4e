package web

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var answerPolicy = bluemonday.UGCPolicy()

// renderMarkdown turns a model answer into sanitized HTML. Answers that fail
// to convert are shown escaped.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(answerPolicy.SanitizeBytes(buf.Bytes()))
}
