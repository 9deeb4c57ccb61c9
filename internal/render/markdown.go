package render

import (
	"bytes"

	"github.com/agenticai/patterns/internal/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithXHTML(),
	),
)

// MarkdownToHTML converts GitHub flavoured markdown to an HTML fragment.
// Raw HTML in the input is not passed through.
func MarkdownToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// TaskDescription renders the description of t. Tasks without a
// description render to an empty string.
func TaskDescription(t *model.Task) (string, error) {
	if t.Description == nil || *t.Description == "" {
		return "", nil
	}

	return MarkdownToHTML(*t.Description)
}
