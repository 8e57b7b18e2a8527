// Package format holds helpers for Telegram HTML parse mode.
package format

import (
	"html"
	"strings"
)

// Escape makes arbitrary user or content text safe for ModeHTML.
func Escape(s string) string {
	return html.EscapeString(s)
}

// Bold wraps already escaped text in <b>.
func Bold(s string) string {
	if s == "" {
		return ""
	}
	return "<b>" + s + "</b>"
}

// Italic wraps already escaped text in <i>.
func Italic(s string) string {
	if s == "" {
		return ""
	}
	return "<i>" + s + "</i>"
}

// LabelBlock renders "Label: rest" with the label in bold. Text without
// a ": " separator is returned as is.
func LabelBlock(s string) string {
	label, rest, ok := strings.Cut(s, ": ")
	if !ok {
		return s
	}
	return Bold(label+":") + " " + rest
}

// Paragraphs joins non-empty blocks with a blank line.
func Paragraphs(blocks ...string) string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b != "" {
			out = append(out, b)
		}
	}
	return strings.Join(out, "\n\n")
}
