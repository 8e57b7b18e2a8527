package format

import "strings"

const (
	// MessageLimit is the Telegram cap for a text message.
	MessageLimit = 4096
	// CaptionLimit is the Telegram cap for a media caption.
	CaptionLimit = 1024
)

// Len counts runes, which is how Telegram measures limits closely enough.
func Len(s string) int {
	return len([]rune(s))
}

// Split breaks text into parts of at most limit runes. Paragraphs
// (blocks separated by a blank line) are packed greedily; a single
// paragraph longer than limit is hard-split.
func Split(text string, limit int) []string {
	if limit <= 0 || Len(text) <= limit {
		return []string{text}
	}
	var (
		parts   []string
		current string
	)
	for _, block := range strings.Split(text, "\n\n") {
		candidate := block
		if current != "" {
			candidate = current + "\n\n" + block
		}
		if Len(candidate) <= limit {
			current = candidate
			continue
		}
		if current != "" {
			parts = append(parts, current)
			current = block
			if Len(current) <= limit {
				continue
			}
		}
		r := []rune(current)
		for len(r) > limit {
			parts = append(parts, string(r[:limit]))
			r = r[limit:]
		}
		current = string(r)
	}
	if current != "" {
		parts = append(parts, current)
	}
	return parts
}

var sentenceEnds = []string{". ", "! ", "? ", "… "}

// Shorten trims text to about max runes, preferring to stop at the last
// sentence end found after the first 50 runes, and appends "...".
func Shorten(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	cut := string(r[:max])
	for _, sep := range sentenceEnds {
		idx := strings.LastIndex(cut, sep)
		if idx >= 0 && Len(cut[:idx]) > 50 {
			cut = cut[:idx+len(strings.TrimSpace(sep))]
			break
		}
	}
	return strings.TrimRight(cut, " \n\t") + "..."
}
