package content

import (
	"strings"

	"github.com/samber/lo"
)

// CompareNumbers are the numbers covered by the comparison text.
var CompareNumbers = []string{"3", "5", "7", "9", "40"}

// Culture is one tradition of the comparison text.
type Culture struct {
	Code   string
	Label  string
	Button string
}

// Culture codes with special roles in the compare views.
const (
	CultureKazakh  = "kazakh"
	CultureSummary = "summary"
)

// Cultures in display order. Label is the prefix a block starts with.
var Cultures = []Culture{
	{Code: CultureKazakh, Label: "Қазақ / Түркі", Button: "🇰🇿 Қазақ / Түркі"},
	{Code: "islam", Label: "Ислам", Button: "☪️ Ислам"},
	{Code: "christ", Label: "Христиан", Button: "✝️ Христиан"},
	{Code: "persian", Label: "Парсы", Button: "🇮🇷 Парсы"},
	{Code: "hindu", Label: "Үнді", Button: "🇮🇳 Үнді"},
	{Code: "china", Label: "Қытай", Button: "🇨🇳 Қытай"},
	{Code: "mongol", Label: "Моңғол", Button: "🇲🇳 Моңғол"},
	{Code: CultureSummary, Label: "Қысқаша салыстыру", Button: "🧭 Қысқаша салыстыру"},
}

// CultureByCode looks up a culture.
func CultureByCode(code string) (Culture, bool) {
	return lo.Find(Cultures, func(c Culture) bool { return c.Code == code })
}

// IsCompareNumber reports whether n has a comparison section.
func IsCompareNumber(n string) bool {
	return lo.Contains(CompareNumbers, n)
}

func matchCulture(label string) (Culture, bool) {
	return lo.Find(Cultures, func(c Culture) bool { return strings.HasPrefix(label, c.Label) })
}

var sectionStops = []string{"<hr>", "Қорытынды:"}

// ExtractSection returns the part of text about number: from the line
// starting with "<number> саны" up to the next compare number header,
// cut at the first "<hr>" or "Қорытынды:".
func ExtractSection(text, number string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), number+" саны") {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}
	end := len(lines)
	for j := start + 1; j < len(lines) && end == len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		if lo.ContainsBy(CompareNumbers, func(other string) bool { return strings.HasPrefix(trimmed, other+" саны") }) {
			end = j
		}
	}
	section := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
	for _, stop := range sectionStops {
		if before, _, found := strings.Cut(section, stop); found {
			section = strings.TrimSpace(before)
		}
	}
	return section
}

// Block is the text of one culture inside a section.
type Block struct {
	Code  string
	Label string
	Text  string
}

// ParseCultures splits a section into its header line and culture
// blocks. A block starts at a "Label: text" line whose label begins with
// a known culture label; following lines belong to it.
func ParseCultures(section string) (string, []Block) {
	lines := strings.Split(section, "\n")
	if section == "" || len(lines) == 0 {
		return "", nil
	}
	header := strings.TrimSpace(lines[0])

	var (
		blocks  []Block
		current *Block
		buf     []string
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(strings.Join(buf, "\n"))
		blocks = append(blocks, *current)
	}
	for _, line := range lines[1:] {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			if current != nil && len(buf) > 0 {
				buf = append(buf, "")
			}
			continue
		}
		if label, rest, ok := strings.Cut(stripped, ":"); ok {
			if c, found := matchCulture(strings.TrimSpace(label)); found {
				flush()
				current = &Block{Code: c.Code, Label: strings.TrimSpace(label)}
				buf = []string{strings.TrimSpace(rest)}
				continue
			}
		}
		if current != nil {
			buf = append(buf, stripped)
		}
	}
	flush()
	return header, blocks
}

// FindBlock returns the block of culture code.
func FindBlock(blocks []Block, code string) (Block, bool) {
	return lo.Find(blocks, func(b Block) bool { return b.Code == code })
}
