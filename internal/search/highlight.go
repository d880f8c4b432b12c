package search

import "strings"

// htmlEscaper covers the exact entity set the highlighter guarantees:
// & < > " ' never survive from source text.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five HTML-significant characters.
func EscapeHTML(s string) string { return htmlEscaper.Replace(s) }

// HighlightHTML renders a field's matches wrapped in <mark> spans.
// The text is always escaped first; only then is the matcher applied,
// so the deliberate wrapping markup is the only unescaped output.
// A nil matcher, or any internal matching error, falls back to the
// escaped, unmarked text.
func HighlightHTML(text string, m *Matcher) string {
	escaped := EscapeHTML(text)
	if m == nil {
		return escaped
	}
	count := 1
	if m.Global {
		count = -1
	}
	out, err := m.re.Replace(escaped, "<mark>$0</mark>", 0, count)
	if err != nil {
		return escaped
	}
	return out
}

// Span is a half-open rune range [Start, End) of a match within the
// original text.
type Span struct {
	Start int
	End   int
}

// Spans returns the match ranges in text, for callers that style
// matches themselves (the TUI) instead of emitting markup. A non-global
// matcher yields at most one span. Errors yield no spans.
func Spans(text string, m *Matcher) []Span {
	if m == nil {
		return nil
	}
	var out []Span
	match, err := m.re.FindStringMatch(text)
	for err == nil && match != nil {
		if match.Length == 0 {
			// Zero-width matches would loop forever; FindNextMatch
			// advances past them, but emitting them helps nobody.
			match, err = m.re.FindNextMatch(match)
			continue
		}
		out = append(out, Span{Start: match.Index, End: match.Index + match.Length})
		if !m.Global {
			break
		}
		match, err = m.re.FindNextMatch(match)
	}
	return out
}
