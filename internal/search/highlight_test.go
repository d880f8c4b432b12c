package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, raw string) *Matcher {
	t.Helper()
	var c Compiler
	m, err := c.Compile(raw)
	require.NoError(t, err)
	return m
}

func TestEscapeHTML(t *testing.T) {
	t.Parallel()

	require.Equal(t, "&lt;b&gt;&amp;&quot;&#39;", EscapeHTML(`<b>&"'`))
	require.Equal(t, "plain text", EscapeHTML("plain text"))
}

func TestHighlightHTMLWrapsMatches(t *testing.T) {
	t.Parallel()

	m := mustCompile(t, "/coffee/gi")
	out := HighlightHTML("coffee and more coffee", m)
	require.Equal(t, "<mark>coffee</mark> and more <mark>coffee</mark>", out)
}

func TestHighlightHTMLNonGlobalStopsAtFirst(t *testing.T) {
	t.Parallel()

	m := mustCompile(t, "/coffee/i")
	out := HighlightHTML("coffee and more coffee", m)
	require.Equal(t, "<mark>coffee</mark> and more coffee", out)
}

func TestHighlightHTMLEscapesSource(t *testing.T) {
	t.Parallel()

	m := mustCompile(t, "/script/gi")
	out := HighlightHTML(`<script>alert("x")</script>`, m)
	require.NotContains(t, out, "<script")
	require.Contains(t, out, "&lt;<mark>script</mark>&gt;")
	require.Contains(t, out, "&quot;")
}

func TestHighlightHTMLOnlyMarkupUnescaped(t *testing.T) {
	t.Parallel()

	m := mustCompile(t, "/lunch/gi")
	out := HighlightHTML("lunch < dinner & snacks", m)
	stripped := strings.ReplaceAll(out, "<mark>", "")
	stripped = strings.ReplaceAll(stripped, "</mark>", "")
	require.NotContains(t, stripped, "<")
	require.NotContains(t, stripped, ">")
}

func TestHighlightHTMLNilMatcher(t *testing.T) {
	t.Parallel()

	require.Equal(t, "a &amp; b", HighlightHTML("a & b", nil))
}

func TestSpans(t *testing.T) {
	t.Parallel()

	m := mustCompile(t, "/coffee/gi")
	spans := Spans("coffee then COFFEE", m)
	require.Equal(t, []Span{{Start: 0, End: 6}, {Start: 12, End: 18}}, spans)
}

func TestSpansNonGlobal(t *testing.T) {
	t.Parallel()

	m := mustCompile(t, "/coffee/i")
	spans := Spans("coffee then COFFEE", m)
	require.Equal(t, []Span{{Start: 0, End: 6}}, spans)
}

func TestSpansNilAndNoMatch(t *testing.T) {
	t.Parallel()

	require.Nil(t, Spans("anything", nil))
	require.Empty(t, Spans("tea", mustCompile(t, "/coffee/gi")))
}

func TestSpansSkipsZeroWidthMatches(t *testing.T) {
	t.Parallel()

	m := mustCompile(t, "/a*/g")
	spans := Spans("bab", m)
	require.Equal(t, []Span{{Start: 1, End: 2}}, spans)
}
