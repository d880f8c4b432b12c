package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompilePlainPattern(t *testing.T) {
	t.Parallel()

	c := Compiler{CaseInsensitive: true}
	m, err := c.Compile("coffee")
	require.NoError(t, err)
	require.Equal(t, "coffee", m.Pattern)
	require.Equal(t, "gi", m.Flags)
	require.True(t, m.Global)
	require.True(t, m.Match("Morning COFFEE run"))
}

func TestCompileCaseSensitiveDefault(t *testing.T) {
	t.Parallel()

	c := Compiler{CaseInsensitive: false}
	m, err := c.Compile("coffee")
	require.NoError(t, err)
	require.Equal(t, "g", m.Flags)
	require.False(t, m.Match("COFFEE"))
	require.True(t, m.Match("coffee"))
}

func TestCompileSelfDelimited(t *testing.T) {
	t.Parallel()

	c := Compiler{CaseInsensitive: false}
	m, err := c.Compile("/coffee/i")
	require.NoError(t, err)
	require.Equal(t, "coffee", m.Pattern)
	require.Equal(t, "i", m.Flags)
	require.False(t, m.Global)
	require.True(t, m.Match("COFFEE"))
}

func TestCompileBodyMayContainSlashes(t *testing.T) {
	t.Parallel()

	var c Compiler
	m, err := c.Compile(`/a/b/i`)
	require.NoError(t, err)
	require.Equal(t, "a/b", m.Pattern)
	require.Equal(t, "i", m.Flags)
}

func TestCompileAmbiguousTrailingSlash(t *testing.T) {
	t.Parallel()

	var c Compiler
	_, err := c.Compile("/a//")
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, ReasonAmbiguousDelimiter, cerr.Reason)
}

func TestCompileEmptyPattern(t *testing.T) {
	t.Parallel()

	var c Compiler
	_, err := c.Compile("//gi")
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, ReasonEmptyPattern, cerr.Reason)
}

func TestCompileBadSyntax(t *testing.T) {
	t.Parallel()

	var c Compiler
	_, err := c.Compile("[unclosed")
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, ReasonBadSyntax, cerr.Reason)
	require.NotEmpty(t, cerr.Detail)
}

func TestCompileUnknownFlag(t *testing.T) {
	t.Parallel()

	var c Compiler
	_, err := c.Compile("/coffee/giz")
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, ReasonBadFlags, cerr.Reason)
	require.Contains(t, cerr.Detail, "z")
}

func TestCompileRecordsLast(t *testing.T) {
	t.Parallel()

	var c Compiler
	require.Nil(t, c.Last())

	m, err := c.Compile("coffee")
	require.NoError(t, err)
	require.Same(t, m, c.Last())

	_, err = c.Compile("[broken")
	require.Error(t, err)
	require.Same(t, m, c.Last(), "failed compile must not clobber last")
}

func TestCompileAdvancedSyntax(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		pattern string
		match   string
		miss    string
	}{
		{"lookahead", `/coffee(?=\s+shop)/`, "coffee shop", "coffee break"},
		{"lookbehind", `/(?<=\$)\d+/`, "$25", "25"},
		{"backreference", `/\b(\w+)\s+\1\b/`, "paid paid rent", "paid rent"},
		{"negative lookahead", `/\d+(?!\.\d)/`, "42", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var c Compiler
			m, err := c.Compile(tc.pattern)
			require.NoError(t, err)
			require.True(t, m.Match(tc.match))
			if tc.miss != "" {
				require.False(t, m.Match(tc.miss))
			}
		})
	}
}

func TestDisplayRoundTrip(t *testing.T) {
	t.Parallel()

	var c Compiler
	m, err := c.Compile("/cents/gi")
	require.NoError(t, err)
	require.Equal(t, "/cents/gi", m.Display())

	again, err := c.Compile(m.Display())
	require.NoError(t, err)
	require.Equal(t, m.Pattern, again.Pattern)
	require.Equal(t, m.Flags, again.Flags)
}

func TestCompileErrorIsValueNotPanic(t *testing.T) {
	t.Parallel()

	var c Compiler
	_, err := c.Compile("(unbalanced")
	require.Error(t, err)
	require.True(t, errors.As(err, new(*CompileError)))
}
