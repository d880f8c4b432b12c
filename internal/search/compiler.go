// Package search implements the regex-driven search engine: safe
// compilation of user-supplied patterns, OR-across-fields matching of
// transactions, bounded search history, curated and data-driven
// pattern suggestions, and match highlighting.
//
// Patterns run on a backtracking engine (dlclark/regexp2) because the
// advanced catalog relies on lookahead, lookbehind and backreferences,
// none of which Go's RE2-based stdlib regexp can express. Every matcher
// carries a match timeout so a catastrophic pattern degrades into a
// non-match instead of hanging the event loop.
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single match attempt. Typed queries run on
// every keystroke, so a runaway pattern must fail fast.
const matchTimeout = 100 * time.Millisecond

// CompileReason classifies why a pattern failed to compile.
type CompileReason string

const (
	ReasonEmptyPattern       CompileReason = "empty_pattern"
	ReasonBadSyntax          CompileReason = "bad_syntax"
	ReasonBadFlags           CompileReason = "bad_flags"
	ReasonAmbiguousDelimiter CompileReason = "ambiguous_delimiter"
)

// CompileError reports a pattern that could not be compiled. It is
// always returned as a value result to the caller, never panicked.
type CompileError struct {
	Reason CompileReason
	Detail string
}

func (e *CompileError) Error() string { return e.Detail }

// Matcher is a compiled, safely-bounded pattern plus its canonical
// pattern body and flags.
type Matcher struct {
	re      *regexp2.Regexp
	Pattern string
	Flags   string
	// Global mirrors the "g" flag: highlight every match rather than
	// only the first. Boolean matching is unaffected by it.
	Global bool
}

// Match reports whether the pattern matches anywhere in s. Matching
// errors (i.e. a timeout on a pathological pattern) count as no match.
// regexp2 matchers keep no scan cursor between calls, so a Matcher is
// safe to reuse across fields and records.
func (m *Matcher) Match(s string) bool {
	okMatch, err := m.re.MatchString(s)
	return err == nil && okMatch
}

// Display renders the matcher in self-delimited /pattern/flags form.
func (m *Matcher) Display() string {
	return "/" + m.Pattern + "/" + m.Flags
}

// Compiler turns raw user strings into matchers and remembers the last
// successful compile for re-highlighting.
type Compiler struct {
	// CaseInsensitive seeds the default flags ("gi" vs "g") when the
	// raw string carries no explicit flag override.
	CaseInsensitive bool

	last *Matcher
}

// Last returns the most recently compiled matcher, or nil.
func (c *Compiler) Last() *Matcher { return c.last }

// Compile parses an optionally self-delimited raw pattern string and
// compiles it. On success the result is recorded as last-used.
func (c *Compiler) Compile(raw string) (*Matcher, error) {
	body, flags, err := splitPattern(raw, defaultFlags(c.CaseInsensitive))
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, &CompileError{Reason: ReasonEmptyPattern, Detail: "pattern is empty"}
	}
	m, err := compile(body, flags)
	if err != nil {
		return nil, err
	}
	c.last = m
	return m, nil
}

func defaultFlags(caseInsensitive bool) string {
	if caseInsensitive {
		return "gi"
	}
	return "g"
}

// splitPattern extracts the pattern body and flags. A raw string that
// begins with "/" and contains a later "/" is self-delimited: the body
// sits between the first and last slash and anything after the last
// slash replaces the default flags. The split uses the last slash so a
// body may itself contain slashes; a split that leaves the body ending
// in "/" with no flags is indistinguishable from a missing delimiter
// and is reported rather than guessed.
func splitPattern(raw, defaults string) (body, flags string, err error) {
	if strings.HasPrefix(raw, "/") {
		if last := strings.LastIndex(raw, "/"); last > 0 {
			body = raw[1:last]
			flags = raw[last+1:]
			if flags == "" && strings.HasSuffix(body, "/") {
				return "", "", &CompileError{
					Reason: ReasonAmbiguousDelimiter,
					Detail: "pattern body ends in / with no flags; add explicit flags or escape the slash",
				}
			}
			return body, flags, nil
		}
	}
	return raw, defaults, nil
}

// compile maps flag letters onto engine options and builds the matcher.
func compile(body, flags string) (*Matcher, error) {
	opts := regexp2.None
	global := false
	for _, f := range flags {
		switch f {
		case 'g':
			global = true
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		default:
			return nil, &CompileError{Reason: ReasonBadFlags, Detail: fmt.Sprintf("unknown flag %q", string(f))}
		}
	}

	re, err := regexp2.Compile(body, opts)
	if err != nil {
		return nil, &CompileError{Reason: ReasonBadSyntax, Detail: err.Error()}
	}
	re.MatchTimeout = matchTimeout

	return &Matcher{re: re, Pattern: body, Flags: flags, Global: global}, nil
}
