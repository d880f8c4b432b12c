package search

import (
	"strings"
	"time"

	"github.com/spendlog/spendlog/internal/ledger"
)

// historyCap bounds the most-recently-used search history.
const historyCap = 10

// HistoryEntry records a successfully compiled search.
type HistoryEntry struct {
	Pattern        string    `json:"pattern"`
	Flags          string    `json:"flags"`
	Timestamp      time.Time `json:"timestamp"`
	DisplayPattern string    `json:"displayPattern"`
}

// Engine orchestrates searching over the working set: it compiles
// queries, filters records, and keeps the bounded search history.
// Create one per session and pass it by reference.
type Engine struct {
	compiler Compiler
	history  []HistoryEntry
	now      func() time.Time
}

// NewEngine returns an engine whose blank-flag queries default to the
// given case sensitivity.
func NewEngine(caseInsensitive bool) *Engine {
	return &Engine{
		compiler: Compiler{CaseInsensitive: caseInsensitive},
		now:      time.Now,
	}
}

// LastMatcher returns the matcher from the most recent successful
// compile, for re-highlighting. Nil before the first search.
func (e *Engine) LastMatcher() *Matcher { return e.compiler.Last() }

// Search filters transactions by a raw query string.
//
// A blank query is a no-op filter: the input is returned unchanged and
// history is untouched. A compile failure is returned as an error,
// distinct from an empty result; existing history is not corrupted.
// On success the query is pushed into history and the surviving
// records keep their original relative order.
func (e *Engine) Search(txs []ledger.Transaction, query string, caseInsensitive bool) ([]ledger.Transaction, *Matcher, error) {
	if strings.TrimSpace(query) == "" {
		return txs, nil, nil
	}

	e.compiler.CaseInsensitive = caseInsensitive
	m, err := e.compiler.Compile(query)
	if err != nil {
		return nil, nil, err
	}

	e.pushHistory(m)

	out := make([]ledger.Transaction, 0, len(txs))
	for _, t := range txs {
		if MatchTransaction(t, m) {
			out = append(out, t)
		}
	}
	return out, m, nil
}

// pushHistory front-inserts an entry, moving an exact pattern+flags
// duplicate to the front instead of appending it twice, and evicts the
// oldest entries beyond the cap.
func (e *Engine) pushHistory(m *Matcher) {
	entry := HistoryEntry{
		Pattern:        m.Pattern,
		Flags:          m.Flags,
		Timestamp:      e.now(),
		DisplayPattern: m.Display(),
	}

	kept := make([]HistoryEntry, 0, len(e.history)+1)
	kept = append(kept, entry)
	for _, h := range e.history {
		if h.Pattern == entry.Pattern && h.Flags == entry.Flags {
			continue
		}
		kept = append(kept, h)
	}
	if len(kept) > historyCap {
		kept = kept[:historyCap]
	}
	e.history = kept
}

// History returns a copy of the search history, newest first. Mutating
// the returned slice does not affect engine state.
func (e *Engine) History() []HistoryEntry {
	out := make([]HistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// ClearHistory empties the search history.
func (e *Engine) ClearHistory() { e.history = nil }

// PatternCheck is the outcome of ValidatePattern.
type PatternCheck struct {
	OK         bool
	Reason     string
	Suggestion string
}

// ValidatePattern compiles a pattern with explicit flags and, on
// failure, maps known engine errors to a targeted human suggestion.
func ValidatePattern(pattern, flags string) PatternCheck {
	if strings.TrimSpace(pattern) == "" {
		return PatternCheck{Reason: "pattern is empty", Suggestion: "type a pattern, e.g. coffee or \\d{2,}"}
	}
	if _, err := compile(pattern, flags); err != nil {
		detail := err.Error()
		return PatternCheck{Reason: detail, Suggestion: suggestFix(detail)}
	}
	return PatternCheck{OK: true}
}

// suggestFix maps known compile-error substrings to targeted advice.
func suggestFix(detail string) string {
	d := strings.ToLower(detail)
	switch {
	case strings.Contains(d, "[] set") || strings.Contains(d, "character class"):
		return "close the character class with ], e.g. [a-z]"
	case strings.Contains(d, ")'s") || strings.Contains(d, "unterminated group"):
		return "balance the parentheses, e.g. (abc)"
	case strings.Contains(d, "escape"):
		return "use a valid escape such as \\d, \\w or \\., or remove the backslash"
	case strings.Contains(d, "group name") || strings.Contains(d, "invalid group"):
		return "name groups as (?<name>...) or use a plain group (...)"
	case strings.Contains(d, "quantifier") || strings.Contains(d, "following nothing") || strings.Contains(d, "{x,y}"):
		return "quantifiers like +, * and {2,3} must follow something to repeat"
	default:
		return "try simplifying the pattern"
	}
}
