package search

import "github.com/spendlog/spendlog/internal/ledger"

// MatchTransaction reports whether a record matches the compiled
// pattern on any searchable field: description, category, amount as
// plain decimal text, or ISO date text. One hit is sufficient.
func MatchTransaction(t ledger.Transaction, m *Matcher) bool {
	if m == nil {
		return false
	}
	return m.Match(t.Description) ||
		m.Match(t.Category) ||
		m.Match(t.AmountText()) ||
		m.Match(t.Date)
}
