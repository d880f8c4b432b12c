package search

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/ledger"
)

// Suggestion is a named pattern offered for one-click search.
type Suggestion struct {
	Name        string
	Pattern     string
	Flags       string
	Description string
	// Advanced marks the lookaround/backreference catalog; Explanation
	// tells the user what construct the pattern demonstrates.
	Advanced    bool
	Explanation string
}

// SuggestionSet groups data-driven suggestions by the field they are
// derived from.
type SuggestionSet struct {
	Amounts      []Suggestion
	Dates        []Suggestion
	Descriptions []Suggestion
	Categories   []Suggestion
	Advanced     []Suggestion
}

// QuickPatterns is the fixed catalog available independent of data.
func QuickPatterns() []Suggestion {
	return []Suggestion{
		{Name: "With cents", Pattern: `\.\d{2}\b`, Flags: "g", Description: "amounts carrying a cents part"},
		{Name: "Beverages", Pattern: `(coffee|tea|juice|beer|wine|soda)`, Flags: "gi", Description: "drink purchases"},
		{Name: "Duplicate words", Pattern: `\b(\w+)\s+\1\b`, Flags: "gi", Description: "descriptions repeating a word"},
		{Name: "Large amounts", Pattern: `\b\d{3,}\b`, Flags: "g", Description: "three or more digit amounts"},
		{Name: "Weekend mentions", Pattern: `(saturday|sunday|weekend)`, Flags: "gi", Description: "weekend wording in descriptions"},
		{Name: "Food", Pattern: `(restaurant|cafe|grocer|lunch|dinner|pizza|takeaway)`, Flags: "gi", Description: "food and dining keywords"},
		{Name: "Transport", Pattern: `(uber|taxi|bus|train|tram|fuel|petrol|parking)`, Flags: "gi", Description: "getting-around keywords"},
		{Name: "Bills", Pattern: `(electric|water|gas|internet|phone|rent|insurance)`, Flags: "gi", Description: "recurring bill keywords"},
		{Name: "School", Pattern: `(school|tuition|course|textbook|uni)`, Flags: "gi", Description: "education keywords"},
	}
}

// Suggestions derives patterns from the current record set: amount
// distribution, date ranges, description topics, per-category patterns,
// and the fixed advanced catalog.
func (e *Engine) Suggestions(txs []ledger.Transaction) SuggestionSet {
	now := e.now()
	return SuggestionSet{
		Amounts:      amountSuggestions(txs),
		Dates:        dateSuggestions(now),
		Descriptions: descriptionSuggestions(txs),
		Categories:   categorySuggestions(txs),
		Advanced:     advancedSuggestions(),
	}
}

func amountSuggestions(txs []ledger.Transaction) []Suggestion {
	out := []Suggestion{
		{Name: "Large", Pattern: `\b\d{3,}(\.\d{1,2})?\b`, Flags: "g", Description: "amounts of 100 or more"},
		{Name: "Small", Pattern: `\b\d(\.\d{1,2})?\b`, Flags: "g", Description: "single-digit amounts"},
		{Name: "Round", Pattern: `^\d+$`, Flags: "g", Description: "whole amounts with no cents"},
		{Name: "Has cents", Pattern: `\.\d{1,2}\b`, Flags: "g", Description: "amounts with a fractional part"},
	}
	if mean, ok := meanAmount(txs); ok {
		out = append(out, Suggestion{
			Name:        "Above average",
			Pattern:     aboveAmountPattern(mean),
			Flags:       "g",
			Description: fmt.Sprintf("amounts above the current mean (%s)", mean.StringFixed(2)),
		})
	}
	return out
}

func meanAmount(txs []ledger.Transaction) (decimal.Decimal, bool) {
	if len(txs) == 0 {
		return decimal.Zero, false
	}
	sum := decimal.Zero
	for _, t := range txs {
		sum = sum.Add(t.Amount)
	}
	return sum.Div(decimal.NewFromInt(int64(len(txs)))), true
}

// aboveAmountPattern builds a pattern matching decimal texts whose
// integer part is at least the mean rounded up. One alternative per
// digit position covers values that share the threshold's prefix but
// carry a higher digit there, plus the threshold itself and anything
// with more digits.
func aboveAmountPattern(mean decimal.Decimal) string {
	intPart := mean.Ceil().IntPart()
	if intPart < 1 {
		intPart = 1
	}
	threshold := fmt.Sprintf("%d", intPart)

	alts := []string{fmt.Sprintf(`\d{%d,}`, len(threshold)+1), threshold}
	for i := 0; i < len(threshold); i++ {
		d := threshold[i] - '0'
		if d >= 9 {
			continue
		}
		alt := fmt.Sprintf(`%s[%d-9]`, threshold[:i], d+1)
		if rest := len(threshold) - i - 1; rest > 0 {
			alt += fmt.Sprintf(`\d{%d}`, rest)
		}
		alts = append(alts, alt)
	}
	return fmt.Sprintf(`^(%s)(\.\d+)?$`, strings.Join(alts, "|"))
}

func dateSuggestions(now time.Time) []Suggestion {
	return []Suggestion{
		{Name: "This year", Pattern: fmt.Sprintf(`^%d-`, now.Year()), Flags: "g", Description: "dated this calendar year"},
		{Name: "This month", Pattern: fmt.Sprintf(`^%s-`, now.Format("2006-01")), Flags: "g", Description: "dated this calendar month"},
		{Name: "Month end", Pattern: `-(2[89]|3[01])$`, Flags: "g", Description: "the last days of any month"},
		{Name: "First week", Pattern: `-0[1-7]$`, Flags: "g", Description: "the first seven days of any month"},
	}
}

// topWordSuggestions bounds how many frequent-word patterns are offered.
const topWordSuggestions = 3

func descriptionSuggestions(txs []ledger.Transaction) []Suggestion {
	out := []Suggestion{
		{Name: "Food", Pattern: `(coffee|cafe|lunch|dinner|restaurant|grocer)`, Flags: "gi", Description: "food and dining"},
		{Name: "Transport", Pattern: `(uber|taxi|bus|train|fuel|petrol)`, Flags: "gi", Description: "travel and fuel"},
		{Name: "Shopping", Pattern: `(amazon|store|shop|mall|market)`, Flags: "gi", Description: "retail purchases"},
		{Name: "Bills", Pattern: `(electric|water|internet|phone|rent|bill)`, Flags: "gi", Description: "utilities and rent"},
		{Name: "Entertainment", Pattern: `(movie|cinema|netflix|spotify|game|concert)`, Flags: "gi", Description: "fun spending"},
		{Name: "Duplicate words", Pattern: `\b(\w+)\s+\1\b`, Flags: "gi", Description: "repeated words in descriptions"},
		{Name: "Long descriptions", Pattern: `.{50,}`, Flags: "g", Description: "descriptions of 50+ characters"},
	}
	freq := WordFrequency(txs)
	for i := 0; i < len(freq) && i < topWordSuggestions; i++ {
		if freq[i].Count < 2 {
			break
		}
		out = append(out, Suggestion{
			Name:        "Often: " + freq[i].Word,
			Pattern:     `\b` + regexp.QuoteMeta(freq[i].Word) + `\b`,
			Flags:       "gi",
			Description: fmt.Sprintf("%q appears in %d descriptions", freq[i].Word, freq[i].Count),
		})
	}
	return out
}

func categorySuggestions(txs []ledger.Transaction) []Suggestion {
	var order []string
	seen := map[string]bool{}
	for _, t := range txs {
		if t.Category == "" || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		order = append(order, t.Category)
	}

	out := make([]Suggestion, 0, len(order))
	for _, c := range order {
		out = append(out, Suggestion{
			Name:        c,
			Pattern:     `\b` + regexp.QuoteMeta(c) + `\b`,
			Flags:       "gi",
			Description: fmt.Sprintf("records in the %s category", c),
		})
	}
	return out
}

func advancedSuggestions() []Suggestion {
	return []Suggestion{
		{
			Name: "Lookahead", Pattern: `\d+(?=\.\d{2})`, Flags: "g", Advanced: true,
			Explanation: "(?=...) matches the integer part only when cents follow",
		},
		{
			Name: "Lookbehind", Pattern: `(?<=\.)\d{2}`, Flags: "g", Advanced: true,
			Explanation: "(?<=...) matches the two cents digits only after a decimal point",
		},
		{
			Name: "Backreference", Pattern: `\b(\w+)\s+\1\b`, Flags: "gi", Advanced: true,
			Explanation: `\1 re-matches the captured word, finding immediate repeats`,
		},
		{
			Name: "Negative lookahead", Pattern: `^(?!.*coffee).*$`, Flags: "gi", Advanced: true,
			Explanation: "(?!...) accepts only text that never mentions coffee",
		},
		{
			Name: "Word boundary", Pattern: `\bcafe\b`, Flags: "gi", Advanced: true,
			Explanation: `\b anchors the match to whole words, so "cafeteria" is skipped`,
		},
		{
			Name: "Multi-format number", Pattern: `\d+(?:[.,]\d{1,2})?`, Flags: "g", Advanced: true,
			Explanation: "a non-capturing group accepts both dot and comma decimal marks",
		},
	}
}

// WordCount pairs a description token with its frequency.
type WordCount struct {
	Word  string
	Count int
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// WordFrequency counts lower-cased, punctuation-stripped description
// tokens longer than two characters, most frequent first. Ties break
// alphabetically so the order is stable.
func WordFrequency(txs []ledger.Transaction) []WordCount {
	counts := map[string]int{}
	for _, t := range txs {
		for _, tok := range tokenRe.FindAllString(strings.ToLower(t.Description), -1) {
			if len(tok) > 2 {
				counts[tok]++
			}
		}
	}

	out := make([]WordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, WordCount{Word: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out
}
