package ledger

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Duplicate-scan thresholds: same amount, dates at most a week apart,
// and descriptions within 40% edit distance of the longer one.
const (
	dedupeMaxDaysApart = 7
	dedupeMaxDistance  = 0.4
)

// DuplicatePair flags two transactions that look like the same
// purchase recorded twice, for user review.
type DuplicatePair struct {
	A          Transaction
	B          Transaction
	Similarity float64
}

// DuplicateScan compares every pair of records and returns the likely
// duplicates: equal amounts, close dates, near-identical descriptions.
func DuplicateScan(txs []Transaction) []DuplicatePair {
	var out []DuplicatePair
	for i := 0; i < len(txs); i++ {
		for j := i + 1; j < len(txs); j++ {
			a, b := txs[i], txs[j]
			if !a.Amount.Equal(b.Amount) {
				continue
			}
			if daysApart(a, b) > dedupeMaxDaysApart {
				continue
			}
			sim, close := descriptionSimilarity(a.Description, b.Description)
			if !close {
				continue
			}
			out = append(out, DuplicatePair{A: a, B: b, Similarity: sim})
		}
	}
	return out
}

func daysApart(a, b Transaction) int {
	d := a.DateTime().Sub(b.DateTime())
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

func descriptionSimilarity(a, b string) (float64, bool) {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1, true
	}
	dist := levenshtein.ComputeDistance(strings.ToUpper(a), strings.ToUpper(b))
	ratio := float64(dist) / float64(longest)
	return 1 - ratio, ratio < dedupeMaxDistance
}
