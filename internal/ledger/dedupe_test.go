package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dedupeTx(id, desc, amount, date string) Transaction {
	return Transaction{
		ID:          id,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Category:    "Food",
		Date:        date,
	}
}

func TestDuplicateScanFlagsNearIdenticalPairs(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		dedupeTx("a", "Coffee at Joe's", "4.50", "2025-03-01"),
		dedupeTx("b", "COFFEE AT JOES", "4.50", "2025-03-03"),
		dedupeTx("c", "Rent", "4.50", "2025-03-01"),
	}

	pairs := DuplicateScan(txs)
	require.Len(t, pairs, 1)
	require.Equal(t, "a", pairs[0].A.ID)
	require.Equal(t, "b", pairs[0].B.ID)
	require.Greater(t, pairs[0].Similarity, 0.6)
}

func TestDuplicateScanRequiresEqualAmounts(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		dedupeTx("a", "Coffee", "4.50", "2025-03-01"),
		dedupeTx("b", "Coffee", "4.60", "2025-03-01"),
	}
	require.Empty(t, DuplicateScan(txs))
}

func TestDuplicateScanDateWindow(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		dedupeTx("a", "Coffee", "4.50", "2025-03-01"),
		dedupeTx("b", "Coffee", "4.50", "2025-03-08"),
		dedupeTx("c", "Coffee", "4.50", "2025-03-20"),
	}

	pairs := DuplicateScan(txs)
	require.Len(t, pairs, 1, "a and b are a week apart; c is too far from both")
	require.Equal(t, "a", pairs[0].A.ID)
	require.Equal(t, "b", pairs[0].B.ID)
}

func TestDuplicateScanIdenticalDescriptions(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		dedupeTx("a", "Exact same", "10", "2025-03-01"),
		dedupeTx("b", "Exact same", "10", "2025-03-01"),
	}
	pairs := DuplicateScan(txs)
	require.Len(t, pairs, 1)
	require.InDelta(t, 1.0, pairs[0].Similarity, 0.001)
}
