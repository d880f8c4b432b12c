package validate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTransactionReportsAllFields(t *testing.T) {
	t.Parallel()

	res := Transaction(Candidate{
		Description: " bad ",
		Amount:      "nope",
		Category:    "Food2",
		Date:        "not-a-date",
	})
	require.False(t, res.OK)
	require.Len(t, res.Fields, 4)
	require.Equal(t, ReasonEdgeWhitespace, res.Fields[FieldDescription].Reason)
	require.Equal(t, ReasonNotNumeric, res.Fields[FieldAmount].Reason)
	require.Equal(t, ReasonBadCategory, res.Fields[FieldCategory].Reason)
	require.Equal(t, ReasonBadDateFormat, res.Fields[FieldDate].Reason)
}

func TestTransactionValid(t *testing.T) {
	t.Parallel()

	res := Transaction(Candidate{
		Description: "Lunch",
		Amount:      "14.20",
		Category:    "Food",
		Date:        time.Now().Format("2006-01-02"),
	})
	require.True(t, res.OK)
	require.True(t, res.Amount.Equal(decimal.RequireFromString("14.2")))
	for field, r := range res.Fields {
		require.True(t, r.OK, "field %s: %s", field, r.Detail)
	}
}

func TestImportDataRejectsEmptyPayload(t *testing.T) {
	t.Parallel()

	res := ImportData(ImportPayload{})
	require.False(t, res.OK)
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors[0], "none of")
}

func TestImportDataDuplicateIDs(t *testing.T) {
	t.Parallel()

	row := ImportTransaction{
		ID:          "a1",
		Description: "Lunch",
		Amount:      decimal.RequireFromString("10"),
		Category:    "Food",
		Date:        "2020-01-15",
	}
	res := ImportData(ImportPayload{
		Transactions:    []ImportTransaction{row, row},
		HasTransactions: true,
	})
	require.False(t, res.OK)
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors[0], "transaction 2: duplicate id (same as transaction 1)")
}

func TestImportDataPositionsAreOneBased(t *testing.T) {
	t.Parallel()

	res := ImportData(ImportPayload{
		Transactions: []ImportTransaction{
			{ID: "a1", Description: "Lunch", Amount: decimal.RequireFromString("10"), Category: "Food", Date: "2020-01-15"},
			{ID: "a2", Description: "", Amount: decimal.RequireFromString("10"), Category: "Food", Date: "2020-01-15"},
		},
		HasTransactions: true,
	})
	require.False(t, res.OK)
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors[0], "transaction 2:")
}

func TestImportDataHistoricalDatesAllowed(t *testing.T) {
	t.Parallel()

	// Imports carry old data; the ten-year user-entry policy does not apply.
	res := ImportData(ImportPayload{
		Transactions: []ImportTransaction{
			{ID: "a1", Description: "Old rent", Amount: decimal.RequireFromString("500"), Category: "Bills", Date: "1999-01-01"},
		},
		HasTransactions: true,
	})
	require.True(t, res.OK, "errors: %v", res.Errors)
}

func TestImportDataNegativeBudgetCap(t *testing.T) {
	t.Parallel()

	neg := decimal.RequireFromString("-1")
	res := ImportData(ImportPayload{BudgetCap: &neg, HasBudgetCap: true})
	require.False(t, res.OK)
	require.Contains(t, res.Errors[0], "budgetCap")
}

func TestImportDataBadCategorySection(t *testing.T) {
	t.Parallel()

	res := ImportData(ImportPayload{
		Categories:    []string{"Food", "Nope123"},
		HasCategories: true,
	})
	require.False(t, res.OK)
	require.Contains(t, res.Errors[0], "category 2:")
}
