package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/spendlog/spendlog/internal/database"
	"github.com/spendlog/spendlog/internal/database/repository"
	"github.com/spendlog/spendlog/internal/validate"
)

func testPersistence(t *testing.T) *SQLitePersistence {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewSQLitePersistence(db)
}

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(testPersistence(t), zerolog.Nop())
}

func candidate(desc, amount string) validate.Candidate {
	return validate.Candidate{
		Description: desc,
		Amount:      amount,
		Category:    "Food",
		Date:        time.Now().AddDate(0, 0, -1).Format(DateLayout),
	}
}

func TestStoreSeedsDefaults(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	require.Equal(t, DefaultCategories, s.Categories())
	require.Equal(t, "USD", s.Settings().BaseCurrency)
	require.Nil(t, s.BudgetCap())
	require.Empty(t, s.Transactions())
}

func TestAddValidatesAndStamps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)

	tx, err := s.Add(ctx, candidate("Lunch at the cafe", "14.20"))
	require.NoError(t, err)
	require.NotEmpty(t, tx.ID)
	require.True(t, tx.Amount.Equal(decimal.RequireFromString("14.2")))
	require.Equal(t, tx.CreatedAt, tx.UpdatedAt)
	require.Len(t, s.Transactions(), 1)
}

func TestAddRejectsInvalidCandidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)

	_, err := s.Add(ctx, validate.Candidate{
		Description: " bad ",
		Amount:      "-5",
		Category:    "Food",
		Date:        "2020-01-01",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.False(t, verr.Fields[validate.FieldDescription].OK)
	require.False(t, verr.Fields[validate.FieldAmount].OK)
	require.Empty(t, s.Transactions(), "no partial mutation on rejection")
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	s.now = func() time.Time { return base }

	tx, err := s.Add(ctx, candidate("Lunch", "10"))
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(time.Hour) }
	updated, err := s.Update(ctx, tx.ID, candidate("Long lunch", "12.50"))
	require.NoError(t, err)
	require.Equal(t, tx.ID, updated.ID)
	require.Equal(t, "Long lunch", updated.Description)
	require.Equal(t, tx.CreatedAt, updated.CreatedAt)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestUpdateUnknownID(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	_, err := s.Update(context.Background(), "missing", candidate("x y", "1"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)
	tx, err := s.Add(ctx, candidate("Lunch", "10"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, tx.ID))
	require.Empty(t, s.Transactions())
	require.ErrorIs(t, s.Delete(ctx, tx.ID), ErrNotFound)
}

func TestSetCategoriesDedups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)

	require.NoError(t, s.SetCategories(ctx, []string{"Food", "Food", "Travel"}))
	require.Equal(t, []string{"Food", "Travel"}, s.Categories())

	require.ErrorIs(t, s.SetCategories(ctx, nil), ErrLastCategory)
	require.Error(t, s.SetCategories(ctx, []string{"Bad123"}))
	require.Equal(t, []string{"Food", "Travel"}, s.Categories(), "failed replace leaves the set intact")
}

func TestAddCategoryExistingIsNoOp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)
	before := s.Categories()

	require.NoError(t, s.AddCategory(ctx, "Food"))
	require.Equal(t, before, s.Categories())

	require.NoError(t, s.AddCategory(ctx, "Travel"))
	require.Equal(t, append(before, "Travel"), s.Categories())
}

func TestRemoveCategoryGuards(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)

	_, err := s.Add(ctx, candidate("Lunch", "10"))
	require.NoError(t, err)

	require.ErrorIs(t, s.RemoveCategory(ctx, "Food"), ErrCategoryInUse)
	require.ErrorIs(t, s.RemoveCategory(ctx, "Nope"), ErrNotFound)
	require.NoError(t, s.RemoveCategory(ctx, "Health"))

	require.NoError(t, s.SetCategories(ctx, []string{"Food"}))
	require.ErrorIs(t, s.RemoveCategory(ctx, "Food"), ErrLastCategory)
}

func TestBudgetCapRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := testPersistence(t)
	s := NewStore(p, zerolog.Nop())

	neg := decimal.RequireFromString("-1")
	require.ErrorIs(t, s.SetBudgetCap(ctx, &neg), ErrNegativeCap)

	budgetCap := decimal.RequireFromString("500.50")
	require.NoError(t, s.SetBudgetCap(ctx, &budgetCap))

	reloaded := NewStore(p, zerolog.Nop())
	require.NoError(t, reloaded.Load(ctx))
	require.NotNil(t, reloaded.BudgetCap())
	require.True(t, reloaded.BudgetCap().Equal(budgetCap))

	require.NoError(t, s.SetBudgetCap(ctx, nil))
	reloaded = NewStore(p, zerolog.Nop())
	require.NoError(t, reloaded.Load(ctx))
	require.Nil(t, reloaded.BudgetCap())
}

func TestLoadRoundTripsTransactions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := testPersistence(t)
	s := NewStore(p, zerolog.Nop())

	first, err := s.Add(ctx, candidate("Morning coffee", "4.50"))
	require.NoError(t, err)
	second, err := s.Add(ctx, candidate("Tram ticket", "2.80"))
	require.NoError(t, err)

	reloaded := NewStore(p, zerolog.Nop())
	require.NoError(t, reloaded.Load(ctx))
	txs := reloaded.Transactions()
	require.Len(t, txs, 2)
	require.Equal(t, first.ID, txs[0].ID, "stored order preserved")
	require.Equal(t, second.ID, txs[1].ID)
	require.True(t, txs[0].Amount.Equal(decimal.RequireFromString("4.5")))
	require.Equal(t, "4.5", txs[0].AmountText())
}

func TestLoadDropsInvalidRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	repo := repository.NewTransactionRepo(db)
	now := time.Now().UTC()
	require.NoError(t, repo.ReplaceAll(ctx, []repository.Transaction{
		{ID: "ok", Description: "Lunch", AmountCents: 1050, Category: "Food", Date: "2025-06-01", Position: 0, CreatedAt: now, UpdatedAt: now},
		{ID: "zero-amount", Description: "Broken", AmountCents: 0, Category: "Food", Date: "2025-06-01", Position: 1, CreatedAt: now, UpdatedAt: now},
		{ID: "bad-date", Description: "Broken", AmountCents: 100, Category: "Food", Date: "01/06/2025", Position: 2, CreatedAt: now, UpdatedAt: now},
	}))

	s := NewStore(NewSQLitePersistence(db), zerolog.Nop())
	require.NoError(t, s.Load(ctx))
	txs := s.Transactions()
	require.Len(t, txs, 1)
	require.Equal(t, "ok", txs[0].ID)
}

func TestAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)
	_, err := s.Add(ctx, candidate("Lunch", "10"))
	require.NoError(t, err)

	txs := s.Transactions()
	txs[0].Description = "mutated"
	require.Equal(t, "Lunch", s.Transactions()[0].Description)

	cats := s.Categories()
	cats[0] = "mutated"
	require.Equal(t, "Food", s.Categories()[0])
}

func TestReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := testPersistence(t)
	s := NewStore(p, zerolog.Nop())

	_, err := s.Add(ctx, candidate("Lunch", "10"))
	require.NoError(t, err)
	budgetCap := decimal.NewFromInt(100)
	require.NoError(t, s.SetBudgetCap(ctx, &budgetCap))

	require.NoError(t, s.Reset(ctx))
	require.Empty(t, s.Transactions())
	require.Equal(t, DefaultCategories, s.Categories())
	require.Nil(t, s.BudgetCap())

	reloaded := NewStore(p, zerolog.Nop())
	require.NoError(t, reloaded.Load(ctx))
	require.Empty(t, reloaded.Transactions())
}
