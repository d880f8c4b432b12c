package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/database/repository"
)

// Settings-table keys.
const (
	settingSettings  = "settings"
	settingBudgetCap = "budget_cap"
)

// SQLitePersistence is the production persistence collaborator: arrays
// in, arrays out, no transactional semantics promised to the caller
// beyond each save being atomic.
type SQLitePersistence struct {
	transactions *repository.TransactionRepo
	categories   *repository.CategoryRepo
	settings     *repository.SettingRepo
}

// NewSQLitePersistence builds the collaborator over an open, migrated
// database.
func NewSQLitePersistence(db *sql.DB) *SQLitePersistence {
	return &SQLitePersistence{
		transactions: repository.NewTransactionRepo(db),
		categories:   repository.NewCategoryRepo(db),
		settings:     repository.NewSettingRepo(db),
	}
}

func (p *SQLitePersistence) LoadTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := p.transactions.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, Transaction{
			ID:          r.ID,
			Description: r.Description,
			Amount:      decimal.New(r.AmountCents, -2),
			Category:    r.Category,
			Date:        r.Date,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out, nil
}

func (p *SQLitePersistence) SaveTransactions(ctx context.Context, txs []Transaction) error {
	rows := make([]repository.Transaction, 0, len(txs))
	for i, t := range txs {
		rows = append(rows, repository.Transaction{
			ID:          t.ID,
			Description: t.Description,
			AmountCents: t.Amount.Shift(2).IntPart(),
			Category:    t.Category,
			Date:        t.Date,
			Position:    i,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}
	return p.transactions.ReplaceAll(ctx, rows)
}

func (p *SQLitePersistence) LoadCategories(ctx context.Context) ([]string, error) {
	return p.categories.List(ctx)
}

func (p *SQLitePersistence) SaveCategories(ctx context.Context, cats []string) error {
	return p.categories.ReplaceAll(ctx, cats)
}

func (p *SQLitePersistence) LoadSettings(ctx context.Context) (Settings, bool, error) {
	raw, found, err := p.settings.Get(ctx, settingSettings)
	if err != nil || !found {
		return Settings{}, false, err
	}
	var s Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		// Corrupt settings degrade to defaults rather than failing the load.
		return Settings{}, false, nil
	}
	return s, true, nil
}

func (p *SQLitePersistence) SaveSettings(ctx context.Context, s Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return p.settings.Set(ctx, settingSettings, string(data))
}

func (p *SQLitePersistence) LoadBudgetCap(ctx context.Context) (*decimal.Decimal, error) {
	raw, found, err := p.settings.Get(ctx, settingBudgetCap)
	if err != nil || !found {
		return nil, err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, nil
	}
	return &d, nil
}

func (p *SQLitePersistence) SaveBudgetCap(ctx context.Context, budgetCap *decimal.Decimal) error {
	if budgetCap == nil {
		return p.settings.Delete(ctx, settingBudgetCap)
	}
	return p.settings.Set(ctx, settingBudgetCap, budgetCap.String())
}

// Clear wipes all persisted data, leaving the schema intact.
func (p *SQLitePersistence) Clear(ctx context.Context) error {
	if err := p.transactions.ReplaceAll(ctx, nil); err != nil {
		return err
	}
	if err := p.categories.ReplaceAll(ctx, nil); err != nil {
		return err
	}
	if err := p.settings.Delete(ctx, settingSettings); err != nil {
		return err
	}
	return p.settings.Delete(ctx, settingBudgetCap)
}
