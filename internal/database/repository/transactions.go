package repository

import (
	"context"
	"database/sql"

	"github.com/spendlog/spendlog/internal/database"
)

// TransactionRepo handles the transactions table.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// ReplaceAll swaps the table contents for the given rows in one
// transaction, writing positions in slice order. The working set is
// the source of truth; the table only mirrors it between sessions.
func (r *TransactionRepo) ReplaceAll(ctx context.Context, rows []Transaction) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions(id, description, amount_cents, category, date, position, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?);
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, t := range rows {
			if _, err := stmt.ExecContext(ctx, t.ID, t.Description, t.AmountCents, t.Category, t.Date, i,
				t.CreatedAt.UTC(), t.UpdatedAt.UTC()); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns all rows in stored position order.
func (r *TransactionRepo) List(ctx context.Context) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, description, amount_cents, category, date, position, created_at, updated_at
	FROM transactions ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Description, &t.AmountCents, &t.Category, &t.Date,
			&t.Position, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
