package repository

import (
	"context"
	"database/sql"

	"github.com/spendlog/spendlog/internal/database"
)

// CategoryRepo handles the categories table.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// ReplaceAll swaps the category set, keeping slice order as display order.
func (r *CategoryRepo) ReplaceAll(ctx context.Context, names []string) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
			return err
		}
		for i, name := range names {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO categories(name, position) VALUES(?, ?)`, name, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns category names in display order.
func (r *CategoryRepo) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
