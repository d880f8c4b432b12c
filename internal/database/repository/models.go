// Package repository holds the row models and per-table access types
// for the sqlite store.
package repository

import "time"

// Transaction represents a transaction row. Amounts are stored as
// integer cents; the domain layer converts to and from decimals.
type Transaction struct {
	ID          string
	Description string
	AmountCents int64
	Category    string
	Date        string
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category represents a category row; Position preserves first-seen
// display order.
type Category struct {
	Name     string
	Position int
}
