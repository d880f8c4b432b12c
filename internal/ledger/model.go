// Package ledger owns the in-memory working set for a session: the
// transactions, categories, budget cap and settings, together with the
// persistence boundary that carries them across sessions.
package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar form every transaction date is stored in.
const DateLayout = "2006-01-02"

// SnapshotVersion is the interchange format version written by ExportAll.
const SnapshotVersion = "1.0"

// Transaction is the core entity. ID and CreatedAt are immutable after
// creation; UpdatedAt is refreshed on every mutation.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// AmountText renders the amount as plain decimal text with trailing
// fraction zeros trimmed ("12.5", not "12.50"), the form the search
// engine matches against.
func (t Transaction) AmountText() string {
	s := t.Amount.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

// DateTime parses the transaction date at local midnight. A zero time
// is returned for malformed dates; stored rows are validated on load
// so this only happens for hand-built values.
func (t Transaction) DateTime() time.Time {
	d, err := time.ParseInLocation(DateLayout, t.Date, time.Local)
	if err != nil {
		return time.Time{}
	}
	return d
}

// Settings holds the presentation preferences carried in snapshots.
type Settings struct {
	BaseCurrency  string             `json:"baseCurrency"`
	ExchangeRates map[string]float64 `json:"exchangeRates"`
	Theme         string             `json:"theme"`
}

// DefaultSettings returns the settings seeded into a fresh store.
func DefaultSettings() Settings {
	return Settings{
		BaseCurrency:  "USD",
		ExchangeRates: map[string]float64{},
		Theme:         "dark",
	}
}

// DefaultCategories is the fixed set seeded into a fresh store.
var DefaultCategories = []string{
	"Food",
	"Transport",
	"Shopping",
	"Bills",
	"Entertainment",
	"Health",
	"Education",
	"Other",
}

// Snapshot is the interchange shape for export and import.
type Snapshot struct {
	Transactions []Transaction    `json:"transactions"`
	Categories   []string         `json:"categories"`
	Settings     Settings         `json:"settings"`
	BudgetCap    *decimal.Decimal `json:"budgetCap"`
	ExportDate   time.Time        `json:"exportDate"`
	Version      string           `json:"version"`
}
