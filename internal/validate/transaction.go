package validate

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Field names used as keys in per-field error maps.
const (
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDate        = "date"
)

// Candidate is a transaction as entered by the user, before parsing.
type Candidate struct {
	Description string
	Amount      string
	Category    string
	Date        string
}

// TransactionResult aggregates per-field outcomes. All fields are
// checked even when an earlier one has already failed.
type TransactionResult struct {
	OK     bool
	Fields map[string]Result
	Amount decimal.Decimal
}

// Transaction runs all four field checks against a candidate.
func Transaction(c Candidate) TransactionResult {
	fields := map[string]Result{
		FieldDescription: Description(c.Description),
		FieldCategory:    Category(c.Category),
		FieldDate:        Date(c.Date),
	}
	am := Amount(c.Amount)
	fields[FieldAmount] = am.Result

	res := TransactionResult{OK: true, Fields: fields, Amount: am.Value}
	for _, r := range fields {
		if !r.OK {
			res.OK = false
		}
	}
	return res
}

// ImportTransaction is a transaction row from a bulk-import payload.
// Dates are checked for format validity only.
type ImportTransaction struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        string
}

// ImportSettings mirrors the interchange settings object.
type ImportSettings struct {
	BaseCurrency  string
	ExchangeRates map[string]float64
	Theme         string
}

// ImportPayload is the recognized shape of a bulk-import payload.
// Has* flags distinguish an absent section from an empty one.
type ImportPayload struct {
	Transactions    []ImportTransaction
	HasTransactions bool
	Categories      []string
	HasCategories   bool
	Settings        ImportSettings
	HasSettings     bool
	BudgetCap       *decimal.Decimal
	HasBudgetCap    bool
}

// ImportResult reports payload-level validity. Errors reference
// offending entries by 1-based position.
type ImportResult struct {
	OK     bool
	Errors []string
}

// ImportData validates a bulk-import payload. A payload with none of
// the recognized sections is rejected outright; any section that is
// present must be internally valid.
func ImportData(p ImportPayload) ImportResult {
	if !p.HasTransactions && !p.HasCategories && !p.HasSettings && !p.HasBudgetCap {
		return ImportResult{Errors: []string{"payload contains none of: transactions, categories, settings, budgetCap"}}
	}

	var errs []string
	seen := make(map[string]int, len(p.Transactions))
	for i, t := range p.Transactions {
		pos := i + 1
		if t.ID == "" {
			errs = append(errs, fmt.Sprintf("transaction %d: missing id", pos))
		} else if prev, dup := seen[t.ID]; dup {
			errs = append(errs, fmt.Sprintf("transaction %d: duplicate id (same as transaction %d)", pos, prev))
		} else {
			seen[t.ID] = pos
		}
		if r := Description(t.Description); !r.OK {
			errs = append(errs, fmt.Sprintf("transaction %d: %s", pos, r.Detail))
		}
		if r := AmountValue(t.Amount); !r.OK {
			errs = append(errs, fmt.Sprintf("transaction %d: %s", pos, r.Detail))
		}
		if r := Category(t.Category); !r.OK {
			errs = append(errs, fmt.Sprintf("transaction %d: %s", pos, r.Detail))
		}
		if r := DateFormat(t.Date); !r.OK {
			errs = append(errs, fmt.Sprintf("transaction %d: %s", pos, r.Detail))
		}
	}

	for i, c := range p.Categories {
		if r := Category(c); !r.OK {
			errs = append(errs, fmt.Sprintf("category %d: %s", i+1, r.Detail))
		}
	}

	if p.HasBudgetCap && p.BudgetCap != nil && p.BudgetCap.IsNegative() {
		errs = append(errs, "budgetCap: must not be negative")
	}

	return ImportResult{OK: len(errs) == 0, Errors: errs}
}
