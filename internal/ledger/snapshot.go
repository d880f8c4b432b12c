package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spendlog/spendlog/internal/validate"
)

// ImportError carries the per-entry problems of a rejected payload.
type ImportError struct {
	Problems []string
}

func (e *ImportError) Error() string {
	if len(e.Problems) == 0 {
		return "import payload is invalid"
	}
	return fmt.Sprintf("import rejected: %s (+%d more)", e.Problems[0], len(e.Problems)-1)
}

// ExportAll captures the full working set as an interchange snapshot.
func (s *Store) ExportAll() Snapshot {
	return Snapshot{
		Transactions: s.Transactions(),
		Categories:   s.Categories(),
		Settings:     s.settings,
		BudgetCap:    s.BudgetCap(),
		ExportDate:   s.now(),
		Version:      SnapshotVersion,
	}
}

// WriteSnapshot exports the working set to a JSON file, written via a
// temp file and rename so a crash never leaves a half-written export.
func (s *Store) WriteSnapshot(path string) error {
	data, err := json.MarshalIndent(s.ExportAll(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// ReadSnapshot parses a snapshot file for ImportAll.
func ReadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}

// ImportAll replaces the working set from a snapshot. The payload is
// validated up front and rejected wholesale when invalid; if applying
// to persistence fails partway, the pre-import state is restored
// before the failure surfaces. Imported dates bypass the age/future
// policy but not format validity.
func (s *Store) ImportAll(ctx context.Context, snap Snapshot) error {
	payload := snapshotPayload(snap)
	if res := validate.ImportData(payload); !res.OK {
		return &ImportError{Problems: res.Errors}
	}

	before := s.ExportAll()

	if snap.Transactions != nil {
		s.transactions = append([]Transaction(nil), snap.Transactions...)
	}
	if snap.Categories != nil {
		s.categories = append([]string(nil), snap.Categories...)
	}
	if payload.HasSettings {
		s.settings = snap.Settings
	}
	if snap.BudgetCap != nil {
		c := *snap.BudgetCap
		s.budgetCap = &c
	}

	if err := s.persistAll(ctx); err != nil {
		s.restore(before)
		if rbErr := s.persistAll(ctx); rbErr != nil {
			s.log.Error().Err(rbErr).Msg("rollback persistence failed")
		}
		return fmt.Errorf("apply import: %w", err)
	}
	return nil
}

func (s *Store) restore(snap Snapshot) {
	s.transactions = append([]Transaction(nil), snap.Transactions...)
	s.categories = append([]string(nil), snap.Categories...)
	s.settings = snap.Settings
	s.budgetCap = snap.BudgetCap
}

func (s *Store) persistAll(ctx context.Context) error {
	if err := s.persist.SaveTransactions(ctx, s.transactions); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	if err := s.persist.SaveCategories(ctx, s.categories); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	if err := s.persist.SaveSettings(ctx, s.settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := s.persist.SaveBudgetCap(ctx, s.budgetCap); err != nil {
		return fmt.Errorf("save budget cap: %w", err)
	}
	return nil
}

// snapshotPayload maps a snapshot onto the validator's payload shape,
// with presence flags derived from which sections the snapshot carries.
func snapshotPayload(snap Snapshot) validate.ImportPayload {
	p := validate.ImportPayload{
		HasTransactions: snap.Transactions != nil,
		HasCategories:   snap.Categories != nil,
		HasSettings:     snap.Settings.BaseCurrency != "" || snap.Settings.Theme != "" || snap.Settings.ExchangeRates != nil,
		HasBudgetCap:    snap.BudgetCap != nil,
		Categories:      snap.Categories,
		BudgetCap:       snap.BudgetCap,
	}
	if p.HasSettings {
		p.Settings = validate.ImportSettings{
			BaseCurrency:  snap.Settings.BaseCurrency,
			ExchangeRates: snap.Settings.ExchangeRates,
			Theme:         snap.Settings.Theme,
		}
	}
	for _, t := range snap.Transactions {
		p.Transactions = append(p.Transactions, validate.ImportTransaction{
			ID:          t.ID,
			Description: t.Description,
			Amount:      t.Amount,
			Category:    t.Category,
			Date:        t.Date,
		})
	}
	return p
}
