package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/validate"
)

// Integrity errors. Each is surfaced as an operation-level failure
// with no partial mutation applied.
var (
	ErrDuplicateID   = errors.New("duplicate transaction id")
	ErrNotFound      = errors.New("transaction not found")
	ErrCategoryInUse = errors.New("category is referenced by transactions")
	ErrLastCategory  = errors.New("cannot remove the last category")
	ErrNegativeCap   = errors.New("budget cap must not be negative")
)

// ValidationError carries per-field rejection results for a candidate.
type ValidationError struct {
	Fields map[string]validate.Result
}

func (e *ValidationError) Error() string {
	for name, r := range e.Fields {
		if !r.OK {
			return fmt.Sprintf("invalid %s: %s", name, r.Detail)
		}
	}
	return "invalid transaction"
}

// Persistence is the opaque load/save boundary. Implementations never
// interleave with in-memory state: the store mutates memory first,
// then requests a save.
type Persistence interface {
	LoadTransactions(ctx context.Context) ([]Transaction, error)
	SaveTransactions(ctx context.Context, txs []Transaction) error
	LoadCategories(ctx context.Context) ([]string, error)
	SaveCategories(ctx context.Context, cats []string) error
	LoadSettings(ctx context.Context) (Settings, bool, error)
	SaveSettings(ctx context.Context, s Settings) error
	LoadBudgetCap(ctx context.Context) (*decimal.Decimal, error)
	SaveBudgetCap(ctx context.Context, budgetCap *decimal.Decimal) error
	Clear(ctx context.Context) error
}

// Store is the session working set. Create one per process and thread
// it through components by reference; it is not safe for concurrent
// use, which the single-event-loop model never requires.
type Store struct {
	persist Persistence
	log     zerolog.Logger
	now     func() time.Time

	transactions []Transaction
	categories   []string
	settings     Settings
	budgetCap    *decimal.Decimal
}

// NewStore wires a store to its persistence collaborator.
func NewStore(p Persistence, log zerolog.Logger) *Store {
	return &Store{
		persist:    p,
		log:        log,
		now:        time.Now,
		categories: append([]string(nil), DefaultCategories...),
		settings:   DefaultSettings(),
	}
}

// Load populates the working set. Structurally invalid stored records
// are silently dropped, not fixed; the drop is logged for forensics.
func (s *Store) Load(ctx context.Context) error {
	txs, err := s.persist.LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	s.transactions = s.transactions[:0]
	seen := map[string]bool{}
	for _, t := range txs {
		if !recordValid(t) || seen[t.ID] {
			s.log.Warn().Str("id", t.ID).Str("description", t.Description).Msg("dropping invalid stored transaction")
			continue
		}
		seen[t.ID] = true
		s.transactions = append(s.transactions, t)
	}

	cats, err := s.persist.LoadCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	if cleaned := cleanCategories(cats, s.log); len(cleaned) > 0 {
		s.categories = cleaned
	}

	settings, found, err := s.persist.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if found {
		s.settings = settings
	}

	budgetCap, err := s.persist.LoadBudgetCap(ctx)
	if err != nil {
		return fmt.Errorf("load budget cap: %w", err)
	}
	s.budgetCap = budgetCap
	return nil
}

// recordValid applies the format-level checks every retained record
// must pass. Age/future date policy does not apply to stored data.
func recordValid(t Transaction) bool {
	if t.ID == "" {
		return false
	}
	if r := validate.Description(t.Description); !r.OK {
		return false
	}
	if r := validate.AmountValue(t.Amount); !r.OK {
		return false
	}
	if r := validate.Category(t.Category); !r.OK {
		return false
	}
	if r := validate.DateFormat(t.Date); !r.OK {
		return false
	}
	return true
}

func cleanCategories(cats []string, log zerolog.Logger) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range cats {
		if seen[c] {
			continue
		}
		if r := validate.Category(c); !r.OK {
			log.Warn().Str("category", c).Msg("dropping invalid stored category")
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Transactions returns a copy of the working set in stored order.
func (s *Store) Transactions() []Transaction {
	out := make([]Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Categories returns a copy of the category set in first-seen order.
func (s *Store) Categories() []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// Settings returns the session settings.
func (s *Store) Settings() Settings { return s.settings }

// BudgetCap returns the cap, or nil when none is set.
func (s *Store) BudgetCap() *decimal.Decimal {
	if s.budgetCap == nil {
		return nil
	}
	c := *s.budgetCap
	return &c
}

// Add validates a candidate and appends a new transaction with a
// generated id and matching creation/update stamps.
func (s *Store) Add(ctx context.Context, c validate.Candidate) (Transaction, error) {
	res := validate.Transaction(c)
	if !res.OK {
		return Transaction{}, &ValidationError{Fields: res.Fields}
	}
	now := s.now()
	t := Transaction{
		ID:          uuid.NewString(),
		Description: c.Description,
		Amount:      res.Amount,
		Category:    c.Category,
		Date:        c.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, existing := range s.transactions {
		if existing.ID == t.ID {
			return Transaction{}, ErrDuplicateID
		}
	}
	s.transactions = append(s.transactions, t)
	if err := s.persist.SaveTransactions(ctx, s.transactions); err != nil {
		return t, fmt.Errorf("save transactions: %w", err)
	}
	return t, nil
}

// Update validates replacement fields for an existing transaction.
// CreatedAt is preserved; UpdatedAt is refreshed.
func (s *Store) Update(ctx context.Context, id string, c validate.Candidate) (Transaction, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Transaction{}, ErrNotFound
	}
	res := validate.Transaction(c)
	if !res.OK {
		return Transaction{}, &ValidationError{Fields: res.Fields}
	}
	t := s.transactions[idx]
	t.Description = c.Description
	t.Amount = res.Amount
	t.Category = c.Category
	t.Date = c.Date
	t.UpdatedAt = s.now()
	s.transactions[idx] = t
	if err := s.persist.SaveTransactions(ctx, s.transactions); err != nil {
		return t, fmt.Errorf("save transactions: %w", err)
	}
	return t, nil
}

// Delete removes a transaction by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.transactions = append(s.transactions[:idx], s.transactions[idx+1:]...)
	if err := s.persist.SaveTransactions(ctx, s.transactions); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			return i
		}
	}
	return -1
}

// SetCategories replaces the category set, de-duplicating while
// preserving first-seen order. Every entry must pass the grammar.
func (s *Store) SetCategories(ctx context.Context, cats []string) error {
	var out []string
	seen := map[string]bool{}
	for _, c := range cats {
		if r := validate.Category(c); !r.OK {
			return fmt.Errorf("category %q: %s", c, r.Detail)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		return ErrLastCategory
	}
	s.categories = out
	if err := s.persist.SaveCategories(ctx, s.categories); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}

// AddCategory appends a new category; an existing name is a no-op.
func (s *Store) AddCategory(ctx context.Context, name string) error {
	if r := validate.Category(name); !r.OK {
		return fmt.Errorf("category %q: %s", name, r.Detail)
	}
	for _, c := range s.categories {
		if c == name {
			return nil
		}
	}
	s.categories = append(s.categories, name)
	if err := s.persist.SaveCategories(ctx, s.categories); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}

// RemoveCategory removes a category unless a transaction references it
// or it is the last one remaining.
func (s *Store) RemoveCategory(ctx context.Context, name string) error {
	idx := -1
	for i, c := range s.categories {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	if len(s.categories) == 1 {
		return ErrLastCategory
	}
	for _, t := range s.transactions {
		if t.Category == name {
			return ErrCategoryInUse
		}
	}
	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	if err := s.persist.SaveCategories(ctx, s.categories); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}

// SetBudgetCap stores the monthly cap; nil clears it.
func (s *Store) SetBudgetCap(ctx context.Context, budgetCap *decimal.Decimal) error {
	if budgetCap != nil && budgetCap.IsNegative() {
		return ErrNegativeCap
	}
	if budgetCap == nil {
		s.budgetCap = nil
	} else {
		c := *budgetCap
		s.budgetCap = &c
	}
	if err := s.persist.SaveBudgetCap(ctx, s.budgetCap); err != nil {
		return fmt.Errorf("save budget cap: %w", err)
	}
	return nil
}

// SetSettings replaces the session settings.
func (s *Store) SetSettings(ctx context.Context, settings Settings) error {
	s.settings = settings
	if err := s.persist.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Reset wipes everything and reseeds the defaults.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.persist.Clear(ctx); err != nil {
		return fmt.Errorf("clear storage: %w", err)
	}
	s.transactions = nil
	s.categories = append([]string(nil), DefaultCategories...)
	s.settings = DefaultSettings()
	s.budgetCap = nil
	if err := s.persistAll(ctx); err != nil {
		return err
	}
	s.log.Info().Msg("store reset to defaults")
	return nil
}
