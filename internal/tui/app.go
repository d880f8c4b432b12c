// Package tui is the terminal front end: it collects raw input, gates
// writes through the validator, drives the search engine on every
// keystroke, and renders the working set and its statistics.
package tui

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/ledger"
	"github.com/spendlog/spendlog/internal/search"
	"github.com/spendlog/spendlog/internal/validate"
)

// App ties together views over one store and one search engine.
type App struct {
	ctx    context.Context
	cfg    config.Config
	store  *ledger.Store
	engine *search.Engine
	log    zerolog.Logger

	state appState
	modal modalState

	// transactions view
	searchInput   textinput.Model
	searchFocused bool
	caseSensitive bool
	searchErr     string
	filtered      []ledger.Transaction
	matcher       *search.Matcher
	txCursor      int
	sortColumn    sortColumn
	sortAsc       bool

	// modal form state
	form        txForm
	fieldErrs   map[string]validate.Result
	editingID   string
	inputBuffer string
	pickCursor  int
	pickItems   []pickItem

	settingsCursor int
	status         string
	width          int
	height         int
}

type appState string

const (
	viewDashboard    appState = "dashboard"
	viewTransactions appState = "transactions"
	viewBudget       appState = "budget"
	viewSettings     appState = "settings"
)

type modalState string

const (
	modalNone          modalState = ""
	modalAddTx         modalState = "addTx"
	modalEditTx        modalState = "editTx"
	modalConfirmDelete modalState = "confirmDelete"
	modalPicker        modalState = "picker"
	modalNewCategory   modalState = "newCategory"
	modalBudgetCap     modalState = "budgetCap"
	modalExportPath    modalState = "exportPath"
	modalImportPath    modalState = "importPath"
	modalConfirmClear  modalState = "confirmClear"
)

type sortColumn int

const (
	sortByDate sortColumn = iota
	sortByAmount
	sortByCategory
	sortByDescription
	sortColumnCount
)

// txForm is the add/edit transaction form: four raw fields handed to
// the validator on submit.
type txForm struct {
	fields [4]string // description, amount, category, date
	focus  int
}

var formLabels = [4]string{"Description", "Amount", "Category", "Date (YYYY-MM-DD)"}

// pickItem is one row of the history/quick-pattern/suggestion picker.
type pickItem struct {
	label string
	query string
	note  string
}

// New builds the application model.
func New(ctx context.Context, cfg config.Config, store *ledger.Store, engine *search.Engine, log zerolog.Logger) *App {
	input := textinput.New()
	input.Placeholder = "regex, or /pattern/flags"
	input.Prompt = "search: "
	input.CharLimit = 200

	a := &App{
		ctx:           ctx,
		cfg:           cfg,
		store:         store,
		engine:        engine,
		log:           log,
		state:         viewDashboard,
		searchInput:   input,
		caseSensitive: !cfg.Search.CaseInsensitive,
		sortColumn:    sortByDate,
	}
	a.refilter()
	return a
}

func (a *App) Init() tea.Cmd { return nil }

// refilter re-runs the current query over the working set. A compile
// failure keeps the previous result set visible and surfaces the
// reason; it is distinguishable from a query with zero matches.
func (a *App) refilter() {
	rows := a.store.Transactions()
	query := a.searchInput.Value()

	filtered, matcher, err := a.engine.Search(rows, query, !a.caseSensitive)
	if err != nil {
		a.searchErr = err.Error()
		return
	}
	a.searchErr = ""
	a.matcher = matcher
	a.filtered = sortTransactions(filtered, a.sortColumn, a.sortAsc)
	if a.txCursor >= len(a.filtered) {
		a.txCursor = max(0, len(a.filtered)-1)
	}
}

// sortTransactions orders a copy of rows by the given column; the
// incoming order (and so search stability) is preserved on ties.
func sortTransactions(rows []ledger.Transaction, col sortColumn, asc bool) []ledger.Transaction {
	out := make([]ledger.Transaction, len(rows))
	copy(out, rows)
	less := func(i, j int) bool {
		if !asc {
			i, j = j, i
		}
		switch col {
		case sortByAmount:
			return out[i].Amount.LessThan(out[j].Amount)
		case sortByCategory:
			return strings.ToLower(out[i].Category) < strings.ToLower(out[j].Category)
		case sortByDescription:
			return strings.ToLower(out[i].Description) < strings.ToLower(out[j].Description)
		default:
			return out[i].Date < out[j].Date
		}
	}
	sort.SliceStable(out, less)
	return out
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.searchInput.Width = max(20, m.Width-20)
		return a, nil
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		switch a.state {
		case viewTransactions:
			return a.handleTransactionsKey(m)
		case viewBudget:
			return a.handleBudgetKey(m)
		case viewSettings:
			return a.handleSettingsKey(m)
		default:
			return a.handleDashboardKey(m)
		}
	}
	return a, nil
}

func (a *App) handleDashboardKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "t":
		a.state = viewTransactions
	case "b":
		a.state = viewBudget
	case "p":
		a.state = viewSettings
	}
	return a, nil
}

func (a *App) handleTransactionsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searchFocused {
		switch m.Type {
		case tea.KeyEsc:
			a.searchFocused = false
			a.searchInput.Blur()
			return a, nil
		case tea.KeyEnter:
			a.searchFocused = false
			a.searchInput.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(m)
		a.refilter()
		return a, cmd
	}

	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "d":
		a.state = viewDashboard
	case "b":
		a.state = viewBudget
	case "p":
		a.state = viewSettings
	case "/":
		a.searchFocused = true
		return a, a.searchInput.Focus()
	case "c":
		a.caseSensitive = !a.caseSensitive
		a.refilter()
	case "o":
		a.sortColumn = (a.sortColumn + 1) % sortColumnCount
		a.refilter()
	case "O":
		a.sortAsc = !a.sortAsc
		a.refilter()
	case "up", "k":
		if a.txCursor > 0 {
			a.txCursor--
		}
	case "down", "j":
		if a.txCursor < len(a.filtered)-1 {
			a.txCursor++
		}
	case "a":
		a.openTxForm(modalAddTx, nil)
	case "e":
		if t := a.selectedTx(); t != nil {
			a.openTxForm(modalEditTx, t)
		}
	case "x", "backspace", "delete":
		if a.selectedTx() != nil {
			a.modal = modalConfirmDelete
		}
	case "h":
		a.openHistoryPicker()
	case "D":
		a.openDuplicatePicker()
	case "u":
		a.openQuickPatternPicker()
	case "s":
		a.openSuggestionPicker()
	case "esc":
		a.searchInput.SetValue("")
		a.refilter()
	}
	return a, nil
}

func (a *App) selectedTx() *ledger.Transaction {
	if a.txCursor < 0 || a.txCursor >= len(a.filtered) {
		return nil
	}
	t := a.filtered[a.txCursor]
	return &t
}

func (a *App) openTxForm(mode modalState, t *ledger.Transaction) {
	a.form = txForm{}
	a.fieldErrs = nil
	a.editingID = ""
	if t != nil {
		a.editingID = t.ID
		a.form.fields = [4]string{t.Description, t.AmountText(), t.Category, t.Date}
	}
	a.modal = mode
}

func (a *App) openHistoryPicker() {
	entries := a.engine.History()
	a.pickItems = a.pickItems[:0]
	for _, h := range entries {
		a.pickItems = append(a.pickItems, pickItem{label: h.DisplayPattern, query: h.DisplayPattern})
	}
	if len(a.pickItems) == 0 {
		a.status = "no search history yet"
		return
	}
	a.pickCursor = 0
	a.modal = modalPicker
}

// openDuplicatePicker lists likely duplicate pairs; picking one
// searches for the first description so both rows line up on screen.
func (a *App) openDuplicatePicker() {
	pairs := ledger.DuplicateScan(a.store.Transactions())
	if len(pairs) == 0 {
		a.status = "no likely duplicates found"
		return
	}
	a.pickItems = a.pickItems[:0]
	for _, p := range pairs {
		a.pickItems = append(a.pickItems, pickItem{
			label: fmt.Sprintf("%s / %s", p.A.Description, p.B.Description),
			query: "/" + regexp.QuoteMeta(p.A.Description) + "/i",
			note:  fmt.Sprintf("%s and %s, same amount %s", p.A.Date, p.B.Date, p.A.AmountText()),
		})
	}
	a.pickCursor = 0
	a.modal = modalPicker
}

func (a *App) openQuickPatternPicker() {
	a.pickItems = a.pickItems[:0]
	for _, s := range search.QuickPatterns() {
		a.pickItems = append(a.pickItems, pickItem{
			label: s.Name,
			query: "/" + s.Pattern + "/" + s.Flags,
			note:  s.Description,
		})
	}
	a.pickCursor = 0
	a.modal = modalPicker
}

func (a *App) openSuggestionPicker() {
	set := a.engine.Suggestions(a.store.Transactions())
	a.pickItems = a.pickItems[:0]
	groups := []struct {
		name  string
		items []search.Suggestion
	}{
		{"amount", set.Amounts},
		{"date", set.Dates},
		{"description", set.Descriptions},
		{"category", set.Categories},
		{"advanced", set.Advanced},
	}
	for _, g := range groups {
		for _, s := range g.items {
			note := s.Description
			if s.Advanced {
				note = "advanced: " + s.Explanation
			}
			a.pickItems = append(a.pickItems, pickItem{
				label: g.name + ": " + s.Name,
				query: "/" + s.Pattern + "/" + s.Flags,
				note:  note,
			})
		}
	}
	if len(a.pickItems) == 0 {
		a.status = "no suggestions for an empty ledger"
		return
	}
	a.pickCursor = 0
	a.modal = modalPicker
}

func (a *App) handleBudgetKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "d", "esc":
		a.state = viewDashboard
	case "t":
		a.state = viewTransactions
	case "p":
		a.state = viewSettings
	case "e":
		a.inputBuffer = ""
		if budgetCap := a.store.BudgetCap(); budgetCap != nil {
			a.inputBuffer = budgetCap.String()
		}
		a.modal = modalBudgetCap
	case "x":
		if err := a.store.SetBudgetCap(a.ctx, nil); err != nil {
			a.status = err.Error()
		} else {
			a.status = "budget cap cleared"
		}
	}
	return a, nil
}

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	cats := a.store.Categories()
	// Import and clear-all replace the category set, so the cursor can
	// point past the end of a shorter list.
	if a.settingsCursor >= len(cats) {
		a.settingsCursor = max(0, len(cats)-1)
	}
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "d", "esc":
		a.state = viewDashboard
		a.status = ""
	case "t":
		a.state = viewTransactions
	case "up", "k":
		if a.settingsCursor > 0 {
			a.settingsCursor--
		}
	case "down", "j":
		if a.settingsCursor < len(cats)-1 {
			a.settingsCursor++
		}
	case "n":
		a.inputBuffer = ""
		a.modal = modalNewCategory
	case "backspace", "delete":
		if len(cats) == 0 {
			return a, nil
		}
		a.removeCategory(cats[a.settingsCursor])
	case "w":
		a.inputBuffer = "spendlog-export.json"
		a.modal = modalExportPath
	case "i":
		a.inputBuffer = "spendlog-export.json"
		a.modal = modalImportPath
	case "X":
		a.modal = modalConfirmClear
	}
	return a, nil
}

func (a *App) removeCategory(name string) {
	switch err := a.store.RemoveCategory(a.ctx, name); err {
	case nil:
		a.status = "removed " + name
		if cats := a.store.Categories(); a.settingsCursor >= len(cats) {
			a.settingsCursor = max(0, len(cats)-1)
		}
	case ledger.ErrCategoryInUse:
		a.status = name + " is still used by transactions"
	case ledger.ErrLastCategory:
		a.status = "cannot remove the last category"
	default:
		a.status = err.Error()
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
