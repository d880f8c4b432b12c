package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/ledger"
	"github.com/spendlog/spendlog/internal/validate"
)

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalAddTx, modalEditTx:
		return a.handleTxFormKey(m)
	case modalConfirmDelete:
		return a.handleConfirmDeleteKey(m)
	case modalPicker:
		return a.handlePickerKey(m)
	case modalNewCategory, modalBudgetCap, modalExportPath, modalImportPath:
		return a.handleLineInputKey(m)
	case modalConfirmClear:
		return a.handleConfirmClearKey(m)
	}
	a.modal = modalNone
	return a, nil
}

func (a *App) handleTxFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		return a, nil
	case tea.KeyTab, tea.KeyDown:
		a.form.focus = (a.form.focus + 1) % len(a.form.fields)
		return a, nil
	case tea.KeyShiftTab, tea.KeyUp:
		a.form.focus = (a.form.focus + len(a.form.fields) - 1) % len(a.form.fields)
		return a, nil
	case tea.KeyEnter:
		return a, a.submitTxForm()
	case tea.KeyBackspace:
		f := a.form.fields[a.form.focus]
		if len(f) > 0 {
			runes := []rune(f)
			a.form.fields[a.form.focus] = string(runes[:len(runes)-1])
		}
		return a, nil
	case tea.KeyRunes:
		a.form.fields[a.form.focus] += string(m.Runes)
		return a, nil
	case tea.KeySpace:
		a.form.fields[a.form.focus] += " "
		return a, nil
	}
	return a, nil
}

// submitTxForm hands the raw fields to the validator. Nothing is
// written unless every field passes; failures stay on screen next to
// their field.
func (a *App) submitTxForm() tea.Cmd {
	c := validate.Candidate{
		Description: a.form.fields[0],
		Amount:      a.form.fields[1],
		Category:    a.form.fields[2],
		Date:        a.form.fields[3],
	}
	var err error
	if a.editingID == "" {
		_, err = a.store.Add(a.ctx, c)
	} else {
		_, err = a.store.Update(a.ctx, a.editingID, c)
	}
	if err != nil {
		var verr *ledger.ValidationError
		if errors.As(err, &verr) {
			a.fieldErrs = verr.Fields
			return nil
		}
		a.status = err.Error()
		a.modal = modalNone
		return nil
	}
	if a.editingID == "" {
		a.status = "transaction added"
	} else {
		a.status = "transaction updated"
	}
	a.modal = modalNone
	a.refilter()
	return nil
}

func (a *App) handleConfirmDeleteKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "y", "enter":
		if t := a.selectedTx(); t != nil {
			if err := a.store.Delete(a.ctx, t.ID); err != nil {
				a.status = err.Error()
			} else {
				a.status = "transaction deleted"
			}
			a.refilter()
		}
		a.modal = modalNone
	case "n", "esc":
		a.modal = modalNone
	}
	return a, nil
}

func (a *App) handlePickerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.modal = modalNone
	case "up", "k":
		if a.pickCursor > 0 {
			a.pickCursor--
		}
	case "down", "j":
		if a.pickCursor < len(a.pickItems)-1 {
			a.pickCursor++
		}
	case "enter":
		if a.pickCursor < len(a.pickItems) {
			a.searchInput.SetValue(a.pickItems[a.pickCursor].query)
			a.refilter()
		}
		a.modal = modalNone
		a.state = viewTransactions
	}
	return a, nil
}

func (a *App) handleLineInputKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		return a, nil
	case tea.KeyEnter:
		return a, a.submitLineInput()
	case tea.KeyBackspace:
		if len(a.inputBuffer) > 0 {
			runes := []rune(a.inputBuffer)
			a.inputBuffer = string(runes[:len(runes)-1])
		}
		return a, nil
	case tea.KeyRunes:
		a.inputBuffer += string(m.Runes)
		return a, nil
	case tea.KeySpace:
		a.inputBuffer += " "
		return a, nil
	}
	return a, nil
}

func (a *App) submitLineInput() tea.Cmd {
	mode := a.modal
	a.modal = modalNone
	switch mode {
	case modalNewCategory:
		if err := a.store.AddCategory(a.ctx, a.inputBuffer); err != nil {
			a.status = err.Error()
		} else {
			a.status = "category added"
		}
	case modalBudgetCap:
		value, err := decimal.NewFromString(a.inputBuffer)
		if err != nil {
			a.status = "budget cap must be a number"
			return nil
		}
		if err := a.store.SetBudgetCap(a.ctx, &value); err != nil {
			a.status = err.Error()
			return nil
		}
		a.status = "budget cap set to " + value.StringFixed(2)
	case modalExportPath:
		if err := a.store.WriteSnapshot(a.inputBuffer); err != nil {
			a.log.Error().Err(err).Str("path", a.inputBuffer).Msg("export failed")
			a.status = "export failed: " + err.Error()
			return nil
		}
		a.status = "exported to " + a.inputBuffer
	case modalImportPath:
		snap, err := ledger.ReadSnapshot(a.inputBuffer)
		if err != nil {
			a.status = "import failed: " + err.Error()
			return nil
		}
		if err := a.store.ImportAll(a.ctx, snap); err != nil {
			a.log.Error().Err(err).Str("path", a.inputBuffer).Msg("import rejected")
			a.status = "import rejected: " + err.Error()
			return nil
		}
		a.status = "imported " + a.inputBuffer
		a.refilter()
	}
	return nil
}

func (a *App) handleConfirmClearKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "y":
		if err := a.store.Reset(a.ctx); err != nil {
			a.status = err.Error()
		} else {
			a.status = "all data cleared"
		}
		a.refilter()
		a.modal = modalNone
	case "n", "esc":
		a.modal = modalNone
	}
	return a, nil
}
