package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/spendlog/spendlog/internal/search"
	"github.com/spendlog/spendlog/internal/stats"
	"github.com/spendlog/spendlog/internal/validate"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	tabStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	tabActive    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("57")).Padding(0, 1)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	cursorStyle  = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	matchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("57")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Width(20)
	borderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	statValStyle = lipgloss.NewStyle().Bold(true)
)

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n\n")

	if a.modal != modalNone {
		b.WriteString(a.renderModal())
	} else {
		switch a.state {
		case viewTransactions:
			b.WriteString(a.renderTransactions())
		case viewBudget:
			b.WriteString(a.renderBudget())
		case viewSettings:
			b.WriteString(a.renderSettings())
		default:
			b.WriteString(a.renderDashboard())
		}
	}

	b.WriteString("\n")
	if a.status != "" {
		b.WriteString(okStyle.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(a.footerHelp()))
	return b.String()
}

func (a *App) renderHeader() string {
	tabs := []struct {
		state appState
		label string
	}{
		{viewDashboard, "[d] dashboard"},
		{viewTransactions, "[t] transactions"},
		{viewBudget, "[b] budget"},
		{viewSettings, "[p] settings"},
	}
	parts := []string{titleStyle.Render("spendlog")}
	for _, t := range tabs {
		if t.state == a.state {
			parts = append(parts, tabActive.Render(t.label))
		} else {
			parts = append(parts, tabStyle.Render(t.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (a *App) footerHelp() string {
	switch {
	case a.modal == modalAddTx, a.modal == modalEditTx:
		return "tab: next field   enter: save   esc: cancel"
	case a.modal == modalPicker:
		return "↑/↓: move   enter: search with pattern   esc: close"
	case a.modal != modalNone:
		return "enter: confirm   esc: cancel"
	case a.state == viewTransactions && a.searchFocused:
		return "type a regex or /pattern/flags   enter: keep   esc: leave search"
	case a.state == viewTransactions:
		return "/: search   a: add   e: edit   x: delete   h: history   u: quick patterns   s: suggestions   D: duplicates   c: case   o/O: sort   q: quit"
	case a.state == viewBudget:
		return "e: set cap   x: clear cap   esc: back   q: quit"
	case a.state == viewSettings:
		return "n: new category   del: remove   w: export   i: import   X: clear all   esc: back   q: quit"
	}
	return "t: transactions   b: budget   p: settings   q: quit"
}

func (a *App) renderDashboard() string {
	txs := a.store.Transactions()
	now := time.Now()
	sym := a.cfg.UI.CurrencySymbol

	var b strings.Builder
	rows := []struct {
		label string
		value string
	}{
		{"Today", sym + stats.SumToday(txs, now).StringFixed(2)},
		{"Last 7 days", sym + stats.SumWeek(txs, now).StringFixed(2)},
		{"This month", sym + stats.SumMonth(txs, now).StringFixed(2)},
		{"This year", sym + stats.SumYear(txs, now).StringFixed(2)},
		{"All time", fmt.Sprintf("%s%s across %d transactions", sym, stats.Total(txs).StringFixed(2), len(txs))},
	}
	if top, ok := stats.TopCategory(txs); ok {
		rows = append(rows, struct{ label, value string }{
			"Top category",
			fmt.Sprintf("%s (%s%s)", top.Category, sym, top.Total.StringFixed(2)),
		})
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label))
		b.WriteString(statValStyle.Render(r.value))
		b.WriteString("\n")
	}

	if view, ok := stats.Budget(txs, a.store.BudgetCap(), now); ok {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Budget"))
		b.WriteString(renderBudgetLine(view, sym))
		b.WriteString("\n")
	}

	b.WriteString("\n" + titleStyle.Render("Monthly trend") + "\n")
	b.WriteString(renderTrend(stats.MonthlyTrend(txs, now), sym))

	b.WriteString("\n" + titleStyle.Render("By category") + "\n")
	for _, ct := range stats.CategoryBreakdown(txs) {
		b.WriteString(fmt.Sprintf("  %-16s %s%10s  (%d)\n", ct.Category, sym, ct.Total.StringFixed(2), ct.Count))
	}
	return b.String()
}

func renderTrend(trend []stats.MonthStat, sym string) string {
	maxTotal := 0.0
	for _, m := range trend {
		if f, _ := m.Total.Float64(); f > maxTotal {
			maxTotal = f
		}
	}
	var b strings.Builder
	for _, m := range trend {
		width := 0
		if maxTotal > 0 {
			f, _ := m.Total.Float64()
			width = int(f / maxTotal * 30)
		}
		bar := strings.Repeat("█", width)
		b.WriteString(fmt.Sprintf("  %s %-30s %s%s\n",
			m.Month.Format("Jan 06"), bar, sym, m.Total.StringFixed(2)))
	}
	return b.String()
}

func renderBudgetLine(v stats.BudgetView, sym string) string {
	line := fmt.Sprintf("%s%s of %s%s (%.0f%%)",
		sym, v.Spent.StringFixed(2), sym, v.Cap.StringFixed(2), v.Percentage)
	switch {
	case v.Percentage > 100:
		return errStyle.Render(line + "  over budget")
	case v.Percentage >= 80:
		return warnStyle.Render(line)
	}
	return okStyle.Render(line)
}

func (a *App) renderTransactions() string {
	var b strings.Builder
	b.WriteString(a.searchInput.View())
	b.WriteString("  ")
	if a.caseSensitive {
		b.WriteString(dimStyle.Render("[case-sensitive]"))
	} else {
		b.WriteString(dimStyle.Render("[case-insensitive]"))
	}
	b.WriteString("\n")

	if a.searchErr != "" {
		b.WriteString(errStyle.Render(a.searchErr))
		if check := search.ValidatePattern(a.searchInput.Value(), ""); !check.OK && check.Suggestion != "" {
			b.WriteString(dimStyle.Render("  hint: " + check.Suggestion))
		}
		b.WriteString("\n")
	}

	query := a.searchInput.Value()
	if query != "" && a.searchErr == "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d of %d transactions match", len(a.filtered), len(a.store.Transactions()))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(a.filtered) == 0 {
		if query == "" {
			b.WriteString(dimStyle.Render("no transactions yet; press a to add one"))
		} else {
			b.WriteString(dimStyle.Render("no matches"))
		}
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-10s  %10s  %-14s  %s  %s\n",
		"DATE", "AMOUNT", "CATEGORY", "DESCRIPTION", a.sortIndicator())))
	for i, t := range a.filtered {
		row := fmt.Sprintf("  %-10s  %s%9s  %-14s  %s",
			t.Date, a.cfg.UI.CurrencySymbol, t.AmountText(),
			a.highlight(t.Category), a.highlight(t.Description))
		if i == a.txCursor {
			row = cursorStyle.Render("▸" + row[1:])
		}
		b.WriteString(row + "\n")
	}
	return b.String()
}

func (a *App) sortIndicator() string {
	names := map[sortColumn]string{
		sortByDate:        "date",
		sortByAmount:      "amount",
		sortByCategory:    "category",
		sortByDescription: "description",
	}
	dir := "desc"
	if a.sortAsc {
		dir = "asc"
	}
	return "sort: " + names[a.sortColumn] + " " + dir
}

// highlight styles the matching spans of one field. Spans are rune
// ranges, so the text is sliced as runes.
func (a *App) highlight(text string) string {
	spans := search.Spans(text, a.matcher)
	if len(spans) == 0 {
		return text
	}
	runes := []rune(text)
	var b strings.Builder
	prev := 0
	for _, s := range spans {
		b.WriteString(string(runes[prev:s.Start]))
		b.WriteString(matchStyle.Render(string(runes[s.Start:s.End])))
		prev = s.End
	}
	b.WriteString(string(runes[prev:]))
	return b.String()
}

func (a *App) renderBudget() string {
	txs := a.store.Transactions()
	now := time.Now()
	sym := a.cfg.UI.CurrencySymbol

	var b strings.Builder
	view, ok := stats.Budget(txs, a.store.BudgetCap(), now)
	if !ok {
		b.WriteString(dimStyle.Render("no budget cap set; press e to set one"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(labelStyle.Render("Monthly cap"))
	b.WriteString(statValStyle.Render(sym + view.Cap.StringFixed(2)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Spent"))
	b.WriteString(renderBudgetLine(view, sym))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Remaining"))
	b.WriteString(statValStyle.Render(sym + view.Remaining.StringFixed(2)))
	b.WriteString("\n\n")

	filled := int(view.Percentage / 100 * 40)
	if filled > 40 {
		filled = 40
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 40-filled)
	if view.Percentage > 100 {
		bar = errStyle.Render(bar)
	}
	b.WriteString("  " + bar + "\n")
	return b.String()
}

func (a *App) renderSettings() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Categories") + "\n")
	for i, c := range a.store.Categories() {
		marker := "  "
		if i == a.settingsCursor {
			marker = "▸ "
		}
		b.WriteString(marker + c + "\n")
	}
	b.WriteString("\n" + titleStyle.Render("Data") + "\n")
	b.WriteString(dimStyle.Render("  w: export snapshot   i: import snapshot   X: clear all data"))
	b.WriteString("\n")
	return b.String()
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalAddTx, modalEditTx:
		return a.renderTxForm()
	case modalConfirmDelete:
		t := a.selectedTx()
		if t == nil {
			return ""
		}
		return borderStyle.Render(fmt.Sprintf("Delete %q (%s%s)?  y/n", t.Description, a.cfg.UI.CurrencySymbol, t.AmountText()))
	case modalConfirmClear:
		return borderStyle.Render(errStyle.Render("Clear ALL data? This cannot be undone.") + "  y/n")
	case modalPicker:
		return a.renderPicker()
	case modalNewCategory:
		return borderStyle.Render("New category: " + a.inputBuffer + "▏")
	case modalBudgetCap:
		return borderStyle.Render("Monthly budget cap: " + a.cfg.UI.CurrencySymbol + a.inputBuffer + "▏")
	case modalExportPath:
		return borderStyle.Render("Export to: " + a.inputBuffer + "▏")
	case modalImportPath:
		return borderStyle.Render("Import from: " + a.inputBuffer + "▏")
	}
	return ""
}

func (a *App) renderTxForm() string {
	var b strings.Builder
	if a.modal == modalAddTx {
		b.WriteString(titleStyle.Render("Add transaction") + "\n\n")
	} else {
		b.WriteString(titleStyle.Render("Edit transaction") + "\n\n")
	}
	fieldNames := [4]string{validate.FieldDescription, validate.FieldAmount, validate.FieldCategory, validate.FieldDate}
	for i, label := range formLabels {
		marker := "  "
		if i == a.form.focus {
			marker = "▸ "
		}
		b.WriteString(marker + labelStyle.Render(label) + a.form.fields[i])
		if i == a.form.focus {
			b.WriteString("▏")
		}
		b.WriteString("\n")
		if r, found := a.fieldErrs[fieldNames[i]]; found && !r.OK {
			msg := r.Detail
			if msg == "" {
				msg = string(r.Reason)
			}
			b.WriteString("    " + errStyle.Render(msg) + "\n")
		}
	}
	b.WriteString("\n" + dimStyle.Render("categories: "+strings.Join(a.store.Categories(), ", ")) + "\n")
	return borderStyle.Render(b.String())
}

func (a *App) renderPicker() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Pick a pattern") + "\n\n")
	for i, item := range a.pickItems {
		marker := "  "
		line := item.label + "  " + dimStyle.Render(item.query)
		if item.note != "" {
			line += "\n      " + dimStyle.Render(item.note)
		}
		if i == a.pickCursor {
			marker = "▸ "
		}
		b.WriteString(marker + line + "\n")
	}
	return borderStyle.Render(b.String())
}
