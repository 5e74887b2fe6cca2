package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-examples/internal/types"
)

// listItem implements list.Item interface for the bar type list.
type listItem struct {
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

// NewRootInput creates a new text input for the catalog directory.
func NewRootInput(root string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "./catalog"
	ti.SetValue(root)
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60
	ti.Prompt = "> "

	return ti
}

// NewBarTypeList creates a new list for bar type selection.
func NewBarTypeList(summaries []BarTypeSummary) list.Model {
	items := make([]list.Item, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, listItem{
			name:        summary.BarType,
			description: fmt.Sprintf("%d bars", summary.Count),
		})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Bar Type"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewBarsTable creates a new table for displaying bars.
func NewBarsTable() table.Model {
	columns := []table.Column{
		{Title: "Time", Width: 20},
		{Title: "Open", Width: 12},
		{Title: "High", Width: 12},
		{Title: "Low", Width: 12},
		{Title: "Close", Width: 14},
		{Title: "Volume", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateTableRows replaces the table rows with the bars in replay order.
func UpdateTableRows(t table.Model, bars []types.Bar) table.Model {
	rows := make([]table.Row, 0, len(bars))

	for _, bar := range bars {
		rows = append(rows, table.Row{
			bar.TsInit.UTC().Format("2006-01-02 15:04:05"),
			bar.Open.String(),
			bar.High.String(),
			bar.Low.String(),
			FormatCloseWithDirection(bar.Open, bar.Close),
			bar.Volume.String(),
		})
	}

	t.SetRows(rows)

	return t
}

// InstrumentSummary describes the instrument in one line.
func InstrumentSummary(instrument *types.Instrument) string {
	if instrument == nil {
		return "instrument not found in catalog"
	}

	parts := []string{
		instrument.ID.String(),
		string(instrument.InstrumentClass),
		fmt.Sprintf("tick %s", instrument.PriceIncrement.String()),
		fmt.Sprintf("multiplier %s", instrument.Multiplier.String()),
	}

	if !instrument.Expiration.IsZero() {
		parts = append(parts, "expires "+instrument.Expiration.Format("2006-01-02"))
	}

	return strings.Join(parts, " | ")
}
