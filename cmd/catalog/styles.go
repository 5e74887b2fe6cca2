package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true)
)

// FormatCloseWithDirection formats a close price with an indicator of its direction from
// the open of the same bar.
func FormatCloseWithDirection(open, close decimal.Decimal) string {
	closeStr := close.String()

	switch close.Cmp(open) {
	case 1:
		return closeStr + " ▲"
	case -1:
		return closeStr + " ▼"
	}

	return closeStr
}
