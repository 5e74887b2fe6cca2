package main

import "github.com/rxtech-lab/argo-examples/internal/types"

// CatalogLoadedMsg carries the bar types stored in the opened catalog.
type CatalogLoadedMsg struct {
	Root     string
	BarTypes []BarTypeSummary
}

// BarsLoadedMsg carries the bars of the selected bar type.
type BarsLoadedMsg struct {
	BarType    string
	Instrument *types.Instrument
	Bars       []types.Bar
}

// CatalogErrorMsg indicates an error while reading the catalog.
type CatalogErrorMsg struct {
	Err error
}
