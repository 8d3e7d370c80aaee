// Package gsheets wraps the Google Sheets API (sheets/v4) with the narrow
// spreadsheet surface the toolkit components consume: named ranges, cell
// values and formulas, structural edits and visibility changes.
//
// Components do not depend on this package's concrete types directly; each
// declares its own small interface which *Document satisfies. The package
// also carries the pure formula helpers (IMPORTRANGE construction, hyperlink
// and image formulas, row adjustment) shared across the toolkit.
package gsheets //import "go.openbid.build/gsheets"
