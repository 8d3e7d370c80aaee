// Package props is the per-document persistent key-value store: the explicit
// home for state the toolkit keeps per master spreadsheet, such as the cached
// root folder id and the stored generation-API credential.
//
// The store is scoped by document id so one database serves any number of
// master spreadsheets.
package props //import "go.openbid.build/props"
