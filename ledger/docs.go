// Package ledger maintains the bid version history of a master bid workbook.
//
// The workbook carries a named cell BidNumber holding the current version, a
// named range ClientSummary holding the live summary row, and a SUMMARY sheet
// whose row 10 anchors the history. Advancing the ledger snapshots the live
// summary as literal values into a fresh history row, so later edits to the
// live summary never rewrite history.
package ledger //import "go.openbid.build/ledger"
