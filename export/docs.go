// Package export prepares a bid workbook for sharing with a client and
// exports it as PDF or CSV artifacts.
//
// Prepping hides every sheet, column band and empty row a client should not
// see. PDF export works on a backup copy so the live workbook keeps its full
// layout, and each export advances the bid version history on the master.
package export //import "go.openbid.build/export"
