// Package bids distributes vendor bid spreadsheets from a master workbook.
//
// The OVERVIEW sheet of the master is a grid of episodes (rows) by vendors
// (columns). Sending a bid resolves the episode's project, episode and
// package values from the grid row, ensures the project's firewall exists,
// copies the vendor bid template into the project folder and binds it to the
// firewall, so the vendor sees firewall data only and never the master.
package bids //import "go.openbid.build/bids"
