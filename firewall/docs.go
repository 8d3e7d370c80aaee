// Package firewall builds and maintains the vendor-facing isolation
// spreadsheet of a master bid workbook.
//
// Vendors never see the master. They see a firewall spreadsheet whose three
// sheets pull from exactly three master-defined named ranges via IMPORTRANGE,
// so the data surface exposed to a vendor is bounded by what those ranges
// cover. Creating the firewall grants no access; viewer grants happen when a
// bid is distributed.
package firewall //import "go.openbid.build/firewall"
