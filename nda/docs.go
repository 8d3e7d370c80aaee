// Package nda prepares and shares non-disclosure agreements with vendors.
//
// An NDA goes out as a Drive folder holding a PDF rendered from the master's
// NDA TEMPLATE sheet plus a README spreadsheet with signing instructions. The
// folder is shared with the vendor as editor so the signed copy can be
// uploaded back into it.
package nda //import "go.openbid.build/nda"
