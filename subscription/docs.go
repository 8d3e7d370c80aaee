// Package subscription implements the gated-operation contract: every
// write-capable entry point asks an injected Checker for the acting
// identity's membership set before doing anything, and a missing required
// tag short-circuits the whole operation with no side effects.
//
// The production Checker reads a flat email allow-list out of the subscriber
// spreadsheet's named ranges. This is not an authentication system; it is a
// membership lookup.
package subscription //import "go.openbid.build/subscription"
