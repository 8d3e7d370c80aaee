// Package activity appends an audit trail of user actions to the LOGS sheet
// of a bid workbook. Logging is best-effort: a failure to record an action
// never fails the action itself.
package activity //import "go.openbid.build/activity"
