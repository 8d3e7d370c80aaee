package activity

import (
	"context"
	"time"

	"go.alis.build/alog"
)

// LogSheetTitle is the sheet that receives one row per recorded action.
const LogSheetTitle = "LOGS"

// Sheet is the spreadsheet surface the logger appends to.
type Sheet interface {
	AppendRow(ctx context.Context, sheet string, values []string) error
}

// Logger records user actions.
type Logger interface {
	Log(ctx context.Context, email, action string)
}

// SheetLogger appends rows of the form [timestamp, email, action] to the
// LOGS sheet. Timestamps are RFC 3339 in UTC.
type SheetLogger struct {
	sheet Sheet
	now   func() time.Time
}

// NewSheetLogger returns a Logger backed by the given spreadsheet.
func NewSheetLogger(sheet Sheet) *SheetLogger {
	return &SheetLogger{sheet: sheet, now: time.Now}
}

func (l *SheetLogger) Log(ctx context.Context, email, action string) {
	ts := l.now().UTC().Format(time.RFC3339)
	if err := l.sheet.AppendRow(ctx, LogSheetTitle, []string{ts, email, action}); err != nil {
		alog.Warnf(ctx, "unable to log activity %q for %s: %v", action, email, err)
	}
}

// NopLogger discards all actions. Useful where no workbook is at hand.
type NopLogger struct{}

func (NopLogger) Log(ctx context.Context, email, action string) {}
