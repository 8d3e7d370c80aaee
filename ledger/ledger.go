package ledger

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"go.openbid.build/gdrive"
	"go.openbid.build/gsheets"
	"go.openbid.build/registry"
)

const (
	// VersionCell is the named cell holding the current bid version.
	VersionCell = "BidNumber"
	// SummaryRange is the named range holding the live summary row.
	SummaryRange = "ClientSummary"
	// SummarySheetTitle is the sheet anchoring the version history.
	SummarySheetTitle = "SUMMARY"
	// historyAnchorRow is the row after which a new history row is inserted.
	historyAnchorRow = 10

	// BackupFolderName holds full-workbook backups under the project folder.
	BackupFolderName = "OpenBID Backups"
)

var firstInt = regexp.MustCompile(`\d+`)

// Sheet is the master-workbook surface the ledger reads and writes.
type Sheet interface {
	ID() string
	Name() string
	NamedRange(ctx context.Context, name string) (gsheets.Range, error)
	Value(ctx context.Context, r gsheets.Range) (string, error)
	Values(ctx context.Context, r gsheets.Range) ([][]string, error)
	SetValue(ctx context.Context, r gsheets.Range, value string) error
	SetValues(ctx context.Context, r gsheets.Range, values [][]string) error
	InsertRowsAfter(ctx context.Context, sheet string, row, count int64) error
	CopyFormat(ctx context.Context, src, dst gsheets.Range) error
}

// Ledger versions the bids of one master workbook.
type Ledger struct {
	sheet    Sheet
	store    gdrive.Store
	registry *registry.Registry
}

// New returns a Ledger over the given master workbook. The Drive store and
// registry are only exercised by Backup and may be nil when versioning alone
// is needed.
func New(sheet Sheet, store gdrive.Store, reg *registry.Registry) *Ledger {
	return &Ledger{sheet: sheet, store: store, registry: reg}
}

// CurrentVersion returns the version recorded in the BidNumber cell. Textual
// values like "Bid 7" resolve to their first embedded integer; a cell with no
// digits resolves to 0.
func (l *Ledger) CurrentVersion(ctx context.Context) (int64, error) {
	r, err := l.sheet.NamedRange(ctx, VersionCell)
	if err != nil {
		return 0, err
	}
	value, err := l.sheet.Value(ctx, r.Cell())
	if err != nil {
		return 0, err
	}
	digits := firstInt.FindString(value)
	if digits == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Advance snapshots the live ClientSummary row into the version history and
// increments BidNumber, returning the new version. Both named ranges are
// resolved before any write, so a misconfigured workbook aborts with zero
// mutation.
func (l *Ledger) Advance(ctx context.Context) (int64, error) {
	versionRange, err := l.sheet.NamedRange(ctx, VersionCell)
	if err != nil {
		return 0, err
	}
	summaryRange, err := l.sheet.NamedRange(ctx, SummaryRange)
	if err != nil {
		return 0, err
	}
	current, err := l.CurrentVersion(ctx)
	if err != nil {
		return 0, err
	}
	values, err := l.sheet.Values(ctx, summaryRange)
	if err != nil {
		return 0, err
	}

	if err := l.sheet.InsertRowsAfter(ctx, SummarySheetTitle, historyAnchorRow, 1); err != nil {
		return 0, err
	}
	history := gsheets.Range{
		Sheet:      SummarySheetTitle,
		Row:        historyAnchorRow + 1,
		Column:     summaryRange.Column,
		NumRows:    summaryRange.NumRows,
		NumColumns: summaryRange.NumColumns,
	}
	if err := l.sheet.CopyFormat(ctx, summaryRange, history); err != nil {
		return 0, err
	}
	// Literal values only: the history row must not track later edits to the
	// live summary.
	if err := l.sheet.SetValues(ctx, history, values); err != nil {
		return 0, err
	}

	next := current + 1
	if err := l.sheet.SetValue(ctx, versionRange.Cell(), strconv.FormatInt(next, 10)); err != nil {
		return 0, err
	}
	return next, nil
}

// Backup copies the whole workbook into the project's OpenBID Backups folder.
// It never advances the version; callers compose the two when both are wanted.
func (l *Ledger) Backup(ctx context.Context, projectName, nameSuffix string) (*gdrive.File, error) {
	folder, err := l.registry.Subfolder(ctx, projectName, BackupFolderName)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s%s", l.sheet.Name(), nameSuffix)
	return l.store.CopyFile(ctx, l.sheet.ID(), name, folder.ID)
}
