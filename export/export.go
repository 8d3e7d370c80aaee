package export

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"go.openbid.build/activity"
	"go.openbid.build/gdrive"
	"go.openbid.build/gsheets"
	"go.openbid.build/ledger"
	"go.openbid.build/registry"
	"go.openbid.build/subscription"
)

const (
	SummarySheetTitle = "SUMMARY"
	TotalsSheetTitle  = "GRAND TOTALS"
	AssetSheetTitle   = "ASSET BID BREAKDOWN"
	ShotSheetTitle    = "SHOT BID BREAKDOWN"

	TagsSheetTitle         = "#TAGS"
	ExportAssetsSheetTitle = "EXPORT ASSETS"
	ExportShotsSheetTitle  = "EXPORT SHOTS"

	// ProjectRangeName resolves the project folder CSV exports land in.
	ProjectRangeName = "Project"
	// CSVFolderName groups CSV exports under the project folder.
	CSVFolderName = "CSV"

	csvMimeType = "text/csv"

	// firstDataRow is where breakdown data starts; rows above are headers.
	firstDataRow = 6
	// emptyProbeColumn is column H; a breakdown row without a value there
	// carries no client-facing data.
	emptyProbeColumn = 8

	// checkboxFirstColumn..+checkboxColumns-1 is the R:W status band
	// converted to checkboxes on PDF export.
	checkboxFirstColumn int64 = 18
	checkboxColumns     int64 = 6

	// showRowBound caps the unhide sweep when undoing a prep.
	showRowBound int64 = 1000
)

// clientVisibleSheets stay visible in a prepped workbook.
var clientVisibleSheets = map[string]bool{
	SummarySheetTitle: true,
	TotalsSheetTitle:  true,
	AssetSheetTitle:   true,
	ShotSheetTitle:    true,
}

// keepHiddenSheets stay hidden even after a prep is undone.
var keepHiddenSheets = map[string]bool{
	TagsSheetTitle:         true,
	ExportAssetsSheetTitle: true,
	ExportShotsSheetTitle:  true,
}

// Spreadsheet is the workbook surface the service preps and exports.
type Spreadsheet interface {
	ID() string
	Name() string
	SheetTitles() []string
	SheetID(title string) (int64, error)
	SheetHidden(title string) (bool, error)
	HideSheet(ctx context.Context, title string) error
	ShowSheet(ctx context.Context, title string) error
	HideColumns(ctx context.Context, sheet string, column, count int64) error
	ShowColumns(ctx context.Context, sheet string, column, count int64) error
	HideRows(ctx context.Context, sheet string, row, count int64) error
	ShowAllRows(ctx context.Context, sheet string, maxRows int64) error
	SheetData(ctx context.Context, title string) ([][]string, error)
	NamedRange(ctx context.Context, name string) (gsheets.Range, error)
	Value(ctx context.Context, r gsheets.Range) (string, error)
	SetCheckboxValidation(ctx context.Context, r gsheets.Range, checked, unchecked string) error
}

// TempSheet is the scratch spreadsheet a CSV export round-trips through.
type TempSheet interface {
	ID() string
	SetValues(ctx context.Context, r gsheets.Range, values [][]string) error
}

// Opener opens an existing spreadsheet by Drive file id.
type Opener func(ctx context.Context, id string) (Spreadsheet, error)

// Creator creates a blank spreadsheet with the given title.
type Creator func(ctx context.Context, title string) (TempSheet, error)

// CSVExporter fetches a whole spreadsheet as CSV.
type CSVExporter interface {
	ExportCSV(ctx context.Context, spreadsheetID string) ([]byte, error)
}

// Config wires a Service.
type Config struct {
	Master   Spreadsheet
	Drive    gdrive.Store
	Registry *registry.Registry
	Ledger   *ledger.Ledger
	Open     Opener
	Create   Creator
	Exporter CSVExporter
	// User is the operator's email, used for gating and the activity log.
	User     string
	Gate     *subscription.Gate
	Activity activity.Logger
}

// Service preps and exports one master workbook.
type Service struct {
	cfg Config
}

// New returns a Service. A nil Activity logger is replaced with a no-op.
func New(cfg Config) *Service {
	if cfg.Activity == nil {
		cfg.Activity = activity.NopLogger{}
	}
	return &Service{cfg: cfg}
}

// PrepBid hides everything a client should not see: every sheet outside the
// client-visible set, the internal column bands of the breakdown sheets, and
// breakdown rows with no data.
func (s *Service) PrepBid(ctx context.Context) error {
	if err := s.cfg.Gate.Require(ctx, s.cfg.User, subscription.PaidUsers); err != nil {
		return err
	}
	if err := prep(ctx, s.cfg.Master); err != nil {
		return err
	}
	s.cfg.Activity.Log(ctx, s.cfg.User, "Preparing bid to share")
	return nil
}

// UndoPrepBid restores the workbook after a prep. The #TAGS and EXPORT
// sheets stay hidden.
func (s *Service) UndoPrepBid(ctx context.Context) error {
	if err := s.cfg.Gate.Require(ctx, s.cfg.User, subscription.PaidUsers); err != nil {
		return err
	}
	ss := s.cfg.Master
	for _, title := range ss.SheetTitles() {
		if keepHiddenSheets[title] {
			continue
		}
		hidden, err := ss.SheetHidden(title)
		if err != nil {
			return err
		}
		if hidden {
			if err := ss.ShowSheet(ctx, title); err != nil {
				return err
			}
		}
	}
	if err := ss.ShowColumns(ctx, AssetSheetTitle, 15, 42); err != nil {
		return err
	}
	if err := ss.ShowAllRows(ctx, AssetSheetTitle, showRowBound); err != nil {
		return err
	}
	if err := ss.ShowColumns(ctx, ShotSheetTitle, 6, 2); err != nil {
		return err
	}
	if err := ss.ShowColumns(ctx, ShotSheetTitle, 31, 60); err != nil {
		return err
	}
	if err := ss.ShowAllRows(ctx, ShotSheetTitle, showRowBound); err != nil {
		return err
	}
	s.cfg.Activity.Log(ctx, s.cfg.User, "Undoing Prepped bid")
	return nil
}

func prep(ctx context.Context, ss Spreadsheet) error {
	for _, title := range ss.SheetTitles() {
		if clientVisibleSheets[title] {
			continue
		}
		if err := ss.HideSheet(ctx, title); err != nil {
			return err
		}
	}
	if err := ss.HideColumns(ctx, AssetSheetTitle, 15, 42); err != nil {
		return err
	}
	if err := hideEmptyRows(ctx, ss, AssetSheetTitle); err != nil {
		return err
	}
	if err := ss.HideColumns(ctx, ShotSheetTitle, 6, 2); err != nil {
		return err
	}
	if err := ss.HideColumns(ctx, ShotSheetTitle, 31, 60); err != nil {
		return err
	}
	return hideEmptyRows(ctx, ss, ShotSheetTitle)
}

// hideEmptyRows hides every data row whose probe column is empty, sweeping
// bottom-up so later rows keep their indices while earlier ones are hidden.
func hideEmptyRows(ctx context.Context, ss Spreadsheet, sheet string) error {
	rows, err := ss.SheetData(ctx, sheet)
	if err != nil {
		return err
	}
	for i := len(rows) - 1; i >= firstDataRow-1; i-- {
		row := rows[i]
		if int64(len(row)) >= emptyProbeColumn && row[emptyProbeColumn-1] != "" {
			continue
		}
		if err := ss.HideRows(ctx, sheet, int64(i+1), 1); err != nil {
			return err
		}
	}
	return nil
}

// ExportBidPDF copies the workbook into a client-ready backup, preps the
// copy, converts the shot status band to checkbox glyphs and advances the
// bid version on the master. It returns the backup's URL.
func (s *Service) ExportBidPDF(ctx context.Context) (string, error) {
	if err := s.cfg.Gate.Require(ctx, s.cfg.User, subscription.PaidUsers); err != nil {
		return "", err
	}
	current, err := s.cfg.Ledger.CurrentVersion(ctx)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%sBackup of Bid %d", s.cfg.Master.Name(), current)
	file, err := s.cfg.Drive.CopyFile(ctx, s.cfg.Master.ID(), name, "")
	if err != nil {
		return "", err
	}
	backup, err := s.cfg.Open(ctx, file.ID)
	if err != nil {
		return "", err
	}
	if err := prep(ctx, backup); err != nil {
		return "", err
	}

	rows, err := backup.SheetData(ctx, ShotSheetTitle)
	if err != nil {
		return "", err
	}
	if lastRow := int64(len(rows)); lastRow >= firstDataRow {
		band := gsheets.Range{
			Sheet:      ShotSheetTitle,
			Row:        firstDataRow,
			Column:     checkboxFirstColumn,
			NumRows:    lastRow - firstDataRow + 1,
			NumColumns: checkboxColumns,
		}
		if err := backup.SetCheckboxValidation(ctx, band, "✅", "⬜"); err != nil {
			return "", err
		}
	}

	if _, err := s.cfg.Ledger.Advance(ctx); err != nil {
		return "", err
	}
	s.cfg.Activity.Log(ctx, s.cfg.User, "Exporting a PDF bid")
	return file.URL, nil
}

// ExportCSV writes the EXPORT ASSETS and EXPORT SHOTS sheets as CSV files
// into the project's CSV folder, round-tripping each sheet through a
// throwaway spreadsheet since only whole spreadsheets export as CSV.
func (s *Service) ExportCSV(ctx context.Context) ([]*gdrive.File, error) {
	if err := s.cfg.Gate.Require(ctx, s.cfg.User, subscription.PaidSups, subscription.PaidUsers); err != nil {
		return nil, err
	}
	sheets := []string{ExportAssetsSheetTitle, ExportShotsSheetTitle}
	for _, title := range sheets {
		if _, err := s.cfg.Master.SheetID(title); err != nil {
			return nil, err
		}
	}

	projectCell, err := s.cfg.Master.NamedRange(ctx, ProjectRangeName)
	if err != nil {
		return nil, err
	}
	project, err := s.cfg.Master.Value(ctx, projectCell.Cell())
	if err != nil {
		return nil, err
	}
	folder, err := s.cfg.Registry.Subfolder(ctx, project, CSVFolderName)
	if err != nil {
		return nil, err
	}

	var out []*gdrive.File
	for _, title := range sheets {
		file, err := s.exportSheetCSV(ctx, title, folder)
		if err != nil {
			return nil, err
		}
		out = append(out, file)
	}
	s.cfg.Activity.Log(ctx, s.cfg.User, "Exporting CSV files")
	return out, nil
}

func (s *Service) exportSheetCSV(ctx context.Context, title string, folder *gdrive.Folder) (*gdrive.File, error) {
	values, err := s.cfg.Master.SheetData(ctx, title)
	if err != nil {
		return nil, err
	}
	temp, err := s.cfg.Create(ctx, uuid.NewString())
	if err != nil {
		return nil, err
	}
	target := gsheets.Range{Sheet: gsheets.DefaultSheetTitle, Row: 1, Column: 1}
	if err := temp.SetValues(ctx, target, values); err != nil {
		return nil, err
	}
	data, err := s.cfg.Exporter.ExportCSV(ctx, temp.ID())
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s %s.csv", s.cfg.Master.Name(), title)
	file, err := s.cfg.Drive.CreateFile(ctx, name, csvMimeType, data, folder.ID)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.Drive.Trash(ctx, temp.ID()); err != nil {
		return nil, err
	}
	return file, nil
}
