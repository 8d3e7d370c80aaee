package firewall

import (
	"context"

	"go.openbid.build/gdrive"
	"go.openbid.build/gsheets"
	"go.openbid.build/registry"
)

const (
	// NamePrefix prefixes the master workbook name to form the firewall name.
	NamePrefix = "Firewall for "

	// EpisodeSheetTitle is the sheet a vendor first opens to authorise the
	// IMPORTRANGE connection back to the master.
	EpisodeSheetTitle = "EPISODE INFO FOR VENDORS"
	// ShotsSheetTitle mirrors the master's shot table.
	ShotsSheetTitle = "SHOTS"
	// AssetsSheetTitle mirrors the master's asset table.
	AssetsSheetTitle = "ASSETS"

	// EpisodesRangeName, ShotsRangeName and AssetsRangeName are the only
	// master named ranges a firewall may import from.
	EpisodesRangeName = "FromClientAllEpisodes"
	ShotsRangeName    = "FromClientAllShots"
	AssetsRangeName   = "FromClientAllAssets"

	// URLCellName is the master named cell recording the firewall URL.
	URLCellName = "firewallFile"

	instructionText = "⬇ Allow access below, then ignore this sheet."
)

var (
	instructionCell = gsheets.Range{Sheet: EpisodeSheetTitle, Row: 4, Column: 4}
	episodesAnchor  = gsheets.Range{Sheet: EpisodeSheetTitle, Row: 5, Column: 4}
	shotsRegion     = gsheets.Range{Sheet: ShotsSheetTitle, Row: 7, Column: 2, NumRows: 500, NumColumns: 36}
	assetsRegion    = gsheets.Range{Sheet: AssetsSheetTitle, Row: 7, Column: 2, NumRows: 50, NumColumns: 31}
)

// Master is the master-workbook surface the service reads from and records
// the firewall URL into.
type Master interface {
	Name() string
	URL() string
	NamedRange(ctx context.Context, name string) (gsheets.Range, error)
	SetValue(ctx context.Context, r gsheets.Range, value string) error
}

// Spreadsheet is the surface of a freshly created firewall document.
type Spreadsheet interface {
	ID() string
	URL() string
	SetValue(ctx context.Context, r gsheets.Range, value string) error
	SetFormula(ctx context.Context, r gsheets.Range, formula string) error
	AddSheet(ctx context.Context, title string) error
	DeleteSheet(ctx context.Context, title string) error
	SetNamedRange(ctx context.Context, name string, r gsheets.Range) error
}

// Creator creates a blank spreadsheet with the given title. A *gsheets.Client
// adapts with a one-line closure over its Create method.
type Creator func(ctx context.Context, title string) (Spreadsheet, error)

// Notifier is told when a firewall was newly created. Nil is allowed.
type Notifier func(name, url string)

// Service builds firewalls for one master workbook.
type Service struct {
	master   Master
	drive    gdrive.Store
	create   Creator
	registry *registry.Registry
	notify   Notifier
}

// New returns a firewall service for the master.
func New(master Master, store gdrive.Store, create Creator, reg *registry.Registry, notify Notifier) *Service {
	return &Service{master: master, drive: store, create: create, registry: reg, notify: notify}
}

// GetOrCreate returns the URL of the project's firewall, creating it when the
// project folder has none. An existing firewall is returned as found, without
// re-validating its schema.
func (s *Service) GetOrCreate(ctx context.Context, projectName string) (string, error) {
	folder, err := s.registry.ProjectFolder(ctx, projectName)
	if err != nil {
		return "", err
	}
	name := NamePrefix + s.master.Name()
	existing, err := s.drive.FilesByName(ctx, folder.ID, name)
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		return existing[0].URL, nil
	}

	// Resolve the master side before creating anything, so a misconfigured
	// master leaves no half-built firewall behind.
	urlCell, err := s.master.NamedRange(ctx, URLCellName)
	if err != nil {
		return "", err
	}

	fw, err := s.create(ctx, name)
	if err != nil {
		return "", err
	}
	if err := s.drive.MoveFile(ctx, fw.ID(), folder.ID); err != nil {
		return "", err
	}

	if err := fw.AddSheet(ctx, EpisodeSheetTitle); err != nil {
		return "", err
	}
	if err := fw.SetValue(ctx, instructionCell, instructionText); err != nil {
		return "", err
	}
	if err := fw.SetFormula(ctx, episodesAnchor, gsheets.ImportRangeFormula(s.master.URL(), EpisodesRangeName)); err != nil {
		return "", err
	}

	if err := s.addMirrorSheet(ctx, fw, ShotsRangeName, shotsRegion); err != nil {
		return "", err
	}
	if err := s.addMirrorSheet(ctx, fw, AssetsRangeName, assetsRegion); err != nil {
		return "", err
	}

	if err := fw.DeleteSheet(ctx, gsheets.DefaultSheetTitle); err != nil {
		return "", err
	}
	if err := s.master.SetValue(ctx, urlCell.Cell(), fw.URL()); err != nil {
		return "", err
	}
	if s.notify != nil {
		s.notify(name, fw.URL())
	}
	return fw.URL(), nil
}

// addMirrorSheet builds a sheet whose anchor cell imports the identically
// named master range, and publishes the mirrored region under the same name
// so vendor bids can import it onward.
func (s *Service) addMirrorSheet(ctx context.Context, fw Spreadsheet, rangeName string, region gsheets.Range) error {
	if err := fw.AddSheet(ctx, region.Sheet); err != nil {
		return err
	}
	if err := fw.SetFormula(ctx, region.Cell(), gsheets.ImportRangeFormula(s.master.URL(), rangeName)); err != nil {
		return err
	}
	return fw.SetNamedRange(ctx, rangeName, region)
}
