package bids

import (
	"context"
	"fmt"
	"strconv"

	"go.alis.build/alog"

	"go.openbid.build/activity"
	"go.openbid.build/firewall"
	"go.openbid.build/gdrive"
	"go.openbid.build/gsheets"
	"go.openbid.build/registry"
	"go.openbid.build/subscription"
)

// OVERVIEW grid schema. The grid holds one episode per row and one vendor
// per column; the offsets translate picker ordinals into grid coordinates.
const (
	OverviewSheetTitle = "OVERVIEW"

	// ProjectColumn holds the project name of the episode row.
	ProjectColumn int64 = 3
	// EpisodeColumn holds the episode or block identifier.
	EpisodeColumn int64 = 2
	// PackageColumn holds the bid package number.
	PackageColumn int64 = 9
	// BidMaterialColumn holds the Drive link with the bid material.
	BidMaterialColumn int64 = 14
	// AllBidURLsColumn collects every distributed bid URL.
	AllBidURLsColumn int64 = 2

	// bidRowOffset precedes the first episode row of the grid.
	bidRowOffset int64 = 4
	// bidColumnOffset precedes the first vendor column of the grid.
	bidColumnOffset int64 = 17
	// vendorEmailOffset translates a grid column into the vendor ordinal.
	vendorEmailOffset int64 = 13
)

// Named ranges bound in a freshly copied vendor bid. Each binding is
// tolerated if the template dropped the range.
const (
	BidNumberRangeName    = "BidNumber"
	ClientSheetRangeName  = "ClientSheet"
	VendorNumberRangeName = "vendorNumber"
)

// Overview is the master OVERVIEW surface the distributor reads and writes.
type Overview interface {
	Value(ctx context.Context, r gsheets.Range) (string, error)
	SetValue(ctx context.Context, r gsheets.Range, value string) error
	LastRowWithData(ctx context.Context, sheet string, column int64) (int64, error)
}

// Spreadsheet is the surface of an opened vendor bid copy.
type Spreadsheet interface {
	NamedRange(ctx context.Context, name string) (gsheets.Range, error)
	SetValue(ctx context.Context, r gsheets.Range, value string) error
	SetFormula(ctx context.Context, r gsheets.Range, formula string) error
}

// Opener opens a spreadsheet by Drive file id.
type Opener func(ctx context.Context, id string) (Spreadsheet, error)

// FirewallProvider yields the project firewall URL, creating it when absent.
type FirewallProvider interface {
	GetOrCreate(ctx context.Context, projectName string) (string, error)
}

// Config wires a Distributor.
type Config struct {
	Overview Overview
	Drive    gdrive.Store
	Registry *registry.Registry
	Firewall FirewallProvider
	Open     Opener
	// TemplateID is the Drive id of the vendor bid template.
	TemplateID string
	// User is the operator's email, used for gating and the activity log.
	User     string
	Gate     *subscription.Gate
	Activity activity.Logger
}

// Distributor sends vendor bids for one master workbook.
type Distributor struct {
	cfg Config
}

// New returns a Distributor. A nil Activity logger is replaced with a no-op.
func New(cfg Config) *Distributor {
	if cfg.Activity == nil {
		cfg.Activity = activity.NopLogger{}
	}
	return &Distributor{cfg: cfg}
}

// SendBid distributes a bid for the episode/vendor pair, identified by their
// 1-based picker ordinals, and returns the bid spreadsheet URL. When a bid
// file for the pair's package already exists the existing file is re-shared
// and returned; the operator raises the package number to start a new round.
func (d *Distributor) SendBid(ctx context.Context, episode, vendor int64, vendorEmail string) (string, error) {
	if err := d.cfg.Gate.Require(ctx, d.cfg.User, subscription.PaidSups); err != nil {
		return "", err
	}

	bidRow := episode + bidRowOffset
	bidColumn := vendor + bidColumnOffset

	projectName, err := d.overviewValue(ctx, bidRow, ProjectColumn)
	if err != nil {
		return "", err
	}
	episodeName, err := d.overviewValue(ctx, bidRow, EpisodeColumn)
	if err != nil {
		return "", err
	}
	pkg, err := d.overviewValue(ctx, bidRow, PackageColumn)
	if err != nil {
		return "", err
	}
	vendorNumber := bidColumn - vendorEmailOffset
	fileName := fmt.Sprintf("%s-%s-%s-Breakdown %s", vendorEmail, projectName, episodeName, pkg)

	url, err := d.createBidSpreadsheet(ctx, fileName, projectName, vendorNumber, vendorEmail, bidRow)
	if err != nil {
		return "", err
	}

	if err := d.cfg.Overview.SetValue(ctx, overviewCell(bidRow, bidColumn), url); err != nil {
		return "", err
	}
	lastRow, err := d.cfg.Overview.LastRowWithData(ctx, OverviewSheetTitle, AllBidURLsColumn)
	if err != nil {
		return "", err
	}
	if err := d.cfg.Overview.SetValue(ctx, overviewCell(lastRow+1, AllBidURLsColumn), url); err != nil {
		return "", err
	}

	d.cfg.Activity.Log(ctx, d.cfg.User, "Bid sent")
	return url, nil
}

// createBidSpreadsheet copies and binds the vendor bid, or re-shares an
// existing one for the same file name.
func (d *Distributor) createBidSpreadsheet(ctx context.Context, fileName, projectName string, vendorNumber int64, vendorEmail string, bidRow int64) (string, error) {
	folder, err := d.cfg.Registry.ProjectFolder(ctx, projectName)
	if err != nil {
		return "", err
	}

	existing, err := d.cfg.Drive.FilesByName(ctx, folder.ID, fileName)
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		if err := d.cfg.Drive.ShareViewer(ctx, existing[0].ID, vendorEmail); err != nil {
			return "", err
		}
		return existing[0].URL, nil
	}

	fwURL, err := d.cfg.Firewall.GetOrCreate(ctx, projectName)
	if err != nil {
		return "", err
	}
	fwID, err := gdrive.FileIDFromURL(fwURL)
	if err != nil {
		return "", err
	}
	if err := d.cfg.Drive.ShareViewer(ctx, fwID, vendorEmail); err != nil {
		return "", err
	}

	bid, err := d.cfg.Drive.CopyFile(ctx, d.cfg.TemplateID, fileName, folder.ID)
	if err != nil {
		return "", err
	}
	if err := d.cfg.Drive.ShareEditor(ctx, bid.ID, vendorEmail); err != nil {
		return "", err
	}

	ss, err := d.cfg.Open(ctx, bid.ID)
	if err != nil {
		return "", err
	}
	vendorRowRef := fmt.Sprintf("%s!D%d:R%d", firewall.EpisodeSheetTitle, bidRow, bidRow)
	d.bind(ctx, ss, BidNumberRangeName, func(r gsheets.Range) error {
		return ss.SetFormula(ctx, r, gsheets.TransposedImportRangeFormula(fwURL, vendorRowRef))
	})
	d.bind(ctx, ss, ClientSheetRangeName, func(r gsheets.Range) error {
		return ss.SetValue(ctx, r, fwURL)
	})
	d.bind(ctx, ss, VendorNumberRangeName, func(r gsheets.Range) error {
		return ss.SetValue(ctx, r, strconv.FormatInt(vendorNumber, 10))
	})

	d.shareBidMaterial(ctx, bidRow, vendorEmail)
	return bid.URL, nil
}

// bind resolves a named range of the bid and writes into it. Templates
// without the range are tolerated with a warning.
func (d *Distributor) bind(ctx context.Context, ss Spreadsheet, name string, write func(gsheets.Range) error) {
	r, err := ss.NamedRange(ctx, name)
	if err != nil {
		alog.Warnf(ctx, "named range %q not found in vendor bid, skipping binding: %v", name, err)
		return
	}
	if err := write(r); err != nil {
		alog.Warnf(ctx, "unable to bind named range %q in vendor bid: %v", name, err)
	}
}

// shareBidMaterial grants the vendor viewer access to the episode's bid
// material asset. A missing or malformed link skips the grant but never
// fails the distribution.
func (d *Distributor) shareBidMaterial(ctx context.Context, bidRow int64, vendorEmail string) {
	link, err := d.overviewValue(ctx, bidRow, BidMaterialColumn)
	if err != nil {
		alog.Warnf(ctx, "unable to read bid material link: %v", err)
		return
	}
	if link == "" || !gdrive.IsDriveLink(link) {
		alog.Warnf(ctx, "no shareable bid material link for row %d", bidRow)
		return
	}
	id, err := gdrive.FileIDFromURL(link)
	if err != nil {
		alog.Warnf(ctx, "malformed bid material link %q: %v", link, err)
		return
	}
	if err := d.cfg.Drive.ShareViewer(ctx, id, vendorEmail); err != nil {
		alog.Warnf(ctx, "unable to share bid material with %s: %v", vendorEmail, err)
	}
}

func (d *Distributor) overviewValue(ctx context.Context, row, column int64) (string, error) {
	return d.cfg.Overview.Value(ctx, overviewCell(row, column))
}

func overviewCell(row, column int64) gsheets.Range {
	return gsheets.Range{Sheet: OverviewSheetTitle, Row: row, Column: column}
}
