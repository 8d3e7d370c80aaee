package nda

import (
	"context"
	"fmt"

	"go.alis.build/alog"
	"go.alis.build/sendg"

	"go.openbid.build/activity"
	"go.openbid.build/gdrive"
	"go.openbid.build/gsheets"
	"go.openbid.build/registry"
	"go.openbid.build/subscription"
)

const (
	// VendorsSheetTitle lists the vendors an NDA can be sent to.
	VendorsSheetTitle = "ADD VENDORS"
	// TemplateSheetTitle is the master sheet rendered into the NDA PDF.
	TemplateSheetTitle = "NDA TEMPLATE"
	// FolderName groups NDA folders under the project folder.
	FolderName = "NDAs"

	// Named ranges resolving the project and sender identity.
	ProjectRangeName   = "Project"
	FirstNameRangeName = "YourFirstName"
	LastNameRangeName  = "YourLastName"

	// vendorRowOffset precedes the first vendor row of ADD VENDORS.
	vendorRowOffset int64 = 7
	// vendorEmailColumn holds the vendor email; the folder URL goes one
	// column to its right.
	vendorEmailColumn int64 = 7

	pdfMimeType = "application/pdf"
)

// Master is the master-workbook surface the service reads and writes.
type Master interface {
	ID() string
	NamedRange(ctx context.Context, name string) (gsheets.Range, error)
	Value(ctx context.Context, r gsheets.Range) (string, error)
	SetValue(ctx context.Context, r gsheets.Range, value string) error
	SheetID(title string) (int64, error)
}

// Readme is the surface of a freshly created README spreadsheet.
type Readme interface {
	ID() string
	SetValue(ctx context.Context, r gsheets.Range, value string) error
	HideGridlines(ctx context.Context, sheet string) error
}

// Creator creates a blank spreadsheet with the given title.
type Creator func(ctx context.Context, title string) (Readme, error)

// Exporter renders one sheet of a spreadsheet to PDF.
type Exporter interface {
	ExportSheetPDF(ctx context.Context, spreadsheetID string, gid int64) ([]byte, error)
}

// MailData is the dynamic template payload of the notification email.
type MailData struct {
	Project   string `json:"project"`
	Sender    string `json:"sender"`
	FolderURL string `json:"folderUrl"`
}

// Mailer sends the folder-ready notification.
type Mailer interface {
	SendMail(fromEmail string, data MailData, toEmail string, extraToEmails ...string) error
}

// NewSendGridMailer returns a Mailer backed by a SendGrid dynamic template.
func NewSendGridMailer(apiKey, templateID string) Mailer {
	return sendg.NewTemplate[MailData](apiKey, templateID)
}

// NopMailer skips the notification, for deployments without an email sender.
type NopMailer struct{}

func (NopMailer) SendMail(fromEmail string, data MailData, toEmail string, extraToEmails ...string) error {
	return nil
}

// Config wires a Service.
type Config struct {
	Master   Master
	Drive    gdrive.Store
	Registry *registry.Registry
	Create   Creator
	Exporter Exporter
	Mailer   Mailer
	// FromEmail is the sender address of the notification email.
	FromEmail string
	// User is the operator's email, used for gating and the activity log.
	User     string
	Gate     *subscription.Gate
	Activity activity.Logger
}

// Service sends NDAs for one master workbook.
type Service struct {
	cfg Config
}

// New returns a Service. Nil Mailer and Activity fields get no-ops.
func New(cfg Config) *Service {
	if cfg.Mailer == nil {
		cfg.Mailer = NopMailer{}
	}
	if cfg.Activity == nil {
		cfg.Activity = activity.NopLogger{}
	}
	return &Service{cfg: cfg}
}

// SendNDA builds and shares the NDA folder for the vendor at the 1-based
// picker ordinal, returning the folder URL.
func (s *Service) SendNDA(ctx context.Context, vendor int64) (string, error) {
	if err := s.cfg.Gate.Require(ctx, s.cfg.User, subscription.PaidSups); err != nil {
		return "", err
	}

	project, err := s.namedValue(ctx, ProjectRangeName)
	if err != nil {
		return "", err
	}
	firstName, err := s.namedValue(ctx, FirstNameRangeName)
	if err != nil {
		return "", err
	}
	lastName, err := s.namedValue(ctx, LastNameRangeName)
	if err != nil {
		return "", err
	}
	sender := firstName + " " + lastName

	vendorRow := vendor + vendorRowOffset
	emailCell := gsheets.Range{Sheet: VendorsSheetTitle, Row: vendorRow, Column: vendorEmailColumn}
	vendorEmail, err := s.cfg.Master.Value(ctx, emailCell)
	if err != nil {
		return "", err
	}

	ndas, err := s.cfg.Registry.Subfolder(ctx, project, FolderName)
	if err != nil {
		return "", err
	}
	folderName := fmt.Sprintf("%s-NDA for %s from %s", vendorEmail, project, sender)
	folder, err := s.cfg.Registry.FindOrCreate(ctx, ndas, folderName)
	if err != nil {
		return "", err
	}

	if err := s.createPDF(ctx, vendorEmail, project, sender, folder); err != nil {
		return "", err
	}
	if err := s.cfg.Drive.ShareEditor(ctx, folder.ID, vendorEmail); err != nil {
		return "", err
	}
	if err := s.createReadme(ctx, project, sender, folder); err != nil {
		return "", err
	}

	folderURL := gdrive.FolderURL(folder.ID)
	urlCell := gsheets.Range{Sheet: VendorsSheetTitle, Row: vendorRow, Column: vendorEmailColumn + 1}
	if err := s.cfg.Master.SetValue(ctx, urlCell, folderURL); err != nil {
		return "", err
	}

	data := MailData{Project: project, Sender: sender, FolderURL: folderURL}
	if err := s.cfg.Mailer.SendMail(s.cfg.FromEmail, data, vendorEmail); err != nil {
		alog.Warnf(ctx, "unable to email NDA notification to %s: %v", vendorEmail, err)
	}

	s.cfg.Activity.Log(ctx, s.cfg.User, "NDA Created")
	return folderURL, nil
}

// createPDF renders the NDA TEMPLATE sheet and uploads the vendor's copy.
func (s *Service) createPDF(ctx context.Context, vendorEmail, project, sender string, folder *gdrive.Folder) error {
	gid, err := s.cfg.Master.SheetID(TemplateSheetTitle)
	if err != nil {
		return err
	}
	data, err := s.cfg.Exporter.ExportSheetPDF(ctx, s.cfg.Master.ID(), gid)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s to execute-NDA for %s from %s", vendorEmail, project, sender)
	_, err = s.cfg.Drive.CreateFile(ctx, name, pdfMimeType, data, folder.ID)
	return err
}

// createReadme drops a signing-instructions spreadsheet into the folder.
func (s *Service) createReadme(ctx context.Context, project, sender string, folder *gdrive.Folder) error {
	readme, err := s.cfg.Create(ctx, "README")
	if err != nil {
		return err
	}
	if err := s.cfg.Drive.MoveFile(ctx, readme.ID(), folder.ID); err != nil {
		return err
	}
	text := fmt.Sprintf("%s would like you to bid on the project %s. "+
		"Please download the NDA PDF in this folder, sign with Adobe Fill & Sign, "+
		"upload it back to this folder and email them when you're done.", sender, project)
	cell := gsheets.Range{Sheet: gsheets.DefaultSheetTitle, Row: 2, Column: 2}
	if err := readme.SetValue(ctx, cell, text); err != nil {
		return err
	}
	return readme.HideGridlines(ctx, gsheets.DefaultSheetTitle)
}

func (s *Service) namedValue(ctx context.Context, name string) (string, error) {
	r, err := s.cfg.Master.NamedRange(ctx, name)
	if err != nil {
		return "", err
	}
	return s.cfg.Master.Value(ctx, r.Cell())
}
