package gdrive

import (
	"context"
	"fmt"
	"io"
	"net/http"

	drive "google.golang.org/api/drive/v3"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Fixed rendering parameters for spreadsheet PDF export: letter size, fit to
// width, sheet names / print titles / page numbers / gridlines hidden.
const pdfExportParams = "format=pdf&size=letter&fitw=true&sheetnames=false&printtitle=false&pagenumbers=false&gridlines=false"

func exportHTTPClient(ctx context.Context) (*http.Client, error) {
	ts, err := google.DefaultTokenSource(ctx, drive.DriveScope)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}

// ExportSheetPDF renders a single sheet of the spreadsheet to PDF via the
// authenticated export endpoint. gid is the numeric sheet id. Portrait
// orientation, matching the single-sheet NDA export.
func (c *Client) ExportSheetPDF(ctx context.Context, spreadsheetID string, gid int64) ([]byte, error) {
	url := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?%s&portrait=true&gid=%d",
		spreadsheetID, pdfExportParams, gid)
	return c.fetchExport(ctx, url)
}

// ExportPDF renders the whole spreadsheet to a multipage landscape PDF.
func (c *Client) ExportPDF(ctx context.Context, spreadsheetID string) ([]byte, error) {
	url := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?%s&portrait=false",
		spreadsheetID, pdfExportParams)
	return c.fetchExport(ctx, url)
}

// ExportCSV fetches the spreadsheet's first sheet as CSV.
func (c *Client) ExportCSV(ctx context.Context, spreadsheetID string) ([]byte, error) {
	url := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", spreadsheetID)
	return c.fetchExport(ctx, url)
}

func (c *Client) fetchExport(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, status.Errorf(codes.Unavailable, "export fetch failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
