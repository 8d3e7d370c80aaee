package gsheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultSheetTitle is the title Google assigns to the single sheet of a
// newly created spreadsheet.
const DefaultSheetTitle = "Sheet1"

// Client manages access to spreadsheets via the Sheets API.
type Client struct {
	svc *sheets.Service
}

// ClientOptions used when creating a new sheets Client.
type ClientOptions struct {
	clientOptions []option.ClientOption
}

// ClientOption is a functional option for the NewClient method.
type ClientOption func(*ClientOptions)

// WithClientOptions passes additional Google API client options, for example
// explicit credentials when the default application credentials are not used.
func WithClientOptions(opts ...option.ClientOption) ClientOption {
	return func(o *ClientOptions) {
		o.clientOptions = append(o.clientOptions, opts...)
	}
}

// NewClient creates a new instance of the Client object.
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	options := &ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}
	svc, err := sheets.NewService(ctx, options.clientOptions...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc}, nil
}

// Open returns a handle on an existing spreadsheet.
func (c *Client) Open(ctx context.Context, spreadsheetID string) (*Document, error) {
	doc := &Document{svc: c.svc, id: spreadsheetID}
	if err := doc.refresh(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}

// Create makes a new blank spreadsheet with the given title and returns a
// handle on it.
func (c *Client) Create(ctx context.Context, title string) (*Document, error) {
	ss, err := c.svc.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return c.Open(ctx, ss.SpreadsheetId)
}

// Document is a handle on a single spreadsheet. It caches the document
// metadata (sheet ids, named ranges) and refreshes it after structural edits.
type Document struct {
	svc  *sheets.Service
	id   string
	meta *sheets.Spreadsheet
}

func (d *Document) refresh(ctx context.Context) error {
	meta, err := d.svc.Spreadsheets.Get(d.id).Context(ctx).Do()
	if err != nil {
		return err
	}
	d.meta = meta
	return nil
}

// ID returns the spreadsheet id.
func (d *Document) ID() string { return d.id }

// URL returns the spreadsheet URL.
func (d *Document) URL() string { return d.meta.SpreadsheetUrl }

// Name returns the spreadsheet title.
func (d *Document) Name() string { return d.meta.Properties.Title }

// SheetTitles returns the titles of all sheets in document order.
func (d *Document) SheetTitles() []string {
	titles := make([]string, 0, len(d.meta.Sheets))
	for _, s := range d.meta.Sheets {
		titles = append(titles, s.Properties.Title)
	}
	return titles
}

// SheetID returns the numeric grid id of the sheet with the given title.
func (d *Document) SheetID(title string) (int64, error) {
	for _, s := range d.meta.Sheets {
		if s.Properties.Title == title {
			return s.Properties.SheetId, nil
		}
	}
	return 0, status.Errorf(codes.FailedPrecondition, "sheet %q not found in spreadsheet %s", title, d.id)
}

func (d *Document) sheetTitle(sheetID int64) string {
	for _, s := range d.meta.Sheets {
		if s.Properties.SheetId == sheetID {
			return s.Properties.Title
		}
	}
	return ""
}

// NamedRange resolves a named range of the spreadsheet. A missing name
// returns a FailedPrecondition error so callers can distinguish absent
// workbook configuration from transport failures.
func (d *Document) NamedRange(ctx context.Context, name string) (Range, error) {
	for _, nr := range d.meta.NamedRanges {
		if nr.Name != name {
			continue
		}
		gr := nr.Range
		return Range{
			Sheet:      d.sheetTitle(gr.SheetId),
			Row:        gr.StartRowIndex + 1,
			Column:     gr.StartColumnIndex + 1,
			NumRows:    gr.EndRowIndex - gr.StartRowIndex,
			NumColumns: gr.EndColumnIndex - gr.StartColumnIndex,
		}, nil
	}
	return Range{}, status.Errorf(codes.FailedPrecondition, "named range %q not found in spreadsheet %s", name, d.id)
}

// Values reads the range as strings. Short rows are padded so every row has
// the full range width.
func (d *Document) Values(ctx context.Context, r Range) ([][]string, error) {
	resp, err := d.svc.Spreadsheets.Values.Get(d.id, r.A1()).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, r.columns())
		for i, v := range row {
			if int64(i) >= r.columns() {
				break
			}
			cells[i] = fmt.Sprint(v)
		}
		out = append(out, cells)
	}
	return out, nil
}

// SheetData reads the used range of a whole sheet as strings. Rows keep
// their ragged widths as returned by the API.
func (d *Document) SheetData(ctx context.Context, title string) ([][]string, error) {
	resp, err := d.svc.Spreadsheets.Values.Get(d.id, quoteSheetTitle(title)).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		out = append(out, cells)
	}
	return out, nil
}

// Value reads a single cell as a string. An empty cell reads as "".
func (d *Document) Value(ctx context.Context, r Range) (string, error) {
	rows, err := d.Values(ctx, r)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return "", nil
	}
	return rows[0][0], nil
}

// SetValue writes a literal value into the first cell of the range.
func (d *Document) SetValue(ctx context.Context, r Range, value string) error {
	return d.update(ctx, r, [][]interface{}{{value}}, "RAW")
}

// SetValues writes literal values into the range, detached from any source
// formulas.
func (d *Document) SetValues(ctx context.Context, r Range, values [][]string) error {
	rows := make([][]interface{}, len(values))
	for i, row := range values {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		rows[i] = cells
	}
	return d.update(ctx, r, rows, "RAW")
}

// SetFormula writes a formula into the first cell of the range.
func (d *Document) SetFormula(ctx context.Context, r Range, formula string) error {
	return d.update(ctx, r, [][]interface{}{{formula}}, "USER_ENTERED")
}

func (d *Document) update(ctx context.Context, r Range, rows [][]interface{}, inputOption string) error {
	_, err := d.svc.Spreadsheets.Values.Update(d.id, r.A1(), &sheets.ValueRange{
		Values: rows,
	}).ValueInputOption(inputOption).Context(ctx).Do()
	return err
}

// AppendRow appends a row of literal values after the last populated row of
// the sheet.
func (d *Document) AppendRow(ctx context.Context, sheet string, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	r := Range{Sheet: sheet, Row: 1, Column: 1, NumRows: 1, NumColumns: int64(len(values))}
	_, err := d.svc.Spreadsheets.Values.Append(d.id, r.A1(), &sheets.ValueRange{
		Values: [][]interface{}{cells},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

// LastRowWithData returns the 1-based index of the last populated row in the
// given column, or 0 when the column is empty.
func (d *Document) LastRowWithData(ctx context.Context, sheet string, column int64) (int64, error) {
	letters := ColumnLetters(column)
	ref := fmt.Sprintf("%s!%s:%s", quoteSheetTitle(sheet), letters, letters)
	resp, err := d.svc.Spreadsheets.Values.Get(d.id, ref).Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	for i := len(resp.Values) - 1; i >= 0; i-- {
		if len(resp.Values[i]) > 0 && fmt.Sprint(resp.Values[i][0]) != "" {
			return int64(i + 1), nil
		}
	}
	return 0, nil
}

// InsertRowsAfter inserts count blank rows directly below the given 1-based
// row of the sheet, inheriting formatting from the row above.
func (d *Document) InsertRowsAfter(ctx context.Context, sheet string, row, count int64) error {
	sheetID, err := d.SheetID(sheet)
	if err != nil {
		return err
	}
	return d.batch(ctx, &sheets.Request{
		InsertDimension: &sheets.InsertDimensionRequest{
			Range: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "ROWS",
				StartIndex: row,
				EndIndex:   row + count,
			},
			InheritFromBefore: true,
		},
	})
}

// CopyFormat pastes the formatting of src onto dst, leaving values alone.
func (d *Document) CopyFormat(ctx context.Context, src, dst Range) error {
	srcID, err := d.SheetID(src.Sheet)
	if err != nil {
		return err
	}
	dstID, err := d.SheetID(dst.Sheet)
	if err != nil {
		return err
	}
	return d.batch(ctx, &sheets.Request{
		CopyPaste: &sheets.CopyPasteRequest{
			Source:      gridRange(srcID, src),
			Destination: gridRange(dstID, dst),
			PasteType:   "PASTE_FORMAT",
		},
	})
}

// AddSheet appends a new blank sheet with the given title.
func (d *Document) AddSheet(ctx context.Context, title string) error {
	err := d.batch(ctx, &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{Title: title},
		},
	})
	if err != nil {
		return err
	}
	return d.refresh(ctx)
}

// DeleteSheet removes the sheet with the given title.
func (d *Document) DeleteSheet(ctx context.Context, title string) error {
	sheetID, err := d.SheetID(title)
	if err != nil {
		return err
	}
	err = d.batch(ctx, &sheets.Request{
		DeleteSheet: &sheets.DeleteSheetRequest{SheetId: sheetID},
	})
	if err != nil {
		return err
	}
	return d.refresh(ctx)
}

// SetNamedRange declares a named range over the given region.
func (d *Document) SetNamedRange(ctx context.Context, name string, r Range) error {
	sheetID, err := d.SheetID(r.Sheet)
	if err != nil {
		return err
	}
	err = d.batch(ctx, &sheets.Request{
		AddNamedRange: &sheets.AddNamedRangeRequest{
			NamedRange: &sheets.NamedRange{
				Name:  name,
				Range: gridRange(sheetID, r),
			},
		},
	})
	if err != nil {
		return err
	}
	return d.refresh(ctx)
}

// HideSheet hides the sheet with the given title.
func (d *Document) HideSheet(ctx context.Context, title string) error {
	return d.setSheetHidden(ctx, title, true)
}

// ShowSheet unhides the sheet with the given title.
func (d *Document) ShowSheet(ctx context.Context, title string) error {
	return d.setSheetHidden(ctx, title, false)
}

// SheetHidden reports whether the sheet is currently hidden.
func (d *Document) SheetHidden(title string) (bool, error) {
	for _, s := range d.meta.Sheets {
		if s.Properties.Title == title {
			return s.Properties.Hidden, nil
		}
	}
	return false, status.Errorf(codes.FailedPrecondition, "sheet %q not found in spreadsheet %s", title, d.id)
}

func (d *Document) setSheetHidden(ctx context.Context, title string, hidden bool) error {
	sheetID, err := d.SheetID(title)
	if err != nil {
		return err
	}
	err = d.batch(ctx, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId: sheetID,
				Hidden:  hidden,
			},
			Fields: "hidden",
		},
	})
	if err != nil {
		return err
	}
	return d.refresh(ctx)
}

// HideColumns hides count columns starting at the 1-based column index.
func (d *Document) HideColumns(ctx context.Context, sheet string, column, count int64) error {
	return d.setDimensionHidden(ctx, sheet, "COLUMNS", column, count, true)
}

// ShowColumns unhides count columns starting at the 1-based column index.
func (d *Document) ShowColumns(ctx context.Context, sheet string, column, count int64) error {
	return d.setDimensionHidden(ctx, sheet, "COLUMNS", column, count, false)
}

// HideRows hides count rows starting at the 1-based row index.
func (d *Document) HideRows(ctx context.Context, sheet string, row, count int64) error {
	return d.setDimensionHidden(ctx, sheet, "ROWS", row, count, true)
}

// ShowAllRows unhides the first maxRows rows of the sheet.
func (d *Document) ShowAllRows(ctx context.Context, sheet string, maxRows int64) error {
	return d.setDimensionHidden(ctx, sheet, "ROWS", 1, maxRows, false)
}

func (d *Document) setDimensionHidden(ctx context.Context, sheet, dimension string, start, count int64, hidden bool) error {
	sheetID, err := d.SheetID(sheet)
	if err != nil {
		return err
	}
	return d.batch(ctx, &sheets.Request{
		UpdateDimensionProperties: &sheets.UpdateDimensionPropertiesRequest{
			Range: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  dimension,
				StartIndex: start - 1,
				EndIndex:   start - 1 + count,
			},
			Properties: &sheets.DimensionProperties{HiddenByUser: hidden},
			Fields:     "hiddenByUser",
		},
	})
}

// HideGridlines hides the gridlines of the sheet.
func (d *Document) HideGridlines(ctx context.Context, sheet string) error {
	sheetID, err := d.SheetID(sheet)
	if err != nil {
		return err
	}
	return d.batch(ctx, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId: sheetID,
				GridProperties: &sheets.GridProperties{
					HideGridlines: true,
				},
			},
			Fields: "gridProperties.hideGridlines",
		},
	})
}

// SetCheckboxValidation applies a checkbox data-validation rule with custom
// checked and unchecked values over the range.
func (d *Document) SetCheckboxValidation(ctx context.Context, r Range, checked, unchecked string) error {
	sheetID, err := d.SheetID(r.Sheet)
	if err != nil {
		return err
	}
	return d.batch(ctx, &sheets.Request{
		SetDataValidation: &sheets.SetDataValidationRequest{
			Range: gridRange(sheetID, r),
			Rule: &sheets.DataValidationRule{
				Condition: &sheets.BooleanCondition{
					Type: "BOOLEAN",
					Values: []*sheets.ConditionValue{
						{UserEnteredValue: checked},
						{UserEnteredValue: unchecked},
					},
				},
				ShowCustomUi: true,
				Strict:       true,
			},
		},
	})
}

func (d *Document) batch(ctx context.Context, reqs ...*sheets.Request) error {
	_, err := d.svc.Spreadsheets.BatchUpdate(d.id, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	return err
}

func gridRange(sheetID int64, r Range) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    r.Row - 1,
		EndRowIndex:      r.Row - 1 + r.rows(),
		StartColumnIndex: r.Column - 1,
		EndColumnIndex:   r.Column - 1 + r.columns(),
	}
}
