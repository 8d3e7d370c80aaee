// Package sheetstest provides an in-memory spreadsheet for tests. It
// satisfies the per-package spreadsheet interfaces declared by the toolkit
// components.
package sheetstest

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.openbid.build/gsheets"
)

type cellKey struct {
	row, column int64
}

type fakeSheet struct {
	values     map[cellKey]string
	formulas   map[cellKey]string
	hidden     bool
	hiddenRows map[int64]bool
	hiddenCols map[int64]bool
	gridlines  bool
}

func newFakeSheet() *fakeSheet {
	return &fakeSheet{
		values:     map[cellKey]string{},
		formulas:   map[cellKey]string{},
		hiddenRows: map[int64]bool{},
		hiddenCols: map[int64]bool{},
	}
}

// FakeSpreadsheet is an in-memory spreadsheet document.
type FakeSpreadsheet struct {
	mu          sync.Mutex
	id          string
	name        string
	sheets      map[string]*fakeSheet
	order       []string
	namedRanges map[string]gsheets.Range

	// FormatCopies records CopyFormat invocations as "src->dst" A1 pairs.
	FormatCopies []string
	// CheckboxRanges records SetCheckboxValidation target ranges.
	CheckboxRanges []gsheets.Range
}

// New returns a FakeSpreadsheet with the given id and title and a default
// blank sheet.
func New(id, name string) *FakeSpreadsheet {
	f := &FakeSpreadsheet{
		id:          id,
		name:        name,
		sheets:      map[string]*fakeSheet{},
		namedRanges: map[string]gsheets.Range{},
	}
	f.sheets[gsheets.DefaultSheetTitle] = newFakeSheet()
	f.order = append(f.order, gsheets.DefaultSheetTitle)
	return f
}

func (f *FakeSpreadsheet) ID() string   { return f.id }
func (f *FakeSpreadsheet) Name() string { return f.name }
func (f *FakeSpreadsheet) URL() string {
	return "https://docs.google.com/spreadsheets/d/" + f.id
}

func (f *FakeSpreadsheet) sheet(name string) (*fakeSheet, error) {
	s, ok := f.sheets[name]
	if !ok {
		return nil, status.Errorf(codes.FailedPrecondition, "sheet %q not found in spreadsheet %s", name, f.id)
	}
	return s, nil
}

// SeedValue places a literal value without going through SetValue, for test
// arrangement.
func (f *FakeSpreadsheet) SeedValue(sheet string, row, column int64, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sheets[sheet]
	if !ok {
		s = newFakeSheet()
		f.sheets[sheet] = s
		f.order = append(f.order, sheet)
	}
	s.values[cellKey{row, column}] = value
}

// SeedNamedRange declares a named range without going through SetNamedRange.
func (f *FakeSpreadsheet) SeedNamedRange(name string, r gsheets.Range) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sheets[r.Sheet]; !ok && r.Sheet != "" {
		f.sheets[r.Sheet] = newFakeSheet()
		f.order = append(f.order, r.Sheet)
	}
	f.namedRanges[name] = r
}

// ValueAt reads a single cell directly.
func (f *FakeSpreadsheet) ValueAt(sheet string, row, column int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sheets[sheet]
	if !ok {
		return ""
	}
	return s.values[cellKey{row, column}]
}

// FormulaAt reads a single cell's formula directly.
func (f *FakeSpreadsheet) FormulaAt(sheet string, row, column int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sheets[sheet]
	if !ok {
		return ""
	}
	return s.formulas[cellKey{row, column}]
}

// HasSheet reports whether the sheet exists.
func (f *FakeSpreadsheet) HasSheet(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sheets[name]
	return ok
}

// NamedRangeRegion returns the declared region for a named range.
func (f *FakeSpreadsheet) NamedRangeRegion(name string) (gsheets.Range, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.namedRanges[name]
	return r, ok
}

func (f *FakeSpreadsheet) NamedRange(ctx context.Context, name string) (gsheets.Range, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.namedRanges[name]
	if !ok {
		return gsheets.Range{}, status.Errorf(codes.FailedPrecondition, "named range %q not found in spreadsheet %s", name, f.id)
	}
	return r, nil
}

func (f *FakeSpreadsheet) Values(ctx context.Context, r gsheets.Range) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.sheet(r.Sheet)
	if err != nil {
		return nil, err
	}
	rows := r.NumRows
	if rows < 1 {
		rows = 1
	}
	cols := r.NumColumns
	if cols < 1 {
		cols = 1
	}
	out := make([][]string, rows)
	for i := int64(0); i < rows; i++ {
		row := make([]string, cols)
		for j := int64(0); j < cols; j++ {
			row[j] = s.values[cellKey{r.Row + i, r.Column + j}]
		}
		out[i] = row
	}
	return out, nil
}

func (f *FakeSpreadsheet) SheetData(ctx context.Context, title string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.sheet(title)
	if err != nil {
		return nil, err
	}
	var maxRow, maxCol int64
	for k, v := range s.values {
		if v == "" {
			continue
		}
		if k.row > maxRow {
			maxRow = k.row
		}
		if k.column > maxCol {
			maxCol = k.column
		}
	}
	out := make([][]string, maxRow)
	for i := int64(0); i < maxRow; i++ {
		row := make([]string, maxCol)
		for j := int64(0); j < maxCol; j++ {
			row[j] = s.values[cellKey{i + 1, j + 1}]
		}
		out[i] = row
	}
	return out, nil
}

func (f *FakeSpreadsheet) Value(ctx context.Context, r gsheets.Range) (string, error) {
	rows, err := f.Values(ctx, r)
	if err != nil {
		return "", err
	}
	return rows[0][0], nil
}

func (f *FakeSpreadsheet) SetValue(ctx context.Context, r gsheets.Range, value string) error {
	return f.SetValues(ctx, r, [][]string{{value}})
}

func (f *FakeSpreadsheet) SetValues(ctx context.Context, r gsheets.Range, values [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.sheet(r.Sheet)
	if err != nil {
		return err
	}
	for i, row := range values {
		for j, v := range row {
			key := cellKey{r.Row + int64(i), r.Column + int64(j)}
			s.values[key] = v
			delete(s.formulas, key)
		}
	}
	return nil
}

func (f *FakeSpreadsheet) SetFormula(ctx context.Context, r gsheets.Range, formula string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.sheet(r.Sheet)
	if err != nil {
		return err
	}
	s.formulas[cellKey{r.Row, r.Column}] = formula
	return nil
}

func (f *FakeSpreadsheet) AppendRow(ctx context.Context, sheet string, values []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.sheet(sheet)
	if err != nil {
		return err
	}
	var last int64
	for k := range s.values {
		if k.row > last {
			last = k.row
		}
	}
	for j, v := range values {
		s.values[cellKey{last + 1, int64(j) + 1}] = v
	}
	return nil
}

func (f *FakeSpreadsheet) LastRowWithData(ctx context.Context, sheet string, column int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.sheet(sheet)
	if err != nil {
		return 0, err
	}
	var last int64
	for k, v := range s.values {
		if k.column == column && v != "" && k.row > last {
			last = k.row
		}
	}
	return last, nil
}

func (f *FakeSpreadsheet) InsertRowsAfter(ctx context.Context, sheet string, row, count int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.sheet(sheet)
	if err != nil {
		return err
	}
	shift := func(m map[cellKey]string) {
		moved := map[cellKey]string{}
		for k, v := range m {
			if k.row > row {
				moved[cellKey{k.row + count, k.column}] = v
				delete(m, k)
			}
		}
		for k, v := range moved {
			m[k] = v
		}
	}
	shift(s.values)
	shift(s.formulas)
	return nil
}

func (f *FakeSpreadsheet) CopyFormat(ctx context.Context, src, dst gsheets.Range) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FormatCopies = append(f.FormatCopies, fmt.Sprintf("%s->%s", src.A1(), dst.A1()))
	return nil
}

func (f *FakeSpreadsheet) AddSheet(ctx context.Context, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sheets[title]; ok {
		return status.Errorf(codes.AlreadyExists, "sheet %q already exists", title)
	}
	f.sheets[title] = newFakeSheet()
	f.order = append(f.order, title)
	return nil
}

func (f *FakeSpreadsheet) DeleteSheet(ctx context.Context, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sheets[title]; !ok {
		return status.Errorf(codes.FailedPrecondition, "sheet %q not found", title)
	}
	delete(f.sheets, title)
	for i, t := range f.order {
		if t == title {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *FakeSpreadsheet) SetNamedRange(ctx context.Context, name string, r gsheets.Range) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.sheet(r.Sheet); err != nil {
		return err
	}
	f.namedRanges[name] = r
	return nil
}

func (f *FakeSpreadsheet) SheetTitles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...)
}

func (f *FakeSpreadsheet) SheetID(title string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.order {
		if t == title {
			return int64(i), nil
		}
	}
	return 0, status.Errorf(codes.FailedPrecondition, "sheet %q not found", title)
}

func (f *FakeSpreadsheet) HideSheet(ctx context.Context, title string) error {
	return f.setHidden(title, true)
}

func (f *FakeSpreadsheet) ShowSheet(ctx context.Context, title string) error {
	return f.setHidden(title, false)
}

func (f *FakeSpreadsheet) SheetHidden(title string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.sheet(title)
	if err != nil {
		return false, err
	}
	return s.hidden, nil
}

func (f *FakeSpreadsheet) setHidden(title string, hidden bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.sheet(title)
	if err != nil {
		return err
	}
	s.hidden = hidden
	return nil
}

func (f *FakeSpreadsheet) HideColumns(ctx context.Context, sheet string, column, count int64) error {
	return f.markColumns(sheet, column, count, true)
}

func (f *FakeSpreadsheet) ShowColumns(ctx context.Context, sheet string, column, count int64) error {
	return f.markColumns(sheet, column, count, false)
}

func (f *FakeSpreadsheet) markColumns(sheet string, column, count int64, hidden bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.sheet(sheet)
	if err != nil {
		return err
	}
	for i := int64(0); i < count; i++ {
		if hidden {
			s.hiddenCols[column+i] = true
		} else {
			delete(s.hiddenCols, column+i)
		}
	}
	return nil
}

func (f *FakeSpreadsheet) HideRows(ctx context.Context, sheet string, row, count int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.sheet(sheet)
	if err != nil {
		return err
	}
	for i := int64(0); i < count; i++ {
		s.hiddenRows[row+i] = true
	}
	return nil
}

func (f *FakeSpreadsheet) ShowAllRows(ctx context.Context, sheet string, maxRows int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.sheet(sheet)
	if err != nil {
		return err
	}
	s.hiddenRows = map[int64]bool{}
	return nil
}

// ColumnHidden reports whether the column is hidden.
func (f *FakeSpreadsheet) ColumnHidden(sheet string, column int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sheets[sheet]
	return ok && s.hiddenCols[column]
}

// RowHidden reports whether the row is hidden.
func (f *FakeSpreadsheet) RowHidden(sheet string, row int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sheets[sheet]
	return ok && s.hiddenRows[row]
}

func (f *FakeSpreadsheet) HideGridlines(ctx context.Context, sheet string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.sheet(sheet)
	if err != nil {
		return err
	}
	s.gridlines = true
	return nil
}

func (f *FakeSpreadsheet) SetCheckboxValidation(ctx context.Context, r gsheets.Range, checked, unchecked string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.sheet(r.Sheet); err != nil {
		return err
	}
	f.CheckboxRanges = append(f.CheckboxRanges, r)
	return nil
}
