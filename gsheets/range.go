package gsheets

import (
	"fmt"
	"strings"
)

// Range identifies a rectangular region on a sheet. Row and Column are
// 1-based; NumRows and NumColumns of zero are treated as 1 (a single cell).
type Range struct {
	Sheet      string
	Row        int64
	Column     int64
	NumRows    int64
	NumColumns int64
}

// Cell returns a single-cell Range.
func Cell(sheet string, row, column int64) Range {
	return Range{Sheet: sheet, Row: row, Column: column, NumRows: 1, NumColumns: 1}
}

// Cell returns the single cell anchoring the top-left corner of the range.
func (r Range) Cell() Range {
	return Cell(r.Sheet, r.Row, r.Column)
}

func (r Range) rows() int64 {
	if r.NumRows < 1 {
		return 1
	}
	return r.NumRows
}

func (r Range) columns() int64 {
	if r.NumColumns < 1 {
		return 1
	}
	return r.NumColumns
}

// A1 renders the range in A1 notation, quoting the sheet title when needed.
func (r Range) A1() string {
	start := ColumnLetters(r.Column) + fmt.Sprint(r.Row)
	end := ColumnLetters(r.Column+r.columns()-1) + fmt.Sprint(r.Row+r.rows()-1)
	ref := start
	if end != start {
		ref = start + ":" + end
	}
	if r.Sheet == "" {
		return ref
	}
	return quoteSheetTitle(r.Sheet) + "!" + ref
}

// ColumnLetters converts a 1-based column index to its letter form
// (1 -> A, 27 -> AA).
func ColumnLetters(column int64) string {
	var letters []byte
	for column > 0 {
		column--
		letters = append([]byte{byte('A' + column%26)}, letters...)
		column /= 26
	}
	return string(letters)
}

// ColumnIndex converts column letters to their 1-based index (A -> 1).
func ColumnIndex(letters string) int64 {
	var n int64
	for _, r := range strings.ToUpper(letters) {
		n = n*26 + int64(r-'A'+1)
	}
	return n
}

// quoteSheetTitle wraps a sheet title in single quotes when it contains
// characters the A1 grammar would otherwise misread.
func quoteSheetTitle(title string) string {
	if strings.ContainsAny(title, " !'") {
		return "'" + strings.ReplaceAll(title, "'", "''") + "'"
	}
	return title
}
