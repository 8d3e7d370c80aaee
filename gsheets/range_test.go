package gsheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnLetters(t *testing.T) {
	tests := []struct {
		column int64
		want   string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{37, "AK"},
		{52, "AZ"},
		{703, "AAA"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ColumnLetters(tt.column); got != tt.want {
				t.Errorf("ColumnLetters(%d) = %v, want %v", tt.column, got, tt.want)
			}
		})
	}
}

func TestColumnIndex(t *testing.T) {
	for _, col := range []int64{1, 5, 26, 27, 31, 37, 703} {
		assert.Equal(t, col, ColumnIndex(ColumnLetters(col)))
	}
}

func TestRangeA1(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want string
	}{
		{
			name: "SingleCell",
			r:    Cell("SHOTS", 7, 2),
			want: "SHOTS!B7",
		},
		{
			name: "Rectangle",
			r:    Range{Sheet: "SHOTS", Row: 7, Column: 2, NumRows: 500, NumColumns: 36},
			want: "SHOTS!B7:AK506",
		},
		{
			name: "SheetTitleWithSpaces",
			r:    Cell("EPISODE INFO FOR VENDORS", 5, 4),
			want: "'EPISODE INFO FOR VENDORS'!D5",
		},
		{
			name: "NoSheet",
			r:    Range{Row: 1, Column: 1},
			want: "A1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.A1(); got != tt.want {
				t.Errorf("A1() = %v, want %v", got, tt.want)
			}
		})
	}
}
