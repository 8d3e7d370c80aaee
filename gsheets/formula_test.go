package gsheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustFormulaRow(t *testing.T) {
	tests := []struct {
		name      string
		formula   string
		targetRow int64
		want      string
	}{
		{
			name:      "AbsoluteAndRelativeRefs",
			formula:   `="Sheet1"!$A1+B2`,
			targetRow: 10,
			want:      `="Sheet1"!$A10+B10`,
		},
		{
			name:      "Empty",
			formula:   "",
			targetRow: 10,
			want:      "",
		},
		{
			name:      "MultiLetterColumn",
			formula:   "=SUM($AB3,AC17)",
			targetRow: 42,
			want:      "=SUM($AB42,AC42)",
		},
		{
			name:      "NoReferences",
			formula:   "=NOW()",
			targetRow: 5,
			want:      "=NOW()",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjustFormulaRow(tt.formula, tt.targetRow); got != tt.want {
				t.Errorf("AdjustFormulaRow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdjustFormulasRow(t *testing.T) {
	got := AdjustFormulasRow([]string{"=A1", "", "=$C3*D4"}, 7)
	assert.Equal(t, []string{"=A7", "", "=$C7*D7"}, got)
}

func TestImportRangeFormula(t *testing.T) {
	got := ImportRangeFormula("https://docs.google.com/spreadsheets/d/abc", "FromClientAllShots")
	assert.Equal(t, `=IMPORTRANGE("https://docs.google.com/spreadsheets/d/abc", "FromClientAllShots")`, got)
}

func TestTransposedImportRangeFormula(t *testing.T) {
	got := TransposedImportRangeFormula("https://docs.google.com/spreadsheets/d/abc", "EPISODE INFO FOR VENDORS!D8:R8")
	assert.Equal(t, `=TRANSPOSE(IMPORTRANGE("https://docs.google.com/spreadsheets/d/abc", "EPISODE INFO FOR VENDORS!D8:R8"))`, got)
}

func TestHyperlinkFormula(t *testing.T) {
	got := HyperlinkFormula("https://youtu.be/abc?t=90", "Setup")
	assert.Equal(t, `=hyperlink("https://youtu.be/abc?t=90", "Setup")`, got)
}
