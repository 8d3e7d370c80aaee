package gsheets

import (
	"fmt"
	"regexp"
)

// ImportRangeFormula builds the live cross-spreadsheet import formula binding
// a cell to a named range (or A1 reference) of the source spreadsheet.
func ImportRangeFormula(sourceURL, rangeRef string) string {
	return fmt.Sprintf(`=IMPORTRANGE("%s", "%s")`, sourceURL, rangeRef)
}

// TransposedImportRangeFormula builds an IMPORTRANGE wrapped in TRANSPOSE,
// used to import a single source row as a column.
func TransposedImportRangeFormula(sourceURL, rangeRef string) string {
	return fmt.Sprintf(`=TRANSPOSE(IMPORTRANGE("%s", "%s"))`, sourceURL, rangeRef)
}

// HyperlinkFormula builds a HYPERLINK formula with the given label.
func HyperlinkFormula(url, label string) string {
	return fmt.Sprintf(`=hyperlink("%s", "%s")`, url, label)
}

// ImageFormula builds an IMAGE formula for the given image URL.
func ImageFormula(url string) string {
	return fmt.Sprintf(`=image("%s")`, url)
}

// cellRef matches a cell reference with an optional $ prefix, e.g. B2 or $A1.
// Quoted sheet titles survive untouched since their letters are not followed
// by digits in the required uppercase-letters-then-digits shape.
var cellRef = regexp.MustCompile(`(\$?[A-Z]+)\d+`)

// AdjustFormulaRow rewrites every cell reference in formula to point at
// targetRow, preserving column letters and any $ prefix.
func AdjustFormulaRow(formula string, targetRow int64) string {
	if formula == "" {
		return ""
	}
	return cellRef.ReplaceAllString(formula, fmt.Sprintf("${1}%d", targetRow))
}

// AdjustFormulasRow applies AdjustFormulaRow to every formula in the slice,
// keeping empty entries empty.
func AdjustFormulasRow(formulas []string, targetRow int64) []string {
	adjusted := make([]string, len(formulas))
	for i, f := range formulas {
		adjusted[i] = AdjustFormulaRow(f, targetRow)
	}
	return adjusted
}
