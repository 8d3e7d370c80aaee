// Package chapters extracts chapter markers from YouTube video descriptions
// and links them to matching shot rows in a bid workbook.
package chapters //import "go.openbid.build/chapters"
