package csvimport

import (
	"regexp"
	"strings"
)

// Report exports commonly end with total and summary lines that are
// not order data. These rows are detected and dropped before grouping.

var summaryTokens = []string{
	"total", "subtotal", "sub-total", "grand total", "summary",
	"report total", "page total",
}

var pageFooter = regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`)

// IsSummaryRow reports whether a row is a report footer rather than an
// order line. A row qualifies when it has fewer than 3 populated cells,
// or when its populated text cells are all total-like labels or page
// footers alongside numeric cells.
func IsSummaryRow(row *Row) bool {
	if row.NonEmptyCount() < 3 {
		return true
	}

	// Fully populated rows are summaries only when every text cell is a
	// summary label.
	textCells := 0
	summaryCells := 0
	for _, v := range row.Data {
		v = strings.TrimSpace(v)
		if v == "" || isNumericCell(v) {
			continue
		}
		textCells++
		if isSummaryToken(v) || pageFooter.MatchString(v) {
			summaryCells++
		}
	}
	return textCells > 0 && textCells == summaryCells
}

func isSummaryToken(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return false
	}
	for _, tok := range summaryTokens {
		if v == tok || strings.HasPrefix(v, tok+":") || strings.HasPrefix(v, tok+" ") {
			return true
		}
	}
	return false
}

var numericCell = regexp.MustCompile(`^\(?[-$£€]?[\d,]+(\.\d+)?\)?$`)

func isNumericCell(v string) bool {
	return numericCell.MatchString(strings.TrimSpace(v))
}
