package mapping

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order when parsing a sale date. Client
// exports are wildly inconsistent, so the list is long on purpose.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"02/01/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 02 2006",
	"20060102",
	"01/02/2006 15:04",
}

// twoDigitYearLayouts are retried with the century rule applied.
var twoDigitYearLayouts = []string{
	"01/02/06",
	"1/2/06",
	"01-02-06",
	"02/01/06",
	"Jan 2, 06",
}

var (
	uuidPattern     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	currencySymbols = strings.NewReplacer("$", "", "£", "", "€", "", ",", "")
)

var trueValues = map[string]bool{
	"true": true, "1": true, "yes": true, "y": true, "t": true,
}

// ParseDate parses a date value in any of the accepted layouts. Years
// given with two digits resolve to 2000-2050 for 00-50 and 1951-1999
// otherwise.
func ParseDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			// Go anchors two-digit years at 1969; re-anchor to the
			// 1951-2050 window.
			year := t.Year() % 100
			if year <= 50 {
				year += 2000
			} else {
				year += 1900
			}
			return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, t.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", v)
}

// ParseDecimal parses a monetary or quantity value, tolerating currency
// symbols, thousands separators, and accounting-style parentheses for
// negatives.
func ParseDecimal(value string) (decimal.Decimal, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}
	negative := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		negative = true
		v = strings.TrimSuffix(strings.TrimPrefix(v, "("), ")")
	}
	v = strings.TrimSpace(currencySymbols.Replace(v))
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number: %q", value)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseBool reports whether a cell holds an affirmative value.
func ParseBool(value string) bool {
	return trueValues[strings.ToLower(strings.TrimSpace(value))]
}

// IsUUID reports whether a value looks like an ERP entity ID rather
// than a human-entered name.
func IsUUID(value string) bool {
	return uuidPattern.MatchString(strings.TrimSpace(value))
}
