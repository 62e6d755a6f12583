package matching

import (
	"regexp"
	"strings"
)

// addressAbbrev maps long-form address tokens to the abbreviations used
// when comparing addresses.
var addressAbbrev = map[string]string{
	"street":    "st",
	"avenue":    "ave",
	"boulevard": "blvd",
	"drive":     "dr",
	"lane":      "ln",
	"road":      "rd",
	"court":     "ct",
	"circle":    "cir",
	"place":     "pl",
	"highway":   "hwy",
	"parkway":   "pkwy",
	"suite":     "ste",
	"apartment": "apt",
	"building":  "bldg",
	"floor":     "fl",
	"north":     "n",
	"south":     "s",
	"east":      "e",
	"west":      "w",
}

var (
	zipPattern        = regexp.MustCompile(`\b(\d{5}(?:-\d{4})?)\b`)
	statePattern      = regexp.MustCompile(`\b([A-Za-z]{2})\s*$`)
	commaStatePattern = regexp.MustCompile(`,\s*([A-Za-z]{2})\s*$`)
	unitPattern       = regexp.MustCompile(`(?i)^(?:ste|apt|unit|bldg|fl|#)\b`)
)

// NormalizeAddress normalizes an address for fuzzy comparison:
// lowercase, punctuation stripped, long-form tokens abbreviated.
func NormalizeAddress(addr string) string {
	norm := Normalize(addr)
	tokens := strings.Fields(norm)
	for i, tok := range tokens {
		if abbrev, ok := addressAbbrev[tok]; ok {
			tokens[i] = abbrev
		}
	}
	return strings.Join(tokens, " ")
}

// AddressSimilarity compares two addresses after normalization.
func AddressSimilarity(a, b string) float64 {
	return Similarity(NormalizeAddress(a), NormalizeAddress(b))
}

// ParsedAddress is the result of splitting a one-line address into the
// components the ERP address object expects.
type ParsedAddress struct {
	Company  string
	Line1    string
	Line2    string
	City     string
	State    string
	Postcode string
}

// ParseAddress splits a single-line US-style address. The postcode is
// located first, then a trailing two-letter state, then the remainder
// is split on commas into company/line1/line2/city.
func ParseAddress(raw string) ParsedAddress {
	var parsed ParsedAddress
	rest := strings.TrimSpace(raw)
	if rest == "" {
		return parsed
	}

	hasZip := false
	if all := zipPattern.FindAllStringSubmatchIndex(rest, -1); all != nil {
		m := all[len(all)-1]
		hasZip = true
		parsed.Postcode = rest[m[2]:m[3]]
		rest = strings.TrimSpace(rest[:m[2]] + rest[m[3]:])
		rest = strings.TrimRight(rest, ", ")
	}
	// A bare trailing two-letter token is only treated as a state when
	// a postcode anchored it; otherwise a comma must precede it, so
	// "123 Main St" keeps its "St".
	statePat := commaStatePattern
	if hasZip {
		statePat = statePattern
	}
	if m := statePat.FindStringSubmatch(rest); m != nil {
		parsed.State = strings.ToUpper(m[1])
		rest = strings.TrimSpace(strings.TrimSuffix(rest, m[0]))
		rest = strings.TrimRight(rest, ", ")
	}

	parts := splitTrim(rest, ",")
	switch len(parts) {
	case 0:
	case 1:
		parsed.Line1 = parts[0]
	case 2:
		parsed.Line1 = parts[0]
		parsed.City = parts[1]
	case 3:
		if looksLikeUnit(parts[1]) {
			parsed.Line1 = parts[0]
			parsed.Line2 = parts[1]
			parsed.City = parts[2]
		} else {
			parsed.Company = parts[0]
			parsed.Line1 = parts[1]
			parsed.City = parts[2]
		}
	default:
		parsed.Company = parts[0]
		parsed.Line1 = parts[1]
		parsed.Line2 = strings.Join(parts[2:len(parts)-1], ", ")
		parsed.City = parts[len(parts)-1]
	}
	return parsed
}

func looksLikeUnit(s string) bool {
	return unitPattern.MatchString(strings.TrimSpace(s))
}

func splitTrim(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
