package scrape

import (
	"strings"
	"unicode"
)

// Location is the city/state split of a card's location text.
type Location struct {
	City  string
	State string
}

// ParseLocation expects "City, ST ..." text. City is the part before the
// first comma. State is the leading two-letter code of the second part, and
// is left empty (with a non-empty anomaly) when that part does not start with
// one. Text without a comma yields no city at all.
func ParseLocation(text string) (loc Location, anomaly string) {
	parts := strings.Split(text, ",")
	if len(parts) < 2 {
		return Location{}, ""
	}

	loc.City = strings.TrimSpace(parts[0])
	if loc.City == "" {
		return Location{}, "empty city"
	}

	rest := []rune(strings.TrimSpace(parts[1]))
	if len(rest) < 2 || !isASCIILetter(rest[0]) || !isASCIILetter(rest[1]) {
		return loc, "no state code"
	}
	if len(rest) > 2 && unicode.IsLetter(rest[2]) {
		// "Illinois" rather than "IL"
		return loc, "state not abbreviated"
	}
	loc.State = strings.ToUpper(string(rest[:2]))
	return loc, ""
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
