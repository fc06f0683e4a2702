package epw

import (
	"fmt"
	"strings"
	"time"
)

// FileName derives the output file name for a conversion:
//
//	<label>_<lat>_<lon>_<period>_<generation year>.epw
//
// Coordinates use two decimals. Any non-alphanumeric label character becomes
// an underscore; in the period only characters unsafe in a path do.
func FileName(label string, lat, lon float64, period string, generatedAt time.Time) string {
	return fmt.Sprintf("%s_%.2f_%.2f_%s_%d.epw",
		sanitizeLabel(label), lat, lon, sanitizePeriod(period), generatedAt.Year())
}

func sanitizeLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "location"
	}
	return strings.Map(func(r rune) rune {
		if isASCIIAlnum(r) {
			return r
		}
		return '_'
	}, s)
}

func sanitizePeriod(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if isASCIIAlnum(r) || r == '-' {
			return r
		}
		return '_'
	}, s)
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
