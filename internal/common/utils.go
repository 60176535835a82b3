package common

import (
	"strconv"
	"strings"
)

// NormalizeHeader upper-cases a column name and converts hyphens to underscores.
func NormalizeHeader(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
}

// FirstNonEmpty returns the first non-empty value, or "" if there is none.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// FormatFloat renders f as the shortest decimal string that round-trips.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatOptionalFloat renders f, or "" when it is nil.
func FormatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return FormatFloat(*f)
}

// DateKey formats t as YYYY-MM-DD.
func DateKey(t interface{ Format(string) string }) string {
	return t.Format("2006-01-02")
}
