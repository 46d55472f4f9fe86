// Package string holds small normalizers applied to request fields before validation.
package string

import "strings"

// TrimStrings trims surrounding whitespace from each field in place.
func TrimStrings(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
