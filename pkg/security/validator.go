package security

import (
	"regexp"
	"strings"
)

var (
	// identifierPattern allows ASCII letters, digits and underscore only.
	identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

	// emailPattern is a syntactic shape check, not RFC 5322.
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// IsBlank reports whether s is empty or consists only of whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsIdentifier reports whether s is a non-blank run of letters, digits or underscores.
func IsIdentifier(s string) bool {
	return !IsBlank(s) && identifierPattern.MatchString(s)
}

// IsEmailShape reports whether s looks like local@domain.tld.
func IsEmailShape(s string) bool {
	return emailPattern.MatchString(s)
}

// IsOptionalEmail accepts a blank value, otherwise defers to IsEmailShape.
func IsOptionalEmail(s string) bool {
	return IsBlank(s) || IsEmailShape(s)
}
