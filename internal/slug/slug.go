// Package slug canonicalizes the human-readable identifiers that address
// companies and job postings. Every slug crossing the system boundary must be
// normalized here before it is compared or stored.
package slug

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidFormat is returned when a slug does not match the canonical
// pattern after normalization.
var ErrInvalidFormat = errors.New("invalid slug format")

var pattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Normalize trims surrounding whitespace, lowercases the input and validates
// it against the canonical pattern (lowercase letters, digits and hyphens,
// non-empty). The returned value is the only form ever compared or stored.
func Normalize(input string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if !pattern.MatchString(normalized) {
		return "", ErrInvalidFormat
	}

	return normalized, nil
}
