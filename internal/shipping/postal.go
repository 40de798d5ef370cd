package shipping

import (
	"strings"

	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
)

const (
	minPostalPrefix = 1000
	maxPostalPrefix = 9999
)

// PostalPrefix extracts the 4 digit routing prefix from a Portuguese
// postal code. Accepts "1000", "1000-001" and lightly mangled input;
// anything without 4 to 7 digits or outside the national prefix range
// is rejected.
func PostalPrefix(postalCode string) (int, error) {
	var digits strings.Builder
	for _, r := range postalCode {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	cleaned := digits.String()
	if len(cleaned) < 4 || len(cleaned) > 7 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid postal code format")
	}

	prefix := 0
	for _, r := range cleaned[:4] {
		prefix = prefix*10 + int(r-'0')
	}
	if prefix < minPostalPrefix || prefix > maxPostalPrefix {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "postal code outside the supported range")
	}
	return prefix, nil
}
