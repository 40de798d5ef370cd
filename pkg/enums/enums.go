// Package enums mirrors the Postgres enum types used by the schema so
// string values are validated at the boundary rather than by the database.
package enums

import (
	"fmt"
	"slices"
)

func parseEnum[T ~string](value, label string, valid []T) (T, error) {
	if idx := slices.Index(valid, T(value)); idx >= 0 {
		return valid[idx], nil
	}
	return "", fmt.Errorf("invalid %s %q", label, value)
}
