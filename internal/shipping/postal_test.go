package shipping

import (
	"testing"

	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
)

func TestPostalPrefix(t *testing.T) {
	valid := map[string]int{
		"1000":     1000,
		"1000-001": 1000,
		"4700123":  4700,
		"10000":    1000,
		" 9500-321 ": 9500,
	}
	for input, want := range valid {
		got, err := PostalPrefix(input)
		if err != nil {
			t.Errorf("PostalPrefix(%q) unexpected error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("PostalPrefix(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestPostalPrefixRejectsInvalid(t *testing.T) {
	invalid := []string{"", "999", "abc", "0999-123", "12345678"}
	for _, input := range invalid {
		_, err := PostalPrefix(input)
		if err == nil {
			t.Errorf("PostalPrefix(%q) expected error", input)
			continue
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Errorf("PostalPrefix(%q) expected validation error, got %v", input, err)
		}
	}
}
