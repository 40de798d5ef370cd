package catalog

import (
	"strings"
	"testing"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Product Name":        "product-name",
		"Produto Acrílico #1": "produto-acrilico-1",
		"Multiple   Spaces":   "multiple-spaces",
		"Expositor De Mesa":   "expositor-de-mesa",
	}
	for input, want := range cases {
		if got := GenerateSlug(input); got != want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestGenerateSKUPrefix(t *testing.T) {
	cases := map[string]string{
		"Vitrine Acrílica":        "VA",
		"Box":                     "B",
		"Expositor De Mesa Grande": "EDMG",
		"":                        "",
	}
	for input, want := range cases {
		if got := GenerateSKUPrefix(input); got != want {
			t.Errorf("GenerateSKUPrefix(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestGenerateSKUPrefixCapsAtFive(t *testing.T) {
	got := GenerateSKUPrefix("One Two Three Four Five Six Seven")
	if len(got) != 5 {
		t.Fatalf("expected 5 characters, got %q", got)
	}
}

func TestGenerateSKUPrefixAccentedInitials(t *testing.T) {
	// Multi-byte initials still count as one letter each.
	got := GenerateSKUPrefix("Águas Água Único Época Óculos Extra")
	if got != "ÁÁÚÉÓ" {
		t.Fatalf("GenerateSKUPrefix accented = %q, want %q", got, "ÁÁÚÉÓ")
	}

	got = GenerateSKUPrefix("Água De Mesa")
	if got != "ÁDM" {
		t.Fatalf("GenerateSKUPrefix(%q) = %q, want %q", "Água De Mesa", got, "ÁDM")
	}
}

func TestBuildSKU(t *testing.T) {
	if got := BuildSKU("edmg", "30x20"); got != "EDMG-30X20" {
		t.Fatalf("BuildSKU = %q", got)
	}
	if got := BuildSKU("VA!", "a4 "); got != "VA-A4" {
		t.Fatalf("BuildSKU with special characters = %q", got)
	}
}

func TestGenerateReferenceCode(t *testing.T) {
	code := GenerateReferenceCode()
	if len(code) != 8 {
		t.Fatalf("expected 8 characters, got %q", code)
	}
	if !strings.HasPrefix(code, "J-") {
		t.Fatalf("expected J- prefix, got %q", code)
	}
}
