package catalog

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugStrip = regexp.MustCompile(`[^\w\s-]`)

var slugCollapse = regexp.MustCompile(`[\s-]+`)

// GenerateSlug normalizes a product name into a URL slug: lowercase,
// accents stripped, non-word characters removed, spaces collapsed to
// single hyphens.
func GenerateSlug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	deaccented, _, err := transform.String(t, name)
	if err != nil {
		deaccented = name
	}
	s := strings.ToLower(deaccented)
	s = slugStrip.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return slugCollapse.ReplaceAllString(s, "-")
}

// GenerateSKUPrefix derives a short SKU prefix from a product name by
// taking the first letter of each word, uppercased, capped at 5
// characters. "Expositor De Mesa Grande" yields "EDMG".
func GenerateSKUPrefix(name string) string {
	words := strings.Fields(name)
	var b strings.Builder
	written := 0
	for _, w := range words {
		if written == 5 {
			break
		}
		r := []rune(w)[0]
		b.WriteRune(unicode.ToUpper(r))
		written++
	}
	return b.String()
}

var skuClean = regexp.MustCompile(`[^A-Z0-9-]`)

// BuildSKU joins a prefix and suffix into a normalized SKU, keeping
// only uppercase alphanumerics and hyphens on both sides.
func BuildSKU(prefix, suffix string) string {
	p := skuClean.ReplaceAllString(strings.ToUpper(prefix), "")
	s := skuClean.ReplaceAllString(strings.ToUpper(suffix), "")
	return p + "-" + s
}

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReferenceCode mints a short human-quotable product reference
// of the form "J-XXXXXX".
func GenerateReferenceCode() string {
	var b strings.Builder
	b.WriteString("J-")
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceAlphabet))))
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteByte(referenceAlphabet[n.Int64()])
	}
	return b.String()
}
