package money

import "github.com/shopspring/decimal"

// vatMultiplier reflects the Portuguese standard VAT of 23%.
var vatMultiplier = decimal.NewFromFloat(1.23)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// WithVAT converts a net price into a VAT inclusive price, rounded
// to the cent.
func WithVAT(net decimal.Decimal) decimal.Decimal {
	return net.Mul(vatMultiplier).Round(2)
}

// WithoutVAT strips VAT from a gross price, rounded to the cent.
func WithoutVAT(gross decimal.Decimal) decimal.Decimal {
	return gross.Div(vatMultiplier).Round(2)
}

// CentsWithoutVAT strips VAT from a gross cent amount, rounding the
// net value to the cent.
func CentsWithoutVAT(cents int) int {
	return ToCents(WithoutVAT(FromCents(cents)))
}

// RoundToHalfEuro rounds a price to the nearest 0.50.
func RoundToHalfEuro(price decimal.Decimal) decimal.Decimal {
	return price.Mul(two).Round(0).Div(two)
}

// ToCents converts a euro amount into integer cents.
func ToCents(amount decimal.Decimal) int {
	return int(amount.Mul(hundred).Round(0).IntPart())
}

// FromCents converts integer cents into a euro amount.
func FromCents(cents int) decimal.Decimal {
	return decimal.NewFromInt(int64(cents)).Div(hundred)
}

// CentsWithinTolerance reports whether two cent amounts differ by at
// most toleranceCents, used when reconciling gateway callbacks.
func CentsWithinTolerance(a, b, toleranceCents int) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= toleranceCents
}
