package enums

import "slices"

// PaymentMethod names the payment rails offered at checkout.
type PaymentMethod string

const (
	PaymentMethodMultibanco PaymentMethod = "multibanco"
	PaymentMethodMBWay      PaymentMethod = "mbway"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodMultibanco,
	PaymentMethodMBWay,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	return slices.Contains(validPaymentMethods, p)
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	return parseEnum(value, "payment method", validPaymentMethods)
}
