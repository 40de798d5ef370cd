package enums

import "slices"

// StockStatus summarizes variant availability for the storefront.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusBackorder  StockStatus = "backorder"
)

var validStockStatuses = []StockStatus{
	StockStatusInStock,
	StockStatusLowStock,
	StockStatusOutOfStock,
	StockStatusBackorder,
}

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockStatus.
func (s StockStatus) IsValid() bool {
	return slices.Contains(validStockStatuses, s)
}

// ParseStockStatus converts raw input into a StockStatus.
func ParseStockStatus(value string) (StockStatus, error) {
	return parseEnum(value, "stock status", validStockStatuses)
}

// StockStatusFor derives availability from the quantity on hand,
// allowing backorders to keep an exhausted variant sellable.
func StockStatusFor(quantity, lowStockThreshold int, allowBackorder bool) StockStatus {
	switch {
	case quantity <= 0 && allowBackorder:
		return StockStatusBackorder
	case quantity <= 0:
		return StockStatusOutOfStock
	case quantity <= lowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}
