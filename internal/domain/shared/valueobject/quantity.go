package valueobject

import (
	"fmt"

	"github.com/procure/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrNonPositiveQuantity is returned when constructing a quantity from a
// value that is zero or negative.
var ErrNonPositiveQuantity = shared.NewDomainError("INVALID_QUANTITY", "quantity must be larger than 0")

// OrderedQuantity is a strictly positive decimal quantity captured when a
// product is added to a purchase order. It is immutable once created.
//
// OrderedQuantity and ReceiptQuantity share the same validation rule but are
// deliberately distinct types: an order amount can never be passed where a
// receipt amount is expected.
type OrderedQuantity struct {
	value decimal.Decimal
}

// NewOrderedQuantity creates an OrderedQuantity from a decimal value
func NewOrderedQuantity(value decimal.Decimal) (OrderedQuantity, error) {
	if value.LessThanOrEqual(decimal.Zero) {
		return OrderedQuantity{}, ErrNonPositiveQuantity
	}
	return OrderedQuantity{value: value}, nil
}

// NewOrderedQuantityFromFloat creates an OrderedQuantity from a float64 value
func NewOrderedQuantityFromFloat(value float64) (OrderedQuantity, error) {
	return NewOrderedQuantity(decimal.NewFromFloat(value))
}

// NewOrderedQuantityFromString creates an OrderedQuantity from a string representation
func NewOrderedQuantityFromString(value string) (OrderedQuantity, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return OrderedQuantity{}, fmt.Errorf("invalid quantity string: %w", err)
	}
	return NewOrderedQuantity(d)
}

// MustNewOrderedQuantity creates an OrderedQuantity and panics on error.
// Intended for tests and literals known to be positive.
func MustNewOrderedQuantity(value decimal.Decimal) OrderedQuantity {
	q, err := NewOrderedQuantity(value)
	if err != nil {
		panic(err)
	}
	return q
}

// Amount returns the decimal value
func (q OrderedQuantity) Amount() decimal.Decimal {
	return q.value
}

// Equals returns true if both quantities have the same numeric value
func (q OrderedQuantity) Equals(other OrderedQuantity) bool {
	return q.value.Equal(other.value)
}

// String returns a string representation of the quantity
func (q OrderedQuantity) String() string {
	return q.value.String()
}

// ReceiptQuantity is a strictly positive decimal quantity of goods physically
// received or reversed against a purchase order line. It is produced by the
// receipt-note side and consumed here as an opaque validated value.
type ReceiptQuantity struct {
	value decimal.Decimal
}

// NewReceiptQuantity creates a ReceiptQuantity from a decimal value
func NewReceiptQuantity(value decimal.Decimal) (ReceiptQuantity, error) {
	if value.LessThanOrEqual(decimal.Zero) {
		return ReceiptQuantity{}, ErrNonPositiveQuantity
	}
	return ReceiptQuantity{value: value}, nil
}

// NewReceiptQuantityFromFloat creates a ReceiptQuantity from a float64 value
func NewReceiptQuantityFromFloat(value float64) (ReceiptQuantity, error) {
	return NewReceiptQuantity(decimal.NewFromFloat(value))
}

// NewReceiptQuantityFromString creates a ReceiptQuantity from a string representation
func NewReceiptQuantityFromString(value string) (ReceiptQuantity, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return ReceiptQuantity{}, fmt.Errorf("invalid quantity string: %w", err)
	}
	return NewReceiptQuantity(d)
}

// MustNewReceiptQuantity creates a ReceiptQuantity and panics on error.
// Intended for tests and literals known to be positive.
func MustNewReceiptQuantity(value decimal.Decimal) ReceiptQuantity {
	q, err := NewReceiptQuantity(value)
	if err != nil {
		panic(err)
	}
	return q
}

// Amount returns the decimal value
func (q ReceiptQuantity) Amount() decimal.Decimal {
	return q.value
}

// Equals returns true if both quantities have the same numeric value
func (q ReceiptQuantity) Equals(other ReceiptQuantity) bool {
	return q.value.Equal(other.value)
}

// String returns a string representation of the quantity
func (q ReceiptQuantity) String() string {
	return q.value.String()
}
