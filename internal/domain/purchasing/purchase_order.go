package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/procure/backend/internal/domain/shared"
	"github.com/procure/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Purchase order domain errors
var (
	ErrDuplicateProduct = shared.NewDomainError("DUPLICATE_PRODUCT", "Product already has a line on this order")
	ErrAlreadyPlaced    = shared.NewDomainError("ALREADY_PLACED", "Purchase order has already been placed")
	ErrEmptyOrder       = shared.NewDomainError("EMPTY_ORDER", "Cannot place a purchase order without lines")
	ErrLineNotFound     = shared.NewDomainError("LINE_NOT_FOUND", "No line for this product on the order")
)

// Line tracks one product's ordered quantity and running received quantity
// within a purchase order. Lines are owned exclusively by their order: they
// are created through PurchaseOrder.AddLine, never removed, and mutated only
// through the order's receipt operations.
type Line struct {
	lineNumber       int
	productID        uuid.UUID
	orderedQuantity  valueobject.OrderedQuantity
	receivedQuantity decimal.Decimal
}

// newLine creates a line with no goods received yet
func newLine(lineNumber int, productID uuid.UUID, orderedQuantity valueobject.OrderedQuantity) Line {
	return Line{
		lineNumber:       lineNumber,
		productID:        productID,
		orderedQuantity:  orderedQuantity,
		receivedQuantity: decimal.Zero,
	}
}

// ReconstituteLine rebuilds a line from persisted state
func ReconstituteLine(lineNumber int, productID uuid.UUID, orderedQuantity valueobject.OrderedQuantity, receivedQuantity decimal.Decimal) Line {
	return Line{
		lineNumber:       lineNumber,
		productID:        productID,
		orderedQuantity:  orderedQuantity,
		receivedQuantity: receivedQuantity,
	}
}

// LineNumber returns the 1-based line number, assigned in insertion order
func (l Line) LineNumber() int {
	return l.lineNumber
}

// ProductID returns the product this line is for
func (l Line) ProductID() uuid.UUID {
	return l.productID
}

// OrderedQuantity returns the quantity ordered for this line
func (l Line) OrderedQuantity() valueobject.OrderedQuantity {
	return l.orderedQuantity
}

// ReceivedQuantity returns the running total of goods received for this line
func (l Line) ReceivedQuantity() decimal.Decimal {
	return l.receivedQuantity
}

// ProcessReceipt adds the received quantity to the running total.
// The total is not capped at the ordered quantity; over-receipt is
// representable and surfaces through IsFullyDelivered.
func (l *Line) ProcessReceipt(quantity valueobject.ReceiptQuantity) {
	l.receivedQuantity = l.receivedQuantity.Add(quantity.Amount())
}

// UndoReceipt subtracts the quantity from the running total.
// Undoing more than was received drives the total negative; correcting that
// is a product decision, not enforced here.
func (l *Line) UndoReceipt(quantity valueobject.ReceiptQuantity) {
	l.receivedQuantity = l.receivedQuantity.Sub(quantity.Amount())
}

// IsFullyDelivered returns true if the received quantity meets or exceeds
// the ordered quantity
func (l Line) IsFullyDelivered() bool {
	return l.receivedQuantity.GreaterThanOrEqual(l.orderedQuantity.Amount())
}

// RemainingQuantity returns the quantity still to be received, never negative
func (l Line) RemainingQuantity() decimal.Decimal {
	remaining := l.orderedQuantity.Amount().Sub(l.receivedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// PurchaseOrder is the aggregate root for a buyer's order with a supplier.
// It is the single consistency boundary for ordering rules and per-product
// delivery progress: one line per product, a one-time place transition, and
// Completed/Reopened events on the edges of full delivery.
//
// The aggregate is not safe for concurrent use; callers are expected to
// serialize access per instance and rely on the repository's version check
// across processes.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	supplierID uuid.UUID
	placed     bool
	lines      []Line
}

// NewPurchaseOrder creates a new purchase order in draft state with no lines
func NewPurchaseOrder(purchaseOrderID, supplierID uuid.UUID) *PurchaseOrder {
	return &PurchaseOrder{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.NewBaseEntityWithID(purchaseOrderID),
			Version:    1,
		},
		supplierID: supplierID,
		lines:      make([]Line, 0),
	}
}

// ReconstitutePurchaseOrder rebuilds a purchase order from persisted state.
// The rebuilt aggregate starts with an empty event buffer.
func ReconstitutePurchaseOrder(purchaseOrderID, supplierID uuid.UUID, placed bool, lines []Line, version int, createdAt, updatedAt time.Time) *PurchaseOrder {
	return &PurchaseOrder{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        purchaseOrderID,
				CreatedAt: createdAt,
				UpdatedAt: updatedAt,
			},
			Version: version,
		},
		supplierID: supplierID,
		placed:     placed,
		lines:      lines,
	}
}

// PurchaseOrderID returns the order identity
func (o *PurchaseOrder) PurchaseOrderID() uuid.UUID {
	return o.ID
}

// SupplierID returns the supplier the order was placed with
func (o *PurchaseOrder) SupplierID() uuid.UUID {
	return o.supplierID
}

// IsPlaced returns true once the order has been committed
func (o *PurchaseOrder) IsPlaced() bool {
	return o.placed
}

// Lines returns a copy of the order lines in insertion order
func (o *PurchaseOrder) Lines() []Line {
	lines := make([]Line, len(o.lines))
	copy(lines, o.lines)
	return lines
}

// LineCount returns the number of lines on the order
func (o *PurchaseOrder) LineCount() int {
	return len(o.lines)
}

// AddLine appends a new line for the product with the next line number.
// Line numbers are 1-based, assigned in insertion order and never reused.
// Adding a line is not gated on placement.
func (o *PurchaseOrder) AddLine(productID uuid.UUID, quantity valueobject.OrderedQuantity) error {
	for _, line := range o.lines {
		if line.productID == productID {
			return ErrDuplicateProduct
		}
	}

	o.lines = append(o.lines, newLine(len(o.lines)+1, productID, quantity))
	o.UpdatedAt = time.Now()

	return nil
}

// Place commits the order. It may succeed only once and only when the order
// has at least one line; on success a PurchaseOrderPlaced event is recorded.
func (o *PurchaseOrder) Place() error {
	if o.placed {
		return ErrAlreadyPlaced
	}
	if len(o.lines) == 0 {
		return ErrEmptyOrder
	}

	o.placed = true
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewPurchaseOrderPlacedEvent(o))

	return nil
}

// ProcessReceipt applies a goods receipt to the line matching the product.
// A receipt for a product with no line on the order is a silent no-op: no
// error, no event, state unchanged. If the receipt moves the order from
// not-fully-delivered to fully-delivered, a PurchaseOrderCompleted event is
// recorded.
func (o *PurchaseOrder) ProcessReceipt(productID uuid.UUID, quantity valueobject.ReceiptQuantity) {
	wasFullyDelivered := o.IsFullyDelivered()

	matched := false
	for idx := range o.lines {
		if o.lines[idx].productID == productID {
			o.lines[idx].ProcessReceipt(quantity)
			matched = true
		}
	}
	if !matched {
		return
	}

	o.UpdatedAt = time.Now()

	if !wasFullyDelivered && o.IsFullyDelivered() {
		o.AddDomainEvent(NewPurchaseOrderCompletedEvent(o))
	}
}

// UndoReceipt reverses a goods receipt on the line matching the product,
// symmetric to ProcessReceipt. If the reversal moves the order from
// fully-delivered back to not-fully-delivered, a PurchaseOrderReopened event
// is recorded. Unmatched products are again a silent no-op.
func (o *PurchaseOrder) UndoReceipt(productID uuid.UUID, quantity valueobject.ReceiptQuantity) {
	wasFullyDelivered := o.IsFullyDelivered()

	matched := false
	for idx := range o.lines {
		if o.lines[idx].productID == productID {
			o.lines[idx].UndoReceipt(quantity)
			matched = true
		}
	}
	if !matched {
		return
	}

	o.UpdatedAt = time.Now()

	if wasFullyDelivered && !o.IsFullyDelivered() {
		o.AddDomainEvent(NewPurchaseOrderReopenedEvent(o))
	}
}

// IsFullyDelivered returns true if every line has received at least its
// ordered quantity. An order with no lines is vacuously fully delivered;
// Place forbids empty orders, so this only arises in draft.
func (o *PurchaseOrder) IsFullyDelivered() bool {
	for _, line := range o.lines {
		if !line.IsFullyDelivered() {
			return false
		}
	}
	return true
}

// LineForProduct returns the line for the product. Unlike the receipt
// operations, a missing product here is a hard error.
func (o *PurchaseOrder) LineForProduct(productID uuid.UUID) (Line, error) {
	for _, line := range o.lines {
		if line.productID == productID {
			return line, nil
		}
	}
	return Line{}, ErrLineNotFound
}
