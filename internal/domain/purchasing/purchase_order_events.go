package purchasing

import (
	"github.com/google/uuid"
	"github.com/procure/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderPlaced    = "PurchaseOrderPlaced"
	EventTypePurchaseOrderCompleted = "PurchaseOrderCompleted"
	EventTypePurchaseOrderReopened  = "PurchaseOrderReopened"
)

// PurchaseOrderPlacedEvent is raised when a draft order is committed
type PurchaseOrderPlacedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	SupplierID      uuid.UUID `json:"supplier_id"`
	LineCount       int       `json:"line_count"`
}

// NewPurchaseOrderPlacedEvent creates a new PurchaseOrderPlacedEvent
func NewPurchaseOrderPlacedEvent(order *PurchaseOrder) *PurchaseOrderPlacedEvent {
	return &PurchaseOrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderPlaced, AggregateTypePurchaseOrder, order.ID),
		PurchaseOrderID: order.ID,
		SupplierID:      order.supplierID,
		LineCount:       len(order.lines),
	}
}

// EventType returns the event type name
func (e *PurchaseOrderPlacedEvent) EventType() string {
	return EventTypePurchaseOrderPlaced
}

// PurchaseOrderCompletedEvent is raised when a goods receipt brings every
// line up to its ordered quantity
type PurchaseOrderCompletedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	SupplierID      uuid.UUID `json:"supplier_id"`
}

// NewPurchaseOrderCompletedEvent creates a new PurchaseOrderCompletedEvent
func NewPurchaseOrderCompletedEvent(order *PurchaseOrder) *PurchaseOrderCompletedEvent {
	return &PurchaseOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCompleted, AggregateTypePurchaseOrder, order.ID),
		PurchaseOrderID: order.ID,
		SupplierID:      order.supplierID,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCompletedEvent) EventType() string {
	return EventTypePurchaseOrderCompleted
}

// PurchaseOrderReopenedEvent is raised when an undone receipt drops a
// previously fully delivered order below its ordered quantities
type PurchaseOrderReopenedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	SupplierID      uuid.UUID `json:"supplier_id"`
}

// NewPurchaseOrderReopenedEvent creates a new PurchaseOrderReopenedEvent
func NewPurchaseOrderReopenedEvent(order *PurchaseOrder) *PurchaseOrderReopenedEvent {
	return &PurchaseOrderReopenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReopened, AggregateTypePurchaseOrder, order.ID),
		PurchaseOrderID: order.ID,
		SupplierID:      order.supplierID,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderReopenedEvent) EventType() string {
	return EventTypePurchaseOrderReopened
}
