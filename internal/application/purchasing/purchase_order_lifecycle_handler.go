package purchasing

import (
	"context"
	"fmt"

	"github.com/procure/backend/internal/domain/purchasing"
	"github.com/procure/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PurchaseOrderLifecycleHandler consumes purchase order lifecycle events from
// the event bus and records them for downstream visibility
type PurchaseOrderLifecycleHandler struct {
	logger *zap.Logger
}

// NewPurchaseOrderLifecycleHandler creates a new lifecycle event handler
func NewPurchaseOrderLifecycleHandler(logger *zap.Logger) *PurchaseOrderLifecycleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderLifecycleHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseOrderLifecycleHandler) EventTypes() []string {
	return []string{
		purchasing.EventTypePurchaseOrderPlaced,
		purchasing.EventTypePurchaseOrderCompleted,
		purchasing.EventTypePurchaseOrderReopened,
	}
}

// Handle processes a purchase order lifecycle event
func (h *PurchaseOrderLifecycleHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *purchasing.PurchaseOrderPlacedEvent:
		h.logger.Info("purchase order placed",
			zap.String("order_id", e.PurchaseOrderID.String()),
			zap.String("supplier_id", e.SupplierID.String()),
			zap.Int("line_count", e.LineCount),
		)
	case *purchasing.PurchaseOrderCompletedEvent:
		h.logger.Info("purchase order fully delivered",
			zap.String("order_id", e.PurchaseOrderID.String()),
			zap.String("supplier_id", e.SupplierID.String()),
		)
	case *purchasing.PurchaseOrderReopenedEvent:
		h.logger.Info("purchase order reopened",
			zap.String("order_id", e.PurchaseOrderID.String()),
			zap.String("supplier_id", e.SupplierID.String()),
		)
	default:
		h.logger.Error("unexpected event type",
			zap.String("event_type", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}

var _ shared.EventHandler = (*PurchaseOrderLifecycleHandler)(nil)
