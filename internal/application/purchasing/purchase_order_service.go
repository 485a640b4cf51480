package purchasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/procure/backend/internal/domain/purchasing"
	"github.com/procure/backend/internal/domain/shared"
	"github.com/procure/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo purchasing.PurchaseOrderRepository
	logger    *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orderRepo purchasing.PurchaseOrderRepository, logger *zap.Logger) *PurchaseOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// Create creates a new purchase order, optionally with initial lines
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	orderID := uuid.New()
	if req.ID != nil {
		orderID = *req.ID
	}

	order := purchasing.NewPurchaseOrder(orderID, req.SupplierID)

	for _, line := range req.Lines {
		quantity, err := valueobject.NewOrderedQuantity(line.Quantity)
		if err != nil {
			return nil, err
		}
		if err := order.AddLine(line.ProductID, quantity); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("order_id", order.PurchaseOrderID().String()),
		zap.String("supplier_id", order.SupplierID().String()),
		zap.Int("line_count", order.LineCount()))

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetLine retrieves the ordering line for a specific product
func (s *PurchaseOrderService) GetLine(ctx context.Context, orderID, productID uuid.UUID) (*PurchaseOrderLineResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	line, err := order.LineForProduct(productID)
	if err != nil {
		return nil, err
	}

	resp := ToPurchaseOrderLineResponse(line)
	return &resp, nil
}

// List retrieves a list of purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	domainFilter := buildDomainFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderListItemResponses(orders), total, nil
}

// ListBySupplier retrieves purchase orders for a specific supplier
func (s *PurchaseOrderService) ListBySupplier(ctx context.Context, supplierID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	filter.SupplierID = &supplierID
	return s.List(ctx, filter)
}

// AddLine adds an ordering line to a purchase order
func (s *PurchaseOrderService) AddLine(ctx context.Context, orderID uuid.UUID, req AddLineRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	quantity, err := valueobject.NewOrderedQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	if err := order.AddLine(req.ProductID, quantity); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Place places a purchase order with the supplier
func (s *PurchaseOrderService) Place(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Place(); err != nil {
		return nil, err
	}

	// Save with optimistic locking and events atomically (transactional outbox pattern)
	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, order.PullDomainEvents()); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order placed",
		zap.String("order_id", order.PurchaseOrderID().String()),
		zap.Int("line_count", order.LineCount()))

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// ProcessReceipt reconciles a goods receipt against the order.
// A receipt for a product the order never listed is ignored.
func (s *PurchaseOrderService) ProcessReceipt(ctx context.Context, orderID uuid.UUID, req ReceiptRequest) (*ReceiptResultResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	quantity, err := valueobject.NewReceiptQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	order.ProcessReceipt(req.ProductID, quantity)

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, order.PullDomainEvents()); err != nil {
		return nil, err
	}

	orderResponse := ToPurchaseOrderResponse(order)
	return &ReceiptResultResponse{
		Order:          orderResponse,
		FullyDelivered: order.IsFullyDelivered(),
	}, nil
}

// UndoReceipt rolls back a previously processed goods receipt
func (s *PurchaseOrderService) UndoReceipt(ctx context.Context, orderID uuid.UUID, req ReceiptRequest) (*ReceiptResultResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	quantity, err := valueobject.NewReceiptQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	order.UndoReceipt(req.ProductID, quantity)

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, order.PullDomainEvents()); err != nil {
		return nil, err
	}

	orderResponse := ToPurchaseOrderResponse(order)
	return &ReceiptResultResponse{
		Order:          orderResponse,
		FullyDelivered: order.IsFullyDelivered(),
	}, nil
}

// Delete deletes a purchase order (only allowed before placing)
func (s *PurchaseOrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.IsPlaced() {
		return shared.NewDomainError("INVALID_STATE", "Only unplaced orders can be deleted")
	}

	return s.orderRepo.Delete(ctx, orderID)
}

func buildDomainFilter(filter PurchaseOrderListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.Placed != nil {
		domainFilter.Filters["placed"] = *filter.Placed
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	return domainFilter
}
