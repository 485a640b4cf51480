package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/procure/backend/internal/domain/purchasing"
	"github.com/shopspring/decimal"
)

// ==================== Purchase Order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	ID         *uuid.UUID      `json:"id"` // Optional client-supplied identity
	SupplierID uuid.UUID       `json:"supplier_id" binding:"required"`
	Lines      []AddLineInput  `json:"lines"`
}

// AddLineInput represents a line in the create order request
type AddLineInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// AddLineRequest represents a request to add a line to a purchase order
type AddLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// ReceiptRequest represents a goods receipt (or receipt rollback) for a single product
type ReceiptRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// PurchaseOrderListFilter represents filter options for purchase order list
type PurchaseOrderListFilter struct {
	SupplierID *uuid.UUID `form:"supplier_id"`
	Placed     *bool      `form:"placed"`
	StartDate  *time.Time `form:"start_date"`
	EndDate    *time.Time `form:"end_date"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID             uuid.UUID                   `json:"id"`
	SupplierID     uuid.UUID                   `json:"supplier_id"`
	Placed         bool                        `json:"placed"`
	FullyDelivered bool                        `json:"fully_delivered"`
	Lines          []PurchaseOrderLineResponse `json:"lines"`
	LineCount      int                         `json:"line_count"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
	Version        int                         `json:"version"`
}

// PurchaseOrderLineResponse represents a purchase order line in API responses
type PurchaseOrderLineResponse struct {
	LineNumber        int             `json:"line_number"`
	ProductID         uuid.UUID       `json:"product_id"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	FullyDelivered    bool            `json:"fully_delivered"`
}

// PurchaseOrderListItemResponse represents a purchase order in list responses (less detail)
type PurchaseOrderListItemResponse struct {
	ID             uuid.UUID `json:"id"`
	SupplierID     uuid.UUID `json:"supplier_id"`
	Placed         bool      `json:"placed"`
	FullyDelivered bool      `json:"fully_delivered"`
	LineCount      int       `json:"line_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ReceiptResultResponse represents the result of a receipt operation
type ReceiptResultResponse struct {
	Order          PurchaseOrderResponse `json:"order"`
	FullyDelivered bool                  `json:"fully_delivered"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to a response DTO
func ToPurchaseOrderResponse(order *purchasing.PurchaseOrder) PurchaseOrderResponse {
	domainLines := order.Lines()
	lines := make([]PurchaseOrderLineResponse, len(domainLines))
	for i := range domainLines {
		lines[i] = ToPurchaseOrderLineResponse(domainLines[i])
	}

	return PurchaseOrderResponse{
		ID:             order.PurchaseOrderID(),
		SupplierID:     order.SupplierID(),
		Placed:         order.IsPlaced(),
		FullyDelivered: order.IsFullyDelivered(),
		Lines:          lines,
		LineCount:      order.LineCount(),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
		Version:        order.GetVersion(),
	}
}

// ToPurchaseOrderLineResponse converts a domain Line to a response DTO
func ToPurchaseOrderLineResponse(line purchasing.Line) PurchaseOrderLineResponse {
	return PurchaseOrderLineResponse{
		LineNumber:        line.LineNumber(),
		ProductID:         line.ProductID(),
		OrderedQuantity:   line.OrderedQuantity().Amount(),
		ReceivedQuantity:  line.ReceivedQuantity(),
		RemainingQuantity: line.RemainingQuantity(),
		FullyDelivered:    line.IsFullyDelivered(),
	}
}

// ToPurchaseOrderListItemResponse converts a domain PurchaseOrder to a list response DTO
func ToPurchaseOrderListItemResponse(order *purchasing.PurchaseOrder) PurchaseOrderListItemResponse {
	return PurchaseOrderListItemResponse{
		ID:             order.PurchaseOrderID(),
		SupplierID:     order.SupplierID(),
		Placed:         order.IsPlaced(),
		FullyDelivered: order.IsFullyDelivered(),
		LineCount:      order.LineCount(),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

// ToPurchaseOrderListItemResponses converts a slice of domain orders to list responses
func ToPurchaseOrderListItemResponses(orders []purchasing.PurchaseOrder) []PurchaseOrderListItemResponse {
	responses := make([]PurchaseOrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderListItemResponse(&orders[i])
	}
	return responses
}
