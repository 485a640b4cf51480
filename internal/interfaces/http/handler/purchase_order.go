package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	purchasingapp "github.com/procure/backend/internal/application/purchasing"
	"github.com/procure/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *purchasingapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *purchasingapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService: orderService,
	}
}

// CreatePurchaseOrderRequest represents a request to create a new purchase order
type CreatePurchaseOrderRequest struct {
	ID         *string                  `json:"id" binding:"omitempty,uuid"`
	SupplierID string                   `json:"supplier_id" binding:"required,uuid"`
	Lines      []PurchaseOrderLineInput `json:"lines" binding:"omitempty,dive"`
}

// PurchaseOrderLineInput represents a line in the create order request
type PurchaseOrderLineInput struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required,quantity"`
}

// AddLineRequest represents a request to add a line to an order
type AddLineRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required,quantity"`
}

// ReceiptRequest represents a goods receipt or receipt rollback for one product
type ReceiptRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required,quantity"`
}

// ListPurchaseOrdersRequest represents list query parameters
type ListPurchaseOrdersRequest struct {
	SupplierID *string `form:"supplier_id" binding:"omitempty,uuid"`
	Placed     *bool   `form:"placed"`
	StartDate  *string `form:"start_date"`
	EndDate    *string `form:"end_date"`
	Page       int     `form:"page" binding:"omitempty,min=1"`
	PageSize   int     `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string  `form:"order_by"`
	OrderDir   string  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RegisterRoutes registers purchase order routes on a domain group
func (h *PurchaseOrderHandler) RegisterRoutes(group *router.DomainGroup) {
	group.POST("/purchase-orders", h.Create)
	group.GET("/purchase-orders", h.List)
	group.GET("/purchase-orders/:id", h.GetByID)
	group.GET("/purchase-orders/:id/lines/:product_id", h.GetLine)
	group.DELETE("/purchase-orders/:id", h.Delete)
	group.POST("/purchase-orders/:id/lines", h.AddLine)
	group.POST("/purchase-orders/:id/place", h.Place)
	group.POST("/purchase-orders/:id/receipts", h.ProcessReceipt)
	group.POST("/purchase-orders/:id/receipts/undo", h.UndoReceipt)
}

// Create creates a new purchase order with optional initial lines
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	appReq := purchasingapp.CreatePurchaseOrderRequest{
		SupplierID: supplierID,
	}

	if req.ID != nil {
		orderID, err := uuid.Parse(*req.ID)
		if err != nil {
			h.BadRequest(c, "Invalid order ID format")
			return
		}
		appReq.ID = &orderID
	}

	for _, line := range req.Lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID format")
			return
		}
		appReq.Lines = append(appReq.Lines, purchasingapp.AddLineInput{
			ProductID: productID,
			Quantity:  decimal.NewFromFloat(line.Quantity),
		})
	}

	order, err := h.orderService.Create(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID retrieves a purchase order by its ID
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// GetLine retrieves the ordering line for a specific product
func (h *PurchaseOrderHandler) GetLine(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	line, err := h.orderService.GetLine(c.Request.Context(), orderID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, line)
}

// List retrieves purchase orders with filtering and pagination
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var req ListPurchaseOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := purchasingapp.PurchaseOrderListFilter{
		Placed:   req.Placed,
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}

	if req.SupplierID != nil {
		supplierID, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID format")
			return
		}
		filter.SupplierID = &supplierID
	}

	if req.StartDate != nil {
		start, err := time.Parse(time.RFC3339, *req.StartDate)
		if err != nil {
			h.BadRequest(c, "Invalid start date format, expected RFC3339")
			return
		}
		filter.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			h.BadRequest(c, "Invalid end date format, expected RFC3339")
			return
		}
		filter.EndDate = &end
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// Delete deletes a purchase order that has not been placed yet
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), orderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// AddLine adds an ordering line to a purchase order
func (h *PurchaseOrderHandler) AddLine(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	order, err := h.orderService.AddLine(c.Request.Context(), orderID, purchasingapp.AddLineRequest{
		ProductID: productID,
		Quantity:  decimal.NewFromFloat(req.Quantity),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Place places a purchase order with its supplier
func (h *PurchaseOrderHandler) Place(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Place(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// ProcessReceipt reconciles a goods receipt against the order
func (h *PurchaseOrderHandler) ProcessReceipt(c *gin.Context) {
	h.handleReceipt(c, h.orderService.ProcessReceipt)
}

// UndoReceipt rolls back a previously processed goods receipt
func (h *PurchaseOrderHandler) UndoReceipt(c *gin.Context) {
	h.handleReceipt(c, h.orderService.UndoReceipt)
}

func (h *PurchaseOrderHandler) handleReceipt(
	c *gin.Context,
	apply func(ctx context.Context, orderID uuid.UUID, req purchasingapp.ReceiptRequest) (*purchasingapp.ReceiptResultResponse, error),
) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	result, err := apply(c.Request.Context(), orderID, purchasingapp.ReceiptRequest{
		ProductID: productID,
		Quantity:  decimal.NewFromFloat(req.Quantity),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// parseOrderID extracts and validates the order ID path parameter
func (h *PurchaseOrderHandler) parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return uuid.Nil, false
	}
	return orderID, true
}
