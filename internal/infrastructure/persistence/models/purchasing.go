package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/procure/backend/internal/domain/purchasing"
	"github.com/procure/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	AggregateModel
	SupplierID uuid.UUID                `gorm:"type:uuid;not null;index"`
	Placed     bool                     `gorm:"not null;default:false;index"`
	Lines      []PurchaseOrderLineModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder aggregate
func (m *PurchaseOrderModel) ToDomain() *purchasing.PurchaseOrder {
	lines := make([]purchasing.Line, len(m.Lines))
	for i, line := range m.Lines {
		lines[i] = line.ToDomain()
	}
	return purchasing.ReconstitutePurchaseOrder(
		m.ID,
		m.SupplierID,
		m.Placed,
		lines,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// FromDomain populates the persistence model from a domain PurchaseOrder aggregate
func (m *PurchaseOrderModel) FromDomain(o *purchasing.PurchaseOrder) {
	m.ID = o.PurchaseOrderID()
	m.CreatedAt = o.GetCreatedAt()
	m.UpdatedAt = o.GetUpdatedAt()
	m.Version = o.GetVersion()
	m.SupplierID = o.SupplierID()
	m.Placed = o.IsPlaced()

	lines := o.Lines()
	m.Lines = make([]PurchaseOrderLineModel, len(lines))
	for i, line := range lines {
		m.Lines[i] = *PurchaseOrderLineModelFromDomain(o.PurchaseOrderID(), line)
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder aggregate
func PurchaseOrderModelFromDomain(o *purchasing.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}

// PurchaseOrderLineModel is the persistence model for the Line entity.
// Lines are identified by their order and line number; they carry no
// identity of their own.
type PurchaseOrderLineModel struct {
	OrderID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LineNumber       int             `gorm:"primaryKey;autoIncrement:false"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLineModel) TableName() string {
	return "purchase_order_lines"
}

// ToDomain converts the persistence model to a domain Line entity.
// Ordered quantities are strictly positive at write time, so rebuilding
// the value object cannot fail.
func (m *PurchaseOrderLineModel) ToDomain() purchasing.Line {
	return purchasing.ReconstituteLine(
		m.LineNumber,
		m.ProductID,
		valueobject.MustNewOrderedQuantity(m.OrderedQuantity),
		m.ReceivedQuantity,
	)
}

// PurchaseOrderLineModelFromDomain creates a new persistence model from a domain Line entity
func PurchaseOrderLineModelFromDomain(orderID uuid.UUID, line purchasing.Line) *PurchaseOrderLineModel {
	return &PurchaseOrderLineModel{
		OrderID:          orderID,
		LineNumber:       line.LineNumber(),
		ProductID:        line.ProductID(),
		OrderedQuantity:  line.OrderedQuantity().Amount(),
		ReceivedQuantity: line.ReceivedQuantity(),
	}
}
