package purchasing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/procure/backend/internal/domain/purchasing"
	"github.com/procure/backend/internal/domain/shared"
	"github.com/procure/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPurchaseOrderRepository is a mock implementation of PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindPlaced(ctx context.Context, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLockAndEvents(ctx context.Context, order *purchasing.PurchaseOrder, events []shared.DomainEvent) error {
	args := m.Called(ctx, order, events)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).(int64), args.Error(1)
}

// Test helpers
var (
	testSupplierID = uuid.New()
	testProductID  = uuid.New()
	testOrderID    = uuid.New()
)

func createTestOrder() *purchasing.PurchaseOrder {
	return purchasing.NewPurchaseOrder(testOrderID, testSupplierID)
}

func createTestOrderWithLine(t *testing.T) *purchasing.PurchaseOrder {
	t.Helper()
	order := createTestOrder()
	qty, err := valueobject.NewOrderedQuantityFromFloat(10)
	require.NoError(t, err)
	require.NoError(t, order.AddLine(testProductID, qty))
	return order
}

func createPlacedOrder(t *testing.T) *purchasing.PurchaseOrder {
	t.Helper()
	order := createTestOrderWithLine(t)
	require.NoError(t, order.Place())
	order.PullDomainEvents()
	return order
}

func TestPurchaseOrderService_Create(t *testing.T) {
	t.Run("creates order successfully", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		repo.On("Save", mock.Anything, mock.AnythingOfType("*purchasing.PurchaseOrder")).Return(nil)

		req := CreatePurchaseOrderRequest{
			SupplierID: testSupplierID,
			Lines: []AddLineInput{
				{ProductID: testProductID, Quantity: decimal.NewFromInt(5)},
			},
		}

		result, err := service.Create(ctx, req)

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, testSupplierID, result.SupplierID)
		assert.Equal(t, 1, result.LineCount)
		assert.False(t, result.Placed)
		assert.Equal(t, 1, result.Version)
		repo.AssertExpectations(t)
	})

	t.Run("uses client-supplied identity when provided", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		repo.On("Save", mock.Anything, mock.AnythingOfType("*purchasing.PurchaseOrder")).Return(nil)

		orderID := uuid.New()
		req := CreatePurchaseOrderRequest{ID: &orderID, SupplierID: testSupplierID}

		result, err := service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, orderID, result.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects non-positive line quantity", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		req := CreatePurchaseOrderRequest{
			SupplierID: testSupplierID,
			Lines: []AddLineInput{
				{ProductID: testProductID, Quantity: decimal.Zero},
			},
		}

		result, err := service.Create(ctx, req)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, valueobject.ErrNonPositiveQuantity)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects duplicate products", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		req := CreatePurchaseOrderRequest{
			SupplierID: testSupplierID,
			Lines: []AddLineInput{
				{ProductID: testProductID, Quantity: decimal.NewFromInt(5)},
				{ProductID: testProductID, Quantity: decimal.NewFromInt(3)},
			},
		}

		result, err := service.Create(ctx, req)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, purchasing.ErrDuplicateProduct)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestPurchaseOrderService_GetByID(t *testing.T) {
	t.Run("returns order", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createTestOrderWithLine(t)
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)

		result, err := service.GetByID(ctx, order.PurchaseOrderID())

		assert.NoError(t, err)
		assert.Equal(t, order.PurchaseOrderID(), result.ID)
		assert.Len(t, result.Lines, 1)
		assert.Equal(t, 1, result.Lines[0].LineNumber)
		repo.AssertExpectations(t)
	})

	t.Run("propagates not found", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		result, err := service.GetByID(ctx, uuid.New())

		assert.Nil(t, result)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestPurchaseOrderService_GetLine(t *testing.T) {
	t.Run("returns line for ordered product", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createTestOrderWithLine(t)
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)

		line, err := service.GetLine(ctx, order.PurchaseOrderID(), testProductID)

		assert.NoError(t, err)
		assert.Equal(t, 1, line.LineNumber)
		assert.Equal(t, testProductID, line.ProductID)
		repo.AssertExpectations(t)
	})

	t.Run("fails for product the order never listed", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createTestOrderWithLine(t)
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)

		line, err := service.GetLine(ctx, order.PurchaseOrderID(), uuid.New())

		assert.Nil(t, line)
		assert.ErrorIs(t, err, purchasing.ErrLineNotFound)
	})
}

func TestPurchaseOrderService_AddLine(t *testing.T) {
	t.Run("adds line and saves with lock", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createTestOrderWithLine(t)
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)
		repo.On("SaveWithLock", mock.Anything, order).Return(nil)

		req := AddLineRequest{ProductID: uuid.New(), Quantity: decimal.NewFromInt(3)}
		result, err := service.AddLine(ctx, order.PurchaseOrderID(), req)

		assert.NoError(t, err)
		assert.Equal(t, 2, result.LineCount)
		assert.Equal(t, 2, result.Lines[1].LineNumber)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate product", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createTestOrderWithLine(t)
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)

		req := AddLineRequest{ProductID: testProductID, Quantity: decimal.NewFromInt(3)}
		result, err := service.AddLine(ctx, order.PurchaseOrderID(), req)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, purchasing.ErrDuplicateProduct)
		repo.AssertNotCalled(t, "SaveWithLock")
	})
}

func TestPurchaseOrderService_Place(t *testing.T) {
	t.Run("places order and saves events", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createTestOrderWithLine(t)
		var savedEvents []shared.DomainEvent
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)
		repo.On("SaveWithLockAndEvents", mock.Anything, order, mock.Anything).
			Run(func(args mock.Arguments) {
				savedEvents = args.Get(2).([]shared.DomainEvent)
			}).
			Return(nil)

		result, err := service.Place(ctx, order.PurchaseOrderID())

		assert.NoError(t, err)
		assert.True(t, result.Placed)
		require.Len(t, savedEvents, 1)
		assert.Equal(t, purchasing.EventTypePurchaseOrderPlaced, savedEvents[0].EventType())
		repo.AssertExpectations(t)
	})

	t.Run("rejects empty order", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createTestOrder()
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)

		result, err := service.Place(ctx, order.PurchaseOrderID())

		assert.Nil(t, result)
		assert.ErrorIs(t, err, purchasing.ErrEmptyOrder)
		repo.AssertNotCalled(t, "SaveWithLockAndEvents")
	})

	t.Run("rejects already placed order", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createPlacedOrder(t)
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)

		result, err := service.Place(ctx, order.PurchaseOrderID())

		assert.Nil(t, result)
		assert.ErrorIs(t, err, purchasing.ErrAlreadyPlaced)
	})
}

func TestPurchaseOrderService_ProcessReceipt(t *testing.T) {
	t.Run("records receipt and reports delivery state", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createPlacedOrder(t)
		var savedEvents []shared.DomainEvent
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)
		repo.On("SaveWithLockAndEvents", mock.Anything, order, mock.Anything).
			Run(func(args mock.Arguments) {
				savedEvents = args.Get(2).([]shared.DomainEvent)
			}).
			Return(nil)

		req := ReceiptRequest{ProductID: testProductID, Quantity: decimal.NewFromInt(10)}
		result, err := service.ProcessReceipt(ctx, order.PurchaseOrderID(), req)

		assert.NoError(t, err)
		assert.True(t, result.FullyDelivered)
		require.Len(t, savedEvents, 1)
		assert.Equal(t, purchasing.EventTypePurchaseOrderCompleted, savedEvents[0].EventType())
		repo.AssertExpectations(t)
	})

	t.Run("partial receipt emits no events", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createPlacedOrder(t)
		var savedEvents []shared.DomainEvent
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)
		repo.On("SaveWithLockAndEvents", mock.Anything, order, mock.Anything).
			Run(func(args mock.Arguments) {
				savedEvents = args.Get(2).([]shared.DomainEvent)
			}).
			Return(nil)

		req := ReceiptRequest{ProductID: testProductID, Quantity: decimal.NewFromInt(4)}
		result, err := service.ProcessReceipt(ctx, order.PurchaseOrderID(), req)

		assert.NoError(t, err)
		assert.False(t, result.FullyDelivered)
		assert.Empty(t, savedEvents)
		assert.True(t, result.Order.Lines[0].ReceivedQuantity.Equal(decimal.NewFromInt(4)))
	})

	t.Run("receipt for unknown product is ignored", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createPlacedOrder(t)
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)
		repo.On("SaveWithLockAndEvents", mock.Anything, order, mock.Anything).Return(nil)

		req := ReceiptRequest{ProductID: uuid.New(), Quantity: decimal.NewFromInt(4)}
		result, err := service.ProcessReceipt(ctx, order.PurchaseOrderID(), req)

		assert.NoError(t, err)
		assert.True(t, result.Order.Lines[0].ReceivedQuantity.IsZero())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createPlacedOrder(t)
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)

		req := ReceiptRequest{ProductID: testProductID, Quantity: decimal.NewFromInt(-2)}
		result, err := service.ProcessReceipt(ctx, order.PurchaseOrderID(), req)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, valueobject.ErrNonPositiveQuantity)
		repo.AssertNotCalled(t, "SaveWithLockAndEvents")
	})
}

func TestPurchaseOrderService_UndoReceipt(t *testing.T) {
	t.Run("rolls back receipt and saves reopened event", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createPlacedOrder(t)
		qty, err := valueobject.NewReceiptQuantityFromFloat(10)
		require.NoError(t, err)
		order.ProcessReceipt(testProductID, qty)
		order.PullDomainEvents()

		var savedEvents []shared.DomainEvent
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)
		repo.On("SaveWithLockAndEvents", mock.Anything, order, mock.Anything).
			Run(func(args mock.Arguments) {
				savedEvents = args.Get(2).([]shared.DomainEvent)
			}).
			Return(nil)

		req := ReceiptRequest{ProductID: testProductID, Quantity: decimal.NewFromInt(3)}
		result, err := service.UndoReceipt(ctx, order.PurchaseOrderID(), req)

		assert.NoError(t, err)
		assert.False(t, result.FullyDelivered)
		require.Len(t, savedEvents, 1)
		assert.Equal(t, purchasing.EventTypePurchaseOrderReopened, savedEvents[0].EventType())
		assert.True(t, result.Order.Lines[0].ReceivedQuantity.Equal(decimal.NewFromInt(7)))
	})
}

func TestPurchaseOrderService_Delete(t *testing.T) {
	t.Run("deletes unplaced order", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createTestOrderWithLine(t)
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)
		repo.On("Delete", mock.Anything, order.PurchaseOrderID()).Return(nil)

		err := service.Delete(ctx, order.PurchaseOrderID())

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects deleting placed order", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		order := createPlacedOrder(t)
		repo.On("FindByID", mock.Anything, order.PurchaseOrderID()).Return(order, nil)

		err := service.Delete(ctx, order.PurchaseOrderID())

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		repo.AssertNotCalled(t, "Delete")
	})
}

func TestPurchaseOrderService_List(t *testing.T) {
	t.Run("builds filter and returns list", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		orders := []purchasing.PurchaseOrder{*createTestOrder()}
		placed := true
		var capturedFilter shared.Filter
		repo.On("FindAll", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				capturedFilter = args.Get(1).(shared.Filter)
			}).
			Return(orders, nil)
		repo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

		result, total, err := service.List(ctx, PurchaseOrderListFilter{
			Placed:   &placed,
			Page:     2,
			PageSize: 50,
		})

		assert.NoError(t, err)
		assert.Len(t, result, 1)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, 2, capturedFilter.Page)
		assert.Equal(t, 50, capturedFilter.PageSize)
		assert.Equal(t, true, capturedFilter.Filters["placed"])
	})

	t.Run("scopes list to a supplier", func(t *testing.T) {
		repo := new(MockPurchaseOrderRepository)
		service := NewPurchaseOrderService(repo, nil)
		ctx := context.Background()

		var capturedFilter shared.Filter
		repo.On("FindAll", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				capturedFilter = args.Get(1).(shared.Filter)
			}).
			Return([]purchasing.PurchaseOrder{}, nil)
		repo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

		_, _, err := service.ListBySupplier(ctx, testSupplierID, PurchaseOrderListFilter{})

		assert.NoError(t, err)
		assert.Equal(t, testSupplierID, capturedFilter.Filters["supplier_id"])
	})
}
