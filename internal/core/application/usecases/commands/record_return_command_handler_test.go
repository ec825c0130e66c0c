package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/services"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/billing"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

type MockUsageRepository struct{ mock.Mock }

func (m *MockUsageRepository) Add(ctx context.Context, record *billing.UsageRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockUsageRepository) ExistsForReference(
	_ context.Context, _, _ string, _ []string,
) (bool, error) {
	return false, errors.New("not implemented in mock")
}

type MockUsageUoW struct{ mock.Mock }

func (m *MockUsageUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUsageUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUsageUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUsageUoW) UsageRepository() ports.UsageRepository {
	args := m.Called()
	return args.Get(0).(ports.UsageRepository)
}

type MockUsageUoWFactory struct{ mock.Mock }

func (m *MockUsageUoWFactory) Create() services.UsageUoW {
	args := m.Called()
	return args.Get(0).(services.UsageUoW)
}

type recordReturnFixture struct {
	handler     commands.RecordReturnCommandHandler
	orderRepo   *MockDeleteOrderRepository
	stockRepo   *MockStockRepository
	stockTxRepo *MockStockTxRepository
	usageRepo   *MockUsageRepository
}

func newRecordReturnFixture() *recordReturnFixture {
	f := &recordReturnFixture{
		orderRepo:   new(MockDeleteOrderRepository),
		stockRepo:   new(MockStockRepository),
		stockTxRepo: new(MockStockTxRepository),
		usageRepo:   new(MockUsageRepository),
	}

	orderUoW := new(MockCreateOrderUoW)
	orderUoW.On("OrderRepository").Return(f.orderRepo)
	orderFactory := new(MockCreateOrderUoWFactory)
	orderFactory.On("Create").Return(orderUoW)

	stockUoW := new(MockStockUoW)
	stockUoW.On("Begin", mock.Anything).Return(nil)
	stockUoW.On("Commit", mock.Anything).Return(nil).Maybe()
	stockUoW.On("Rollback", mock.Anything).Return(nil)
	stockUoW.On("InventoryRepository").Return(f.stockRepo)
	stockUoW.On("InventoryTransactionRepository").Return(f.stockTxRepo).Maybe()
	stockFactory := new(MockStockUoWFactory)
	stockFactory.On("Create").Return(stockUoW)

	usageUoW := new(MockUsageUoW)
	usageUoW.On("Begin", mock.Anything).Return(nil).Maybe()
	usageUoW.On("Commit", mock.Anything).Return(nil).Maybe()
	usageUoW.On("Rollback", mock.Anything).Return(nil).Maybe()
	usageUoW.On("UsageRepository").Return(f.usageRepo).Maybe()
	usageFactory := new(MockUsageUoWFactory)
	usageFactory.On("Create").Return(usageUoW).Maybe()

	recorder := services.NewUsageRecorder(usageFactory, billing.DefaultRateCard(), testLogger())
	f.handler = commands.NewRecordReturnCommandHandler(
		orderFactory, services.NewLedger(stockFactory), recorder,
	)
	return f
}

func newShippedItems(t *testing.T, productID kernel.UUID) []*order.Item {
	t.Helper()
	item, err := order.RestoreItem(kernel.NewUUID(), productID, 2, 2)
	require.NoError(t, err)
	return []*order.Item{item}
}

func newRecordReturnCommand(t *testing.T, orderID, productID kernel.UUID) commands.RecordReturnCommand {
	t.Helper()
	cmd, err := commands.NewRecordReturnCommand(
		kernel.NewUUID(), orderID, productID, 2, kernel.NewUUID(), inventory.StageStorage, "clerk-1",
	)
	require.NoError(t, err)
	return cmd
}

func TestRecordReturnCommandHandler_Handle_ClientOrderRestocksAndBills(t *testing.T) {
	ctx := t.Context()
	f := newRecordReturnFixture()
	productID := kernel.NewUUID()

	o := restoreTestOrder(t, order.Shipped, true, newShippedItems(t, productID))
	cmd := newRecordReturnCommand(t, o.ID(), productID)

	record, err := inventory.RestoreRecord(
		kernel.NewUUID(), productID, cmd.LocationID(), inventory.StageStorage, 5, 0,
	)
	require.NoError(t, err)

	f.orderRepo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	f.stockRepo.On("GetForUpdate", mock.Anything, productID, cmd.LocationID(), inventory.StageStorage).
		Return(record, nil).Once()
	f.stockRepo.On("Update", mock.Anything, record).Return(nil).Once()
	f.stockTxRepo.On("Append", mock.Anything, mock.AnythingOfType("*inventory.Transaction")).Return(nil).Once()
	f.usageRepo.On("Add", mock.Anything, mock.AnythingOfType("*billing.UsageRecord")).Return(nil).Once()

	require.NoError(t, f.handler.Handle(ctx, cmd))

	assert.Equal(t, 7, record.QtyOnHand())

	appended := f.stockTxRepo.Calls[0].Arguments.Get(1).(*inventory.Transaction)
	assert.Equal(t, inventory.TransactionReturnRestock, appended.Kind())
	assert.Equal(t, 2, appended.QtyChange())
	assert.Equal(t, "return", appended.RefType())
	assert.Equal(t, cmd.ReturnID().String(), appended.RefID())

	billed := f.usageRepo.Calls[0].Arguments.Get(1).(*billing.UsageRecord)
	assert.Equal(t, billing.RateCodeReturnHandling, billed.RateCode())
	assert.Equal(t, 1, billed.Quantity())
	assert.Equal(t, *o.ClientID(), billed.ClientID())
	assert.Equal(t, "return", billed.RefType())
	assert.Equal(t, cmd.ReturnID().String(), billed.RefID())
	assert.Equal(t, "6.75", billed.Total().StringFixed(2))
}

func TestRecordReturnCommandHandler_Handle_DuplicateUsageIsNotAnError(t *testing.T) {
	ctx := t.Context()
	f := newRecordReturnFixture()
	productID := kernel.NewUUID()

	o := restoreTestOrder(t, order.Shipped, true, newShippedItems(t, productID))
	cmd := newRecordReturnCommand(t, o.ID(), productID)

	record, err := inventory.RestoreRecord(
		kernel.NewUUID(), productID, cmd.LocationID(), inventory.StageStorage, 5, 0,
	)
	require.NoError(t, err)

	f.orderRepo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	f.stockRepo.On("GetForUpdate", mock.Anything, productID, cmd.LocationID(), inventory.StageStorage).
		Return(record, nil).Once()
	f.stockRepo.On("Update", mock.Anything, record).Return(nil).Once()
	f.stockTxRepo.On("Append", mock.Anything, mock.AnythingOfType("*inventory.Transaction")).Return(nil).Once()
	f.usageRepo.On("Add", mock.Anything, mock.AnythingOfType("*billing.UsageRecord")).
		Return(ports.ErrDuplicateUsage).Once()

	require.NoError(t, f.handler.Handle(ctx, cmd))
}

func TestRecordReturnCommandHandler_Handle_InternalOrderSkipsBilling(t *testing.T) {
	ctx := t.Context()
	f := newRecordReturnFixture()

	o := deleteTestOrder(t, 0)
	productID := o.Items()[0].ProductID()
	cmd := newRecordReturnCommand(t, o.ID(), productID)

	record, err := inventory.RestoreRecord(
		kernel.NewUUID(), productID, cmd.LocationID(), inventory.StageStorage, 5, 0,
	)
	require.NoError(t, err)

	f.orderRepo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	f.stockRepo.On("GetForUpdate", mock.Anything, productID, cmd.LocationID(), inventory.StageStorage).
		Return(record, nil).Once()
	f.stockRepo.On("Update", mock.Anything, record).Return(nil).Once()
	f.stockTxRepo.On("Append", mock.Anything, mock.AnythingOfType("*inventory.Transaction")).Return(nil).Once()

	require.NoError(t, f.handler.Handle(ctx, cmd))

	assert.Equal(t, 7, record.QtyOnHand())
	f.usageRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestNewRecordReturnCommand_InvalidInput(t *testing.T) {
	t.Run("should reject non-positive quantity", func(t *testing.T) {
		_, err := commands.NewRecordReturnCommand(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 0,
			kernel.NewUUID(), inventory.StageStorage, "clerk",
		)
		require.ErrorIs(t, err, commands.ErrReturnQtyIsInvalid)
	})

	t.Run("should reject missing actor", func(t *testing.T) {
		_, err := commands.NewRecordReturnCommand(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 1,
			kernel.NewUUID(), inventory.StageStorage, "",
		)
		require.ErrorIs(t, err, commands.ErrActorIsRequired)
	})
}
