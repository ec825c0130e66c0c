package postgres_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/activityrepo"
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/usagerepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration tests for the GORM
// unit of work, verifying that the order row, its audit entry, and the
// enqueued outbox tasks commit or roll back as one.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Get connection string and connect to database
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Auto-migrate the schema
	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&inventoryrepo.RecordDTO{},
		&inventoryrepo.TransactionDTO{},
		&usagerepo.UsageRecordDTO{},
		&activityrepo.StatusChangeDTO{},
		&outboxrepo.TaskDTO{},
	))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	// Clean the database before each test
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, inventory, inventory_transactions, usage_records, activity_log, outbox_tasks").Error)

	// Create a fresh factory for each test
	suite.factory = postgres.NewGormUnitOfWorkFactory(suite.db)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin_ReturnsError() {
	uow := suite.factory.Create()

	err := uow.Commit(context.Background())
	suite.Require().ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_WithoutBegin_ReturnsNil() {
	uow := suite.factory.Create()

	// Deferred rollback after a successful commit lands here
	suite.Require().NoError(uow.Rollback(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_CalledTwice_KeepsTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createTestOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	suite.assertOrderCount(1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAllRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder()
	task := suite.createTestTask(testOrder.ID())
	entry := suite.createTestStatusChange(testOrder.ID())

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.ActivityLogRepository().Append(ctx, entry))
	suite.Require().NoError(uow.OutboxRepository().Add(ctx, task))
	suite.Require().NoError(uow.Commit(ctx))

	suite.assertOrderCount(1)
	suite.assertActivityLogCount(1)
	suite.assertOutboxTaskCount(1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAllRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder()
	task := suite.createTestTask(testOrder.ID())
	entry := suite.createTestStatusChange(testOrder.ID())

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.ActivityLogRepository().Append(ctx, entry))
	suite.Require().NoError(uow.OutboxRepository().Add(ctx, task))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.assertOrderCount(0)
	suite.assertActivityLogCount(0)
	suite.assertOutboxTaskCount(0)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestIsolation_UncommittedChangesAreInvisible() {
	ctx := context.Background()
	writer := suite.factory.Create()
	reader := suite.factory.Create()

	testOrder := suite.createTestOrder()

	suite.Require().NoError(writer.Begin(ctx))
	suite.Require().NoError(writer.OrderRepository().Add(ctx, testOrder))

	// The second unit of work must not see the uncommitted order
	_, err := reader.OrderRepository().Get(ctx, testOrder.ID())
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.Require().NoError(writer.Commit(ctx))

	retrieved, err := reader.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRepositories_OutsideTransaction_UseBareConnection() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// No Begin: the write lands directly on the connection
	testOrder := suite.createTestOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	suite.assertOrderCount(1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSequentialTransactions_OnOneInstance() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// First transaction rolls back
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.createTestOrder()))
	suite.Require().NoError(uow.Rollback(ctx))

	// Second transaction on the same instance commits
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.createTestOrder()))
	suite.Require().NoError(uow.Commit(ctx))

	suite.assertOrderCount(1)
}

// createTestOrder creates a pending order with a single item.
func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder() *order.Order {
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 2)
	suite.Require().NoError(err)

	clientID := kernel.NewUUID()
	testOrder, err := order.NewOrder(
		kernel.NewUUID(),
		"ORD-"+kernel.NewUUID().String()[:8],
		&clientID,
		"1 Warehouse Way",
		false,
		false,
		[]*order.Item{item},
	)
	suite.Require().NoError(err)

	return testOrder
}

// createTestTask creates a pending confirmation-email task for the order.
func (suite *UnitOfWorkIntegrationTestSuite) createTestTask(orderID kernel.UUID) *outbox.Task {
	task, err := outbox.NewTask(
		kernel.NewUUID(),
		outbox.KindOrderConfirmedEmail,
		map[string]any{"order_id": orderID.String()},
		time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return task
}

// createTestStatusChange creates an audit entry for the order.
func (suite *UnitOfWorkIntegrationTestSuite) createTestStatusChange(orderID kernel.UUID) ports.StatusChange {
	return ports.StatusChange{
		ID:             kernel.NewUUID(),
		OrderID:        orderID,
		PreviousStatus: order.Pending.String(),
		NewStatus:      order.Confirmed.String(),
		Actor:          "worker@warehouse",
		Context:        map[string]any{"location_id": kernel.NewUUID().String()},
		OccurredAt:     time.Now().UTC(),
	}
}

// assertOrderCount verifies the number of orders in the database.
func (suite *UnitOfWorkIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

// assertActivityLogCount verifies the number of audit entries in the database.
func (suite *UnitOfWorkIntegrationTestSuite) assertActivityLogCount(expected int) {
	var count int64
	err := suite.db.Model(&activityrepo.StatusChangeDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

// assertOutboxTaskCount verifies the number of outbox tasks in the database.
func (suite *UnitOfWorkIntegrationTestSuite) assertOutboxTaskCount(expected int) {
	var count int64
	err := suite.db.Model(&outboxrepo.TaskDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
