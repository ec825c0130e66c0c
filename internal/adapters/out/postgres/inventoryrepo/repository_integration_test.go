package inventoryrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InventoryRepositoryIntegrationTestSuite provides integration tests for the
// inventory repositories using PostgreSQL containers, including the row
// locking that serializes concurrent reservations against the same key.
type InventoryRepositoryIntegrationTestSuite struct {
	suite.Suite
	container             *postgres.PostgresContainer
	db                    *gorm.DB
	inventoryRepository   *inventoryrepo.GormInventoryRepository
	transactionRepository *inventoryrepo.GormInventoryTransactionRepository
}

func (suite *InventoryRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
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
		&inventoryrepo.RecordDTO{},
		&inventoryrepo.TransactionDTO{},
	))
}

func (suite *InventoryRepositoryIntegrationTestSuite) SetupTest() {
	// Clean the database before each test
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE inventory, inventory_transactions").Error)

	// Create fresh repositories for each test
	suite.inventoryRepository = inventoryrepo.NewGormInventoryRepository(suite.db)
	suite.transactionRepository = inventoryrepo.NewGormInventoryTransactionRepository(suite.db)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestAdd_ValidRecord_Success() {
	ctx := context.Background()

	record := suite.createTestRecord(10, 3)

	err := suite.inventoryRepository.Add(ctx, record)
	suite.Require().NoError(err)

	suite.assertRecordCount(1)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestAdd_DuplicateKey_ReturnsError() {
	ctx := context.Background()

	productID := kernel.NewUUID()
	locationID := kernel.NewUUID()

	first, err := inventory.RestoreRecord(
		kernel.NewUUID(), productID, locationID, inventory.StageStorage, 10, 0)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.inventoryRepository.Add(ctx, first))

	// Same (product, location, stage) key under a different row id
	second, err := inventory.RestoreRecord(
		kernel.NewUUID(), productID, locationID, inventory.StageStorage, 5, 0)
	suite.Require().NoError(err)

	err = suite.inventoryRepository.Add(ctx, second)
	suite.Require().Error(err)
	suite.assertRecordCount(1)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestAdd_SameProductDifferentStage_KeepsSeparateBalances() {
	ctx := context.Background()

	productID := kernel.NewUUID()
	locationID := kernel.NewUUID()

	receiving, err := inventory.RestoreRecord(
		kernel.NewUUID(), productID, locationID, inventory.StageReceiving, 4, 0)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.inventoryRepository.Add(ctx, receiving))

	storage, err := inventory.RestoreRecord(
		kernel.NewUUID(), productID, locationID, inventory.StageStorage, 10, 2)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.inventoryRepository.Add(ctx, storage))

	suite.assertRecordCount(2)

	retrieved, err := suite.inventoryRepository.Get(ctx, productID, locationID, inventory.StageReceiving)
	suite.Require().NoError(err)
	suite.Equal(4, retrieved.QtyOnHand())
	suite.Equal(0, retrieved.QtyReserved())

	retrieved, err = suite.inventoryRepository.Get(ctx, productID, locationID, inventory.StageStorage)
	suite.Require().NoError(err)
	suite.Equal(10, retrieved.QtyOnHand())
	suite.Equal(2, retrieved.QtyReserved())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestGet_ExistingRecord_ReturnsBalances() {
	ctx := context.Background()

	original := suite.createTestRecord(25, 7)
	suite.Require().NoError(suite.inventoryRepository.Add(ctx, original))

	retrieved, err := suite.inventoryRepository.Get(
		ctx, original.ProductID(), original.LocationID(), original.Stage())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.ProductID(), retrieved.ProductID())
	suite.Equal(original.LocationID(), retrieved.LocationID())
	suite.Equal(original.Stage(), retrieved.Stage())
	suite.Equal(25, retrieved.QtyOnHand())
	suite.Equal(7, retrieved.QtyReserved())
	suite.Equal(18, retrieved.QtyAvailable())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestGet_NonExistentKey_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.inventoryRepository.Get(
		ctx, kernel.NewUUID(), kernel.NewUUID(), inventory.StageStorage)

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestUpdate_PersistsChangedBalances() {
	ctx := context.Background()

	record := suite.createTestRecord(10, 0)
	suite.Require().NoError(suite.inventoryRepository.Add(ctx, record))

	suite.Require().NoError(record.Reserve(6))
	suite.Require().NoError(suite.inventoryRepository.Update(ctx, record))

	retrieved, err := suite.inventoryRepository.Get(
		ctx, record.ProductID(), record.LocationID(), record.Stage())
	suite.Require().NoError(err)
	suite.Equal(10, retrieved.QtyOnHand())
	suite.Equal(6, retrieved.QtyReserved())
	suite.Equal(4, retrieved.QtyAvailable())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestUpdate_NonExistentRecord_ReturnsNotFoundError() {
	ctx := context.Background()

	record := suite.createTestRecord(10, 0)

	err := suite.inventoryRepository.Update(ctx, record)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

// TestGetForUpdate_ConcurrentReservations verifies that the row lock
// serializes two transactions reserving against the same key: the second
// transaction reads the balance only after the first commits, so it sees the
// reservation and fails instead of overselling.
func (suite *InventoryRepositoryIntegrationTestSuite) TestGetForUpdate_ConcurrentReservations() {
	ctx := context.Background()

	record := suite.createTestRecord(10, 0)
	suite.Require().NoError(suite.inventoryRepository.Add(ctx, record))

	// First transaction locks the row and reserves 6 of 10
	tx1 := suite.db.Begin()
	suite.Require().NoError(tx1.Error)
	repo1 := inventoryrepo.NewGormInventoryRepository(tx1)

	locked, err := repo1.GetForUpdate(ctx, record.ProductID(), record.LocationID(), record.Stage())
	suite.Require().NoError(err)
	suite.Require().NoError(locked.Reserve(6))
	suite.Require().NoError(repo1.Update(ctx, locked))

	// Second transaction tries to reserve 6 of the same stock; GetForUpdate
	// blocks on the row lock until the first transaction commits
	secondErr := make(chan error, 1)
	go func() {
		tx2 := suite.db.Begin()
		if tx2.Error != nil {
			secondErr <- tx2.Error
			return
		}
		defer tx2.Rollback()

		repo2 := inventoryrepo.NewGormInventoryRepository(tx2)
		contended, err := repo2.GetForUpdate(ctx, record.ProductID(), record.LocationID(), record.Stage())
		if err != nil {
			secondErr <- err
			return
		}
		if err := contended.Reserve(6); err != nil {
			secondErr <- err
			return
		}
		if err := repo2.Update(ctx, contended); err != nil {
			secondErr <- err
			return
		}
		secondErr <- tx2.Commit().Error
	}()

	// Give the second transaction time to block on the lock, then commit
	time.Sleep(200 * time.Millisecond)
	suite.Require().NoError(tx1.Commit().Error)

	select {
	case err := <-secondErr:
		suite.Require().ErrorIs(err, inventory.ErrInsufficientAvailable)
	case <-time.After(10 * time.Second):
		suite.Fail("second transaction did not finish after the lock was released")
	}

	// Only the first reservation landed
	retrieved, err := suite.inventoryRepository.Get(
		ctx, record.ProductID(), record.LocationID(), record.Stage())
	suite.Require().NoError(err)
	suite.Equal(10, retrieved.QtyOnHand())
	suite.Equal(6, retrieved.QtyReserved())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestAppend_PersistsLedgerEntry() {
	ctx := context.Background()

	record := suite.createTestRecord(10, 0)
	suite.Require().NoError(suite.inventoryRepository.Add(ctx, record))

	transaction, err := inventory.NewTransaction(
		kernel.NewUUID(),
		record.ProductID(),
		record.LocationID(),
		record.Stage(),
		inventory.TransactionReserve,
		6,
		"order",
		kernel.NewUUID().String(),
		"worker@warehouse",
		time.Now().UTC(),
	)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.transactionRepository.Append(ctx, transaction))

	var count int64
	suite.Require().NoError(suite.db.Model(&inventoryrepo.TransactionDTO{}).
		Where("ref_type = ? AND ref_id = ?", transaction.RefType(), transaction.RefID()).
		Count(&count).Error)
	suite.Equal(int64(1), count)
}

// createTestRecord creates a storage-stage record with the given balances.
func (suite *InventoryRepositoryIntegrationTestSuite) createTestRecord(onHand, reserved int) *inventory.Record {
	record, err := inventory.RestoreRecord(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		inventory.StageStorage,
		onHand,
		reserved,
	)
	suite.Require().NoError(err)
	return record
}

// assertRecordCount verifies the number of inventory records in the database.
func (suite *InventoryRepositoryIntegrationTestSuite) assertRecordCount(expected int) {
	var count int64
	err := suite.db.Model(&inventoryrepo.RecordDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestInventoryRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryRepositoryIntegrationTestSuite))
}
