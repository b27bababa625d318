package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"routesync/internal/adapters/out/postgres/orderrepo"
	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/order"
	"routesync/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite exercises the order repository against a
// real PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	loc, err := kernel.NewLocation(40.7128, -74.0060)
	suite.Require().NoError(err)

	testOrder := suite.restoreOrder("ORD-1001", "BC-1001", &loc, order.Assigned, &driverID)
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())
	suite.Equal("ORD-1001", retrieved.OrderNumber())
	suite.Equal("BC-1001", retrieved.Barcode())
	suite.Equal(order.Assigned, retrieved.Status())
	suite.Require().NotNil(retrieved.Location())
	suite.InDelta(40.7128, retrieved.Location().Latitude(), 1e-9)
	suite.Require().NotNil(retrieved.Driver())
	suite.True(retrieved.Driver().IsEqual(driverID))
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().Error(err)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByReference_ResolvesAllReferenceKinds() {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	testOrder := suite.restoreOrder("ORD-2002", "BC-2002", nil, order.Assigned, &driverID)
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Run("by order number", func() {
		got, err := suite.repository.GetByReference(ctx, "ORD-2002")
		suite.Require().NoError(err)
		suite.Equal(testOrder.ID(), got.ID())
	})

	suite.Run("by barcode", func() {
		got, err := suite.repository.GetByReference(ctx, "BC-2002")
		suite.Require().NoError(err)
		suite.Equal(testOrder.ID(), got.ID())
	})

	suite.Run("by order id", func() {
		got, err := suite.repository.GetByReference(ctx, testOrder.ID().String())
		suite.Require().NoError(err)
		suite.Equal(testOrder.ID(), got.ID())
	})

	suite.Run("unknown reference", func() {
		_, err := suite.repository.GetByReference(ctx, "NOPE-404")
		var notFoundErr *errs.ObjectNotFoundError
		suite.Require().ErrorAs(err, &notFoundErr)
	})
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsStatusChange() {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	testOrder := suite.restoreOrder("ORD-3003", "", nil, order.Assigned, &driverID)
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	_, err := testOrder.ChangeStatus(order.PickedUp, driverID, "picked up")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.PickedUp, retrieved.Status())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	driverID := kernel.NewUUID()
	ghost := suite.restoreOrder("ORD-4004", "", nil, order.Assigned, &driverID)

	err := suite.repository.Update(context.Background(), ghost)

	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllForDriver_FiltersByStatus() {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	otherDriver := kernel.NewUUID()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(4)
	suite.Require().NoError(suite.repository.Add(ctx,
		suite.restoreOrder("ORD-A", "", nil, order.Assigned, &driverID)))
	suite.Require().NoError(suite.repository.Add(ctx,
		suite.restoreOrder("ORD-B", "", nil, order.InTransit, &driverID)))
	suite.Require().NoError(suite.repository.Add(ctx,
		suite.restoreOrder("ORD-C", "", nil, order.Delivered, &driverID)))
	suite.Require().NoError(suite.repository.Add(ctx,
		suite.restoreOrder("ORD-D", "", nil, order.Assigned, &otherDriver)))

	open, err := suite.repository.GetAllForDriver(ctx, driverID,
		order.Assigned, order.PickedUp, order.InTransit)
	suite.Require().NoError(err)
	suite.Len(open, 2)
	for _, o := range open {
		suite.True(o.Driver().IsEqual(driverID))
		suite.NotEqual(order.Delivered, o.Status())
	}

	all, err := suite.repository.GetAllForDriver(ctx, driverID)
	suite.Require().NoError(err)
	suite.Len(all, 3)
}

func (suite *OrderRepositoryIntegrationTestSuite) restoreOrder(
	number string,
	barcode string,
	loc *kernel.Location,
	status order.Status,
	driverID *kernel.UUID,
) *order.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	o, err := order.RestoreOrder(
		kernel.NewUUID(), number, barcode, "Test Customer", "555-0100", "",
		"1 Depot Way", "99 Elm Street", loc,
		order.PriorityNormal, status, driverID,
		"", now, now,
	)
	suite.Require().NoError(err)
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
