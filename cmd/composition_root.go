package cmd

import (
	"log/slog"

	"gorm.io/gorm"

	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/stub"
	"fulfillment/internal/core/application/services"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/billing"
	domainservices "fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
	rateCard   *billing.RateCard

	notifications ports.NotificationService
	alerts        ports.InternalAlertService
	portal        ports.PortalNotificationService
	shopify       ports.ShopifyFulfillmentSync
	pickLists     ports.PickListGenerator
	catalog       ports.ProductCatalog
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:        gormDB,
		uowFactory:    *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:        logger,
		rateCard:      billing.DefaultRateCard(),
		notifications: stub.NewNotificationService(logger),
		alerts:        stub.NewInternalAlertService(logger),
		portal:        stub.NewPortalNotificationService(logger),
		shopify:       stub.NewShopifyFulfillmentSync(logger),
		pickLists:     stub.NewPickListGenerator(logger),
		catalog:       stub.NewProductCatalog(),
	}
}

func (c *CompositionRoot) CreateLedger() *services.Ledger {
	var f services.LedgerUoWFactory = FuncLedgerUoWFactory(func() services.LedgerUoW {
		return c.uowFactory.Create()
	})
	return services.NewLedger(f)
}

func (c *CompositionRoot) CreateReservationService() *services.ReservationService {
	return services.NewReservationService(c.CreateLedger(), c.logger)
}

func (c *CompositionRoot) CreateUsageRecorder() *services.UsageRecorder {
	var f services.UsageUoWFactory = FuncUsageUoWFactory(func() services.UsageUoW {
		return c.uowFactory.Create()
	})
	return services.NewUsageRecorder(f, c.rateCard, c.logger)
}

func (c *CompositionRoot) CreateBoxAssigner() *services.BoxAssigner {
	var f services.BoxAssignUoWFactory = FuncBoxAssignUoWFactory(func() services.BoxAssignUoW {
		return c.uowFactory.Create()
	})
	return services.NewBoxAssigner(
		f, c.CreateUsageRecorder(), c.catalog,
		domainservices.NewBoxAllocator(c.rateCard), c.rateCard, c.logger,
	)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.TransitionUoWFactory = FuncTransitionUoWFactory(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.CreateReservationService())
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDeleteOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateShipItemCommandHandler() commands.ShipItemCommandHandler {
	var f commands.ShipItemUoWFactory = FuncShipItemUoWFactory(func() commands.ShipItemUoW {
		return c.uowFactory.Create()
	})
	return commands.NewShipItemCommandHandler(f, c.CreateLedger())
}

func (c *CompositionRoot) CreateReceiveStockCommandHandler() commands.ReceiveStockCommandHandler {
	return commands.NewReceiveStockCommandHandler(c.CreateLedger())
}

func (c *CompositionRoot) CreateRecordReturnCommandHandler() commands.RecordReturnCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordReturnCommandHandler(f, c.CreateLedger(), c.CreateUsageRecorder())
}

func (c *CompositionRoot) CreateDispatchOutboxCommandHandler() commands.DispatchOutboxCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchOutboxCommandHandler(
		f, c.notifications, c.alerts, c.portal, c.shopify, c.pickLists,
		c.CreateBoxAssigner(), c.CreateUsageRecorder(), c.logger,
	)
}

func (c *CompositionRoot) CreateCheckAvailabilityQueryHandler() queries.CheckAvailabilityQueryHandler {
	return queries.NewCheckAvailabilityQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOpenOrdersQueryHandler() queries.GetOpenOrdersQueryHandler {
	return queries.NewGetOpenOrdersQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncTransitionUoWFactory func() commands.TransitionUoW

func (f FuncTransitionUoWFactory) Create() commands.TransitionUoW {
	return f()
}

type FuncShipItemUoWFactory func() commands.ShipItemUoW

func (f FuncShipItemUoWFactory) Create() commands.ShipItemUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncLedgerUoWFactory func() services.LedgerUoW

func (f FuncLedgerUoWFactory) Create() services.LedgerUoW {
	return f()
}

type FuncUsageUoWFactory func() services.UsageUoW

func (f FuncUsageUoWFactory) Create() services.UsageUoW {
	return f()
}

type FuncBoxAssignUoWFactory func() services.BoxAssignUoW

func (f FuncBoxAssignUoWFactory) Create() services.BoxAssignUoW {
	return f()
}
