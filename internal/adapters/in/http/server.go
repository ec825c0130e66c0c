// Package http exposes the fulfillment use cases over a REST API built on
// echo. Handlers translate between the wire format and the application
// commands and queries; no business rules live here.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// Server implements the HTTP handlers for the fulfillment API.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	transitionOrderHandler commands.TransitionOrderCommandHandler
	deleteOrderHandler     commands.DeleteOrderCommandHandler
	shipItemHandler        commands.ShipItemCommandHandler
	receiveStockHandler    commands.ReceiveStockCommandHandler
	recordReturnHandler    commands.RecordReturnCommandHandler

	// Query handlers
	checkAvailabilityHandler queries.CheckAvailabilityQueryHandler
	getOpenOrdersHandler     queries.GetOpenOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	deleteOrderHandler commands.DeleteOrderCommandHandler,
	shipItemHandler commands.ShipItemCommandHandler,
	receiveStockHandler commands.ReceiveStockCommandHandler,
	recordReturnHandler commands.RecordReturnCommandHandler,
	checkAvailabilityHandler queries.CheckAvailabilityQueryHandler,
	getOpenOrdersHandler queries.GetOpenOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		transitionOrderHandler:   transitionOrderHandler,
		deleteOrderHandler:       deleteOrderHandler,
		shipItemHandler:          shipItemHandler,
		receiveStockHandler:      receiveStockHandler,
		recordReturnHandler:      recordReturnHandler,
		checkAvailabilityHandler: checkAvailabilityHandler,
		getOpenOrdersHandler:     getOpenOrdersHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/open", s.GetOpenOrders)
	api.POST("/orders/:id/transition", s.TransitionOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)
	api.POST("/order-items/:id/ship", s.ShipItem)
	api.POST("/receipts", s.ReceiveStock)
	api.POST("/returns", s.RecordReturn)
	api.GET("/inventory/availability", s.CheckAvailability)
}

// APIError is the JSON error body returned on every failure.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrderItem is one requested line in an order creation request.
type NewOrderItem struct {
	ProductID    string `json:"product_id"`
	QtyRequested int    `json:"qty_requested"`
}

// NewOrder is the request body for creating an order.
type NewOrder struct {
	OrderNumber     string         `json:"order_number"`
	ClientID        *string        `json:"client_id,omitempty"`
	ShippingAddress string         `json:"shipping_address"`
	Rush            bool           `json:"rush"`
	RequiresRepack  bool           `json:"requires_repack"`
	Items           []NewOrderItem `json:"items"`
}

// OrderCreated is the response body for a created order.
type OrderCreated struct {
	ID string `json:"id"`
}

// TransitionRequest is the request body for an order status transition.
type TransitionRequest struct {
	Target         string `json:"target"`
	LocationID     string `json:"location_id,omitempty"`
	Stage          string `json:"stage,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Actor          string `json:"actor"`
}

// TransitionResponse reports the statuses around a transition and, when the
// transition touched the ledger, the reservation outcome.
type TransitionResponse struct {
	PreviousStatus string         `json:"previous_status"`
	NewStatus      string         `json:"new_status"`
	Reservation    map[string]any `json:"reservation,omitempty"`
}

// ShipItemRequest is the request body for recording shipped units.
type ShipItemRequest struct {
	QtyShipped int    `json:"qty_shipped"`
	LocationID string `json:"location_id"`
	Stage      string `json:"stage"`
	Actor      string `json:"actor"`
}

// ReceiptRequest is the request body for receiving stock.
type ReceiptRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Stage      string `json:"stage"`
	Qty        int    `json:"qty"`
	Reference  string `json:"reference"`
	Actor      string `json:"actor"`
}

// ReturnRequest is the request body for recording a client return.
type ReturnRequest struct {
	OrderID    string `json:"order_id"`
	ProductID  string `json:"product_id"`
	Qty        int    `json:"qty"`
	LocationID string `json:"location_id"`
	Stage      string `json:"stage"`
	Actor      string `json:"actor"`
}

// ReturnRecorded is the response body for a recorded return.
type ReturnRecorded struct {
	ReturnID string `json:"return_id"`
}

// Availability is the response body for an availability check.
type Availability struct {
	QtyOnHand    int  `json:"qty_on_hand"`
	QtyReserved  int  `json:"qty_reserved"`
	QtyAvailable int  `json:"qty_available"`
	CanFulfill   bool `json:"can_fulfill"`
	Shortfall    int  `json:"shortfall"`
}

// OpenOrder is one row of the open orders listing.
type OpenOrder struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	Rush        bool      `json:"rush"`
	CreatedAt   time.Time `json:"created_at"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /api/v1/orders - registers a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	var clientID *kernel.UUID
	if body.ClientID != nil {
		parsed, err := kernel.UUIDFromString(*body.ClientID)
		if err != nil {
			return badRequest(ctx, "Invalid client id: "+err.Error())
		}
		clientID = &parsed
	}

	items := make([]commands.ItemSpec, 0, len(body.Items))
	for _, item := range body.Items {
		productID, err := kernel.UUIDFromString(item.ProductID)
		if err != nil {
			return badRequest(ctx, "Invalid product id: "+err.Error())
		}
		items = append(items, commands.ItemSpec{
			ItemID:       kernel.NewUUID(),
			ProductID:    productID,
			QtyRequested: item.QtyRequested,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, body.OrderNumber, clientID, items,
		body.ShippingAddress, body.Rush, body.RequiresRepack,
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return failure(ctx, handleErr, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, OrderCreated{ID: orderID.String()})
}

// TransitionOrder handles POST /api/v1/orders/:id/transition - moves an
// order to a target status.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var body TransitionRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.StatusFromString(body.Target)
	if err != nil {
		return badRequest(ctx, "Invalid target status: "+err.Error())
	}

	locationID, stage, err := parseStockCoordinates(body.LocationID, body.Stage)
	if err != nil {
		return badRequest(ctx, "Invalid stock coordinates: "+err.Error())
	}

	cmd, err := commands.NewTransitionOrderCommand(
		orderID, target, locationID, stage, body.Carrier, body.TrackingNumber, body.Actor,
	)
	if err != nil {
		return badRequest(ctx, "Invalid transition data: "+err.Error())
	}

	report, err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return failure(ctx, err, "Failed to transition order")
	}

	response := TransitionResponse{
		PreviousStatus: report.PreviousStatus.String(),
		NewStatus:      report.NewStatus.String(),
	}
	if report.Reservation != nil {
		response.Reservation = report.Reservation.ToLogContext()
	}

	return ctx.JSON(http.StatusOK, response)
}

// DeleteOrder handles DELETE /api/v1/orders/:id - removes an unshipped order.
func (s *Server) DeleteOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	if handleErr := s.deleteOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return failure(ctx, handleErr, "Failed to delete order")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ShipItem handles POST /api/v1/order-items/:id/ship - records the shipped
// quantity on an order item.
func (s *Server) ShipItem(ctx echo.Context) error {
	itemID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid item id: "+err.Error())
	}

	var body ShipItemRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	locationID, stage, err := parseStockCoordinates(body.LocationID, body.Stage)
	if err != nil {
		return badRequest(ctx, "Invalid stock coordinates: "+err.Error())
	}

	cmd, err := commands.NewShipItemCommand(itemID, body.QtyShipped, locationID, stage, body.Actor)
	if err != nil {
		return badRequest(ctx, "Invalid ship data: "+err.Error())
	}

	if handleErr := s.shipItemHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return failure(ctx, handleErr, "Failed to record shipped quantity")
	}

	return ctx.NoContent(http.StatusOK)
}

// ReceiveStock handles POST /api/v1/receipts - records inbound stock.
func (s *Server) ReceiveStock(ctx echo.Context) error {
	var body ReceiptRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	productID, err := kernel.UUIDFromString(body.ProductID)
	if err != nil {
		return badRequest(ctx, "Invalid product id: "+err.Error())
	}

	locationID, stage, err := parseStockCoordinates(body.LocationID, body.Stage)
	if err != nil {
		return badRequest(ctx, "Invalid stock coordinates: "+err.Error())
	}

	cmd, err := commands.NewReceiveStockCommand(
		productID, locationID, stage, body.Qty, body.Reference, body.Actor,
	)
	if err != nil {
		return badRequest(ctx, "Invalid receipt data: "+err.Error())
	}

	if handleErr := s.receiveStockHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return failure(ctx, handleErr, "Failed to receive stock")
	}

	return ctx.NoContent(http.StatusCreated)
}

// RecordReturn handles POST /api/v1/returns - restocks returned units and
// bills return handling for client orders.
func (s *Server) RecordReturn(ctx echo.Context) error {
	var body ReturnRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(body.OrderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	productID, err := kernel.UUIDFromString(body.ProductID)
	if err != nil {
		return badRequest(ctx, "Invalid product id: "+err.Error())
	}

	locationID, stage, err := parseStockCoordinates(body.LocationID, body.Stage)
	if err != nil {
		return badRequest(ctx, "Invalid stock coordinates: "+err.Error())
	}

	returnID := kernel.NewUUID()
	cmd, err := commands.NewRecordReturnCommand(
		returnID, orderID, productID, body.Qty, locationID, stage, body.Actor,
	)
	if err != nil {
		return badRequest(ctx, "Invalid return data: "+err.Error())
	}

	if handleErr := s.recordReturnHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return failure(ctx, handleErr, "Failed to record return")
	}

	return ctx.JSON(http.StatusCreated, ReturnRecorded{ReturnID: returnID.String()})
}

// CheckAvailability handles GET /api/v1/inventory/availability - reports
// whether a requested quantity can be fulfilled from available stock.
func (s *Server) CheckAvailability(ctx echo.Context) error {
	productID, err := kernel.UUIDFromString(ctx.QueryParam("product_id"))
	if err != nil {
		return badRequest(ctx, "Invalid product id: "+err.Error())
	}

	locationID, stage, err := parseStockCoordinates(ctx.QueryParam("location_id"), ctx.QueryParam("stage"))
	if err != nil {
		return badRequest(ctx, "Invalid stock coordinates: "+err.Error())
	}

	qty := 0
	if raw := ctx.QueryParam("qty"); raw != "" {
		qty, err = strconv.Atoi(raw)
		if err != nil {
			return badRequest(ctx, "Invalid qty: "+err.Error())
		}
	}

	query, err := queries.NewCheckAvailabilityQuery(productID, locationID, stage, qty)
	if err != nil {
		return badRequest(ctx, "Invalid availability query: "+err.Error())
	}

	result, err := s.checkAvailabilityHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return failure(ctx, err, "Failed to check availability")
	}

	return ctx.JSON(http.StatusOK, Availability{
		QtyOnHand:    result.QtyOnHand,
		QtyReserved:  result.QtyReserved,
		QtyAvailable: result.QtyAvailable,
		CanFulfill:   result.CanFulfill,
		Shortfall:    result.Shortfall,
	})
}

// GetOpenOrders handles GET /api/v1/orders/open - lists orders still in the
// pipeline, rush orders first.
func (s *Server) GetOpenOrders(ctx echo.Context) error {
	query := queries.NewGetOpenOrdersQuery()

	orders, err := s.getOpenOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return failure(ctx, err, "Failed to retrieve orders")
	}

	response := make([]OpenOrder, len(orders))
	for i, row := range orders {
		response[i] = OpenOrder{
			ID:          row.ID.String(),
			OrderNumber: row.OrderNumber,
			Status:      row.Status,
			Rush:        row.Rush,
			CreatedAt:   row.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// parseStockCoordinates parses the optional location and stage pair.
// Empty values pass through as zero values; the command constructors decide
// whether the operation requires them.
func parseStockCoordinates(rawLocation, rawStage string) (kernel.UUID, inventory.Stage, error) {
	var locationID kernel.UUID
	var stage inventory.Stage

	if rawLocation != "" {
		parsed, err := kernel.UUIDFromString(rawLocation)
		if err != nil {
			return kernel.UUID{}, stage, err
		}
		locationID = parsed
	}

	if rawStage != "" {
		parsed, err := inventory.StageFromString(rawStage)
		if err != nil {
			return locationID, stage, err
		}
		stage = parsed
	}

	return locationID, stage, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, APIError{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// failure maps a use case error to its HTTP status: missing objects are 404,
// state and stock conflicts are 409, invalid values are 400, the rest 500.
func failure(ctx echo.Context, err error, message string) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, inventory.ErrInsufficientAvailable),
		errors.Is(err, inventory.ErrInsufficientOnHand),
		errors.Is(err, inventory.ErrInsufficientReserved),
		errors.Is(err, order.ErrCannotDeleteShippedOrder):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, APIError{
		Code:    code,
		Message: message + ": " + err.Error(),
	})
}
